// Package verify checks a fully applied record against whole-record rules.
package verify

import "github.com/jacoelho/devconf/errors"

// RuleID identifies a rule. It is reported as the payload of verification codes.
type RuleID uint16

// Rule is a named predicate over a record. Check returns nil when the record
// satisfies the rule, or an errors.VerificationError describing why not.
type Rule[C any] struct {
	ID    RuleID
	Check func(cfg *C) error
}

// Verify runs every rule against cfg and returns a handler sized to the
// number of rules holding one code per failed rule.
func Verify[C any](cfg *C, rules []Rule[C]) *errors.Handler {
	h := errors.NewHandler(len(rules))
	Into(h, cfg, rules)
	return h
}

// Into clears h and records one code per failed rule. It allocates nothing,
// so a processor can reuse one handler sized to its rules across cycles.
func Into[C any](h *errors.Handler, cfg *C, rules []Rule[C]) {
	h.Clear()
	for _, r := range rules {
		err := r.Check(cfg)
		if err == nil {
			continue
		}
		kind, ok := err.(errors.VerificationError)
		if !ok {
			kind = errors.VerifyUnspecified
		}
		h.AddKind(kind, uint32(r.ID))
	}
}
