// Package pipeline runs one config cycle: parse, validate and apply the
// settings, then verify the resulting record.
package pipeline

import (
	"context"
	"io"
	"log/slog"

	"github.com/jacoelho/devconf/errors"
	"github.com/jacoelho/devconf/internal/parser"
	"github.com/jacoelho/devconf/internal/setting"
	"github.com/jacoelho/devconf/internal/verify"
)

const verifyHeader = "[ERROR] the config does not satisfy every rule:"

// Status is the indicator raised to the surrounding system after a cycle.
type Status uint8

const (
	StatusOperational Status = iota
	StatusFailure
)

func (s Status) String() string {
	if s == StatusFailure {
		return "failure"
	}
	return "operational"
}

// Record is the constraint on the record a processor fills. Reset must
// restore the documented defaults.
type Record[C any] interface {
	*C
	Reset()
	SetStatus(Status)
}

// Stage names the step of a cycle that rejected the input.
type Stage string

const (
	StageNone         Stage = ""
	StageParsing      Stage = "parsing"
	StageValidation   Stage = "validation"
	StageVerification Stage = "verification"
)

// Processor owns a record, its settings and the parser that fills them.
// It is not safe for concurrent use.
type Processor[C any, P Record[C], In any] struct {
	cfg      C
	settings []setting.Setting[C]
	parser   parser.Parser[In]
	handler  *setting.Handler[C]
	rules    []verify.Rule[C]
	verified *errors.Handler
	logger   *slog.Logger
}

// Config describes the parts of a Processor.
type Config[C any, In any] struct {
	// Settings are used in place; pass a setting.Clone of a shared table.
	Settings []setting.Setting[C]
	// NewParser builds the parser over Settings.
	NewParser func([]setting.Setting[C]) parser.Parser[In]
	Mode      setting.Mode
	Rules     []verify.Rule[C]
	// Logger receives one record per rejected cycle. Nil disables logging.
	Logger *slog.Logger
}

// New returns a processor whose record starts at its defaults.
func New[C any, P Record[C], In any](cfg Config[C, In]) *Processor[C, P, In] {
	p := &Processor[C, P, In]{
		settings: cfg.Settings,
		parser:   cfg.NewParser(cfg.Settings),
		handler:  setting.NewHandler(cfg.Settings, cfg.Mode),
		rules:    cfg.Rules,
		verified: errors.NewHandler(len(cfg.Rules)),
		logger:   cfg.Logger,
	}
	if p.logger != nil {
		p.logger = p.logger.With(slog.String("component", "pipeline"))
	}
	P(&p.cfg).Reset()
	return p
}

// Process parses in and applies every valid setting to the record. Settings
// keep nothing from a previous cycle.
func (p *Processor[C, P, In]) Process(in In) {
	for i := range p.settings {
		p.settings[i].Clear()
	}
	p.verified.Clear()
	p.parser.Parse(in)
	p.handler.Clear()
	p.handler.ApplyValid(&p.cfg)
}

// Verify checks the record against the rules and keeps the result for
// Report and Errors.
func (p *Processor[C, P, In]) Verify() *errors.Handler {
	verify.Into(p.verified, &p.cfg, p.rules)
	return p.verified
}

// HasConfigErrors reports whether the last Process found parsing or
// validation errors.
func (p *Processor[C, P, In]) HasConfigErrors() bool {
	return p.parser.HasErrors() || p.handler.HasValidationErrors()
}

// Run executes a full cycle. The record starts from its defaults. Parsing
// and validation errors skip verification and keep the best-effort record;
// a failed rule resets the record to its defaults. Any rejection sets
// StatusFailure and returns an errors.CodeList.
func (p *Processor[C, P, In]) Run(in In) (C, error) {
	P(&p.cfg).Reset()
	p.Process(in)

	switch {
	case p.parser.HasErrors():
		return p.fail(StageParsing)
	case p.handler.HasValidationErrors():
		return p.fail(StageValidation)
	}
	if p.Verify().HasErrors() {
		P(&p.cfg).Reset()
		return p.fail(StageVerification)
	}
	P(&p.cfg).SetStatus(StatusOperational)
	return p.cfg, nil
}

func (p *Processor[C, P, In]) fail(stage Stage) (C, error) {
	P(&p.cfg).SetStatus(StatusFailure)
	codes := p.Errors()
	p.logRejected(stage, codes)
	return p.cfg, codes
}

func (p *Processor[C, P, In]) logRejected(stage Stage, codes errors.CodeList) {
	if p.logger == nil {
		return
	}
	ctx := context.Background()
	p.logger.LogAttrs(ctx, slog.LevelWarn, "config rejected",
		slog.String("stage", string(stage)),
		slog.Int("errors", len(codes)))
	for _, c := range codes {
		reason := "unspecified"
		if kind := c.Kind(); kind != nil {
			reason = kind.Error()
		}
		p.logger.LogAttrs(ctx, slog.LevelDebug, "config error",
			slog.String("code", c.Hex()),
			slog.String("category", c.Category().String()),
			slog.String("reason", reason),
			slog.Uint64("payload", uint64(c.Payload())))
	}
}

// Errors returns every code of the last cycle: parsing, then unset and
// invalid settings, then failed rules. It returns nil when there are none.
func (p *Processor[C, P, In]) Errors() errors.CodeList {
	var out errors.CodeList
	out = append(out, p.parser.Errors().Codes()...)
	out = append(out, p.handler.Codes()...)
	out = append(out, p.verified.Codes()...)
	return out
}

// Report writes every error section of the last cycle.
func (p *Processor[C, P, In]) Report(w io.Writer) error {
	if err := p.parser.Report(w); err != nil {
		return err
	}
	if err := p.handler.Report(w); err != nil {
		return err
	}
	return p.verified.Format(w, verifyHeader)
}

// Config returns a copy of the record.
func (p *Processor[C, P, In]) Config() C { return p.cfg }

// Reset restores the record defaults.
func (p *Processor[C, P, In]) Reset() { P(&p.cfg).Reset() }

// SetStatus sets the status indicator of the record.
func (p *Processor[C, P, In]) SetStatus(s Status) { P(&p.cfg).SetStatus(s) }

// Settings returns the settings the processor fills.
func (p *Processor[C, P, In]) Settings() []setting.Setting[C] { return p.settings }

// Handler returns the setting handler, for inspecting the error buckets.
func (p *Processor[C, P, In]) Handler() *setting.Handler[C] { return p.handler }
