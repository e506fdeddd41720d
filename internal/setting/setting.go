// Package setting binds tag paths and bit spans to typed, validated values
// that are applied onto a configuration record.
package setting

import (
	"encoding/binary"
	"slices"

	"github.com/jacoelho/devconf/errors"
	"github.com/jacoelho/devconf/internal/bitspan"
	"github.com/jacoelho/devconf/internal/tagpath"
)

// MaxValueLen is the capacity of a setting's value buffer, in bytes.
const MaxValueLen = 32

// ID identifies a setting. It is reported as the payload of validation codes.
type ID uint16

// Severity controls how an unset setting is reported.
type Severity uint8

const (
	// Required settings report errors.SettingUnset when no value was found.
	Required Severity = iota
	// Optional settings are skipped when no value was found.
	Optional
)

func (s Severity) String() string {
	if s == Optional {
		return "optional"
	}
	return "required"
}

// Mode selects which representation a raw value came from.
type Mode uint8

const (
	// ModeFile values are decimal or symbolic text taken from tag content.
	ModeFile Mode = iota
	// ModeMessage values are the 8 little-endian bytes of an extracted bit span.
	ModeMessage
)

func (m Mode) String() string {
	if m == ModeMessage {
		return "message"
	}
	return "file"
}

// Validator checks raw in the given mode and returns the typed value.
// A non-nil error may come with a partially valid value; callers must not
// apply it.
type Validator func(raw []byte, mode Mode) (Value, error)

// Action stores a validated value into the record.
type Action[C any] func(v Value, cfg *C)

// Def is the static description of a setting.
type Def[C any] struct {
	ID       ID
	Path     tagpath.Path
	Severity Severity
	// Bits locates the value in a config message. The zero span means the
	// setting only exists in config files.
	Bits     bitspan.Span
	Validate Validator
	Apply    Action[C]
}

// Setting is a Def plus the value buffer filled by a parser.
type Setting[C any] struct {
	def   Def[C]
	buf   [MaxValueLen]byte
	n     uint8
	value Value
}

// Build turns defs into settings whose paths are padded to the deepest path
// of the collection.
func Build[C any](defs ...Def[C]) []Setting[C] {
	depth := 0
	for _, d := range defs {
		depth = max(depth, d.Path.Depth())
	}
	out := make([]Setting[C], len(defs))
	for i, d := range defs {
		d.Path = d.Path.Pad(depth)
		out[i] = Setting[C]{def: d}
	}
	return out
}

// Clone returns an independent copy of settings with every buffer cleared.
func Clone[C any](settings []Setting[C]) []Setting[C] {
	out := slices.Clone(settings)
	for i := range out {
		out[i].Clear()
	}
	return out
}

// MaxDepth returns the shared path depth of settings.
func MaxDepth[C any](settings []Setting[C]) int {
	if len(settings) == 0 {
		return 0
	}
	return settings[0].def.Path.Depth()
}

func (s *Setting[C]) ID() ID             { return s.def.ID }
func (s *Setting[C]) Path() tagpath.Path { return s.def.Path }
func (s *Setting[C]) Severity() Severity { return s.def.Severity }
func (s *Setting[C]) Bits() bitspan.Span { return s.def.Bits }
func (s *Setting[C]) IsOptional() bool   { return s.def.Severity == Optional }
func (s *Setting[C]) IsSet() bool        { return s.n > 0 }
func (s *Setting[C]) Raw() []byte        { return s.buf[:s.n] }
func (s *Setting[C]) Value() Value       { return s.value }
func (s *Setting[C]) InMessage() bool    { return !s.def.Bits.IsZero() }
func (s *Setting[C]) Def() Def[C]        { return s.def }
func (s *Setting[C]) String() string     { return s.def.Path.String() }

// SetText stores b, truncated to MaxValueLen bytes. It reports whether b fit.
func (s *Setting[C]) SetText(b []byte) bool {
	s.n = uint8(copy(s.buf[:], b))
	return len(b) <= MaxValueLen
}

// SetRaw stores v as 8 little-endian bytes.
func (s *Setting[C]) SetRaw(v uint64) {
	binary.LittleEndian.PutUint64(s.buf[:8], v)
	s.n = 8
}

// Clear empties the buffer and the cached value.
func (s *Setting[C]) Clear() {
	s.n = 0
	s.value = Value{}
}

// Validate runs the validator over the stored value and caches the result.
// An empty buffer yields errors.SettingUnset without calling the validator.
func (s *Setting[C]) Validate(mode Mode) error {
	if s.n == 0 {
		s.value = Value{}
		return errors.SettingUnset
	}
	v, err := s.def.Validate(s.buf[:s.n], mode)
	s.value = v
	return err
}

// Apply stores the cached value into cfg. It must follow a successful
// Validate in the same cycle.
func (s *Setting[C]) Apply(cfg *C) {
	s.def.Apply(s.value, cfg)
}
