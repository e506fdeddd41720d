package setting

import (
	"io"

	"github.com/jacoelho/devconf/errors"
)

const (
	unsetHeader   = "[WARNING] some settings were not set:"
	invalidHeader = "[ERROR] some values are not valid:"
)

// Handler validates and applies a collection of settings, sorting failures
// into unset and invalid buckets. The code payload is the setting ID.
type Handler[C any] struct {
	settings []Setting[C]
	mode     Mode
	unset    *errors.Handler
	invalid  *errors.Handler
}

// NewHandler returns a handler over settings. The handler does not own the
// slice; parsers fill the same settings before the handler runs. Both buckets
// are sized to len(settings).
func NewHandler[C any](settings []Setting[C], mode Mode) *Handler[C] {
	return &Handler[C]{
		settings: settings,
		mode:     mode,
		unset:    errors.NewHandler(len(settings)),
		invalid:  errors.NewHandler(len(settings)),
	}
}

// ValidateAll validates every setting without applying any.
func (h *Handler[C]) ValidateAll() {
	for i := range h.settings {
		s := &h.settings[i]
		if err := s.Validate(h.mode); err != nil {
			h.record(s, err)
		}
	}
}

// ApplyAll applies every cached value. It should follow a ValidateAll that
// reported no errors.
func (h *Handler[C]) ApplyAll(cfg *C) {
	for i := range h.settings {
		h.settings[i].Apply(cfg)
	}
}

// ApplyValid validates each setting in declaration order and applies it
// immediately when valid, so later actions observe earlier ones.
func (h *Handler[C]) ApplyValid(cfg *C) {
	for i := range h.settings {
		s := &h.settings[i]
		if err := s.Validate(h.mode); err != nil {
			h.record(s, err)
			continue
		}
		s.Apply(cfg)
	}
}

func (h *Handler[C]) record(s *Setting[C], err error) {
	kind, ok := err.(errors.ValidationError)
	if !ok {
		kind = errors.ValidateUnspecified
	}
	if kind == errors.SettingUnset {
		if s.IsOptional() {
			return
		}
		h.unset.AddKind(kind, uint32(s.ID()))
		return
	}
	h.invalid.AddKind(kind, uint32(s.ID()))
}

func (h *Handler[C]) HasValidationErrors() bool { return h.HasUnsetErrors() || h.HasInvalidErrors() }
func (h *Handler[C]) HasUnsetErrors() bool      { return h.unset.HasErrors() }
func (h *Handler[C]) HasInvalidErrors() bool    { return h.invalid.HasErrors() }

// Unset returns the bucket of required settings that had no value.
func (h *Handler[C]) Unset() *errors.Handler { return h.unset }

// Invalid returns the bucket of settings whose value was rejected.
func (h *Handler[C]) Invalid() *errors.Handler { return h.invalid }

// Codes returns the unset codes followed by the invalid codes.
func (h *Handler[C]) Codes() errors.CodeList {
	out := h.unset.List()
	return append(out, h.invalid.Codes()...)
}

// Clear empties both buckets.
func (h *Handler[C]) Clear() {
	h.unset.Clear()
	h.invalid.Clear()
}

// Report writes the unset bucket as a warning and the invalid bucket as an
// error. Empty buckets write nothing.
func (h *Handler[C]) Report(w io.Writer) error {
	if err := h.unset.Format(w, unsetHeader); err != nil {
		return err
	}
	return h.invalid.Format(w, invalidHeader)
}

func (h *Handler[C]) Mode() Mode        { return h.mode }
func (h *Handler[C]) SetMode(mode Mode) { h.mode = mode }

// Settings returns the settings the handler walks.
func (h *Handler[C]) Settings() []Setting[C] { return h.settings }

// SetSettings replaces the walked settings. Empty slices and slices larger
// than the bucket capacity are ignored.
func (h *Handler[C]) SetSettings(settings []Setting[C]) {
	if len(settings) == 0 || len(settings) > h.unset.Capacity() {
		return
	}
	h.settings = settings
}
