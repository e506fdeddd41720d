package errors

import (
	"fmt"
	"io"
)

// Handler collects codes in a buffer allocated once at construction.
// When the buffer is full, Add overwrites the last slot so the most recent
// code is always kept.
type Handler struct {
	codes []Code
	count int
}

// NewHandler returns a handler that holds at most capacity codes.
func NewHandler(capacity int) *Handler {
	return &Handler{codes: make([]Code, max(capacity, 0))}
}

// Add records c.
func (h *Handler) Add(c Code) {
	if len(h.codes) == 0 {
		return
	}
	if h.count == len(h.codes) {
		h.codes[h.count-1] = c
		return
	}
	h.codes[h.count] = c
	h.count++
}

// AddKind records a code for kind with a 24-bit payload.
func (h *Handler) AddKind(kind Kind, payload uint32) {
	h.Add(NewCode(kind, payload))
}

// AddPosition records a code for kind carrying a column and a line.
func (h *Handler) AddPosition(kind Kind, column, line int) {
	h.Add(PositionCode(kind, column, line))
}

// Count returns the number of recorded codes.
func (h *Handler) Count() int { return h.count }

// Capacity returns the fixed size of the buffer.
func (h *Handler) Capacity() int { return len(h.codes) }

// Full reports whether the next Add will overwrite the last slot.
func (h *Handler) Full() bool { return h.count == len(h.codes) }

// HasErrors reports whether at least one code was recorded.
func (h *Handler) HasErrors() bool { return h.count > 0 }

// Codes returns the recorded codes. The slice aliases the handler buffer
// and is only valid until the next Add or Clear.
func (h *Handler) Codes() []Code { return h.codes[:h.count] }

// List returns a copy of the recorded codes as an error value.
// It returns nil when nothing was recorded.
func (h *Handler) List() CodeList {
	if h.count == 0 {
		return nil
	}
	return append(CodeList(nil), h.codes[:h.count]...)
}

// Clear forgets every recorded code. The buffer is reused.
func (h *Handler) Clear() {
	clear(h.codes[:h.count])
	h.count = 0
}

// Format writes header followed by one line per recorded code.
// Nothing is written when the handler is empty.
func (h *Handler) Format(w io.Writer, header string) error {
	if h.count == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for _, c := range h.codes[:h.count] {
		if _, err := fmt.Fprintf(w, "  %s\n", c); err != nil {
			return err
		}
	}
	return nil
}
