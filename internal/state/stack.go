// Package state holds fixed-capacity containers for parser state.
package state

// Stack is a LIFO stack whose storage is allocated once by NewStack. Pushes
// past the capacity are counted but not stored, so Len stays exact while the
// overflowing values are lost. The zero value has no storage.
type Stack[T any] struct {
	items []T
	depth int
}

// NewStack creates a stack storing at most capacity values.
func NewStack[T any](capacity int) Stack[T] {
	return Stack[T]{items: make([]T, 0, max(capacity, 0))}
}

// Push adds one value to the stack top.
func (s *Stack[T]) Push(value T) {
	if len(s.items) < cap(s.items) {
		s.items = append(s.items, value)
	}
	s.depth++
}

// Pop removes the top value. The value is only returned, with ok set, when
// it was stored.
func (s *Stack[T]) Pop() (value T, ok bool) {
	if s.depth == 0 {
		return value, false
	}
	value, ok = s.Peek()
	s.depth--
	if ok {
		s.items = s.items[:len(s.items)-1]
	}
	return value, ok
}

// Peek returns the top value without removing it.
func (s *Stack[T]) Peek() (T, bool) {
	var zero T
	if s.depth == 0 || s.Overflowed() {
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// Len reports the current depth, overflow included.
func (s *Stack[T]) Len() int { return s.depth }

// Cap reports how many values can be stored.
func (s *Stack[T]) Cap() int { return cap(s.items) }

// Overflowed reports whether the top of the stack was not stored.
func (s *Stack[T]) Overflowed() bool { return s.depth > len(s.items) }

// Items returns the stored values in push order. The slice aliases the
// stack and is valid until the next mutation.
func (s *Stack[T]) Items() []T { return s.items }

// Truncate drops every value above depth n.
func (s *Stack[T]) Truncate(n int) {
	if n < 0 || n >= s.depth {
		return
	}
	s.depth = n
	s.items = s.items[:min(n, len(s.items))]
}

// Reset clears the stack while retaining capacity.
func (s *Stack[T]) Reset() {
	s.items = s.items[:0]
	s.depth = 0
}
