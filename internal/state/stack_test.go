package state

import "testing"

func TestStackPushPop(t *testing.T) {
	s := NewStack[int](4)
	for i := 1; i <= 3; i++ {
		s.Push(i)
	}
	if s.Len() != 3 || s.Cap() != 4 {
		t.Fatalf("Len() = %d, Cap() = %d, want 3, 4", s.Len(), s.Cap())
	}
	if v, ok := s.Peek(); !ok || v != 3 {
		t.Fatalf("Peek() = %d, %v, want 3, true", v, ok)
	}
	for want := 3; want >= 1; want-- {
		if v, ok := s.Pop(); !ok || v != want {
			t.Fatalf("Pop() = %d, %v, want %d, true", v, ok, want)
		}
	}
	if _, ok := s.Pop(); ok {
		t.Fatalf("Pop() on empty stack ok = true")
	}
}

func TestStackOverflowKeepsDepth(t *testing.T) {
	s := NewStack[string](2)
	s.Push("a")
	s.Push("b")
	s.Push("c")
	if s.Len() != 3 || !s.Overflowed() {
		t.Fatalf("Len() = %d, Overflowed() = %v, want 3, true", s.Len(), s.Overflowed())
	}
	if _, ok := s.Peek(); ok {
		t.Fatalf("Peek() on overflowed top ok = true")
	}
	if _, ok := s.Pop(); ok {
		t.Fatalf("Pop() of unstored value ok = true")
	}
	if v, ok := s.Pop(); !ok || v != "b" {
		t.Fatalf("Pop() = %q, %v, want b, true", v, ok)
	}
}

func TestStackTruncateAndReset(t *testing.T) {
	s := NewStack[int](8)
	for i := range 5 {
		s.Push(i)
	}
	s.Truncate(2)
	if got := s.Items(); len(got) != 2 || got[1] != 1 {
		t.Fatalf("Items() after Truncate(2) = %v", got)
	}
	s.Truncate(10)
	if s.Len() != 2 {
		t.Fatalf("Truncate above depth changed Len() to %d", s.Len())
	}
	s.Reset()
	if s.Len() != 0 || s.Cap() != 8 {
		t.Fatalf("Reset() left Len() = %d, Cap() = %d", s.Len(), s.Cap())
	}
}

func TestZeroStackCountsOnly(t *testing.T) {
	var s Stack[int]
	s.Push(1)
	if s.Len() != 1 || !s.Overflowed() {
		t.Fatalf("zero Stack Len() = %d, Overflowed() = %v", s.Len(), s.Overflowed())
	}
}
