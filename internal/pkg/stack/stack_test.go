package stack

import (
	"testing"
)

func TestNew(t *testing.T) {
	s := New[int]()
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.Len() != 0 {
		t.Errorf("Len() returned %v, not %v", s.Len(), 0)
	}
	if s.Cap() != 0 {
		t.Errorf("Cap() returned %v, not %v", s.Cap(), 0)
	}
}

func TestPushLen(t *testing.T) {
	s := New[int]()
	for i := 1; i <= 10; i++ {
		s.Push(i)
		if s.Len() != i {
			t.Errorf("Len() returned %v, not %v", s.Len(), i)
		}
	}
}

func TestCapGrowth(t *testing.T) {
	s := New[int]()
	s.Push(0)
	if s.Cap() != 4 {
		t.Errorf("Cap() returned %v, not %v", s.Cap(), 4)
	}
	for i := 0; i < 4; i++ {
		s.Push(i)
	}
	if s.Cap() != 8 {
		t.Errorf("Cap() returned %v, not %v", s.Cap(), 8)
	}
}

func TestWithCapacity(t *testing.T) {
	s := WithCapacity[string](16)
	if s.Cap() != 16 {
		t.Errorf("Cap() returned %v, not %v", s.Cap(), 16)
	}
	if s.Len() != 0 {
		t.Errorf("Len() returned %v, not %v", s.Len(), 0)
	}
	s.Push("a")
	if s.Cap() != 16 {
		t.Errorf("Cap() changed to %v after a single push", s.Cap())
	}
}

func TestPeek(t *testing.T) {
	s := New[int]()

	if value := s.Peek(); value != nil {
		t.Errorf("Peek() returned %v, not nil", *value)
	}

	s.Push(1)
	s.Push(2)
	value := s.Peek()
	if value == nil || *value != 2 {
		t.Errorf("Peek() returned %v, not %v", value, 2)
	}
	if s.Len() != 2 {
		t.Errorf("Len() returned %v, not %v", s.Len(), 2)
	}

	*value = 5
	if top, _ := s.Pop(); top != 5 {
		t.Errorf("Peek() pointer did not alias the top element, got %v", top)
	}
}

func TestPop(t *testing.T) {
	s := New[int]()

	if value, ok := s.Pop(); ok || value != 0 {
		t.Errorf("Pop() on empty stack returned (%v, %v)", value, ok)
	}

	s.Push(1)
	s.Push(2)
	s.Push(3)
	for _, expected := range []int{3, 2, 1} {
		value, ok := s.Pop()
		if !ok || value != expected {
			t.Errorf("Pop() returned (%v, %v), not %v", value, ok, expected)
		}
	}
	if s.Len() != 0 {
		t.Errorf("Len() returned %v, not %v", s.Len(), 0)
	}
}

func TestItems(t *testing.T) {
	s := New[string]()
	s.Push("a")
	s.Push("b")

	items := s.Items()
	if len(items) != 2 || items[0] != "a" || items[1] != "b" {
		t.Errorf("Items() returned %v", items)
	}

	items[0] = "z"
	if got := s.Items()[0]; got != "a" {
		t.Errorf("Items() did not return a copy, stack now has %q", got)
	}
}
