package stack

// Stack is a LIFO backed by a slice that doubles when full.
type Stack[T any] struct {
	size int
	data []T
}

func New[T any]() *Stack[T] {
	return &Stack[T]{}
}

// WithCapacity preallocates room for n elements.
func WithCapacity[T any](n int) *Stack[T] {
	if n < 0 {
		n = 0
	}
	return &Stack[T]{data: make([]T, n)}
}

func (s *Stack[T]) Len() int {
	return s.size
}

func (s *Stack[T]) Cap() int {
	return len(s.data)
}

func (s *Stack[T]) ensureCapacity() {
	if s.size < len(s.data) {
		return
	}

	newCap := s.size * 2
	if newCap < 4 {
		newCap = 4
	}
	newData := make([]T, newCap)
	copy(newData, s.data[:s.size])
	s.data = newData
}

func (s *Stack[T]) Push(value T) {
	s.ensureCapacity()
	s.data[s.size] = value
	s.size++
}

// Peek returns a pointer to the top element, or nil when the stack is empty.
func (s *Stack[T]) Peek() *T {
	if s.size == 0 {
		return nil
	}
	return &s.data[s.size-1]
}

// Pop removes and returns the top element. An empty stack yields the zero value
// and false.
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	if s.size == 0 {
		return zero, false
	}

	s.size--
	value := s.data[s.size]
	s.data[s.size] = zero
	return value, true
}

// Items returns the elements bottom to top. The slice is a copy.
func (s *Stack[T]) Items() []T {
	items := make([]T, s.size)
	copy(items, s.data[:s.size])
	return items
}
