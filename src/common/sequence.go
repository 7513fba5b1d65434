package common

// Sequence is a strictly monotonic id allocator. The zero value is ready to
// use and the first id it hands out is 1.
type Sequence struct {
	last int
}

// NewSequence returns a Sequence starting from 0.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next increments the counter and returns the new value.
func (s *Sequence) Next() int {
	s.last++
	return s.last
}

// Current returns the last allocated id, or 0 if none was allocated yet.
func (s *Sequence) Current() int {
	return s.last
}
