package common

import "testing"

func TestSequenceStartsAtOne(t *testing.T) {
	s := NewSequence()
	if c := s.Current(); c != 0 {
		t.Fatalf("Current() should be 0 before any allocation, not %d", c)
	}
	if n := s.Next(); n != 1 {
		t.Fatalf("first Next() should be 1, not %d", n)
	}
	if c := s.Current(); c != 1 {
		t.Fatalf("Current() should be 1, not %d", c)
	}
}

func TestSequenceMonotonic(t *testing.T) {
	var s Sequence
	prev := 0
	for i := 0; i < 1000; i++ {
		n := s.Next()
		if n <= prev {
			t.Fatalf("Next() returned %d after %d", n, prev)
		}
		prev = n
	}
}
