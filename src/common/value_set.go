package common

import "sort"

// ValueSet is an append-only set of broadcast values. Membership only grows.
type ValueSet struct {
	items map[int]struct{}
}

// NewValueSet ...
func NewValueSet() *ValueSet {
	return &ValueSet{
		items: make(map[int]struct{}),
	}
}

// Add inserts v and reports whether it was not already present.
func (s *ValueSet) Add(v int) bool {
	if _, ok := s.items[v]; ok {
		return false
	}
	s.items[v] = struct{}{}
	return true
}

// Contains ...
func (s *ValueSet) Contains(v int) bool {
	_, ok := s.items[v]
	return ok
}

// Len returns the number of distinct values seen so far.
func (s *ValueSet) Len() int {
	return len(s.items)
}

// Values returns a sorted snapshot of the set. The returned slice is never
// nil, so it always encodes as a JSON array.
func (s *ValueSet) Values() []int {
	res := make([]int, 0, len(s.items))
	for v := range s.items {
		res = append(res, v)
	}
	sort.Ints(res)
	return res
}
