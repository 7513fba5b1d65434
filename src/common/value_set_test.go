package common

import (
	"reflect"
	"testing"
)

func TestValueSetAdd(t *testing.T) {
	s := NewValueSet()

	if !s.Add(5) {
		t.Fatal("first Add(5) should report a new value")
	}
	if s.Add(5) {
		t.Fatal("second Add(5) should not report a new value")
	}
	if !s.Contains(5) {
		t.Fatal("set should contain 5")
	}
	if s.Contains(6) {
		t.Fatal("set should not contain 6")
	}
	if l := s.Len(); l != 1 {
		t.Fatalf("Len() should be 1, not %d", l)
	}
}

func TestValueSetValues(t *testing.T) {
	s := NewValueSet()

	if v := s.Values(); v == nil || len(v) != 0 {
		t.Fatalf("empty set should return an empty non-nil slice, got %#v", v)
	}

	for _, v := range []int{9, 3, 7, 3, 1, 9} {
		s.Add(v)
	}

	expected := []int{1, 3, 7, 9}
	if v := s.Values(); !reflect.DeepEqual(v, expected) {
		t.Fatalf("Values() should be %v, not %v", expected, v)
	}
}
