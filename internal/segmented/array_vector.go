package segmented

import "unsafe"

// ArrayVector stores fixed-width arrays of T back to back in segments.
type ArrayVector[T any] struct {
	segments [][]T
	width    int
	perSeg   int
	size     int
}

// NewArrayVector creates an empty vector of arrays with the given width.
func NewArrayVector[T any](width int) *ArrayVector[T] {
	if width < 0 {
		panic("segmented: negative array width")
	}
	var zero T
	return &ArrayVector[T]{
		width:  width,
		perSeg: perSegment(uintptr(width) * unsafe.Sizeof(zero)),
	}
}

// Width returns the fixed array width.
func (v *ArrayVector[T]) Width() int {
	return v.width
}

// Len returns the number of arrays.
func (v *ArrayVector[T]) Len() int {
	return v.size
}

// At returns array i as a slice aliasing the segment. Its capacity is capped
// at the array width so appends never clobber a neighbour.
func (v *ArrayVector[T]) At(i int) []T {
	if i < 0 || i >= v.size {
		panic("segmented: index out of range")
	}
	start := (i % v.perSeg) * v.width
	return v.segments[i/v.perSeg][start : start+v.width : start+v.width]
}

// PushBack copies arr into a new slot and returns its index.
func (v *ArrayVector[T]) PushBack(arr []T) int {
	if len(arr) != v.width {
		panic("segmented: array width mismatch")
	}
	seg, off := v.size/v.perSeg, v.size%v.perSeg
	if seg == len(v.segments) {
		v.segments = append(v.segments, make([]T, v.perSeg*v.width))
	}
	copy(v.segments[seg][off*v.width:], arr)
	v.size++
	return v.size - 1
}

// PopBack drops the most recently pushed array.
func (v *ArrayVector[T]) PopBack() {
	if v.size == 0 {
		panic("segmented: pop from empty vector")
	}
	v.size--
}
