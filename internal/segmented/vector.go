// Package segmented provides append-only arrays stored in fixed-size segments.
//
// Growing never moves existing elements, so pointers and slices handed out by
// At remain valid for the lifetime of the container.
package segmented

import "unsafe"

// SegmentBytes is the target size of a single segment.
const SegmentBytes = 8192

func perSegment(elemBytes uintptr) int {
	if elemBytes == 0 {
		return SegmentBytes
	}
	n := int(SegmentBytes / elemBytes)
	if n < 1 {
		return 1
	}
	return n
}

// Vector is a growable array of T with stable element addresses.
type Vector[T any] struct {
	segments [][]T
	perSeg   int
	size     int
}

// NewVector creates an empty vector.
func NewVector[T any]() *Vector[T] {
	var zero T
	return &Vector[T]{perSeg: perSegment(unsafe.Sizeof(zero))}
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int {
	return v.size
}

// At returns a pointer to element i. It panics when i is out of range.
func (v *Vector[T]) At(i int) *T {
	if i < 0 || i >= v.size {
		panic("segmented: index out of range")
	}
	return &v.segments[i/v.perSeg][i%v.perSeg]
}

// PushBack appends an element and returns its index.
func (v *Vector[T]) PushBack(val T) int {
	seg, off := v.size/v.perSeg, v.size%v.perSeg
	if seg == len(v.segments) {
		v.segments = append(v.segments, make([]T, v.perSeg))
	}
	v.segments[seg][off] = val
	v.size++
	return v.size - 1
}

// Resize grows the vector to n elements, filling new slots with fill.
// Shrinking is not supported; smaller sizes are ignored.
func (v *Vector[T]) Resize(n int, fill T) {
	for v.size < n {
		v.PushBack(fill)
	}
}

// Segments returns the number of allocated segments.
func (v *Vector[T]) Segments() int {
	return len(v.segments)
}
