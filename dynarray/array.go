package dynarray

import (
	"github.com/cockroachdb/errors"
	"github.com/hupe1980/terse/endian"
)

// Array is a growable buffer of trivially copyable elements.
type Array[T Trivial] struct {
	data  []T
	alloc Allocator[T]
}

// New returns an empty array using alloc.
func New[T Trivial](alloc Allocator[T]) *Array[T] {
	return &Array[T]{alloc: alloc}
}

// NewSize returns a zero-filled array of n elements.
func NewSize[T Trivial](n int, alloc Allocator[T]) *Array[T] {
	a := New(alloc)
	a.Resize(n)
	return a
}

// NewFilled returns an array of n copies of v.
func NewFilled[T Trivial](n int, v T, alloc Allocator[T]) *Array[T] {
	a := New(alloc)
	a.ResizeFill(n, v)
	return a
}

// FromSlice returns an array holding a copy of s.
func FromSlice[T Trivial](s []T, alloc Allocator[T]) *Array[T] {
	a := New(alloc)
	a.Assign(s)
	return a
}

// Len returns the number of elements.
func (a *Array[T]) Len() int { return len(a.data) }

// Cap returns the number of elements the current storage can hold.
func (a *Array[T]) Cap() int { return cap(a.data) }

// Empty reports whether the array holds no elements.
func (a *Array[T]) Empty() bool { return len(a.data) == 0 }

// Data returns the elements. The slice aliases the array's storage and is
// invalidated by any operation that grows the array.
func (a *Array[T]) Data() []T { return a.data }

// At returns element i.
func (a *Array[T]) At(i int) T { return a.data[i] }

// Set stores v at index i.
func (a *Array[T]) Set(i int, v T) { a.data[i] = v }

// Ptr returns a pointer to element i.
func (a *Array[T]) Ptr(i int) *T { return &a.data[i] }

// Allocator returns the array's allocator.
func (a *Array[T]) Allocator() Allocator[T] { return a.alloc }

// Reserve ensures capacity for at least n elements.
func (a *Array[T]) Reserve(n int) {
	if n <= cap(a.data) {
		return
	}
	buf := a.alloc.Allocate(n)
	copy(buf, a.data)
	a.alloc.Deallocate(a.data)
	a.data = buf[:len(a.data)]
}

func (a *Array[T]) grow(n int) {
	if n <= cap(a.data) {
		return
	}
	newCap := 2 * cap(a.data)
	if newCap < n {
		newCap = n
	}
	a.Reserve(newCap)
}

// Resize changes the length to n. Grown elements are zero.
func (a *Array[T]) Resize(n int) {
	var zero T
	a.ResizeFill(n, zero)
}

// ResizeFill changes the length to n. Grown elements are set to v.
func (a *Array[T]) ResizeFill(n int, v T) {
	checkLen(n)
	old := len(a.data)
	a.grow(n)
	a.data = a.data[:n]
	for i := old; i < n; i++ {
		a.data[i] = v
	}
}

// ResizeUninitialized changes the length to n without writing the grown
// region. The first min(old, n) elements keep their values; the remaining
// elements are unspecified.
//
// Unsafe if misused: every new slot must be written before it is read. Only
// load paths that fill the whole region right away may call it.
func (a *Array[T]) ResizeUninitialized(n int) {
	checkLen(n)
	a.grow(n)
	a.data = a.data[:n]
}

// Append adds values to the end.
func (a *Array[T]) Append(values ...T) {
	n := len(a.data)
	a.ResizeUninitialized(n + len(values))
	copy(a.data[n:], values)
}

// Assign replaces the contents with a copy of s.
func (a *Array[T]) Assign(s []T) {
	a.ResizeUninitialized(len(s))
	copy(a.data, s)
}

// Clear sets the length to zero and keeps the storage.
func (a *Array[T]) Clear() { a.data = a.data[:0] }

// Release drops the storage.
func (a *Array[T]) Release() {
	a.alloc.Deallocate(a.data)
	a.data = nil
}

// Clone returns a deep copy using the same allocator.
func (a *Array[T]) Clone() *Array[T] {
	c := New(a.alloc)
	c.Assign(a.data)
	return c
}

// Move transfers the storage into a new array. a is left empty with no
// storage.
func (a *Array[T]) Move() *Array[T] {
	m := &Array[T]{data: a.data, alloc: a.alloc}
	a.data = nil
	return m
}

// MoveFrom releases a's storage and takes over src's. src is left empty with
// no storage. When the allocators differ the elements are copied instead.
func (a *Array[T]) MoveFrom(src *Array[T]) {
	if a == src {
		return
	}
	if !a.alloc.Equal(src.alloc) {
		a.Assign(src.data)
		src.Release()
		return
	}
	a.Release()
	a.data = src.data
	src.data = nil
}

// Equal reports whether a and b hold the same elements.
func (a *Array[T]) Equal(b *Array[T]) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i, v := range a.data {
		if b.data[i] != v {
			return false
		}
	}
	return true
}

// ElemSize returns the width of one element in bytes.
func (a *Array[T]) ElemSize() int { return endian.SizeOf[T]() }

// RawBytes returns the elements as packed bytes in host order. The view
// aliases the storage.
func (a *Array[T]) RawBytes() []byte { return endian.Bytes(a.data) }

// ElemPtr returns a pointer to element i as an interface value.
func (a *Array[T]) ElemPtr(i int) any { return &a.data[i] }

func checkLen(n int) {
	if n < 0 {
		panic(errors.AssertionFailedf("dynarray: negative length %d", n))
	}
}
