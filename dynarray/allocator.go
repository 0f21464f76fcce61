package dynarray

import (
	"unsafe"

	"github.com/hupe1980/terse/endian"
)

// Trivial is the set of element types an [Array] may hold.
type Trivial = endian.Scalar

// Allocator allocates typed storage from a [Resource]. The zero value uses
// [DefaultResource].
type Allocator[T Trivial] struct {
	res Resource
}

// NewAllocator returns an allocator drawing from res.
func NewAllocator[T Trivial](res Resource) Allocator[T] {
	return Allocator[T]{res: res}
}

// Rebind returns an allocator for element type U sharing a's resource.
func Rebind[U, T Trivial](a Allocator[T]) Allocator[U] {
	return Allocator[U]{res: a.res}
}

// Resource returns the backing resource.
func (a Allocator[T]) Resource() Resource {
	if a.res == nil {
		return defaultResource
	}
	return a.res
}

// Equal reports whether storage from a may be released through b.
func (a Allocator[T]) Equal(b Allocator[T]) bool {
	return a.Resource() == b.Resource()
}

// Allocate returns storage for n elements.
func (a Allocator[T]) Allocate(n int) []T {
	if n <= 0 {
		return nil
	}
	size := endian.SizeOf[T]()
	raw := a.Resource().Allocate(n*size, size)
	return unsafe.Slice((*T)(unsafe.Pointer(&raw[0])), n) //nolint:gosec // trivially copyable element view
}

// Deallocate returns storage obtained from Allocate.
func (a Allocator[T]) Deallocate(s []T) {
	if cap(s) == 0 {
		return
	}
	s = s[:cap(s)]
	a.Resource().Deallocate(endian.Bytes(s))
}
