// Package mem provides memory allocation utilities.
package mem

import (
	"fmt"
	"unsafe"
)

// Alignment is the default byte alignment (one cache line).
const Alignment = 64

// BlockAlignment is the alignment required by 16-byte swap blocks.
const BlockAlignment = 16

// AllocAligned allocates a byte slice of the given size with 64-byte alignment.
func AllocAligned(size int) []byte {
	return AllocAlignedTo(size, Alignment)
}

// AllocAlignedTo allocates a byte slice of the given size whose first byte
// sits at an address divisible by align. align must be a power of two.
//
// The slice is carved out of a larger allocation; the underlying array is
// kept alive by the returned slice. Capacity is clipped to size so appends
// never run into the padding.
func AllocAlignedTo(size, align int) []byte {
	if size <= 0 {
		return nil
	}
	if align <= 0 || align&(align-1) != 0 {
		panic(fmt.Sprintf("mem: alignment %d is not a power of two", align))
	}
	if align == 1 {
		return make([]byte, size)
	}

	buf := make([]byte, size+align)
	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment
	offset := int((uintptr(align) - (addr & uintptr(align-1))) & uintptr(align-1))

	return buf[offset : offset+size : offset+size]
}

// IsAligned reports whether the first byte of b is aligned to align.
// Empty slices are trivially aligned.
func IsAligned(b []byte, align int) bool {
	if len(b) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&b[0]))&uintptr(align-1) == 0 //nolint:gosec // address inspection only
}
