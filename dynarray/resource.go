package dynarray

import (
	"github.com/hupe1980/terse/internal/mem"
)

// Resource is the byte-level memory source behind an [Allocator].
type Resource interface {
	// Allocate returns size bytes aligned to align.
	Allocate(size, align int) []byte
	// Deallocate releases storage previously returned by Allocate.
	Deallocate(b []byte)
}

type alignedResource struct {
	align int
}

// NewAlignedResource returns a heap resource whose blocks are aligned to at
// least align bytes. align must be a power of two.
func NewAlignedResource(align int) Resource {
	if align < mem.BlockAlignment {
		align = mem.BlockAlignment
	}
	return &alignedResource{align: align}
}

func (r *alignedResource) Allocate(size, align int) []byte {
	if align < r.align {
		align = r.align
	}
	return mem.AllocAlignedTo(size, align)
}

// Deallocate is a no-op; heap storage is reclaimed by the garbage collector.
func (r *alignedResource) Deallocate([]byte) {}

var defaultResource = NewAlignedResource(mem.BlockAlignment)

// DefaultResource returns the shared heap resource. Its blocks are 16-byte
// aligned so bulk swaps always operate on whole aligned blocks.
func DefaultResource() Resource { return defaultResource }
