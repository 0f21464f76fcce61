package mem

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocAligned(t *testing.T) {
	sizes := []int{1, 10, 63, 64, 65, 100, 1024}

	for _, size := range sizes {
		buf := AllocAligned(size)
		assert.Len(t, buf, size)
		assert.Equal(t, size, cap(buf))
		assert.True(t, IsAligned(buf, Alignment), "size %d", size)
	}

	assert.Nil(t, AllocAligned(0))
	assert.Nil(t, AllocAligned(-1))
}

func TestAllocAlignedTo(t *testing.T) {
	for _, align := range []int{1, 2, 8, BlockAlignment, 32, 4096} {
		t.Run(fmt.Sprintf("align_%d", align), func(t *testing.T) {
			buf := AllocAlignedTo(33, align)
			assert.Len(t, buf, 33)
			assert.True(t, IsAligned(buf, align))
		})
	}

	assert.Panics(t, func() { AllocAlignedTo(8, 3) })
	assert.Panics(t, func() { AllocAlignedTo(8, 0) })
}

func TestIsAligned(t *testing.T) {
	buf := AllocAlignedTo(32, BlockAlignment)
	assert.True(t, IsAligned(buf, BlockAlignment))
	assert.False(t, IsAligned(buf[1:], 2))
	assert.True(t, IsAligned(nil, BlockAlignment))
}

func BenchmarkAllocAligned(b *testing.B) {
	sizes := []int{64, 256, 1024, 4096}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = AllocAligned(size)
			}
		})
	}
}
