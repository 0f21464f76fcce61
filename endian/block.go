package endian

import "github.com/cockroachdb/errors"

// BlockSize is the width in bytes of one swap block.
const BlockSize = 16

// SwapBlockTo converts a block of exactly 16/width lanes from host order into
// order o. Each lane is swapped independently.
func SwapBlockTo[T Scalar](o Order, lanes []T) {
	checkLanes[T](len(lanes))
	if !NeedsSwap(o) || SizeOf[T]() == 1 {
		return
	}
	activeKernel.swap(Bytes(lanes), SizeOf[T]())
}

// SwapBlockFrom converts a block of exactly 16/width lanes stored in order o
// into host order.
func SwapBlockFrom[T Scalar](o Order, lanes []T) {
	SwapBlockTo(o, lanes)
}

func checkLanes[T Scalar](n int) {
	if want := BlockSize / SizeOf[T](); n != want {
		panic(errors.AssertionFailedf("endian: block needs %d lanes, got %d", want, n))
	}
}

// SwapBytes converts a packed buffer of width-byte lanes between host order
// and order o in place. Whole 16-byte blocks go through the active kernel and
// the remaining lanes are swapped one at a time.
func SwapBytes(o Order, raw []byte, width int) {
	if !NeedsSwap(o) || width <= 1 {
		return
	}
	switch width {
	case 2, 4, 8:
	default:
		panic(errors.AssertionFailedf("endian: unsupported lane width %d", width))
	}
	if len(raw)%width != 0 {
		panic(errors.AssertionFailedf("endian: buffer length %d is not a multiple of %d", len(raw), width))
	}

	blocked := len(raw) - len(raw)%BlockSize
	for off := 0; off < blocked; off += BlockSize {
		activeKernel.swap(raw[off:off+BlockSize], width)
	}
	reverseLanes(raw[blocked:], width)
}

// SwapSlice converts every element of s between host order and order o.
func SwapSlice[T Scalar](o Order, s []T) {
	SwapBytes(o, Bytes(s), SizeOf[T]())
}

func reverseLanes(raw []byte, width int) {
	for off := 0; off+width <= len(raw); off += width {
		lane := raw[off : off+width]
		for i, j := 0, width-1; i < j; i, j = i+1, j-1 {
			lane[i], lane[j] = lane[j], lane[i]
		}
	}
}
