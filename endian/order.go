package endian

import (
	"math/bits"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// Order is a byte order.
type Order uint8

const (
	// Little is least-significant byte first.
	Little Order = iota
	// Big is most-significant byte first.
	Big
	// Network is the byte order used on the wire by default.
	Network = Big
)

// String returns the name of the order.
func (o Order) String() string {
	switch o {
	case Little:
		return "little"
	case Big:
		return "big"
	default:
		return "unknown"
	}
}

// Host returns the native byte order of the running platform.
// cpu.IsBigEndian is a constant, so the branch folds away.
func Host() Order {
	if cpu.IsBigEndian {
		return Big
	}
	return Little
}

// NeedsSwap reports whether values must be swapped to reach order o.
func NeedsSwap(o Order) bool { return o != Host() }

// Scalar is the set of fixed-width numeric kinds the engine can swap.
type Scalar interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 |
		~int64 | ~uint64 | ~float32 | ~float64
}

// Swap16 unconditionally reverses the bytes of v.
func Swap16(v uint16) uint16 { return bits.ReverseBytes16(v) }

// Swap32 unconditionally reverses the bytes of v.
func Swap32(v uint32) uint32 { return bits.ReverseBytes32(v) }

// Swap64 unconditionally reverses the bytes of v.
func Swap64(v uint64) uint64 { return bits.ReverseBytes64(v) }

// Swap reverses the bytes of v regardless of any order.
func Swap[T Scalar](v T) T {
	p := unsafe.Pointer(&v) //nolint:gosec // reinterpretation of a fixed-width scalar
	switch unsafe.Sizeof(v) {
	case 2:
		*(*uint16)(p) = bits.ReverseBytes16(*(*uint16)(p))
	case 4:
		*(*uint32)(p) = bits.ReverseBytes32(*(*uint32)(p))
	case 8:
		*(*uint64)(p) = bits.ReverseBytes64(*(*uint64)(p))
	}
	return v
}

// SwapTo converts a host-order value into order o.
func SwapTo[T Scalar](o Order, v T) T {
	if !NeedsSwap(o) {
		return v
	}
	return Swap(v)
}

// SwapFrom converts a value stored in order o into host order.
// Swapping is an involution, so SwapFrom and SwapTo are the same operation.
func SwapFrom[T Scalar](o Order, v T) T {
	if !NeedsSwap(o) {
		return v
	}
	return Swap(v)
}

// SizeOf returns the width in bytes of the scalar type T.
func SizeOf[T Scalar]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Bytes returns the raw byte view of s. The view aliases s.
func Bytes[T Scalar](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*SizeOf[T]()) //nolint:gosec // packed scalar view
}
