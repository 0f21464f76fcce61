package conv

import (
	"math"

	"github.com/cockroachdb/errors"
)

// ErrOverflow is the cause of every conversion failure in this package.
var ErrOverflow = errors.New("integer overflow")

// MaxForWidth returns the largest unsigned value representable in width
// bytes. width must be 1, 2, 4 or 8.
func MaxForWidth(width int) uint64 {
	switch width {
	case 1:
		return math.MaxUint8
	case 2:
		return math.MaxUint16
	case 4:
		return math.MaxUint32
	case 8:
		return math.MaxUint64
	default:
		panic(errors.AssertionFailedf("conv: unsupported width %d", width))
	}
}

// FitsWidth reports whether v is representable in width bytes.
func FitsWidth(v uint64, width int) bool {
	return v <= MaxForWidth(width)
}

// IntToUint16 converts int to uint16 safely.
func IntToUint16(v int) (uint16, error) {
	if v < 0 {
		return 0, errors.Wrapf(ErrOverflow, "%d cannot be converted to uint16 (negative)", v)
	}
	if v > math.MaxUint16 {
		return 0, errors.Wrapf(ErrOverflow, "%d cannot be converted to uint16 (too large)", v)
	}
	return uint16(v), nil
}

// IntToUint32 converts int to uint32 safely.
func IntToUint32(v int) (uint32, error) {
	if v < 0 {
		return 0, errors.Wrapf(ErrOverflow, "%d cannot be converted to uint32 (negative)", v)
	}
	if uint64(v) > math.MaxUint32 {
		return 0, errors.Wrapf(ErrOverflow, "%d cannot be converted to uint32 (too large)", v)
	}
	return uint32(v), nil
}

// IntToUint64 converts int to uint64 safely.
func IntToUint64(v int) (uint64, error) {
	if v < 0 {
		return 0, errors.Wrapf(ErrOverflow, "%d cannot be converted to uint64 (negative)", v)
	}
	return uint64(v), nil
}

// Int64ToUint64 converts a stream position to uint64 safely.
func Int64ToUint64(v int64) (uint64, error) {
	if v < 0 {
		return 0, errors.Wrapf(ErrOverflow, "%d cannot be converted to uint64 (negative)", v)
	}
	return uint64(v), nil
}

// Uint64ToInt converts uint64 to int safely.
func Uint64ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, errors.Wrapf(ErrOverflow, "%d cannot be converted to int (too large)", v)
	}
	return int(v), nil
}

// Uint64ToInt64 converts uint64 to a stream position safely.
func Uint64ToInt64(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, errors.Wrapf(ErrOverflow, "%d cannot be converted to int64 (too large)", v)
	}
	return int64(v), nil
}
