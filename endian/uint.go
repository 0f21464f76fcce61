package endian

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

// ByteOrder returns the encoding/binary order matching o.
func (o Order) ByteOrder() binary.ByteOrder {
	if o == Big {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// PutUint stores the low width bytes of v into b in order o.
// width must be 1, 2, 4 or 8 and b at least width bytes long.
func PutUint(o Order, b []byte, v uint64, width int) {
	bo := o.ByteOrder()
	switch width {
	case 1:
		b[0] = byte(v)
	case 2:
		bo.PutUint16(b, uint16(v))
	case 4:
		bo.PutUint32(b, uint32(v))
	case 8:
		bo.PutUint64(b, v)
	default:
		panic(errors.AssertionFailedf("endian: unsupported width %d", width))
	}
}

// Uint reads a width-byte unsigned integer stored in order o.
func Uint(o Order, b []byte, width int) uint64 {
	bo := o.ByteOrder()
	switch width {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(bo.Uint16(b))
	case 4:
		return uint64(bo.Uint32(b))
	case 8:
		return bo.Uint64(b)
	default:
		panic(errors.AssertionFailedf("endian: unsupported width %d", width))
	}
}
