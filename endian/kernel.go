package endian

import (
	"encoding/binary"
	"math/bits"
	"os"
	"strings"
)

// Kernel identifies a block swap implementation.
type Kernel uint8

const (
	// KernelScalar reverses each lane byte by byte.
	KernelScalar Kernel = iota
	// KernelSWAR swaps every lane of a 64-bit word with shifts and masks.
	KernelSWAR
)

// String returns the name of the kernel.
func (k Kernel) String() string {
	switch k {
	case KernelScalar:
		return "scalar"
	case KernelSWAR:
		return "swar"
	default:
		return "unknown"
	}
}

// ParseKernel parses a kernel name.
func ParseKernel(s string) (Kernel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scalar", "generic":
		return KernelScalar, true
	case "swar":
		return KernelSWAR, true
	default:
		return KernelScalar, false
	}
}

type kernelImpl struct {
	kind Kernel
	swap func(block []byte, width int)
}

// Selected once at init; never mutated afterwards.
var activeKernel kernelImpl

func init() {
	kind := KernelSWAR
	if override := os.Getenv("TERSE_BSWAP"); override != "" {
		if k, ok := ParseKernel(override); ok {
			kind = k
		}
	}
	activeKernel = kernelFor(kind)
}

func kernelFor(k Kernel) kernelImpl {
	if k == KernelScalar {
		return kernelImpl{kind: KernelScalar, swap: reverseLanes}
	}
	return kernelImpl{kind: KernelSWAR, swap: swarBlock}
}

// ActiveKernel returns the block kernel selected at init.
func ActiveKernel() Kernel { return activeKernel.kind }

const (
	mask16 = 0x00FF00FF00FF00FF
)

// swarBlock swaps the lanes of a 16-byte block as two 64-bit words. Loading
// and storing with the same fixed order keeps lane positions host-independent.
func swarBlock(block []byte, width int) {
	for off := 0; off+8 <= len(block); off += 8 {
		w := binary.LittleEndian.Uint64(block[off:])
		switch width {
		case 2:
			w = (w&mask16)<<8 | (w>>8)&mask16
		case 4:
			w = bits.RotateLeft64(bits.ReverseBytes64(w), 32)
		case 8:
			w = bits.ReverseBytes64(w)
		}
		binary.LittleEndian.PutUint64(block[off:], w)
	}
}
