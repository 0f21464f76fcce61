// Package endian converts scalars and packed scalar buffers between the host
// byte order and a target wire order.
//
// # Scalars
//
// SwapTo and SwapFrom accept any fixed-width integer or float type. When the
// target order equals the host order the call is a no-op; the comparison
// folds to a constant because the host order is known at compile time.
//
//	wire := endian.SwapTo(endian.Network, uint32(4))
//	host := endian.SwapFrom(endian.Network, wire)
//
// # Blocks
//
// Bulk paths work on 16-byte blocks. SwapBlockTo and SwapBlockFrom take
// exactly 16/width lanes; SwapBytes walks a packed buffer block by block and
// swaps the count-mod-block tail one element at a time.
//
// # Kernel Selection
//
// The block kernel is chosen once at init. The SWAR kernel swaps lanes inside
// 64-bit words; the scalar kernel reverses each lane byte by byte. Set
// TERSE_BSWAP=scalar or TERSE_BSWAP=swar to force one of them.
package endian
