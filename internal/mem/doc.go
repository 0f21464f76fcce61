// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Provides aligned byte allocation for bulk buffers. Storage handed to the
// byte-order engine is 16-byte aligned so whole swap blocks never straddle a
// misaligned boundary; the default alignment is one 64-byte cache line.
package mem
