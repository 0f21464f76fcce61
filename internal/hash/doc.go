// Package hash computes the CRC32-Castagnoli checksums attached to uploaded
// assets.
package hash
