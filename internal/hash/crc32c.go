package hash

import (
	"hash"
	"hash/crc32"

	"github.com/hupe1980/terse/archive"
	"github.com/hupe1980/terse/endian"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// NewCRC32C returns a streaming CRC32-Castagnoli hash.
func NewCRC32C() hash.Hash32 {
	return crc32.New(castagnoli)
}

// EncodeCRC32C renders sum the way object stores transmit it: the four
// network-order bytes, base64 encoded.
func EncodeCRC32C(sum uint32) string {
	var raw [4]byte
	endian.PutUint(endian.Network, raw[:], uint64(sum), 4)
	out := make([]byte, archive.Base64EncodedLen(len(raw)))
	archive.Base64Encode(out, raw[:])
	return string(out)
}

// CRC32CString is EncodeCRC32C(CRC32C(data)).
func CRC32CString(data []byte) string {
	return EncodeCRC32C(CRC32C(data))
}
