package stream

import (
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/terse/endian"
	"github.com/hupe1980/terse/internal/errs"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the container a document is stored in.
type Compression uint8

const (
	// None stores the document bytes as they are.
	None Compression = iota
	// LZ4 favors speed.
	LZ4
	// Zstd favors ratio.
	Zstd
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// ParseCompression parses a compression name as printed by String. The
// empty string means None.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd", "zstandard":
		return Zstd, nil
	default:
		return None, errors.Wrapf(ErrUnknownCompression, "%q", s)
	}
}

// Block layout: [uncompressed u32][compressed u32][data]. A compressed size
// of zero marks a block stored verbatim.
const blockHeaderSize = 8

// Blocks that shrink by less than this ratio are stored verbatim.
const minCompressionRatio = 0.9

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault), zstd.WithEncoderConcurrency(1))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
}

// Compress packs data into the container selected by c. None returns data
// unchanged.
func Compress(data []byte, c Compression, opts ...Option) ([]byte, error) {
	if c == None {
		return data, nil
	}
	if c != LZ4 && c != Zstd {
		return nil, errors.Wrapf(ErrUnknownCompression, "%d", c)
	}
	o := applyOptions(opts)

	out := make([]byte, 0, len(data)/2+blockHeaderSize)
	for off := 0; off < len(data); off += o.blockSize {
		block := data[off:min(off+o.blockSize, len(data))]
		var err error
		if out, err = appendBlock(out, block, c); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func appendBlock(out, block []byte, c Compression) ([]byte, error) {
	packed, err := compressBlock(block, c)
	if err != nil {
		return nil, err
	}
	if len(packed) == 0 || float64(len(packed)) > float64(len(block))*minCompressionRatio {
		out = appendHeader(out, len(block), 0)
		return append(out, block...), nil
	}
	out = appendHeader(out, len(block), len(packed))
	return append(out, packed...), nil
}

func appendHeader(out []byte, uncompressed, compressed int) []byte {
	var hdr [blockHeaderSize]byte
	endian.PutUint(endian.Little, hdr[0:4], uint64(uncompressed), 4)
	endian.PutUint(endian.Little, hdr[4:8], uint64(compressed), 4)
	return append(out, hdr[:]...)
}

func compressBlock(block []byte, c Compression) ([]byte, error) {
	switch c {
	case LZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(block)))
		n, err := lz4.CompressBlock(block, dst, nil)
		if err != nil {
			return nil, errors.Wrap(err, "lz4 compress")
		}
		return dst[:n], nil
	default:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, errors.Wrap(err, "zstd encoder")
		}
		defer zstdEncoderPool.Put(enc)
		return enc.EncodeAll(block, nil), nil
	}
}

// Decompress unpacks a container produced by Compress with the same c.
func Decompress(data []byte, c Compression) ([]byte, error) {
	if c == None {
		return data, nil
	}
	if c != LZ4 && c != Zstd {
		return nil, errors.Wrapf(ErrUnknownCompression, "%d", c)
	}

	var out []byte
	for off := 0; off < len(data); {
		if len(data)-off < blockHeaderSize {
			return nil, errors.Wrapf(ErrCorruptBlock, "offset %d: truncated header", off)
		}
		uncompressed := int(endian.Uint(endian.Little, data[off:off+4], 4))
		compressed := int(endian.Uint(endian.Little, data[off+4:off+8], 4))
		off += blockHeaderSize

		stored := compressed
		if stored == 0 {
			stored = uncompressed
		}
		if len(data)-off < stored {
			return nil, errors.Wrapf(ErrCorruptBlock, "offset %d: block of %d bytes is truncated", off, stored)
		}
		payload := data[off : off+stored]
		off += stored

		if compressed == 0 {
			out = append(out, payload...)
			continue
		}
		var err error
		if out, err = decompressBlock(out, payload, uncompressed, c); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func decompressBlock(out, payload []byte, uncompressed int, c Compression) ([]byte, error) {
	start := len(out)
	out = append(out, make([]byte, uncompressed)...)
	switch c {
	case LZ4:
		n, err := lz4.UncompressBlock(payload, out[start:])
		if err != nil {
			return nil, errs.Mark(errors.Wrap(err, "lz4 decompress"), ErrCorruptBlock)
		}
		if n != uncompressed {
			return nil, errors.Wrapf(ErrCorruptBlock, "lz4 block decoded to %d bytes, want %d", n, uncompressed)
		}
		return out, nil
	default:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, errors.Wrap(err, "zstd decoder")
		}
		defer zstdDecoderPool.Put(dec)
		decoded, err := dec.DecodeAll(payload, out[start:start])
		if err != nil {
			return nil, errs.Mark(errors.Wrap(err, "zstd decompress"), ErrCorruptBlock)
		}
		if len(decoded) != uncompressed {
			return nil, errors.Wrapf(ErrCorruptBlock, "zstd block decoded to %d bytes, want %d", len(decoded), uncompressed)
		}
		return out, nil
	}
}
