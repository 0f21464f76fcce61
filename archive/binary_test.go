package archive_test

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/terse/archive"
	"github.com/hupe1980/terse/endian"
	"github.com/hupe1980/terse/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDiskFull = errors.New("disk full")

// limitedStream fails every write once limit bytes were written.
type limitedStream struct {
	*stream.Memory
	limit int
}

func (s *limitedStream) Write(p []byte) (int, error) {
	if s.Len()+len(p) > s.limit {
		return 0, errDiskFull
	}
	return s.Memory.Write(p)
}

func TestBinaryPacket(t *testing.T) {
	in := newPacket()
	in.Length = 4
	in.Payload.SetBytes([]byte{1, 2, 3, 4})

	s := saveBinary(t, in)
	assert.Equal(t, []byte{0, 0, 0, 4, 1, 2, 3, 4}, s.Bytes())

	out := newPacket()
	loadBinary(t, s.Bytes(), out)
	assert.Equal(t, uint32(4), out.Length)
	assert.Equal(t, []byte{1, 2, 3, 4}, out.Payload.Bytes())

	t.Run("LittleEndian", func(t *testing.T) {
		s := saveBinary(t, in, archive.WithByteOrder(endian.Little))
		assert.Equal(t, []byte{4, 0, 0, 0, 1, 2, 3, 4}, s.Bytes())
	})
}

func TestBinaryRoundTrip(t *testing.T) {
	for _, order := range []endian.Order{endian.Big, endian.Little} {
		for _, width := range []archive.Width{archive.Width16, archive.Width32, archive.Width64} {
			t.Run(fmt.Sprintf("%s/%dbit", order, int(width)*8), func(t *testing.T) {
				opts := []archive.Option{archive.WithByteOrder(order), archive.WithSizeWidth(width)}
				in := sampleEverything()
				s := saveBinary(t, in, opts...)

				out := newEverything()
				loadBinary(t, s.Bytes(), out, opts...)
				assertEverythingEqual(t, in, out)
			})
		}
	}
}

func TestBinaryLayout(t *testing.T) {
	t.Run("Container", func(t *testing.T) {
		v := []uint16{1, 2, 3}
		s := saveBinary(t, &v, archive.WithSizeWidth(archive.Width16))
		assert.Equal(t, []byte{0, 3, 0, 1, 0, 2, 0, 3}, s.Bytes())
	})

	t.Run("FixedHasNoPrefix", func(t *testing.T) {
		v := [2]uint32{1, 2}
		s := saveBinary(t, &v)
		assert.Equal(t, []byte{0, 0, 0, 1, 0, 0, 0, 2}, s.Bytes())
	})

	t.Run("String", func(t *testing.T) {
		v := "DNA"
		s := saveBinary(t, &v, archive.WithSizeWidth(archive.Width8))
		assert.Equal(t, []byte{3, 'D', 'N', 'A'}, s.Bytes())
	})

	t.Run("Bool", func(t *testing.T) {
		v := []bool{true, false}
		s := saveBinary(t, &v, archive.WithSizeWidth(archive.Width8))
		assert.Equal(t, []byte{2, 1, 0}, s.Bytes())
	})

	t.Run("Float", func(t *testing.T) {
		v := float32(1)
		s := saveBinary(t, &v)
		assert.Equal(t, []byte{0x3f, 0x80, 0, 0}, s.Bytes())
	})
}

func TestBinarySourceNotMutated(t *testing.T) {
	v := make([]uint32, 70000)
	for i := range v {
		v[i] = uint32(i)
	}
	orig := append([]uint32(nil), v...)

	order := endian.Big
	if endian.Host() == endian.Big {
		order = endian.Little
	}
	s := saveBinary(t, &v, archive.WithByteOrder(order))
	assert.Equal(t, orig, v)

	var out []uint32
	loadBinary(t, s.Bytes(), &out, archive.WithByteOrder(order))
	assert.Equal(t, orig, out)
}

func TestBinarySizeOverflow(t *testing.T) {
	v := make([]uint8, 300)
	ar := archive.NewBinaryOutput(stream.NewMemory(), archive.WithSizeWidth(archive.Width8))
	assert.Panics(t, func() { ar.Process(&v) })
}

func TestBinaryStreamFailure(t *testing.T) {
	s := &limitedStream{Memory: stream.NewMemory(), limit: 6}
	ar := archive.NewBinaryOutput(s)

	a, b := uint32(1), uint32(2)
	ar.Process(&a)
	require.True(t, ar.IsOk())
	ar.Process(&b)
	require.False(t, ar.IsOk())
	assert.ErrorIs(t, ar.Err(), archive.ErrStream)
	assert.ErrorIs(t, ar.Err(), errDiskFull)

	c := uint8(3)
	ar.Process(&c)
	assert.Equal(t, 4, s.Len(), "writes after a failure must be no-ops")
	assert.ErrorIs(t, ar.Sync(), archive.ErrStream)
}

func TestBinaryTruncatedInput(t *testing.T) {
	in := sampleEverything()
	s := saveBinary(t, in)
	data := s.Bytes()

	for _, cut := range []int{1, 9, len(data) / 2, len(data) - 1} {
		out := newEverything()
		ar := archive.NewBinaryInput(stream.NewMemoryFrom(bytes.Clone(data[:cut])))
		ar.Process(out)
		assert.False(t, ar.IsOk(), "cut at %d", cut)
		assert.True(t, errors.Is(ar.Err(), io.ErrUnexpectedEOF) || errors.Is(ar.Err(), archive.ErrCorrupt),
			"cut at %d: %v", cut, ar.Err())
	}
}

func TestBinaryCorruptLength(t *testing.T) {
	data := []byte{0xff, 0xff, 0xff, 0xf0, 1, 2, 3, 4}
	var out []uint32
	ar := archive.NewBinaryInput(stream.NewMemoryFrom(data))
	ar.Process(&out)
	assert.ErrorIs(t, ar.Err(), archive.ErrCorrupt)
	assert.Empty(t, out)
}

func TestBinaryOptionsValidation(t *testing.T) {
	assert.Panics(t, func() { archive.NewBinaryOutput(stream.NewMemory(), archive.WithSizeWidth(3)) })
	assert.Panics(t, func() { archive.NewBinaryInput(stream.NewMemory(), archive.WithOffsetWidth(5)) })
}

func BenchmarkBinaryFloats(b *testing.B) {
	v := make([]float32, 1<<16)
	for i := range v {
		v[i] = float32(i)
	}
	s := stream.NewMemory()
	b.ReportAllocs()
	b.SetBytes(int64(len(v) * 4))
	for i := 0; i < b.N; i++ {
		s.Reset()
		ar := archive.NewBinaryOutput(s)
		ar.Process(&v)
		if !ar.IsOk() {
			b.Fatal(ar.Err())
		}
	}
}
