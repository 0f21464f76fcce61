package stream

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/terse/archive"
	"github.com/hupe1980/terse/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamsAreNotSeekers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.bin")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	defer f.Close()
	file, err := NewFile(f)
	require.NoError(t, err)
	mapped, err := OpenMapped(path)
	require.NoError(t, err)
	defer mapped.Close()

	streams := map[string]archive.Stream{
		"Memory": NewMemory(),
		"File":   file,
		"Mapped": mapped,
		"RWS":    FromReadWriteSeeker(f),
	}
	for name, s := range streams {
		t.Run(name, func(t *testing.T) {
			_, ok := s.(io.Seeker)
			assert.False(t, ok)
			require.NoError(t, s.SeekTo(0))
		})
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()

	n, err := m.Write([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, int64(4), m.Tell())
	assert.Equal(t, int64(4), m.Size())

	t.Run("Patch", func(t *testing.T) {
		require.NoError(t, m.SeekTo(1))
		_, err := m.Write([]byte{9})
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 9, 3, 4}, m.Bytes())
		assert.Equal(t, int64(2), m.Tell())
	})

	t.Run("Read", func(t *testing.T) {
		require.NoError(t, m.SeekTo(0))
		buf := make([]byte, 8)
		n, err := m.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		_, err = m.Read(buf)
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("GapIsZeroed", func(t *testing.T) {
		m.Reset()
		_, _ = m.Write([]byte{7, 7, 7, 7, 7, 7})
		m.Reset()
		require.NoError(t, m.SeekTo(3))
		_, _ = m.Write([]byte{5})
		assert.Equal(t, []byte{0, 0, 0, 5}, m.Bytes())
	})

	t.Run("NegativeSeek", func(t *testing.T) {
		assert.ErrorIs(t, m.SeekTo(-1), ErrInvalidSeek)
	})

	t.Run("Grow", func(t *testing.T) {
		g := NewMemoryFrom(nil)
		payload := bytes.Repeat([]byte{0xAB}, 3*defaultMemoryCapacity)
		_, err := g.Write(payload)
		require.NoError(t, err)
		assert.Equal(t, payload, g.Bytes())
	})
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.dna")

	w, err := Create(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("DNA\x00\x00\x00\x00AND"))
	require.NoError(t, err)
	require.NoError(t, w.SeekTo(3))
	_, err = w.Write([]byte{0, 0, 0, 10})
	require.NoError(t, err)
	assert.Equal(t, int64(7), w.Tell())
	assert.Equal(t, int64(10), w.Size())
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, int64(10), r.Size())
	require.NoError(t, r.SeekTo(3))
	buf := make([]byte, 4)
	_, err = io.ReadFull(r, buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 10}, buf)
	assert.Equal(t, int64(7), r.Tell())
}

func TestMapped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.dna")
	require.NoError(t, os.WriteFile(path, []byte("DNAAND"), 0o644))

	m, err := OpenMapped(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, int64(6), m.Size())
	require.NoError(t, m.SeekTo(3))
	buf := make([]byte, 3)
	_, err = io.ReadFull(m, buf)
	require.NoError(t, err)
	assert.Equal(t, "AND", string(buf))

	_, err = m.Read(buf)
	assert.ErrorIs(t, err, io.EOF)
	_, err = m.Write(buf)
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.ErrorIs(t, m.SeekTo(7), ErrInvalidSeek)
}

func TestFromReadWriteSeeker(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "raw"))
	require.NoError(t, err)
	defer f.Close()

	s := FromReadWriteSeeker(f)
	_, err = s.Write([]byte("abcdef"))
	require.NoError(t, err)
	require.NoError(t, s.SeekTo(2))
	assert.Equal(t, int64(6), s.Size())
	assert.Equal(t, int64(2), s.Tell())

	buf := make([]byte, 2)
	_, err = io.ReadFull(s, buf)
	require.NoError(t, err)
	assert.Equal(t, "cd", string(buf))
}

func TestCompression(t *testing.T) {
	compressible := bytes.Repeat([]byte("neutral joint translations "), 4096)
	random := make([]byte, 4096)
	for i := range random {
		random[i] = byte(i*7919 + i>>3)
	}

	for _, c := range []Compression{None, LZ4, Zstd} {
		t.Run(c.String(), func(t *testing.T) {
			for name, data := range map[string][]byte{
				"compressible": compressible,
				"random":       random,
				"empty":        nil,
			} {
				packed, err := Compress(data, c, WithBlockSize(16*1024))
				require.NoError(t, err, name)
				if c != None && name == "compressible" {
					assert.Less(t, len(packed), len(data), name)
				}
				unpacked, err := Decompress(packed, c)
				require.NoError(t, err, name)
				assert.Equal(t, len(data), len(unpacked), name)
				assert.True(t, bytes.Equal(data, unpacked), name)
			}
		})
	}
}

func TestDecompressCorrupt(t *testing.T) {
	packed, err := Compress(bytes.Repeat([]byte{1, 2, 3}, 1000), Zstd)
	require.NoError(t, err)

	_, err = Decompress(packed[:len(packed)-1], Zstd)
	assert.ErrorIs(t, err, ErrCorruptBlock)

	_, err = Decompress(packed[:5], Zstd)
	assert.ErrorIs(t, err, ErrCorruptBlock)
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{"": None, "none": None, "LZ4": LZ4, "zstd": Zstd} {
		got, err := ParseCompression(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseCompression("brotli")
	assert.ErrorIs(t, err, ErrUnknownCompression)
}

func TestSaveAndOpenFile(t *testing.T) {
	dir := t.TempDir()
	m := NewMemory()
	_, _ = m.Write(bytes.Repeat([]byte("AND"), 10000))

	for _, c := range []Compression{None, LZ4, Zstd} {
		t.Run(c.String(), func(t *testing.T) {
			path := filepath.Join(dir, "out", c.String()+".dna")
			require.NoError(t, SaveFile(path, m, c))

			loaded, err := OpenFile(path, c)
			require.NoError(t, err)
			assert.Equal(t, m.Bytes(), loaded.Bytes())
			assert.Zero(t, loaded.Tell())
		})
	}
}

func TestSaveFileFailureKeepsOldContents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "head.dna")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule("head.dna", fs.Fault{FailAfterBytes: 2})

	err := SaveFile(path, NewMemoryFrom([]byte("new contents")), None, WithFileSystem(ffs))
	require.ErrorIs(t, err, fs.ErrInjected)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must be removed")
}

func BenchmarkCompress(b *testing.B) {
	data := bytes.Repeat([]byte("vertex positions "), 64*1024)
	for _, c := range []Compression{LZ4, Zstd} {
		b.Run(c.String(), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			for i := 0; i < b.N; i++ {
				if _, err := Compress(data, c); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
