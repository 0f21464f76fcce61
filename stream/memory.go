package stream

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/terse/archive"
)

const defaultMemoryCapacity = 64 * 1024

// Memory is a seekable in-memory stream. Writes past the end grow it;
// seeking past the end and writing leaves a zero-filled gap.
type Memory struct {
	buf []byte
	pos int64
}

var _ archive.Stream = (*Memory)(nil)

// NewMemory returns an empty stream.
func NewMemory() *Memory {
	return &Memory{buf: make([]byte, 0, defaultMemoryCapacity)}
}

// NewMemoryFrom returns a stream positioned at the start of data. The
// stream takes ownership of data.
func NewMemoryFrom(data []byte) *Memory {
	return &Memory{buf: data}
}

// Write implements io.Writer.
func (m *Memory) Write(p []byte) (int, error) {
	end := int(m.pos) + len(p)
	if end > cap(m.buf) {
		newCap := max(2*cap(m.buf), end)
		grown := make([]byte, len(m.buf), newCap)
		copy(grown, m.buf)
		m.buf = grown
	}
	if end > len(m.buf) {
		old := len(m.buf)
		m.buf = m.buf[:end]
		if gap := int(m.pos) - old; gap > 0 {
			clear(m.buf[old:m.pos])
		}
	}
	n := copy(m.buf[m.pos:], p)
	m.pos += int64(n)
	return n, nil
}

// Read implements io.Reader.
func (m *Memory) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)
	return n, nil
}

// SeekTo moves to an absolute position.
func (m *Memory) SeekTo(pos int64) error {
	if pos < 0 {
		return errors.Wrapf(ErrInvalidSeek, "%d", pos)
	}
	m.pos = pos
	return nil
}

// Tell returns the current position.
func (m *Memory) Tell() int64 { return m.pos }

// Size returns the number of bytes held.
func (m *Memory) Size() int64 { return int64(len(m.buf)) }

// Bytes returns the contents. The slice aliases the stream's storage.
func (m *Memory) Bytes() []byte { return m.buf }

// Len returns the number of bytes held.
func (m *Memory) Len() int { return len(m.buf) }

// Reset empties the stream and rewinds it.
func (m *Memory) Reset() {
	m.buf = m.buf[:0]
	m.pos = 0
}

// Sync is a no-op.
func (m *Memory) Sync() error { return nil }
