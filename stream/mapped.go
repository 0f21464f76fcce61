package stream

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/terse/archive"
	"github.com/hupe1980/terse/internal/mmap"
)

// Mapped is a read-only stream over a memory-mapped file.
type Mapped struct {
	m   *mmap.Mapping
	pos int64
}

var _ archive.Stream = (*Mapped)(nil)

// OpenMapped maps path read-only.
func OpenMapped(path string) (*Mapped, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	if err := m.Advise(mmap.AccessSequential); err != nil {
		_ = m.Close()
		return nil, errors.Wrapf(err, "advise %s", path)
	}
	return &Mapped{m: m}, nil
}

// Read implements io.Reader.
func (s *Mapped) Read(p []byte) (int, error) {
	n, err := s.m.ReadAt(p, s.pos)
	s.pos += int64(n)
	if n > 0 && errors.Is(err, io.EOF) {
		err = nil
	}
	return n, err
}

// Write always fails.
func (s *Mapped) Write([]byte) (int, error) { return 0, ErrReadOnly }

// SeekTo moves to an absolute position within the mapping.
func (s *Mapped) SeekTo(pos int64) error {
	if pos < 0 || pos > s.Size() {
		return errors.Wrapf(ErrInvalidSeek, "%d of %d", pos, s.Size())
	}
	s.pos = pos
	return nil
}

// Tell returns the current position.
func (s *Mapped) Tell() int64 { return s.pos }

// Size returns the mapped length.
func (s *Mapped) Size() int64 { return int64(s.m.Size()) }

// Bytes returns the mapped contents without copying. The slice is valid
// until Close.
func (s *Mapped) Bytes() []byte { return s.m.Bytes() }

// Close unmaps the file.
func (s *Mapped) Close() error { return s.m.Close() }
