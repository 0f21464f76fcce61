package stream

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/terse/archive"
	"github.com/hupe1980/terse/internal/fs"
)

// File is a stream over an open file. It tracks position and size itself so
// Tell and Size never hit the file system.
type File struct {
	f    fs.File
	pos  int64
	size int64
}

var _ archive.Stream = (*File)(nil)

// Open opens path for reading.
func Open(path string, opts ...Option) (*File, error) {
	return openFile(path, os.O_RDONLY, opts)
}

// Create creates or truncates path for writing and reading.
func Create(path string, opts ...Option) (*File, error) {
	return openFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, opts)
}

func openFile(path string, flag int, opts []Option) (*File, error) {
	o := applyOptions(opts)
	f, err := o.fs.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return NewFile(f)
}

// NewFile wraps f, positioned at its start.
func NewFile(f fs.File) (*File, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", f.Name())
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrapf(err, "seek %s", f.Name())
	}
	return &File{f: f, size: info.Size()}, nil
}

// Read implements io.Reader.
func (s *File) Read(p []byte) (int, error) {
	n, err := s.f.Read(p)
	s.pos += int64(n)
	return n, err
}

// Write implements io.Writer.
func (s *File) Write(p []byte) (int, error) {
	n, err := s.f.Write(p)
	s.pos += int64(n)
	s.size = max(s.size, s.pos)
	return n, err
}

// SeekTo moves to an absolute position.
func (s *File) SeekTo(pos int64) error {
	if pos < 0 {
		return errors.Wrapf(ErrInvalidSeek, "%d", pos)
	}
	if _, err := s.f.Seek(pos, io.SeekStart); err != nil {
		return err
	}
	s.pos = pos
	return nil
}

// Tell returns the current position.
func (s *File) Tell() int64 { return s.pos }

// Size returns the file size.
func (s *File) Size() int64 { return s.size }

// Sync commits the file to stable storage.
func (s *File) Sync() error { return s.f.Sync() }

// Name returns the file name.
func (s *File) Name() string { return s.f.Name() }

// Close closes the file.
func (s *File) Close() error { return s.f.Close() }
