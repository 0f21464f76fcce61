package stream

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/terse/archive"
)

type rwsStream struct {
	rws io.ReadWriteSeeker
	pos int64
}

// FromReadWriteSeeker adapts rws to archive.Stream. Size is computed by
// seeking to the end and back.
func FromReadWriteSeeker(rws io.ReadWriteSeeker) archive.Stream {
	pos, _ := rws.Seek(0, io.SeekCurrent)
	return &rwsStream{rws: rws, pos: pos}
}

func (s *rwsStream) Read(p []byte) (int, error) {
	n, err := s.rws.Read(p)
	s.pos += int64(n)
	return n, err
}

func (s *rwsStream) Write(p []byte) (int, error) {
	n, err := s.rws.Write(p)
	s.pos += int64(n)
	return n, err
}

func (s *rwsStream) SeekTo(pos int64) error {
	if pos < 0 {
		return errors.Wrapf(ErrInvalidSeek, "%d", pos)
	}
	p, err := s.rws.Seek(pos, io.SeekStart)
	if err != nil {
		return err
	}
	s.pos = p
	return nil
}

func (s *rwsStream) Tell() int64 { return s.pos }

func (s *rwsStream) Size() int64 {
	end, err := s.rws.Seek(0, io.SeekEnd)
	if err != nil {
		return s.pos
	}
	if _, err := s.rws.Seek(s.pos, io.SeekStart); err != nil {
		return s.pos
	}
	return end
}

func (s *rwsStream) Sync() error {
	if sy, ok := s.rws.(interface{ Sync() error }); ok {
		return sy.Sync()
	}
	return nil
}
