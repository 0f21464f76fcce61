package archive

import (
	"io"

	"github.com/cockroachdb/errors"
)

// Stream is the random-access byte stream an archive drives.
type Stream interface {
	io.Reader
	io.Writer
	// SeekTo moves to an absolute position.
	SeekTo(pos int64) error
	// Tell returns the current absolute position.
	Tell() int64
	// Size returns the total number of bytes in the stream.
	Size() int64
}

type syncer interface {
	Sync() error
}

func errorsAssertf(format string, args ...any) error {
	return errors.AssertionFailedf(format, args...)
}

// readFull reads exactly len(p) bytes.
func readFull(s Stream, p []byte) error {
	_, err := io.ReadFull(s, p)
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// writeFull writes all of p.
func writeFull(s Stream, p []byte) error {
	for len(p) > 0 {
		n, err := s.Write(p)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return nil
}
