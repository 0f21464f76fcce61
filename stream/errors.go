package stream

import "github.com/cockroachdb/errors"

var (
	// ErrReadOnly is returned when writing to a read-only stream.
	ErrReadOnly = errors.New("stream: read-only")

	// ErrInvalidSeek is returned for negative seek targets and for targets
	// past the end of a read-only stream.
	ErrInvalidSeek = errors.New("stream: invalid seek position")

	// ErrCorruptBlock is returned when a compressed container is truncated
	// or a block does not decode to its declared size.
	ErrCorruptBlock = errors.New("stream: corrupt compressed block")

	// ErrUnknownCompression is returned for unrecognized compression names.
	ErrUnknownCompression = errors.New("stream: unknown compression")
)
