package archive

import "github.com/cockroachdb/errors"

var (
	// ErrMalformed is reported when text input does not follow the expected
	// structure.
	ErrMalformed = errors.New("archive: malformed input")

	// ErrCorrupt is reported when binary input declares a length that cannot
	// be satisfied by the remaining stream.
	ErrCorrupt = errors.New("archive: corrupt input")

	// ErrStream wraps failures reported by the underlying stream.
	ErrStream = errors.New("archive: stream failure")

	// ErrUnsupportedType is the panic value cause for values the archive
	// cannot serialize.
	ErrUnsupportedType = errors.New("archive: unsupported type")

	// ErrAmbiguousSerializer is the panic value cause for types exposing more
	// than one serialization routine.
	ErrAmbiguousSerializer = errors.New("archive: ambiguous serializer")
)
