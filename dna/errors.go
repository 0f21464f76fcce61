package dna

import "github.com/cockroachdb/errors"

var (
	// ErrSignatureMismatch is returned when a document does not start with
	// the expected signature.
	ErrSignatureMismatch = errors.New("dna: signature mismatch")

	// ErrVersionMismatch is returned for documents of an unsupported version.
	ErrVersionMismatch = errors.New("dna: version mismatch")

	// ErrMalformed is returned when a document cannot be decoded.
	ErrMalformed = errors.New("dna: malformed document")
)
