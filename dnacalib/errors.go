package dnacalib

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrIndexOutOfRange is the cause of every *IndexError.
	ErrIndexOutOfRange = errors.New("dnacalib: index out of range")

	// ErrNotFound is returned when a named element does not exist.
	ErrNotFound = errors.New("dnacalib: not found")

	// ErrInvalidArgument is returned for arguments that cannot be applied to
	// the document.
	ErrInvalidArgument = errors.New("dnacalib: invalid argument")
)

// IndexError reports an element index outside the document.
type IndexError struct {
	Resource Resource
	Index    int
	Count    int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("dnacalib: %s index %d out of range [0, %d)", e.Resource, e.Index, e.Count)
}

// Unwrap returns ErrIndexOutOfRange.
func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

func checkIndex(r Resource, index, count int) error {
	if index < 0 || index >= count {
		return &IndexError{Resource: r, Index: index, Count: count}
	}
	return nil
}
