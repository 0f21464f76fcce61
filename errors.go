package terse

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidJob is returned for jobs that cannot run, such as a job
	// without input or an unknown command.
	ErrInvalidJob = errors.New("invalid job")

	// ErrUnsupportedLocation is returned for asset locations with an unknown
	// scheme.
	ErrUnsupportedLocation = errors.New("unsupported location")
)

// JobError reports the failure of one job.
//
// The original underlying error can be accessed via errors.Unwrap.
type JobError struct {
	Index int
	Input string
	cause error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("job %d (%s): %v", e.Index, e.Input, e.cause)
}

func (e *JobError) Unwrap() error { return e.cause }

// CommandError reports an invalid or failing command of a job.
type CommandError struct {
	Index int
	Op    string
	cause error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %d (%s): %v", e.Index, e.Op, e.cause)
}

func (e *CommandError) Unwrap() error { return e.cause }
