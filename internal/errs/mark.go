package errs

// Mark returns err tagged with kind. Both errors.Is from the standard
// library and from cockroachdb/errors report kind, and every error already
// in the chain of err stays reachable. The message is that of err.
func Mark(err, kind error) error {
	if err == nil {
		return nil
	}
	return &marked{cause: err, kind: kind}
}

type marked struct {
	cause error
	kind  error
}

func (e *marked) Error() string { return e.cause.Error() }

func (e *marked) Unwrap() []error { return []error{e.cause, e.kind} }
