// Package errs attaches sentinel kinds to errors without changing their
// message.
package errs
