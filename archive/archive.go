package archive

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Mode tells a serialization routine which direction data flows.
type Mode uint8

const (
	// Load reads values from the stream into memory.
	Load Mode = iota
	// Save writes values from memory to the stream.
	Save
)

func (m Mode) String() string {
	if m == Load {
		return "load"
	}
	return "save"
}

// Archive is the visitor every serialization routine talks to.
type Archive interface {
	// Process serializes a single value.
	Process(v any)
	// Dispatch processes each value from left to right.
	Dispatch(values ...any)
	// Label names the next struct member. Binary archives ignore it.
	Label(name string)
	// IsOk reports whether the archive is still healthy.
	IsOk() bool
	// Err returns the sticky failure, if any.
	Err() error
	// Sync flushes buffered output to the stream.
	Sync() error
	// Mode reports the direction of the archive.
	Mode() Mode
}

// Serializer is implemented by types that use one routine for both
// directions.
type Serializer interface {
	Serialize(ar Archive)
}

// Loader is implemented by types with a dedicated load routine.
type Loader interface {
	Load(ar Archive)
}

// Saver is implemented by types with a dedicated save routine.
type Saver interface {
	Save(ar Archive)
}

type routineHolder interface {
	routine(mode Mode) (func(Archive), bool)
	target() any
}

type freeFunc[T any] struct {
	ptr  *T
	load func(Archive, *T)
	save func(Archive, *T)
}

func (f *freeFunc[T]) target() any { return f.ptr }

func (f *freeFunc[T]) routine(mode Mode) (func(Archive), bool) {
	fn := f.save
	if mode == Load {
		fn = f.load
	}
	if fn == nil {
		return nil, false
	}
	return func(ar Archive) { fn(ar, f.ptr) }, true
}

// With attaches a free serialization function to v. The function runs in
// both directions.
func With[T any](v *T, fn func(Archive, *T)) any {
	return &freeFunc[T]{ptr: v, load: fn, save: fn}
}

// WithPair attaches separate free load and save functions to v.
func WithPair[T any](v *T, load, save func(Archive, *T)) any {
	return &freeFunc[T]{ptr: v, load: load, save: save}
}

// routineFor resolves the user routine of v, if v has one. Exactly one
// routine form may be present; anything else panics.
func routineFor(v any, mode Mode) (func(Archive), bool) {
	if h, ok := v.(routineHolder); ok {
		if hasMethodRoutine(h.target()) {
			panic(errors.Wrapf(ErrAmbiguousSerializer,
				"%T has serialization methods and a free function", h.target()))
		}
		fn, ok := h.routine(mode)
		if !ok {
			panic(errors.Wrapf(ErrUnsupportedType, "no %s function attached to %T", mode, h.target()))
		}
		return fn, true
	}

	s, isSerializer := v.(Serializer)
	l, isLoader := v.(Loader)
	sv, isSaver := v.(Saver)
	if isSerializer && (isLoader || isSaver) {
		panic(errors.Wrapf(ErrAmbiguousSerializer, "%T has Serialize and Load/Save methods", v))
	}
	switch {
	case isSerializer:
		return s.Serialize, true
	case mode == Load && isLoader:
		return l.Load, true
	case mode == Save && isSaver:
		return sv.Save, true
	case isLoader || isSaver:
		panic(errors.Wrapf(ErrUnsupportedType, "%T has no %s method", v, mode))
	}
	return nil, false
}

func hasMethodRoutine(v any) bool {
	_, s := v.(Serializer)
	_, l := v.(Loader)
	_, sv := v.(Saver)
	return s || l || sv
}

func unsupported(v any) error {
	return errors.Wrapf(ErrUnsupportedType, "%s", describe(v))
}

func describe(v any) string {
	return fmt.Sprintf("%T", v)
}
