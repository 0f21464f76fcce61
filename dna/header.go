package dna

import "github.com/hupe1980/terse/archive"

// Expected holds a value a document must contain. Saving writes Expected;
// loading fills Got.
type Expected[T comparable] struct {
	Expected T
	Got      T
}

// Load reads the stored value.
func (e *Expected[T]) Load(ar archive.Archive) {
	ar.Label("value")
	ar.Process(&e.Got)
}

// Save writes the expected value.
func (e *Expected[T]) Save(ar archive.Archive) {
	ar.Label("value")
	ar.Process(&e.Expected)
}

// Matches reports whether the loaded value is the expected one.
func (e *Expected[T]) Matches() bool { return e.Expected == e.Got }

// Signature is a three character document marker.
type Signature struct {
	Value Expected[[3]archive.Char]
}

func newSignature(s string) Signature {
	var v [3]archive.Char
	for i := range v {
		v[i] = archive.Char(s[i])
	}
	return Signature{Value: Expected[[3]archive.Char]{Expected: v}}
}

// Serialize implements archive.Serializer.
func (s *Signature) Serialize(ar archive.Archive) {
	ar.Label("data")
	ar.Process(&s.Value)
}

// Matches reports whether the loaded signature is the expected one.
func (s *Signature) Matches() bool { return s.Value.Matches() }

func (s *Signature) String() string {
	b := make([]byte, len(s.Value.Got))
	for i, c := range s.Value.Got {
		b[i] = byte(c)
	}
	return string(b)
}

// Version identifies the document layout.
type Version struct {
	Generation Expected[uint16]
	Version    Expected[uint16]
}

func newVersion(generation, version uint16) Version {
	return Version{
		Generation: Expected[uint16]{Expected: generation},
		Version:    Expected[uint16]{Expected: version},
	}
}

// Serialize implements archive.Serializer.
func (v *Version) Serialize(ar archive.Archive) {
	ar.Label("generation")
	ar.Process(&v.Generation)
	ar.Label("version")
	ar.Process(&v.Version)
}

// Matches reports whether both numbers are the expected ones.
func (v *Version) Matches() bool {
	return v.Generation.Matches() && v.Version.Matches()
}

// sections holds the absolute offsets of the top-level sections. Text
// archives skip it.
type sections struct {
	descriptor archive.DeferredOffset
	definition archive.DeferredOffset
	behavior   archive.DeferredOffset
	geometry   archive.DeferredOffset
}

func newSections(m *archive.Markers) sections {
	return sections{
		descriptor: m.Offset(),
		definition: m.Offset(),
		behavior:   m.Offset(),
		geometry:   m.Offset(),
	}
}

func (s *sections) Serialize(ar archive.Archive) {
	ar.Dispatch(s.descriptor, s.definition, s.behavior, s.geometry)
}
