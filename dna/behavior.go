package dna

import (
	"github.com/cockroachdb/errors"
	"github.com/hupe1980/terse/archive"
	"github.com/hupe1980/terse/internal/conv"
)

// maxBehaviorSize bounds the payload length accepted while loading.
const maxBehaviorSize = 1 << 30

// Behavior is the evaluation data of a rig. Its content is carried as an
// opaque payload and written back byte for byte.
type Behavior struct {
	section archive.DeferredOffset
	size    archive.DeferredSize
	start   archive.Anchor

	Payload *archive.Blob

	err error
}

func newBehavior(m *archive.Markers, section archive.DeferredOffset) Behavior {
	start := m.Anchor()
	return Behavior{
		section: section,
		size:    m.Size(start),
		start:   start,
		Payload: &archive.Blob{},
	}
}

// Serialize implements archive.Serializer.
func (b *Behavior) Serialize(ar archive.Archive) {
	ar.Process(b.section.Proxy())
	ar.Process(b.size)
	ar.Process(b.start)

	n, err := conv.IntToUint32(b.Payload.Len())
	if err != nil {
		panic(errors.AssertionFailedf("dna: behavior payload of %d bytes", b.Payload.Len()))
	}
	ar.Label("length")
	ar.Process(&n)
	if ar.Mode() == archive.Load {
		if n > maxBehaviorSize {
			b.err = errors.Wrapf(ErrMalformed, "behavior payload of %d bytes", n)
			return
		}
		b.Payload.SetSize(int(n))
	}
	ar.Label("payload")
	ar.Process(b.Payload)
	ar.Process(b.size.Proxy())
}

// Len returns the payload length in bytes.
func (b *Behavior) Len() int { return b.Payload.Len() }

func (b *Behavior) clone() Behavior {
	c := *b
	c.Payload = b.Payload.Clone()
	return c
}
