package archive

// Char is a single byte that text archives render as a one-character string.
type Char byte

type transparent struct {
	v any
}

// Transparent suppresses struct framing for exactly one nested call in text
// archives. Binary archives ignore it.
func Transparent(v any) any {
	return transparent{v: v}
}

// Pair is a two-element tuple. Text archives render it as [first, second].
type Pair[K, V any] struct {
	First  K
	Second V
}

func (p *Pair[K, V]) elems() (any, any) { return &p.First, &p.Second }

type pairLike interface {
	elems() (any, any)
}

type pairRef struct {
	first, second any
}

func (p pairRef) elems() (any, any) { return p.first, p.second }

// PairOf serializes two independent values as a pair.
func PairOf(first, second any) any {
	return pairRef{first: first, second: second}
}

// sequence is a container processed one element at a time.
type sequence interface {
	length() int
	elem(i int) any
}

// growable is a sequence that can be rebuilt on load.
type growable interface {
	sequence
	reset()
	// grow appends a newly constructed element and returns a pointer to it.
	// The pointer is valid until the next call to grow.
	grow() any
}

type fixedSeq[T any] struct {
	s []T
}

func (f fixedSeq[T]) length() int    { return len(f.s) }
func (f fixedSeq[T]) elem(i int) any { return &f.s[i] }
func (f fixedSeq[T]) raw() any       { return f.s }

// Fixed marks s as a fixed-length array: no length prefix is written and
// loading fills exactly len(s) elements.
func Fixed[T any](s []T) any {
	return fixedSeq[T]{s: s}
}

type sliceSeq[T any] struct {
	s       *[]T
	factory func() T
}

func (q *sliceSeq[T]) length() int    { return len(*q.s) }
func (q *sliceSeq[T]) elem(i int) any { return &(*q.s)[i] }
func (q *sliceSeq[T]) reset()         { *q.s = (*q.s)[:0] }
func (q *sliceSeq[T]) raw() any       { return *q.s }

func (q *sliceSeq[T]) grow() any {
	var v T
	if q.factory != nil {
		v = q.factory()
	}
	*q.s = append(*q.s, v)
	return &(*q.s)[len(*q.s)-1]
}

// Slice serializes *s as a length-prefixed growth container. Loaded elements
// start as zero values.
func Slice[T any](s *[]T) any {
	return &sliceSeq[T]{s: s}
}

// SliceWith is like Slice but constructs every loaded element with factory,
// so elements owning resources start from a correctly configured value.
func SliceWith[T any](s *[]T, factory func() T) any {
	return &sliceSeq[T]{s: s, factory: factory}
}

// markerOf unwraps marker handles passed by value or by pointer.
func markerOf(v any) (any, bool) {
	switch x := v.(type) {
	case Anchor, DeferredOffset, OffsetProxy, DeferredSize, SizeProxy:
		return x, true
	case *Anchor:
		return *x, true
	case *DeferredOffset:
		return *x, true
	case *OffsetProxy:
		return *x, true
	case *DeferredSize:
		return *x, true
	case *SizeProxy:
		return *x, true
	}
	return nil, false
}
