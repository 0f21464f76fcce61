package archive

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/terse/endian"
	"github.com/hupe1980/terse/internal/conv"
	"github.com/hupe1980/terse/internal/errs"
	"github.com/hupe1980/terse/internal/mem"
)

// BinaryInput reads values written by a BinaryOutput with the same options.
type BinaryInput struct {
	s       Stream
	opts    options
	log     *slog.Logger
	scratch []byte
	err     error
}

var _ Archive = (*BinaryInput)(nil)

// NewBinaryInput returns an archive reading from s.
func NewBinaryInput(s Stream, opts ...Option) *BinaryInput {
	o := applyOptions(opts)
	return &BinaryInput{
		s:    s,
		opts: o,
		log:  o.logger.With("archive", "binary", "mode", Load.String()),
	}
}

// Mode returns Load.
func (a *BinaryInput) Mode() Mode { return Load }

// Label is ignored by binary archives.
func (a *BinaryInput) Label(string) {}

// IsOk reports whether every read so far has succeeded.
func (a *BinaryInput) IsOk() bool { return a.err == nil }

// Err returns the first failure.
func (a *BinaryInput) Err() error { return a.err }

// Sync is a no-op for input archives.
func (a *BinaryInput) Sync() error { return a.err }

// Dispatch processes values from left to right.
func (a *BinaryInput) Dispatch(values ...any) {
	for _, v := range values {
		a.Process(v)
	}
}

// Process reads into v, which must be a pointer or a wrapper around one.
func (a *BinaryInput) Process(v any) {
	if a.err != nil {
		return
	}
	if m, ok := markerOf(v); ok {
		a.processMarker(m)
		return
	}
	switch x := v.(type) {
	case transparent:
		a.Process(x.v)
		return
	case *Blob:
		a.read(x.Bytes())
		return
	}
	if fn, ok := routineFor(v, Load); ok {
		fn(a)
		return
	}
	a.processBuiltin(v)
}

func (a *BinaryInput) processBuiltin(v any) {
	switch x := v.(type) {
	case *Char:
		b := a.buffer(1)
		a.read(b)
		*x = Char(b[0])
		return
	case *string:
		n := a.readSize(1)
		if a.err != nil {
			return
		}
		buf := make([]byte, n)
		a.read(buf)
		*x = string(buf)
		return
	case pairLike:
		first, second := x.elems()
		a.Process(first)
		a.Process(second)
		return
	}

	if rb, ok := asRawBuffer(v); ok {
		n := a.readSize(rb.ElemSize())
		if a.err != nil {
			return
		}
		// The grown region is overwritten by the bulk read right away.
		rb.ResizeUninitialized(n)
		a.readPacked(rb.RawBytes(), rb.ElemSize())
		return
	}

	if seq, fixed, ok := asSequence(v); ok {
		if fixed {
			a.readFixed(seq)
			return
		}
		g, ok := seq.(growable)
		if !ok {
			panic(unsupported(v))
		}
		n := a.readSize(0)
		g.reset()
		for i := 0; i < n && a.err == nil; i++ {
			a.Process(g.grow())
		}
		return
	}

	if sc, ok := scalarOf(v, Load); ok {
		a.readScalar(sc)
		return
	}

	panic(unsupported(v))
}

func (a *BinaryInput) readFixed(seq sequence) {
	if rs, ok := seq.(rawSource); ok {
		if raw, width, ok := packedView(rs.raw()); ok {
			a.readPacked(raw, width)
			return
		}
	}
	for i := 0; i < seq.length() && a.err == nil; i++ {
		a.Process(seq.elem(i))
	}
}

func (a *BinaryInput) processMarker(m any) {
	switch x := m.(type) {
	case Anchor:
		e := x.m.get(x.idx, kindAnchor)
		e.position = a.s.Tell()
		e.visited = true

	case DeferredOffset:
		e := x.m.get(x.idx, kindOffset)
		e.position = a.s.Tell()
		e.value = a.readUint(a.opts.offsetWidth)
		e.visited = true

	case OffsetProxy:
		e := x.release()
		if a.opts.proxySeek {
			a.seekTo(e.value)
		}

	case DeferredSize:
		e := x.m.get(x.idx, kindSize)
		e.position = a.s.Tell()
		e.value = a.readUint(a.opts.sizeWidth)
		e.visited = true

	case SizeProxy:
		if !a.opts.proxySeek {
			x.release()
			return
		}
		e, base := x.releaseChecked()
		pos, err := conv.Int64ToUint64(base.position)
		if err != nil {
			a.corrupt("%v", err)
			return
		}
		a.seekTo(pos + e.value)
	}
}

func (a *BinaryInput) seekTo(pos uint64) {
	p, err := conv.Uint64ToInt64(pos)
	if err != nil || p > a.s.Size() {
		a.corrupt("seek target %d is past the end of the stream", pos)
		return
	}
	if err := a.s.SeekTo(p); err != nil {
		a.fail(err)
	}
}

// readSize reads a container length prefix. elemSize, when positive, is the
// minimum number of bytes each element occupies and is used to reject
// lengths the remaining stream cannot hold.
func (a *BinaryInput) readSize(elemSize int) int {
	v := a.readUint(a.opts.sizeWidth)
	if a.err != nil {
		return 0
	}
	n, err := conv.Uint64ToInt(v)
	if err != nil {
		a.corrupt("length %d does not fit in int", v)
		return 0
	}
	if elemSize > 0 {
		remaining := a.s.Size() - a.s.Tell()
		if uint64(n) > uint64(remaining)/uint64(elemSize) {
			a.corrupt("length %d exceeds the %d bytes left in the stream", n, remaining)
			return 0
		}
	}
	return n
}

func (a *BinaryInput) buffer(n int) []byte {
	if cap(a.scratch) < n {
		size := n
		if size < 16 {
			size = 16
		}
		if a.scratch != nil {
			a.opts.resource.Deallocate(a.scratch)
		}
		a.scratch = a.opts.resource.Allocate(size, mem.BlockAlignment)
	}
	return a.scratch[:n]
}

func (a *BinaryInput) readUint(w Width) uint64 {
	b := a.buffer(int(w))
	a.read(b)
	if a.err != nil {
		return 0
	}
	return endian.Uint(a.opts.order, b, int(w))
}

func (a *BinaryInput) readScalar(sc scalarRef) {
	b := a.buffer(sc.width)
	a.read(b)
	if a.err != nil {
		return
	}
	if sc.kind == kindBool {
		sc.setBool(b[0] != 0)
		return
	}
	endian.SwapBytes(a.opts.order, b, sc.width)
	copy(sc.bytes(), b)
}

// readPacked fills raw from the stream and converts it to host order. Whole
// 16-byte blocks are swapped together and the tail one lane at a time.
func (a *BinaryInput) readPacked(raw []byte, width int) {
	a.read(raw)
	if a.err != nil {
		return
	}
	endian.SwapBytes(a.opts.order, raw, width)
}

func (a *BinaryInput) read(p []byte) {
	if a.err != nil || len(p) == 0 {
		return
	}
	if err := readFull(a.s, p); err != nil {
		a.fail(err)
	}
}

func (a *BinaryInput) fail(err error) {
	pos := a.s.Tell()
	a.err = errs.Mark(errors.Wrapf(err, "binary input at offset %d", pos), ErrStream)
	a.log.Warn("stream failure", "offset", pos, "error", err)
}

func (a *BinaryInput) corrupt(format string, args ...any) {
	pos := a.s.Tell()
	a.err = errors.Wrapf(ErrCorrupt, "offset %d: "+format, append([]any{pos}, args...)...)
	a.log.Warn("corrupt input", "offset", pos, "error", a.err)
}
