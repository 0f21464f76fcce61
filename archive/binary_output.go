package archive

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/terse/endian"
	"github.com/hupe1980/terse/internal/conv"
	"github.com/hupe1980/terse/internal/errs"
	"github.com/hupe1980/terse/internal/mem"
)

// chunkSize bounds the scratch buffer used to normalize packed blocks. It is
// a multiple of every lane width and of the swap block size.
const chunkSize = 64 * 1024

// BinaryOutput writes values to a stream as raw bytes.
type BinaryOutput struct {
	s       Stream
	opts    options
	log     *slog.Logger
	scratch []byte
	err     error
}

var _ Archive = (*BinaryOutput)(nil)

// NewBinaryOutput returns an archive writing to s.
func NewBinaryOutput(s Stream, opts ...Option) *BinaryOutput {
	o := applyOptions(opts)
	return &BinaryOutput{
		s:    s,
		opts: o,
		log:  o.logger.With("archive", "binary", "mode", Save.String()),
	}
}

// Mode returns Save.
func (a *BinaryOutput) Mode() Mode { return Save }

// Label is ignored by binary archives.
func (a *BinaryOutput) Label(string) {}

// IsOk reports whether every write so far has succeeded.
func (a *BinaryOutput) IsOk() bool { return a.err == nil }

// Err returns the first stream failure.
func (a *BinaryOutput) Err() error { return a.err }

// Sync flushes the stream if it supports it.
func (a *BinaryOutput) Sync() error {
	if a.err != nil {
		return a.err
	}
	if s, ok := a.s.(syncer); ok {
		if err := s.Sync(); err != nil {
			a.fail(err)
		}
	}
	return a.err
}

// Dispatch processes values from left to right.
func (a *BinaryOutput) Dispatch(values ...any) {
	for _, v := range values {
		a.Process(v)
	}
}

// Process writes v.
func (a *BinaryOutput) Process(v any) {
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
		a.write(x.Bytes())
		return
	}
	if fn, ok := routineFor(v, Save); ok {
		fn(a)
		return
	}
	a.processBuiltin(v)
}

func (a *BinaryOutput) processBuiltin(v any) {
	switch x := v.(type) {
	case *Char:
		a.write([]byte{byte(*x)})
		return
	case Char:
		a.write([]byte{byte(x)})
		return
	case *string:
		a.writeString(*x)
		return
	case string:
		a.writeString(x)
		return
	case pairLike:
		first, second := x.elems()
		a.Process(first)
		a.Process(second)
		return
	}

	if rb, ok := asRawBuffer(v); ok {
		a.processSize(rb.Len())
		a.writePacked(rb.RawBytes(), rb.ElemSize())
		return
	}

	if seq, fixed, ok := asSequence(v); ok {
		if !fixed {
			a.processSize(seq.length())
		}
		if rs, ok := seq.(rawSource); ok {
			if raw, width, ok := packedView(rs.raw()); ok {
				a.writePacked(raw, width)
				return
			}
		}
		for i := 0; i < seq.length() && a.err == nil; i++ {
			a.Process(seq.elem(i))
		}
		return
	}

	if sc, ok := scalarOf(v, Save); ok {
		a.writeScalar(sc)
		return
	}

	panic(unsupported(v))
}

func (a *BinaryOutput) processMarker(m any) {
	switch x := m.(type) {
	case Anchor:
		e := x.m.get(x.idx, kindAnchor)
		e.position = a.s.Tell()
		e.visited = true

	case DeferredOffset:
		e := x.m.get(x.idx, kindOffset)
		e.position = a.s.Tell()
		e.visited = true
		a.writeUint(0, a.opts.offsetWidth)

	case OffsetProxy:
		e := x.release()
		if !e.visited {
			panic(errors.AssertionFailedf("archive: offset proxy %d visited before its offset", x.idx))
		}
		cur := a.s.Tell()
		e.value = a.checkedUint(cur, a.opts.offsetWidth, "offset")
		a.patch(e.position, e.value, a.opts.offsetWidth)

	case DeferredSize:
		e := x.m.get(x.idx, kindSize)
		e.position = a.s.Tell()
		e.visited = true
		a.writeUint(0, a.opts.sizeWidth)

	case SizeProxy:
		e, base := x.releaseChecked()
		if !e.visited {
			panic(errors.AssertionFailedf("archive: size proxy %d visited before its size", x.idx))
		}
		cur := a.s.Tell()
		if base.position > cur {
			panic(errors.AssertionFailedf("archive: anchor position %d is past current position %d", base.position, cur))
		}
		e.value = a.checkedUint(cur-base.position, a.opts.sizeWidth, "size")
		a.patch(e.position, e.value, a.opts.sizeWidth)
	}
}

// checkedUint asserts that v fits the given field width.
func (a *BinaryOutput) checkedUint(v int64, w Width, what string) uint64 {
	u, err := conv.Int64ToUint64(v)
	if err != nil || !conv.FitsWidth(u, int(w)) {
		panic(errors.AssertionFailedf("archive: %s %d does not fit in %d bytes", what, v, w))
	}
	return u
}

// processSize writes a container length prefix.
func (a *BinaryOutput) processSize(n int) {
	a.writeUint(a.checkedUint(int64(n), a.opts.sizeWidth, "size"), a.opts.sizeWidth)
}

func (a *BinaryOutput) patch(pos int64, v uint64, w Width) {
	back := a.s.Tell()
	if err := a.s.SeekTo(pos); err != nil {
		a.fail(err)
		return
	}
	a.writeUint(v, w)
	if a.err != nil {
		return
	}
	if err := a.s.SeekTo(back); err != nil {
		a.fail(err)
	}
}

func (a *BinaryOutput) buffer(n int) []byte {
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

func (a *BinaryOutput) writeUint(v uint64, w Width) {
	b := a.buffer(int(w))
	endian.PutUint(a.opts.order, b, v, int(w))
	a.write(b)
}

func (a *BinaryOutput) writeString(s string) {
	a.processSize(len(s))
	a.write([]byte(s))
}

func (a *BinaryOutput) writeScalar(sc scalarRef) {
	b := a.buffer(sc.width)
	if sc.kind == kindBool {
		b[0] = 0
		if sc.bool() {
			b[0] = 1
		}
		a.write(b)
		return
	}
	// The source is copied before swapping so it is never mutated.
	copy(b, sc.bytes())
	endian.SwapBytes(a.opts.order, b, sc.width)
	a.write(b)
}

// writePacked writes a packed scalar block normalized to the target order.
func (a *BinaryOutput) writePacked(raw []byte, width int) {
	if width == 1 || !endian.NeedsSwap(a.opts.order) {
		a.write(raw)
		return
	}
	for off := 0; off < len(raw) && a.err == nil; off += chunkSize {
		end := min(off+chunkSize, len(raw))
		b := a.buffer(end - off)
		copy(b, raw[off:end])
		endian.SwapBytes(a.opts.order, b, width)
		a.write(b)
	}
}

func (a *BinaryOutput) write(p []byte) {
	if a.err != nil || len(p) == 0 {
		return
	}
	if err := writeFull(a.s, p); err != nil {
		a.fail(err)
	}
}

func (a *BinaryOutput) fail(err error) {
	pos := a.s.Tell()
	a.err = errs.Mark(errors.Wrapf(err, "binary output at offset %d", pos), ErrStream)
	a.log.Warn("stream failure", "offset", pos, "error", err)
}
