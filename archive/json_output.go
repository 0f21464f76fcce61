package archive

import (
	"log/slog"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/terse/internal/errs"
)

// JSONOutput writes values as a restricted JSON subset. Structs become
// objects, containers and pairs become arrays, blobs become base64 strings
// and markers are skipped.
type JSONOutput struct {
	s           Stream
	opts        options
	log         *slog.Logger
	buf         []byte
	levels      []bool // first-member flag per open struct
	transparent bool
	depth       int
	err         error
}

var _ Archive = (*JSONOutput)(nil)

// NewJSONOutput returns an archive writing JSON to s.
func NewJSONOutput(s Stream, opts ...Option) *JSONOutput {
	o := applyOptions(opts)
	return &JSONOutput{
		s:    s,
		opts: o,
		log:  o.logger.With("archive", "json", "mode", Save.String()),
	}
}

// Mode returns Save.
func (a *JSONOutput) Mode() Mode { return Save }

// IsOk reports whether every write so far has succeeded.
func (a *JSONOutput) IsOk() bool { return a.err == nil }

// Err returns the first stream failure.
func (a *JSONOutput) Err() error { return a.err }

// Sync flushes buffered text and the stream.
func (a *JSONOutput) Sync() error {
	a.flush()
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
func (a *JSONOutput) Dispatch(values ...any) {
	for _, v := range values {
		a.Process(v)
	}
}

// Label starts a new object member.
func (a *JSONOutput) Label(name string) {
	if a.err != nil {
		return
	}
	if n := len(a.levels); n > 0 {
		first := a.levels[n-1]
		a.levels[n-1] = false
		switch {
		case a.opts.indent > 0 && first:
			a.buf = append(a.buf, '\n')
		case a.opts.indent > 0:
			a.buf = append(a.buf, ",\n"...)
		case !first:
			a.buf = append(a.buf, ", "...)
		}
		a.writeIndent(n)
	}
	a.buf = appendQuoted(a.buf, name)
	a.buf = append(a.buf, ": "...)
}

// Process writes v. Output is flushed to the stream when the outermost call
// returns.
func (a *JSONOutput) Process(v any) {
	if a.err != nil {
		return
	}
	a.depth++
	a.process(v)
	a.depth--
	if a.depth == 0 {
		a.flush()
	}
}

func (a *JSONOutput) process(v any) {
	if x, ok := v.(transparent); ok {
		a.transparent = true
		a.process(x.v)
		return
	}
	transparent := a.transparent
	a.transparent = false

	if m, ok := markerOf(v); ok {
		releaseMarker(m)
		return
	}
	if b, ok := v.(*Blob); ok {
		a.writeBlob(b)
		return
	}
	if fn, ok := routineFor(v, Save); ok {
		if !transparent {
			a.openStruct()
		}
		fn(a)
		if !transparent {
			a.closeStruct()
		}
		return
	}
	a.processBuiltin(v)
}

func (a *JSONOutput) processBuiltin(v any) {
	switch x := v.(type) {
	case *Char:
		a.buf = appendQuoted(a.buf, string([]byte{byte(*x)}))
		return
	case Char:
		a.buf = appendQuoted(a.buf, string([]byte{byte(x)}))
		return
	case *string:
		a.buf = appendQuoted(a.buf, *x)
		return
	case string:
		a.buf = appendQuoted(a.buf, x)
		return
	case pairLike:
		first, second := x.elems()
		a.buf = append(a.buf, '[')
		a.process(first)
		a.buf = append(a.buf, ", "...)
		a.process(second)
		a.buf = append(a.buf, ']')
		return
	}

	if rb, ok := asRawBuffer(v); ok {
		a.buf = append(a.buf, '[')
		for i := 0; i < rb.Len(); i++ {
			if i > 0 {
				a.buf = append(a.buf, ", "...)
			}
			a.process(rb.ElemPtr(i))
		}
		a.buf = append(a.buf, ']')
		return
	}

	if seq, _, ok := asSequence(v); ok {
		a.buf = append(a.buf, '[')
		for i := 0; i < seq.length(); i++ {
			if i > 0 {
				a.buf = append(a.buf, ", "...)
			}
			a.process(seq.elem(i))
		}
		a.buf = append(a.buf, ']')
		return
	}

	if sc, ok := scalarOf(v, Save); ok {
		a.writeScalar(sc)
		return
	}

	panic(unsupported(v))
}

func (a *JSONOutput) writeScalar(sc scalarRef) {
	switch sc.kind {
	case kindBool:
		a.buf = strconv.AppendBool(a.buf, sc.bool())
	case kindInt:
		// 8-bit values are printed through a 16-bit carrier.
		a.buf = strconv.AppendInt(a.buf, sc.int(), 10)
	case kindUint:
		a.buf = strconv.AppendUint(a.buf, sc.uint(), 10)
	case kindFloat:
		a.buf = strconv.AppendFloat(a.buf, sc.float(), 'g', -1, sc.width*8)
	}
}

func (a *JSONOutput) writeBlob(b *Blob) {
	data := b.Bytes()
	start := len(a.buf)
	n := Base64EncodedLen(len(data))
	a.buf = append(a.buf, make([]byte, n+2)...)
	a.buf[start] = '"'
	Base64Encode(a.buf[start+1:start+1+n], data)
	a.buf[start+1+n] = '"'
}

func (a *JSONOutput) openStruct() {
	a.buf = append(a.buf, '{')
	a.levels = append(a.levels, true)
}

func (a *JSONOutput) closeStruct() {
	n := len(a.levels)
	first := a.levels[n-1]
	a.levels = a.levels[:n-1]
	if a.opts.indent > 0 && !first {
		a.buf = append(a.buf, '\n')
		a.writeIndent(n - 1)
	}
	a.buf = append(a.buf, '}')
}

func (a *JSONOutput) writeIndent(level int) {
	for i := 0; i < level*a.opts.indent; i++ {
		a.buf = append(a.buf, ' ')
	}
}

func (a *JSONOutput) flush() {
	if a.err != nil || len(a.buf) == 0 {
		return
	}
	if err := writeFull(a.s, a.buf); err != nil {
		a.fail(err)
	}
	a.buf = a.buf[:0]
}

func (a *JSONOutput) fail(err error) {
	a.err = errs.Mark(errors.Wrap(err, "json output"), ErrStream)
	a.log.Warn("stream failure", "error", err)
}

// releaseMarker ends the life of a proxy visited by a text archive. Markers
// carry no text representation.
func releaseMarker(m any) {
	switch x := m.(type) {
	case OffsetProxy:
		x.release()
	case SizeProxy:
		x.release()
	}
}

const hexDigits = "0123456789abcdef"

// appendQuoted appends s as a JSON string literal.
func appendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"', '\\':
			dst = append(dst, '\\', c)
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		default:
			if c < 0x20 {
				dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
				continue
			}
			dst = append(dst, c)
		}
	}
	return append(dst, '"')
}
