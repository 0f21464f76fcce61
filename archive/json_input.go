package archive

import (
	"bufio"
	"io"
	"log/slog"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/terse/internal/errs"
)

// JSONInput reads the JSON subset produced by JSONOutput. Whitespace between
// tokens is ignored.
//
// Malformed input puts the archive into a sticky failed state: the offending
// call and every later call return without touching their destination.
// Callers must check IsOk once parsing is done.
type JSONInput struct {
	r           *bufio.Reader
	opts        options
	log         *slog.Logger
	levels      []bool // first-member flag per open struct
	transparent bool
	pos         int64
	err         error
}

var _ Archive = (*JSONInput)(nil)

// NewJSONInput returns an archive reading JSON from s.
func NewJSONInput(s Stream, opts ...Option) *JSONInput {
	o := applyOptions(opts)
	return &JSONInput{
		r:    bufio.NewReader(s),
		opts: o,
		log:  o.logger.With("archive", "json", "mode", Load.String()),
	}
}

// Mode returns Load.
func (a *JSONInput) Mode() Mode { return Load }

// IsOk reports whether the input parsed cleanly so far.
func (a *JSONInput) IsOk() bool { return a.err == nil }

// Err returns the first parse or stream failure.
func (a *JSONInput) Err() error { return a.err }

// Sync is a no-op for input archives.
func (a *JSONInput) Sync() error { return a.err }

// Dispatch processes values from left to right.
func (a *JSONInput) Dispatch(values ...any) {
	for _, v := range values {
		a.Process(v)
	}
}

// Label consumes the next object member name, which must equal name.
func (a *JSONInput) Label(name string) {
	if a.err != nil {
		return
	}
	a.skipSpace()
	if n := len(a.levels); n > 0 {
		if a.levels[n-1] {
			a.levels[n-1] = false
		} else {
			if !a.expect(',') {
				return
			}
			a.skipSpace()
		}
	}
	if !a.expect('"') {
		return
	}
	for i := 0; i < len(name); i++ {
		if !a.expect(name[i]) {
			return
		}
	}
	if !a.expect('"') {
		return
	}
	a.skipSpace()
	if !a.expect(':') {
		return
	}
	a.skipSpace()
}

// Process reads into v, which must be a pointer or a wrapper around one.
func (a *JSONInput) Process(v any) {
	if a.err != nil {
		return
	}
	if x, ok := v.(transparent); ok {
		a.transparent = true
		a.Process(x.v)
		return
	}
	transparent := a.transparent
	a.transparent = false

	if m, ok := markerOf(v); ok {
		releaseMarker(m)
		return
	}
	if b, ok := v.(*Blob); ok {
		a.readBlob(b)
		return
	}
	if fn, ok := routineFor(v, Load); ok {
		if !transparent && !a.openStruct() {
			return
		}
		fn(a)
		if !transparent {
			a.closeStruct()
		}
		return
	}
	a.processBuiltin(v)
}

func (a *JSONInput) processBuiltin(v any) {
	switch x := v.(type) {
	case *Char:
		s, ok := a.readString()
		if !ok {
			return
		}
		if len(s) != 1 {
			a.malformed("expected a one-character string, got %q", s)
			return
		}
		*x = Char(s[0])
		return
	case *string:
		if s, ok := a.readString(); ok {
			*x = s
		}
		return
	case pairLike:
		first, second := x.elems()
		a.skipSpace()
		if !a.expect('[') {
			return
		}
		a.skipSpace()
		a.Process(first)
		a.skipSpace()
		if !a.expect(',') {
			return
		}
		a.skipSpace()
		a.Process(second)
		a.skipSpace()
		a.expect(']')
		return
	}

	if rb, ok := asRawBuffer(v); ok {
		a.readRawBuffer(rb)
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
		a.readGrowable(g)
		return
	}

	if sc, ok := scalarOf(v, Load); ok {
		a.readScalar(sc)
		return
	}

	panic(unsupported(v))
}

// openArray consumes '[' and reports whether the array has elements.
func (a *JSONInput) openArray() bool {
	a.skipSpace()
	if !a.expect('[') {
		return false
	}
	a.skipSpace()
	if c, ok := a.peek(); ok && c == ']' {
		a.next()
		return false
	}
	return a.err == nil
}

// nextElement consumes the separator after an element. It reports whether
// another element follows.
func (a *JSONInput) nextElement() bool {
	a.skipSpace()
	c, ok := a.next()
	if !ok {
		return false
	}
	switch c {
	case ',':
		a.skipSpace()
		return true
	case ']':
		return false
	default:
		a.malformed("expected ',' or ']', got %q", c)
		return false
	}
}

// readRawBuffer grows the destination geometrically since the element count
// is not known up front, then trims it to the elements actually read.
func (a *JSONInput) readRawBuffer(rb rawBuffer) {
	if !a.openArray() {
		if a.err == nil {
			rb.ResizeUninitialized(0)
		}
		return
	}
	rb.ResizeUninitialized(1)
	n := 0
	for {
		a.Process(rb.ElemPtr(n))
		if a.err != nil {
			break
		}
		n++
		if n == rb.Len() {
			rb.ResizeUninitialized(2 * n)
		}
		if !a.nextElement() {
			break
		}
	}
	rb.ResizeUninitialized(n)
}

func (a *JSONInput) readFixed(seq sequence) {
	if !a.openArray() {
		return
	}
	for i := 0; i < seq.length(); i++ {
		a.Process(seq.elem(i))
		if a.err != nil || !a.nextElement() {
			return
		}
	}
	if a.err == nil {
		a.malformed("more than %d elements in fixed array", seq.length())
	}
}

func (a *JSONInput) readGrowable(g growable) {
	if !a.openArray() {
		if a.err == nil {
			g.reset()
		}
		return
	}
	g.reset()
	for {
		a.Process(g.grow())
		if a.err != nil || !a.nextElement() {
			return
		}
	}
}

func (a *JSONInput) readScalar(sc scalarRef) {
	a.skipSpace()
	tok, ok := a.readToken()
	if !ok {
		return
	}
	switch sc.kind {
	case kindBool:
		switch tok {
		case "true", "1":
			sc.setBool(true)
		case "false", "0":
			sc.setBool(false)
		default:
			a.malformed("invalid bool %q", tok)
		}
	case kindInt:
		// 8-bit values are parsed through a 16-bit carrier.
		v, err := strconv.ParseInt(tok, 10, max(sc.width*8, 16))
		if err != nil {
			a.malformed("invalid integer %q", tok)
			return
		}
		sc.setInt(v)
	case kindUint:
		v, err := strconv.ParseUint(tok, 10, max(sc.width*8, 16))
		if err != nil {
			a.malformed("invalid unsigned integer %q", tok)
			return
		}
		sc.setUint(v)
	case kindFloat:
		v, err := strconv.ParseFloat(tok, sc.width*8)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			a.malformed("invalid float %q", tok)
			return
		}
		sc.setFloat(v)
	}
}

func (a *JSONInput) readBlob(b *Blob) {
	s, ok := a.readString()
	if !ok {
		return
	}
	// The blob was sized by its owner; decoding never grows it.
	Base64Decode(b.Bytes(), []byte(s))
}

func (a *JSONInput) openStruct() bool {
	a.skipSpace()
	if !a.expect('{') {
		return false
	}
	a.levels = append(a.levels, true)
	return true
}

func (a *JSONInput) closeStruct() {
	if a.err != nil {
		return
	}
	a.levels = a.levels[:len(a.levels)-1]
	a.skipSpace()
	a.expect('}')
}

// readString reads a quoted string and resolves escapes.
func (a *JSONInput) readString() (string, bool) {
	a.skipSpace()
	if !a.expect('"') {
		return "", false
	}
	var out []byte
	for {
		c, ok := a.next()
		if !ok {
			return "", false
		}
		switch c {
		case '"':
			return string(out), true
		case '\\':
			var good bool
			if out, good = a.readEscape(out); !good {
				return "", false
			}
		default:
			out = append(out, c)
		}
	}
}

func (a *JSONInput) readEscape(out []byte) ([]byte, bool) {
	c, ok := a.next()
	if !ok {
		return out, false
	}
	switch c {
	case '"', '\\', '/':
		return append(out, c), true
	case 'b':
		return append(out, '\b'), true
	case 'f':
		return append(out, '\f'), true
	case 'n':
		return append(out, '\n'), true
	case 'r':
		return append(out, '\r'), true
	case 't':
		return append(out, '\t'), true
	case 'u':
		r, ok := a.readHex4()
		if !ok {
			return out, false
		}
		if utf16.IsSurrogate(r) {
			if a.peekSeq('\\', 'u') {
				a.next()
				a.next()
				r2, ok := a.readHex4()
				if !ok {
					return out, false
				}
				r = utf16.DecodeRune(r, r2)
			} else {
				r = utf8.RuneError
			}
		}
		return utf8.AppendRune(out, r), true
	default:
		a.malformed("invalid escape \\%c", c)
		return out, false
	}
}

func (a *JSONInput) readHex4() (rune, bool) {
	var r rune
	for i := 0; i < 4; i++ {
		c, ok := a.next()
		if !ok {
			return 0, false
		}
		var d byte
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		default:
			a.malformed("invalid hex digit %q", c)
			return 0, false
		}
		r = r<<4 | rune(d)
	}
	return r, true
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', ',', ']', '}', ':', '"', '[', '{':
		return true
	}
	return false
}

// readToken reads a bare literal such as a number or a bool.
func (a *JSONInput) readToken() (string, bool) {
	var tok []byte
	for {
		c, ok := a.peek()
		if !ok || isDelimiter(c) {
			break
		}
		a.next()
		tok = append(tok, c)
	}
	if a.err != nil {
		return "", false
	}
	if len(tok) == 0 {
		c, ok := a.peek()
		if !ok {
			a.malformed("unexpected end of input")
		} else {
			a.malformed("expected a value, got %q", c)
		}
		return "", false
	}
	return string(tok), true
}

func (a *JSONInput) skipSpace() {
	for {
		c, ok := a.peek()
		if !ok {
			return
		}
		switch c {
		case ' ', '\t', '\r', '\n':
			a.next()
		default:
			return
		}
	}
}

func (a *JSONInput) expect(want byte) bool {
	c, ok := a.next()
	if !ok {
		return false
	}
	if c != want {
		a.pos--
		a.malformed("expected %q, got %q", want, c)
		return false
	}
	return true
}

// peek returns the next byte without consuming it. A clean end of input
// returns false without failing the archive.
func (a *JSONInput) peek() (byte, bool) {
	if a.err != nil {
		return 0, false
	}
	b, err := a.r.Peek(1)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			a.fail(err)
		}
		return 0, false
	}
	return b[0], true
}

func (a *JSONInput) peekSeq(c0, c1 byte) bool {
	b, err := a.r.Peek(2)
	return err == nil && b[0] == c0 && b[1] == c1
}

// next consumes one byte. Running out of input fails the archive.
func (a *JSONInput) next() (byte, bool) {
	if a.err != nil {
		return 0, false
	}
	c, err := a.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			a.malformed("unexpected end of input")
		} else {
			a.fail(err)
		}
		return 0, false
	}
	a.pos++
	return c, true
}

func (a *JSONInput) malformed(format string, args ...any) {
	if a.err != nil {
		return
	}
	a.err = errors.Wrapf(ErrMalformed, "offset %d: "+format, append([]any{a.pos}, args...)...)
	a.log.Debug("malformed input", "offset", a.pos, "error", a.err)
}

func (a *JSONInput) fail(err error) {
	if a.err != nil {
		return
	}
	a.err = errs.Mark(errors.Wrapf(err, "json input at offset %d", a.pos), ErrStream)
	a.log.Warn("stream failure", "offset", a.pos, "error", err)
}
