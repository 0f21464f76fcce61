package archive

import (
	"log/slog"

	"github.com/hupe1980/terse/dynarray"
	"github.com/hupe1980/terse/endian"
)

// Width is the byte width of a size or offset field.
type Width uint8

const (
	Width8  Width = 1
	Width16 Width = 2
	Width32 Width = 4
	Width64 Width = 8
)

func (w Width) valid() bool {
	switch w {
	case Width8, Width16, Width32, Width64:
		return true
	default:
		return false
	}
}

// Option configures an archive.
type Option func(*options)

type options struct {
	sizeWidth   Width
	offsetWidth Width
	order       endian.Order
	indent      int
	proxySeek   bool
	logger      *slog.Logger
	resource    dynarray.Resource
}

func defaultOptions() options {
	return options{
		sizeWidth: Width32,
		order:     endian.Network,
		logger:    slog.New(slog.DiscardHandler),
		resource:  dynarray.DefaultResource(),
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if !o.sizeWidth.valid() {
		panic(errorsAssertf("archive: invalid size width %d", o.sizeWidth))
	}
	if o.offsetWidth == 0 {
		o.offsetWidth = o.sizeWidth
	}
	if !o.offsetWidth.valid() {
		panic(errorsAssertf("archive: invalid offset width %d", o.offsetWidth))
	}
	return o
}

// WithSizeWidth sets the width of container length prefixes and deferred
// sizes. Defaults to Width32.
func WithSizeWidth(w Width) Option {
	return func(o *options) { o.sizeWidth = w }
}

// WithOffsetWidth sets the width of deferred offsets. Defaults to the size
// width.
func WithOffsetWidth(w Width) Option {
	return func(o *options) { o.offsetWidth = w }
}

// WithByteOrder sets the wire byte order of binary archives. Defaults to
// endian.Network.
func WithByteOrder(order endian.Order) Option {
	return func(o *options) { o.order = order }
}

// WithIndent sets the number of spaces per nesting level of JSON output.
// Zero writes every struct on a single line.
func WithIndent(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.indent = n
	}
}

// WithProxySeek makes a binary input archive seek to the referenced position
// when it visits an offset proxy, and to anchor plus size when it visits a
// size proxy.
func WithProxySeek(enabled bool) Option {
	return func(o *options) { o.proxySeek = enabled }
}

// WithLogger sets the logger used to report stream failures and malformed
// input. Defaults to discarding all output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithResource sets the memory resource used for temporary buffers.
func WithResource(r dynarray.Resource) Option {
	return func(o *options) {
		if r != nil {
			o.resource = r
		}
	}
}
