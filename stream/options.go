package stream

import (
	"log/slog"

	"github.com/hupe1980/terse/internal/fs"
)

const defaultBlockSize = 256 * 1024

// Option configures file and compression helpers.
type Option func(*options)

type options struct {
	fs        fs.FileSystem
	blockSize int
	logger    *slog.Logger
}

func applyOptions(opts []Option) options {
	o := options{
		fs:        fs.Default,
		blockSize: defaultBlockSize,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithFileSystem replaces the local file system, mainly for fault injection
// in tests.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys != nil {
			o.fs = fsys
		}
	}
}

// WithBlockSize sets the uncompressed size of compression blocks. Defaults
// to 256 KiB.
func WithBlockSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.blockSize = n
		}
	}
}

// WithLogger sets the logger used by OpenFile and SaveFile.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
