package dna

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/hupe1980/terse/archive"
	"github.com/hupe1980/terse/internal/errs"
	"github.com/hupe1980/terse/stream"
)

// Format selects the archive used to encode a document.
type Format uint8

const (
	// Binary is the compact big-endian archive.
	Binary Format = iota
	// JSON is the text archive.
	JSON
)

func (f Format) String() string {
	if f == JSON {
		return "json"
	}
	return "binary"
}

// ParseFormat parses "binary" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "binary", "dna", "bin":
		return Binary, nil
	case "json":
		return JSON, nil
	}
	return Binary, errors.Newf("dna: unknown format %q", s)
}

// ReadBinary reads a binary document from s.
func ReadBinary(s archive.Stream, opts ...archive.Option) (*DNA, error) {
	return read(archive.NewBinaryInput(s, opts...))
}

// ReadJSON reads a JSON document from s.
func ReadJSON(s archive.Stream, opts ...archive.Option) (*DNA, error) {
	return read(archive.NewJSONInput(s, opts...))
}

func read(ar archive.Archive) (*DNA, error) {
	d := New()
	ar.Process(d)
	if err := ar.Err(); err != nil {
		if errors.IsAny(err, archive.ErrMalformed, archive.ErrCorrupt, io.ErrUnexpectedEOF) {
			err = errs.Mark(err, ErrMalformed)
		}
		return nil, errors.Wrap(err, "dna: read")
	}
	if d.err != nil {
		return nil, d.err
	}
	return d, nil
}

// WriteBinary writes d to s as a binary document.
func (d *DNA) WriteBinary(s archive.Stream, opts ...archive.Option) error {
	return write(archive.NewBinaryOutput(s, opts...), d)
}

// WriteJSON writes d to s as a JSON document indented by indent spaces. An
// indent of zero writes a single line.
func (d *DNA) WriteJSON(s archive.Stream, indent int, opts ...archive.Option) error {
	opts = append([]archive.Option{archive.WithIndent(indent)}, opts...)
	return write(archive.NewJSONOutput(s, opts...), d)
}

func write(ar archive.Archive, d *DNA) error {
	ar.Process(d)
	return errors.Wrap(ar.Sync(), "dna: write")
}

// Marshal encodes d in format f and packs it with c.
func Marshal(d *DNA, f Format, c stream.Compression) ([]byte, error) {
	m := stream.NewMemory()
	var err error
	if f == JSON {
		err = d.WriteJSON(m, 2)
	} else {
		err = d.WriteBinary(m)
	}
	if err != nil {
		return nil, err
	}
	return stream.Compress(m.Bytes(), c)
}

// Unmarshal decodes a document packed with c. The format is detected from
// the content.
func Unmarshal(data []byte, c stream.Compression) (*DNA, error) {
	raw, err := stream.Decompress(data, c)
	if err != nil {
		return nil, errs.Mark(errors.Wrap(err, "dna: unpack"), ErrMalformed)
	}
	return decode(stream.NewMemoryFrom(raw))
}

func decode(m *stream.Memory) (*DNA, error) {
	if DetectFormat(m.Bytes()) == JSON {
		return ReadJSON(m)
	}
	return ReadBinary(m)
}

// DetectFormat reports JSON when the first non-space byte opens an object.
func DetectFormat(data []byte) Format {
	for _, c := range data {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return JSON
		default:
			return Binary
		}
	}
	return Binary
}

// CompressionFor picks the container from the file extension: ".zst" and
// ".lz4" select the matching compression, anything else None.
func CompressionFor(path string) stream.Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return stream.Zstd
	case ".lz4":
		return stream.LZ4
	}
	return stream.None
}

// Load reads the document stored at path. Compression follows the file
// extension and the format is detected from the content.
func Load(path string, opts ...stream.Option) (*DNA, error) {
	m, err := stream.OpenFile(path, CompressionFor(path), opts...)
	if err != nil {
		return nil, err
	}
	d, err := decode(m)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return d, nil
}

// Save writes d to path in format f packed with c. The file is replaced
// atomically.
func Save(d *DNA, path string, f Format, c stream.Compression, opts ...stream.Option) error {
	m := stream.NewMemory()
	var err error
	if f == JSON {
		err = d.WriteJSON(m, 2)
	} else {
		err = d.WriteBinary(m)
	}
	if err != nil {
		return err
	}
	return stream.SaveFile(path, m, c, opts...)
}
