package archive

import "github.com/hupe1980/terse/dynarray"

// Blob is a byte payload whose length is dictated by something else, usually
// a preceding length field. Binary archives write the bytes verbatim; text
// archives encode them as base64.
//
// The owner must call SetSize before the blob is loaded. Archives never infer
// its length.
type Blob struct {
	bytes *dynarray.Array[byte]
}

// NewBlob returns an empty blob backed by alloc.
func NewBlob(alloc dynarray.Allocator[byte]) *Blob {
	return &Blob{bytes: dynarray.New(alloc)}
}

// BlobOf returns a blob holding a copy of p.
func BlobOf(p []byte) *Blob {
	b := NewBlob(dynarray.Allocator[byte]{})
	b.bytes.Assign(p)
	return b
}

func (b *Blob) array() *dynarray.Array[byte] {
	if b.bytes == nil {
		b.bytes = dynarray.New(dynarray.Allocator[byte]{})
	}
	return b.bytes
}

// SetSize sets the payload length. Grown bytes are zero.
func (b *Blob) SetSize(n int) { b.array().Resize(n) }

// Len returns the payload length.
func (b *Blob) Len() int {
	if b.bytes == nil {
		return 0
	}
	return b.bytes.Len()
}

// Bytes returns the payload. The slice aliases the blob's storage.
func (b *Blob) Bytes() []byte {
	if b.bytes == nil {
		return nil
	}
	return b.bytes.Data()
}

// SetBytes replaces the payload with a copy of p.
func (b *Blob) SetBytes(p []byte) { b.array().Assign(p) }

// Clone returns a deep copy.
func (b *Blob) Clone() *Blob {
	return &Blob{bytes: b.array().Clone()}
}
