// Package stream provides the random-access byte streams archives run on.
//
// Memory is a growable in-memory buffer and the usual target for both
// directions. File wraps an open file, Mapped serves reads from a read-only
// memory mapping, and FromReadWriteSeeker adapts any io.ReadWriteSeeker.
//
// OpenFile and SaveFile move whole documents between disk and a Memory,
// optionally through a block-compressed container (LZ4 or Zstandard).
// SaveFile writes to a temporary file and renames it into place, so readers
// never observe a partially written document.
package stream
