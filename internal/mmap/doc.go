// Package mmap maps files into memory read-only.
//
//	m, err := mmap.Open("rig.dna")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//
// Unix platforms use mmap(2) and honor access hints through madvise(2).
// Windows uses CreateFileMapping/MapViewOfFile and ignores hints.
//
// A Mapping is safe for concurrent reads. Close is idempotent, but callers
// must not touch a slice returned by Bytes after Close returns.
package mmap
