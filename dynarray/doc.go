// Package dynarray provides a growable buffer restricted to trivially
// copyable element types.
//
// Growth reallocates through an [Allocator] and bulk-copies the old bytes;
// elements are never constructed or moved one at a time, which is why the
// element set is limited to fixed-width numeric kinds.
//
// # Ownership
//
// An [Array] owns its storage exclusively. [Array.Clone] produces a fully
// independent deep copy and [Array.Move] transfers storage, leaving the
// source empty with no storage. Copying an Array struct by value aliases its
// storage; use Clone instead.
//
// # Uninitialized Growth
//
// [Array.ResizeUninitialized] changes the length without writing the grown
// region. Contents of that region are unspecified until overwritten. It
// exists for load paths that immediately fill every new slot from a stream
// and must not be used anywhere a slot can be read before it is written.
package dynarray
