// Package archive implements a format-agnostic serialization protocol with
// binary and JSON backends.
//
// # Protocol
//
// A type takes part in serialization by implementing [Serializer], or the
// [Loader] and [Saver] pair, and visiting its members in a fixed order:
//
//	func (p *Packet) Serialize(ar archive.Archive) {
//		ar.Label("length")
//		ar.Process(&p.Length)
//		if ar.Mode() == archive.Load {
//			p.Payload.SetSize(int(p.Length))
//		}
//		ar.Label("payload")
//		ar.Process(p.Payload)
//	}
//
// The visiting order is the wire format. It must be identical for loading
// and saving; the framework never discovers field order on its own. Types
// that cannot carry methods use [With] or [WithPair] instead.
//
// # Built-in Values
//
// Fixed-width scalars, bool, [Char], strings, Go arrays and slices, [Pair],
// [dynarray.Array] and [Blob] are handled without user code. Wrappers select
// alternative treatment: [Transparent] drops struct framing in text formats
// for one nested call, [Fixed] marks a slice as a fixed-length array and
// [SliceWith] constructs loaded elements through a factory.
//
// # Deferred References
//
// [Markers] is an arena of anchors, deferred offsets and deferred sizes.
// Binary archives write placeholders for offsets and sizes and patch them by
// seeking back once the proxy is visited. Text archives ignore markers.
//
// # Errors
//
// Stream failures and malformed input put an archive into a sticky failed
// state. Every later call is a no-op; check [Archive.IsOk] or [Archive.Err]
// once after the top-level call. Violated programming contracts (a size that
// does not fit its field width, a size proxy resolved before its anchor, an
// unsupported value) panic.
package archive
