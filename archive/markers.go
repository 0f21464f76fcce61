package archive

import "github.com/cockroachdb/errors"

type markerKind uint8

const (
	kindAnchor markerKind = iota
	kindOffset
	kindSize
)

func (k markerKind) String() string {
	switch k {
	case kindAnchor:
		return "anchor"
	case kindOffset:
		return "offset"
	default:
		return "size"
	}
}

type marker struct {
	kind     markerKind
	position int64  // anchor: captured position; offset/size: placeholder position
	value    uint64 // persisted offset or size
	visited  bool
	pending  bool // a proxy has been created and not visited yet
	anchor   int  // size markers only
}

// Markers is an arena of anchors, deferred offsets and deferred sizes.
//
// Handles returned by the arena are indices, so they stay valid when the
// structs holding them are copied or moved. A Markers value must not be
// shared between archives running concurrently.
type Markers struct {
	entries []marker
}

// NewMarkers returns an empty arena.
func NewMarkers() *Markers {
	return &Markers{}
}

// Len returns the number of markers in the arena.
func (m *Markers) Len() int { return len(m.entries) }

// Reset clears the visit state of every marker so the arena can serve
// another pass. Handles stay valid.
func (m *Markers) Reset() {
	for i := range m.entries {
		e := &m.entries[i]
		e.position, e.value, e.visited, e.pending = 0, 0, false, false
	}
}

func (m *Markers) add(e marker) int {
	m.entries = append(m.entries, e)
	return len(m.entries) - 1
}

func (m *Markers) get(idx int, kind markerKind) *marker {
	if m == nil {
		panic(errors.AssertionFailedf("archive: %s handle is not bound to a marker arena", kind))
	}
	e := &m.entries[idx]
	if e.kind != kind {
		panic(errors.AssertionFailedf("archive: handle %d is a %s, not a %s", idx, e.kind, kind))
	}
	return e
}

// Anchor records a stream position when visited.
type Anchor struct {
	m   *Markers
	idx int
}

// Anchor allocates a new anchor.
func (m *Markers) Anchor() Anchor {
	return Anchor{m: m, idx: m.add(marker{kind: kindAnchor})}
}

// Position returns the stream position captured at the last visit.
func (a Anchor) Position() int64 { return a.m.get(a.idx, kindAnchor).position }

// Visited reports whether the anchor has been visited in the current pass.
func (a Anchor) Visited() bool { return a.m.get(a.idx, kindAnchor).visited }

// DeferredOffset is an absolute forward pointer. Binary output writes a
// placeholder on the first visit and patches it when the proxy is visited.
type DeferredOffset struct {
	m   *Markers
	idx int
}

// Offset allocates a new deferred offset.
func (m *Markers) Offset() DeferredOffset {
	return DeferredOffset{m: m, idx: m.add(marker{kind: kindOffset})}
}

// Value returns the offset payload.
func (o DeferredOffset) Value() uint64 { return o.m.get(o.idx, kindOffset).value }

// Position returns where the offset itself is stored. It is only meaningful
// after a binary visit and is never persisted.
func (o DeferredOffset) Position() int64 { return o.m.get(o.idx, kindOffset).position }

// Proxy binds the offset to the point where its value becomes known. Only
// one proxy may be live per offset; a proxy dies when it is visited.
func (o DeferredOffset) Proxy() OffsetProxy {
	e := o.m.get(o.idx, kindOffset)
	if e.pending {
		panic(errors.AssertionFailedf("archive: deferred offset %d already has a live proxy", o.idx))
	}
	e.pending = true
	return OffsetProxy(o)
}

// OffsetProxy resolves a DeferredOffset to the position at which it is
// visited.
type OffsetProxy struct {
	m   *Markers
	idx int
}

func (p OffsetProxy) release() *marker {
	e := p.m.get(p.idx, kindOffset)
	if !e.pending {
		panic(errors.AssertionFailedf("archive: offset proxy %d visited twice", p.idx))
	}
	e.pending = false
	return e
}

// DeferredSize is a length measured from an anchor. Binary output writes a
// placeholder on the first visit and patches it when the proxy is visited.
type DeferredSize struct {
	m   *Markers
	idx int
}

// Size allocates a new deferred size measured from base.
func (m *Markers) Size(base Anchor) DeferredSize {
	if base.m != m {
		panic(errors.AssertionFailedf("archive: anchor belongs to a different arena"))
	}
	return DeferredSize{m: m, idx: m.add(marker{kind: kindSize, anchor: base.idx})}
}

// Value returns the size payload.
func (s DeferredSize) Value() uint64 { return s.m.get(s.idx, kindSize).value }

// Position returns where the size itself is stored.
func (s DeferredSize) Position() int64 { return s.m.get(s.idx, kindSize).position }

// Base returns the anchor the size is measured from.
func (s DeferredSize) Base() Anchor {
	return Anchor{m: s.m, idx: s.m.get(s.idx, kindSize).anchor}
}

// Proxy binds the size and its anchor to the point where the measured region
// ends. Only one proxy may be live per size.
func (s DeferredSize) Proxy() SizeProxy {
	e := s.m.get(s.idx, kindSize)
	if e.pending {
		panic(errors.AssertionFailedf("archive: deferred size %d already has a live proxy", s.idx))
	}
	e.pending = true
	return SizeProxy(s)
}

// SizeProxy resolves a DeferredSize at the end of the measured region.
type SizeProxy struct {
	m   *Markers
	idx int
}

// release ends the proxy's life and returns the size and anchor entries.
// The anchor must have been visited already.
func (p SizeProxy) release() (*marker, *marker) {
	e := p.m.get(p.idx, kindSize)
	if !e.pending {
		panic(errors.AssertionFailedf("archive: size proxy %d visited twice", p.idx))
	}
	e.pending = false
	base := p.m.get(e.anchor, kindAnchor)
	return e, base
}

// releaseChecked additionally asserts that the anchor was visited before the
// proxy, which is the required order for binary archives.
func (p SizeProxy) releaseChecked() (*marker, *marker) {
	e, base := p.release()
	if !base.visited {
		panic(errors.AssertionFailedf("archive: size proxy %d resolved before its anchor", p.idx))
	}
	return e, base
}
