package dna

import (
	"slices"

	"github.com/hupe1980/terse/archive"
)

// LODMapping assigns an index list to every LOD. Several LODs may share a
// list:
//
//	LODs:    [0, 0, 1]
//	Indices: [[10, 15, 12], [9, 7]]
//
// maps LOD 0 and 1 to [10, 15, 12] and LOD 2 to [9, 7].
type LODMapping struct {
	LODs    []uint16
	Indices [][]uint16
}

// Serialize implements archive.Serializer.
func (m *LODMapping) Serialize(ar archive.Archive) {
	ar.Label("lods")
	ar.Process(&m.LODs)
	ar.Label("indices")
	ar.Process(&m.Indices)
}

// LODCount returns the number of LODs.
func (m *LODMapping) LODCount() int { return len(m.LODs) }

// IndicesFor returns the index list of lod. The slice aliases the mapping.
func (m *LODMapping) IndicesFor(lod int) []uint16 {
	if lod < 0 || lod >= len(m.LODs) {
		return nil
	}
	list := int(m.LODs[lod])
	if list >= len(m.Indices) {
		return nil
	}
	return m.Indices[list]
}

// SetLODCount resets the mapping to n LODs with no index lists.
func (m *LODMapping) SetLODCount(n int) {
	m.LODs = make([]uint16, n)
	m.Indices = nil
}

// AssociateLODWithIndices points lod at index list list, growing the
// mapping as needed.
func (m *LODMapping) AssociateLODWithIndices(lod, list int) {
	if lod >= len(m.LODs) {
		m.LODs = append(m.LODs, make([]uint16, lod+1-len(m.LODs))...)
	}
	if list >= len(m.Indices) {
		m.Indices = append(m.Indices, make([][]uint16, list+1-len(m.Indices))...)
	}
	m.LODs[lod] = uint16(list)
}

// AddIndices appends values to index list list.
func (m *LODMapping) AddIndices(list int, values ...uint16) {
	if list >= len(m.Indices) {
		m.Indices = append(m.Indices, make([][]uint16, list+1-len(m.Indices))...)
	}
	m.Indices[list] = append(m.Indices[list], values...)
}

// MapIndices rewrites every index with fn. Indices for which fn reports
// false are dropped.
func (m *LODMapping) MapIndices(fn func(uint16) (uint16, bool)) {
	for i, list := range m.Indices {
		out := list[:0]
		for _, v := range list {
			if nv, ok := fn(v); ok {
				out = append(out, nv)
			}
		}
		m.Indices[i] = out
	}
}

// KeepLODs restricts the mapping to the given LODs, in the given order.
// Index lists no longer referenced are discarded.
func (m *LODMapping) KeepLODs(lods []int) {
	kept := make([]uint16, 0, len(lods))
	for _, lod := range lods {
		kept = append(kept, m.LODs[lod])
	}
	m.LODs = kept
	m.compact()
}

// compact drops unreferenced index lists and renumbers the rest.
func (m *LODMapping) compact() {
	remap := make(map[uint16]uint16, len(m.Indices))
	var lists [][]uint16
	for i, list := range m.LODs {
		nl, ok := remap[list]
		if !ok {
			nl = uint16(len(lists))
			remap[list] = nl
			lists = append(lists, m.Indices[list])
		}
		m.LODs[i] = nl
	}
	m.Indices = lists
}

// Distinct returns every index referenced by any LOD, sorted.
func (m *LODMapping) Distinct() []uint16 {
	var all []uint16
	for _, list := range m.Indices {
		all = append(all, list...)
	}
	slices.Sort(all)
	return slices.Compact(all)
}

// Clone returns a deep copy.
func (m *LODMapping) Clone() LODMapping {
	c := LODMapping{LODs: slices.Clone(m.LODs), Indices: make([][]uint16, len(m.Indices))}
	for i, list := range m.Indices {
		c.Indices[i] = slices.Clone(list)
	}
	return c
}

// SurjectiveMapping is a list of (from, to) index pairs, such as the
// association of blend shape channels with meshes.
type SurjectiveMapping struct {
	From []uint16
	To   []uint16
}

// Serialize implements archive.Serializer.
func (m *SurjectiveMapping) Serialize(ar archive.Archive) {
	ar.Label("from")
	ar.Process(&m.From)
	ar.Label("to")
	ar.Process(&m.To)
}

// Len returns the number of pairs.
func (m *SurjectiveMapping) Len() int { return len(m.From) }

// Add appends a pair.
func (m *SurjectiveMapping) Add(from, to uint16) {
	m.From = append(m.From, from)
	m.To = append(m.To, to)
}

// RemoveIf drops every pair for which pred reports true.
func (m *SurjectiveMapping) RemoveIf(pred func(from, to uint16) bool) {
	n := 0
	for i := range m.From {
		if pred(m.From[i], m.To[i]) {
			continue
		}
		m.From[n], m.To[n] = m.From[i], m.To[i]
		n++
	}
	m.From, m.To = m.From[:n], m.To[:n]
}

// Remap rewrites both sides of every pair. Pairs for which either function
// reports false are dropped.
func (m *SurjectiveMapping) Remap(from, to func(uint16) (uint16, bool)) {
	n := 0
	for i := range m.From {
		f, okf := from(m.From[i])
		t, okt := to(m.To[i])
		if !okf || !okt {
			continue
		}
		m.From[n], m.To[n] = f, t
		n++
	}
	m.From, m.To = m.From[:n], m.To[:n]
}

// Clone returns a deep copy.
func (m *SurjectiveMapping) Clone() SurjectiveMapping {
	return SurjectiveMapping{From: slices.Clone(m.From), To: slices.Clone(m.To)}
}
