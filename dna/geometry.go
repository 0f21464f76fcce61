package dna

import (
	"slices"

	"github.com/hupe1980/terse/archive"
)

// Face lists the vertex layouts that form a polygon.
type Face struct {
	LayoutIndices []uint32
}

// Serialize implements archive.Serializer.
func (f *Face) Serialize(ar archive.Archive) {
	ar.Label("layoutIndices")
	ar.Process(&f.LayoutIndices)
}

// SkinWeights holds the joint influences of one vertex.
type SkinWeights struct {
	Weights      []float32
	JointIndices []uint16
}

// Serialize implements archive.Serializer.
func (w *SkinWeights) Serialize(ar archive.Archive) {
	ar.Label("weights")
	ar.Process(&w.Weights)
	ar.Label("jointIndices")
	ar.Process(&w.JointIndices)
}

// BlendShapeTarget holds the sparse vertex deltas of one blend shape
// channel on a mesh.
type BlendShapeTarget struct {
	Deltas                 Vector3Vector
	VertexIndices          []uint32
	BlendShapeChannelIndex uint16
}

// Serialize implements archive.Serializer.
func (t *BlendShapeTarget) Serialize(ar archive.Archive) {
	ar.Label("deltas")
	ar.Process(&t.Deltas)
	ar.Label("vertexIndices")
	ar.Process(&t.VertexIndices)
	ar.Label("blendShapeChannelIndex")
	ar.Process(&t.BlendShapeChannelIndex)
}

// Clone returns a deep copy.
func (t *BlendShapeTarget) Clone() BlendShapeTarget {
	return BlendShapeTarget{
		Deltas:                 t.Deltas.Clone(),
		VertexIndices:          slices.Clone(t.VertexIndices),
		BlendShapeChannelIndex: t.BlendShapeChannelIndex,
	}
}

// Mesh is the geometry of one mesh. Binary archives prefix it with its
// length so readers can skip it.
//
// The zero value is ready to use.
type Mesh struct {
	markers *archive.Markers
	size    archive.DeferredSize
	start   archive.Anchor

	Positions                 Vector3Vector
	TextureCoordinates        TextureCoordinates
	Normals                   Vector3Vector
	Layouts                   VertexLayouts
	Faces                     []Face
	MaximumInfluencePerVertex uint16
	SkinWeights               []SkinWeights
	BlendShapeTargets         []BlendShapeTarget
}

func (m *Mesh) bind() {
	if m.markers != nil {
		m.markers.Reset()
		return
	}
	m.markers = archive.NewMarkers()
	m.start = m.markers.Anchor()
	m.size = m.markers.Size(m.start)
}

// Serialize implements archive.Serializer.
func (m *Mesh) Serialize(ar archive.Archive) {
	m.bind()
	ar.Process(m.size)
	ar.Process(m.start)
	ar.Label("positions")
	ar.Process(&m.Positions)
	ar.Label("textureCoordinates")
	ar.Process(&m.TextureCoordinates)
	ar.Label("normals")
	ar.Process(&m.Normals)
	ar.Label("layouts")
	ar.Process(&m.Layouts)
	ar.Label("faces")
	ar.Process(&m.Faces)
	ar.Label("maximumInfluencePerVertex")
	ar.Process(&m.MaximumInfluencePerVertex)
	ar.Label("skinWeights")
	ar.Process(&m.SkinWeights)
	ar.Label("blendShapeTargets")
	ar.Process(&m.BlendShapeTargets)
	ar.Process(m.size.Proxy())
}

// VertexCount returns the number of vertex positions.
func (m *Mesh) VertexCount() int { return m.Positions.Len() }

// Clone returns a deep copy that does not share marker state with m.
func (m *Mesh) Clone() Mesh {
	c := Mesh{
		Positions:                 m.Positions.Clone(),
		TextureCoordinates:        m.TextureCoordinates.Clone(),
		Normals:                   m.Normals.Clone(),
		Layouts:                   m.Layouts.Clone(),
		Faces:                     make([]Face, len(m.Faces)),
		MaximumInfluencePerVertex: m.MaximumInfluencePerVertex,
		SkinWeights:               make([]SkinWeights, len(m.SkinWeights)),
		BlendShapeTargets:         make([]BlendShapeTarget, len(m.BlendShapeTargets)),
	}
	for i, f := range m.Faces {
		c.Faces[i] = Face{LayoutIndices: slices.Clone(f.LayoutIndices)}
	}
	for i, w := range m.SkinWeights {
		c.SkinWeights[i] = SkinWeights{Weights: slices.Clone(w.Weights), JointIndices: slices.Clone(w.JointIndices)}
	}
	for i := range m.BlendShapeTargets {
		c.BlendShapeTargets[i] = m.BlendShapeTargets[i].Clone()
	}
	return c
}

// Geometry holds every mesh of the rig, indexed like Definition.MeshNames.
type Geometry struct {
	section archive.DeferredOffset

	Meshes []Mesh
}

// Serialize implements archive.Serializer.
func (g *Geometry) Serialize(ar archive.Archive) {
	ar.Process(g.section.Proxy())
	ar.Label("meshes")
	ar.Process(&g.Meshes)
}

func (g *Geometry) clone() Geometry {
	c := Geometry{section: g.section, Meshes: make([]Mesh, len(g.Meshes))}
	for i := range g.Meshes {
		c.Meshes[i] = g.Meshes[i].Clone()
	}
	return c
}
