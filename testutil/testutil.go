package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/terse/dna"
	"github.com/hupe1980/terse/stream"
	"github.com/hupe1980/terse/tdm"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic fixtures
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float32, minVal, maxVal float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float32()*span
	}
}

// Points returns n random points with coordinates in [-1, 1).
func (r *RNG) Points(n int) []tdm.Vec3 {
	data := make([]float32, 3*n)
	r.FillUniformRange(data, -1, 1)
	out := make([]tdm.Vec3, n)
	for i := range out {
		out[i] = tdm.Vec3{data[3*i], data[3*i+1], data[3*i+2]}
	}
	return out
}

// Mesh returns a triangle-strip mesh with vertexCount random vertices and
// targets sparse blend shape targets.
func (r *RNG) Mesh(vertexCount, targets int) dna.Mesh {
	var m dna.Mesh
	m.Positions = dna.NewVector3Vector(r.Points(vertexCount)...)
	m.Normals = dna.NewVector3Vector(r.Points(vertexCount)...)
	m.TextureCoordinates.Us = make([]float32, vertexCount)
	m.TextureCoordinates.Vs = make([]float32, vertexCount)
	r.FillUniformRange(m.TextureCoordinates.Us, 0, 1)
	r.FillUniformRange(m.TextureCoordinates.Vs, 0, 1)

	for i := 0; i < vertexCount; i++ {
		v := uint32(i)
		m.Layouts.Positions = append(m.Layouts.Positions, v)
		m.Layouts.TextureCoordinates = append(m.Layouts.TextureCoordinates, v)
		m.Layouts.Normals = append(m.Layouts.Normals, v)
		m.SkinWeights = append(m.SkinWeights, dna.SkinWeights{Weights: []float32{1}, JointIndices: []uint16{0}})
	}
	for i := 0; i+2 < vertexCount; i++ {
		m.Faces = append(m.Faces, dna.Face{LayoutIndices: []uint32{uint32(i), uint32(i + 1), uint32(i + 2)}})
	}
	m.MaximumInfluencePerVertex = 1

	for c := 0; c < targets; c++ {
		var t dna.BlendShapeTarget
		t.BlendShapeChannelIndex = uint16(c)
		for v := r.Intn(4); v < vertexCount; v += 1 + r.Intn(8) {
			t.VertexIndices = append(t.VertexIndices, uint32(v))
			t.Deltas.Append(r.Points(1)[0])
		}
		m.BlendShapeTargets = append(m.BlendShapeTargets, t)
	}
	return m
}

// SampleDNA returns a small two-LOD rig.
//
// Joints: root <- spine <- neck <- head; LOD 1 keeps root and spine.
// Channels: smile, blink, frown; LOD 1 keeps smile.
// Meshes: head_lod0 (a unit quad) on LOD 0 and head_lod1 (two vertices) on
// LOD 1.
func SampleDNA() *dna.DNA {
	d := dna.New()

	desc := &d.Descriptor
	desc.Name = "sample"
	desc.Archetype = 1
	desc.Age = 30
	desc.SetMetadata("source", "unit")
	desc.SetMetadata("units", "cm")
	desc.CoordinateSystem = dna.CoordinateSystem{XAxis: 0, YAxis: 2, ZAxis: 4}
	desc.LODCount = 2
	desc.MaxLOD = 1
	desc.Complexity = "Base"
	desc.DBName = "db"

	def := &d.Definition
	def.GUIControlNames = []string{"CTRL_smile"}
	def.RawControlNames = []string{"smile_raw", "blink_raw"}
	def.JointNames = []string{"root", "spine", "neck", "head"}
	def.JointHierarchy = []uint16{0, 0, 1, 2}
	def.LODJointMapping = dna.LODMapping{LODs: []uint16{0, 1}, Indices: [][]uint16{{0, 1, 2, 3}, {0, 1}}}
	def.BlendShapeChannelNames = []string{"smile", "blink", "frown"}
	def.LODBlendShapeMapping = dna.LODMapping{LODs: []uint16{0, 1}, Indices: [][]uint16{{0, 1, 2}, {0}}}
	def.AnimatedMapNames = []string{"wrinkle", "flush"}
	def.LODAnimatedMapMapping = dna.LODMapping{LODs: []uint16{0, 0}, Indices: [][]uint16{{0, 1}}}
	def.MeshNames = []string{"head_lod0", "head_lod1"}
	def.LODMeshMapping = dna.LODMapping{LODs: []uint16{0, 1}, Indices: [][]uint16{{0}, {1}}}
	def.MeshBlendShapeChannelMapping = dna.SurjectiveMapping{
		From: []uint16{0, 0, 0, 1},
		To:   []uint16{0, 1, 2, 0},
	}
	def.NeutralJointTranslations = dna.NewVector3Vector(
		tdm.Vec3{0, 0, 0}, tdm.Vec3{0, 10, 0}, tdm.Vec3{0, 5, 0}, tdm.Vec3{0, 3, 0})
	def.NeutralJointRotations = dna.NewVector3Vector(
		tdm.Vec3{0, 0, 0}, tdm.Vec3{10, 0, 0}, tdm.Vec3{0, 20, 0}, tdm.Vec3{0, 0, 30})

	payload := make([]byte, 16)
	for i := range payload {
		payload[i] = byte(i)
	}
	d.Behavior.Payload.SetBytes(payload)

	d.Geometry.Meshes = []dna.Mesh{sampleQuad(), sampleLine()}
	return d
}

func sampleQuad() dna.Mesh {
	var m dna.Mesh
	m.Positions = dna.NewVector3Vector(
		tdm.Vec3{0, 0, 0}, tdm.Vec3{1, 0, 0}, tdm.Vec3{1, 1, 0}, tdm.Vec3{0, 1, 0})
	m.TextureCoordinates = dna.TextureCoordinates{Us: []float32{0, 1, 1, 0}, Vs: []float32{0, 0, 1, 1}}
	m.Normals = dna.NewVector3Vector(
		tdm.Vec3{0, 0, 1}, tdm.Vec3{0, 0, 1}, tdm.Vec3{0, 0, 1}, tdm.Vec3{0, 0, 1})
	m.Layouts = dna.VertexLayouts{
		Positions:          []uint32{0, 1, 2, 3},
		TextureCoordinates: []uint32{0, 1, 2, 3},
		Normals:            []uint32{0, 1, 2, 3},
	}
	m.Faces = []dna.Face{{LayoutIndices: []uint32{0, 1, 2, 3}}}
	m.MaximumInfluencePerVertex = 2
	m.SkinWeights = []dna.SkinWeights{
		{Weights: []float32{1}, JointIndices: []uint16{0}},
		{Weights: []float32{0.5, 0.5}, JointIndices: []uint16{0, 1}},
		{Weights: []float32{0.25, 0.75}, JointIndices: []uint16{1, 3}},
		{Weights: []float32{1}, JointIndices: []uint16{2}},
	}
	m.BlendShapeTargets = []dna.BlendShapeTarget{
		{Deltas: dna.NewVector3Vector(tdm.Vec3{0, 0, 1}, tdm.Vec3{0, 0, 1}), VertexIndices: []uint32{0, 2}, BlendShapeChannelIndex: 0},
		{Deltas: dna.NewVector3Vector(tdm.Vec3{0, 0, 0.0001}, tdm.Vec3{0, 0, 2}), VertexIndices: []uint32{1, 3}, BlendShapeChannelIndex: 1},
		{Deltas: dna.NewVector3Vector(tdm.Vec3{0, 0, 0}), VertexIndices: []uint32{0}, BlendShapeChannelIndex: 2},
	}
	return m
}

func sampleLine() dna.Mesh {
	var m dna.Mesh
	m.Positions = dna.NewVector3Vector(tdm.Vec3{0, 0, 0}, tdm.Vec3{1, 1, 0})
	m.TextureCoordinates = dna.TextureCoordinates{Us: []float32{0, 1}, Vs: []float32{0, 1}}
	m.Normals = dna.NewVector3Vector(tdm.Vec3{0, 0, 1}, tdm.Vec3{0, 0, 1})
	m.Layouts = dna.VertexLayouts{
		Positions:          []uint32{0, 1},
		TextureCoordinates: []uint32{0, 1},
		Normals:            []uint32{0, 1},
	}
	m.Faces = []dna.Face{{LayoutIndices: []uint32{0, 1}}}
	m.MaximumInfluencePerVertex = 1
	m.SkinWeights = []dna.SkinWeights{
		{Weights: []float32{1}, JointIndices: []uint16{0}},
		{Weights: []float32{1}, JointIndices: []uint16{1}},
	}
	m.BlendShapeTargets = []dna.BlendShapeTarget{
		{Deltas: dna.NewVector3Vector(tdm.Vec3{0, 0, 1}), VertexIndices: []uint32{1}, BlendShapeChannelIndex: 0},
	}
	return m
}

// JSON renders d as an indented JSON document. It panics on failure, which
// only happens for documents that cannot be serialized at all.
func JSON(d *dna.DNA) string {
	m := stream.NewMemory()
	if err := d.WriteJSON(m, 2); err != nil {
		panic(err)
	}
	return string(m.Bytes())
}
