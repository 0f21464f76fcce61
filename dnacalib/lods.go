package dnacalib

import (
	"math"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/hupe1980/terse/dna"
	"github.com/hupe1980/terse/tdm"
)

const (
	uvOverlapCount     = 10
	uvCompareThreshold = 0.0002
	uvMirrorOffset     = 1.0
)

// CalculateMeshLowerLODs recomputes the vertex positions of the lower LOD
// versions of a mesh from the mesh itself. Every lower LOD vertex is located
// in the UV space of the source mesh and takes the barycentric blend of the
// source triangle it falls into.
//
// Lower LOD meshes are found by name: the part before the first underscore
// must match, as in head_lod0_mesh and head_lod1_mesh.
type CalculateMeshLowerLODs struct {
	MeshIndex int
}

// Run implements Command.
func (c *CalculateMeshLowerLODs) Run(d *dna.DNA) error {
	if err := checkIndex(Mesh, c.MeshIndex, min(d.MeshCount(), len(d.Geometry.Meshes))); err != nil {
		return err
	}
	src := &d.Geometry.Meshes[c.MeshIndex]
	if src.TextureCoordinates.Len() == 0 || len(src.Faces) == 0 {
		return errors.Wrapf(ErrInvalidArgument, "mesh %d has no UV mapped faces", c.MeshIndex)
	}
	sampler := newUVSampler(src)
	for _, mi := range lowerLODMeshes(d, c.MeshIndex) {
		if int(mi) >= len(d.Geometry.Meshes) {
			continue
		}
		sampler.project(&d.Geometry.Meshes[mi])
	}
	return nil
}

func baseMeshName(name string) string {
	if i := strings.IndexByte(name, '_'); i >= 0 {
		return name[:i]
	}
	return name
}

// lowerLODMeshes returns, for every LOD after the first one containing
// mesh, the first mesh sharing its base name.
func lowerLODMeshes(d *dna.DNA, mesh int) []uint16 {
	base := baseMeshName(d.Definition.MeshNames[mesh])
	var out []uint16
	lower := false
	for lod := 0; lod < d.LODCount(); lod++ {
		indices := d.MeshIndicesForLOD(lod)
		if !lower {
			for _, mi := range indices {
				if int(mi) == mesh {
					lower = true
					break
				}
			}
			continue
		}
		for _, mi := range indices {
			if int(mi) < d.MeshCount() && baseMeshName(d.Definition.MeshNames[mi]) == base {
				out = append(out, mi)
				break
			}
		}
	}
	return out
}

type uvTriangle struct {
	uv        [3]tdm.Vec2
	positions [3]uint32
	min, max  tdm.Vec2
}

func (t *uvTriangle) barycentric(p tdm.Vec2) (tdm.Vec3, bool) {
	v0 := t.uv[1].Sub(t.uv[0])
	v1 := t.uv[2].Sub(t.uv[0])
	v2 := p.Sub(t.uv[0])
	d00, d01, d11 := v0.Dot(v0), v0.Dot(v1), v1.Dot(v1)
	d20, d21 := v2.Dot(v0), v2.Dot(v1)
	den := d00*d11 - d01*d01
	if den == 0 {
		return tdm.Vec3{}, false
	}
	v := (d11*d20 - d01*d21) / den
	w := (d00*d21 - d01*d20) / den
	u := 1 - v - w
	const eps = -1e-5
	return tdm.Vec3{u, v, w}, u >= eps && v >= eps && w >= eps
}

// distance returns the distance from p to the bounding box of t.
func (t *uvTriangle) distance(p tdm.Vec2) float32 {
	dx := max(t.min[0]-p[0], 0, p[0]-t.max[0])
	dy := max(t.min[1]-p[1], 0, p[1]-t.max[1])
	return float32(math.Sqrt(float64(dx*dx + dy*dy)))
}

type uvSampler struct {
	mesh      *dna.Mesh
	triangles []uvTriangle
}

func newUVSampler(m *dna.Mesh) *uvSampler {
	us := dedupUVs(m.TextureCoordinates)
	s := &uvSampler{mesh: m}
	layouts := &m.Layouts
	for _, f := range m.Faces {
		// Fan triangulation.
		for k := 1; k+1 < len(f.LayoutIndices); k++ {
			var t uvTriangle
			ok := true
			for n, li := range [3]uint32{f.LayoutIndices[0], f.LayoutIndices[k], f.LayoutIndices[k+1]} {
				if int(li) >= layouts.Len() || int(layouts.TextureCoordinates[li]) >= len(us) {
					ok = false
					break
				}
				ti := layouts.TextureCoordinates[li]
				t.uv[n] = tdm.Vec2{us[ti], m.TextureCoordinates.Vs[ti]}
				t.positions[n] = layouts.Positions[li]
			}
			if !ok {
				continue
			}
			t.min = tdm.Vec2{min(t.uv[0][0], t.uv[1][0], t.uv[2][0]), min(t.uv[0][1], t.uv[1][1], t.uv[2][1])}
			t.max = tdm.Vec2{max(t.uv[0][0], t.uv[1][0], t.uv[2][0]), max(t.uv[0][1], t.uv[1][1], t.uv[2][1])}
			s.triangles = append(s.triangles, t)
		}
	}
	return s
}

// sample returns the source position under uv.
func (s *uvSampler) sample(uv tdm.Vec2) (tdm.Vec3, bool) {
	best := -1
	bestDist := float32(math.MaxFloat32)
	for i := range s.triangles {
		t := &s.triangles[i]
		if b, inside := t.barycentric(uv); inside {
			return s.blend(t, b), true
		}
		if dist := t.distance(uv); dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best < 0 {
		return tdm.Vec3{}, false
	}
	t := &s.triangles[best]
	b, _ := t.barycentric(uv)
	return s.blend(t, b), true
}

func (s *uvSampler) blend(t *uvTriangle, b tdm.Vec3) tdm.Vec3 {
	var p tdm.Vec3
	for n := 0; n < 3; n++ {
		p = p.Add(s.mesh.Positions.At(int(t.positions[n])).Scale(b[n]))
	}
	return p
}

// project overwrites the positions of dst. A position referenced by several
// vertex layouts receives the mean of their samples.
func (s *uvSampler) project(dst *dna.Mesh) {
	us := dedupUVs(dst.TextureCoordinates)
	layouts := &dst.Layouts
	var positions dna.Vector3Vector
	positions.Resize(dst.Positions.Len())
	counts := make([]uint32, dst.Positions.Len())
	for li := 0; li < layouts.Len(); li++ {
		ti, pi := layouts.TextureCoordinates[li], layouts.Positions[li]
		if int(ti) >= len(us) || int(pi) >= len(counts) {
			continue
		}
		p, ok := s.sample(tdm.Vec2{us[ti], dst.TextureCoordinates.Vs[ti]})
		if !ok {
			continue
		}
		counts[pi]++
		n := float32(counts[pi])
		positions.Set(int(pi), positions.At(int(pi)).Scale(n-1).Add(p).Scale(1/n))
	}
	for i, n := range counts {
		if n == 0 {
			positions.Set(i, dst.Positions.At(i))
		}
	}
	dst.Positions = positions
}

// dedupUVs returns the u coordinates of uv. When the map is mirrored into
// its upper half, the lower half is shifted by one so both halves stay
// apart.
func dedupUVs(uv dna.TextureCoordinates) []float32 {
	us := append([]float32(nil), uv.Us...)
	if !uvMapOverlapping(uv.Us, uv.Vs) {
		return us
	}
	half := len(us) / 2
	for i := 0; i < half; i++ {
		for j := half; j < len(us); j++ {
			if near(uv.Us[i], uv.Us[j]) && near(uv.Vs[i], uv.Vs[j]) {
				us[i] += uvMirrorOffset
				break
			}
		}
	}
	return us
}

// uvMapOverlapping checks whether the first coordinates repeat in the upper
// half of the map.
func uvMapOverlapping(us, vs []float32) bool {
	if len(us) == 0 || len(us)%2 != 0 || len(us) != len(vs) {
		return false
	}
	half := len(us) / 2
	for i := 0; i < min(half, uvOverlapCount); i++ {
		found := false
		for j := half; j < len(us); j++ {
			if near(us[i], us[j]) && near(vs[i], vs[j]) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < uvCompareThreshold
}
