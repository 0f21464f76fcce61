package dnacalib

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/hupe1980/terse/dna"
)

// Remove deletes elements of one kind and renumbers everything that refers
// to the survivors.
type Remove struct {
	Resource Resource
	Indices  []int
}

// RemoveJoint removes joints. Children of a removed joint are attached to
// the nearest surviving ancestor, and skin weights held by removed joints
// are redistributed over the remaining influences of each vertex.
func RemoveJoint(indices ...int) *Remove {
	return &Remove{Resource: Joint, Indices: indices}
}

// RemoveBlendShape removes blend shape channels together with their mesh
// targets.
func RemoveBlendShape(indices ...int) *Remove {
	return &Remove{Resource: BlendShape, Indices: indices}
}

// RemoveMesh removes meshes and their geometry.
func RemoveMesh(indices ...int) *Remove {
	return &Remove{Resource: Mesh, Indices: indices}
}

// RemoveAnimatedMap removes animated maps.
func RemoveAnimatedMap(indices ...int) *Remove {
	return &Remove{Resource: AnimatedMap, Indices: indices}
}

// Run implements Command.
func (c *Remove) Run(d *dna.DNA) error {
	count := len(*names(d, c.Resource))
	removed := roaring.New()
	for _, i := range c.Indices {
		if err := checkIndex(c.Resource, i, count); err != nil {
			return err
		}
		removed.Add(uint32(i))
	}
	if removed.IsEmpty() {
		return nil
	}
	ks := newKeepSet(count, removed)
	switch c.Resource {
	case Joint:
		removeJoints(d, ks)
	case BlendShape:
		removeBlendShapes(d, ks)
	case Mesh:
		removeMeshes(d, ks)
	case AnimatedMap:
		removeAnimatedMaps(d, ks)
	default:
		return errors.Wrapf(ErrInvalidArgument, "resource %d", c.Resource)
	}
	return nil
}

// keepSet holds the surviving indices of a resource. The new index of a
// survivor is its rank in the set.
type keepSet struct {
	keep    *roaring.Bitmap
	removed *roaring.Bitmap
}

func newKeepSet(count int, removed *roaring.Bitmap) keepSet {
	keep := roaring.New()
	keep.AddRange(0, uint64(count))
	keep.AndNot(removed)
	return keepSet{keep: keep, removed: removed}
}

func (k keepSet) contains(i int) bool { return k.keep.Contains(uint32(i)) }

// remap returns the new index of old, or false when old was removed.
func (k keepSet) remap(old uint16) (uint16, bool) {
	if !k.keep.Contains(uint32(old)) {
		return 0, false
	}
	return uint16(k.keep.Rank(uint32(old)) - 1), true
}

func identity(v uint16) (uint16, bool) { return v, true }

func filterByIndex[T any](s []T, k keepSet) []T {
	return lo.Filter(s, func(_ T, i int) bool { return k.contains(i) })
}

func removeJoints(d *dna.DNA, k keepSet) {
	def := &d.Definition

	// Resolve new parents before the hierarchy is filtered.
	parents := make([]uint16, 0, k.keep.GetCardinality())
	if len(def.JointHierarchy) > 0 {
		for _, j := range k.keep.ToArray() {
			np, _ := k.remap(uint16(survivingParent(def.JointHierarchy, k, int(j))))
			parents = append(parents, np)
		}
	}

	def.LODJointMapping.MapIndices(k.remap)
	def.JointNames = filterByIndex(def.JointNames, k)
	def.JointHierarchy = parents
	def.NeutralJointTranslations.Filter(k.contains)
	def.NeutralJointRotations.Filter(k.contains)

	root := uint16(0)
	for i, p := range def.JointHierarchy {
		if int(p) == i {
			root = uint16(i)
			break
		}
	}
	for mi := range d.Geometry.Meshes {
		m := &d.Geometry.Meshes[mi]
		for vi := range m.SkinWeights {
			redistribute(&m.SkinWeights[vi], k, root)
		}
	}
}

// survivingParent walks up from joint j to the first ancestor that is
// kept. A joint whose ancestors are all removed becomes a root.
func survivingParent(hierarchy []uint16, k keepSet, j int) int {
	cur := j
	for range hierarchy {
		if cur >= len(hierarchy) {
			break
		}
		p := int(hierarchy[cur])
		if p == cur {
			break
		}
		if k.contains(p) {
			return p
		}
		cur = p
	}
	return j
}

// redistribute drops influences of removed joints and rescales the rest so
// they keep summing to one. A vertex left without influences is bound to
// root.
func redistribute(sw *dna.SkinWeights, k keepSet, root uint16) {
	var discarded float32
	weights := sw.Weights[:0]
	joints := sw.JointIndices[:0]
	for i, j := range sw.JointIndices {
		nj, ok := k.remap(j)
		if !ok {
			discarded += sw.Weights[i]
			continue
		}
		weights = append(weights, sw.Weights[i])
		joints = append(joints, nj)
	}
	if len(joints) == 0 {
		sw.Weights = append(weights, 1)
		sw.JointIndices = append(joints, root)
		return
	}
	if discarded > 0 && discarded < 1 {
		scale := 1 / (1 - discarded)
		for i := range weights {
			weights[i] *= scale
		}
	}
	sw.Weights, sw.JointIndices = weights, joints
}

func removeBlendShapes(d *dna.DNA, k keepSet) {
	def := &d.Definition
	def.LODBlendShapeMapping.MapIndices(k.remap)
	def.BlendShapeChannelNames = filterByIndex(def.BlendShapeChannelNames, k)
	def.MeshBlendShapeChannelMapping.Remap(identity, k.remap)
	for mi := range d.Geometry.Meshes {
		m := &d.Geometry.Meshes[mi]
		m.BlendShapeTargets = lo.FilterMap(m.BlendShapeTargets, func(t dna.BlendShapeTarget, _ int) (dna.BlendShapeTarget, bool) {
			ch, ok := k.remap(t.BlendShapeChannelIndex)
			t.BlendShapeChannelIndex = ch
			return t, ok
		})
	}
}

func removeMeshes(d *dna.DNA, k keepSet) {
	def := &d.Definition
	def.LODMeshMapping.MapIndices(k.remap)
	def.MeshNames = filterByIndex(def.MeshNames, k)
	def.MeshBlendShapeChannelMapping.Remap(k.remap, identity)
	d.Geometry.Meshes = filterByIndex(d.Geometry.Meshes, k)
}

func removeAnimatedMaps(d *dna.DNA, k keepSet) {
	def := &d.Definition
	def.LODAnimatedMapMapping.MapIndices(k.remap)
	def.AnimatedMapNames = filterByIndex(def.AnimatedMapNames, k)
}

// ClearBlendShapes removes every blend shape channel and target.
type ClearBlendShapes struct{}

// Run implements Command.
func (ClearBlendShapes) Run(d *dna.DNA) error {
	def := &d.Definition
	def.BlendShapeChannelNames = nil
	if n := def.LODBlendShapeMapping.LODCount(); n > 0 {
		def.LODBlendShapeMapping.SetLODCount(n)
		def.LODBlendShapeMapping.AddIndices(0)
	}
	def.MeshBlendShapeChannelMapping = dna.SurjectiveMapping{}
	for mi := range d.Geometry.Meshes {
		d.Geometry.Meshes[mi].BlendShapeTargets = nil
	}
	return nil
}

// SetLODs keeps only the listed LODs, in the given order, and removes
// joints, blend shapes, animated maps and meshes no longer referenced by any
// of them.
type SetLODs struct {
	LODs []int
}

// Run implements Command.
func (c *SetLODs) Run(d *dna.DNA) error {
	if len(c.LODs) == 0 {
		return errors.Wrap(ErrInvalidArgument, "no LODs to keep")
	}
	lodCount := d.LODCount()
	if uniq := lo.Uniq(c.LODs); len(uniq) != len(c.LODs) {
		return errors.Wrapf(ErrInvalidArgument, "duplicate LOD in %v", c.LODs)
	}
	for _, lod := range c.LODs {
		if lod < 0 || lod >= lodCount {
			return errors.Wrapf(ErrInvalidArgument, "LOD %d out of range [0, %d)", lod, lodCount)
		}
	}

	def := &d.Definition
	mappings := []struct {
		r Resource
		m *dna.LODMapping
	}{
		{Joint, &def.LODJointMapping},
		{BlendShape, &def.LODBlendShapeMapping},
		{AnimatedMap, &def.LODAnimatedMapMapping},
		{Mesh, &def.LODMeshMapping},
	}
	for _, x := range mappings {
		if x.m.LODCount() == lodCount {
			x.m.KeepLODs(c.LODs)
		}
	}
	d.Descriptor.LODCount = uint16(len(c.LODs))
	d.Descriptor.MaxLOD += uint16(lo.Min(c.LODs))

	for _, x := range mappings {
		if x.m.LODCount() == 0 {
			continue
		}
		used := roaring.New()
		for _, i := range x.m.Distinct() {
			used.Add(uint32(i))
		}
		count := len(*names(d, x.r))
		all := roaring.New()
		all.AddRange(0, uint64(count))
		all.AndNot(used)
		if all.IsEmpty() {
			continue
		}
		unused := lo.Map(all.ToArray(), func(i uint32, _ int) int { return int(i) })
		if err := (&Remove{Resource: x.r, Indices: unused}).Run(d); err != nil {
			return err
		}
	}
	return nil
}
