package dnacalib

import (
	"github.com/cockroachdb/errors"

	"github.com/hupe1980/terse/dna"
	"github.com/hupe1980/terse/tdm"
)

// Translate moves the whole rig by Delta. Root joints and vertex positions
// are moved; everything else is relative to them.
type Translate struct {
	Delta tdm.Vec3
}

// Run implements Command.
func (c *Translate) Run(d *dna.DNA) error {
	def := &d.Definition
	for i := 0; i < def.NeutralJointTranslations.Len() && i < len(def.JointHierarchy); i++ {
		if def.IsRootJoint(i) {
			def.NeutralJointTranslations.Set(i, def.NeutralJointTranslations.At(i).Add(c.Delta))
		}
	}
	forEachMesh(d, func(m *dna.Mesh) {
		m.Positions.Transform(func(p tdm.Vec3) tdm.Vec3 { return p.Add(c.Delta) })
	})
	return nil
}

// Scale resizes the rig by Factor around Origin.
type Scale struct {
	Factor float32
	Origin tdm.Vec3
}

// Run implements Command.
func (c *Scale) Run(d *dna.DNA) error {
	if c.Factor <= 0 {
		return errors.Wrapf(ErrInvalidArgument, "scale factor %g", c.Factor)
	}
	if c.Factor == 1 {
		return nil
	}
	s := c.Factor
	around := func(p tdm.Vec3) tdm.Vec3 { return p.Sub(c.Origin).Scale(s).Add(c.Origin) }

	def := &d.Definition
	for i := 0; i < def.NeutralJointTranslations.Len(); i++ {
		t := def.NeutralJointTranslations.At(i)
		if i < len(def.JointHierarchy) && def.IsRootJoint(i) {
			t = around(t)
		} else {
			t = t.Scale(s)
		}
		def.NeutralJointTranslations.Set(i, t)
	}
	forEachMesh(d, func(m *dna.Mesh) {
		m.Positions.Transform(around)
		for ti := range m.BlendShapeTargets {
			m.BlendShapeTargets[ti].Deltas.Transform(func(v tdm.Vec3) tdm.Vec3 { return v.Scale(s) })
		}
	})
	return nil
}

// Rotate turns the rig by Degrees (Euler XYZ) around Origin. Vertex
// positions and root joints are rotated; normals and blend shape deltas are
// left unchanged.
type Rotate struct {
	Degrees tdm.Vec3
	Origin  tdm.Vec3
}

// Run implements Command.
func (c *Rotate) Run(d *dna.DNA) error {
	if c.Degrees == (tdm.Vec3{}) {
		return nil
	}
	m := tdm.Translation(c.Origin.Scale(-1)).
		Mul(tdm.RotationDegrees(c.Degrees)).
		Mul(tdm.Translation(c.Origin))

	def := &d.Definition
	n := min(def.NeutralJointTranslations.Len(), def.NeutralJointRotations.Len(), len(def.JointHierarchy))
	for i := 0; i < n; i++ {
		if !def.IsRootJoint(i) {
			continue
		}
		joint := tdm.RotationDegrees(def.NeutralJointRotations.At(i)).
			Mul(tdm.Translation(def.NeutralJointTranslations.At(i))).
			Mul(m)
		def.NeutralJointTranslations.Set(i, joint.Translation())
		def.NeutralJointRotations.Set(i, tdm.DegreesVec(joint.Rotation()))
	}
	forEachMesh(d, func(mesh *dna.Mesh) {
		mesh.Positions.Transform(m.MulVec3)
	})
	return nil
}

// SetNeutralJointTranslations replaces the neutral joint translations. The
// number of values must match the joint count.
type SetNeutralJointTranslations struct {
	Values []tdm.Vec3
}

// Run implements Command.
func (c *SetNeutralJointTranslations) Run(d *dna.DNA) error {
	return setJointVectors(d, &d.Definition.NeutralJointTranslations, c.Values)
}

// SetNeutralJointRotations replaces the neutral joint rotations, given in
// degrees.
type SetNeutralJointRotations struct {
	Values []tdm.Vec3
}

// Run implements Command.
func (c *SetNeutralJointRotations) Run(d *dna.DNA) error {
	return setJointVectors(d, &d.Definition.NeutralJointRotations, c.Values)
}

func setJointVectors(d *dna.DNA, dst *dna.Vector3Vector, values []tdm.Vec3) error {
	if len(values) != d.JointCount() {
		return errors.Wrapf(ErrInvalidArgument, "got %d values for %d joints", len(values), d.JointCount())
	}
	*dst = dna.NewVector3Vector(values...)
	return nil
}

// VectorOperation combines a current value a with a new value b using
// weight w.
type VectorOperation uint8

const (
	// Interpolate computes a*(1-w) + b*w.
	Interpolate VectorOperation = iota
	// Add computes a + b*w.
	Add
	// Subtract computes a - b*w.
	Subtract
	// Multiply computes a * (b*w).
	Multiply
	// Overwrite stores b wherever w is non-zero.
	Overwrite
)

func (op VectorOperation) String() string {
	switch op {
	case Interpolate:
		return "interpolate"
	case Add:
		return "add"
	case Subtract:
		return "subtract"
	case Multiply:
		return "multiply"
	case Overwrite:
		return "overwrite"
	default:
		return "unknown"
	}
}

// ParseVectorOperation parses an operation name.
func ParseVectorOperation(s string) (VectorOperation, error) {
	for op := Interpolate; op <= Overwrite; op++ {
		if op.String() == s {
			return op, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidArgument, "unknown vector operation %q", s)
}

func (op VectorOperation) apply(a, b tdm.Vec3, w float32) tdm.Vec3 {
	switch op {
	case Add:
		return a.Add(b.Scale(w))
	case Subtract:
		return a.Sub(b.Scale(w))
	case Multiply:
		return a.Mul(b.Scale(w))
	case Overwrite:
		if w == 0 {
			return a
		}
		return b
	default:
		return a.Scale(1 - w).Add(b.Scale(w))
	}
}

// SetVertexPositions combines the positions of one mesh with Positions.
// Masks holds a weight per position; without masks every weight is one.
type SetVertexPositions struct {
	MeshIndex int
	Positions []tdm.Vec3
	Masks     []float32
	Operation VectorOperation
}

// Run implements Command.
func (c *SetVertexPositions) Run(d *dna.DNA) error {
	if err := checkIndex(Mesh, c.MeshIndex, len(d.Geometry.Meshes)); err != nil {
		return err
	}
	if c.Masks != nil && len(c.Masks) != len(c.Positions) {
		return errors.Wrapf(ErrInvalidArgument, "got %d masks for %d positions", len(c.Masks), len(c.Positions))
	}
	if c.Operation > Overwrite {
		return errors.Wrapf(ErrInvalidArgument, "vector operation %d", c.Operation)
	}
	m := &d.Geometry.Meshes[c.MeshIndex]
	m.Positions.Resize(len(c.Positions))
	for i, b := range c.Positions {
		w := float32(1)
		if c.Masks != nil {
			w = c.Masks[i]
		}
		m.Positions.Set(i, c.Operation.apply(m.Positions.At(i), b, w))
	}
	return nil
}

// PruneBlendShapeTargets drops blend shape deltas whose length does not
// exceed Threshold.
type PruneBlendShapeTargets struct {
	Threshold float32
}

// Run implements Command.
func (c *PruneBlendShapeTargets) Run(d *dna.DNA) error {
	if c.Threshold < 0 {
		return errors.Wrapf(ErrInvalidArgument, "threshold %g", c.Threshold)
	}
	limit := c.Threshold * c.Threshold
	forEachMesh(d, func(m *dna.Mesh) {
		for ti := range m.BlendShapeTargets {
			t := &m.BlendShapeTargets[ti]
			keep := func(i int) bool {
				v := t.Deltas.At(i)
				return v.Dot(v) > limit
			}
			indices := t.VertexIndices[:0]
			for i, vi := range t.VertexIndices {
				if i < t.Deltas.Len() && keep(i) {
					indices = append(indices, vi)
				}
			}
			t.Deltas.Filter(keep)
			t.VertexIndices = indices
		}
	})
	return nil
}

func forEachMesh(d *dna.DNA, fn func(m *dna.Mesh)) {
	for i := range d.Geometry.Meshes {
		fn(&d.Geometry.Meshes[i])
	}
}
