package dnacalib

import (
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/hupe1980/terse/dna"
	"github.com/hupe1980/terse/tdm"
)

// SetSkinWeights replaces the joint influences of one vertex. Weights and
// JointIndices are parallel. The skin weight list of the mesh grows when
// VertexIndex lies past its end.
type SetSkinWeights struct {
	MeshIndex    int
	VertexIndex  int
	Weights      []float32
	JointIndices []uint16
}

// Run implements Command.
func (c *SetSkinWeights) Run(d *dna.DNA) error {
	if err := checkIndex(Mesh, c.MeshIndex, len(d.Geometry.Meshes)); err != nil {
		return err
	}
	if c.VertexIndex < 0 {
		return errors.Wrapf(ErrIndexOutOfRange, "vertex %d", c.VertexIndex)
	}
	if len(c.Weights) != len(c.JointIndices) {
		return errors.Wrapf(ErrInvalidArgument, "got %d weights for %d joints", len(c.Weights), len(c.JointIndices))
	}
	joints := len(d.Definition.JointNames)
	for _, j := range c.JointIndices {
		if err := checkIndex(Joint, int(j), joints); err != nil {
			return err
		}
	}

	m := &d.Geometry.Meshes[c.MeshIndex]
	if c.VertexIndex >= len(m.SkinWeights) {
		m.SkinWeights = append(m.SkinWeights, make([]dna.SkinWeights, c.VertexIndex+1-len(m.SkinWeights))...)
	}
	m.SkinWeights[c.VertexIndex] = dna.SkinWeights{
		Weights:      slices.Clone(c.Weights),
		JointIndices: slices.Clone(c.JointIndices),
	}
	return nil
}

// SetBlendShapeTargetDeltas combines the deltas of one blend shape target
// with Deltas. The target is resized to len(Deltas) first, new entries
// starting at zero. Masks holds a weight per delta; without masks every
// weight is one. A non-nil VertexIndices replaces the vertex indices of the
// target and must be parallel to Deltas.
type SetBlendShapeTargetDeltas struct {
	MeshIndex             int
	BlendShapeTargetIndex int
	Deltas                []tdm.Vec3
	VertexIndices         []uint32
	Masks                 []float32
	Operation             VectorOperation
}

// Run implements Command.
func (c *SetBlendShapeTargetDeltas) Run(d *dna.DNA) error {
	if err := checkIndex(Mesh, c.MeshIndex, len(d.Geometry.Meshes)); err != nil {
		return err
	}
	m := &d.Geometry.Meshes[c.MeshIndex]
	if c.BlendShapeTargetIndex < 0 || c.BlendShapeTargetIndex >= len(m.BlendShapeTargets) {
		return errors.Wrapf(ErrIndexOutOfRange, "blend shape target %d of %d", c.BlendShapeTargetIndex, len(m.BlendShapeTargets))
	}
	if c.Masks != nil && len(c.Masks) != len(c.Deltas) {
		return errors.Wrapf(ErrInvalidArgument, "got %d masks for %d deltas", len(c.Masks), len(c.Deltas))
	}
	if c.VertexIndices != nil && len(c.VertexIndices) != len(c.Deltas) {
		return errors.Wrapf(ErrInvalidArgument, "got %d vertex indices for %d deltas", len(c.VertexIndices), len(c.Deltas))
	}
	if c.Operation > Overwrite {
		return errors.Wrapf(ErrInvalidArgument, "vector operation %d", c.Operation)
	}

	t := &m.BlendShapeTargets[c.BlendShapeTargetIndex]
	t.Deltas.Resize(len(c.Deltas))
	for i, b := range c.Deltas {
		w := float32(1)
		if c.Masks != nil {
			w = c.Masks[i]
		}
		t.Deltas.Set(i, c.Operation.apply(t.Deltas.At(i), b, w))
	}
	if c.VertexIndices != nil {
		t.VertexIndices = slices.Clone(c.VertexIndices)
	}
	return nil
}
