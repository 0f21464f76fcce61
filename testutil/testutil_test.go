package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRNGDeterministic(t *testing.T) {
	a := NewRNG(4711)
	b := NewRNG(4711)
	assert.Equal(t, a.Points(8), b.Points(8))

	a.Reset()
	assert.Equal(t, NewRNG(4711).Intn(1000), a.Intn(1000))
	assert.Equal(t, int64(4711), a.Seed())
}

func TestMesh(t *testing.T) {
	m := NewRNG(1).Mesh(32, 4)

	assert.Equal(t, 32, m.VertexCount())
	assert.True(t, m.Positions.Valid())
	assert.Len(t, m.Faces, 30)
	assert.Len(t, m.BlendShapeTargets, 4)
	for _, tgt := range m.BlendShapeTargets {
		assert.Equal(t, len(tgt.VertexIndices), tgt.Deltas.Len())
		for _, v := range tgt.VertexIndices {
			assert.Less(t, v, uint32(32))
		}
	}
}

func TestSampleDNA(t *testing.T) {
	d := SampleDNA()

	assert.Equal(t, 2, d.LODCount())
	assert.Equal(t, 4, d.JointCount())
	assert.Equal(t, 3, d.BlendShapeChannelCount())
	assert.Equal(t, 2, d.AnimatedMapCount())
	assert.Equal(t, 2, d.MeshCount())
	assert.Equal(t, 16, d.Behavior.Len())
	assert.Equal(t, []uint16{0, 1}, d.JointIndicesForLOD(1))
}
