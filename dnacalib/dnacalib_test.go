package dnacalib_test

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/terse/dna"
	"github.com/hupe1980/terse/dnacalib"
	"github.com/hupe1980/terse/stream"
	"github.com/hupe1980/terse/tdm"
	"github.com/hupe1980/terse/testutil"
)

func assertVecNear(t *testing.T, want, got tdm.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "component %d of %v", i, got)
	}
}

func TestSequence(t *testing.T) {
	rename := dnacalib.RenameJoint(0, "pelvis")
	translate := &dnacalib.Translate{Delta: tdm.Vec3{1, 0, 0}}

	seq := dnacalib.NewSequence(rename, nil, translate)
	assert.Equal(t, 2, seq.Len())
	assert.True(t, seq.Contains(rename))
	assert.False(t, seq.Contains(dnacalib.RenameJoint(0, "pelvis")))

	d := testutil.SampleDNA()
	require.NoError(t, seq.Run(d))
	assert.Equal(t, "pelvis", d.Definition.JointNames[0])
	assertVecNear(t, tdm.Vec3{1, 0, 0}, d.Definition.NeutralJointTranslations.At(0))

	assert.True(t, seq.Remove(rename))
	assert.False(t, seq.Remove(rename))
	assert.Equal(t, 1, seq.Len())
	require.Len(t, seq.Commands(), 1)
	assert.Same(t, translate, seq.Commands()[0])

	t.Run("StopsAtFirstFailure", func(t *testing.T) {
		calls := 0
		seq := dnacalib.NewSequence(
			dnacalib.RenameMesh(9, "x"),
			dnacalib.CommandFunc(func(*dna.DNA) error { calls++; return nil }),
		)
		err := seq.Run(testutil.SampleDNA())
		require.Error(t, err)
		assert.True(t, errors.Is(err, dnacalib.ErrIndexOutOfRange))
		assert.Zero(t, calls)
	})

	t.Run("FuncCommands", func(t *testing.T) {
		calls := 0
		fn := dnacalib.CommandFunc(func(*dna.DNA) error { calls++; return nil })
		seq := dnacalib.NewSequence(fn, &fn)
		assert.Equal(t, 2, seq.Len())

		assert.False(t, seq.Contains(fn))
		assert.False(t, seq.Remove(fn))
		assert.True(t, seq.Contains(&fn))
		assert.True(t, seq.Remove(&fn))
		assert.Equal(t, 1, seq.Len())

		require.NoError(t, seq.Run(testutil.SampleDNA()))
		assert.Equal(t, 1, calls)
	})
}

func TestRename(t *testing.T) {
	tests := []struct {
		name    string
		cmd     *dnacalib.Rename
		list    func(d *dna.DNA) []string
		index   int
		wantErr error
	}{
		{"Joint", dnacalib.RenameJoint(1, "chest"), func(d *dna.DNA) []string { return d.Definition.JointNames }, 1, nil},
		{"BlendShape", dnacalib.RenameBlendShape(2, "chest"), func(d *dna.DNA) []string { return d.Definition.BlendShapeChannelNames }, 2, nil},
		{"Mesh", dnacalib.RenameMesh(0, "chest"), func(d *dna.DNA) []string { return d.Definition.MeshNames }, 0, nil},
		{"AnimatedMap", dnacalib.RenameAnimatedMap(1, "chest"), func(d *dna.DNA) []string { return d.Definition.AnimatedMapNames }, 1, nil},
		{"ByName", dnacalib.RenameByName(dnacalib.Joint, "neck", "chest"), func(d *dna.DNA) []string { return d.Definition.JointNames }, 2, nil},
		{"UnknownName", dnacalib.RenameByName(dnacalib.Mesh, "body", "chest"), nil, 0, dnacalib.ErrNotFound},
		{"OutOfRange", dnacalib.RenameJoint(4, "chest"), nil, 0, dnacalib.ErrIndexOutOfRange},
		{"EmptyName", dnacalib.RenameJoint(0, ""), nil, 0, dnacalib.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testutil.SampleDNA()
			err := tt.cmd.Run(d)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "chest", tt.list(d)[tt.index])
		})
	}

	t.Run("IndexError", func(t *testing.T) {
		err := dnacalib.RenameMesh(5, "x").Run(testutil.SampleDNA())
		var ie *dnacalib.IndexError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, dnacalib.Mesh, ie.Resource)
		assert.Equal(t, 5, ie.Index)
		assert.Equal(t, 2, ie.Count)
		assert.Equal(t, "dnacalib: mesh index 5 out of range [0, 2)", ie.Error())
	})
}

func TestParseResource(t *testing.T) {
	for in, want := range map[string]dnacalib.Resource{
		"joint":        dnacalib.Joint,
		"blendShape":   dnacalib.BlendShape,
		"blend_shapes": dnacalib.BlendShape,
		"Mesh":         dnacalib.Mesh,
		"animated-map": dnacalib.AnimatedMap,
	} {
		got, err := dnacalib.ParseResource(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := dnacalib.ParseResource("bone")
	assert.True(t, errors.Is(err, dnacalib.ErrInvalidArgument))
}

func TestRemoveJoint(t *testing.T) {
	t.Run("Inner", func(t *testing.T) {
		d := testutil.SampleDNA()
		require.NoError(t, dnacalib.RemoveJoint(1).Run(d))

		def := &d.Definition
		assert.Equal(t, []string{"root", "neck", "head"}, def.JointNames)
		assert.Equal(t, []uint16{0, 0, 1}, def.JointHierarchy)
		assert.Equal(t, [][]uint16{{0, 1, 2}, {0}}, def.LODJointMapping.Indices)
		assert.Equal(t, []tdm.Vec3{{0, 0, 0}, {0, 5, 0}, {0, 3, 0}}, def.NeutralJointTranslations.Points())
		assert.Equal(t, []tdm.Vec3{{0, 0, 0}, {0, 20, 0}, {0, 0, 30}}, def.NeutralJointRotations.Points())

		quad := d.Mesh(0)
		assert.Equal(t, []dna.SkinWeights{
			{Weights: []float32{1}, JointIndices: []uint16{0}},
			{Weights: []float32{1}, JointIndices: []uint16{0}},
			{Weights: []float32{1}, JointIndices: []uint16{2}},
			{Weights: []float32{1}, JointIndices: []uint16{1}},
		}, quad.SkinWeights)

		// The only influence was removed: the vertex falls back to the root.
		line := d.Mesh(1)
		assert.Equal(t, dna.SkinWeights{Weights: []float32{1}, JointIndices: []uint16{0}}, line.SkinWeights[1])
	})

	t.Run("Root", func(t *testing.T) {
		d := testutil.SampleDNA()
		require.NoError(t, dnacalib.RemoveJoint(0).Run(d))
		assert.Equal(t, []string{"spine", "neck", "head"}, d.Definition.JointNames)
		assert.Equal(t, []uint16{0, 0, 1}, d.Definition.JointHierarchy)
		assert.True(t, d.Definition.IsRootJoint(0))
	})

	t.Run("Several", func(t *testing.T) {
		d := testutil.SampleDNA()
		require.NoError(t, dnacalib.RemoveJoint(3, 1, 3).Run(d))
		assert.Equal(t, []string{"root", "neck"}, d.Definition.JointNames)
		assert.Equal(t, []uint16{0, 0}, d.Definition.JointHierarchy)
		assert.Equal(t, [][]uint16{{0, 1}, {0}}, d.Definition.LODJointMapping.Indices)
	})

	t.Run("OutOfRange", func(t *testing.T) {
		d := testutil.SampleDNA()
		before := testutil.JSON(d)
		err := dnacalib.RemoveJoint(0, 7).Run(d)
		assert.True(t, errors.Is(err, dnacalib.ErrIndexOutOfRange))
		assert.Equal(t, before, testutil.JSON(d))
	})
}

func TestRemoveBlendShape(t *testing.T) {
	d := testutil.SampleDNA()
	require.NoError(t, dnacalib.RemoveBlendShape(1).Run(d))

	def := &d.Definition
	assert.Equal(t, []string{"smile", "frown"}, def.BlendShapeChannelNames)
	assert.Equal(t, [][]uint16{{0, 1}, {0}}, def.LODBlendShapeMapping.Indices)
	assert.Equal(t, []uint16{0, 0, 1}, def.MeshBlendShapeChannelMapping.From)
	assert.Equal(t, []uint16{0, 1, 0}, def.MeshBlendShapeChannelMapping.To)

	quad := d.Mesh(0)
	require.Len(t, quad.BlendShapeTargets, 2)
	assert.Equal(t, uint16(0), quad.BlendShapeTargets[0].BlendShapeChannelIndex)
	assert.Equal(t, uint16(1), quad.BlendShapeTargets[1].BlendShapeChannelIndex)
	assert.Equal(t, []uint32{0}, quad.BlendShapeTargets[1].VertexIndices)
	require.Len(t, d.Mesh(1).BlendShapeTargets, 1)
}

func TestRemoveMesh(t *testing.T) {
	d := testutil.SampleDNA()
	require.NoError(t, dnacalib.RemoveMesh(0).Run(d))

	def := &d.Definition
	assert.Equal(t, []string{"head_lod1"}, def.MeshNames)
	assert.Equal(t, [][]uint16{{}, {0}}, def.LODMeshMapping.Indices)
	assert.Equal(t, []uint16{0}, def.MeshBlendShapeChannelMapping.From)
	assert.Equal(t, []uint16{0}, def.MeshBlendShapeChannelMapping.To)
	require.Len(t, d.Geometry.Meshes, 1)
	assert.Equal(t, 2, d.Mesh(0).VertexCount())
}

func TestRemoveAnimatedMap(t *testing.T) {
	d := testutil.SampleDNA()
	require.NoError(t, dnacalib.RemoveAnimatedMap(0).Run(d))
	assert.Equal(t, []string{"flush"}, d.Definition.AnimatedMapNames)
	assert.Equal(t, [][]uint16{{0}}, d.Definition.LODAnimatedMapMapping.Indices)
}

func TestRemoveNothing(t *testing.T) {
	d := testutil.SampleDNA()
	before := testutil.JSON(d)
	require.NoError(t, dnacalib.RemoveMesh().Run(d))
	assert.Equal(t, before, testutil.JSON(d))
}

func TestClearBlendShapes(t *testing.T) {
	d := testutil.SampleDNA()
	require.NoError(t, dnacalib.ClearBlendShapes{}.Run(d))

	def := &d.Definition
	assert.Empty(t, def.BlendShapeChannelNames)
	assert.Equal(t, 2, def.LODBlendShapeMapping.LODCount())
	assert.Empty(t, def.LODBlendShapeMapping.IndicesFor(0))
	assert.Empty(t, def.LODBlendShapeMapping.IndicesFor(1))
	assert.Zero(t, def.MeshBlendShapeChannelMapping.Len())
	for i := range d.Geometry.Meshes {
		assert.Empty(t, d.Geometry.Meshes[i].BlendShapeTargets)
	}

	// The cleared document still serializes.
	m := stream.NewMemory()
	require.NoError(t, d.WriteBinary(m))
}

func TestSetLODs(t *testing.T) {
	t.Run("KeepLowest", func(t *testing.T) {
		d := testutil.SampleDNA()
		require.NoError(t, (&dnacalib.SetLODs{LODs: []int{1}}).Run(d))

		def := &d.Definition
		assert.Equal(t, 1, d.LODCount())
		assert.Equal(t, uint16(2), d.Descriptor.MaxLOD)
		assert.Equal(t, []string{"root", "spine"}, def.JointNames)
		assert.Equal(t, []uint16{0, 0}, def.JointHierarchy)
		assert.Equal(t, []string{"smile"}, def.BlendShapeChannelNames)
		assert.Equal(t, []string{"wrinkle", "flush"}, def.AnimatedMapNames)
		assert.Equal(t, []string{"head_lod1"}, def.MeshNames)
		assert.Equal(t, []uint16{0}, def.LODMeshMapping.IndicesFor(0))
		assert.Equal(t, []uint16{0}, def.MeshBlendShapeChannelMapping.From)
		assert.Equal(t, []uint16{0}, def.MeshBlendShapeChannelMapping.To)
		require.Len(t, d.Geometry.Meshes, 1)
		assert.Equal(t, "head_lod1", d.Definition.MeshNames[0])
	})

	t.Run("KeepAll", func(t *testing.T) {
		d := testutil.SampleDNA()
		before := testutil.JSON(d)
		require.NoError(t, (&dnacalib.SetLODs{LODs: []int{0, 1}}).Run(d))
		assert.Equal(t, before, testutil.JSON(d))
	})

	for name, lods := range map[string][]int{
		"Empty":      nil,
		"OutOfRange": {2},
		"Negative":   {-1},
		"Duplicate":  {0, 0},
	} {
		t.Run(name, func(t *testing.T) {
			err := (&dnacalib.SetLODs{LODs: lods}).Run(testutil.SampleDNA())
			assert.True(t, errors.Is(err, dnacalib.ErrInvalidArgument), "got %v", err)
		})
	}
}

func TestTranslate(t *testing.T) {
	d := testutil.SampleDNA()
	require.NoError(t, (&dnacalib.Translate{Delta: tdm.Vec3{1, 2, 3}}).Run(d))

	def := &d.Definition
	assertVecNear(t, tdm.Vec3{1, 2, 3}, def.NeutralJointTranslations.At(0))
	assertVecNear(t, tdm.Vec3{0, 10, 0}, def.NeutralJointTranslations.At(1))
	assertVecNear(t, tdm.Vec3{1, 2, 3}, d.Mesh(0).Positions.At(0))
	assertVecNear(t, tdm.Vec3{2, 3, 3}, d.Mesh(1).Positions.At(1))
	assertVecNear(t, tdm.Vec3{0, 0, 1}, d.Mesh(0).BlendShapeTargets[0].Deltas.At(0))
}

func TestScale(t *testing.T) {
	d := testutil.SampleDNA()
	require.NoError(t, (&dnacalib.Scale{Factor: 2, Origin: tdm.Vec3{1, 0, 0}}).Run(d))

	def := &d.Definition
	assertVecNear(t, tdm.Vec3{-1, 0, 0}, def.NeutralJointTranslations.At(0))
	assertVecNear(t, tdm.Vec3{0, 20, 0}, def.NeutralJointTranslations.At(1))

	quad := d.Mesh(0)
	assertVecNear(t, tdm.Vec3{1, 0, 0}, quad.Positions.At(1))
	assertVecNear(t, tdm.Vec3{1, 2, 0}, quad.Positions.At(2))
	assertVecNear(t, tdm.Vec3{0, 0, 2}, quad.BlendShapeTargets[0].Deltas.At(0))

	t.Run("Identity", func(t *testing.T) {
		d := testutil.SampleDNA()
		before := testutil.JSON(d)
		require.NoError(t, (&dnacalib.Scale{Factor: 1, Origin: tdm.Vec3{5, 5, 5}}).Run(d))
		assert.Equal(t, before, testutil.JSON(d))
	})

	t.Run("InvalidFactor", func(t *testing.T) {
		err := (&dnacalib.Scale{Factor: 0}).Run(testutil.SampleDNA())
		assert.True(t, errors.Is(err, dnacalib.ErrInvalidArgument))
	})
}

func TestRotate(t *testing.T) {
	t.Run("AroundOrigin", func(t *testing.T) {
		d := testutil.SampleDNA()
		require.NoError(t, (&dnacalib.Rotate{Degrees: tdm.Vec3{0, 0, 90}}).Run(d))

		def := &d.Definition
		assertVecNear(t, tdm.Vec3{0, 0, 0}, def.NeutralJointTranslations.At(0))
		assertVecNear(t, tdm.Vec3{0, 0, 90}, def.NeutralJointRotations.At(0))
		// Child joints stay relative to their parent.
		assertVecNear(t, tdm.Vec3{10, 0, 0}, def.NeutralJointRotations.At(1))

		assertVecNear(t, tdm.Vec3{0, 1, 0}, d.Mesh(0).Positions.At(1))
		assertVecNear(t, tdm.Vec3{-1, 1, 0}, d.Mesh(0).Positions.At(2))
		// Normals are left alone.
		assertVecNear(t, tdm.Vec3{0, 0, 1}, d.Mesh(0).Normals.At(0))
	})

	t.Run("AroundPivot", func(t *testing.T) {
		d := testutil.SampleDNA()
		require.NoError(t, (&dnacalib.Rotate{Degrees: tdm.Vec3{0, 0, 90}, Origin: tdm.Vec3{1, 0, 0}}).Run(d))
		assertVecNear(t, tdm.Vec3{1, -1, 0}, d.Definition.NeutralJointTranslations.At(0))
		assertVecNear(t, tdm.Vec3{1, -1, 0}, d.Mesh(0).Positions.At(0))
		assertVecNear(t, tdm.Vec3{1, 0, 0}, d.Mesh(0).Positions.At(1))
	})

	t.Run("Zero", func(t *testing.T) {
		d := testutil.SampleDNA()
		before := testutil.JSON(d)
		require.NoError(t, (&dnacalib.Rotate{Origin: tdm.Vec3{1, 2, 3}}).Run(d))
		assert.Equal(t, before, testutil.JSON(d))
	})
}

func TestSetNeutralJoints(t *testing.T) {
	values := []tdm.Vec3{{1, 1, 1}, {2, 2, 2}, {3, 3, 3}, {4, 4, 4}}

	d := testutil.SampleDNA()
	require.NoError(t, (&dnacalib.SetNeutralJointTranslations{Values: values}).Run(d))
	assert.Equal(t, values, d.Definition.NeutralJointTranslations.Points())

	require.NoError(t, (&dnacalib.SetNeutralJointRotations{Values: values}).Run(d))
	assert.Equal(t, values, d.Definition.NeutralJointRotations.Points())

	err := (&dnacalib.SetNeutralJointTranslations{Values: values[:2]}).Run(d)
	assert.True(t, errors.Is(err, dnacalib.ErrInvalidArgument))
}

func TestSetVertexPositions(t *testing.T) {
	target := []tdm.Vec3{{2, 2, 2}, {2, 2, 2}, {2, 2, 2}, {2, 2, 2}}
	masks := []float32{0, 0.5, 1, 0.25}

	tests := []struct {
		op    dnacalib.VectorOperation
		masks []float32
		want  []tdm.Vec3
	}{
		{dnacalib.Interpolate, masks, []tdm.Vec3{{0, 0, 0}, {1.5, 1, 1}, {2, 2, 2}, {0.5, 1.25, 0.5}}},
		{dnacalib.Add, nil, []tdm.Vec3{{2, 2, 2}, {3, 2, 2}, {3, 3, 2}, {2, 3, 2}}},
		{dnacalib.Add, masks, []tdm.Vec3{{0, 0, 0}, {2, 1, 1}, {3, 3, 2}, {0.5, 1.5, 0.5}}},
		{dnacalib.Subtract, masks, []tdm.Vec3{{0, 0, 0}, {0, -1, -1}, {-1, -1, -2}, {-0.5, 0.5, -0.5}}},
		{dnacalib.Multiply, nil, []tdm.Vec3{{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0}}},
		{dnacalib.Overwrite, masks, []tdm.Vec3{{0, 0, 0}, {2, 2, 2}, {2, 2, 2}, {2, 2, 2}}},
	}
	for _, tt := range tests {
		name := tt.op.String()
		if tt.masks != nil {
			name += "Masked"
		}
		t.Run(name, func(t *testing.T) {
			d := testutil.SampleDNA()
			cmd := &dnacalib.SetVertexPositions{MeshIndex: 0, Positions: target, Masks: tt.masks, Operation: tt.op}
			require.NoError(t, cmd.Run(d))
			got := d.Mesh(0).Positions.Points()
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assertVecNear(t, tt.want[i], got[i])
			}
		})
	}

	t.Run("Resize", func(t *testing.T) {
		d := testutil.SampleDNA()
		cmd := &dnacalib.SetVertexPositions{MeshIndex: 1, Positions: target[:3], Operation: dnacalib.Overwrite}
		require.NoError(t, cmd.Run(d))
		assert.Equal(t, 3, d.Mesh(1).VertexCount())
	})

	t.Run("Errors", func(t *testing.T) {
		d := testutil.SampleDNA()
		err := (&dnacalib.SetVertexPositions{MeshIndex: 2, Positions: target}).Run(d)
		assert.True(t, errors.Is(err, dnacalib.ErrIndexOutOfRange))
		err = (&dnacalib.SetVertexPositions{Positions: target, Masks: masks[:1]}).Run(d)
		assert.True(t, errors.Is(err, dnacalib.ErrInvalidArgument))
	})
}

func TestSetSkinWeights(t *testing.T) {
	t.Run("Replace", func(t *testing.T) {
		d := testutil.SampleDNA()
		cmd := &dnacalib.SetSkinWeights{MeshIndex: 0, VertexIndex: 2, Weights: []float32{0.2, 0.8}, JointIndices: []uint16{2, 3}}
		require.NoError(t, cmd.Run(d))
		sw := d.Mesh(0).SkinWeights
		require.Len(t, sw, 4)
		assert.Equal(t, []float32{0.2, 0.8}, sw[2].Weights)
		assert.Equal(t, []uint16{2, 3}, sw[2].JointIndices)
		assert.Equal(t, []uint16{2}, sw[3].JointIndices)

		cmd.Weights[0] = 9
		assert.Equal(t, float32(0.2), sw[2].Weights[0])
	})

	t.Run("Grow", func(t *testing.T) {
		d := testutil.SampleDNA()
		cmd := &dnacalib.SetSkinWeights{MeshIndex: 1, VertexIndex: 3, Weights: []float32{1}, JointIndices: []uint16{1}}
		require.NoError(t, cmd.Run(d))
		sw := d.Mesh(1).SkinWeights
		require.Len(t, sw, 4)
		assert.Empty(t, sw[2].Weights)
		assert.Equal(t, []uint16{1}, sw[3].JointIndices)
	})

	t.Run("Errors", func(t *testing.T) {
		tests := []struct {
			name    string
			cmd     *dnacalib.SetSkinWeights
			wantErr error
		}{
			{"Mesh", &dnacalib.SetSkinWeights{MeshIndex: 2}, dnacalib.ErrIndexOutOfRange},
			{"Vertex", &dnacalib.SetSkinWeights{VertexIndex: -1}, dnacalib.ErrIndexOutOfRange},
			{"Joint", &dnacalib.SetSkinWeights{Weights: []float32{1}, JointIndices: []uint16{4}}, dnacalib.ErrIndexOutOfRange},
			{"Lengths", &dnacalib.SetSkinWeights{Weights: []float32{1, 0}, JointIndices: []uint16{0}}, dnacalib.ErrInvalidArgument},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				d := testutil.SampleDNA()
				err := tt.cmd.Run(d)
				assert.True(t, errors.Is(err, tt.wantErr), "%v", err)
				assert.Equal(t, testutil.SampleDNA().Mesh(0).SkinWeights, d.Mesh(0).SkinWeights)
			})
		}
	})
}

func TestSetBlendShapeTargetDeltas(t *testing.T) {
	deltas := []tdm.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	t.Run("AddMasked", func(t *testing.T) {
		d := testutil.SampleDNA()
		cmd := &dnacalib.SetBlendShapeTargetDeltas{
			MeshIndex:             0,
			BlendShapeTargetIndex: 1,
			Deltas:                deltas,
			VertexIndices:         []uint32{1, 3, 2},
			Masks:                 []float32{1, 0.5, 1},
			Operation:             dnacalib.Add,
		}
		require.NoError(t, cmd.Run(d))
		target := d.Mesh(0).BlendShapeTargets[1]
		got := target.Deltas.Points()
		require.Len(t, got, 3)
		assertVecNear(t, tdm.Vec3{1, 0, 0.0001}, got[0])
		assertVecNear(t, tdm.Vec3{0, 0.5, 2}, got[1])
		assertVecNear(t, tdm.Vec3{0, 0, 1}, got[2])
		assert.Equal(t, []uint32{1, 3, 2}, target.VertexIndices)
		assert.Equal(t, uint16(1), target.BlendShapeChannelIndex)
	})

	t.Run("InterpolateKeepsVertexIndices", func(t *testing.T) {
		d := testutil.SampleDNA()
		cmd := &dnacalib.SetBlendShapeTargetDeltas{BlendShapeTargetIndex: 0, Deltas: deltas[:2]}
		require.NoError(t, cmd.Run(d))
		target := d.Mesh(0).BlendShapeTargets[0]
		assertVecNear(t, deltas[0], target.Deltas.At(0))
		assertVecNear(t, deltas[1], target.Deltas.At(1))
		assert.Equal(t, []uint32{0, 2}, target.VertexIndices)
	})

	t.Run("Errors", func(t *testing.T) {
		tests := []struct {
			name    string
			cmd     *dnacalib.SetBlendShapeTargetDeltas
			wantErr error
		}{
			{"Mesh", &dnacalib.SetBlendShapeTargetDeltas{MeshIndex: 2}, dnacalib.ErrIndexOutOfRange},
			{"Target", &dnacalib.SetBlendShapeTargetDeltas{MeshIndex: 1, BlendShapeTargetIndex: 1}, dnacalib.ErrIndexOutOfRange},
			{"Masks", &dnacalib.SetBlendShapeTargetDeltas{Deltas: deltas, Masks: []float32{1}}, dnacalib.ErrInvalidArgument},
			{"VertexIndices", &dnacalib.SetBlendShapeTargetDeltas{Deltas: deltas, VertexIndices: []uint32{0}}, dnacalib.ErrInvalidArgument},
			{"Operation", &dnacalib.SetBlendShapeTargetDeltas{Operation: dnacalib.Overwrite + 1}, dnacalib.ErrInvalidArgument},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.cmd.Run(testutil.SampleDNA())
				assert.True(t, errors.Is(err, tt.wantErr), "%v", err)
			})
		}
	})
}

func TestParseVectorOperation(t *testing.T) {
	for _, op := range []dnacalib.VectorOperation{
		dnacalib.Interpolate, dnacalib.Add, dnacalib.Subtract, dnacalib.Multiply, dnacalib.Overwrite,
	} {
		got, err := dnacalib.ParseVectorOperation(op.String())
		require.NoError(t, err)
		assert.Equal(t, op, got)
	}
	_, err := dnacalib.ParseVectorOperation("divide")
	assert.True(t, errors.Is(err, dnacalib.ErrInvalidArgument))
}

func TestPruneBlendShapeTargets(t *testing.T) {
	d := testutil.SampleDNA()
	require.NoError(t, (&dnacalib.PruneBlendShapeTargets{Threshold: 0.001}).Run(d))

	targets := d.Mesh(0).BlendShapeTargets
	require.Len(t, targets, 3)
	assert.Equal(t, []uint32{0, 2}, targets[0].VertexIndices)
	assert.Equal(t, []uint32{3}, targets[1].VertexIndices)
	assert.Equal(t, []tdm.Vec3{{0, 0, 2}}, targets[1].Deltas.Points())
	assert.Empty(t, targets[2].VertexIndices)
	assert.Zero(t, targets[2].Deltas.Len())

	err := (&dnacalib.PruneBlendShapeTargets{Threshold: -1}).Run(d)
	assert.True(t, errors.Is(err, dnacalib.ErrInvalidArgument))
}

func TestCalculateMeshLowerLODs(t *testing.T) {
	d := testutil.SampleDNA()
	lift := &dnacalib.SetVertexPositions{
		MeshIndex: 0,
		Positions: []tdm.Vec3{{0, 0, 5}, {0, 0, 5}, {0, 0, 5}, {0, 0, 5}},
		Operation: dnacalib.Add,
	}
	require.NoError(t, dnacalib.NewSequence(lift, &dnacalib.CalculateMeshLowerLODs{MeshIndex: 0}).Run(d))

	line := d.Mesh(1)
	assertVecNear(t, tdm.Vec3{0, 0, 5}, line.Positions.At(0))
	assertVecNear(t, tdm.Vec3{1, 1, 5}, line.Positions.At(1))

	t.Run("Interpolates", func(t *testing.T) {
		d := testutil.SampleDNA()
		line := d.Mesh(1)
		line.TextureCoordinates.Us[1] = 0.5
		line.TextureCoordinates.Vs[1] = 0.25
		// Tilt the source so positions differ from UVs.
		quad := d.Mesh(0)
		quad.Positions.Set(2, tdm.Vec3{1, 1, 4})

		require.NoError(t, (&dnacalib.CalculateMeshLowerLODs{MeshIndex: 0}).Run(d))
		// (0.5, 0.25) lies in triangle (0,0) (1,0) (1,1) with weights (0.5, 0.25, 0.25).
		assertVecNear(t, tdm.Vec3{0.5, 0.25, 1}, line.Positions.At(1))
	})

	t.Run("OutsideFallsBackToNearest", func(t *testing.T) {
		d := testutil.SampleDNA()
		d.Mesh(1).TextureCoordinates.Us[1] = 1.5
		require.NoError(t, (&dnacalib.CalculateMeshLowerLODs{MeshIndex: 0}).Run(d))
		p := d.Mesh(1).Positions.At(1)
		assert.False(t, math.IsNaN(float64(p[0])))
	})

	t.Run("LowestLODIsNoop", func(t *testing.T) {
		d := testutil.SampleDNA()
		before := testutil.JSON(d)
		require.NoError(t, (&dnacalib.CalculateMeshLowerLODs{MeshIndex: 1}).Run(d))
		assert.Equal(t, before, testutil.JSON(d))
	})

	t.Run("OutOfRange", func(t *testing.T) {
		err := (&dnacalib.CalculateMeshLowerLODs{MeshIndex: 3}).Run(testutil.SampleDNA())
		assert.True(t, errors.Is(err, dnacalib.ErrIndexOutOfRange))
	})
}

func BenchmarkRemoveJoint(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		d := testutil.SampleDNA()
		b.StartTimer()
		if err := dnacalib.RemoveJoint(1, 2).Run(d); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCalculateMeshLowerLODs(b *testing.B) {
	d := testutil.SampleDNA()
	rng := testutil.NewRNG(1)
	d.Geometry.Meshes[0] = rng.Mesh(1024, 0)
	cmd := &dnacalib.CalculateMeshLowerLODs{MeshIndex: 0}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := cmd.Run(d); err != nil {
			b.Fatal(err)
		}
	}
}
