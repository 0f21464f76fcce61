package tdm_test

import (
	"math"
	"testing"

	"github.com/hupe1980/terse/archive"
	"github.com/hupe1980/terse/stream"
	"github.com/hupe1980/terse/tdm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

func assertVecNear(t *testing.T, want, got tdm.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], eps, "component %d", i)
	}
}

func TestVec3(t *testing.T) {
	a := tdm.Vec3{1, 2, 3}
	b := tdm.Vec3{4, 5, 6}

	assert.Equal(t, tdm.Vec3{5, 7, 9}, a.Add(b))
	assert.Equal(t, tdm.Vec3{-3, -3, -3}, a.Sub(b))
	assert.Equal(t, tdm.Vec3{2, 4, 6}, a.Scale(2))
	assert.Equal(t, tdm.Vec3{4, 10, 18}, a.Mul(b))
	assert.Equal(t, float32(32), a.Dot(b))
	assert.Equal(t, tdm.Vec3{-3, 6, -3}, a.Cross(b))
	assert.InDelta(t, 5, tdm.Vec3{3, 4, 0}.Length(), eps)
	assertVecNear(t, tdm.Vec3{0.6, 0.8, 0}, tdm.Vec3{3, 4, 0}.Normalize())
	assert.Equal(t, tdm.Vec3{}, tdm.Vec3{}.Normalize())
	assert.Equal(t, tdm.Vec3{2.5, 3.5, 4.5}, a.Lerp(b, 0.5))
}

func TestTransforms(t *testing.T) {
	p := tdm.Vec3{1, 2, 3}

	t.Run("Translation", func(t *testing.T) {
		m := tdm.Translation(tdm.Vec3{10, 20, 30})
		assert.Equal(t, tdm.Vec3{11, 22, 33}, m.MulVec3(p))
		assert.Equal(t, tdm.Vec3{10, 20, 30}, m.Translation())
	})

	t.Run("Scaling", func(t *testing.T) {
		m := tdm.Scaling(tdm.Vec3{2, 3, 4})
		assert.Equal(t, tdm.Vec3{2, 6, 12}, m.MulVec3(p))
		assertVecNear(t, tdm.Vec3{2, 3, 4}, m.Scale())
	})

	t.Run("RotationZ", func(t *testing.T) {
		m := tdm.Rotation(0, 0, math.Pi/2)
		assertVecNear(t, tdm.Vec3{0, 1, 0}, m.MulVec3(tdm.Vec3{1, 0, 0}))
	})

	t.Run("ComposeLeftToRight", func(t *testing.T) {
		m := tdm.Scaling(tdm.Vec3{2, 2, 2}).Mul(tdm.Translation(tdm.Vec3{1, 0, 0}))
		assert.Equal(t, tdm.Vec3{3, 4, 6}, m.MulVec3(p))
	})

	t.Run("Identity", func(t *testing.T) {
		m := tdm.RotationDegrees(tdm.Vec3{10, 20, 30})
		assert.Equal(t, m, m.Mul(tdm.Identity()))
		assert.Equal(t, m, m.Transpose().Transpose())
	})
}

func TestExtractRotation(t *testing.T) {
	tests := []struct {
		name   string
		angles tdm.Vec3
	}{
		{"Zero", tdm.Vec3{0, 0, 0}},
		{"X", tdm.Vec3{30, 0, 0}},
		{"Y", tdm.Vec3{0, -45, 0}},
		{"Z", tdm.Vec3{0, 0, 90}},
		{"Mixed", tdm.Vec3{10, 20, 30}},
		{"Negative", tdm.Vec3{-70, 15, -120}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tdm.RotationDegrees(tt.angles).Mul(tdm.Translation(tdm.Vec3{5, 6, 7}))
			assertVecNear(t, tt.angles, tdm.DegreesVec(m.Rotation()))
			assertVecNear(t, tdm.Vec3{5, 6, 7}, m.Translation())
		})
	}

	t.Run("ScaleDividedOut", func(t *testing.T) {
		m := tdm.Scaling(tdm.Vec3{2, 3, 4}).Mul(tdm.RotationDegrees(tdm.Vec3{10, 20, 30}))
		assertVecNear(t, tdm.Vec3{10, 20, 30}, tdm.DegreesVec(m.Rotation()))
	})

	t.Run("GimbalLock", func(t *testing.T) {
		m := tdm.RotationDegrees(tdm.Vec3{0, 90, 0})
		got := tdm.DegreesVec(m.Rotation())
		assert.InDelta(t, 90, got[1], 1e-3)
	})
}

func TestAngles(t *testing.T) {
	assert.InDelta(t, math.Pi, tdm.Radians(180), eps)
	assert.InDelta(t, 90, tdm.Degrees(math.Pi/2), eps)
	assertVecNear(t, tdm.Vec3{45, 90, 180}, tdm.DegreesVec(tdm.RadiansVec(tdm.Vec3{45, 90, 180})))
}

func TestSerialize(t *testing.T) {
	t.Run("Vec3JSONFramed", func(t *testing.T) {
		v := tdm.Vec3{1, 2, 3}
		s := stream.NewMemory()
		ar := archive.NewJSONOutput(s)
		ar.Process(&v)
		require.NoError(t, ar.Sync())
		assert.Equal(t, "{[1, 2, 3]}", string(s.Bytes()))

		var out tdm.Vec3
		in := archive.NewJSONInput(stream.NewMemoryFrom(s.Bytes()))
		in.Process(&out)
		require.NoError(t, in.Err())
		assert.Equal(t, v, out)
	})

	t.Run("Vec3JSON", func(t *testing.T) {
		v := tdm.Vec3{1, 2, 3}
		s := stream.NewMemory()
		ar := archive.NewJSONOutput(s)
		ar.Process(archive.Transparent(&v))
		require.NoError(t, ar.Sync())
		assert.Equal(t, "[1, 2, 3]", string(s.Bytes()))

		var out tdm.Vec3
		in := archive.NewJSONInput(stream.NewMemoryFrom(s.Bytes()))
		in.Process(archive.Transparent(&out))
		require.NoError(t, in.Err())
		assert.Equal(t, v, out)
	})

	t.Run("Mat4Binary", func(t *testing.T) {
		m := tdm.RotationDegrees(tdm.Vec3{10, 20, 30}).Mul(tdm.Translation(tdm.Vec3{1, 2, 3}))
		s := stream.NewMemory()
		ar := archive.NewBinaryOutput(s)
		ar.Process(&m)
		require.NoError(t, ar.Sync())
		assert.Len(t, s.Bytes(), 64)

		var out tdm.Mat4
		in := archive.NewBinaryInput(stream.NewMemoryFrom(s.Bytes()))
		in.Process(&out)
		require.NoError(t, in.Err())
		assert.Equal(t, m, out)
	})

	t.Run("Mat3JSON", func(t *testing.T) {
		m := tdm.Identity3()
		s := stream.NewMemory()
		ar := archive.NewJSONOutput(s)
		ar.Process(archive.Transparent(&m))
		require.NoError(t, ar.Sync())
		assert.Equal(t, "[[1, 0, 0], [0, 1, 0], [0, 0, 1]]", string(s.Bytes()))
		assert.Equal(t, tdm.Vec3{1, 2, 3}, m.MulVec3(tdm.Vec3{1, 2, 3}))

		var out tdm.Mat3
		in := archive.NewJSONInput(stream.NewMemoryFrom(s.Bytes()))
		in.Process(archive.Transparent(&out))
		require.NoError(t, in.Err())
		assert.Equal(t, m, out)
	})

	t.Run("Mat3Binary", func(t *testing.T) {
		m := tdm.Mat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
		s := stream.NewMemory()
		ar := archive.NewBinaryOutput(s)
		ar.Process(&m)
		require.NoError(t, ar.Sync())
		assert.Len(t, s.Bytes(), 36)

		var out tdm.Mat3
		in := archive.NewBinaryInput(stream.NewMemoryFrom(s.Bytes()))
		in.Process(&out)
		require.NoError(t, in.Err())
		assert.Equal(t, m, out)
		assert.Equal(t, tdm.Vec3{4, 5, 6}, m.Row(1))
		assert.Equal(t, tdm.Vec3{5, 7, 9}, m.MulVec3(tdm.Vec3{1, 1, 0}))
	})
}

func BenchmarkMulVec3(b *testing.B) {
	m := tdm.RotationDegrees(tdm.Vec3{10, 20, 30}).Mul(tdm.Translation(tdm.Vec3{1, 2, 3}))
	v := tdm.Vec3{1, 2, 3}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		v = m.MulVec3(v)
	}
	_ = v
}
