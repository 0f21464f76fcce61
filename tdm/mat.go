package tdm

import (
	"math"

	"github.com/hupe1980/terse/archive"
)

// Mat3 is a row-major 3x3 matrix.
type Mat3 [3][3]float32

// Mat4 is a row-major 4x4 homogeneous transform.
type Mat4 [4][4]float32

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	return Mat4{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
}

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Translation returns a matrix that moves points by t.
func Translation(t Vec3) Mat4 {
	m := Identity()
	m[3][0], m[3][1], m[3][2] = t[0], t[1], t[2]
	return m
}

// Scaling returns a matrix that scales points by s about the origin.
func Scaling(s Vec3) Mat4 {
	m := Identity()
	m[0][0], m[1][1], m[2][2] = s[0], s[1], s[2]
	return m
}

// Rotation returns the rotation by the given Euler angles in radians,
// applied about X, then Y, then Z.
func Rotation(x, y, z float32) Mat4 {
	sx, cx := sincos(x)
	sy, cy := sincos(y)
	sz, cz := sincos(z)

	rx := Identity()
	rx[1][1], rx[1][2] = cx, sx
	rx[2][1], rx[2][2] = -sx, cx

	ry := Identity()
	ry[0][0], ry[0][2] = cy, -sy
	ry[2][0], ry[2][2] = sy, cy

	rz := Identity()
	rz[0][0], rz[0][1] = cz, sz
	rz[1][0], rz[1][1] = -sz, cz

	return rx.Mul(ry).Mul(rz)
}

// RotationDegrees is Rotation with angles in degrees.
func RotationDegrees(angles Vec3) Mat4 {
	return Rotation(Radians(angles[0]), Radians(angles[1]), Radians(angles[2]))
}

func sincos(a float32) (float32, float32) {
	s, c := math.Sincos(float64(a))
	return float32(s), float32(c)
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[i][k] * o[k][j]
			}
			r[i][j] = sum
		}
	}
	return r
}

// MulVec3 transforms the point v as [v, 1] * m.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	var r Vec3
	for j := 0; j < 3; j++ {
		r[j] = v[0]*m[0][j] + v[1]*m[1][j] + v[2]*m[2][j] + m[3][j]
	}
	return r
}

// Translation returns the translation row.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[3][0], m[3][1], m[3][2]}
}

// Scale returns the length of each basis row.
func (m Mat4) Scale() Vec3 {
	return Vec3{
		Vec3{m[0][0], m[0][1], m[0][2]}.Length(),
		Vec3{m[1][0], m[1][1], m[1][2]}.Length(),
		Vec3{m[2][0], m[2][1], m[2][2]}.Length(),
	}
}

// Rotation returns the Euler angles in radians of the rotation part of m,
// such that Rotation(r[0], r[1], r[2]) reproduces it. Scale is divided out
// first.
func (m Mat4) Rotation() Vec3 {
	s := m.Scale()
	var r [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if s[i] != 0 {
				r[i][j] = float64(m[i][j] / s[i])
			}
		}
	}
	r02 := r[0][2]
	switch {
	case r02 > -1 && r02 < 1:
		return Vec3{
			float32(math.Atan2(r[1][2], r[2][2])),
			float32(math.Asin(-r02)),
			float32(math.Atan2(r[0][1], r[0][0])),
		}
	case r02 <= -1:
		return Vec3{float32(math.Atan2(-r[2][1], r[1][1])), math.Pi / 2, 0}
	default:
		return Vec3{float32(-math.Atan2(-r[2][1], r[1][1])), -math.Pi / 2, 0}
	}
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[j][i] = m[i][j]
		}
	}
	return r
}

// Serialize visits the matrix as a fixed array of four rows. Wrap with
// archive.Transparent to drop the object framing.
func (m *Mat4) Serialize(ar archive.Archive) {
	ar.Process((*[4][4]float32)(m))
}

// MulVec3 returns v * m.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return m.Row(0).Scale(v[0]).Add(m.Row(1).Scale(v[1])).Add(m.Row(2).Scale(v[2]))
}

// Row returns row i.
func (m Mat3) Row(i int) Vec3 { return Vec3(m[i]) }

// Serialize visits the matrix as a fixed array of three rows.
func (m *Mat3) Serialize(ar archive.Archive) {
	ar.Process((*[3][3]float32)(m))
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(rad float32) float32 { return rad * 180 / math.Pi }

// DegreesVec converts every component of v from radians to degrees.
func DegreesVec(v Vec3) Vec3 { return Vec3{Degrees(v[0]), Degrees(v[1]), Degrees(v[2])} }

// RadiansVec converts every component of v from degrees to radians.
func RadiansVec(v Vec3) Vec3 { return Vec3{Radians(v[0]), Radians(v[1]), Radians(v[2])} }
