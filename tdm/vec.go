package tdm

import (
	"math"

	"github.com/hupe1980/terse/archive"
)

// Vec3 is a three component float32 vector.
type Vec3 [3]float32

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Mul returns the component-wise product.
func (v Vec3) Mul(o Vec3) Vec3 {
	return Vec3{v[0] * o[0], v[1] * o[1], v[2] * o[2]}
}

// Scale returns v * s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns the dot product.
func (v Vec3) Dot(o Vec3) float32 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Cross returns the cross product.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Length returns the euclidean norm.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Lerp interpolates between v and o.
func (v Vec3) Lerp(o Vec3, t float32) Vec3 {
	return v.Add(o.Sub(v).Scale(t))
}

// Serialize visits the vector as a fixed array. Like any serializer it is
// framed as an object ({[1, 2, 3]} in JSON) unless the caller wraps it with
// archive.Transparent.
func (v *Vec3) Serialize(ar archive.Archive) {
	ar.Process((*[3]float32)(v))
}

// Vec2 is a two component float32 vector, used for texture coordinates.
type Vec2 [2]float32

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v[0] - o[0], v[1] - o[1]} }

// Dot returns the dot product.
func (v Vec2) Dot(o Vec2) float32 { return v[0]*o[0] + v[1]*o[1] }

// Serialize visits the vector as a fixed array. See Vec3.Serialize for
// framing.
func (v *Vec2) Serialize(ar archive.Archive) {
	ar.Process((*[2]float32)(v))
}
