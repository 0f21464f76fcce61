package dna

import (
	"slices"

	"github.com/hupe1980/terse/archive"
	"github.com/hupe1980/terse/dynarray"
	"github.com/hupe1980/terse/tdm"
)

// Vector3Vector stores points as three parallel coordinate buffers.
type Vector3Vector struct {
	Xs dynarray.Array[float32]
	Ys dynarray.Array[float32]
	Zs dynarray.Array[float32]
}

// NewVector3Vector returns a vector holding a copy of points.
func NewVector3Vector(points ...tdm.Vec3) Vector3Vector {
	var v Vector3Vector
	v.Resize(len(points))
	for i, p := range points {
		v.Set(i, p)
	}
	return v
}

// Serialize implements archive.Serializer.
func (v *Vector3Vector) Serialize(ar archive.Archive) {
	ar.Label("xs")
	ar.Process(&v.Xs)
	ar.Label("ys")
	ar.Process(&v.Ys)
	ar.Label("zs")
	ar.Process(&v.Zs)
}

// Len returns the number of points. It is only meaningful when the three
// buffers agree, see Valid.
func (v *Vector3Vector) Len() int { return v.Xs.Len() }

// Valid reports whether the coordinate buffers have equal lengths.
func (v *Vector3Vector) Valid() bool {
	return v.Xs.Len() == v.Ys.Len() && v.Ys.Len() == v.Zs.Len()
}

// At returns point i.
func (v *Vector3Vector) At(i int) tdm.Vec3 {
	return tdm.Vec3{v.Xs.At(i), v.Ys.At(i), v.Zs.At(i)}
}

// Set overwrites point i.
func (v *Vector3Vector) Set(i int, p tdm.Vec3) {
	v.Xs.Set(i, p[0])
	v.Ys.Set(i, p[1])
	v.Zs.Set(i, p[2])
}

// Append adds points to the end.
func (v *Vector3Vector) Append(points ...tdm.Vec3) {
	for _, p := range points {
		v.Xs.Append(p[0])
		v.Ys.Append(p[1])
		v.Zs.Append(p[2])
	}
}

// Resize changes the number of points. New points are zero.
func (v *Vector3Vector) Resize(n int) {
	v.Xs.Resize(n)
	v.Ys.Resize(n)
	v.Zs.Resize(n)
}

// Clear removes every point.
func (v *Vector3Vector) Clear() {
	v.Xs.Clear()
	v.Ys.Clear()
	v.Zs.Clear()
}

// Points returns a copy of the points.
func (v *Vector3Vector) Points() []tdm.Vec3 {
	out := make([]tdm.Vec3, v.Len())
	for i := range out {
		out[i] = v.At(i)
	}
	return out
}

// Transform replaces every point p with fn(p).
func (v *Vector3Vector) Transform(fn func(tdm.Vec3) tdm.Vec3) {
	for i := 0; i < v.Len(); i++ {
		v.Set(i, fn(v.At(i)))
	}
}

// Filter keeps the points for which keep reports true.
func (v *Vector3Vector) Filter(keep func(i int) bool) {
	n := 0
	for i := 0; i < v.Len(); i++ {
		if keep(i) {
			v.Set(n, v.At(i))
			n++
		}
	}
	v.Resize(n)
}

// Clone returns a deep copy.
func (v *Vector3Vector) Clone() Vector3Vector {
	return Vector3Vector{Xs: *v.Xs.Clone(), Ys: *v.Ys.Clone(), Zs: *v.Zs.Clone()}
}

// Equal reports whether both vectors hold the same points.
func (v *Vector3Vector) Equal(o *Vector3Vector) bool {
	return v.Xs.Equal(&o.Xs) && v.Ys.Equal(&o.Ys) && v.Zs.Equal(&o.Zs)
}

// TextureCoordinates stores UVs as two parallel buffers.
type TextureCoordinates struct {
	Us []float32
	Vs []float32
}

// Serialize implements archive.Serializer.
func (t *TextureCoordinates) Serialize(ar archive.Archive) {
	ar.Label("us")
	ar.Process(&t.Us)
	ar.Label("vs")
	ar.Process(&t.Vs)
}

// Len returns the number of coordinates.
func (t *TextureCoordinates) Len() int { return len(t.Us) }

// At returns coordinate i.
func (t *TextureCoordinates) At(i int) tdm.Vec2 { return tdm.Vec2{t.Us[i], t.Vs[i]} }

// Clone returns a deep copy.
func (t *TextureCoordinates) Clone() TextureCoordinates {
	return TextureCoordinates{Us: slices.Clone(t.Us), Vs: slices.Clone(t.Vs)}
}

// VertexLayouts ties a vertex to its position, texture coordinate and
// normal indices.
type VertexLayouts struct {
	Positions          []uint32
	TextureCoordinates []uint32
	Normals            []uint32
}

// Serialize implements archive.Serializer.
func (l *VertexLayouts) Serialize(ar archive.Archive) {
	ar.Label("positions")
	ar.Process(&l.Positions)
	ar.Label("textureCoordinates")
	ar.Process(&l.TextureCoordinates)
	ar.Label("normals")
	ar.Process(&l.Normals)
}

// Len returns the number of layouts.
func (l *VertexLayouts) Len() int { return len(l.Positions) }

// Clone returns a deep copy.
func (l *VertexLayouts) Clone() VertexLayouts {
	return VertexLayouts{
		Positions:          slices.Clone(l.Positions),
		TextureCoordinates: slices.Clone(l.TextureCoordinates),
		Normals:            slices.Clone(l.Normals),
	}
}
