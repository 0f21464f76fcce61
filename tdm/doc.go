// Package tdm provides the small fixed-size vector and matrix types used by
// rig transforms.
//
// Vectors are row vectors. A point p is transformed by a matrix M as
// [p, 1] * M, so translation lives in the last row and transforms compose
// left to right: A.Mul(B) applies A first.
package tdm
