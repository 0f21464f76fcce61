// Package testutil provides fixtures for tests and benchmarks.
//
// This package is intended for use in tests and benchmarks only.
//
// # Sample Rig
//
//	d := testutil.SampleDNA()  // two LODs, four joints, two meshes
//
// # Random Geometry
//
//	rng := testutil.NewRNG(seed)
//	mesh := rng.Mesh(1024, 8)  // 1024 vertices, 8 blend shape targets
package testutil
