// Package terse runs batches of edits over rig documents.
//
// The serialization framework lives in the archive, stream, endian and
// dynarray packages. The dna package models the rig document on top of it,
// dnacalib edits documents and assetstore moves them between the local file
// system, MinIO and S3. This package ties them together: a Job loads one
// document, runs a sequence of commands and stores the result, and a Runner
// executes many jobs concurrently.
//
// # Quick Start
//
//	jobs := []terse.Job{{
//	    Input:  "rigs/head.dna",
//	    Output: "s3://assets/head.json.zst",
//	    Format: "json",
//	    Commands: []terse.CommandSpec{
//	        {Op: "rename", Resource: "joint", Index: 0, Name: "pelvis"},
//	        {Op: "setLODs", LODs: []int{0, 2}},
//	    },
//	}}
//
//	r := terse.NewRunner(
//	    terse.WithWorkers(4),
//	    terse.WithLogger(terse.NewTextLogger(slog.LevelInfo)),
//	)
//	err := r.Run(ctx, jobs)
//
// # Job Files
//
// LoadJobFile reads the same jobs from YAML or JSON:
//
//	workers: 4
//	jobs:
//	  - input: rigs/head.dna
//	    output: minio://assets/head.dna.lz4
//	    commands:
//	      - op: translate
//	        vector: [0, 10, 0]
//
// # Locations
//
// Inputs and outputs are plain paths, s3://bucket/key or
// minio://bucket/key. S3 credentials come from the default AWS
// configuration chain; MinIO settings come from MinIOConfig or the
// MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY variables.
// Compression follows the extension (.zst, .lz4) unless a job names one.
package terse
