// Package assetstore stores serialized rig documents by name.
//
// A [Store] moves whole assets: a DNA file is small enough to be read and
// written in one request, so there is no streaming or range API.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - [Local]: a directory on the local file system
//   - [Memory]: an in-process map, mostly for tests
//   - minio.Store: MinIO and other S3-compatible services
//   - s3.Store: Amazon S3
//
// [RateLimited] wraps any store and caps its transfer rate.
//
// # Documents
//
// [LoadDNA] and [SaveDNA] connect a store with the dna package. The
// compression is taken from the asset name and the format is detected from
// the content, as for files.
package assetstore
