// Package s3 provides an assetstore.Store for Amazon S3.
//
// Small assets are written with a single PutObject carrying a CRC32C
// checksum. Assets above the multipart threshold go through the SDK's
// upload manager.
//
//	store, err := s3.NewFromConfig(ctx, "rigs", "characters/")
//	d, err := assetstore.LoadDNA(ctx, store, "ada.dna")
package s3
