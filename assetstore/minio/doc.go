// Package minio provides an assetstore.Store for MinIO and S3-compatible
// object storage.
//
// # Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	store := minio.NewStore(client, "rigs", "characters/")
//	d, err := assetstore.LoadDNA(ctx, store, "ada.dna")
//
// Keys are the root prefix joined with the asset name.
package minio
