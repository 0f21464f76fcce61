package assetstore

import (
	"context"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/terse/dna"
)

// LoadDNA fetches and decodes the document stored under name.
func LoadDNA(ctx context.Context, s Store, name string) (*dna.DNA, error) {
	data, err := s.Get(ctx, name)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", name)
	}
	d, err := dna.Unmarshal(data, dna.CompressionFor(name))
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", name)
	}
	return d, nil
}

// SaveDNA encodes d in format f and stores it under name. The compression
// follows the extension of name.
func SaveDNA(ctx context.Context, s Store, name string, d *dna.DNA, f dna.Format) error {
	data, err := dna.Marshal(d, f, dna.CompressionFor(name))
	if err != nil {
		return errors.Wrapf(err, "encode %s", name)
	}
	return errors.Wrapf(s.Put(ctx, name, data), "put %s", name)
}

// LoadAllDNA loads every document whose name starts with prefix. Documents
// are fetched concurrently, at most limit at a time; limit <= 0 means no
// limit.
func LoadAllDNA(ctx context.Context, s Store, prefix string, limit int) (map[string]*dna.DNA, error) {
	names, err := s.List(ctx, prefix)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", prefix)
	}
	docs := make([]*dna.DNA, len(names))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, name := range names {
		g.Go(func() error {
			d, err := LoadDNA(ctx, s, name)
			if err != nil {
				return err
			}
			docs[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make(map[string]*dna.DNA, len(names))
	for i, name := range names {
		out[name] = docs[i]
	}
	return out, nil
}
