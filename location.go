package terse

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/terse/assetstore"
	miniostore "github.com/hupe1980/terse/assetstore/minio"
	s3store "github.com/hupe1980/terse/assetstore/s3"
	"github.com/hupe1980/terse/internal/errs"
)

// Scheme identifies where an asset lives.
type Scheme string

const (
	// SchemeFile is a path on the local file system.
	SchemeFile Scheme = "file"
	// SchemeS3 is an object in an S3 bucket.
	SchemeS3 Scheme = "s3"
	// SchemeMinIO is an object in a MinIO bucket.
	SchemeMinIO Scheme = "minio"
)

// Location names an asset: the store that holds it and its name inside that
// store. For files the bucket is the containing directory.
type Location struct {
	Scheme Scheme
	Bucket string
	Name   string
}

// ParseLocation parses a plain path, s3://bucket/key or minio://bucket/key.
func ParseLocation(s string) (Location, error) {
	if s == "" {
		return Location{}, errors.Wrap(ErrUnsupportedLocation, "empty location")
	}
	if !strings.Contains(s, "://") {
		return Location{
			Scheme: SchemeFile,
			Bucket: filepath.Dir(s),
			Name:   filepath.Base(s),
		}, nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return Location{}, errs.Mark(errors.Wrapf(err, "parse %q", s), ErrUnsupportedLocation)
	}
	scheme := Scheme(strings.ToLower(u.Scheme))
	switch scheme {
	case SchemeS3, SchemeMinIO:
	case SchemeFile:
		p := filepath.FromSlash(u.Path)
		return Location{Scheme: SchemeFile, Bucket: filepath.Dir(p), Name: filepath.Base(p)}, nil
	default:
		return Location{}, errors.Wrapf(ErrUnsupportedLocation, "scheme %q", u.Scheme)
	}
	name := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || name == "" {
		return Location{}, errors.Wrapf(ErrUnsupportedLocation, "%q needs a bucket and a key", s)
	}
	return Location{Scheme: scheme, Bucket: u.Host, Name: name}, nil
}

func (l Location) String() string {
	if l.Scheme == SchemeFile {
		return filepath.Join(l.Bucket, l.Name)
	}
	return string(l.Scheme) + "://" + l.Bucket + "/" + l.Name
}

// Resolver returns the store that holds a location.
type Resolver interface {
	Resolve(ctx context.Context, loc Location) (assetstore.Store, error)
}

// MinIOConfig holds the connection settings for minio:// locations. Empty
// fields fall back to MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"accessKey"`
	SecretKey string `mapstructure:"secretKey"`
	UseSSL    bool   `mapstructure:"useSSL"`
}

func (c MinIOConfig) withEnv() MinIOConfig {
	if c.Endpoint == "" {
		c.Endpoint = os.Getenv("MINIO_ENDPOINT")
	}
	if c.AccessKey == "" {
		c.AccessKey = os.Getenv("MINIO_ACCESS_KEY")
	}
	if c.SecretKey == "" {
		c.SecretKey = os.Getenv("MINIO_SECRET_KEY")
	}
	return c
}

// StoreResolver opens one store per bucket and reuses it for later
// locations. It is safe for concurrent use.
type StoreResolver struct {
	bytesPerSec int
	minio       MinIOConfig

	mu          sync.Mutex
	stores      map[string]assetstore.Store
	minioClient *minio.Client
}

var _ Resolver = (*StoreResolver)(nil)

// NewStoreResolver returns a resolver for file, s3 and minio locations.
// Stores are throttled to bytesPerSec when it is positive.
func NewStoreResolver(bytesPerSec int, mc MinIOConfig) *StoreResolver {
	return &StoreResolver{
		bytesPerSec: bytesPerSec,
		minio:       mc.withEnv(),
		stores:      make(map[string]assetstore.Store),
	}
}

// Resolve implements Resolver.
func (r *StoreResolver) Resolve(ctx context.Context, loc Location) (assetstore.Store, error) {
	key := string(loc.Scheme) + "://" + loc.Bucket

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[key]; ok {
		return s, nil
	}
	s, err := r.open(ctx, loc)
	if err != nil {
		return nil, err
	}
	if r.bytesPerSec > 0 {
		s = assetstore.RateLimited(s, r.bytesPerSec)
	}
	r.stores[key] = s
	return s, nil
}

func (r *StoreResolver) open(ctx context.Context, loc Location) (assetstore.Store, error) {
	switch loc.Scheme {
	case SchemeFile:
		return assetstore.NewLocal(loc.Bucket), nil
	case SchemeS3:
		s, err := s3store.NewFromConfig(ctx, loc.Bucket, "")
		if err != nil {
			return nil, errors.Wrapf(err, "open s3 bucket %s", loc.Bucket)
		}
		return s, nil
	case SchemeMinIO:
		if r.minioClient == nil {
			if r.minio.Endpoint == "" {
				return nil, errors.Wrap(ErrUnsupportedLocation, "minio endpoint not configured")
			}
			client, err := minio.New(r.minio.Endpoint, &minio.Options{
				Creds:  credentials.NewStaticV4(r.minio.AccessKey, r.minio.SecretKey, ""),
				Secure: r.minio.UseSSL,
			})
			if err != nil {
				return nil, errors.Wrap(err, "create minio client")
			}
			r.minioClient = client
		}
		return miniostore.NewStore(r.minioClient, loc.Bucket, ""), nil
	}
	return nil, errors.Wrapf(ErrUnsupportedLocation, "scheme %q", loc.Scheme)
}
