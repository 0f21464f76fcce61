package assetstore

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedStore caps the number of bytes moved per second by Get and Put.
// List and Delete are not throttled.
type RateLimitedStore struct {
	inner   Store
	limiter *rate.Limiter
}

var _ Store = (*RateLimitedStore)(nil)

// RateLimited wraps inner so that transfers share a budget of bytesPerSec.
// The burst equals one second of traffic.
func RateLimited(inner Store, bytesPerSec int) *RateLimitedStore {
	if bytesPerSec <= 0 {
		bytesPerSec = 1
	}
	return &RateLimitedStore{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec),
	}
}

// wait blocks until n bytes may pass. Large transfers are admitted in
// burst-sized steps.
func (s *RateLimitedStore) wait(ctx context.Context, n int) error {
	burst := s.limiter.Burst()
	for n > 0 {
		step := min(n, burst)
		if err := s.limiter.WaitN(ctx, step); err != nil {
			return err
		}
		n -= step
	}
	return nil
}

// Get implements Store.
func (s *RateLimitedStore) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := s.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := s.wait(ctx, len(data)); err != nil {
		return nil, err
	}
	return data, nil
}

// Put implements Store.
func (s *RateLimitedStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.wait(ctx, len(data)); err != nil {
		return err
	}
	return s.inner.Put(ctx, name, data)
}

// List implements Store.
func (s *RateLimitedStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Delete implements Store.
func (s *RateLimitedStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}
