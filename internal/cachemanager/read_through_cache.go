package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache builds values on a miss and keeps each one for ttl after
// its last use. The key is derived from the build input, so callers only
// deal in inputs.
type ReadThroughCache[K comparable, V any, I any] struct {
	cache CacheManager[K, V]
	key   func(input I) K
	build func(ctx context.Context, input I) (V, error)
	ttl   time.Duration
}

// NewReadThroughCache wraps cache. key must map equal inputs to equal keys.
func NewReadThroughCache[K comparable, V any, I any](
	cache CacheManager[K, V],
	key func(input I) K,
	build func(ctx context.Context, input I) (V, error),
	ttl time.Duration,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache: cache,
		key:   key,
		build: build,
		ttl:   ttl,
	}
}

// Get returns the value for input, building and storing it on a miss. A
// hit extends the entry's lifetime. Failed builds are not stored.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, input I) (V, error) {
	key := r.key(input)
	if value, ok := r.cache.GetWithRefresh(ctx, key, r.ttl); ok {
		return value, nil
	}

	value, err := r.build(ctx, input)
	if err != nil {
		var zero V
		return zero, err
	}
	r.cache.Set(ctx, key, value, r.ttl)
	return value, nil
}

