package cachemanager

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// ReadThroughCache fills misses from fn. Concurrent misses on one key share
// a single call to fn.
type ReadThroughCache[V any, I any] struct {
	cache           CacheManager[V]
	fn              func(ctx context.Context, input I) (V, error)
	shouldSkipCache bool
	group           singleflight.Group
}

func NewReadThroughCache[V any, I any](
	cache CacheManager[V],
	fn func(ctx context.Context, input I) (V, error),
	shouldSkipCache bool,
) *ReadThroughCache[V, I] {
	return &ReadThroughCache[V, I]{
		cache:           cache,
		fn:              fn,
		shouldSkipCache: shouldSkipCache,
	}
}

// Get returns the cached value for key, loading it from input on a miss.
// hit reports whether the value came from the cache.
func (r *ReadThroughCache[V, I]) Get(ctx context.Context, key string, input I, ttl time.Duration) (value V, hit bool, err error) {
	if r.shouldSkipCache {
		value, err = r.fn(ctx, input)
		return value, false, err
	}

	if value, ok := r.cache.Get(ctx, key); ok {
		return value, true, nil
	}

	res, err, _ := r.group.Do(key, func() (any, error) {
		if value, ok := r.cache.Get(ctx, key); ok {
			return value, nil
		}
		value, err := r.fn(ctx, input)
		if err != nil {
			return value, err
		}
		r.cache.Set(ctx, key, value, ttl)
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}

	return res.(V), false, nil
}

// Cache exposes the underlying manager.
func (r *ReadThroughCache[V, I]) Cache() CacheManager[V] {
	return r.cache
}
