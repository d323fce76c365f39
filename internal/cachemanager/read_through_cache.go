package cachemanager

import (
	"context"
	"time"
)

// ReadThroughCache answers from the cache and falls back to fn on a miss.
// Errors are never cached.
type ReadThroughCache[V any, I any] struct {
	cache CacheManager[V]
	fn    func(ctx context.Context, input I) (V, error)
	ttl   time.Duration
}

// NewReadThroughCache wraps fn. A ttl of zero or less bypasses the cache.
func NewReadThroughCache[V any, I any](
	cache CacheManager[V],
	fn func(ctx context.Context, input I) (V, error),
	ttl time.Duration,
) *ReadThroughCache[V, I] {
	return &ReadThroughCache[V, I]{cache: cache, fn: fn, ttl: ttl}
}

// Get returns the cached value for key or computes it from input.
// The bool reports whether the value came from the cache.
func (r *ReadThroughCache[V, I]) Get(ctx context.Context, key string, input I) (V, bool, error) {
	if r.ttl <= 0 {
		v, err := r.fn(ctx, input)
		return v, false, err
	}

	if value, ok := r.cache.Get(ctx, key); ok {
		return value, true, nil
	}

	value, err := r.fn(ctx, input)
	if err != nil {
		return value, false, err
	}

	r.cache.Set(ctx, key, value, r.ttl)
	return value, false, nil
}

// Invalidate drops every cached entry.
func (r *ReadThroughCache[V, I]) Invalidate(ctx context.Context) {
	r.cache.Flush(ctx)
}
