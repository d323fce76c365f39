package search

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/atlas/internal/cachemanager"
	"github.com/zjrosen/atlas/internal/catalog"
	"github.com/zjrosen/atlas/internal/log"
	"github.com/zjrosen/atlas/internal/tracing"
)

// CachedExecutor serves repeated searches from memory. Results are keyed by
// SearchRequest.CacheKey, so requests differing only by token share an entry.
// Cached results are shared and must not be mutated.
type CachedExecutor struct {
	cache *cachemanager.ReadThroughCache[*catalog.Result, catalog.SearchRequest]
}

// NewCachedExecutor wraps next. A ttl of zero or less disables caching.
func NewCachedExecutor(next Executor, ttl time.Duration) *CachedExecutor {
	store := cachemanager.NewInMemoryCacheManager[*catalog.Result]("search", ttl, cachemanager.DefaultCleanupInterval)
	return &CachedExecutor{
		cache: cachemanager.NewReadThroughCache[*catalog.Result, catalog.SearchRequest](store, next.Search, ttl),
	}
}

// Search implements Executor.
func (c *CachedExecutor) Search(ctx context.Context, req catalog.SearchRequest) (*catalog.Result, error) {
	result, hit, err := c.cache.Get(ctx, req.CacheKey(), req)
	trace.SpanFromContext(ctx).SetAttributes(attribute.Bool(tracing.AttrCacheHit, hit))
	if hit {
		log.Debug(log.CatSearch, "Served from cache", "service", req.Service, "start", req.StartPosition)
	}
	return result, err
}

// Invalidate drops all cached results, e.g. after the registry changed.
func (c *CachedExecutor) Invalidate(ctx context.Context) {
	c.cache.Invalidate(ctx)
}
