package search

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/atlas/internal/config"
)

// New assembles the executor chain used by the application: tracing around
// caching around the type dispatcher.
func New(cfg config.SearchConfig, tracer trace.Tracer) (Executor, *CachedExecutor) {
	fetcher := NewFetcher(FetcherConfig{
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
	}, nil)
	cached := NewCachedExecutor(NewDispatcher(fetcher), cfg.CacheTTL)
	return NewTracedExecutor(cached, tracer), cached
}
