package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/zjrosen/atlas/internal/catalog"
	"github.com/zjrosen/atlas/internal/log"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "atlas"
	maxResponseBytes = 16 << 20
)

// FetcherConfig configures outbound HTTP.
type FetcherConfig struct {
	Timeout   time.Duration
	UserAgent string
	// RateLimit is requests per second per host. Zero disables limiting.
	RateLimit float64
	RateBurst int
}

// Fetcher performs rate limited GET requests against OGC endpoints.
type Fetcher struct {
	client    *http.Client
	userAgent string
	limiters  *hostLimiters
}

// NewFetcher creates a fetcher. A nil client uses a new http.Client with
// cfg.Timeout.
func NewFetcher(cfg FetcherConfig, client *http.Client) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Fetcher{
		client:    client,
		userAgent: ua,
		limiters:  newHostLimiters(cfg.RateLimit, cfg.RateBurst),
	}
}

// Get merges params into base's query string and returns the response body.
// Parameter names replace existing ones case-insensitively, since OGC
// servers treat KVP names that way.
func (f *Fetcher) Get(ctx context.Context, op, base string, params url.Values, auth *catalog.Authentication) ([]byte, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, &Error{Code: CodeHTTP, Op: op, Err: fmt.Errorf("invalid url %q: %w", base, err)}
	}
	u.RawQuery = mergeQuery(u.Query(), params).Encode()

	if err := f.limiters.wait(ctx, u.Host); err != nil {
		return nil, &Error{Code: classify(err), Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &Error{Code: CodeHTTP, Op: op, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/xml, text/xml")
	if auth != nil && auth.Enabled {
		req.SetBasicAuth(auth.Username, auth.Password)
	}

	trace.SpanFromContext(ctx).AddEvent("http.get", trace.WithAttributes(attribute.String("url", u.String())))
	start := time.Now()

	resp, err := f.client.Do(req)
	if err != nil {
		log.Warn(log.CatHTTP, "Request failed", "op", op, "host", u.Host, "error", err)
		return nil, &Error{Code: classify(err), Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	log.Debug(log.CatHTTP, "Response", "op", op, "host", u.Host, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &Error{Code: CodeHTTP, Op: op, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Code: classify(err), Op: op, Err: fmt.Errorf("reading body: %w", err)}
	}
	return body, nil
}

func classify(err error) string {
	if isTimeout(err) {
		return CodeTimeout
	}
	return CodeHTTP
}

func mergeQuery(q, params url.Values) url.Values {
	for name, values := range params {
		for existing := range q {
			if strings.EqualFold(existing, name) {
				q.Del(existing)
			}
		}
		q[name] = values
	}
	return q
}

// hostLimiters keeps one token bucket per host.
type hostLimiters struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func newHostLimiters(rps float64, burst int) *hostLimiters {
	if burst < 1 {
		burst = 1
	}
	return &hostLimiters{
		limit:    rate.Limit(rps),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (h *hostLimiters) get(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.limiters[host]
	if !ok {
		l = rate.NewLimiter(h.limit, h.burst)
		h.limiters[host] = l
	}
	return l
}

func (h *hostLimiters) wait(ctx context.Context, host string) error {
	if h.limit <= 0 {
		return nil
	}
	return h.get(host).Wait(ctx)
}
