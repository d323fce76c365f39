package search

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMergeQuery_ReplacesCaseInsensitively(t *testing.T) {
	q := url.Values{"SERVICE": {"wms"}, "map": {"/data/x.map"}}
	merged := mergeQuery(q, url.Values{"service": {"CSW"}})
	require.Equal(t, url.Values{"service": {"CSW"}, "map": {"/data/x.map"}}, merged)
}

func TestHostLimiters_Disabled(t *testing.T) {
	h := newHostLimiters(0, 0)
	for range 100 {
		require.NoError(t, h.wait(context.Background(), "example.org"))
	}
	require.Empty(t, h.limiters)
}

func TestHostLimiters_PerHostBuckets(t *testing.T) {
	h := newHostLimiters(0.001, 1)

	require.NoError(t, h.wait(context.Background(), "a.example.org"))
	require.NoError(t, h.wait(context.Background(), "b.example.org"), "separate host has its own burst")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.Error(t, h.wait(ctx, "a.example.org"), "second request on same host exceeds the deadline")
}

func TestFetcher_RateLimitedRequestFails(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, fixture(t, "getrecords.xml"))
	f := NewFetcher(FetcherConfig{RateLimit: 0.001, RateBurst: 1}, nil)

	_, err := f.Get(context.Background(), "test", srv.URL, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = f.Get(ctx, "test", srv.URL, nil, nil)
	require.Error(t, err)
	require.Equal(t, 1, srv.calls())
}
