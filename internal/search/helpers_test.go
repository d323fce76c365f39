package search

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

// recordingServer serves body and remembers every query it received.
type recordingServer struct {
	*httptest.Server
	mu      sync.Mutex
	queries []url.Values
	headers []http.Header
}

func newRecordingServer(t *testing.T, status int, body []byte) *recordingServer {
	t.Helper()
	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.mu.Lock()
		rs.queries = append(rs.queries, r.URL.Query())
		rs.headers = append(rs.headers, r.Header.Clone())
		rs.mu.Unlock()
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *recordingServer) lastQuery() url.Values {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.queries[len(rs.queries)-1]
}

func (rs *recordingServer) lastHeader() http.Header {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.headers[len(rs.headers)-1]
}

func (rs *recordingServer) calls() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.queries)
}
