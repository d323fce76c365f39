package catalog

import (
	"errors"
	"fmt"
)

// DefaultPageSize is the number of records requested per page.
const DefaultPageSize = 4

// ErrInvalidSelection is returned when a search is built for a service name
// that does not resolve in the registry.
var ErrInvalidSelection = errors.New("no valid catalog service selected")

// SearchOptions echoes the parameters of the search that produced the current
// result. StartPosition is 1-based.
type SearchOptions struct {
	StartPosition int
	MaxRecords    int
	Text          string
}

// SearchRequest is the normalized request handed to the search executor.
type SearchRequest struct {
	// Token identifies the request for loading-state bookkeeping.
	Token uint64

	Service       string
	Type          ServiceType
	URL           string
	StartPosition int
	PageSize      int
	Text          string
	Auth          *Authentication
}

// Options returns the search options describing r.
func (r SearchRequest) Options() SearchOptions {
	return SearchOptions{StartPosition: r.StartPosition, MaxRecords: r.PageSize, Text: r.Text}
}

// CacheKey identifies the request for response caching. The token is not part
// of the key.
func (r SearchRequest) CacheKey() string {
	return fmt.Sprintf("%s|%s|%d|%d|%s", r.Type, r.URL, r.StartPosition, r.PageSize, r.Text)
}

// BuildSearch assembles the request for the service selected in r. A start
// below 1 restarts at the first record and a non-positive pageSize falls back
// to DefaultPageSize.
func BuildSearch(r Registry, selected string, start, pageSize int, text string) (SearchRequest, error) {
	def, ok := r.Lookup(selected)
	if !ok {
		return SearchRequest{}, fmt.Errorf("%w: %q", ErrInvalidSelection, selected)
	}
	if start < 1 {
		start = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return SearchRequest{
		Service:       selected,
		Type:          def.Type,
		URL:           def.URL,
		StartPosition: start,
		PageSize:      pageSize,
		Text:          text,
		Auth:          def.Authentication,
	}, nil
}

// PageStart converts a 1-based page number into the start offset consistent
// with Project.
func PageStart(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return (page-1)*pageSize + 1
}
