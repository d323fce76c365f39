// Package history describes the log of executed catalog searches.
package history

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/atlas/internal/catalog"
)

// ErrNotFound is returned when no entry matches a lookup.
var ErrNotFound = errors.New("history entry not found")

// Entry is one executed search and its outcome.
type Entry struct {
	ID            int64
	GUID          string
	Service       string
	Type          catalog.ServiceType
	URL           string
	Text          string
	StartPosition int
	PageSize      int
	// Matched is the server's total match count. Zero for failed searches.
	Matched int
	// Error holds the search error code, empty on success.
	Error     string
	CreatedAt time.Time
}

// NewEntry records the outcome of req. errCode is the search error code when
// the search failed.
func NewEntry(req catalog.SearchRequest, result *catalog.Result, errCode string, now time.Time) *Entry {
	e := &Entry{
		GUID:          uuid.NewString(),
		Service:       req.Service,
		Type:          req.Type,
		URL:           req.URL,
		Text:          req.Text,
		StartPosition: req.StartPosition,
		PageSize:      req.PageSize,
		Error:         errCode,
		CreatedAt:     now,
	}
	if result != nil && errCode == "" {
		e.Matched = result.NumberOfRecordsMatched
	}
	return e
}

// Failed reports whether the search ended in an error.
func (e *Entry) Failed() bool {
	return e.Error != ""
}

// Filter narrows Recent.
type Filter struct {
	// Service restricts entries to one registry key. Empty means all.
	Service string
	// Limit caps the number of entries. Zero means no limit.
	Limit int
}

// Repository persists history entries.
type Repository interface {
	// Record stores e and assigns its ID.
	Record(e *Entry) error
	// Recent returns entries newest first.
	Recent(f Filter) ([]*Entry, error)
	// FindByGUID returns ErrNotFound when guid is unknown.
	FindByGUID(guid string) (*Entry, error)
	// Clear removes every entry and returns how many were deleted.
	Clear() (int64, error)
}
