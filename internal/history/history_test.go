package history

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/atlas/internal/catalog"
)

func TestNewEntry_Success(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	req := catalog.SearchRequest{Service: "geonode", Type: catalog.TypeCSW, URL: "http://x/csw", StartPosition: 5, PageSize: 4, Text: "lake"}

	e := NewEntry(req, &catalog.Result{NumberOfRecordsMatched: 42}, "", now)

	_, err := uuid.Parse(e.GUID)
	require.NoError(t, err)
	require.Equal(t, "geonode", e.Service)
	require.Equal(t, catalog.TypeCSW, e.Type)
	require.Equal(t, 5, e.StartPosition)
	require.Equal(t, 42, e.Matched)
	require.False(t, e.Failed())
	require.Equal(t, now, e.CreatedAt)
}

func TestNewEntry_Failure(t *testing.T) {
	e := NewEntry(catalog.SearchRequest{Service: "geonode"}, &catalog.Result{NumberOfRecordsMatched: 3}, "timeout", time.Now())
	require.True(t, e.Failed())
	require.Zero(t, e.Matched)
}

func TestNewEntry_UniqueGUIDs(t *testing.T) {
	a := NewEntry(catalog.SearchRequest{}, nil, "", time.Now())
	b := NewEntry(catalog.SearchRequest{}, nil, "", time.Now())
	require.NotEqual(t, a.GUID, b.GUID)
}
