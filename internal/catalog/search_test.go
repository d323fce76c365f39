package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildSearch(t *testing.T) {
	req, err := BuildSearch(testRegistry(), "geonode", 1, 4, "lake")

	require.NoError(t, err)
	require.Equal(t, "geonode", req.Service)
	require.Equal(t, TypeCSW, req.Type)
	require.Equal(t, "http://x/csw", req.URL)
	require.Equal(t, 1, req.StartPosition)
	require.Equal(t, 4, req.PageSize)
	require.Equal(t, "lake", req.Text)
	require.Zero(t, req.Token, "tokens are assigned by the loading state")
}

func TestBuildSearch_Defaults(t *testing.T) {
	req, err := BuildSearch(testRegistry(), "demo", 0, 0, "")

	require.NoError(t, err)
	require.Equal(t, 1, req.StartPosition)
	require.Equal(t, DefaultPageSize, req.PageSize)
	require.Equal(t, "", req.Text)
}

func TestBuildSearch_InvalidSelection(t *testing.T) {
	_, err := BuildSearch(testRegistry(), "", 1, 4, "")
	require.ErrorIs(t, err, ErrInvalidSelection)

	_, err = BuildSearch(VisibleServices(testRegistry(), false), BackgroundsService, 1, 4, "")
	require.ErrorIs(t, err, ErrInvalidSelection, "filtered registry no longer resolves the pseudo-service")
}

func TestPageStart(t *testing.T) {
	require.Equal(t, 1, PageStart(1, 4))
	require.Equal(t, 5, PageStart(2, 4))
	require.Equal(t, 9, PageStart(3, 4))
	require.Equal(t, 1, PageStart(0, 4))
	require.Equal(t, 5, PageStart(2, 0), "falls back to the default page size")
}

func TestSearchRequest_CacheKeyIgnoresToken(t *testing.T) {
	a := SearchRequest{Token: 1, Type: TypeCSW, URL: "u", StartPosition: 1, PageSize: 4, Text: "t"}
	b := a
	b.Token = 2
	require.Equal(t, a.CacheKey(), b.CacheKey())

	b.StartPosition = 5
	require.NotEqual(t, a.CacheKey(), b.CacheKey())
}
