package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestProject_NilResult(t *testing.T) {
	require.Nil(t, Project(nil, SearchOptions{StartPosition: 1}, 4))
}

func TestProject_ZeroMatched(t *testing.T) {
	info := Project(&Result{}, SearchOptions{StartPosition: 1}, 4)

	require.NotNil(t, info)
	require.True(t, info.Empty)
	require.Equal(t, 0, info.PageCount)
}

func TestProject_Math(t *testing.T) {
	info := Project(
		&Result{NumberOfRecordsMatched: 42, NumberOfRecordsReturned: 4},
		SearchOptions{StartPosition: 9, MaxRecords: 4},
		4,
	)

	require.Equal(t, 2, info.Page)
	require.Equal(t, 3, info.ActivePage())
	require.Equal(t, 11, info.PageCount)
	require.Equal(t, 9, info.Start)
	require.Equal(t, 12, info.End)
	require.Equal(t, 42, info.Total)
	require.False(t, info.Empty)
}

func TestProject_LastPartialPage(t *testing.T) {
	info := Project(
		&Result{NumberOfRecordsMatched: 42, NumberOfRecordsReturned: 2},
		SearchOptions{StartPosition: 41},
		4,
	)

	require.Equal(t, 10, info.Page)
	require.Equal(t, 41, info.Start)
	require.Equal(t, 42, info.End)
}

func TestProject_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		pageSize := rapid.IntRange(1, 50).Draw(rt, "pageSize")
		matched := rapid.IntRange(0, 10_000).Draw(rt, "matched")
		page := rapid.IntRange(1, 200).Draw(rt, "page")
		returned := rapid.IntRange(0, pageSize).Draw(rt, "returned")

		start := PageStart(page, pageSize)
		info := Project(&Result{NumberOfRecordsMatched: matched, NumberOfRecordsReturned: returned},
			SearchOptions{StartPosition: start}, pageSize)

		require.Equal(rt, start/pageSize, info.Page)
		require.GreaterOrEqual(rt, info.PageCount*pageSize, matched)
		require.Less(rt, (info.PageCount-1)*pageSize, max(matched, 1))
		require.Equal(rt, start+returned-1, info.End)
		require.Equal(rt, matched == 0, info.Empty)
	})
}
