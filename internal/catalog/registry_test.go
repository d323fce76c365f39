package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func testRegistry() Registry {
	return Registry{
		"geonode": {Title: "GeoNode", Type: TypeCSW, URL: "http://x/csw", Autoload: true},
		"demo":    {Title: "Demo WMS", Type: TypeWMS, URL: "http://demo/wms"},
		BackgroundsService: {
			Title: "Backgrounds", Type: TypeWMS, URL: "http://bg/wms", Autoload: true,
		},
	}
}

func TestVisibleServices_ExcludesBackgrounds(t *testing.T) {
	r := testRegistry()

	visible := VisibleServices(r, false)

	require.Len(t, visible, 2)
	require.NotContains(t, visible, BackgroundsService)
	require.Contains(t, r, BackgroundsService, "input registry must not be mutated")
}

func TestVisibleServices_IncludeReturnsInput(t *testing.T) {
	r := testRegistry()
	require.Equal(t, r, VisibleServices(r, true))
}

func TestVisibleServices_MissingKeyIsNoop(t *testing.T) {
	r := Registry{"a": {Title: "A"}}
	require.Equal(t, r, VisibleServices(r, false))
}

func TestVisibleServices_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		names := rapid.SliceOfDistinct(
			rapid.SampledFrom([]string{"a", "b", "c", "d", BackgroundsService}),
			rapid.ID[string],
		).Draw(rt, "names")
		r := make(Registry, len(names))
		for _, n := range names {
			r[n] = ServiceDefinition{Title: n}
		}

		filtered := VisibleServices(r, false)
		_, had := r[BackgroundsService]
		_, kept := filtered[BackgroundsService]
		require.False(rt, kept)
		if had {
			require.Len(rt, filtered, len(r)-1)
		} else {
			require.Len(rt, filtered, len(r))
		}
		require.Equal(rt, r, VisibleServices(r, true))

		for _, n := range names {
			require.True(rt, IsValid(r, n), "every key is valid regardless of filtering")
		}
		require.False(rt, IsValid(r, "missing"))
	})
}

func TestIsValid_BackgroundStillValid(t *testing.T) {
	r := testRegistry()

	require.True(t, IsValid(r, BackgroundsService))
	require.True(t, IsValid(r, "geonode"))
	require.False(t, IsValid(r, ""))
	require.False(t, IsValid(r, "unknown"))
	require.False(t, IsValid(nil, "geonode"))
}

func TestSelectableList_SortedByLabel(t *testing.T) {
	opts := SelectableList(VisibleServices(testRegistry(), false))

	require.Len(t, opts, 2)
	require.Equal(t, "Demo WMS", opts[0].Label)
	require.Equal(t, "demo", opts[0].Value)
	require.Equal(t, TypeWMS, opts[0].Type)
	require.Equal(t, "GeoNode", opts[1].Label)
	require.Equal(t, "http://x/csw", opts[1].URL)
}

func TestBackgroundPolicy(t *testing.T) {
	r := testRegistry()

	plain := BackgroundPolicy{}
	require.False(t, plain.Listed())
	require.NotContains(t, plain.Visible(r), BackgroundsService)
	require.False(t, plain.Editable(BackgroundsService))
	require.True(t, plain.Editable("geonode"))

	selector := BackgroundPolicy{Source: SourceBackgroundSelector}
	require.True(t, selector.Listed())
	require.Contains(t, selector.Visible(r), BackgroundsService)
	require.False(t, selector.Editable(BackgroundsService), "edit gating ignores the source")
}
