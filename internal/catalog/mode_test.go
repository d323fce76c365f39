package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func actions(surface []ActionState) []Action {
	out := make([]Action, len(surface))
	for i, s := range surface {
		out[i] = s.Action
	}
	return out
}

func TestSurface_BrowsingValidSelection(t *testing.T) {
	surface := Surface(SurfaceInput{
		Mode:                ModeView,
		Services:            testRegistry(),
		SelectedService:     "geonode",
		IncludeSearchButton: true,
	})

	require.Equal(t, []Action{ActionEdit, ActionAddNew, ActionSearch}, actions(surface))
	require.True(t, Enabled(surface, ActionSearch))
}

func TestSurface_BrowsingInvalidSelection(t *testing.T) {
	surface := Surface(SurfaceInput{
		Mode:                ModeView,
		Services:            testRegistry(),
		SelectedService:     "missing",
		IncludeSearchButton: true,
		IncludeResetButton:  true,
	})

	require.Equal(t, []Action{ActionAddNew, ActionSearch, ActionReset}, actions(surface))
	state, ok := Offered(surface, ActionSearch)
	require.True(t, ok)
	require.True(t, state.Disabled)
	require.False(t, Enabled(surface, ActionSearch))
	require.True(t, Enabled(surface, ActionReset))
}

func TestSurface_BackgroundsNotEditable(t *testing.T) {
	for _, source := range []string{"", SourceBackgroundSelector} {
		surface := Surface(SurfaceInput{
			Mode:                ModeView,
			Services:            testRegistry(),
			SelectedService:     BackgroundsService,
			Source:              source,
			IncludeSearchButton: true,
		})

		_, ok := Offered(surface, ActionEdit)
		require.False(t, ok, "source %q", source)
		require.True(t, Enabled(surface, ActionSearch), "selection is still valid")
	}
}

func TestSurface_Editing(t *testing.T) {
	surface := Surface(SurfaceInput{Mode: ModeEdit})
	require.Equal(t, []Action{ActionSave, ActionDelete, ActionCancel}, actions(surface))

	surface = Surface(SurfaceInput{Mode: ModeEdit, DraftIsNew: true})
	require.Equal(t, []Action{ActionSave, ActionCancel}, actions(surface))

	surface = Surface(SurfaceInput{Mode: ModeEdit, Saving: true})
	require.False(t, Enabled(surface, ActionSave))
	require.False(t, Enabled(surface, ActionCancel))
	require.True(t, Enabled(surface, ActionDelete))
}
