package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		registry *Registry
		flag     string
		expected bool
	}{
		{"enabled flag", New(map[string]bool{FlagOSC52Clipboard: true}), FlagOSC52Clipboard, true},
		{"disabled flag", New(map[string]bool{FlagDisableMouse: false}), FlagDisableMouse, false},
		{"unknown flag", New(map[string]bool{FlagOSC52Clipboard: true}), "nope", false},
		{"nil registry", nil, FlagDisableMouse, false},
		{"nil map", New(nil), FlagDisableMouse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.registry.Enabled(tt.flag))
		})
	}
}

func TestRegistry_AllIsACopy(t *testing.T) {
	r := New(map[string]bool{FlagDisableMouse: true})

	all := r.All()
	all[FlagDisableMouse] = false
	all[FlagOSC52Clipboard] = true

	require.True(t, r.Enabled(FlagDisableMouse))
	require.False(t, r.Enabled(FlagOSC52Clipboard))
	require.Equal(t, map[string]bool{FlagDisableMouse: true}, r.All())
}

func TestRegistry_AllOnNil(t *testing.T) {
	var r *Registry
	require.Empty(t, r.All())
}
