// Package flags reads the feature flags declared under `flags:` in the
// config file. Unknown or missing flags are off.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/atlas/internal/log"
)

const (
	// FlagOSC52Clipboard makes copy actions always emit the OSC 52 sequence,
	// for terminals where the SSH/tmux detection misses.
	FlagOSC52Clipboard = "osc52-clipboard"

	// FlagDisableMouse starts the TUI without mouse cell motion reporting.
	FlagDisableMouse = "disable-mouse"
)

// Known lists every flag atlas reads.
var Known = []string{FlagDisableMouse, FlagOSC52Clipboard}

// Registry is an immutable set of flag values.
type Registry struct {
	values map[string]bool
}

// New copies values into a Registry. Names outside Known are kept but logged,
// which usually means a typo in the config file.
func New(values map[string]bool) *Registry {
	r := &Registry{values: maps.Clone(values)}
	if r.values == nil {
		r.values = map[string]bool{}
	}
	for name := range r.values {
		if !slices.Contains(Known, name) {
			log.Warn(log.CatConfig, "Unknown feature flag in config", "flag", name)
		}
	}
	log.Debug(log.CatConfig, "Feature flags loaded", "flags", r.values)
	return r
}

// Enabled reports whether name is set to true. Nil registries have every flag off.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.values[name]
}

// All returns a copy of the configured values.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.values)
}
