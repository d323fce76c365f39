// Package catalog implements the catalog browsing core: the service registry
// view, selection validation, search request building, pagination and the
// browse/edit mode state machine that the catalog view controller embeds.
package catalog

import (
	"maps"
	"sort"
)

// ServiceType identifies the protocol spoken by a catalog service.
type ServiceType string

const (
	TypeCSW  ServiceType = "csw"
	TypeWMS  ServiceType = "wms"
	TypeWMTS ServiceType = "wmts"
)

// Known reports whether t is one of the supported service types.
func (t ServiceType) Known() bool {
	switch t {
	case TypeCSW, TypeWMS, TypeWMTS:
		return true
	}
	return false
}

// Authentication holds the optional basic credentials of a service.
// Only the Enabled flag is interpreted by the catalog core.
type Authentication struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Username string `mapstructure:"username" yaml:"username,omitempty"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
}

// ServiceDefinition describes one configured catalog service.
type ServiceDefinition struct {
	Title          string          `mapstructure:"title" yaml:"title"`
	Type           ServiceType     `mapstructure:"type" yaml:"type"`
	URL            string          `mapstructure:"url" yaml:"url"`
	Autoload       bool            `mapstructure:"autoload" yaml:"autoload"`
	IsNew          bool            `mapstructure:"-" yaml:"-"` // unsaved draft
	Authentication *Authentication `mapstructure:"authentication" yaml:"authentication,omitempty"`
}

// Registry maps service names to their definitions.
type Registry map[string]ServiceDefinition

// Lookup returns the definition registered under name.
func (r Registry) Lookup(name string) (ServiceDefinition, bool) {
	if name == "" {
		return ServiceDefinition{}, false
	}
	def, ok := r[name]
	return def, ok
}

// BackgroundsService is the reserved pseudo-service backing the background
// layer selector.
const BackgroundsService = "Map Backgrounds"

// SourceBackgroundSelector is the source tag of the background layer selector
// context, the only context in which the pseudo-service is listed.
const SourceBackgroundSelector = "backgroundSelector"

// BackgroundPolicy decides where the backgrounds pseudo-service may appear.
// Both the selectable list and the edit action consult the same policy.
type BackgroundPolicy struct {
	// Source is the context tag the view was opened from.
	Source string
}

// IsBackground reports whether name is the reserved pseudo-service.
func (BackgroundPolicy) IsBackground(name string) bool {
	return name == BackgroundsService
}

// Listed reports whether the pseudo-service is offered in the selectable list.
func (p BackgroundPolicy) Listed() bool {
	return p.Source == SourceBackgroundSelector
}

// Editable reports whether the edit action may be offered for name.
func (p BackgroundPolicy) Editable(name string) bool {
	return !p.IsBackground(name)
}

// Visible applies the policy to r.
func (p BackgroundPolicy) Visible(r Registry) Registry {
	return VisibleServices(r, p.Listed())
}

// VisibleServices returns r unchanged when includeBackgrounds is set and a copy
// without the backgrounds pseudo-service otherwise.
func VisibleServices(r Registry, includeBackgrounds bool) Registry {
	if includeBackgrounds {
		return r
	}
	if _, ok := r[BackgroundsService]; !ok {
		return r
	}
	out := make(Registry, len(r)-1)
	maps.Copy(out, r)
	delete(out, BackgroundsService)
	return out
}

// IsValid reports whether name is registered in the unfiltered registry.
// A selected pseudo-service is valid even though it is not listed.
func IsValid(r Registry, name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Option is one entry of the service picker.
type Option struct {
	Value string
	Label string
	ServiceDefinition
}

// SelectableList maps every entry of r to a picker option, sorted by label.
// Callers pass the already filtered registry.
func SelectableList(r Registry) []Option {
	opts := make([]Option, 0, len(r))
	for name, def := range r {
		opts = append(opts, Option{Value: name, Label: def.Title, ServiceDefinition: def})
	}
	sort.Slice(opts, func(i, j int) bool {
		if opts[i].Label != opts[j].Label {
			return opts[i].Label < opts[j].Label
		}
		return opts[i].Value < opts[j].Value
	})
	return opts
}
