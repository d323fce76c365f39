// Package config provides configuration types, defaults and validation for atlas.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zjrosen/atlas/internal/catalog"
	"github.com/zjrosen/atlas/internal/log"
)

// Config holds all configuration options for atlas.
type Config struct {
	Catalog    CatalogConfig   `mapstructure:"catalog"`
	Search     SearchConfig    `mapstructure:"search"`
	AutoReload bool            `mapstructure:"auto_reload"` // Reload services when the config file changes
	History    HistoryConfig   `mapstructure:"history"`
	Log        LogConfig       `mapstructure:"log"`
	Tracing    TracingConfig   `mapstructure:"tracing"`
	Flags      map[string]bool `mapstructure:"flags"` // Feature flags, see internal/flags
}

// CatalogConfig configures the catalog view and its services.
type CatalogConfig struct {
	PageSize            int             `mapstructure:"page_size"`
	Source              string          `mapstructure:"source"` // "backgroundSelector" lists the backgrounds pseudo-service
	SelectedService     string          `mapstructure:"selected_service"`
	IncludeSearchButton bool            `mapstructure:"include_search_button"`
	IncludeResetButton  bool            `mapstructure:"include_reset_button"`
	WrapOptions         bool            `mapstructure:"wrap_options"` // Collapse the text search behind an options toggle
	Locale              string          `mapstructure:"locale"`
	Formats             []FormatConfig  `mapstructure:"formats"`
	LoadingReset        string          `mapstructure:"loading_reset"` // "token" (default) or "any"
	Services            []ServiceConfig `mapstructure:"services"`
}

// FormatConfig is one entry of the service type selector in the edit form.
type FormatConfig struct {
	Name  string `mapstructure:"name" yaml:"name"`
	Label string `mapstructure:"label" yaml:"label"`
}

// ServiceConfig is a catalog service as stored in the config file.
// Services are a list rather than a map because viper lowercases map keys.
type ServiceConfig struct {
	Name           string                  `mapstructure:"name" yaml:"name"`
	Title          string                  `mapstructure:"title" yaml:"title"`
	Type           string                  `mapstructure:"type" yaml:"type"`
	URL            string                  `mapstructure:"url" yaml:"url"`
	Autoload       bool                    `mapstructure:"autoload" yaml:"autoload"`
	Authentication *catalog.Authentication `mapstructure:"authentication" yaml:"authentication,omitempty"`
}

// SearchConfig configures the search executor.
type SearchConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`  // 0 disables response caching
	RateLimit float64       `mapstructure:"rate_limit"` // Requests per second per host
	RateBurst int           `mapstructure:"rate_burst"`
	UserAgent string        `mapstructure:"user_agent"`
}

// HistoryConfig configures the search history database.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // Default: ~/.config/atlas/history.db
	Limit   int    `mapstructure:"limit"`
}

// LogConfig configures the debug log file.
type LogConfig struct {
	Path       string `mapstructure:"path"` // Default: ./atlas-debug.log
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// TracingConfig holds distributed tracing configuration for catalog searches.
type TracingConfig struct {
	// Enabled controls whether tracing is active. Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp". Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	// Default: ~/.config/atlas/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for the "otlp" exporter.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`

	// ServiceName identifies atlas in exported traces. Default: "atlas"
	ServiceName string `mapstructure:"service_name"`
}

// Registry converts the configured services to a catalog registry.
// Later duplicates of a name win.
func (c CatalogConfig) Registry() catalog.Registry {
	r := make(catalog.Registry, len(c.Services))
	for _, s := range c.Services {
		r[s.Name] = catalog.ServiceDefinition{
			Title:          s.Title,
			Type:           catalog.ServiceType(s.Type),
			URL:            s.URL,
			Autoload:       s.Autoload,
			Authentication: s.Authentication,
		}
	}
	return r
}

// ServicesFromRegistry converts a registry back to its stored form, sorted by name.
func ServicesFromRegistry(r catalog.Registry) []ServiceConfig {
	out := make([]ServiceConfig, 0, len(r))
	for name, def := range r {
		out = append(out, ServiceConfig{
			Name:           name,
			Title:          def.Title,
			Type:           string(def.Type),
			URL:            def.URL,
			Autoload:       def.Autoload,
			Authentication: def.Authentication,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ValidateService checks a single service definition.
func ValidateService(name string, def catalog.ServiceDefinition) error {
	if strings.TrimSpace(def.Title) == "" {
		return fmt.Errorf("service %q: title is required", name)
	}
	if !def.Type.Known() {
		return fmt.Errorf("service %q: type must be csw, wms or wmts, got %q", name, def.Type)
	}
	u, err := url.Parse(def.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("service %q: url must be an absolute http(s) url, got %q", name, def.URL)
	}
	return nil
}

// Validate checks the whole configuration.
func Validate(c Config) error {
	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("catalog.page_size must be positive, got %d", c.Catalog.PageSize)
	}
	if _, err := catalog.ParseResetPolicy(c.Catalog.LoadingReset); err != nil {
		return fmt.Errorf("catalog.loading_reset: %w", err)
	}
	seen := make(map[string]bool, len(c.Catalog.Services))
	for _, s := range c.Catalog.Services {
		if s.Name == "" {
			return fmt.Errorf("catalog.services: every service needs a name")
		}
		if seen[s.Name] {
			return fmt.Errorf("catalog.services: duplicate service %q", s.Name)
		}
		seen[s.Name] = true
		if err := ValidateService(s.Name, c.Catalog.Registry()[s.Name]); err != nil {
			return fmt.Errorf("catalog.services: %w", err)
		}
	}
	if c.Search.RateLimit < 0 {
		return fmt.Errorf("search.rate_limit must not be negative")
	}
	return ValidateTracing(c.Tracing)
}

// ValidateTracing checks tracing configuration for errors.
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}
	switch tracing.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
	}
	if tracing.Enabled && tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// Dir returns the user config directory for atlas (~/.config/atlas).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".atlas"
	}
	return filepath.Join(home, ".config", "atlas")
}

// DefaultFormats returns the service types offered by the edit form.
func DefaultFormats() []FormatConfig {
	return []FormatConfig{
		{Name: string(catalog.TypeCSW), Label: "CSW"},
		{Name: string(catalog.TypeWMS), Label: "WMS"},
		{Name: string(catalog.TypeWMTS), Label: "WMTS"},
	}
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Catalog: CatalogConfig{
			PageSize:            catalog.DefaultPageSize,
			IncludeSearchButton: true,
			Locale:              "en-US",
			Formats:             DefaultFormats(),
			LoadingReset:        string(catalog.ResetOnToken),
			SelectedService:     "Demo CSW Service",
			Services: []ServiceConfig{
				{
					Name:     "Demo CSW Service",
					Title:    "Demo CSW Service",
					Type:     string(catalog.TypeCSW),
					URL:      "https://demo.geo-solutions.it/geoserver/csw",
					Autoload: true,
				},
				{
					Name:  "Demo WMS Service",
					Title: "Demo WMS Service",
					Type:  string(catalog.TypeWMS),
					URL:   "https://demo.geo-solutions.it/geoserver/wms",
				},
			},
		},
		Search: SearchConfig{
			Timeout:   15 * time.Second,
			CacheTTL:  5 * time.Minute,
			RateLimit: 5,
			RateBurst: 5,
			UserAgent: "atlas",
		},
		AutoReload: true,
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(Dir(), "history.db"),
			Limit:   50,
		},
		Log: LogConfig{
			Path:       "atlas-debug.log",
			Level:      "debug",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
		Tracing: TracingConfig{
			Exporter:   "file",
			FilePath:   filepath.Join(Dir(), "traces", "traces.jsonl"),
			SampleRate: 1.0,
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# atlas configuration

# Catalog view settings
catalog:
  page_size: 4                # Records per page
  locale: en-US               # en-US or it-IT
  include_search_button: true
  include_reset_button: false
  # wrap_options: true        # Hide the text search behind an options toggle
  # source: backgroundSelector  # List the "Map Backgrounds" pseudo-service
  #
  # Which answers clear the loading spinner:
  #   token - only the answer to the latest search (default)
  #   any   - any state change, including unrelated ones
  loading_reset: token

  selected_service: Demo CSW Service

  # Catalog services. Edit them here or inline with 'e' / 'n' in the catalog view.
  services:
    - name: Demo CSW Service
      title: Demo CSW Service
      type: csw
      url: https://demo.geo-solutions.it/geoserver/csw
      autoload: true
    - name: Demo WMS Service
      title: Demo WMS Service
      type: wms
      url: https://demo.geo-solutions.it/geoserver/wms
      autoload: false

# Reload services when this file changes on disk
auto_reload: true

# Search executor
search:
  timeout: 15s
  cache_ttl: 5m      # 0 disables response caching
  rate_limit: 5      # requests per second per host
  rate_burst: 5

# Search history (see 'atlas history')
history:
  enabled: true
  limit: 50
  # path: ~/.config/atlas/history.db

# Debug log (enabled with --debug or ATLAS_DEBUG=1)
# log:
#   path: atlas-debug.log
#   level: debug
#   max_size_mb: 10

# Tracing of catalog searches
# tracing:
#   enabled: false
#   exporter: file                 # none, file, stdout, otlp
#   file_path: ~/.config/atlas/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
