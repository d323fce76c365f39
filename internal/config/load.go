package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("catalog.page_size", d.Catalog.PageSize)
	v.SetDefault("catalog.include_search_button", d.Catalog.IncludeSearchButton)
	v.SetDefault("catalog.include_reset_button", d.Catalog.IncludeResetButton)
	v.SetDefault("catalog.locale", d.Catalog.Locale)
	v.SetDefault("catalog.formats", d.Catalog.Formats)
	v.SetDefault("catalog.loading_reset", d.Catalog.LoadingReset)
	v.SetDefault("search.timeout", d.Search.Timeout)
	v.SetDefault("search.cache_ttl", d.Search.CacheTTL)
	v.SetDefault("search.rate_limit", d.Search.RateLimit)
	v.SetDefault("search.rate_burst", d.Search.RateBurst)
	v.SetDefault("search.user_agent", d.Search.UserAgent)
	v.SetDefault("auto_reload", d.AutoReload)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("history.limit", d.History.Limit)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
}

// Load reads the config file at path with defaults applied. Used when the
// watcher reports a change to an already running session.
func Load(path string) (Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config %s: %w", path, err)
	}
	return cfg, nil
}
