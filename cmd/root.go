package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/atlas/internal/app"
	"github.com/zjrosen/atlas/internal/config"
	"github.com/zjrosen/atlas/internal/flags"
	"github.com/zjrosen/atlas/internal/history"
	"github.com/zjrosen/atlas/internal/infrastructure/sqlite"
	"github.com/zjrosen/atlas/internal/log"
	"github.com/zjrosen/atlas/internal/mode"
	"github.com/zjrosen/atlas/internal/mode/shared"
	"github.com/zjrosen/atlas/internal/search"
	"github.com/zjrosen/atlas/internal/tracing"
)

func init() {
	// Query the terminal background before Bubble Tea owns stdin so the
	// OSC 11 reply does not leak into text inputs.
	_ = lipgloss.HasDarkBackground()
}

const localConfigPath = ".atlas/config.yaml"

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "atlas",
	Short:   "A terminal catalog browser for OGC map services",
	Long:    `A terminal user interface for searching CSW, WMS and WMTS catalogs and collecting layers for a map.`,
	Version: version,
	// Shown by subcommands only; the TUI reports its own errors.
	SilenceUsage: true,
	RunE:         runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./.atlas/config.yaml, then ~/.config/atlas/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false,
		"write a debug log and enable the log overlay (ctrl+x)")
	rootCmd.Flags().StringP("service", "s", "", "service selected at startup")
	rootCmd.Flags().String("locale", "", "message locale (en-US, it-IT)")
	rootCmd.Flags().Bool("no-auto-reload", false, "do not reload services when the config file changes")

	_ = viper.BindPFlag("catalog.selected_service", rootCmd.Flags().Lookup("service"))
	_ = viper.BindPFlag("catalog.locale", rootCmd.Flags().Lookup("locale"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper())
	viper.SetEnvPrefix("atlas")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if _, err := os.Stat(localConfigPath); err == nil {
		viper.SetConfigFile(localConfigPath)
	} else {
		viper.AddConfigPath(config.Dir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if writeErr := config.WriteDefaultConfig(localConfigPath); writeErr == nil {
				viper.SetConfigFile(localConfigPath)
				_ = viper.ReadInConfig()
			}
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// configPath is the file service edits are written to.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return localConfigPath
}

func debugEnabled() bool {
	return debug || os.Getenv("ATLAS_DEBUG") != ""
}

// setupLogging starts the debug log when requested.
func setupLogging() (func(), error) {
	if !debugEnabled() {
		return func() {}, nil
	}
	closeLog, err := log.Init(log.Options{
		Path:       cfg.Log.Path,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing log: %w", err)
	}
	log.SetMinLevel(log.ParseLevel(cfg.Log.Level))
	log.Info(log.CatConfig, "atlas starting", "version", version, "config", configPath())
	return closeLog, nil
}

// newExecutor builds the search chain with tracing. The returned func
// flushes pending spans.
func newExecutor() (search.Executor, *search.CachedExecutor, func(), error) {
	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initializing tracing: %w", err)
	}
	executor, cache := search.New(cfg.Search, provider.Tracer())
	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.Warn(log.CatTrace, "Tracing shutdown failed", "error", err)
		}
	}
	return executor, cache, shutdown, nil
}

// openHistory opens the search history database, or returns nil when
// history is disabled.
func openHistory() (*sqlite.DB, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	path := cfg.History.Path
	if path == "" {
		path = filepath.Join(config.Dir(), "history.db")
	}
	db, err := sqlite.NewDB(path)
	if err != nil {
		return nil, fmt.Errorf("opening history %s: %w", path, err)
	}
	return db, nil
}

func runApp(cmd *cobra.Command, args []string) error {
	if noReload, _ := cmd.Flags().GetBool("no-auto-reload"); noReload {
		cfg.AutoReload = false
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	executor, cache, shutdownTracing, err := newExecutor()
	if err != nil {
		return err
	}
	defer shutdownTracing()

	var repo history.Repository
	db, err := openHistory()
	if err != nil {
		log.ErrorErr(log.CatDB, "History disabled", err)
	} else if db != nil {
		defer func() { _ = db.Close() }()
		repo = db.HistoryRepository()
	}

	features := flags.New(cfg.Flags)

	zone.NewGlobal()
	model := app.NewWithConfig(cfg, mode.Services{
		Executor:   executor,
		Cache:      cache,
		History:    repo,
		ConfigPath: configPath(),
		Clock:      shared.RealClock{},
		Clipboard:  shared.SystemClipboard{ForceOSC52: features.Enabled(flags.FlagOSC52Clipboard)},
	}, debugEnabled())

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if !features.Enabled(flags.FlagDisableMouse) {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(&model, opts...)
	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
