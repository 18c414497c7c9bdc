package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/modsmith/modsmith/internal/config"
	"github.com/modsmith/modsmith/pkg/buildinfo"
	"github.com/modsmith/modsmith/pkg/cache"
	"github.com/modsmith/modsmith/pkg/httputil"
	"github.com/modsmith/modsmith/pkg/mod"
	"github.com/modsmith/modsmith/pkg/providers"
	"github.com/modsmith/modsmith/pkg/providers/flame"
	"github.com/modsmith/modsmith/pkg/providers/modrinth"
)

// appName is the application name used for directories and display.
const appName = "modsmith"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Modsmith installs game add-ons with their dependencies",
		Long:         `Modsmith is a CLI tool for browsing and installing game add-ons (mods, resource packs, texture packs, shader packs) from content providers, resolving mod dependencies automatically before anything is downloaded.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(log.DebugLevel)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/modsmith/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	// Register all subcommands
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.installCommand())
	root.AddCommand(c.installedCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		var err error
		if path, err = config.Path(); err != nil {
			return err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Provider Wiring
// =============================================================================

// newHTTPCache returns the response cache provider clients share. With
// noCache the cache lives in a throwaway directory so nothing survives
// the run.
func newHTTPCache(noCache bool, cfg config.Cache) (*httputil.Cache, error) {
	if noCache {
		dir, err := os.MkdirTemp("", appName+"-cache")
		if err != nil {
			return nil, err
		}
		return httputil.NewCache(dir, cfg.EffectiveTTL())
	}
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	return httputil.NewCache(filepath.Join(dir, "http"), cfg.EffectiveTTL())
}

// newMetaCache returns the metadata memoization backend: Redis when
// configured, the file cache otherwise, and a null cache with --no-cache.
func newMetaCache(noCache bool, cfg config.Cache) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.Redis.Addr != "" {
		return cache.NewRedisCache(context.Background(), cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(filepath.Join(dir, "meta"))
}

// newMux builds the provider metadata mux from config.
func (c *CLI) newMux(noCache bool) (*providers.Mux, map[mod.Provider]providers.Metadata, error) {
	httpCache, err := newHTTPCache(noCache, c.Config.Cache)
	if err != nil {
		return nil, nil, err
	}
	metaCache, err := newMetaCache(noCache, c.Config.Cache)
	if err != nil {
		c.Logger.Warn("metadata cache unavailable, continuing without", "err", err)
		metaCache = cache.NewNullCache()
	}

	backends := map[mod.Provider]providers.Metadata{
		providers.Modrinth: modrinth.NewClient(httpCache, c.Config.Providers.Modrinth.UserAgent),
	}
	if key := c.Config.Providers.Flame.APIKey; key != "" {
		backends[providers.Flame] = flame.NewClient(httpCache, key)
	}

	mux := providers.NewMux(backends,
		providers.WithCache(metaCache, cache.NewDefaultKeyer(), c.Config.Cache.EffectiveTTL()))
	return mux, backends, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/modsmith/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
