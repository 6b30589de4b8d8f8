package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flipbook/pkg/buildinfo"
	"github.com/matzehuels/flipbook/pkg/cache"
	"github.com/matzehuels/flipbook/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "flipbook"

	// envRedisURL overrides cache.redis_url from the config file.
	envRedisURL = "FLIPBOOK_REDIS_URL"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is set by the persistent --config flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Flipbook packs image sequences into sprite atlases",
		Long: `Flipbook composes an ordered sequence of images into a single grid
("flipbook" or sprite-sheet atlas) on a fixed-size transparent canvas, for
use as an animated texture in game engines.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/flipbook/config.toml)")

	root.AddCommand(c.composeCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg Config, noCache bool) (*pipeline.Runner, error) {
	ch, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	r.TTL = cfg.Cache.TTL
	return r, nil
}

// newCache picks the artifact cache: Redis when a URL is configured, the
// file cache otherwise, nothing when caching is off.
func newCache(ctx context.Context, cfg CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache || !cfg.Enabled {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisURL != "" {
		return cache.NewRedisCache(ctx, cfg.RedisURL, cache.DefaultRedisPrefix)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/flipbook/).
func cacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// configDir returns the config directory using XDG standard (~/.config/flipbook/).
func configDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}
