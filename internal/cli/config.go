package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flipbook/pkg/cache"
	"github.com/matzehuels/flipbook/pkg/errors"
	"github.com/matzehuels/flipbook/pkg/jobs"
	"github.com/matzehuels/flipbook/pkg/pipeline"
)

// configFile is the config file name inside the config directory.
const configFile = "config.toml"

// Config is the on-disk configuration. Build options sit at the top level:
//
//	frames = 24
//	filter = "lanczos"
//	manifest = true
//
//	[cache]
//	ttl = "72h"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":9000"
type Config struct {
	pipeline.Options

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig configures the artifact cache.
type CacheConfig struct {
	Enabled  bool          `toml:"enabled"`
	TTL      time.Duration `toml:"ttl"`
	RedisURL string        `toml:"redis_url"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr   string        `toml:"addr"`
	JobTTL time.Duration `toml:"job_ttl"`
}

// defaultConfig returns the built-in settings that a config file overlays.
func defaultConfig() Config {
	return Config{
		Options: pipeline.Options{
			Frames:      pipeline.DefaultFrames,
			StrictCount: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     cache.TTLAtlas,
		},
		Server: ServerConfig{
			Addr:   ":8080",
			JobTTL: jobs.DefaultTTL,
		},
	}
}

// loadedConfig is a Config plus where it came from.
type loadedConfig struct {
	Config

	// Path is the file that was read, or would have been read.
	Path string
	// Found reports whether Path existed.
	Found bool
	// Unknown lists keys in the file that no setting uses.
	Unknown []string
}

// readConfig reads path, or the default location when path is empty.
// A missing default file yields the built-in defaults; a missing explicit
// file is an error. FLIPBOOK_REDIS_URL overrides cache.redis_url.
func readConfig(path string) (*loadedConfig, error) {
	lc := &loadedConfig{Config: defaultConfig(), Path: path}
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err == nil {
			lc.Path = filepath.Join(dir, configFile)
		}
	}

	if lc.Path != "" {
		if _, err := os.Stat(lc.Path); err == nil {
			md, err := toml.DecodeFile(lc.Path, &lc.Config)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", lc.Path)
			}
			lc.Found = true
			for _, key := range md.Undecoded() {
				lc.Unknown = append(lc.Unknown, key.String())
			}
		} else if explicit {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", lc.Path)
		}
	}

	if url := os.Getenv(envRedisURL); url != "" {
		lc.Cache.RedisURL = url
	}
	return lc, nil
}

// loadConfig loads the config named by --config and warns about keys it
// does not recognize.
func (c *CLI) loadConfig() (*loadedConfig, error) {
	lc, err := readConfig(c.configPath)
	if err != nil {
		return nil, err
	}
	if lc.Found {
		c.Logger.Debug("loaded config", "path", lc.Path)
	}
	if len(lc.Unknown) > 0 {
		c.Logger.Warn("unknown config keys", "path", lc.Path, "keys", strings.Join(lc.Unknown, ", "))
	}
	return lc, nil
}

// =============================================================================
// Config Command
// =============================================================================

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			lc, err := c.loadConfig()
			if err != nil {
				return err
			}
			if lc.Path == "" {
				return errors.New(errors.ErrCodeInvalidPath, "no config location available")
			}
			fmt.Fprintln(cmd.OutOrStdout(), lc.Path)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			lc, err := c.loadConfig()
			if err != nil {
				return err
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(lc.Config)
		},
	})
	return cmd
}
