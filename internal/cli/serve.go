package cli

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flipbook/internal/server"
	"github.com/matzehuels/flipbook/pkg/cache"
	"github.com/matzehuels/flipbook/pkg/jobs"
	"github.com/matzehuels/flipbook/pkg/pipeline"
)

// serveCommand creates the serve command that runs the HTTP job API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP job API",
		Long: `Run the HTTP job API.

Clients submit builds with POST /v1/jobs and poll GET /v1/jobs/{id} for
progress. Paths in requests refer to this host's filesystem. Settings from
the config file become the defaults for every job.

When cache.redis_url (or FLIPBOOK_REDIS_URL) is set, atlases and job
records are kept in Redis so several servers can share them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lc, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				lc.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), lc.Config, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg Config, noCache bool) error {
	logger := loggerFromContext(ctx)

	ch, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, "server"), logger)
	runner.TTL = cfg.Cache.TTL
	defer runner.Close()

	var store jobs.Store
	if cfg.Cache.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.Cache.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()
		store = jobs.NewRedisStore(client, "")
		logger.Info("job store", "backend", "redis", "addr", opts.Addr)
	}

	defaults := cfg.Options
	defaults.Input, defaults.Output, defaults.Refresh = "", "", false
	srv := server.New(runner, store, logger,
		server.WithDefaults(defaults),
		server.WithJobTTL(cfg.Server.JobTTL))
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
