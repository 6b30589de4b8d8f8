package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flipbook/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the atlas cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached atlases",
		RunE: func(cmd *cobra.Command, args []string) error {
			lc, err := c.loadConfig()
			if err != nil {
				return err
			}
			lc.Cache.Enabled = true

			ch, err := newCache(cmd.Context(), lc.Cache, false)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if !ok {
				printInfo("Cache is not available")
				return nil
			}
			count, err := clearer.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Location: %s", cacheLocation(ch))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func cacheLocation(ch cache.Cache) string {
	switch ch := ch.(type) {
	case *cache.FileCache:
		return ch.Dir()
	case *cache.RedisCache:
		return "redis"
	default:
		return "none"
	}
}
