package cli

import (
	"fmt"

	"github.com/dshills/prgate/internal/cache"
	"github.com/dshills/prgate/internal/config"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the gateway response cache",
}

// withCache opens the configured cache directory whether or not caching is
// enabled, so stale entries can still be inspected and cleared.
func withCache(fn func(cfg config.Config, store *cache.Store) error) error {
	cfg, err := config.Load(nil)
	if err != nil {
		return err
	}
	store, err := openCache(cfg)
	if err != nil {
		return err
	}
	return fn(cfg, store)
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached gateway response",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(func(_ config.Config, store *cache.Store) error {
			n, err := store.Clear()
			if err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}
			logE.WithField("dir", store.Dir()).Debug("cache cleared")
			fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared (%d entries).\n", n)
			return nil
		})
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"show"},
	Short:   "Print entry counts and size of the cache",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(func(cfg config.Config, store *cache.Store) error {
			if !cfg.Cache.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache is disabled.")
			}
			stats, err := store.Stats()
			if err != nil {
				return fmt.Errorf("reading cache stats: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), stats)
		})
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd, cacheStatsCmd)
}
