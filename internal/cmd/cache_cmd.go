package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/runger/folio/internal/config"
	"github.com/runger/folio/internal/storage"
)

var cachePrune bool

var cacheCmd = &cobra.Command{
	Use:     "cache",
	Short:   "Show offline portfolio cache statistics",
	GroupID: groupSetup,
	Long: `Show statistics for the offline copies of viewed portfolios.

Copies are written when a portfolio is opened in the browser and served
when the service cannot be reached. They expire after
history.cache_ttl_hours.

Examples:
  folio cache            # Entry, expired and hit counts
  folio cache --prune    # Delete expired copies`,
	Args: cobra.NoArgs,
	RunE: runCache,
}

func init() {
	cacheCmd.Flags().BoolVar(&cachePrune, "prune", false, "Delete expired entries")
}

func runCache(cmd *cobra.Command, args []string) error {
	paths := config.DefaultPaths()

	store, err := storage.NewSQLiteStore(paths.DatabaseFile())
	if err != nil {
		fmt.Printf("No cache available. Database not found at: %s\n", paths.DatabaseFile())
		return nil
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if cachePrune {
		n, err := store.PruneExpiredCache(ctx)
		if err != nil {
			return fmt.Errorf("failed to prune cache: %w", err)
		}
		fmt.Printf("Removed %d expired entr%s\n", n, pluralY(n))
	}

	stats, err := store.GetCacheStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cache stats: %w", err)
	}

	fmt.Printf("%sPortfolio Cache%s\n", colorBold, colorReset)
	fmt.Printf("  entries: %s\n", humanize.Comma(stats.TotalEntries))
	fmt.Printf("  expired: %s\n", humanize.Comma(stats.ExpiredEntries))
	fmt.Printf("  hits:    %s\n", humanize.Comma(stats.TotalHits))
	fmt.Printf("%sDatabase: %s%s\n", colorDim, paths.DatabaseFile(), colorReset)
	return nil
}

func pluralY(n int64) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
