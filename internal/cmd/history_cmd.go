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

var (
	historyLimit int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Short:   "Show recent searches",
	GroupID: groupCore,
	Long: `Show committed searches from the folio database, most recent last.

Each distinct term is listed once with the number of times it was searched
and the result count of its latest search.

Examples:
  folio history            # Last 20 searches
  folio history -n 50      # Last 50 searches
  folio history --clear    # Forget every search`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of searches to show")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete all recorded searches")
}

func runHistory(cmd *cobra.Command, args []string) error {
	paths := config.DefaultPaths()

	store, err := storage.NewSQLiteStore(paths.DatabaseFile())
	if err != nil {
		fmt.Printf("No history available. Database not found at: %s\n", paths.DatabaseFile())
		return nil
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if historyClear {
		n, err := store.ClearSearches(ctx)
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Printf("Removed %d search(es)\n", n)
		return nil
	}

	entries, err := store.RecentSearches(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to query history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No search history available.")
		return nil
	}

	// Oldest at top, as in a shell history.
	for i := len(entries) - 1; i >= 0; i-- {
		printSearch(entries[i])
	}

	fmt.Println()
	fmt.Printf("%sShowing %d search(es)%s\n", colorDim, len(entries), colorReset)
	return nil
}

func printSearch(e storage.SearchEntry) {
	timestamp := e.LastSearched().Format("2006-01-02 15:04:05")

	results := fmt.Sprintf("%s result(s)", humanize.Comma(int64(e.ResultCount)))
	if e.ResultCount == 0 {
		results = colorYellow + "no results" + colorReset
	}

	fmt.Printf("%s%s%s  %s  [%s]", colorDim, timestamp, colorReset, e.Term, results)
	if e.Count > 1 {
		fmt.Printf("  %s(searched %d times)%s", colorDim, e.Count, colorReset)
	}
	fmt.Println()
}
