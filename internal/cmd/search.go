package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/folio/internal/config"
)

var (
	searchJSON bool
	searchPage int
)

var searchCmd = &cobra.Command{
	Use:     "search [query]",
	Short:   "Search portfolios",
	GroupID: groupCore,
	Long: `Run a full search and print one page of matching portfolios.

Arguments are joined with spaces. An empty query returns every portfolio
unless search.reject_empty_commit is set. Non-empty searches are recorded
in the history when history.enabled is set.

Examples:
  folio search dev                # First page of portfolios matching "dev"
  folio search --page 2 react     # Second page
  folio search --json photo       # Raw results as JSON`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "result page to fetch")
	searchCmd.Flags().StringVar(&colorMode, "color", "auto", "color output: auto, always, or never")
}

func runSearch(cmd *cobra.Command, args []string) error {
	applyColorMode()

	paths := config.DefaultPaths()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closer := openLogger(cfg, paths)
	defer closer.Close()

	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" && cfg.Search.RejectEmptyCommit {
		return fmt.Errorf("search term is required")
	}
	if searchPage < 1 {
		return fmt.Errorf("--page must be at least 1")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Search.SearchTimeout())
	defer cancel()

	items, err := newClient(cfg, logger).SearchPage(ctx, searchPage, query)
	if err != nil {
		logger.Error("search failed", "query", query, "error", err)
		return fmt.Errorf("search failed: %w", err)
	}
	logger.Info("search committed", "query", query, "results", len(items))

	if cfg.History.Enabled && query != "" {
		recordSearch(paths, logger, query, len(items))
	}

	if searchJSON {
		return printJSON(items)
	}

	if len(items) == 0 {
		if query == "" {
			fmt.Println("No portfolios found.")
		} else {
			fmt.Printf("No portfolios found matching '%s'\n", query)
		}
		return nil
	}

	width := terminalWidth()
	for _, p := range items {
		printPortfolio(p, width)
	}
	fmt.Println()
	fmt.Printf("%sShowing %d result(s), page %d%s\n", colorDim, len(items), searchPage, colorReset)
	return nil
}

// recordSearch stores a committed search. Failures are logged, never
// surfaced.
func recordSearch(paths *config.Paths, logger *slog.Logger, query string, count int) {
	store, err := openStore(paths, logger)
	if err != nil {
		logger.Warn("record search failed", "error", err)
		return
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), maintenanceTimeout)
	defer cancel()
	if err := store.RecordSearch(ctx, query, count); err != nil {
		logger.Warn("record search failed", "error", err)
	}
}
