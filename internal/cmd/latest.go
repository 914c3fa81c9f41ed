package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runger/folio/internal/api"
	"github.com/runger/folio/internal/config"
)

var (
	latestCategory string
	latestLimit    int
	latestJSON     bool
)

var latestCmd = &cobra.Command{
	Use:     "latest",
	Short:   "Print the newest portfolios",
	GroupID: groupCore,
	Long: `Print the newest portfolios, optionally within one category.

Categories: All, Develop, Design, Photographer (case-insensitive).

Examples:
  folio latest                      # ui.latest_count newest portfolios
  folio latest --category design    # Newest designer portfolios
  folio latest -n 30 --json         # Thirty, as JSON`,
	Args: cobra.NoArgs,
	RunE: runLatest,
}

func init() {
	latestCmd.Flags().StringVar(&latestCategory, "category", "", "category to list (default All)")
	latestCmd.Flags().IntVarP(&latestLimit, "limit", "n", 0, "number of portfolios (default ui.latest_count)")
	latestCmd.Flags().BoolVar(&latestJSON, "json", false, "output portfolios as JSON")
	latestCmd.Flags().StringVar(&colorMode, "color", "auto", "color output: auto, always, or never")
}

func runLatest(cmd *cobra.Command, args []string) error {
	applyColorMode()

	category, err := parseCategory(latestCategory)
	if err != nil {
		return err
	}

	paths := config.DefaultPaths()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closer := openLogger(cfg, paths)
	defer closer.Close()

	n := latestLimit
	if n <= 0 {
		n = cfg.UI.LatestCount
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout())
	defer cancel()

	items, err := newClient(cfg, logger).Latest(ctx, category, n, cfg.UI.PageSize)
	if err != nil {
		return fmt.Errorf("failed to load portfolios: %w", err)
	}

	if latestJSON {
		if items == nil {
			items = []api.Portfolio{}
		}
		return printJSON(items)
	}
	if len(items) == 0 {
		fmt.Println("No portfolios yet.")
		return nil
	}

	width := terminalWidth()
	for _, p := range items {
		printPortfolio(p, width)
	}
	return nil
}
