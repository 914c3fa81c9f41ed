package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/folio/internal/config"
	"github.com/runger/folio/internal/searchbox"
)

var (
	suggestLimit int
	suggestJSON  bool
)

var suggestCmd = &cobra.Command{
	Use:     "suggest <prefix>",
	Short:   "Print search suggestions for a prefix",
	GroupID: groupCore,
	Long: `Print the autocomplete suggestions the search box would show.

Examples:
  folio suggest de          # e.g. "dev", "design"
  folio suggest -n 3 photo  # At most three suggestions
  folio suggest --json re   # JSON array`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", 10, "maximum number of suggestions to return")
	suggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "output suggestions as JSON")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	paths := config.DefaultPaths()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closer := openLogger(cfg, paths)
	defer closer.Close()

	prefix := strings.Join(args, " ")
	if strings.TrimSpace(prefix) == "" {
		return fmt.Errorf("prefix is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Search.SuggestTimeout())
	defer cancel()

	items, err := newClient(cfg, logger).Suggest(ctx, 1, prefix)
	if err != nil {
		logger.Warn("suggestion fetch failed", "error", &searchbox.SuggestionFetchError{Query: prefix, Err: err})
		return fmt.Errorf("suggestions failed: %w", err)
	}
	if suggestLimit > 0 && len(items) > suggestLimit {
		items = items[:suggestLimit]
	}

	if suggestJSON {
		return printJSON(items)
	}
	for _, s := range items {
		fmt.Println(searchbox.Clean(s))
	}
	return nil
}
