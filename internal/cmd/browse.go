package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/runger/folio/internal/config"
	folog "github.com/runger/folio/internal/log"
	"github.com/runger/folio/internal/opener"
	"github.com/runger/folio/internal/state"
	"github.com/runger/folio/internal/storage"
	"github.com/runger/folio/internal/ui"
)

var browseCmd = &cobra.Command{
	Use:     "browse",
	Short:   "Open the interactive portfolio browser",
	GroupID: groupCore,
	Long: `Open the interactive portfolio browser.

The home screen lists the latest portfolios and the category entry points.
Press / to search: suggestions appear as you type and enter runs the full
search. Esc goes back, q quits.

Committed searches are recorded in the history database when
history.enabled is set. Viewed portfolios are kept for offline use for
history.cache_ttl_hours.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

// maintenanceTimeout bounds history pruning at startup.
const maintenanceTimeout = 3 * time.Second

func runBrowse(cmd *cobra.Command, args []string) error {
	paths := config.DefaultPaths()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closer := openLogger(cfg, paths)
	defer closer.Close()

	folog.LogStartup(logger, folog.StartupInfo{
		Version:    Version,
		GitCommit:  GitCommit,
		ConfigPath: paths.ConfigFile(),
		APIBaseURL: cfg.API.BaseURL,
		HistoryDB:  paths.DatabaseFile(),
		PID:        os.Getpid(),
	})

	deps := ui.Deps{
		API:    newClient(cfg, logger),
		Store:  state.NewStore(),
		Config: cfg,
		Logger: logger,
		Opener: opener.New(cfg.UI.BrowserCommand),
	}

	if cfg.History.Enabled || cfg.History.CacheTTLHours > 0 {
		store, err := openStore(paths, logger)
		if err != nil {
			logger.Warn("history unavailable", "error", err)
		} else {
			defer store.Close()
			maintain(store, cfg, logger)
			if cfg.History.Enabled {
				deps.Recorder = store
			}
			if cfg.History.CacheTTLHours > 0 {
				deps.Cache = store
			}
		}
	}

	// Styles are package level in ui; set the profile on the default
	// renderer before the program starts.
	lipgloss.SetColorProfile(termenv.NewOutput(os.Stdout).ColorProfile())

	p := tea.NewProgram(ui.New(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		folog.LogShutdown(logger, "error")
		return fmt.Errorf("browser failed: %w", err)
	}
	folog.LogShutdown(logger, "quit")
	return nil
}

// maintain trims history to history.max_entries and drops expired
// portfolio copies.
func maintain(store storage.Store, cfg *config.Config, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), maintenanceTimeout)
	defer cancel()

	if n, err := store.Prune(ctx, cfg.History.MaxEntries); err != nil {
		logger.Warn("prune history failed", "error", err)
	} else if n > 0 {
		logger.Debug("pruned history", "removed", n)
	}
	if n, err := store.PruneExpiredCache(ctx); err != nil {
		logger.Warn("prune portfolio cache failed", "error", err)
	} else if n > 0 {
		logger.Debug("pruned portfolio cache", "removed", n)
	}
}
