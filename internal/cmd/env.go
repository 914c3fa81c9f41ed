package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/runger/folio/internal/api"
	"github.com/runger/folio/internal/config"
	folog "github.com/runger/folio/internal/log"
	"github.com/runger/folio/internal/storage"
)

// loadConfig loads the config file and applies --api-url.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid --api-url: %w", err)
		}
	}
	return cfg, nil
}

// openLogger opens the log file named by log.file or the default path.
// Logging is best effort: a file that cannot be opened yields a discard
// logger.
func openLogger(cfg *config.Config, paths *config.Paths) (*slog.Logger, io.Closer) {
	path := cfg.Log.File
	if path == "" {
		path = paths.LogFile()
	}
	logger, f, err := folog.OpenFile(path, cfg.Log.Level)
	if err != nil {
		return folog.Discard(), io.NopCloser(nil)
	}
	return logger, f
}

func newClient(cfg *config.Config, logger *slog.Logger) *api.Client {
	return api.NewClient(api.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout(),
		UserAgent: cfg.API.UserAgent + "/" + Version,
		CacheSize: cfg.Search.CacheSize,
		CacheTTL:  cfg.Search.CacheTTL(),
		Logger:    logger,
	})
}

// openStore opens the history database.
func openStore(paths *config.Paths, logger *slog.Logger) (*storage.SQLiteStore, error) {
	store, err := storage.NewSQLiteStore(paths.DatabaseFile(), storage.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return store, nil
}
