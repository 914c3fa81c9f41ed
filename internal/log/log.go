// Package log provides JSON-lines structured logging for folio.
//
// The TUI owns the terminal, so the CLI normally points the logger at a file:
//
//	{"ts":"2026-01-15T10:30:00Z","level":"INFO","msg":"search committed","query":"dev","results":12}
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config configures the structured logger.
type Config struct {
	// Output is the writer for log output (default: os.Stderr)
	Output io.Writer

	// Level is the minimum log level (default: LevelInfo)
	Level slog.Level

	// Debug enables debug level logging (overrides Level)
	Debug bool
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: os.Stderr,
		Level:  slog.LevelInfo,
		Debug:  false,
	}
}

// New creates a new JSON-lines structured logger.
//
// Log levels:
//   - debug: request/response tracing (enabled via FOLIO_DEBUG=1)
//   - info: startup, committed searches, navigation
//   - warn: recoverable failures (suggestion fetch errors, dropped history writes)
//   - error: failures surfaced to the user
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	level := cfg.Level
	if cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "ts"
			}
			return a
		},
	}

	return slog.New(slog.NewJSONHandler(output, opts))
}

// Discard returns a logger that drops everything. Useful in tests and for
// commands that must not write log files.
func Discard() *slog.Logger {
	return New(&Config{Output: io.Discard})
}

// ParseLevel converts a config level string into a slog.Level.
// Unknown values map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// OpenFile creates (or appends to) the log file at path, making parent
// directories as needed, and returns a logger writing to it along with the
// file so the caller can close it.
func OpenFile(path, level string) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := New(&Config{
		Output: f,
		Level:  ParseLevel(level),
		Debug:  os.Getenv("FOLIO_DEBUG") == "1",
	})
	return logger, f, nil
}

// StartupInfo holds information logged when the TUI starts.
type StartupInfo struct {
	Version    string
	GitCommit  string
	ConfigPath string
	APIBaseURL string
	HistoryDB  string
	PID        int
}

// LogStartup logs startup information.
func LogStartup(logger *slog.Logger, info StartupInfo) {
	logger.Info("folio started",
		"version", info.Version,
		"git_commit", info.GitCommit,
		"config_path", info.ConfigPath,
		"api_base_url", info.APIBaseURL,
		"history_db", info.HistoryDB,
		"pid", info.PID,
	)
}

// LogShutdown logs shutdown.
func LogShutdown(logger *slog.Logger, reason string) {
	logger.Info("folio exiting", "reason", reason)
}

// LogSQLiteError logs SQLite errors.
func LogSQLiteError(logger *slog.Logger, operation string, err error) {
	logger.Error("sqlite error", "operation", operation, "error", err)
}
