package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultConfig(t *testing.T) {
	t.Parallel()

	logger := New(nil)
	assert.NotNil(t, logger)
}

func TestNew_JSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&Config{
		Output: &buf,
		Level:  slog.LevelInfo,
	})

	logger.Info("test message", "key", "value")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	require.NoError(t, err)

	assert.Contains(t, logEntry, "ts")
	assert.NotContains(t, logEntry, "time")
	assert.Contains(t, logEntry, "level")
	assert.Equal(t, "test message", logEntry["msg"])
	assert.Equal(t, "value", logEntry["key"])
}

func TestNew_DebugLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&Config{
		Output: &buf,
		Debug:  true,
	})

	logger.Debug("debug message")

	assert.Contains(t, buf.String(), "debug message")
}

func TestNew_InfoLevel_HidesDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&Config{
		Output: &buf,
		Level:  slog.LevelInfo,
	})

	logger.Debug("hidden")
	logger.Info("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"chatty", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestOpenFile_AppendsJSONLines(t *testing.T) {
	t.Setenv("FOLIO_DEBUG", "")
	path := filepath.Join(t.TempDir(), "logs", "folio.log")

	logger, closer, err := OpenFile(path, "info")
	require.NoError(t, err)
	logger.Info("first")
	logger.Warn("second", "error", errors.New("boom"))
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"msg":"first"`)
	assert.Contains(t, lines[1], `"error":"boom"`)
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	logger := Discard()
	require.NotNil(t, logger)
	logger.Error("nothing happens")
}

func TestLogStartup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&Config{Output: &buf})

	LogStartup(logger, StartupInfo{
		Version:    "1.0.0",
		GitCommit:  "abc123",
		ConfigPath: "/home/u/.config/folio/config.yaml",
		APIBaseURL: "https://folio.test",
		HistoryDB:  "/home/u/.local/share/folio/history.db",
		PID:        4242,
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "folio started", entry["msg"])
	assert.Equal(t, "1.0.0", entry["version"])
	assert.Equal(t, "https://folio.test", entry["api_base_url"])
	assert.Equal(t, float64(4242), entry["pid"])
}

func TestLogShutdownAndSQLiteError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&Config{Output: &buf})

	LogShutdown(logger, "user quit")
	LogSQLiteError(logger, "insert", errors.New("database is locked"))

	out := buf.String()
	assert.Contains(t, out, "user quit")
	assert.Contains(t, out, "database is locked")
	assert.Contains(t, out, `"operation":"insert"`)
}
