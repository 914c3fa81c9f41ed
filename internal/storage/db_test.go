package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewSQLiteStore_CreatesDatabase(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "history.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("Database directory was not created")
	}
}

func TestNewSQLiteStore_EmptyPath(t *testing.T) {
	t.Parallel()

	if _, err := NewSQLiteStore(""); err == nil {
		t.Error("NewSQLiteStore(\"\") expected error")
	}
}

func TestSQLiteStore_Migration_CreatesSchema(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()

	for _, table := range []string{"schema_meta", "searches", "portfolio_cache"} {
		_, err := store.DB().ExecContext(context.Background(), "SELECT 1 FROM "+table+" LIMIT 1")
		if err != nil {
			t.Errorf("Table %s does not exist: %v", table, err)
		}
	}

	var version int
	if err := store.DB().QueryRow("SELECT MAX(version) FROM schema_meta").Scan(&version); err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	if version != 2 {
		t.Errorf("schema version = %d, want 2", version)
	}
}

func TestSQLiteStore_Reopen_KeepsData(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	if err := store.RecordSearch(ctx, "designer", 4); err != nil {
		t.Fatalf("RecordSearch() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	store, err = NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer store.Close()

	entries, err := store.RecentSearches(ctx, 10)
	if err != nil {
		t.Fatalf("RecentSearches() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Term != "designer" {
		t.Errorf("entries after reopen = %+v", entries)
	}
}

func TestSQLiteStore_WALMode_Enabled(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()

	var journalMode string
	err := store.DB().QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("Failed to check journal mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("Journal mode = %s, want wal", journalMode)
	}
}

func TestSQLiteStore_Close(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	if err := store.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	// Second close should be safe.
	_ = store.Close()
}

func TestSQLiteStore_ConcurrentWrites_Safe(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	const numWriters = 8
	const writesPerWriter = 10

	errCh := make(chan error, numWriters)
	for i := 0; i < numWriters; i++ {
		go func(writerID int) {
			for j := 0; j < writesPerWriter; j++ {
				term := string(rune('a'+writerID)) + string(rune('0'+j))
				if err := store.RecordSearch(ctx, term, j); err != nil {
					errCh <- err
					return
				}
			}
			errCh <- nil
		}(i)
	}
	for i := 0; i < numWriters; i++ {
		if err := <-errCh; err != nil {
			t.Errorf("concurrent write error: %v", err)
		}
	}

	entries, err := store.RecentSearches(ctx, 1000)
	if err != nil {
		t.Fatalf("RecentSearches() error = %v", err)
	}
	if len(entries) != numWriters*writesPerWriter {
		t.Errorf("got %d entries, want %d", len(entries), numWriters*writesPerWriter)
	}
}

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	return store
}

// fakeClock returns a clock starting at start that advances by step on
// every call.
func fakeClock(start time.Time, step time.Duration) func() time.Time {
	now := start
	return func() time.Time {
		t := now
		now = now.Add(step)
		return t
	}
}
