package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/runger/folio/internal/api"
	"github.com/runger/folio/internal/config"
	folog "github.com/runger/folio/internal/log"
	"github.com/runger/folio/internal/storage"
)

func seedStore(t *testing.T, paths *config.Paths, fn func(s *storage.SQLiteStore)) {
	t.Helper()
	store, err := storage.NewSQLiteStore(paths.DatabaseFile())
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer store.Close()
	fn(store)
}

func TestRunHistory_Empty(t *testing.T) {
	withTestEnv(t)

	out := captureStdout(t, func() {
		if err := runHistory(historyCmd, nil); err != nil {
			t.Errorf("runHistory() error = %v", err)
		}
	})
	if !strings.Contains(out, "No search history available.") {
		t.Errorf("output = %q", out)
	}
}

func TestRunHistory_ListsOldestFirst(t *testing.T) {
	paths := withTestEnv(t)
	seedStore(t, paths, func(s *storage.SQLiteStore) {
		ctx := context.Background()
		for _, rec := range []struct {
			term  string
			count int
		}{{"photo", 0}, {"dev", 4}, {"dev", 5}} {
			if err := s.RecordSearch(ctx, rec.term, rec.count); err != nil {
				t.Fatalf("RecordSearch() error = %v", err)
			}
		}
	})

	out := captureStdout(t, func() {
		if err := runHistory(historyCmd, nil); err != nil {
			t.Errorf("runHistory() error = %v", err)
		}
	})

	photo := strings.Index(out, "photo")
	dev := strings.Index(out, "dev")
	if photo < 0 || dev < 0 || photo > dev {
		t.Errorf("want photo before dev (most recent last):\n%s", out)
	}
	if !strings.Contains(out, "[5 result(s)]") {
		t.Errorf("dev should show its latest result count:\n%s", out)
	}
	if !strings.Contains(out, "(searched 2 times)") {
		t.Errorf("dev should show its search count:\n%s", out)
	}
	if !strings.Contains(out, "[no results]") {
		t.Errorf("photo should show no results:\n%s", out)
	}
	if !strings.Contains(out, "Showing 2 search(es)") {
		t.Errorf("missing summary:\n%s", out)
	}
}

func TestRunHistory_Limit(t *testing.T) {
	paths := withTestEnv(t)
	seedStore(t, paths, func(s *storage.SQLiteStore) {
		for _, term := range []string{"a", "b", "c"} {
			if err := s.RecordSearch(context.Background(), term, 1); err != nil {
				t.Fatalf("RecordSearch() error = %v", err)
			}
		}
	})
	historyLimit = 1

	out := captureStdout(t, func() {
		if err := runHistory(historyCmd, nil); err != nil {
			t.Errorf("runHistory() error = %v", err)
		}
	})
	if !strings.Contains(out, "Showing 1 search(es)") {
		t.Errorf("output = %q", out)
	}
}

func TestRunHistory_Clear(t *testing.T) {
	paths := withTestEnv(t)
	seedStore(t, paths, func(s *storage.SQLiteStore) {
		_ = s.RecordSearch(context.Background(), "dev", 1)
		_ = s.RecordSearch(context.Background(), "design", 1)
	})
	historyClear = true

	out := captureStdout(t, func() {
		if err := runHistory(historyCmd, nil); err != nil {
			t.Errorf("runHistory() error = %v", err)
		}
	})
	if !strings.Contains(out, "Removed 2 search(es)") {
		t.Errorf("output = %q", out)
	}
	if got := recentTerms(t, paths); len(got) != 0 {
		t.Errorf("history = %v, want empty", got)
	}
}

func TestRunCache_Stats(t *testing.T) {
	paths := withTestEnv(t)
	seedStore(t, paths, func(s *storage.SQLiteStore) {
		ctx := context.Background()
		if err := s.CachePortfolio(ctx, api.Portfolio{ID: 1, Title: "One"}, 0); err != nil {
			t.Fatalf("CachePortfolio() error = %v", err)
		}
		if _, err := s.CachedPortfolio(ctx, 1); err != nil {
			t.Fatalf("CachedPortfolio() error = %v", err)
		}
	})

	out := captureStdout(t, func() {
		if err := runCache(cacheCmd, nil); err != nil {
			t.Errorf("runCache() error = %v", err)
		}
	})
	for _, want := range []string{"entries: 1", "expired: 0", "hits:    1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunCache_Prune(t *testing.T) {
	withTestEnv(t)
	cachePrune = true

	out := captureStdout(t, func() {
		if err := runCache(cacheCmd, nil); err != nil {
			t.Errorf("runCache() error = %v", err)
		}
	})
	if !strings.Contains(out, "Removed 0 expired entries") {
		t.Errorf("output = %q", out)
	}
}

func TestMaintain_PrunesHistory(t *testing.T) {
	paths := withTestEnv(t)
	store, err := storage.NewSQLiteStore(paths.DatabaseFile())
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	for _, term := range []string{"a", "b", "c"} {
		if err := store.RecordSearch(ctx, term, 1); err != nil {
			t.Fatalf("RecordSearch() error = %v", err)
		}
	}

	cfg := config.DefaultConfig()
	cfg.History.MaxEntries = 2
	maintain(store, cfg, folog.Discard())

	entries, err := store.RecentSearches(ctx, 0)
	if err != nil {
		t.Fatalf("RecentSearches() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries after prune, want 2", len(entries))
	}
}
