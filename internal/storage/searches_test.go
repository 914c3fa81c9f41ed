package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRecordSearch_NewAndRepeated(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()
	store.now = fakeClock(time.UnixMilli(1_000), time.Second)
	ctx := context.Background()

	for _, rec := range []struct {
		term  string
		count int
	}{
		{"designer", 3},
		{"go developer", 12},
		{"designer", 5},
	} {
		if err := store.RecordSearch(ctx, rec.term, rec.count); err != nil {
			t.Fatalf("RecordSearch(%q) error = %v", rec.term, err)
		}
	}

	entries, err := store.RecentSearches(ctx, 10)
	if err != nil {
		t.Fatalf("RecentSearches() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	first := entries[0]
	if first.Term != "designer" {
		t.Errorf("newest term = %q, want designer", first.Term)
	}
	if first.Count != 2 {
		t.Errorf("Count = %d, want 2", first.Count)
	}
	if first.ResultCount != 5 {
		t.Errorf("ResultCount = %d, want 5", first.ResultCount)
	}
	if first.FirstUnixMs != 1_000 || first.LastUnixMs != 3_000 {
		t.Errorf("first/last = %d/%d, want 1000/3000", first.FirstUnixMs, first.LastUnixMs)
	}
	if !first.LastSearched().Equal(time.UnixMilli(3_000)) {
		t.Errorf("LastSearched() = %v", first.LastSearched())
	}
	if entries[1].Term != "go developer" {
		t.Errorf("second term = %q", entries[1].Term)
	}
}

func TestRecordSearch_TrimsAndRejectsBlank(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	if err := store.RecordSearch(ctx, "   ", 0); !errors.Is(err, ErrEmptyTerm) {
		t.Errorf("RecordSearch(blank) error = %v, want ErrEmptyTerm", err)
	}
	if err := store.RecordSearch(ctx, "  photo  ", 1); err != nil {
		t.Fatalf("RecordSearch() error = %v", err)
	}

	entries, _ := store.RecentSearches(ctx, 10)
	if len(entries) != 1 || entries[0].Term != "photo" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestRecentSearches_Limit(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()
	store.now = fakeClock(time.UnixMilli(0), time.Millisecond)
	ctx := context.Background()

	for _, term := range []string{"a", "b", "c", "d"} {
		if err := store.RecordSearch(ctx, term, 0); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := store.RecentSearches(ctx, 2)
	if err != nil {
		t.Fatalf("RecentSearches() error = %v", err)
	}
	if len(entries) != 2 || entries[0].Term != "d" || entries[1].Term != "c" {
		t.Errorf("entries = %+v", entries)
	}

	all, err := store.RecentSearches(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Errorf("default limit returned %d entries", len(all))
	}
}

func TestPrune(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()
	store.now = fakeClock(time.UnixMilli(0), time.Millisecond)
	ctx := context.Background()

	for _, term := range []string{"oldest", "older", "newer", "newest"} {
		if err := store.RecordSearch(ctx, term, 0); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := store.Prune(ctx, 2)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	entries, _ := store.RecentSearches(ctx, 10)
	if len(entries) != 2 || entries[0].Term != "newest" || entries[1].Term != "newer" {
		t.Errorf("entries after prune = %+v", entries)
	}

	removed, err = store.Prune(ctx, 0)
	if err != nil || removed != 0 {
		t.Errorf("Prune(0) = %d, %v; want no-op", removed, err)
	}
}

func TestClearSearches(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	_ = store.RecordSearch(ctx, "x", 0)
	_ = store.RecordSearch(ctx, "y", 0)

	removed, err := store.ClearSearches(ctx)
	if err != nil {
		t.Fatalf("ClearSearches() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	entries, _ := store.RecentSearches(ctx, 10)
	if len(entries) != 0 {
		t.Errorf("entries after clear = %+v", entries)
	}
}
