package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/runger/folio/internal/api"
)

func testPortfolio() api.Portfolio {
	img := "https://cdn.folio.test/7.png"
	return api.Portfolio{
		ID:          7,
		Title:       "Brand identity",
		Image:       &img,
		UserName:    "hana",
		Views:       1234,
		Category:    api.CategoryDesign,
		Description: "Logo and type system",
		Address:     "https://hana.design",
	}
}

func TestCachePortfolio_Hit(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	p := testPortfolio()
	if err := store.CachePortfolio(ctx, p, time.Hour); err != nil {
		t.Fatalf("CachePortfolio() error = %v", err)
	}

	got, err := store.CachedPortfolio(ctx, 7)
	if err != nil {
		t.Fatalf("CachedPortfolio() error = %v", err)
	}
	if got.Portfolio.Title != p.Title || got.Portfolio.Address != p.Address {
		t.Errorf("cached portfolio = %+v", got.Portfolio)
	}
	if !got.Portfolio.HasImage() || *got.Portfolio.Image != *p.Image {
		t.Errorf("image not preserved: %v", got.Portfolio.Image)
	}
	if got.CachedAt().IsZero() {
		t.Error("CachedAt() is zero")
	}

	if _, err := store.CachedPortfolio(ctx, 7); err != nil {
		t.Fatal(err)
	}
	stats, err := store.GetCacheStats(ctx)
	if err != nil {
		t.Fatalf("GetCacheStats() error = %v", err)
	}
	if stats.TotalEntries != 1 || stats.TotalHits != 2 {
		t.Errorf("stats = %+v, want 1 entry and 2 hits", stats)
	}
}

func TestCachedPortfolio_Miss(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()

	_, err := store.CachedPortfolio(context.Background(), 404)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("CachedPortfolio() error = %v, want ErrCacheNotFound", err)
	}
}

func TestCachedPortfolio_Expired(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }
	if err := store.CachePortfolio(ctx, testPortfolio(), time.Minute); err != nil {
		t.Fatal(err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := store.CachedPortfolio(ctx, 7); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expired entry returned, err = %v", err)
	}

	stats, _ := store.GetCacheStats(ctx)
	if stats.ExpiredEntries != 1 {
		t.Errorf("ExpiredEntries = %d, want 1", stats.ExpiredEntries)
	}

	removed, err := store.PruneExpiredCache(ctx)
	if err != nil {
		t.Fatalf("PruneExpiredCache() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
}

func TestCachePortfolio_ReplaceResetsHits(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	p := testPortfolio()
	_ = store.CachePortfolio(ctx, p, time.Hour)
	_, _ = store.CachedPortfolio(ctx, p.ID)

	p.Title = "Brand identity v2"
	if err := store.CachePortfolio(ctx, p, 0); err != nil {
		t.Fatalf("CachePortfolio() error = %v", err)
	}

	got, err := store.CachedPortfolio(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Portfolio.Title != "Brand identity v2" {
		t.Errorf("Title = %q", got.Portfolio.Title)
	}
	if got.HitCount != 0 {
		t.Errorf("HitCount = %d, want 0 before this read is counted", got.HitCount)
	}
}
