// Package storage provides SQLite-based persistent storage for folio.
// It keeps the committed search history and an offline copy of viewed
// portfolios.
package storage

import (
	"context"
	"time"

	"github.com/runger/folio/internal/api"
)

// Store defines the interface for all storage operations.
type Store interface {
	// Search history
	RecordSearch(ctx context.Context, term string, resultCount int) error
	RecentSearches(ctx context.Context, limit int) ([]SearchEntry, error)
	ClearSearches(ctx context.Context) (int64, error)
	Prune(ctx context.Context, maxEntries int) (int64, error)

	// Portfolio cache
	CachePortfolio(ctx context.Context, p api.Portfolio, ttl time.Duration) error
	CachedPortfolio(ctx context.Context, id int64) (*CacheEntry, error)
	PruneExpiredCache(ctx context.Context) (int64, error)
	GetCacheStats(ctx context.Context) (*CacheStats, error)

	// Lifecycle
	Close() error
}

// SearchEntry is one distinct committed search term.
type SearchEntry struct {
	Term        string
	ResultCount int
	Count       int // How many times the term was committed
	LastUnixMs  int64
	FirstUnixMs int64
}

// LastSearched returns the time of the latest commit.
func (e SearchEntry) LastSearched() time.Time {
	return time.UnixMilli(e.LastUnixMs)
}

// CacheEntry is a cached portfolio payload.
type CacheEntry struct {
	Portfolio       api.Portfolio
	CreatedAtUnixMs int64
	ExpiresAtUnixMs int64
	HitCount        int64
}

// CachedAt returns when the entry was written.
func (e CacheEntry) CachedAt() time.Time {
	return time.UnixMilli(e.CreatedAtUnixMs)
}
