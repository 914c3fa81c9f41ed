package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/runger/folio/internal/api"
)

// ErrCacheNotFound is returned when a cache entry is not found.
var ErrCacheNotFound = errors.New("cache entry not found")

// defaultCacheTTL applies when CachePortfolio is called with ttl <= 0.
const defaultCacheTTL = 24 * time.Hour

// CachePortfolio stores or replaces the offline copy of p.
func (s *SQLiteStore) CachePortfolio(ctx context.Context, p api.Portfolio, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode portfolio %d: %w", p.ID, err)
	}

	now := s.now()
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO portfolio_cache (
			portfolio_id, payload_json, created_at_unix_ms, expires_at_unix_ms, hit_count
		) VALUES (?, ?, ?, ?, 0)
	`, p.ID, string(payload), now.UnixMilli(), now.Add(ttl).UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}
	return nil
}

// CachedPortfolio returns the offline copy of portfolio id.
// Returns ErrCacheNotFound if there is none or it has expired.
// If found, increments the hit count.
func (s *SQLiteStore) CachedPortfolio(ctx context.Context, id int64) (*CacheEntry, error) {
	now := s.now().UnixMilli()

	row := s.db.QueryRowContext(ctx, `
		SELECT payload_json, created_at_unix_ms, expires_at_unix_ms, hit_count
		FROM portfolio_cache
		WHERE portfolio_id = ? AND expires_at_unix_ms > ?
	`, id, now)

	var (
		entry   CacheEntry
		payload string
	)
	if err := row.Scan(&payload, &entry.CreatedAtUnixMs, &entry.ExpiresAtUnixMs, &entry.HitCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCacheNotFound
		}
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &entry.Portfolio); err != nil {
		return nil, fmt.Errorf("failed to decode cached portfolio %d: %w", id, err)
	}

	// Best-effort hit counting.
	_, _ = s.db.ExecContext(ctx, `
		UPDATE portfolio_cache SET hit_count = hit_count + 1 WHERE portfolio_id = ?
	`, id)

	return &entry, nil
}

// PruneExpiredCache removes all expired cache entries.
// Returns the number of entries removed.
func (s *SQLiteStore) PruneExpiredCache(ctx context.Context) (int64, error) {
	now := s.now().UnixMilli()

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM portfolio_cache WHERE expires_at_unix_ms <= ?
	`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to prune cache: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

// CacheStats summarizes the portfolio cache.
type CacheStats struct {
	TotalEntries   int64
	ExpiredEntries int64
	TotalHits      int64
}

// GetCacheStats retrieves cache statistics.
func (s *SQLiteStore) GetCacheStats(ctx context.Context) (*CacheStats, error) {
	now := s.now().UnixMilli()

	var stats CacheStats
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(hit_count), 0) FROM portfolio_cache
	`)
	if err := row.Scan(&stats.TotalEntries, &stats.TotalHits); err != nil {
		return nil, fmt.Errorf("failed to get cache stats: %w", err)
	}

	row = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM portfolio_cache WHERE expires_at_unix_ms <= ?
	`, now)
	if err := row.Scan(&stats.ExpiredEntries); err != nil {
		return nil, fmt.Errorf("failed to get expired count: %w", err)
	}

	return &stats, nil
}
