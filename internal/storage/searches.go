package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// defaultRecentLimit applies when RecentSearches is called with limit <= 0.
const defaultRecentLimit = 20

// ErrEmptyTerm is returned when recording a blank search term.
var ErrEmptyTerm = errors.New("search term is required")

// RecordSearch stores a committed search term. Repeated terms update the
// existing row: the count is incremented and the last result count and
// time are replaced.
func (s *SQLiteStore) RecordSearch(ctx context.Context, term string, resultCount int) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return ErrEmptyTerm
	}
	now := s.now().UnixMilli()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO searches (term, result_count, search_count, first_unix_ms, last_unix_ms)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT(term) DO UPDATE SET
			result_count = excluded.result_count,
			search_count = search_count + 1,
			last_unix_ms = excluded.last_unix_ms
	`, term, resultCount, now, now)
	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

// RecentSearches returns up to limit distinct terms, newest first.
func (s *SQLiteStore) RecentSearches(ctx context.Context, limit int) ([]SearchEntry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT term, result_count, search_count, first_unix_ms, last_unix_ms
		FROM searches
		ORDER BY last_unix_ms DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query searches: %w", err)
	}
	defer rows.Close()

	var entries []SearchEntry
	for rows.Next() {
		var e SearchEntry
		if err := rows.Scan(&e.Term, &e.ResultCount, &e.Count, &e.FirstUnixMs, &e.LastUnixMs); err != nil {
			return nil, fmt.Errorf("failed to scan search: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate searches: %w", err)
	}
	return entries, nil
}

// ClearSearches deletes the whole search history and returns the number of
// removed terms.
func (s *SQLiteStore) ClearSearches(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM searches`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear searches: %w", err)
	}
	return result.RowsAffected()
}

// Prune keeps the newest maxEntries terms and deletes the rest. A
// maxEntries of zero or less disables pruning.
func (s *SQLiteStore) Prune(ctx context.Context, maxEntries int) (int64, error) {
	if maxEntries <= 0 {
		return 0, nil
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM searches WHERE term NOT IN (
			SELECT term FROM searches
			ORDER BY last_unix_ms DESC, rowid DESC
			LIMIT ?
		)
	`, maxEntries)
	if err != nil {
		return 0, fmt.Errorf("failed to prune searches: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
