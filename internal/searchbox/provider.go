package searchbox

import (
	"context"

	"github.com/runger/folio/internal/api"
)

// Suggester returns lightweight autocomplete candidates for a query.
type Suggester interface {
	Suggest(ctx context.Context, page int, query string) ([]string, error)
}

// Searcher runs a full search for a committed query.
type Searcher interface {
	SearchPage(ctx context.Context, page int, query string) ([]api.Portfolio, error)
}

// StateWriter receives committed search results.
type StateWriter interface {
	CommitSearch(term string, items []api.Portfolio)
}

// Recorder persists committed search terms. It is optional.
type Recorder interface {
	RecordSearch(ctx context.Context, term string, resultCount int) error
}
