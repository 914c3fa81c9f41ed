package ui

import (
	"context"
	"log/slog"
	"time"

	"github.com/runger/folio/internal/api"
	"github.com/runger/folio/internal/config"
	folog "github.com/runger/folio/internal/log"
	"github.com/runger/folio/internal/searchbox"
	"github.com/runger/folio/internal/state"
	"github.com/runger/folio/internal/storage"
)

// Portfolios is the part of the API client the views use.
type Portfolios interface {
	searchbox.Suggester
	searchbox.Searcher
	Latest(ctx context.Context, category string, n, pageSize int) ([]api.Portfolio, error)
	LastID(ctx context.Context, category string) (int64, error)
	List(ctx context.Context, q api.ListQuery) ([]api.Portfolio, error)
	Get(ctx context.Context, id int64) (api.Portfolio, error)
}

// PortfolioCache keeps offline copies of viewed portfolios.
type PortfolioCache interface {
	CachePortfolio(ctx context.Context, p api.Portfolio, ttl time.Duration) error
	CachedPortfolio(ctx context.Context, id int64) (*storage.CacheEntry, error)
}

// URLOpener opens a link outside the terminal.
type URLOpener interface {
	Open(ctx context.Context, rawURL string) error
}

// Deps are the collaborators shared by every view. API, Store and Config
// are required.
type Deps struct {
	API    Portfolios
	Store  *state.Store
	Config *config.Config
	Logger *slog.Logger

	// Optional.
	Opener   URLOpener
	Recorder searchbox.Recorder
	Cache    PortfolioCache
}

func (d *Deps) withDefaults() {
	if d.Logger == nil {
		d.Logger = folog.Discard()
	}
	if d.Config == nil {
		d.Config = config.DefaultConfig()
	}
	if d.Store == nil {
		d.Store = state.NewStore()
	}
}

// apiContext bounds a single API call by api.timeout_ms.
func (d *Deps) apiContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d.Config.API.Timeout())
}

// newSearchBox builds a fresh search box for a mounted view.
func (d *Deps) newSearchBox(width int) searchbox.Model {
	s := d.Config.Search
	return searchbox.New(d.API, d.API, d.Store, searchbox.Options{
		Debounce:          s.Debounce(),
		SuggestTimeout:    s.SuggestTimeout(),
		SearchTimeout:     s.SearchTimeout(),
		RejectEmptyCommit: s.RejectEmptyCommit,
		MaxSuggestions:    s.MaxSuggestions,
		Width:             width,
		Recorder:          d.Recorder,
		Logger:            d.Logger,
	})
}
