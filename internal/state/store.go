// Package state holds application state shared between views. It is
// constructed once and injected; nothing in it is package-global.
package state

import (
	"sync"

	"github.com/runger/folio/internal/api"
)

// Slice names passed to subscribers.
const (
	SlicePortfolioData    = "portfolioData"
	SliceSearchTerm       = "searchTerm"
	SliceCategory         = "category"
	SliceFilter           = "filter"
	SliceSelectedCategory = "selectedCategory"
	SliceSelectedHeader   = "selectedHeader"
)

// Listener is called after a slice changes.
type Listener func(slice string)

// Snapshot is a point-in-time copy of every slice.
type Snapshot struct {
	PortfolioData    []api.Portfolio
	SearchTerm       string
	Category         string
	Filter           string
	SelectedCategory string
	SelectedHeader   bool
}

// Store is the shared state container. Writers are last-writer-wins.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int
}

// NewStore returns a store with the default category and filter selected.
func NewStore() *Store {
	return &Store{
		snap: Snapshot{
			Category:         api.CategoryAll,
			Filter:           api.FilterAll,
			SelectedCategory: api.CategoryAll,
		},
		listeners: make(map[int]Listener),
	}
}

// PortfolioData returns a copy of the last committed search results.
func (s *Store) PortfolioData() []api.Portfolio {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]api.Portfolio(nil), s.snap.PortfolioData...)
}

// SetPortfolioData replaces the committed search results.
func (s *Store) SetPortfolioData(items []api.Portfolio) {
	s.mu.Lock()
	s.snap.PortfolioData = append([]api.Portfolio(nil), items...)
	s.mu.Unlock()
	s.notify(SlicePortfolioData)
}

// SearchTerm returns the last committed search term.
func (s *Store) SearchTerm() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.SearchTerm
}

// SetSearchTerm records the last committed search term.
func (s *Store) SetSearchTerm(term string) {
	s.setString(&s.snap.SearchTerm, term, SliceSearchTerm)
}

// Category returns the category used for listings.
func (s *Store) Category() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Category
}

// SetCategory sets the category used for listings.
func (s *Store) SetCategory(category string) {
	s.setString(&s.snap.Category, category, SliceCategory)
}

// Filter returns the listing sub filter.
func (s *Store) Filter() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Filter
}

// SetFilter sets the listing sub filter.
func (s *Store) SetFilter(filter string) {
	s.setString(&s.snap.Filter, filter, SliceFilter)
}

// SelectedCategory returns the highlighted category in navigation.
func (s *Store) SelectedCategory() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.SelectedCategory
}

// SetSelectedCategory sets the highlighted category in navigation.
func (s *Store) SetSelectedCategory(category string) {
	s.setString(&s.snap.SelectedCategory, category, SliceSelectedCategory)
}

// SelectedHeader reports whether a header menu entry is active.
func (s *Store) SelectedHeader() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.SelectedHeader
}

// SetSelectedHeader sets whether a header menu entry is active.
func (s *Store) SetSelectedHeader(v bool) {
	s.mu.Lock()
	s.snap.SelectedHeader = v
	s.mu.Unlock()
	s.notify(SliceSelectedHeader)
}

// CommitSearch writes the results and the term that produced them.
// Listeners fire only after both are in place.
func (s *Store) CommitSearch(term string, items []api.Portfolio) {
	s.mu.Lock()
	s.snap.PortfolioData = append([]api.Portfolio(nil), items...)
	s.snap.SearchTerm = term
	s.mu.Unlock()
	s.notify(SlicePortfolioData)
	s.notify(SliceSearchTerm)
}

// Snapshot returns a copy of all slices.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snap
	snap.PortfolioData = append([]api.Portfolio(nil), s.snap.PortfolioData...)
	return snap
}

// Subscribe registers fn for change notifications and returns a function
// that removes it. Listeners run synchronously on the writer's goroutine.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *Store) setString(field *string, v, slice string) {
	s.mu.Lock()
	*field = v
	s.mu.Unlock()
	s.notify(slice)
}

func (s *Store) notify(slice string) {
	s.listenersMu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn(slice)
	}
}
