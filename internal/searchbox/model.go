// Package searchbox implements the incremental search input: a text field
// with debounced autocomplete suggestions that commits a full search on
// Enter and navigates to the results view.
package searchbox

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/runger/folio/internal/api"
	folog "github.com/runger/folio/internal/log"
	"github.com/runger/folio/internal/router"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultDebounce       = 500 * time.Millisecond
	DefaultSuggestTimeout = 2 * time.Second
	DefaultSearchTimeout  = 5 * time.Second
	DefaultMaxSuggestions = 10
)

// recordTimeout bounds a history write after a commit.
const recordTimeout = 2 * time.Second

// State is the position of the box in its state machine.
type State int

const (
	StateIdle             State = iota // Query empty
	StateTyping                        // Query non-empty, fetch pending or in flight
	StateSuggestionsShown              // Suggestions resolved for the current query
	StateCommitting                    // Full search in flight
	StateCommitted                     // Navigation triggered
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTyping:
		return "typing"
	case StateSuggestionsShown:
		return "suggestions"
	case StateCommitting:
		return "committing"
	case StateCommitted:
		return "committed"
	}
	return "unknown"
}

// nextBoxID gives every box its own message namespace so that ticks and
// fetch results from a disposed box never reach its replacement.
var nextBoxID atomic.Uint64

// debounceMsg fires after the debounce window.
type debounceMsg struct {
	box uint64
	id  uint64 // Must match debounceID to be accepted
}

// suggestionsMsg carries the result of a suggestion lookup.
type suggestionsMsg struct {
	box       uint64
	requestID uint64
	query     string
	items     []string
	err       error
}

// searchDoneMsg carries the result of a committed search.
type searchDoneMsg struct {
	box      uint64
	searchID uint64
	query    string
	items    []api.Portfolio
	err      error
}

// Options configures a Model.
type Options struct {
	Debounce          time.Duration
	SuggestTimeout    time.Duration
	SearchTimeout     time.Duration
	RejectEmptyCommit bool
	MaxSuggestions    int
	Width             int
	Placeholder       string

	// Recorder is optional.
	Recorder Recorder
	Logger   *slog.Logger
}

// Model is the search box component. It is embedded by the views that
// show it and updated through Update like bubbles components.
type Model struct {
	id    uint64
	input textinput.Model
	query string // Exact query; the input may display a sanitized copy
	state State
	opts  Options

	suggester Suggester
	searcher  Searcher
	store     StateWriter
	logger    *slog.Logger

	suggestions    []string
	suggestionsFor string // Query the suggestions were fetched for
	highlight      int    // Index into visible suggestions; -1 when none

	errMsg  string
	lastErr error

	debounceID uint64
	requestID  uint64
	searchID   uint64

	cancelFetch  context.CancelFunc
	cancelSearch context.CancelFunc

	disposed bool
}

// New creates a search box.
func New(suggester Suggester, searcher Searcher, store StateWriter, opts Options) Model {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.SuggestTimeout <= 0 {
		opts.SuggestTimeout = DefaultSuggestTimeout
	}
	if opts.SearchTimeout <= 0 {
		opts.SearchTimeout = DefaultSearchTimeout
	}
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = DefaultMaxSuggestions
	}
	if opts.Placeholder == "" {
		opts.Placeholder = "Search portfolios"
	}
	logger := opts.Logger
	if logger == nil {
		logger = folog.Discard()
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle
	ti.Placeholder = opts.Placeholder
	ti.CharLimit = 0
	if opts.Width > 4 {
		ti.Width = opts.Width - 4
	}

	return Model{
		id:        nextBoxID.Add(1),
		input:     ti,
		state:     StateIdle,
		opts:      opts,
		suggester: suggester,
		searcher:  searcher,
		store:     store,
		logger:    logger,
		highlight: -1,
	}
}

// Query returns the current input text.
func (m Model) Query() string { return m.query }

// State returns the current state.
func (m Model) State() State { return m.state }

// ErrorMessage returns the text shown under the input, or "".
func (m Model) ErrorMessage() string { return m.errMsg }

// Err returns the error behind ErrorMessage, if any.
func (m Model) Err() error { return m.lastErr }

// Focused reports whether the box receives key input.
func (m Model) Focused() bool { return m.input.Focused() }

// Disposed reports whether Dispose has been called.
func (m Model) Disposed() bool { return m.disposed }

// Focus gives the box keyboard focus.
func (m *Model) Focus() tea.Cmd { return m.input.Focus() }

// Blur removes keyboard focus.
func (m *Model) Blur() { m.input.Blur() }

// SetWidth resizes the input.
func (m *Model) SetWidth(w int) {
	m.opts.Width = w
	if w > 4 {
		m.input.Width = w - 4
	}
}

// VisibleSuggestions returns the suggestions to display. The list is only
// shown when the query is non-empty and the suggestions were fetched for
// exactly that query.
func (m Model) VisibleSuggestions() []string {
	q := m.Query()
	if q == "" || len(m.suggestions) == 0 || m.suggestionsFor != q {
		return nil
	}
	return m.suggestions
}

// Highlighted returns the highlighted suggestion index, or -1.
func (m Model) Highlighted() int { return m.highlight }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key input and the box's own async messages. Messages that
// belong to another box, or arrive after Dispose, are ignored.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.disposed {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.input.Focused() {
			return m, nil
		}
		return m.handleKey(msg)

	case debounceMsg:
		if msg.box != m.id {
			return m, nil
		}
		return m.handleDebounce(msg)

	case suggestionsMsg:
		if msg.box != m.id {
			return m, nil
		}
		return m.handleSuggestions(msg)

	case searchDoneMsg:
		if msg.box != m.id {
			return m, nil
		}
		return m.handleSearchDone(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m, m.Commit()

	case tea.KeyUp:
		if visible := m.VisibleSuggestions(); len(visible) > 0 {
			if m.highlight > 0 {
				m.highlight--
			} else {
				m.highlight = -1
			}
		}
		return m, nil

	case tea.KeyDown:
		if visible := m.VisibleSuggestions(); len(visible) > 0 && m.highlight < len(visible)-1 {
			m.highlight++
		}
		return m, nil

	case tea.KeyTab:
		if text, ok := m.highlightedText(); ok {
			return m, m.SelectSuggestion(text)
		}
		return m, nil

	case tea.KeyRight:
		if text, ok := m.highlightedText(); ok && m.input.Position() >= len([]rune(m.input.Value())) {
			return m, m.SelectSuggestion(text)
		}
	}

	before := m.input.Value()
	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.query = after
		return m, tea.Batch(inputCmd, m.changed())
	}
	return m, inputCmd
}

func (m Model) highlightedText() (string, bool) {
	visible := m.VisibleSuggestions()
	if m.highlight < 0 || m.highlight >= len(visible) {
		return "", false
	}
	return visible[m.highlight], true
}

// InputChanged replaces the query with text as if the user typed it. It
// clears the error message and reschedules the suggestion fetch.
func (m *Model) InputChanged(text string) tea.Cmd {
	if m.disposed {
		return nil
	}
	m.query = text
	m.input.SetValue(text)
	m.input.CursorEnd()
	return m.changed()
}

// SelectSuggestion sets the query to text. It neither commits nor
// navigates.
func (m *Model) SelectSuggestion(text string) tea.Cmd {
	m.logger.Debug("suggestion selected", "text", text)
	return m.InputChanged(text)
}

// changed runs after every query edit.
func (m *Model) changed() tea.Cmd {
	m.errMsg = ""
	m.lastErr = nil
	m.highlight = -1
	if m.state == StateCommitting {
		// An edit supersedes the in-flight search.
		m.cancelSearchInflight()
		m.searchID++
	}
	if m.Query() == "" {
		m.state = StateIdle
	} else {
		m.state = StateTyping
	}
	return m.startDebounce()
}

// startDebounce invalidates any pending tick and schedules a new one.
func (m *Model) startDebounce() tea.Cmd {
	m.debounceID++
	id := m.debounceID
	box := m.id
	return tea.Tick(m.opts.Debounce, func(time.Time) tea.Msg {
		return debounceMsg{box: box, id: id}
	})
}

// handleDebounce fetches suggestions for the query at firing time if the
// tick is still current.
func (m Model) handleDebounce(msg debounceMsg) (Model, tea.Cmd) {
	if msg.id != m.debounceID {
		return m, nil
	}
	if m.state == StateCommitting || m.state == StateCommitted {
		return m, nil
	}
	if m.Query() == "" {
		m.cancelInflight()
		m.suggestions = nil
		m.suggestionsFor = ""
		return m, nil
	}
	return m, m.startFetch()
}

// startFetch cancels any in-flight lookup and issues a new one tagged with
// its request id and query.
func (m *Model) startFetch() tea.Cmd {
	m.cancelInflight()
	m.requestID++

	reqID := m.requestID
	box := m.id
	query := m.Query()
	ctx, cancel := context.WithTimeout(context.Background(), m.opts.SuggestTimeout)
	m.cancelFetch = cancel

	s := m.suggester
	return func() tea.Msg {
		defer cancel()
		items, err := s.Suggest(ctx, 1, query)
		return suggestionsMsg{box: box, requestID: reqID, query: query, items: items, err: err}
	}
}

func (m Model) handleSuggestions(msg suggestionsMsg) (Model, tea.Cmd) {
	if msg.requestID != m.requestID || msg.query != m.Query() {
		m.logger.Debug("discarding stale suggestions", "query", msg.query, "current", m.Query())
		return m, nil
	}
	m.cancelFetch = nil
	if m.state == StateCommitting || m.state == StateCommitted {
		return m, nil
	}

	if msg.err != nil {
		err := &SuggestionFetchError{Query: msg.query, Err: msg.err}
		if !errors.Is(msg.err, context.Canceled) {
			m.logger.Warn("suggestion fetch failed", "error", err)
		}
		m.suggestions = nil
		m.suggestionsFor = ""
		m.state = StateTyping
		return m, nil
	}

	items := msg.items
	if len(items) > m.opts.MaxSuggestions {
		items = items[:m.opts.MaxSuggestions]
	}
	m.suggestions = items
	m.suggestionsFor = msg.query
	m.highlight = -1
	if len(items) > 0 {
		m.state = StateSuggestionsShown
	} else {
		m.state = StateTyping
	}
	return m, nil
}

// Commit runs a full search for the current query, bypassing the debounce
// and any in-flight suggestion lookup.
func (m *Model) Commit() tea.Cmd {
	if m.disposed || m.state == StateCommitting {
		return nil
	}

	// Pending ticks and lookups are superseded by the commit.
	m.debounceID++
	m.cancelInflight()
	m.requestID++

	query := m.Query()
	if strings.TrimSpace(query) == "" && m.opts.RejectEmptyCommit {
		m.lastErr = ErrEmptyQuery
		m.errMsg = "Enter a search term"
		return nil
	}

	m.errMsg = ""
	m.lastErr = nil
	m.state = StateCommitting
	m.searchID++

	id := m.searchID
	box := m.id
	ctx, cancel := context.WithTimeout(context.Background(), m.opts.SearchTimeout)
	m.cancelSearch = cancel

	m.logger.Debug("search committed", "query", query)

	s := m.searcher
	return func() tea.Msg {
		defer cancel()
		items, err := s.SearchPage(ctx, 1, query)
		return searchDoneMsg{box: box, searchID: id, query: query, items: items, err: err}
	}
}

func (m Model) handleSearchDone(msg searchDoneMsg) (Model, tea.Cmd) {
	if msg.searchID != m.searchID {
		return m, nil
	}
	m.cancelSearch = nil

	if msg.err != nil {
		err := &FullSearchError{Query: msg.query, Err: msg.err}
		m.logger.Error("search failed", "error", err)
		m.lastErr = err
		m.errMsg = "Search failed: " + msg.err.Error()
		switch {
		case m.Query() == "":
			m.state = StateIdle
		case len(m.VisibleSuggestions()) > 0:
			m.state = StateSuggestionsShown
		default:
			m.state = StateTyping
		}
		return m, nil
	}

	m.store.CommitSearch(msg.query, msg.items)
	m.state = StateCommitted
	m.suggestions = nil
	m.suggestionsFor = ""
	m.highlight = -1

	cmds := []tea.Cmd{router.Navigate(router.PathSearchResults)}
	if rec := m.opts.Recorder; rec != nil && msg.query != "" {
		query, count, logger := msg.query, len(msg.items), m.logger
		cmds = append(cmds, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
			defer cancel()
			if err := rec.RecordSearch(ctx, query, count); err != nil {
				logger.Warn("record search failed", "error", err)
			}
			return nil
		})
	}
	return m, tea.Batch(cmds...)
}

// Dispose cancels pending work. The box ignores every message afterwards.
func (m *Model) Dispose() {
	if m.disposed {
		return
	}
	m.disposed = true
	m.debounceID++
	m.cancelInflight()
	m.cancelSearchInflight()
	m.input.Blur()
}

func (m *Model) cancelInflight() {
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
}

func (m *Model) cancelSearchInflight() {
	if m.cancelSearch != nil {
		m.cancelSearch()
		m.cancelSearch = nil
	}
}

// --- View rendering ---

var (
	promptStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	suggestionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	highlightedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the input line, an error line and the suggestion list.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())

	if m.state == StateCommitting {
		b.WriteRune('\n')
		b.WriteString(dimStyle.Render("Searching..."))
	}

	if m.errMsg != "" {
		b.WriteRune('\n')
		b.WriteString(errorStyle.Render(m.errMsg))
	}

	for i, s := range m.VisibleSuggestions() {
		display := Clean(s)
		if m.opts.Width > 4 {
			display = MiddleTruncate(display, m.opts.Width-4)
		}
		b.WriteRune('\n')
		if i == m.highlight {
			b.WriteString(highlightedStyle.Render("> " + display))
		} else {
			b.WriteString(suggestionStyle.Render("  " + display))
		}
	}
	return b.String()
}
