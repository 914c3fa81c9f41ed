// Package ui is the interactive portfolio browser: a Bubble Tea root model
// that routes between the home, category, search results and detail views.
package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/runger/folio/internal/router"
)

// App is the root Bubble Tea model.
type App struct {
	deps    *Deps
	history *router.History
	current view
	seq     uint64 // Mount counter; tags async view messages

	width  int
	height int
}

// New creates the application positioned at the home view.
func New(deps Deps) App {
	deps.withDefaults()
	home := router.Location{Path: router.PathHome, Route: router.RouteHome}
	a := App{
		deps:    &deps,
		history: router.NewHistory(home),
	}
	a.current = a.build(home)
	return a
}

// Location returns the current location.
func (a App) Location() router.Location { return a.history.Current() }

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return a.current.Init()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.current.SetSize(a.width, a.height)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			a.current.dispose()
			return a, tea.Quit
		}
		if !a.current.capturesInput() {
			switch msg.String() {
			case "q":
				a.current.dispose()
				return a, tea.Quit
			case "esc", "backspace":
				return a, router.Back()
			}
		}

	case router.NavigateMsg:
		a.deps.Logger.Debug("navigate", "path", msg.Location.Path)
		a.history.Push(msg.Location)
		return a, a.mount(msg.Location)

	case router.BackMsg:
		loc, ok := a.history.Back()
		if !ok {
			return a, nil
		}
		return a, a.mount(loc)
	}

	return a, a.current.Update(msg)
}

// mount replaces the current view, disposing the old one.
func (a *App) mount(loc router.Location) tea.Cmd {
	a.current.dispose()
	a.current = a.build(loc)
	return a.current.Init()
}

func (a *App) build(loc router.Location) view {
	a.seq++
	var v view
	switch loc.Route {
	case router.RouteMain:
		v = newMainView(a.deps, a.seq)
	case router.RouteSearchResults:
		v = newResultsView(a.deps, a.seq)
	case router.RouteDetail:
		v = newDetailView(a.deps, a.seq, loc.ID)
	default:
		v = newHomeView(a.deps, a.seq)
	}
	v.SetSize(a.width, a.height)
	return v
}

// View implements tea.Model.
func (a App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("folio"))
	b.WriteString(dimStyle.Render("  " + a.history.Current().Path))
	b.WriteString("\n\n")
	b.WriteString(a.current.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(a.help()))
	return b.String()
}

func (a App) help() string {
	if a.current.capturesInput() {
		return "enter search · ↑/↓ suggestions · tab select · esc leave search · ctrl+c quit"
	}
	if a.history.Len() > 1 {
		return "/ search · esc back · q quit"
	}
	return "/ search · q quit"
}
