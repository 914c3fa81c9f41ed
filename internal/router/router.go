// Package router maps view paths to screens and keeps a back stack.
package router

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Route names.
const (
	RouteHome          = "home"
	RouteMain          = "main"
	RouteDetail        = "detail"
	RouteSearchResults = "searchresults"
)

// Paths.
const (
	PathHome          = "/"
	PathMain          = "/main"
	PathSearchResults = "/searchresults"
)

// Location is a matched path.
type Location struct {
	Path  string
	Route string
	// ID is set for detail routes.
	ID int64
}

// NavigateMsg asks the application to switch to a new location.
type NavigateMsg struct {
	Location Location
}

// BackMsg asks the application to return to the previous location.
type BackMsg struct{}

// DetailPath returns the path of a portfolio detail view.
func DetailPath(id int64) string {
	return "/detail/" + strconv.FormatInt(id, 10)
}

// Match resolves a path to a Location.
func Match(path string) (Location, error) {
	clean := "/" + strings.Trim(path, "/")
	switch {
	case clean == PathHome:
		return Location{Path: clean, Route: RouteHome}, nil
	case clean == PathMain:
		return Location{Path: clean, Route: RouteMain}, nil
	case clean == PathSearchResults:
		return Location{Path: clean, Route: RouteSearchResults}, nil
	case strings.HasPrefix(clean, "/detail/"):
		raw := strings.TrimPrefix(clean, "/detail/")
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 0 {
			return Location{}, fmt.Errorf("invalid portfolio id %q", raw)
		}
		return Location{Path: clean, Route: RouteDetail, ID: id}, nil
	}
	return Location{}, fmt.Errorf("no route for %q", path)
}

// Navigate returns a command that emits a NavigateMsg for path. Unknown
// paths resolve to home.
func Navigate(path string) tea.Cmd {
	loc, err := Match(path)
	if err != nil {
		loc = Location{Path: PathHome, Route: RouteHome}
	}
	return func() tea.Msg {
		return NavigateMsg{Location: loc}
	}
}

// Back returns a command that emits a BackMsg.
func Back() tea.Cmd {
	return func() tea.Msg { return BackMsg{} }
}

// History is a back stack of visited locations.
type History struct {
	stack []Location
}

// NewHistory returns a history positioned at start.
func NewHistory(start Location) *History {
	return &History{stack: []Location{start}}
}

// Push makes loc current. Pushing the current path again is a no-op.
func (h *History) Push(loc Location) {
	if len(h.stack) > 0 && h.stack[len(h.stack)-1].Path == loc.Path {
		return
	}
	h.stack = append(h.stack, loc)
}

// Back pops the current location and returns the new current one. It
// reports false when already at the root.
func (h *History) Back() (Location, bool) {
	if len(h.stack) <= 1 {
		return h.Current(), false
	}
	h.stack = h.stack[:len(h.stack)-1]
	return h.Current(), true
}

// Current returns the current location.
func (h *History) Current() Location {
	if len(h.stack) == 0 {
		return Location{Path: PathHome, Route: RouteHome}
	}
	return h.stack[len(h.stack)-1]
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.stack) }
