package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/runger/folio/internal/router"
)

// resultsView shows the last committed search from the shared store.
type resultsView struct {
	boxArea
	deps *Deps
	id   uint64

	selection int
	width     int
	height    int

	unsubscribe func()
	changed     bool // Store changed since the last update
}

func newResultsView(deps *Deps, id uint64) *resultsView {
	v := &resultsView{
		boxArea: boxArea{box: deps.newSearchBox(0)},
		deps:    deps,
		id:      id,
	}
	v.unsubscribe = deps.Store.Subscribe(func(string) { v.changed = true })
	return v
}

func (v *resultsView) Init() tea.Cmd { return nil }

func (v *resultsView) SetSize(width, height int) {
	v.width, v.height = width, height
	v.box.SetWidth(width)
}

func (v *resultsView) Update(msg tea.Msg) tea.Cmd {
	v.syncSelection()
	defer v.syncSelection()

	if key, ok := msg.(tea.KeyMsg); ok {
		if consumed, cmd := v.updateBox(key); consumed {
			return cmd
		}
		return v.handleKey(key)
	}
	_, cmd := v.updateBox(msg)
	return cmd
}

// syncSelection moves the cursor back to the top once new results land.
func (v *resultsView) syncSelection() {
	if !v.changed {
		return
	}
	v.changed = false
	v.selection = 0
}

func (v *resultsView) handleKey(msg tea.KeyMsg) tea.Cmd {
	items := v.deps.Store.PortfolioData()
	switch msg.String() {
	case "/":
		return v.focusBox()
	case "down", "j":
		if v.selection < len(items)-1 {
			v.selection++
		}
	case "up", "k":
		if v.selection > 0 {
			v.selection--
		}
	case "enter":
		if v.selection >= 0 && v.selection < len(items) {
			return router.Navigate(router.DetailPath(items[v.selection].ID))
		}
	}
	return nil
}

func (v *resultsView) dispose() {
	v.boxArea.dispose()
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
}

func (v *resultsView) View() string {
	snap := v.deps.Store.Snapshot()

	var b strings.Builder
	b.WriteString(v.box.View())
	b.WriteString("\n\n")

	term := snap.SearchTerm
	if term == "" {
		term = "everything"
	} else {
		term = fmt.Sprintf("%q", term)
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("Results for %s", term)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  (%d)", len(snap.PortfolioData))))
	b.WriteString("\n")
	b.WriteString(renderList(snap.PortfolioData, v.selection, v.width, v.listHeight()))
	return b.String()
}

func (v *resultsView) listHeight() int {
	const chrome = 10
	h := v.height - chrome
	if v.height == 0 || h < 3 {
		return 0
	}
	return h
}
