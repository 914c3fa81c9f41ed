package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runger/folio/internal/searchbox"
)

// view is one routed screen.
type view interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)

	// capturesInput reports whether key presses belong to a text field,
	// in which case global shortcuts are disabled.
	capturesInput() bool

	// dispose is called when the view is unmounted.
	dispose()
}

// boxArea embeds a search box in a view.
type boxArea struct {
	box searchbox.Model
}

// updateBox routes msg to the box. Focused key input is always consumed;
// Esc leaves the box. Non-key messages are forwarded so the box sees its
// ticks and fetch results.
func (a *boxArea) updateBox(msg tea.Msg) (consumed bool, cmd tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if !a.box.Focused() {
			return false, nil
		}
		if key.Type == tea.KeyEsc {
			a.box.Blur()
			return true, nil
		}
		a.box, cmd = a.box.Update(msg)
		return true, cmd
	}
	a.box, cmd = a.box.Update(msg)
	return false, cmd
}

func (a *boxArea) focusBox() tea.Cmd { return a.box.Focus() }

func (a *boxArea) capturesInput() bool { return a.box.Focused() }

func (a *boxArea) dispose() { a.box.Dispose() }
