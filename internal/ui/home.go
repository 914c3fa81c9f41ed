package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/runger/folio/internal/api"
	"github.com/runger/folio/internal/router"
)

// categoryButton is one entry point on the home view.
type categoryButton struct {
	Label    string
	Category string
}

var categoryButtons = []categoryButton{
	{Label: "Developer", Category: api.CategoryDevelop},
	{Label: "Designer", Category: api.CategoryDesign},
	{Label: "Photographer", Category: api.CategoryPhotographer},
}

type homeFocus int

const (
	focusButtons homeFocus = iota
	focusLatest
)

type latestLoadedMsg struct {
	view  uint64
	items []api.Portfolio
	err   error
}

type homeView struct {
	boxArea
	deps *Deps
	id   uint64

	focus     homeFocus
	button    int
	latest    []api.Portfolio
	selection int
	loading   bool
	err       error

	width  int
	height int
}

func newHomeView(deps *Deps, id uint64) *homeView {
	return &homeView{
		boxArea: boxArea{box: deps.newSearchBox(0)},
		deps:    deps,
		id:      id,
		loading: true,
	}
}

func (v *homeView) Init() tea.Cmd {
	id := v.id
	d := v.deps
	n, pageSize := d.Config.UI.LatestCount, d.Config.UI.PageSize
	return func() tea.Msg {
		ctx, cancel := d.apiContext()
		defer cancel()
		items, err := d.API.Latest(ctx, api.CategoryAll, n, pageSize)
		return latestLoadedMsg{view: id, items: items, err: err}
	}
}

func (v *homeView) SetSize(width, height int) {
	v.width, v.height = width, height
	v.box.SetWidth(width)
}

func (v *homeView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case latestLoadedMsg:
		if msg.view != v.id {
			return nil
		}
		v.loading = false
		v.latest, v.err = msg.items, msg.err
		if msg.err != nil {
			v.deps.Logger.Warn("load latest portfolios failed", "error", msg.err)
		}
		return nil

	case tea.KeyMsg:
		if consumed, cmd := v.updateBox(msg); consumed {
			return cmd
		}
		return v.handleKey(msg)
	}

	_, cmd := v.updateBox(msg)
	return cmd
}

func (v *homeView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "/":
		return v.focusBox()
	case "1", "2", "3":
		return v.choose(int(msg.String()[0] - '1'))
	case "left", "h":
		if v.focus == focusButtons && v.button > 0 {
			v.button--
		}
	case "right", "l":
		if v.focus == focusButtons && v.button < len(categoryButtons)-1 {
			v.button++
		}
	case "down", "j":
		switch {
		case v.focus == focusButtons && len(v.latest) > 0:
			v.focus = focusLatest
			v.selection = 0
		case v.focus == focusLatest && v.selection < len(v.latest)-1:
			v.selection++
		}
	case "up", "k":
		if v.focus == focusLatest {
			if v.selection > 0 {
				v.selection--
			} else {
				v.focus = focusButtons
			}
		}
	case "enter":
		if v.focus == focusButtons {
			return v.choose(v.button)
		}
		if v.selection >= 0 && v.selection < len(v.latest) {
			return router.Navigate(router.DetailPath(v.latest[v.selection].ID))
		}
	}
	return nil
}

// choose selects a category and opens its listing.
func (v *homeView) choose(i int) tea.Cmd {
	if i < 0 || i >= len(categoryButtons) {
		return nil
	}
	cat := categoryButtons[i].Category
	s := v.deps.Store
	s.SetCategory(cat)
	s.SetSelectedCategory(cat)
	s.SetFilter(api.FilterAll)
	s.SetSelectedHeader(false)
	return router.Navigate(router.PathMain)
}

func (v *homeView) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Share your work. Find your next collaborator."))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Portfolios from developers, designers and photographers."))
	b.WriteString("\n\n")

	var buttons []string
	for i, btn := range categoryButtons {
		label := " " + btn.Label + " "
		if v.focus == focusButtons && i == v.button {
			buttons = append(buttons, activeStyle.Render(label))
		} else {
			buttons = append(buttons, inactiveStyle.Render(label))
		}
	}
	b.WriteString(strings.Join(buttons, " "))
	b.WriteString("\n\n")

	b.WriteString(v.box.View())
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("Latest"))
	b.WriteString("\n")
	switch {
	case v.loading:
		b.WriteString(dimStyle.Render("Loading..."))
	case v.err != nil:
		b.WriteString(errorStyle.Render("Could not load latest portfolios: " + v.err.Error()))
	default:
		sel := -1
		if v.focus == focusLatest {
			sel = v.selection
		}
		b.WriteString(renderList(v.latest, sel, v.width, 0))
	}
	return b.String()
}
