package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/runger/folio/internal/api"
	"github.com/runger/folio/internal/router"
)

// mainCategories are the tabs of the category listing.
var mainCategories = []string{
	api.CategoryAll,
	api.CategoryDevelop,
	api.CategoryDesign,
	api.CategoryPhotographer,
}

type pageLoadedMsg struct {
	view  uint64
	gen   uint64 // Listing generation; bumped on category change
	items []api.Portfolio
	err   error
}

// mainView lists portfolios of the selected category, newest first,
// paginated by id cursor.
type mainView struct {
	boxArea
	deps *Deps
	id   uint64

	category  string
	gen       uint64
	items     []api.Portfolio
	selection int
	cursor    int64 // Next lastPortfolioId to request; -1 when exhausted
	loading   bool
	err       error

	width  int
	height int
}

func newMainView(deps *Deps, id uint64) *mainView {
	return &mainView{
		boxArea:  boxArea{box: deps.newSearchBox(0)},
		deps:     deps,
		id:       id,
		category: deps.Store.Category(),
	}
}

func (v *mainView) Init() tea.Cmd {
	return v.reload()
}

func (v *mainView) SetSize(width, height int) {
	v.width, v.height = width, height
	v.box.SetWidth(width)
}

// reload starts the listing from the newest portfolio.
func (v *mainView) reload() tea.Cmd {
	v.gen++
	v.items = nil
	v.selection = 0
	v.cursor = 0
	v.err = nil
	v.loading = true

	id, gen, d := v.id, v.gen, v.deps
	category, filter, size := v.category, d.Store.Filter(), d.Config.UI.PageSize
	return func() tea.Msg {
		ctx, cancel := d.apiContext()
		defer cancel()
		last, err := d.API.LastID(ctx, category)
		if err != nil {
			return pageLoadedMsg{view: id, gen: gen, err: err}
		}
		if last < 0 {
			return pageLoadedMsg{view: id, gen: gen, items: []api.Portfolio{}}
		}
		items, err := d.API.List(ctx, api.ListQuery{LastID: last, Size: size, Category: category, Filter: filter})
		return pageLoadedMsg{view: id, gen: gen, items: items, err: err}
	}
}

// loadMore requests the page after the last loaded item.
func (v *mainView) loadMore() tea.Cmd {
	if v.loading || v.cursor < 0 {
		return nil
	}
	v.loading = true

	id, gen, d := v.id, v.gen, v.deps
	q := api.ListQuery{
		LastID:   v.cursor,
		Size:     d.Config.UI.PageSize,
		Category: v.category,
		Filter:   d.Store.Filter(),
	}
	return func() tea.Msg {
		ctx, cancel := d.apiContext()
		defer cancel()
		items, err := d.API.List(ctx, q)
		return pageLoadedMsg{view: id, gen: gen, items: items, err: err}
	}
}

func (v *mainView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case pageLoadedMsg:
		if msg.view != v.id || msg.gen != v.gen {
			return nil
		}
		v.handlePage(msg)
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

func (v *mainView) handlePage(msg pageLoadedMsg) {
	v.loading = false
	if msg.err != nil {
		v.err = msg.err
		v.deps.Logger.Warn("load portfolios failed", "category", v.category, "error", msg.err)
		return
	}
	v.err = nil

	size := v.deps.Config.UI.PageSize
	if len(msg.items) == 0 {
		v.cursor = -1
		return
	}
	v.items = append(v.items, msg.items...)
	next := msg.items[len(msg.items)-1].ID - 1
	if len(msg.items) < size || next < 0 || (v.cursor > 0 && next >= v.cursor) {
		v.cursor = -1
	} else {
		v.cursor = next
	}
}

func (v *mainView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "/":
		return v.focusBox()
	case "tab":
		return v.switchCategory(1)
	case "shift+tab":
		return v.switchCategory(-1)
	case "n":
		return v.loadMore()
	case "r":
		return v.reload()
	case "down", "j":
		if v.selection < len(v.items)-1 {
			v.selection++
		}
	case "up", "k":
		if v.selection > 0 {
			v.selection--
		}
	case "enter":
		if v.selection >= 0 && v.selection < len(v.items) {
			return router.Navigate(router.DetailPath(v.items[v.selection].ID))
		}
	}
	return nil
}

func (v *mainView) switchCategory(delta int) tea.Cmd {
	i := 0
	for j, c := range mainCategories {
		if c == v.category {
			i = j
			break
		}
	}
	i = (i + delta + len(mainCategories)) % len(mainCategories)
	v.category = mainCategories[i]

	s := v.deps.Store
	s.SetCategory(v.category)
	s.SetSelectedCategory(v.category)
	s.SetFilter(api.FilterAll)
	return v.reload()
}

func (v *mainView) View() string {
	var b strings.Builder

	var tabs []string
	for _, c := range mainCategories {
		label := " " + c + " "
		if c == v.category {
			tabs = append(tabs, activeStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveStyle.Render(label))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")
	b.WriteString(v.box.View())
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(errorStyle.Render("Could not load portfolios: " + v.err.Error()))
	case v.loading && len(v.items) == 0:
		b.WriteString(dimStyle.Render("Loading..."))
	default:
		b.WriteString(renderList(v.items, v.selection, v.width, v.listHeight()))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(v.footer()))
	}
	return b.String()
}

func (v *mainView) footer() string {
	switch {
	case v.loading:
		return "Loading more..."
	case v.cursor < 0:
		return fmt.Sprintf("%d portfolios · end of list", len(v.items))
	default:
		return fmt.Sprintf("%d portfolios · n for more", len(v.items))
	}
}

// listHeight returns the rows left for cards after tabs, the search box
// and the surrounding chrome.
func (v *mainView) listHeight() int {
	const chrome = 12
	h := v.height - chrome
	if v.height == 0 || h < 3 {
		return 0
	}
	return h
}
