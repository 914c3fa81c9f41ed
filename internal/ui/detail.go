package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/runger/folio/internal/api"
	"github.com/runger/folio/internal/searchbox"
	"github.com/runger/folio/internal/storage"
)

// openTimeout bounds starting the browser process.
const openTimeout = 5 * time.Second

type detailLoadedMsg struct {
	view      uint64
	portfolio api.Portfolio
	offline   *time.Time // Set when served from the offline cache
	err       error
}

type openedMsg struct {
	view uint64
	err  error
}

// detailView shows a single portfolio.
type detailView struct {
	deps *Deps
	id   uint64
	pid  int64

	portfolio api.Portfolio
	offline   *time.Time
	loading   bool
	err       error
	status    string

	width  int
	height int
}

func newDetailView(deps *Deps, id uint64, pid int64) *detailView {
	return &detailView{deps: deps, id: id, pid: pid, loading: true}
}

func (v *detailView) Init() tea.Cmd {
	id, pid, d := v.id, v.pid, v.deps
	ttl := d.Config.History.CacheTTL()
	return func() tea.Msg {
		ctx, cancel := d.apiContext()
		defer cancel()

		p, err := d.API.Get(ctx, pid)
		if err == nil {
			if d.Cache != nil && ttl > 0 {
				if cerr := d.Cache.CachePortfolio(ctx, p, ttl); cerr != nil {
					d.Logger.Warn("cache portfolio failed", "id", pid, "error", cerr)
				}
			}
			return detailLoadedMsg{view: id, portfolio: p}
		}

		if d.Cache != nil && !errors.Is(err, api.ErrNotFound) {
			entry, cerr := d.Cache.CachedPortfolio(context.Background(), pid)
			if cerr == nil {
				at := entry.CachedAt()
				d.Logger.Info("serving cached portfolio", "id", pid, "error", err)
				return detailLoadedMsg{view: id, portfolio: entry.Portfolio, offline: &at}
			}
			if !errors.Is(cerr, storage.ErrCacheNotFound) {
				d.Logger.Warn("read cached portfolio failed", "id", pid, "error", cerr)
			}
		}
		return detailLoadedMsg{view: id, err: err}
	}
}

func (v *detailView) SetSize(width, height int) {
	v.width, v.height = width, height
}

func (v *detailView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		if msg.view != v.id {
			return nil
		}
		v.loading = false
		v.portfolio, v.offline, v.err = msg.portfolio, msg.offline, msg.err
		if msg.err != nil {
			v.deps.Logger.Warn("load portfolio failed", "id", v.pid, "error", msg.err)
		}

	case openedMsg:
		if msg.view != v.id {
			return nil
		}
		if msg.err != nil {
			v.status = "Could not open link: " + msg.err.Error()
		} else {
			v.status = "Opened in browser"
		}

	case tea.KeyMsg:
		if msg.String() == "o" {
			return v.open()
		}
	}
	return nil
}

func (v *detailView) open() tea.Cmd {
	if v.loading || v.err != nil {
		return nil
	}
	if v.deps.Opener == nil || v.portfolio.Address == "" {
		v.status = "No link to open"
		return nil
	}
	id, addr, opener := v.id, v.portfolio.Address, v.deps.Opener
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
		defer cancel()
		return openedMsg{view: id, err: opener.Open(ctx, addr)}
	}
}

func (v *detailView) capturesInput() bool { return false }

func (v *detailView) dispose() {}

func (v *detailView) View() string {
	if v.loading {
		return dimStyle.Render("Loading...")
	}
	if v.err != nil {
		if errors.Is(v.err, api.ErrNotFound) {
			return errorStyle.Render(fmt.Sprintf("Portfolio %d not found", v.pid))
		}
		return errorStyle.Render("Could not load portfolio: " + v.err.Error())
	}

	p := v.portfolio
	width := v.width
	if width <= 0 {
		width = defaultCardWidth
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(searchbox.Truncate(searchbox.Clean(p.Title), width)))
	if v.offline != nil {
		b.WriteString(markerStyle.Render("  [offline copy from " + humanize.Time(*v.offline) + "]"))
	}
	b.WriteString("\n")

	var meta []string
	if p.UserName != "" {
		meta = append(meta, "by "+searchbox.Clean(p.UserName))
	}
	if p.Category != "" {
		meta = append(meta, searchbox.Clean(p.Category))
	}
	meta = append(meta, FormatViews(p.Views))
	if created := FormatCreated(p.CreatedAt); created != "" {
		meta = append(meta, created)
	}
	b.WriteString(metaStyle.Render(strings.Join(meta, " · ")))
	b.WriteString("\n")

	if p.HasImage() {
		b.WriteString(dimStyle.Render("image: " + searchbox.Truncate(searchbox.Clean(*p.Image), width-7)))
	} else {
		b.WriteString(markerStyle.Render(noImageMarker))
	}
	b.WriteString("\n")

	if stack := techStack(p.TechStack); len(stack) > 0 {
		b.WriteString(normalStyle.Render("stack: " + strings.Join(stack, ", ")))
		b.WriteString("\n")
	}

	if p.Description != "" {
		b.WriteString("\n")
		for _, line := range strings.Split(p.Description, "\n") {
			b.WriteString(normalStyle.Render(searchbox.Clean(line)))
			b.WriteString("\n")
		}
	}

	if p.Address != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("link: " + searchbox.Clean(p.Address) + "  (o to open)"))
	}
	if v.status != "" {
		b.WriteString("\n")
		b.WriteString(markerStyle.Render(v.status))
	}
	return b.String()
}

// techStack splits the comma separated stack field.
func techStack(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(searchbox.Clean(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
