package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/runger/folio/internal/api"
	"github.com/runger/folio/internal/searchbox"
)

// noImageMarker stands in for a missing portfolio image.
const noImageMarker = "[no image]"

// defaultCardWidth applies before the first WindowSizeMsg.
const defaultCardWidth = 80

const emptyListText = "No portfolios"

// FormatViews renders a view count with thousands separators.
func FormatViews(n int64) string {
	if n == 1 {
		return "1 view"
	}
	return humanize.Comma(n) + " views"
}

// FormatCreated renders an RFC 3339 timestamp relative to now. Unparseable
// values are returned unchanged.
func FormatCreated(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return humanize.Time(t)
		}
	}
	return raw
}

// RenderCard renders one portfolio as a single list row.
func RenderCard(p api.Portfolio, width int, selected bool) string {
	if width <= 0 {
		width = defaultCardWidth
	}

	var meta []string
	if p.UserName != "" {
		meta = append(meta, "by "+searchbox.Clean(p.UserName))
	}
	meta = append(meta, FormatViews(p.Views))
	if p.Category != "" {
		meta = append(meta, searchbox.Clean(p.Category))
	}
	metaText := strings.Join(meta, " · ")

	marker := ""
	if !p.HasImage() {
		marker = " " + noImageMarker
	}

	prefix := "  "
	if selected {
		prefix = "> "
	}

	// Title gets whatever the fixed parts leave over.
	titleWidth := width - len(prefix) - lipgloss.Width(metaText) - len(marker) - 3
	if titleWidth < 8 {
		titleWidth = 8
	}
	title := searchbox.Truncate(searchbox.Clean(p.Title), titleWidth)
	if title == "" {
		title = "(untitled)"
	}

	var b strings.Builder
	if selected {
		b.WriteString(selectedStyle.Render(prefix + title))
	} else {
		b.WriteString(normalStyle.Render(prefix + title))
	}
	b.WriteString("   ")
	b.WriteString(metaStyle.Render(metaText))
	if marker != "" {
		b.WriteString(markerStyle.Render(marker))
	}
	return b.String()
}

// renderList renders items as cards with the selection marker, or empty
// when there are none.
func renderList(items []api.Portfolio, selection, width, maxRows int) string {
	if len(items) == 0 {
		return dimStyle.Render(emptyListText)
	}
	start := 0
	if maxRows > 0 && selection >= maxRows {
		start = selection - maxRows + 1
	}
	var rows []string
	for i := start; i < len(items); i++ {
		if maxRows > 0 && len(rows) >= maxRows {
			break
		}
		rows = append(rows, RenderCard(items[i], width, i == selection))
	}
	return strings.Join(rows, "\n")
}
