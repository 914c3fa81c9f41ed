package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/runger/folio/internal/api"
	"github.com/runger/folio/internal/searchbox"
	"github.com/runger/folio/internal/ui"
)

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printPortfolio prints one portfolio as "id  title  by user · views · category",
// with the title truncated to fit width.
func printPortfolio(p api.Portfolio, width int) {
	var meta []string
	if p.UserName != "" {
		meta = append(meta, "by "+searchbox.Clean(p.UserName))
	}
	meta = append(meta, ui.FormatViews(p.Views))
	if p.Category != "" {
		meta = append(meta, searchbox.Clean(p.Category))
	}
	metaText := strings.Join(meta, " · ")

	id := fmt.Sprintf("%6d", p.ID)
	room := width - runewidth.StringWidth(id) - runewidth.StringWidth(metaText) - 4
	if room < 10 {
		room = 10
	}
	title := searchbox.Truncate(searchbox.Clean(p.Title), room)

	fmt.Printf("%s%s%s  %s%s%s  %s%s%s\n",
		colorDim, id, colorReset,
		colorBold, title, colorReset,
		colorDim, metaText, colorReset)
}

// parseCategory maps a case-insensitive category name to its keyword.
func parseCategory(s string) (string, error) {
	if s == "" {
		return api.CategoryAll, nil
	}
	for _, c := range []string{api.CategoryAll, api.CategoryDevelop, api.CategoryDesign, api.CategoryPhotographer} {
		if strings.EqualFold(s, c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (want All, Develop, Design or Photographer)", s)
}
