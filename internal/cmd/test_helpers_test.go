package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/runger/folio/internal/api"
	"github.com/runger/folio/internal/config"
)

type outputGlobals struct {
	searchJSON  bool
	searchPage  int
	suggestN    int
	suggestJSON bool
	category    string
	latestN     int
	latestJSON  bool
	histN       int
	histClear   bool
	cachePrune  bool
	apiURL      string
	colorMode   string
}

// withTestEnv points every XDG directory at a temp dir, disables colors and
// restores the command globals afterwards.
func withTestEnv(t *testing.T) *config.Paths {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root+"/config")
	t.Setenv("XDG_DATA_HOME", root+"/data")
	t.Setenv("XDG_CACHE_HOME", root+"/cache")
	t.Setenv("XDG_STATE_HOME", root+"/state")
	t.Setenv("FOLIO_API_URL", "")
	t.Setenv("NO_COLOR", "1")
	t.Setenv("COLUMNS", "100")

	old := outputGlobals{
		searchJSON:  searchJSON,
		searchPage:  searchPage,
		suggestN:    suggestLimit,
		suggestJSON: suggestJSON,
		category:    latestCategory,
		latestN:     latestLimit,
		latestJSON:  latestJSON,
		histN:       historyLimit,
		histClear:   historyClear,
		cachePrune:  cachePrune,
		apiURL:      apiURL,
		colorMode:   colorMode,
	}
	t.Cleanup(func() {
		searchJSON = old.searchJSON
		searchPage = old.searchPage
		suggestLimit = old.suggestN
		suggestJSON = old.suggestJSON
		latestCategory = old.category
		latestLimit = old.latestN
		latestJSON = old.latestJSON
		historyLimit = old.histN
		historyClear = old.histClear
		cachePrune = old.cachePrune
		apiURL = old.apiURL
		colorMode = old.colorMode
	})
	colorMode = "never"
	disableColors()
	return config.DefaultPaths()
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() failed: %v", err)
	}
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()
	_ = w.Close()
	os.Stdout = old
	out := <-outC
	_ = r.Close()
	return out
}

// testPortfolios are served newest first.
var testPortfolios = []api.Portfolio{
	{ID: 3, Title: "Devops Dashboard", UserName: "kim", Views: 1200, Category: api.CategoryDevelop},
	{ID: 2, Title: "Wedding Shots", UserName: "lee", Views: 1, Category: api.CategoryPhotographer},
	{ID: 1, Title: "Design System", UserName: "park", Views: 40, Category: api.CategoryDesign},
}

// newPortfolioServer serves testPortfolios and points --api-url at it.
func newPortfolioServer(t *testing.T) *httptest.Server {
	t.Helper()
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
	inCategory := func(c string) []api.Portfolio {
		var out []api.Portfolio
		for _, p := range testPortfolios {
			if c == "" || c == api.CategoryAll || p.Category == c {
				out = append(out, p)
			}
		}
		return out
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/search", func(w http.ResponseWriter, r *http.Request) {
		kw := strings.ToLower(r.URL.Query().Get("keyword"))
		out := []api.Portfolio{}
		for _, p := range testPortfolios {
			if strings.Contains(strings.ToLower(p.Title), kw) {
				out = append(out, p)
			}
		}
		writeJSON(w, out)
	})
	mux.HandleFunc("GET /api/search/autocomplete", func(w http.ResponseWriter, r *http.Request) {
		kw := strings.ToLower(r.URL.Query().Get("keyword"))
		out := []string{}
		for _, s := range []string{"dev", "devops", "design", "developer"} {
			if strings.HasPrefix(s, kw) {
				out = append(out, s)
			}
		}
		writeJSON(w, out)
	})
	mux.HandleFunc("GET /api/portfolios/last-id", func(w http.ResponseWriter, r *http.Request) {
		items := inCategory(r.URL.Query().Get("category"))
		if len(items) == 0 {
			writeJSON(w, -1)
			return
		}
		writeJSON(w, items[0].ID)
	})
	mux.HandleFunc("GET /api/portfolios", func(w http.ResponseWriter, r *http.Request) {
		last, _ := strconv.ParseInt(r.URL.Query().Get("lastPortfolioId"), 10, 64)
		size, _ := strconv.Atoi(r.URL.Query().Get("size"))
		out := []api.Portfolio{}
		for _, p := range inCategory(r.URL.Query().Get("category")) {
			if p.ID <= last && (size <= 0 || len(out) < size) {
				out = append(out, p)
			}
		}
		writeJSON(w, out)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	apiURL = srv.URL
	return srv
}
