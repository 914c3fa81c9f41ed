package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	folog "github.com/runger/folio/internal/log"
)

// defaultTimeout applies when Options.Timeout is zero.
const defaultTimeout = 5 * time.Second

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string

	// CacheSize and CacheTTL control the suggestion cache. A zero TTL
	// disables caching.
	CacheSize int
	CacheTTL  time.Duration

	Logger *slog.Logger

	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client talks to the portfolio service over JSON/HTTP.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	timeout   time.Duration // Used only when the caller's ctx has no deadline
	logger    *slog.Logger

	// suggestions caches Suggest results keyed by "page\nquery".
	suggestions *expirable.LRU[string, []string]
}

// NewClient creates a Client. BaseURL must be an absolute http(s) URL.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = folog.Discard()
	}

	c := &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		http:      httpClient,
		timeout:   timeout,
		logger:    logger,
	}
	if opts.CacheTTL > 0 {
		size := opts.CacheSize
		if size <= 0 {
			size = 128
		}
		c.suggestions = expirable.NewLRU[string, []string](size, nil, opts.CacheTTL)
	}
	return c
}

// Suggest returns autocomplete candidates for query. Results are served from
// the suggestion cache when fresh.
func (c *Client) Suggest(ctx context.Context, page int, query string) ([]string, error) {
	key := strconv.Itoa(page) + "\n" + query
	if c.suggestions != nil {
		if cached, ok := c.suggestions.Get(key); ok {
			c.logger.Debug("suggestion cache hit", "query", query, "page", page)
			return append([]string(nil), cached...), nil
		}
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("keyword", query)

	var items []string
	if err := c.getJSON(ctx, "/api/search/autocomplete", params, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []string{}
	}

	if c.suggestions != nil {
		c.suggestions.Add(key, append([]string(nil), items...))
	}
	return items, nil
}

// SearchPage runs a full search and returns one page of matching portfolios.
func (c *Client) SearchPage(ctx context.Context, page int, query string) ([]Portfolio, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("keyword", query)

	var items []Portfolio
	if err := c.getJSON(ctx, "/api/search", params, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []Portfolio{}
	}
	return items, nil
}

// LastID returns the newest portfolio id in category, or -1 when empty.
func (c *Client) LastID(ctx context.Context, category string) (int64, error) {
	params := url.Values{}
	params.Set("category", categoryOrAll(category))

	var id int64
	if err := c.getJSON(ctx, "/api/portfolios/last-id", params, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// List returns one cursor page of portfolios.
func (c *Client) List(ctx context.Context, q ListQuery) ([]Portfolio, error) {
	params := url.Values{}
	params.Set("lastPortfolioId", strconv.FormatInt(q.LastID, 10))
	if q.Size > 0 {
		params.Set("size", strconv.Itoa(q.Size))
	}
	params.Set("category", categoryOrAll(q.Category))
	filter := q.Filter
	if filter == "" {
		filter = FilterAll
	}
	params.Set("filter", filter)

	var items []Portfolio
	if err := c.getJSON(ctx, "/api/portfolios", params, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get returns a single portfolio.
func (c *Client) Get(ctx context.Context, id int64) (Portfolio, error) {
	var p Portfolio
	if err := c.getJSON(ctx, "/api/portfolios/"+strconv.FormatInt(id, 10), nil, &p); err != nil {
		return Portfolio{}, err
	}
	return p, nil
}

// Latest collects the n newest portfolios in category by walking the cursor
// pages backwards from the newest id. It stops early when the cursor runs
// out or the service returns an empty page.
func (c *Client) Latest(ctx context.Context, category string, n, pageSize int) ([]Portfolio, error) {
	if n <= 0 {
		return nil, nil
	}
	cursor, err := c.LastID(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("latest: %w", err)
	}

	var list []Portfolio
	for len(list) < n && cursor >= 0 {
		page, err := c.List(ctx, ListQuery{
			LastID:   cursor,
			Size:     pageSize,
			Category: category,
			Filter:   FilterAll,
		})
		if err != nil {
			return nil, fmt.Errorf("latest: %w", err)
		}
		if len(page) == 0 {
			break
		}
		list = append(list, page...)
		next := page[len(page)-1].ID - 1
		if next >= cursor {
			// A misbehaving server must not keep us here forever.
			break
		}
		cursor = next
	}

	if len(list) > n {
		list = list[:n]
	}
	return list, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		"path", path,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return nil
}

func categoryOrAll(category string) string {
	if category == "" {
		return CategoryAll
	}
	return category
}
