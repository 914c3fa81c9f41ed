package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the folio configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Search  SearchConfig  `yaml:"search"`
	UI      UIConfig      `yaml:"ui"`
	Log     LogConfig     `yaml:"log"`
	History HistoryConfig `yaml:"history"`
}

// APIConfig holds settings for the portfolio service.
type APIConfig struct {
	BaseURL   string `yaml:"base_url"`   // Service root, e.g. https://folio.example.com
	TimeoutMs int    `yaml:"timeout_ms"` // Per-request timeout for listing calls
	UserAgent string `yaml:"user_agent"` // Sent with every request
}

// SearchConfig holds settings for the incremental search box.
type SearchConfig struct {
	DebounceMs        int  `yaml:"debounce_ms"`         // Quiet period before a suggestion fetch
	SuggestTimeoutMs  int  `yaml:"suggest_timeout_ms"`  // Max wait for suggestions
	SearchTimeoutMs   int  `yaml:"search_timeout_ms"`   // Max wait for a committed search
	RejectEmptyCommit bool `yaml:"reject_empty_commit"` // Refuse to search an empty query
	MaxSuggestions    int  `yaml:"max_suggestions"`     // Suggestions rendered under the input
	CacheTTLMs        int  `yaml:"cache_ttl_ms"`        // Suggestion cache lifetime
	CacheSize         int  `yaml:"cache_size"`          // Suggestion cache entries
}

// UIConfig holds settings for the terminal views.
type UIConfig struct {
	LatestCount    int    `yaml:"latest_count"`    // Portfolios shown on the home view
	PageSize       int    `yaml:"page_size"`       // Portfolios per listing page
	BrowserCommand string `yaml:"browser_command"` // Command used to open links (empty = OS default)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file path (overrides default)
}

// HistoryConfig holds search history settings.
type HistoryConfig struct {
	Enabled       bool `yaml:"enabled"`         // Record committed searches
	MaxEntries    int  `yaml:"max_entries"`     // Entries kept after pruning
	CacheTTLHours int  `yaml:"cache_ttl_hours"` // Offline portfolio copies; 0 disables
}

// CacheTTL returns the offline portfolio cache lifetime.
func (h HistoryConfig) CacheTTL() time.Duration {
	return time.Duration(h.CacheTTLHours) * time.Hour
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "http://localhost:8080",
			TimeoutMs: 5000,
			UserAgent: "folio",
		},
		Search: SearchConfig{
			DebounceMs:        500,
			SuggestTimeoutMs:  2000,
			SearchTimeoutMs:   5000,
			RejectEmptyCommit: false,
			MaxSuggestions:    10,
			CacheTTLMs:        30000,
			CacheSize:         256,
		},
		UI: UIConfig{
			LatestCount:    9,
			PageSize:       10,
			BrowserCommand: "",
		},
		Log: LogConfig{
			Level: "info",
			File:  "", // Use default from paths
		},
		History: HistoryConfig{
			Enabled:       true,
			MaxEntries:    500,
			CacheTTLHours: 24,
		},
	}
}

// Debounce returns the debounce window as a duration.
func (s SearchConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceMs) * time.Millisecond
}

// SuggestTimeout returns the suggestion fetch timeout as a duration.
func (s SearchConfig) SuggestTimeout() time.Duration {
	return time.Duration(s.SuggestTimeoutMs) * time.Millisecond
}

// SearchTimeout returns the committed search timeout as a duration.
func (s SearchConfig) SearchTimeout() time.Duration {
	return time.Duration(s.SearchTimeoutMs) * time.Millisecond
}

// CacheTTL returns the suggestion cache lifetime as a duration.
func (s SearchConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLMs) * time.Millisecond
}

// Timeout returns the API request timeout as a duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutMs) * time.Millisecond
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	paths := DefaultPaths()
	return LoadFromFile(paths.ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	paths := DefaultPaths()
	return c.SaveToFile(paths.ConfigFile())
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get retrieves a configuration value by dot-separated key.
// For example: "search.debounce_ms" or "api.base_url"
func (c *Config) Get(key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "api":
		return c.getAPIField(field)
	case "search":
		return c.getSearchField(field)
	case "ui":
		return c.getUIField(field)
	case "log":
		return c.getLogField(field)
	case "history":
		return c.getHistoryField(field)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

// Set sets a configuration value by dot-separated key.
func (c *Config) Set(key, value string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "api":
		return c.setAPIField(field, value)
	case "search":
		return c.setSearchField(field, value)
	case "ui":
		return c.setUIField(field, value)
	case "log":
		return c.setLogField(field, value)
	case "history":
		return c.setHistoryField(field, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func splitKey(key string) (section, field string, err error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", "", errors.New("key must be in format 'section.key'")
	}
	return parts[0], parts[1], nil
}

func (c *Config) getAPIField(field string) (string, error) {
	switch field {
	case "base_url":
		return c.API.BaseURL, nil
	case "timeout_ms":
		return strconv.Itoa(c.API.TimeoutMs), nil
	case "user_agent":
		return c.API.UserAgent, nil
	default:
		return "", fmt.Errorf("unknown field: api.%s", field)
	}
}

func (c *Config) setAPIField(field, value string) error {
	switch field {
	case "base_url":
		if err := validateBaseURL(value); err != nil {
			return err
		}
		c.API.BaseURL = value
	case "timeout_ms":
		v, err := parseNonNegative("timeout_ms", value)
		if err != nil {
			return err
		}
		c.API.TimeoutMs = v
	case "user_agent":
		c.API.UserAgent = value
	default:
		return fmt.Errorf("unknown field: api.%s", field)
	}
	return nil
}

func (c *Config) getSearchField(field string) (string, error) {
	switch field {
	case "debounce_ms":
		return strconv.Itoa(c.Search.DebounceMs), nil
	case "suggest_timeout_ms":
		return strconv.Itoa(c.Search.SuggestTimeoutMs), nil
	case "search_timeout_ms":
		return strconv.Itoa(c.Search.SearchTimeoutMs), nil
	case "reject_empty_commit":
		return strconv.FormatBool(c.Search.RejectEmptyCommit), nil
	case "max_suggestions":
		return strconv.Itoa(c.Search.MaxSuggestions), nil
	case "cache_ttl_ms":
		return strconv.Itoa(c.Search.CacheTTLMs), nil
	case "cache_size":
		return strconv.Itoa(c.Search.CacheSize), nil
	default:
		return "", fmt.Errorf("unknown field: search.%s", field)
	}
}

func (c *Config) setSearchField(field, value string) error {
	if field == "reject_empty_commit" {
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for reject_empty_commit: %w", err)
		}
		c.Search.RejectEmptyCommit = v
		return nil
	}

	var target *int
	switch field {
	case "debounce_ms":
		target = &c.Search.DebounceMs
	case "suggest_timeout_ms":
		target = &c.Search.SuggestTimeoutMs
	case "search_timeout_ms":
		target = &c.Search.SearchTimeoutMs
	case "max_suggestions":
		target = &c.Search.MaxSuggestions
	case "cache_ttl_ms":
		target = &c.Search.CacheTTLMs
	case "cache_size":
		target = &c.Search.CacheSize
	default:
		return fmt.Errorf("unknown field: search.%s", field)
	}

	v, err := parseNonNegative(field, value)
	if err != nil {
		return err
	}
	*target = v
	return nil
}

func (c *Config) getUIField(field string) (string, error) {
	switch field {
	case "latest_count":
		return strconv.Itoa(c.UI.LatestCount), nil
	case "page_size":
		return strconv.Itoa(c.UI.PageSize), nil
	case "browser_command":
		return c.UI.BrowserCommand, nil
	default:
		return "", fmt.Errorf("unknown field: ui.%s", field)
	}
}

func (c *Config) setUIField(field, value string) error {
	switch field {
	case "latest_count":
		v, err := parseNonNegative("latest_count", value)
		if err != nil {
			return err
		}
		c.UI.LatestCount = v
	case "page_size":
		v, err := parseNonNegative("page_size", value)
		if err != nil {
			return err
		}
		c.UI.PageSize = v
	case "browser_command":
		c.UI.BrowserCommand = value
	default:
		return fmt.Errorf("unknown field: ui.%s", field)
	}
	return nil
}

func (c *Config) getLogField(field string) (string, error) {
	switch field {
	case "level":
		return c.Log.Level, nil
	case "file":
		return c.Log.File, nil
	default:
		return "", fmt.Errorf("unknown field: log.%s", field)
	}
}

func (c *Config) setLogField(field, value string) error {
	switch field {
	case "level":
		if !isValidLogLevel(value) {
			return fmt.Errorf("invalid level: %s (must be debug, info, warn, or error)", value)
		}
		c.Log.Level = value
	case "file":
		c.Log.File = value
	default:
		return fmt.Errorf("unknown field: log.%s", field)
	}
	return nil
}

func (c *Config) getHistoryField(field string) (string, error) {
	switch field {
	case "enabled":
		return strconv.FormatBool(c.History.Enabled), nil
	case "max_entries":
		return strconv.Itoa(c.History.MaxEntries), nil
	case "cache_ttl_hours":
		return strconv.Itoa(c.History.CacheTTLHours), nil
	default:
		return "", fmt.Errorf("unknown field: history.%s", field)
	}
}

func (c *Config) setHistoryField(field, value string) error {
	switch field {
	case "enabled":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for enabled: %w", err)
		}
		c.History.Enabled = v
	case "max_entries":
		v, err := parseNonNegative("max_entries", value)
		if err != nil {
			return err
		}
		c.History.MaxEntries = v
	case "cache_ttl_hours":
		v, err := parseNonNegative("cache_ttl_hours", value)
		if err != nil {
			return err
		}
		c.History.CacheTTLHours = v
	default:
		return fmt.Errorf("unknown field: history.%s", field)
	}
	return nil
}

func parseNonNegative(name, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", name, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid %s: must be non-negative", name)
	}
	return v, nil
}

// Validate checks the configuration for errors. Out-of-range sizes are
// clamped rather than rejected.
func (c *Config) Validate() error {
	if err := validateBaseURL(c.API.BaseURL); err != nil {
		return err
	}

	if c.API.TimeoutMs < 0 {
		return errors.New("api.timeout_ms must be >= 0")
	}

	if c.Search.DebounceMs < 0 {
		return errors.New("search.debounce_ms must be >= 0")
	}

	if c.Search.SuggestTimeoutMs < 0 {
		return errors.New("search.suggest_timeout_ms must be >= 0")
	}

	if c.Search.SearchTimeoutMs < 0 {
		return errors.New("search.search_timeout_ms must be >= 0")
	}

	if c.Search.CacheTTLMs < 0 {
		return errors.New("search.cache_ttl_ms must be >= 0")
	}

	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}

	// Clamp sizes to sane ranges
	if c.Search.MaxSuggestions < 1 {
		c.Search.MaxSuggestions = 1
	}
	if c.Search.MaxSuggestions > 50 {
		c.Search.MaxSuggestions = 50
	}
	if c.Search.CacheSize < 1 {
		c.Search.CacheSize = 1
	}
	if c.UI.LatestCount < 1 {
		c.UI.LatestCount = 1
	}
	if c.UI.PageSize < 1 {
		c.UI.PageSize = 1
	}
	if c.UI.PageSize > 100 {
		c.UI.PageSize = 100
	}
	if c.History.MaxEntries < 0 {
		c.History.MaxEntries = 0
	}
	if c.History.CacheTTLHours < 0 {
		c.History.CacheTTLHours = 0
	}

	return nil
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return errors.New("api.base_url must be set")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("api.base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must use http or https (got: %s)", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url must include a host (got: %s)", raw)
	}
	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("FOLIO_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("FOLIO_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Log.Level = v
		}
	}
	if v := os.Getenv("FOLIO_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
		}
	}
}

// ListKeys returns user-facing configuration keys.
func ListKeys() []string {
	return []string{
		"api.base_url",
		"api.timeout_ms",
		"api.user_agent",
		"search.debounce_ms",
		"search.suggest_timeout_ms",
		"search.search_timeout_ms",
		"search.reject_empty_commit",
		"search.max_suggestions",
		"search.cache_ttl_ms",
		"search.cache_size",
		"ui.latest_count",
		"ui.page_size",
		"ui.browser_command",
		"log.level",
		"log.file",
		"history.enabled",
		"history.max_entries",
		"history.cache_ttl_hours",
	}
}
