package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/folio/internal/config"
)

var configCmd = &cobra.Command{
	Use:     "config [key] [value]",
	Short:   "Get or set configuration values",
	GroupID: groupSetup,
	Long: `Get or set folio configuration values.

Without arguments, lists all configuration keys.
With one argument, shows the value of that key.
With two arguments, sets the key to the value.

Configuration is stored in ~/.config/folio/config.yaml (XDG compliant).

Keys are in the format: section.key
Sections: api, search, ui, log, history

Examples:
  folio config                               # List all keys
  folio config api.base_url                  # Show the service URL
  folio config search.debounce_ms 300        # Fetch suggestions sooner
  folio config search.reject_empty_commit true`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	paths := config.DefaultPaths()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	switch len(args) {
	case 1:
		return getConfig(cfg, args[0])
	case 2:
		return setConfig(cfg, paths, args[0], args[1])
	default:
		return listConfig(cfg, paths)
	}
}

// listConfig prints every key grouped under its section.
func listConfig(cfg *config.Config, paths *config.Paths) error {
	fmt.Printf("%sConfiguration%s\n", colorBold, colorReset)

	section := ""
	var failed []string
	for _, key := range config.ListKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			failed = append(failed, key)
			continue
		}

		if s, _, _ := strings.Cut(key, "."); s != section {
			section = s
			fmt.Printf("\n%s[%s]%s\n", colorBold, section, colorReset)
		}
		fmt.Printf("  %s%s%s = %s\n", colorCyan, key, colorReset, displayValue(value))
	}

	if len(failed) > 0 {
		fmt.Printf("\n%sWarning:%s Failed to retrieve keys: %s\n", colorYellow, colorReset, strings.Join(failed, ", "))
	}

	fmt.Printf("\n%sConfig file: %s%s\n", colorDim, paths.ConfigFile(), colorReset)
	return nil
}

func displayValue(v string) string {
	if v == "" {
		return colorDim + "(not set)" + colorReset
	}
	return v
}

func getConfig(cfg *config.Config, key string) error {
	value, err := cfg.Get(key)
	if err != nil {
		return err
	}
	fmt.Println(displayValue(value))
	return nil
}

// setConfig validates the whole config before writing, so a bad value never
// reaches the file.
func setConfig(cfg *config.Config, paths *config.Paths, key, value string) error {
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := cfg.SaveToFile(paths.ConfigFile()); err != nil {
		return err
	}

	fmt.Printf("%s%s%s = %s\n", colorCyan, key, colorReset, value)
	fmt.Printf("Saved to: %s\n", paths.ConfigFile())
	return nil
}
