package cmd

import (
	"github.com/spf13/cobra"
)

const (
	groupCore  = "core"
	groupSetup = "setup"
)

// apiURL overrides api.base_url for a single invocation.
var apiURL string

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "browse developer, designer and photographer portfolios",
	Long: `folio - portfolio browser for the terminal
  - run without arguments to open the interactive browser
  - type to get search suggestions, enter to search`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runBrowse,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupCore, Title: "Core Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "portfolio service URL (overrides api.base_url)")

	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
