package cli

import "github.com/spf13/cobra"

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "List available snippets",
	Args:  cobra.NoArgs,
	RunE:  snippetCommand("search"),
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show information about the snippet repository",
	Args:  cobra.NoArgs,
	RunE:  snippetCommand("info"),
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(infoCmd)
}
