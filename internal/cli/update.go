package cli

import "github.com/spf13/cobra"

var updateCmd = &cobra.Command{
	Use:   "update [name...]",
	Short: "Get the latest versions of installed snippets",
	Long: `Update the named snippets, or every installed snippet when no name is
given.`,
	RunE: snippetCommand("update"),
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
