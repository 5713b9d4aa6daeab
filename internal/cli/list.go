package cli

import "github.com/spf13/cobra"

var lsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List installed snippets",
	Args:    cobra.NoArgs,
	RunE:    snippetCommand("ls"),
}

var outdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "List outdated snippets",
	Args:  cobra.NoArgs,
	RunE:  snippetCommand("outdated"),
}

func init() {
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(outdatedCmd)
}
