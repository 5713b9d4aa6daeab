package cli

import "github.com/spf13/cobra"

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <name>...",
	Short: "Remove an installed snippet",
	Args:  cobra.MinimumNArgs(1),
	RunE:  snippetCommand("uninstall"),
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}
