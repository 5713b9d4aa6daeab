package cli

import "github.com/spf13/cobra"

var installCmd = &cobra.Command{
	Use:   "install <name>...",
	Short: "Install a new snippet",
	Long: `Install one or more snippets from the snippet index. Snippets are added to
the install directory's package.json and a load() line for each is written
to the managed block of the rc file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: snippetCommand("install"),
}

func init() {
	rootCmd.AddCommand(installCmd)
}
