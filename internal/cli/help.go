package cli

import (
	"fmt"
	"strings"

	"github.com/deriamis/mongosh/internal/snippet"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// helpCmd replaces Cobra's help command. `help <snippet>` shows the
// snippet's readme and `help <command>` shows command usage. A snippet
// whose name collides with a command wins when the index has a readme for
// it; otherwise the command usage is shown.
var helpCmd = &cobra.Command{
	Use:   "help [command | snippet]",
	Short: "Show help for a command or a snippet",
	Long: `Show the readme of a snippet, or usage of a command.

When a snippet and a command share a name, the snippet readme is shown if the
index provides one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			fmt.Fprint(cmd.OutOrStdout(), snippet.HelpText)
			return nil
		}
		sub, _, err := rootCmd.Find(args)
		if err != nil || sub == rootCmd {
			return runSnippet(cmd, "help", args)
		}
		if readme, ok := snippetReadme(cmd, args[0]); ok {
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSuffix(readme, "\n"))
			return nil
		}
		return sub.Help()
	},
}

// snippetReadme returns the readme of name when the index has one. Index
// failures and unknown names report false.
func snippetReadme(cmd *cobra.Command, name string) (string, bool) {
	m, logger, err := newManager()
	if err != nil {
		return "", false
	}
	defer func() { _ = logger.Sync() }()
	defer m.Wait()

	readme, err := m.Readme(cmd.Context(), name)
	if err != nil {
		logger.Debug("no snippet readme for command name", zap.String("name", name), zap.Error(err))
		return "", false
	}
	return readme, true
}

func init() {
	rootCmd.SetHelpCommand(helpCmd)
}
