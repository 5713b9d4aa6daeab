package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/deriamis/mongosh/internal/branding"
	"github.com/deriamis/mongosh/internal/snippet"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` installs, updates and removes shell snippets published in the
snippet index, and keeps the managed block of the shell rc file in sync.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			fmt.Fprint(cmd.OutOrStdout(), snippet.HelpText)
			return nil
		}
		// Unknown subcommands get the snippet manager's answer.
		return runSnippet(cmd, args[0], args[1:])
	},
}

// Execute runs the root command with build info injected via ldflags.
// The context is canceled on interrupt.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
