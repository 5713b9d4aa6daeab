package cli

import (
	"fmt"
	"strings"

	"github.com/deriamis/mongosh/internal/config"
	"github.com/deriamis/mongosh/internal/logging"
	"github.com/deriamis/mongosh/internal/prompt"
	"github.com/deriamis/mongosh/internal/snippet"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newManager builds a snippet manager from the user's configuration.
func newManager() (*snippet.Manager, *zap.Logger, error) {
	config.Load()
	settings, err := config.Resolve()
	if err != nil {
		return nil, nil, err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = settings.LogLevel
	logger := logging.NewOrNop(logCfg)

	m, err := snippet.New(snippet.Config{
		InstallDir:  settings.InstallDir,
		RCFile:      settings.RCFile,
		IndexURI:    settings.IndexURI,
		RegistryURL: settings.RegistryURL,
		NodePath:    settings.NodePath,
		MaxAge:      settings.MaxAge,
		Logger:      logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return m, logger, nil
}

// runSnippet forwards a subcommand to the snippet manager and prints its
// output. Background index refreshes are allowed to finish before
// returning so the next run sees them.
func runSnippet(cmd *cobra.Command, verb string, args []string) error {
	m, logger, err := newManager()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	defer m.Wait()

	p := prompt.NewLines(cmd.InOrStdin(), cmd.OutOrStdout())
	out, err := m.RunCommand(cmd.Context(), append([]string{verb}, args...), p)
	if err != nil {
		return err
	}
	if out != "" {
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSuffix(out, "\n"))
	}
	return nil
}

// snippetCommand returns the RunE for a command that maps 1:1 to a
// snippet subcommand.
func snippetCommand(verb string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return runSnippet(cmd, verb, args)
	}
}
