package cli

import (
	"fmt"

	"github.com/deriamis/mongosh/internal/shell"
	"github.com/spf13/cobra"
)

var shellNoRC bool

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive JavaScript shell with snippets loaded",
	Long: `Start a minimal JavaScript shell. The rc file is loaded first, so
installed snippets are available. "snippet <command>" lines are handled by
the snippet manager; errors are annotated with hints from the snippet index.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	shellCmd.Flags().BoolVar(&shellNoRC, "norc", false, "Do not load the rc file")
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	m, logger, err := newManager()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	defer m.Wait()

	sh, err := shell.New(cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	if err != nil {
		return err
	}
	sh.Register(m)
	m.SetLoader(sh)

	ctx := cmd.Context()
	m.Warm(ctx)

	if !shellNoRC {
		// A broken rc file should not keep the shell from starting.
		if err := sh.LoadIfExists(ctx, m.RCFile()); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), m.TransformError(err))
		}
	}
	return sh.Run(ctx)
}
