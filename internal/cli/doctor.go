package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the snippet setup",
	Long: `Check the install directory, package.json, cached index, npm availability
and the rc file. Nothing is modified.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, logger, err := newManager()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		if failed := m.Doctor(cmd.Context(), cmd.OutOrStdout()); failed > 0 {
			return fmt.Errorf("%d check(s) failed", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
