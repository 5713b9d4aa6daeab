package cli

import (
	"encoding/json"
	"fmt"

	"github.com/deriamis/mongosh/internal/branding"
	"github.com/deriamis/mongosh/internal/config"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

// versionInfo is the build identity plus where snippets come from and go to.
type versionInfo struct {
	Version     string `json:"version"`
	Commit      string `json:"commit"`
	Date        string `json:"date"`
	IndexURI    string `json:"index_uri"`
	RegistryURL string `json:"registry_url"`
	InstallDir  string `json:"install_dir"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information and the active snippet sources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, buildVersion)
			return nil
		}

		config.Load()
		settings, err := config.Resolve()
		if err != nil {
			return err
		}
		info := versionInfo{
			Version:     buildVersion,
			Commit:      buildCommit,
			Date:        buildDate,
			IndexURI:    settings.IndexURI,
			RegistryURL: settings.RegistryURL,
			InstallDir:  settings.InstallDir,
		}

		if versionJSON {
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "%s version %s (commit: %s, built: %s)\n", branding.CLIName(), info.Version, info.Commit, info.Date)
		fmt.Fprintf(out, "Snippet index:    %s\n", info.IndexURI)
		fmt.Fprintf(out, "npm registry:     %s\n", info.RegistryURL)
		fmt.Fprintf(out, "Install location: %s\n", info.InstallDir)
		return nil
	},
}
