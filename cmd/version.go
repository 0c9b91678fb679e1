package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"
)

// Set at build time with -ldflags "-X github.com/chris-regnier/agendactl/cmd.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	versionShort  bool
	versionOutput string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the agendactl version",
	Example: `  agendactl version
  agendactl version --short
  agendactl version -o yaml`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), goversion.FuncWithOutput(versionShort, version, commit, date, versionOutput))
	},
}

func init() {
	versionCmd.Flags().BoolVarP(&versionShort, "short", "s", false, "print just the version number")
	versionCmd.Flags().StringVarP(&versionOutput, "output", "o", "json", "output format, one of 'yaml' or 'json'")
	rootCmd.AddCommand(versionCmd)
}
