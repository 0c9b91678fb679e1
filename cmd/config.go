package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/chris-regnier/agendactl/internal/config"
	"github.com/spf13/cobra"
)

var (
	configForce bool
	configPath  string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	// The config file may not exist or may be broken; don't load it or the
	// storage backend.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write the default configuration as TOML.

The file goes to $XDG_CONFIG_HOME/agendactl/config.toml when XDG_CONFIG_HOME is
set and to ~/.agendactl/config.toml otherwise, unless --path or --config is
given. An existing file is only replaced with --force.`,
	Example: `  agendactl config init
  agendactl config init --path ./agendactl.toml --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = cfgFile
		}
		if path == "" {
			path = config.DefaultPath()
		}
		return configInitRun(os.Stdout, path, configForce)
	},
}

func configInitRun(w io.Writer, path string, force bool) error {
	if err := config.WriteDefault(path, force); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote default config to %s\n", path)
	return nil
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config file")
	configInitCmd.Flags().StringVar(&configPath, "path", "", "where to write the config file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
