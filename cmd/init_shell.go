package cmd

import (
	"github.com/chris-regnier/agendactl/internal/shell"
	"github.com/spf13/cobra"
)

var initNoCompletions bool

var initShellCmd = &cobra.Command{
	Use:   "init <bash|zsh>",
	Short: "Print the shell integration script",
	Long: `Print a script that hooks agendactl into your shell prompt.

The script defines agendactl_prompt_info, exports AGENDACTL_ICON,
AGENDACTL_TODAY, AGENDACTL_NEXT and AGENDACTL_NEXT_IN before every prompt,
and loads shell completions unless --no-completions is given.`,
	Example: `  echo 'eval "$(agendactl init bash)"' >> ~/.bashrc
  echo 'eval "$(agendactl init zsh)"' >> ~/.zshrc`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: shell.Supported(),
	// The script never touches storage.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.WriteInit(cmd.OutOrStdout(), args[0], !initNoCompletions)
	},
}

func init() {
	initShellCmd.Flags().BoolVar(&initNoCompletions, "no-completions", false, "leave out shell completions")
	rootCmd.AddCommand(initShellCmd)
}
