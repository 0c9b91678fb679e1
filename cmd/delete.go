package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chris-regnier/agendactl/internal/storage"
	"github.com/chris-regnier/agendactl/internal/ui"
	"github.com/spf13/cobra"
)

var forceDelete bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an event",
	Long:  "Permanently delete an event. Requires confirmation unless --force is used.",
	Example: `  agendactl delete a3kf9x2m
  agendactl delete a3kf9x2m --force`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm := func(prompt string) (bool, error) {
			return ui.Confirm(prompt, ui.ResolveTheme(appConfig.Theme))
		}
		if forceDelete {
			confirm = nil
		}
		return deleteRun(os.Stdout, args[0], confirm)
	},
}

// deleteRun deletes the event with id. When confirm is non-nil the event is
// shown and confirm decides whether to go ahead.
func deleteRun(w io.Writer, id string, confirm func(prompt string) (bool, error)) error {
	// Fetch event to confirm it exists and show a summary
	e, err := store.GetEvent(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("event %s not found", id)
		}
		return err
	}

	if confirm != nil {
		fmt.Fprintf(w, "Event: %s (%s)\n", e.Title(), e.Start().Local().Format("Mon 2006-01-02 15:04"))
		fmt.Fprintf(w, "Organizer: %s\n\n", e.Organizer().DisplayName())

		confirmed, err := confirm("Delete this event? This cannot be undone.")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	if err := store.DeleteEvent(id); err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	invalidatePrompt()

	if jsonOutput {
		return ui.FormatJSON(w, ui.DeleteResult{ID: id, Deleted: true})
	}
	ui.FormatEventDeleted(w, id)
	return nil
}

func init() {
	deleteCmd.Flags().BoolVar(&forceDelete, "force", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}
