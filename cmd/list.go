package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chris-regnier/agendactl/internal/calendar"
	"github.com/chris-regnier/agendactl/internal/ui"
	"github.com/spf13/cobra"
)

var (
	listFrom  string
	listTo    string
	listLimit int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List days with events",
	Long: `List the days that have events, with the event count and the first event.

Without --from and --to the configured window around today is listed
(days_before_today and days_after_today).`,
	Example: `  agendactl list
  agendactl list --from today --to 2026-12-31
  agendactl list --limit 5 --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		from := today().AddDate(0, 0, -appConfig.DaysBeforeToday)
		to := today().AddDate(0, 0, appConfig.DaysAfterToday)
		if listFrom != "" {
			t, err := parseDay(listFrom)
			if err != nil {
				return err
			}
			from = t
		}
		if listTo != "" {
			t, err := parseDay(listTo)
			if err != nil {
				return err
			}
			to = t
		}
		if to.Before(from) {
			return fmt.Errorf("--to %s is before --from %s", to.Format("2006-01-02"), from.Format("2006-01-02"))
		}
		return listRun(os.Stdout, from, to, listLimit)
	},
}

// listRun writes the days in [from, to] that have events, at most limit of
// them when limit is positive.
func listRun(w io.Writer, from, to time.Time, limit int) error {
	eng := rangeEngine(from, to)
	if err := loadEngine(eng); err != nil {
		return err
	}

	var days []calendar.DayInfo
	for i := 0; i < eng.DayCount(); i++ {
		d := eng.Day(i)
		if !d.HasEvent() || d.Date().Before(from) || d.Date().After(to) {
			continue
		}
		days = append(days, d)
		if limit > 0 && len(days) == limit {
			break
		}
	}

	if jsonOutput {
		return ui.FormatJSON(w, ui.ToDaysJSON(days))
	}

	var buf bytes.Buffer
	ui.FormatDayList(&buf, days)
	return ui.OutputOrPage(w, "Days with events", buf.String(), tuiConfig())
}

func init() {
	listCmd.Flags().StringVar(&listFrom, "from", "", "first day to list (YYYY-MM-DD, today, ...)")
	listCmd.Flags().StringVar(&listTo, "to", "", "last day to list (YYYY-MM-DD, today, ...)")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of days to list (0 = no limit)")
	rootCmd.AddCommand(listCmd)
}
