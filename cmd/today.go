package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	todayWeather bool
	todayIDs     bool
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's events",
	Long: `Show today's events in start order, the same as "agendactl show today".

With --ids only the event IDs are printed, one per line, for use in scripts.`,
	Example: `  agendactl today
  agendactl today --weather
  agendactl today --ids | xargs -n1 agendactl delete --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if todayIDs {
			return todayIDsRun(os.Stdout)
		}
		return showDay(os.Stdout, today(), todayWeather)
	},
}

// todayIDsRun prints the IDs of today's events in start order.
func todayIDsRun(w io.Writer) error {
	eng := dayEngine(today())
	if err := loadEngine(eng); err != nil {
		return err
	}
	i, ok := eng.SelectToday()
	if !ok {
		return nil
	}
	for _, e := range eng.Day(i).Events() {
		fmt.Fprintln(w, e.ID())
	}
	return nil
}

func init() {
	todayCmd.Flags().BoolVar(&todayWeather, "weather", false, "fetch weather icons for events with a location")
	todayCmd.Flags().BoolVar(&todayIDs, "ids", false, "print only event IDs")
	todayCmd.MarkFlagsMutuallyExclusive("weather", "ids")
	rootCmd.AddCommand(todayCmd)
}
