package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chris-regnier/agendactl/internal/ui"
	"github.com/spf13/cobra"
)

var showWeather bool

var showCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show the events of a day",
	Long: `Display the events of one day with organizer, attendees, location and notes.

The date is YYYY-MM-DD or one of today, tomorrow and yesterday (default today).
With --weather, forecast icons are fetched for events that have a location.`,
	Example: `  agendactl show 2026-03-14
  agendactl show tomorrow --weather
  agendactl show 2026-03-14 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		date, err := parseDay(arg)
		if err != nil {
			return err
		}
		return showDay(os.Stdout, date, showWeather)
	},
}

// showDay writes the day at date, optionally resolving weather icons first.
func showDay(w io.Writer, date time.Time, withWeather bool) error {
	eng := dayEngine(date)
	if err := loadEngine(eng); err != nil {
		return err
	}
	i, ok := eng.SelectToday()
	if !ok {
		return fmt.Errorf("date %s is outside the calendar window", date.Format("2006-01-02"))
	}

	if withWeather {
		f := weatherFetcher()
		if f == nil {
			return errors.New("weather lookups are disabled (set weather.enabled and weather.api_key)")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*appConfig.Weather.TimeoutDuration())
		defer cancel()
		resolveWeather(ctx, eng, i, f)
	}

	d := eng.Day(i)
	if jsonOutput {
		return ui.FormatJSON(w, ui.ToDayJSON(d))
	}

	cfg := tuiConfig()
	var buf bytes.Buffer
	ui.FormatDay(&buf, d, cfg.Theme.MarkdownStyle)
	return ui.OutputOrPage(w, d.DisplayString(), buf.String(), cfg)
}

func init() {
	showCmd.Flags().BoolVar(&showWeather, "weather", false, "fetch weather icons for events with a location")
	rootCmd.AddCommand(showCmd)
}
