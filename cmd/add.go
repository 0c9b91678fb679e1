package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chris-regnier/agendactl/internal/editor"
	"github.com/chris-regnier/agendactl/internal/event"
	"github.com/chris-regnier/agendactl/internal/ui"
	"github.com/spf13/cobra"
)

// addOptions holds the flags of the add command.
type addOptions struct {
	title         string
	start         string
	end           string
	duration      time.Duration
	organizer     string
	organizerName string
	attendees     []string
	location      string
	lat           float64
	lon           float64
	notes         string
	edit          bool
}

var addOpts addOptions

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an event",
	Long: `Add an event to the calendar.

Times are RFC 3339 or "YYYY-MM-DD HH:MM" in local time. Give either --end or
--duration. A location needs --lat and --lon. With --edit, your editor opens
with the title and notes.`,
	Example: `  agendactl add --title Standup --start "2026-03-14 09:30" --duration 15m --organizer me@example.com
  agendactl add --title Picnic --start 2026-03-14T12:00:00-07:00 --end 2026-03-14T15:00:00-07:00 \
    --organizer me@example.com --attendee friend@example.com \
    --location "Golden Gate Park" --lat 37.7694 --lon -122.4862 --edit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		o := addOpts
		if cmd.Flags().Changed("lat") != cmd.Flags().Changed("lon") {
			return errors.New("--lat and --lon must be given together")
		}
		if o.location != "" && !cmd.Flags().Changed("lat") {
			return errors.New("--location needs --lat and --lon")
		}

		if o.edit {
			d, err := editor.Edit(editor.ResolveEditor(appConfig.Editor), editor.Draft{Title: o.title, Notes: o.notes})
			if err != nil {
				return err
			}
			o.title, o.notes = d.Title, d.Notes
		}
		return addRun(os.Stdout, o)
	},
}

// buildEvent turns the add flags into a validated event.
func buildEvent(o addOptions) (event.Event, error) {
	start, err := parseEventTime(o.start)
	if err != nil {
		return event.Event{}, err
	}

	var end time.Time
	switch {
	case o.end != "" && o.duration != 0:
		return event.Event{}, errors.New("give either --end or --duration, not both")
	case o.end != "":
		if end, err = parseEventTime(o.end); err != nil {
			return event.Event{}, err
		}
	case o.duration != 0:
		end = start.Add(o.duration)
	default:
		return event.Event{}, errors.New("--end or --duration is required")
	}

	f := event.Fields{
		Title:     o.title,
		Start:     start,
		End:       end,
		Organizer: event.Person{Email: o.organizer, Name: o.organizerName},
		Notes:     o.notes,
	}
	for _, email := range o.attendees {
		f.Attendees = append(f.Attendees, event.Person{Email: email})
	}
	if o.location != "" {
		l, err := event.NewLocation(o.location, o.lat, o.lon)
		if err != nil {
			return event.Event{}, err
		}
		f.Location = &l
	}
	return event.New(f)
}

func addRun(w io.Writer, o addOptions) error {
	e, err := buildEvent(o)
	if err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}
	if err := store.CreateEvent(e); err != nil {
		return fmt.Errorf("creating event: %w", err)
	}
	invalidatePrompt()

	if jsonOutput {
		return ui.FormatJSON(w, ui.ToEventJSON(e))
	}
	ui.FormatEventCreated(w, e)
	return nil
}

func init() {
	f := addCmd.Flags()
	f.StringVar(&addOpts.title, "title", "", "event title (required)")
	f.StringVar(&addOpts.start, "start", "", "start time (required)")
	f.StringVar(&addOpts.end, "end", "", "end time")
	f.DurationVar(&addOpts.duration, "duration", 0, "event length, e.g. 45m or 2h")
	f.StringVar(&addOpts.organizer, "organizer", "", "organizer email (required)")
	f.StringVar(&addOpts.organizerName, "organizer-name", "", "organizer display name")
	f.StringArrayVar(&addOpts.attendees, "attendee", nil, "attendee email (repeatable)")
	f.StringVar(&addOpts.location, "location", "", "location description")
	f.Float64Var(&addOpts.lat, "lat", 0, "location latitude")
	f.Float64Var(&addOpts.lon, "lon", 0, "location longitude")
	f.StringVar(&addOpts.notes, "notes", "", "markdown notes")
	f.BoolVar(&addOpts.edit, "edit", false, "edit the title and notes in your editor")
	_ = addCmd.MarkFlagRequired("title")
	_ = addCmd.MarkFlagRequired("start")
	_ = addCmd.MarkFlagRequired("organizer")
	rootCmd.AddCommand(addCmd)
}
