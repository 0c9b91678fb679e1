package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gosuri/uitable"

	"github.com/chris-regnier/agendactl/internal/calendar"
	"github.com/chris-regnier/agendactl/internal/event"
)

// FormatEventCreated formats a creation confirmation message.
func FormatEventCreated(w io.Writer, e event.Event) {
	fmt.Fprintf(w, "Created event %s (%s)\n", e.ID(), e.Start().Local().Format("2006-01-02 15:04"))
}

// FormatEventDeleted formats a deletion confirmation message.
func FormatEventDeleted(w io.Writer, id string) {
	fmt.Fprintf(w, "Deleted event %s.\n", id)
}

// FormatImportResult formats the outcome of importing one file.
func FormatImportResult(w io.Writer, r ImportResult) {
	fmt.Fprintf(w, "%s: imported %d, skipped %d, already present %d\n",
		r.File, r.Imported, r.Skipped, r.Conflicts)
}

// WeatherGlyph maps a forecast icon name to a short terminal glyph. Unknown
// names are returned unchanged.
func WeatherGlyph(icon string) string {
	switch icon {
	case "clear-day":
		return "☀"
	case "clear-night":
		return "☾"
	case "rain":
		return "☂"
	case "snow", "sleet":
		return "❄"
	case "wind":
		return "≋"
	case "fog":
		return "▒"
	case "cloudy":
		return "☁"
	case "partly-cloudy-day", "partly-cloudy-night":
		return "⛅"
	default:
		return icon
	}
}

// EventLine is the one-line summary of an event used in agenda listings,
// e.g. "09: 30 AM  1h 30m  Picnic ☀".
func EventLine(e calendar.EventInfo) string {
	line := fmt.Sprintf("%s  %-7s  %s", e.StartTimeString(), e.DurationString(), e.Title())
	if icon := e.WeatherIcon(); icon != "" {
		line += " " + WeatherGlyph(icon)
	}
	return line
}

// FormatDay writes a day header followed by its events with full details.
// Notes are rendered as markdown with the given glamour style.
func FormatDay(w io.Writer, d calendar.DayInfo, markdownStyle string) {
	fmt.Fprintln(w, d.DisplayString())
	events := d.Events()
	if len(events) == 0 {
		fmt.Fprintln(w, "  No events.")
		return
	}
	for i, e := range events {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "  %s\n", EventLine(e))
		fmt.Fprintf(w, "    id: %s\n", e.ID())
		fmt.Fprintf(w, "    organizer: %s\n", e.Organizer().DisplayName())
		if attendees := e.Attendees(); len(attendees) > 0 {
			names := make([]string, len(attendees))
			for j, p := range attendees {
				names[j] = p.DisplayName()
			}
			fmt.Fprintf(w, "    attendees: %s\n", strings.Join(names, ", "))
		}
		if loc, ok := e.Location(); ok {
			fmt.Fprintf(w, "    location: %s (%.4f, %.4f)\n", loc.Description, loc.Latitude, loc.Longitude)
		}
		if notes := e.Notes(); notes != "" {
			rendered := RenderNotes(notes, 76, markdownStyle)
			for _, line := range strings.Split(rendered, "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}
}

// FormatDayList formats days as a table with one row per day.
func FormatDayList(w io.Writer, days []calendar.DayInfo) {
	if len(days) == 0 {
		fmt.Fprintln(w, "No events found.")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 50
	tbl.AddRow("DATE", "DAY", "EVENTS", "FIRST")
	for _, d := range days {
		first := ""
		if e, ok := d.EventInfo(0); ok {
			first = e.StartTimeString() + "  " + e.Title()
		}
		tbl.AddRow(d.Date().Format("2006-01-02"), d.WeekdayString(), d.EventCount(), first)
	}
	fmt.Fprintln(w, tbl)
}

// FormatJSON writes any value as JSON to the writer.
func FormatJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PersonJSON is the JSON representation of an organizer or attendee.
type PersonJSON struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// LocationJSON is the JSON representation of an event location.
type LocationJSON struct {
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// EventJSON is the JSON representation of an event.
type EventJSON struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Start       time.Time     `json:"start"`
	End         time.Time     `json:"end"`
	Duration    string        `json:"duration"`
	Organizer   PersonJSON    `json:"organizer"`
	Attendees   []PersonJSON  `json:"attendees,omitempty"`
	Location    *LocationJSON `json:"location,omitempty"`
	Notes       string        `json:"notes,omitempty"`
	WeatherIcon string        `json:"weather_icon,omitempty"`
}

// ToEventJSON converts an event for JSON output.
func ToEventJSON(e calendar.EventInfo) EventJSON {
	org := e.Organizer()
	out := EventJSON{
		ID:          e.ID(),
		Title:       e.Title(),
		Start:       e.Start(),
		End:         e.End(),
		Duration:    e.DurationString(),
		Organizer:   PersonJSON{Email: org.Email, Name: org.Name},
		Notes:       e.Notes(),
		WeatherIcon: e.WeatherIcon(),
	}
	for _, p := range e.Attendees() {
		out.Attendees = append(out.Attendees, PersonJSON{Email: p.Email, Name: p.Name})
	}
	if loc, ok := e.Location(); ok {
		out.Location = &LocationJSON{
			Description: loc.Description,
			Latitude:    loc.Latitude,
			Longitude:   loc.Longitude,
		}
	}
	return out
}

// DayJSON is the JSON representation of a day and its events.
type DayJSON struct {
	Date    string      `json:"date"`
	Display string      `json:"display"`
	Count   int         `json:"count"`
	Events  []EventJSON `json:"events"`
}

// ToDayJSON converts a day for JSON output.
func ToDayJSON(d calendar.DayInfo) DayJSON {
	events := d.Events()
	out := DayJSON{
		Date:    d.Date().Format("2006-01-02"),
		Display: d.DisplayString(),
		Count:   len(events),
		Events:  make([]EventJSON, len(events)),
	}
	for i, e := range events {
		out.Events[i] = ToEventJSON(e)
	}
	return out
}

// ToDaysJSON converts days for JSON output.
func ToDaysJSON(days []calendar.DayInfo) []DayJSON {
	out := make([]DayJSON, len(days))
	for i, d := range days {
		out[i] = ToDayJSON(d)
	}
	return out
}

// DeleteResult is a JSON representation for delete output.
type DeleteResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// ImportResult summarizes the import of one file.
type ImportResult struct {
	File      string `json:"file"`
	Imported  int    `json:"imported"`
	Skipped   int    `json:"skipped"`
	Conflicts int    `json:"conflicts"`
}
