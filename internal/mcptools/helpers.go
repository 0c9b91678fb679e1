package mcptools

import (
	"fmt"
	"time"

	"github.com/chris-regnier/agendactl/internal/event"
)

func parseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q: want RFC 3339 or YYYY-MM-DD HH:MM", s)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func toEventResult(e event.Event, loc *time.Location) EventResult {
	r := EventResult{
		ID:        e.ID(),
		Title:     e.Title(),
		Start:     e.Start().In(loc).Format(time.RFC3339),
		End:       e.End().In(loc).Format(time.RFC3339),
		Duration:  e.DurationString(),
		Organizer: e.Organizer().DisplayName(),
		Attendees: []string{},
		Notes:     truncate(e.Notes(), 500),
	}
	for _, p := range e.Attendees() {
		r.Attendees = append(r.Attendees, p.DisplayName())
	}
	if l, ok := e.Location(); ok {
		r.Location = l.Description
	}
	return r
}
