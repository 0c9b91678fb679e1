package calendar

import (
	"time"

	"github.com/chris-regnier/agendactl/internal/day"
	"github.com/chris-regnier/agendactl/internal/event"
)

// EventInfo is the read-only view of an event handed to presentation code.
// event.Event satisfies it.
type EventInfo interface {
	ID() string
	Title() string
	Start() time.Time
	End() time.Time
	Organizer() event.Person
	Attendees() []event.Person
	Location() (event.Location, bool)
	Notes() string
	WeatherIcon() string
	StartTimeString() string
	DurationString() string
	Status(now time.Time) event.Status
}

// DayInfo is the read-only view of a day.
type DayInfo interface {
	Date() time.Time
	Day() int
	Month() int
	Year() int
	Weekday() int
	HasEvent() bool
	EventCount() int
	IsSelected() bool
	DayString() string
	WeekdayString() string
	ShortMonthString() string
	DisplayString() string
	TitleString() string
	CellOptions() day.CellOptions
	EventInfo(index int) (EventInfo, bool)
	Events() []EventInfo
}

type dayView struct {
	d *day.Day
}

func (v dayView) Date() time.Time { return v.d.Date() }
func (v dayView) Day() int { return v.d.Day() }
func (v dayView) Month() int { return v.d.Month() }
func (v dayView) Year() int { return v.d.Year() }
func (v dayView) Weekday() int { return v.d.Weekday() }
func (v dayView) HasEvent() bool { return v.d.HasEvent() }
func (v dayView) EventCount() int { return v.d.EventCount() }
func (v dayView) IsSelected() bool { return v.d.IsSelected() }
func (v dayView) DayString() string { return v.d.DayString() }
func (v dayView) WeekdayString() string { return v.d.WeekdayString() }
func (v dayView) ShortMonthString() string { return v.d.ShortMonthString() }
func (v dayView) DisplayString() string { return v.d.DisplayString() }
func (v dayView) TitleString() string { return v.d.TitleString() }
func (v dayView) CellOptions() day.CellOptions { return v.d.CellOptions() }

func (v dayView) EventInfo(index int) (EventInfo, bool) {
	ev, ok := v.d.Event(index)
	if !ok {
		return nil, false
	}
	return ev, true
}

func (v dayView) Events() []EventInfo {
	events := v.d.Events()
	out := make([]EventInfo, len(events))
	for i, ev := range events {
		out[i] = ev
	}
	return out
}

// DayCount returns the number of days in the window.
func (e *Engine) DayCount() int { return len(e.days) }

// Day returns a read-only view of the day at index, or nil when index is
// out of range.
func (e *Engine) Day(index int) DayInfo {
	if index < 0 || index >= len(e.days) {
		return nil
	}
	return dayView{d: e.days[index]}
}

// SelectedIndex returns the selected day, if any.
func (e *Engine) SelectedIndex() (int, bool) {
	return e.selected, e.hasSelection
}

// DisplayString returns the section header of the day at index,
// e.g. "Tuesday, November 05".
func (e *Engine) DisplayString(index int) string {
	if v := e.Day(index); v != nil {
		return v.DisplayString()
	}
	return ""
}

// DateString returns the two-digit day of month of the day at index.
func (e *Engine) DateString(index int) string {
	if v := e.Day(index); v != nil {
		return v.DayString()
	}
	return ""
}

// TitleForIndex returns the month heading, e.g. "November, 2024".
func (e *Engine) TitleForIndex(index int) string {
	if v := e.Day(index); v != nil {
		return v.TitleString()
	}
	return ""
}

func (e *Engine) IsSelected(index int) bool {
	if v := e.Day(index); v != nil {
		return v.IsSelected()
	}
	return false
}

func (e *Engine) CellOptions(index int) day.CellOptions {
	if v := e.Day(index); v != nil {
		return v.CellOptions()
	}
	return 0
}

// Range returns the first and last dates of the window. Both are zero when
// the window is empty.
func (e *Engine) Range() (first, last time.Time) {
	if len(e.days) == 0 {
		return time.Time{}, time.Time{}
	}
	return e.days[0].Date(), e.days[len(e.days)-1].Date()
}
