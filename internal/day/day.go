// Package day provides the Day data structure for organizing calendar events.
// A Day is one calendar date inside the engine's window. It holds the events
// that start on that date, kept in chronological order, and a selection flag.
package day

import (
	"fmt"
	"sort"
	"time"

	"github.com/chris-regnier/agendactl/internal/dateutil"
	"github.com/chris-regnier/agendactl/internal/event"
)

// CellOptions is a bit set describing how a day cell should be decorated.
type CellOptions uint8

const (
	// FirstDay marks the first day of a month
	FirstDay CellOptions = 1 << iota
	// Selected marks the currently selected day
	Selected
	// HasEvent marks a day with at least one event
	HasEvent
)

// Has reports whether all bits of o are set in c.
func (c CellOptions) Has(o CellOptions) bool {
	return c&o == o
}

// Day represents a single calendar date and the events starting on it.
// Day, Month, Year and Weekday are fixed at construction.
type Day struct {
	date    time.Time
	day     int
	month   int
	year    int
	weekday int

	// events is kept sorted ascending by start time
	events   []event.Event
	selected bool
}

// NormalizeDate normalizes a time.Time to midnight (00:00:00) in loc.
// A nil loc means time.Local.
//
// Example:
//
//	input:  2024-01-15 14:30:45.123456789
//	output: 2024-01-15 00:00:00.0
func NormalizeDate(t time.Time, loc *time.Location) time.Time {
	return dateutil.StartOfDay(t, loc)
}

// New creates an empty, unselected Day for the calendar date of t, read in
// t's own location.
func New(t time.Time) *Day {
	d, m, y, w := dateutil.Fields(t)
	return &Day{
		date:    time.Date(y, time.Month(m), d, 0, 0, 0, 0, t.Location()),
		day:     d,
		month:   m,
		year:    y,
		weekday: w,
	}
}

// Date returns midnight of the day in the location it was created with.
func (d *Day) Date() time.Time { return d.date }

// Day returns the day of month (1-31).
func (d *Day) Day() int { return d.day }

// Month returns the month (1-12).
func (d *Day) Month() int { return d.month }

// Year returns the year.
func (d *Day) Year() int { return d.year }

// Weekday returns the weekday, 1=Sunday through 7=Saturday.
func (d *Day) Weekday() int { return d.weekday }

// AddEvent appends e and re-sorts the events by start time.
func (d *Day) AddEvent(e event.Event) {
	d.events = append(d.events, e)
	d.SortEvents()
}

// SortEvents sorts the day's events in ascending order by start time.
// Events with equal start times have no defined relative order.
func (d *Day) SortEvents() {
	sort.Slice(d.events, func(i, j int) bool {
		return event.Less(d.events[i], d.events[j])
	})
}

// FindEvent searches for an event by ID and returns its index.
// Returns -1 if the event is not found.
func (d *Day) FindEvent(id string) int {
	for i, e := range d.events {
		if e.ID() == id {
			return i
		}
	}
	return -1
}

// RemoveEvent removes an event by ID and returns true if successful.
// The remaining events stay sorted.
func (d *Day) RemoveEvent(id string) bool {
	index := d.FindEvent(id)
	if index == -1 {
		return false
	}
	d.events = append(d.events[:index], d.events[index+1:]...)
	return true
}

func (d *Day) Select() { d.selected = true }
func (d *Day) Deselect() { d.selected = false }

// IsSelected reports whether the day is the engine's selected day.
func (d *Day) IsSelected() bool { return d.selected }

// EventCount returns the number of events on the day.
func (d *Day) EventCount() int { return len(d.events) }

// HasEvent reports whether the day has at least one event.
func (d *Day) HasEvent() bool { return len(d.events) > 0 }

// Event returns the event at index i, or false when i is out of range.
func (d *Day) Event(i int) (event.Event, bool) {
	if i < 0 || i >= len(d.events) {
		return event.Event{}, false
	}
	return d.events[i], true
}

// Events returns a copy of the day's events in order.
func (d *Day) Events() []event.Event {
	out := make([]event.Event, len(d.events))
	copy(out, d.events)
	return out
}

// SetWeatherIcon attaches icon to the event at index i. It reports false and
// leaves the day untouched when i is out of range.
func (d *Day) SetWeatherIcon(i int, icon string) bool {
	if i < 0 || i >= len(d.events) {
		return false
	}
	d.events[i].SetWeatherIcon(icon)
	return true
}

// DayString is the two-digit day of month, e.g. "07".
func (d *Day) DayString() string { return dateutil.PadDay(d.day) }

// WeekdayString is the full weekday name, e.g. "Tuesday".
func (d *Day) WeekdayString() string { return dateutil.WeekdayName(d.weekday) }

// MonthString is the full month name, e.g. "November".
func (d *Day) MonthString() string { return dateutil.MonthName(d.month) }

// ShortMonthString is the three letter month name, e.g. "Nov".
func (d *Day) ShortMonthString() string { return dateutil.ShortMonthName(d.month) }

// TitleString is the month heading for the day, e.g. "November, 2024".
func (d *Day) TitleString() string {
	return fmt.Sprintf("%s, %d", d.MonthString(), d.year)
}

// DisplayString is the section header for the day, e.g. "Tuesday, November 05".
func (d *Day) DisplayString() string {
	return fmt.Sprintf("%s, %s %s", d.WeekdayString(), d.MonthString(), d.DayString())
}

// CellOptions derives the decoration bits for the day's cell.
func (d *Day) CellOptions() CellOptions {
	var opts CellOptions
	if d.selected {
		opts |= Selected
	}
	if d.day == 1 {
		opts |= FirstDay
	}
	if len(d.events) > 0 {
		opts |= HasEvent
	}
	return opts
}
