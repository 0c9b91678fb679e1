// Package calendar implements the agenda engine: a rolling, week-aligned
// window of days around today, event placement by date, a single selected
// day and weather annotation of events.
//
// An Engine is not safe for concurrent use. Results produced on other
// goroutines (weather fetches) must be handed back to the goroutine that owns
// the engine before calling AttachWeatherIcon.
package calendar

import (
	"encoding/json"
	"time"

	"github.com/chris-regnier/agendactl/internal/dateutil"
	"github.com/chris-regnier/agendactl/internal/day"
	"github.com/chris-regnier/agendactl/internal/event"
)

const (
	// DefaultDaysBeforeToday is the window size before today used by the CLI.
	DefaultDaysBeforeToday = 90
	// DefaultDaysAfterToday is the window size after today used by the CLI.
	DefaultDaysAfterToday = 360
)

// Engine owns the ordered days of the window and the selection state.
type Engine struct {
	days         []*day.Day
	selected     int
	hasSelection bool

	observer Observer
	now      func() time.Time
	loc      *time.Location
}

// Option configures an Engine.
type Option func(*Engine)

// WithNow overrides the clock used to determine today.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation sets the time zone in which dates are computed.
// The default is time.Local.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithObserver registers the engine's observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.SetObserver(o)
	}
}

// New builds the day window [today-daysBeforeToday, today+daysAfterToday]
// and trims it so that it starts on a Sunday and ends on a Saturday. The
// resulting number of days is a multiple of 7 and at most 12 fewer than the
// untrimmed range. Negative bounds are treated as 0.
func New(daysBeforeToday, daysAfterToday int, opts ...Option) *Engine {
	e := &Engine{
		observer: NopObserver{},
		now:      time.Now,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(e)
	}

	daysBeforeToday = max(daysBeforeToday, 0)
	daysAfterToday = max(daysAfterToday, 0)

	today := dateutil.StartOfDay(e.now(), e.loc)
	days := make([]*day.Day, 0, daysBeforeToday+daysAfterToday+1)
	for offset := -daysBeforeToday; offset <= daysAfterToday; offset++ {
		days = append(days, day.New(today.AddDate(0, 0, offset)))
	}

	for len(days) > 0 && days[0].Weekday() != 1 {
		days = days[1:]
	}
	for len(days) > 0 && days[len(days)-1].Weekday() != 7 {
		days = days[:len(days)-1]
	}
	e.days = days
	return e
}

// SetObserver replaces the observer. A nil observer silences notifications.
func (e *Engine) SetObserver(o Observer) {
	if o == nil {
		o = NopObserver{}
	}
	e.observer = o
}

// Location returns the time zone the engine computes dates in.
func (e *Engine) Location() *time.Location { return e.loc }

// Today returns midnight of the current date in the engine's location.
func (e *Engine) Today() time.Time {
	return dateutil.StartOfDay(e.now(), e.loc)
}

// AddEvents places every event on the day matching its start date. Events
// whose date is outside the window are dropped. ModelIsReady fires once
// after the whole batch, even when the batch is empty.
func (e *Engine) AddEvents(events []event.Event) {
	for _, ev := range events {
		if i, ok := e.SearchDayIndex(ev, 0, len(e.days)); ok {
			e.days[i].AddEvent(ev)
		}
	}
	e.observer.ModelIsReady()
}

// LoadRecords decodes raw event records, drops those that are malformed or
// invalid, and ingests the rest with AddEvents. It returns the number of
// dropped records.
func (e *Engine) LoadRecords(raws []json.RawMessage) int {
	dropped := 0
	events := event.DecodeRecords(raws, func(int, error) { dropped++ })
	e.AddEvents(events)
	return dropped
}

// SelectDay makes the day at index the selected day. A previous selection is
// deselected first, and DidDeselect fires before DidSelect. Selecting the
// already selected index fires both for that index. Out of range indices are
// ignored.
func (e *Engine) SelectDay(index int) {
	if index < 0 || index >= len(e.days) {
		return
	}
	if e.hasSelection {
		prev := e.selected
		e.days[prev].Deselect()
		e.observer.DidDeselect(prev)
	}
	e.days[index].Select()
	e.selected = index
	e.hasSelection = true
	e.observer.DidSelect(index)
}

// SelectToday selects the day matching the current date and returns its
// index. It reports false and changes nothing when today is not in the
// window.
func (e *Engine) SelectToday() (int, bool) {
	i, ok := e.LinearDateIndex(e.now())
	if !ok {
		return 0, false
	}
	e.SelectDay(i)
	return i, true
}

// AttachWeatherIcon sets the weather icon of an event and fires
// DidUpdateEvent. Indices that no longer exist are ignored, since weather
// results may arrive after the window changed.
func (e *Engine) AttachWeatherIcon(dayIndex, eventIndex int, icon string) {
	if dayIndex < 0 || dayIndex >= len(e.days) {
		return
	}
	if !e.days[dayIndex].SetWeatherIcon(eventIndex, icon) {
		return
	}
	e.observer.DidUpdateEvent(dayIndex, eventIndex)
}

// RequestWeather asks the observer to fetch the weather icon for an event
// that has a location and no icon yet. It reports whether a fetch was
// requested.
func (e *Engine) RequestWeather(dayIndex, eventIndex int) bool {
	if dayIndex < 0 || dayIndex >= len(e.days) {
		return false
	}
	ev, ok := e.days[dayIndex].Event(eventIndex)
	if !ok || ev.WeatherIcon() != "" {
		return false
	}
	loc, ok := ev.Location()
	if !ok {
		return false
	}
	e.observer.FetchWeatherIcon(dayIndex, eventIndex, loc, ev.Start().Unix())
	return true
}
