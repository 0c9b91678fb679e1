package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/chris-regnier/agendactl/internal/calendar"
	"github.com/chris-regnier/agendactl/internal/dateutil"
	"github.com/chris-regnier/agendactl/internal/event"
	"github.com/chris-regnier/agendactl/internal/log"
	"github.com/chris-regnier/agendactl/internal/shell"
	"github.com/chris-regnier/agendactl/internal/storage"
	"github.com/chris-regnier/agendactl/internal/ui"
	"github.com/chris-regnier/agendactl/internal/weather"
)

// weatherConcurrency bounds parallel forecast requests from the CLI.
const weatherConcurrency = 4

// today returns midnight of the current local date.
func today() time.Time {
	return dateutil.StartOfDay(now(), time.Local)
}

// parseDay parses a day argument: YYYY-MM-DD or one of today, tomorrow and
// yesterday. The result is local midnight.
func parseDay(s string) (time.Time, error) {
	switch strings.ToLower(s) {
	case "", "today":
		return today(), nil
	case "tomorrow":
		return today().AddDate(0, 0, 1), nil
	case "yesterday":
		return today().AddDate(0, 0, -1), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return t, nil
}

// parseEventTime parses an event time given as RFC 3339 or as
// "YYYY-MM-DD HH:MM" local time.
func parseEventTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q (use RFC 3339 or \"YYYY-MM-DD HH:MM\")", s)
}

// windowEngine builds the engine for the configured window around today.
func windowEngine() *calendar.Engine {
	return calendar.New(appConfig.DaysBeforeToday, appConfig.DaysAfterToday, calendar.WithNow(now))
}

// dayEngine builds a small engine whose "today" is date. A one week margin
// on both sides keeps date inside the window after trimming to whole weeks.
func dayEngine(date time.Time) *calendar.Engine {
	return calendar.New(7, 7, calendar.WithNow(func() time.Time { return date }))
}

// rangeEngine builds an engine around today that covers [from, to].
func rangeEngine(from, to time.Time) *calendar.Engine {
	t := today()
	before := max(dateutil.DaysBetween(from, t), 0) + 7
	after := max(dateutil.DaysBetween(t, to), 0) + 7
	return calendar.New(before, after, calendar.WithNow(now))
}

// loadEngine fills the engine with the stored events of its window.
func loadEngine(eng *calendar.Engine) error {
	first, last := eng.Range()
	if first.IsZero() {
		eng.AddEvents(nil)
		return nil
	}
	events, err := store.ListEvents(storage.ListOptions{
		Start: first,
		End:   last.AddDate(0, 0, 1),
	})
	if err != nil {
		return fmt.Errorf("listing events: %w", err)
	}
	eng.AddEvents(events)
	return nil
}

// weatherFetcher returns the configured forecast source, or nil when weather
// lookups are disabled.
func weatherFetcher() weather.Fetcher {
	wc := appConfig.Weather
	if !wc.Enabled {
		return nil
	}
	if wc.APIKey == "" {
		log.Info("weather enabled without api_key, skipping lookups")
		return nil
	}
	var f weather.Fetcher = weather.NewClient(wc.BaseURL, wc.APIKey, wc.TimeoutDuration())
	if wc.Cache {
		f = weather.NewCache(filepath.Join(appConfig.DataDir, "weather-cache"), f)
	}
	return f
}

// dispatchObserver forwards the engine's weather requests to a dispatcher.
type dispatchObserver struct {
	calendar.NopObserver
	d *weather.Dispatcher
}

func (o dispatchObserver) FetchWeatherIcon(dayIndex, eventIndex int, loc event.Location, ts int64) {
	o.d.Dispatch(weather.Request{
		DayIndex:   dayIndex,
		EventIndex: eventIndex,
		Location:   loc,
		Timestamp:  ts,
	})
}

// resolveWeather fetches icons for the events of the day at dayIndex and
// attaches them. Failed lookups leave the event without an icon.
func resolveWeather(ctx context.Context, eng *calendar.Engine, dayIndex int, f weather.Fetcher) {
	d := eng.Day(dayIndex)
	if d == nil {
		return
	}
	disp := weather.NewDispatcher(ctx, f, weatherConcurrency)
	eng.SetObserver(dispatchObserver{d: disp})
	for i := 0; i < d.EventCount(); i++ {
		eng.RequestWeather(dayIndex, i)
	}
	eng.SetObserver(nil)
	disp.Close()

	for res := range disp.Results() {
		if res.Err == nil && res.Icon != "" {
			eng.AttachWeatherIcon(res.DayIndex, res.EventIndex, res.Icon)
		}
	}
}

func tuiConfig() ui.TUIConfig {
	return ui.TUIConfig{
		MaxWidth: appConfig.MaxWidth,
		Theme:    ui.ResolveTheme(appConfig.Theme),
		Weather:  weatherFetcher(),
	}
}

// invalidatePrompt drops the shell prompt cache after a write. Failures are
// logged and otherwise ignored.
func invalidatePrompt() {
	if appConfig == nil || appConfig.DataDir == "" {
		return
	}
	if err := shell.Invalidate(appConfig.DataDir); err != nil {
		log.Debug("invalidating prompt cache", "err", err)
	}
}

// promptInvalidating drops the prompt cache after every successful write
// made through it.
type promptInvalidating struct {
	storage.Storage
}

func (s promptInvalidating) CreateEvent(e event.Event) error {
	if err := s.Storage.CreateEvent(e); err != nil {
		return err
	}
	invalidatePrompt()
	return nil
}

func (s promptInvalidating) DeleteEvent(id string) error {
	if err := s.Storage.DeleteEvent(id); err != nil {
		return err
	}
	invalidatePrompt()
	return nil
}
