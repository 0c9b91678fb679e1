package ui

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chris-regnier/agendactl/internal/calendar"
	"github.com/chris-regnier/agendactl/internal/config"
	"github.com/chris-regnier/agendactl/internal/event"
	"github.com/chris-regnier/agendactl/internal/storage"
)

// 2024-05-08 is a Wednesday. A (7, 14) window trims to Sun May 5 .. Sat May 18,
// which puts today at index 3.
var agendaNow = time.Date(2024, 5, 8, 10, 0, 0, 0, time.UTC)

const todayIndex = 3

type mockStore struct {
	events []event.Event
	err    error
	opts   storage.ListOptions
}

func (s *mockStore) ListEvents(opts storage.ListOptions) ([]event.Event, error) {
	s.opts = opts
	return s.events, s.err
}

type iconFetcher struct {
	icon  string
	calls atomic.Int32
}

func (f *iconFetcher) FetchIcon(context.Context, float64, float64, int64) (string, error) {
	f.calls.Add(1)
	return f.icon, nil
}

func testEvent(t *testing.T, title string, start time.Time, withLocation bool) event.Event {
	t.Helper()
	f := event.Fields{
		Title:     title,
		Start:     start,
		End:       start.Add(time.Hour),
		Organizer: event.Person{Email: "owner@example.com", Name: "Owner"},
		Notes:     "Agenda for **" + title + "**",
	}
	if withLocation {
		loc := event.Location{Description: "Park", Latitude: 37.77, Longitude: -122.48}
		f.Location = &loc
	}
	e, err := event.New(f)
	if err != nil {
		t.Fatalf("event.New: %v", err)
	}
	return e
}

func newTestAgenda(t *testing.T, store *mockStore, fetcher *iconFetcher) agendaModel {
	t.Helper()
	eng := calendar.New(7, 14,
		calendar.WithNow(func() time.Time { return agendaNow }),
		calendar.WithLocation(time.UTC))
	cfg := TUIConfig{Theme: ResolveTheme(config.ThemeConfig{Preset: "default-dark"})}
	if fetcher != nil {
		cfg.Weather = fetcher
	}
	m := newAgendaModel(store, eng, cfg)

	sized, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m = sized.(agendaModel)

	loaded, cmd := m.Update(m.loadEventsCmd())
	m = loaded.(agendaModel)
	return runCmds(t, m, cmd)
}

// runCmds executes cmd and feeds the resulting messages back into the model
// until no commands remain.
func runCmds(t *testing.T, m agendaModel, cmd tea.Cmd) agendaModel {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 100 {
			t.Fatal("too many commands")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		updated, next := m.Update(msg)
		m = updated.(agendaModel)
		queue = append(queue, next)
	}
	return m
}

func press(m agendaModel, key string) agendaModel {
	var msg tea.KeyMsg
	switch key {
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, _ := m.Update(msg)
	return updated.(agendaModel)
}

func selected(t *testing.T, m agendaModel) int {
	t.Helper()
	i, ok := m.engine.SelectedIndex()
	if !ok {
		t.Fatal("no day selected")
	}
	return i
}

func TestAgendaLoadSelectsToday(t *testing.T) {
	store := &mockStore{events: []event.Event{
		testEvent(t, "Standup", agendaNow.Add(-time.Hour), false),
		testEvent(t, "Out of window", agendaNow.AddDate(0, 2, 0), false),
	}}
	m := newTestAgenda(t, store, nil)

	if got := selected(t, m); got != todayIndex {
		t.Errorf("selected = %d, want %d", got, todayIndex)
	}
	if m.top != todayIndex || m.tracker.Minimum() != todayIndex {
		t.Errorf("top = %d, tracker minimum = %d, want %d", m.top, m.tracker.Minimum(), todayIndex)
	}
	if m.engine.Day(todayIndex).EventCount() != 1 {
		t.Errorf("today has %d events, want 1", m.engine.Day(todayIndex).EventCount())
	}

	first, last := m.engine.Range()
	if !store.opts.Start.Equal(first) || !store.opts.End.Equal(last.AddDate(0, 0, 1)) {
		t.Errorf("ListEvents window = %v..%v, want %v..%v", store.opts.Start, store.opts.End, first, last.AddDate(0, 0, 1))
	}
}

func TestAgendaLoadError(t *testing.T) {
	m := newAgendaModel(&mockStore{err: errors.New("boom")}, calendar.New(7, 14), TUIConfig{})
	updated, cmd := m.Update(m.loadEventsCmd())
	m = updated.(agendaModel)

	if m.err == nil {
		t.Fatal("expected load error to be kept")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestAgendaDayNavigation(t *testing.T) {
	m := newTestAgenda(t, &mockStore{}, nil)

	steps := []struct {
		key  string
		want int
	}{
		{"right", 4},
		{"left", 3},
		{"h", 2},
		{"]", 9},
		{"[", 2},
		{"left", 1},
		{"left", 0},
		{"left", 0}, // boundary
		{"t", todayIndex},
		{"]", 10},
		{"]", 10}, // 17 is outside the window
		{"l", 11},
	}
	for _, s := range steps {
		m = press(m, s.key)
		if got := selected(t, m); got != s.want {
			t.Fatalf("after %q: selected = %d, want %d", s.key, got, s.want)
		}
		if m.top != s.want {
			t.Errorf("after %q: top = %d, want %d", s.key, m.top, s.want)
		}
		if m.tracker.Minimum() != m.top {
			t.Errorf("after %q: tracker minimum = %d, want %d", s.key, m.tracker.Minimum(), m.top)
		}
	}
}

func TestAgendaScrollMovesSelection(t *testing.T) {
	m := newTestAgenda(t, &mockStore{}, nil)

	m = press(m, "down")
	if m.top != todayIndex+1 {
		t.Fatalf("top = %d, want %d", m.top, todayIndex+1)
	}
	if got := selected(t, m); got != todayIndex+1 {
		t.Errorf("scrolling down: selected = %d, want %d", got, todayIndex+1)
	}

	m = press(m, "up")
	m = press(m, "k")
	if got := selected(t, m); got != todayIndex-1 {
		t.Errorf("scrolling up: selected = %d, want %d", got, todayIndex-1)
	}

	// The tracker holds exactly the visible sections.
	lo, hi := m.visibleRange(m.top)
	indices := m.tracker.Indices()
	if len(indices) != hi-lo || indices[0] != lo || indices[len(indices)-1] != hi-1 {
		t.Errorf("tracker indices = %v, want [%d..%d]", indices, lo, hi-1)
	}

	for i := 0; i < 5; i++ {
		m = press(m, "up")
	}
	if m.top != 0 || selected(t, m) != 0 {
		t.Errorf("top = %d, selected = %d, want 0 at the start of the window", m.top, selected(t, m))
	}
}

func TestAgendaWeather(t *testing.T) {
	store := &mockStore{events: []event.Event{
		testEvent(t, "Picnic", agendaNow.Add(2*time.Hour), true),
		testEvent(t, "Call", agendaNow.Add(3*time.Hour), false),
	}}
	fetcher := &iconFetcher{icon: "rain"}
	m := newTestAgenda(t, store, fetcher)

	e, ok := m.engine.Day(todayIndex).EventInfo(0)
	if !ok {
		t.Fatal("missing event")
	}
	if e.WeatherIcon() != "rain" {
		t.Errorf("WeatherIcon() = %q, want rain", e.WeatherIcon())
	}
	if got := fetcher.calls.Load(); got != 1 {
		t.Errorf("fetch calls = %d, want 1", got)
	}

	// Icons already attached are not fetched again.
	m = press(m, "down")
	m = press(m, "up")
	cmd := m.weatherCmds()
	m = runCmds(t, m, cmd)
	if got := fetcher.calls.Load(); got != 1 {
		t.Errorf("fetch calls after scrolling = %d, want 1", got)
	}

	if !strings.Contains(stripANSI(m.View()), "Picnic ☂") {
		t.Error("expected weather glyph next to the event")
	}
}

func TestAgendaView(t *testing.T) {
	store := &mockStore{events: []event.Event{
		testEvent(t, "Standup", time.Date(2024, 5, 8, 9, 0, 0, 0, time.UTC), false),
	}}
	m := newTestAgenda(t, store, nil)

	out := stripANSI(m.View())
	for _, want := range []string{"May, 2024", "Wednesday, May 08", "Standup", "Thursday, May 09", "No events", "q quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if lines := strings.Split(out, "\n"); len(lines) != 30 {
		t.Errorf("view has %d lines, want 30", len(lines))
	}
}

func TestAgendaDayDetail(t *testing.T) {
	store := &mockStore{events: []event.Event{
		testEvent(t, "Standup", agendaNow.Add(time.Hour), false),
	}}
	m := newTestAgenda(t, store, nil)

	m = press(m, "enter")
	if m.screen != screenDayDetail {
		t.Fatalf("screen = %d, want day detail", m.screen)
	}
	out := stripANSI(m.View())
	if !strings.Contains(out, "organizer: Owner") {
		t.Error("detail view should list the organizer")
	}

	m = press(m, "n")
	if got := selected(t, m); got != todayIndex+1 {
		t.Errorf("after n: selected = %d, want %d", got, todayIndex+1)
	}
	if !strings.Contains(stripANSI(m.View()), "No events.") {
		t.Error("empty day detail should say so")
	}

	m = press(m, "esc")
	if m.screen != screenAgenda {
		t.Errorf("screen = %d, want agenda", m.screen)
	}
}

func TestAgendaJumpList(t *testing.T) {
	store := &mockStore{events: []event.Event{
		testEvent(t, "Later", time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC), false),
	}}
	m := newTestAgenda(t, store, nil)

	m = press(m, "g")
	if m.screen != screenJump {
		t.Fatalf("screen = %d, want jump list", m.screen)
	}
	if n := len(m.jumpList.Items()); n != 1 {
		t.Fatalf("jump list has %d items, want 1", n)
	}

	m = press(m, "enter")
	if m.screen != screenAgenda {
		t.Errorf("screen = %d, want agenda", m.screen)
	}
	// May 15 is index 10.
	if got := selected(t, m); got != 10 {
		t.Errorf("selected = %d, want 10", got)
	}
}

func TestAgendaHelpOverlay(t *testing.T) {
	m := newTestAgenda(t, &mockStore{}, nil)

	m = press(m, "?")
	if !m.helpActive {
		t.Fatal("help should be active")
	}
	// Keys are swallowed while help is shown.
	m = press(m, "right")
	if got := selected(t, m); got != todayIndex {
		t.Errorf("selected = %d, want %d", got, todayIndex)
	}
	m = press(m, "?")
	if m.helpActive {
		t.Error("help should close")
	}
}

func TestWeatherGlyph(t *testing.T) {
	tests := []struct {
		icon string
		want string
	}{
		{"clear-day", "☀"},
		{"rain", "☂"},
		{"partly-cloudy-night", "⛅"},
		{"tornado", "tornado"},
	}
	for _, tt := range tests {
		if got := WeatherGlyph(tt.icon); got != tt.want {
			t.Errorf("WeatherGlyph(%q) = %q, want %q", tt.icon, got, tt.want)
		}
	}
}
