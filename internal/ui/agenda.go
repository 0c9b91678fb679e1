package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chris-regnier/agendactl/internal/calendar"
	"github.com/chris-regnier/agendactl/internal/day"
	"github.com/chris-regnier/agendactl/internal/event"
	"github.com/chris-regnier/agendactl/internal/storage"
	"github.com/chris-regnier/agendactl/internal/tracker"
	"github.com/chris-regnier/agendactl/internal/weather"
)

// agendaScreen represents the current screen state.
type agendaScreen int

const (
	screenAgenda agendaScreen = iota
	screenDayDetail
	screenJump
)

// Lines used by the chrome around the agenda: title, weekday names, week
// strip, a blank line and the footer.
const (
	headerLines = 4
	footerLines = 1
)

// StorageProvider abstracts storage operations for the TUI.
type StorageProvider interface {
	ListEvents(opts storage.ListOptions) ([]event.Event, error)
}

// TUIConfig holds configuration needed by the TUI.
type TUIConfig struct {
	MaxWidth int   // maximum viewport width (0 = no limit)
	Theme    Theme // resolved theme
	// Weather resolves forecast icons for events with a location.
	// Nil disables weather lookups.
	Weather weather.Fetcher
}

// dayItem implements list.Item for a day with events.
type dayItem struct {
	index int
	day   calendar.DayInfo
}

func (d dayItem) Title() string {
	label := "events"
	if d.day.EventCount() == 1 {
		label = "event"
	}
	return fmt.Sprintf("%s  (%d %s)", d.day.DisplayString(), d.day.EventCount(), label)
}

func (d dayItem) Description() string {
	if e, ok := d.day.EventInfo(0); ok {
		return EventLine(e)
	}
	return ""
}

func (d dayItem) FilterValue() string { return d.day.Date().Format("2006-01-02") }

// agendaObserver collects engine notifications for the model. It is shared
// by pointer between copies of the model.
type agendaObserver struct {
	calendar.NopObserver
	ready    bool
	pending  []weather.Request
	inflight map[[2]int]bool
}

func (o *agendaObserver) ModelIsReady() { o.ready = true }

func (o *agendaObserver) FetchWeatherIcon(dayIndex, eventIndex int, loc event.Location, ts int64) {
	key := [2]int{dayIndex, eventIndex}
	if o.inflight[key] {
		return
	}
	o.inflight[key] = true
	o.pending = append(o.pending, weather.Request{
		DayIndex:   dayIndex,
		EventIndex: eventIndex,
		Location:   loc,
		Timestamp:  ts,
	})
}

type eventsLoadedMsg struct {
	events []event.Event
	err    error
}

type weatherMsg weather.Result

// agendaModel is the Bubble Tea model of the agenda: a week strip for the
// selected day above a scrolling list of day sections.
type agendaModel struct {
	store   StorageProvider
	cfg     TUIConfig
	engine  *calendar.Engine
	tracker *tracker.Tracker
	obs     *agendaObserver
	ctx     context.Context

	screen   agendaScreen
	top      int // first visible section
	viewport viewport.Model
	jumpList list.Model

	helpActive bool
	width      int
	height     int
	ready      bool
	err        error
}

func newAgendaModel(store StorageProvider, engine *calendar.Engine, cfg TUIConfig) agendaModel {
	obs := &agendaObserver{inflight: make(map[[2]int]bool)}
	engine.SetObserver(obs)

	// Scrolling the agenda moves the selection to the first visible day,
	// unless the scroll came from a jump the model made itself.
	t := tracker.New(tracker.ObserverFunc(func(newValue, _ int, wasReset bool) {
		if !wasReset {
			engine.SelectDay(newValue)
		}
	}))

	return agendaModel{
		store:   store,
		cfg:     cfg,
		engine:  engine,
		tracker: t,
		obs:     obs,
		ctx:     context.Background(),
		screen:  screenAgenda,
	}
}

func (m agendaModel) Init() tea.Cmd {
	return m.loadEventsCmd
}

func (m agendaModel) loadEventsCmd() tea.Msg {
	first, last := m.engine.Range()
	if first.IsZero() {
		return eventsLoadedMsg{}
	}
	events, err := m.store.ListEvents(storage.ListOptions{
		Start: first,
		End:   last.AddDate(0, 0, 1),
	})
	return eventsLoadedMsg{events: events, err: err}
}

func (m agendaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.engine.AddEvents(msg.events)
		if !m.obs.ready || m.engine.DayCount() == 0 {
			return m, nil
		}
		i, ok := m.engine.SelectToday()
		if !ok {
			i = 0
			m.engine.SelectDay(i)
		}
		m.jumpTo(i)
		return m, m.weatherCmds()

	case weatherMsg:
		delete(m.obs.inflight, [2]int{msg.DayIndex, msg.EventIndex})
		if msg.Err == nil && msg.Icon != "" {
			m.engine.AttachWeatherIcon(msg.DayIndex, msg.EventIndex, msg.Icon)
			if m.screen == screenDayDetail {
				m.refreshDetail()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resync()
		switch m.screen {
		case screenDayDetail:
			m.viewport.Width = m.contentWidth()
			m.viewport.Height = m.detailHeight()
			m.refreshDetail()
		case screenJump:
			m.jumpList.SetSize(m.contentWidth(), msg.Height-footerLines)
		}
		return m, m.weatherCmds()

	case tea.KeyMsg:
		if m.helpActive {
			switch msg.String() {
			case "?", "esc":
				m.helpActive = false
			}
			return m, nil
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.screen {
		case screenAgenda:
			return m.updateAgenda(msg)
		case screenDayDetail:
			return m.updateDayDetail(msg)
		case screenJump:
			return m.updateJump(msg)
		}
	}

	var cmd tea.Cmd
	switch m.screen {
	case screenDayDetail:
		m.viewport, cmd = m.viewport.Update(msg)
	case screenJump:
		m.jumpList, cmd = m.jumpList.Update(msg)
	}
	return m, cmd
}

func (m agendaModel) updateAgenda(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sel, _ := m.engine.SelectedIndex()
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "?":
		m.helpActive = true
		return m, nil
	case "right", "l":
		m.selectDay(sel + 1)
	case "left", "h":
		m.selectDay(sel - 1)
	case "]":
		m.selectDay(sel + 7)
	case "[":
		m.selectDay(sel - 7)
	case "t":
		if i, ok := m.engine.SelectToday(); ok {
			m.jumpTo(i)
		}
	case "down", "j":
		m.scrollTo(m.top + 1)
	case "up", "k":
		m.scrollTo(m.top - 1)
	case "pgdown", "ctrl+d":
		_, hi := m.visibleRange(m.top)
		m.scrollTo(max(hi, m.top+1))
	case "pgup", "ctrl+u":
		m.scrollTo(m.top - max(m.agendaHeight()/3, 1))
	case "enter":
		return m.openDayDetail()
	case "g":
		return m.openJumpList()
	default:
		return m, nil
	}
	return m, m.weatherCmds()
}

func (m agendaModel) updateDayDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sel, _ := m.engine.SelectedIndex()
	switch msg.String() {
	case "esc", "q":
		m.screen = screenAgenda
		m.scrollTo(m.top)
		return m, nil
	case "right", "n":
		if sel+1 < m.engine.DayCount() {
			m.selectDay(sel + 1)
			m.refreshDetail()
		}
		return m, m.weatherCmds()
	case "left", "p":
		if sel > 0 {
			m.selectDay(sel - 1)
			m.refreshDetail()
		}
		return m, m.weatherCmds()
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m agendaModel) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.jumpList.FilterState() != list.Filtering {
		switch msg.String() {
		case "esc", "q":
			m.screen = screenAgenda
			m.scrollTo(m.top)
			return m, nil
		case "enter":
			if item, ok := m.jumpList.SelectedItem().(dayItem); ok {
				m.screen = screenAgenda
				m.selectDay(item.index)
				return m, m.weatherCmds()
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.jumpList, cmd = m.jumpList.Update(msg)
	return m, cmd
}

// selectDay selects the day at index and brings it to the top of the
// agenda. Out of range indices are ignored.
func (m *agendaModel) selectDay(index int) {
	if index < 0 || index >= m.engine.DayCount() {
		return
	}
	m.engine.SelectDay(index)
	m.jumpTo(index)
}

// jumpTo scrolls so that index is the first section without letting the
// tracker move the selection.
func (m *agendaModel) jumpTo(index int) {
	index = m.clampTop(index)
	if index != m.tracker.Minimum() {
		m.tracker.ResetWith(index)
	} else {
		m.tracker.Reset()
		m.tracker.Insert(index)
	}
	m.top = index
	lo, hi := m.visibleRange(index)
	for i := lo + 1; i < hi; i++ {
		m.tracker.Insert(i)
	}
}

// scrollTo moves the first visible section to top and reports sections
// entering and leaving the viewport to the tracker.
func (m *agendaModel) scrollTo(top int) {
	top = m.clampTop(top)
	oldLo, oldHi := m.visibleRange(m.top)
	if m.tracker.Len() == 0 {
		oldLo, oldHi = 0, 0
	}
	newLo, newHi := m.visibleRange(top)
	m.top = top

	if newHi <= oldLo || newLo >= oldHi {
		m.tracker.Reset()
		for i := newLo; i < newHi; i++ {
			m.tracker.Insert(i)
		}
		return
	}
	// Grow first so the tracker is never empty in between.
	for i := oldLo - 1; i >= newLo; i-- {
		m.tracker.Insert(i)
	}
	for i := oldHi; i < newHi; i++ {
		m.tracker.Insert(i)
	}
	for i := oldLo; i < newLo; i++ {
		m.tracker.Remove(i)
	}
	for i := oldHi - 1; i >= newHi; i-- {
		m.tracker.Remove(i)
	}
}

// resync rebuilds the tracker after the agenda height changed. The first
// section stays the same, so the selection does not move.
func (m *agendaModel) resync() {
	if m.engine.DayCount() == 0 {
		return
	}
	m.tracker.Reset()
	lo, hi := m.visibleRange(m.top)
	for i := lo; i < hi; i++ {
		m.tracker.Insert(i)
	}
}

func (m *agendaModel) clampTop(top int) int {
	return max(min(top, m.engine.DayCount()-1), 0)
}

// sectionHeight is the number of lines a day section takes: its header, one
// line per event (or a placeholder) and a separating blank line.
func (m *agendaModel) sectionHeight(index int) int {
	n := 1
	if d := m.engine.Day(index); d != nil {
		n = max(d.EventCount(), 1)
	}
	return n + 2
}

func (m *agendaModel) agendaHeight() int {
	return max(m.height-headerLines-footerLines, 1)
}

// visibleRange returns the sections [lo, hi) shown when top is the first
// one. At least one section is visible when the window is not empty.
func (m *agendaModel) visibleRange(top int) (int, int) {
	count := m.engine.DayCount()
	if count == 0 {
		return 0, 0
	}
	lines := m.agendaHeight()
	hi := top
	for hi < count && lines > 0 {
		lines -= m.sectionHeight(hi)
		hi++
	}
	return top, max(hi, top+1)
}

// weatherCmds asks the engine about every visible event and turns the
// resulting fetch requests into commands.
func (m *agendaModel) weatherCmds() tea.Cmd {
	if m.cfg.Weather == nil {
		return nil
	}
	lo, hi := m.visibleRange(m.top)
	if m.screen == screenDayDetail {
		sel, _ := m.engine.SelectedIndex()
		lo, hi = sel, sel+1
	}
	for i := lo; i < hi; i++ {
		if d := m.engine.Day(i); d != nil {
			for j := 0; j < d.EventCount(); j++ {
				m.engine.RequestWeather(i, j)
			}
		}
	}

	var cmds []tea.Cmd
	for _, req := range m.obs.pending {
		cmds = append(cmds, fetchWeatherCmd(m.ctx, m.cfg.Weather, req))
	}
	m.obs.pending = m.obs.pending[:0]
	return tea.Batch(cmds...)
}

func fetchWeatherCmd(ctx context.Context, f weather.Fetcher, req weather.Request) tea.Cmd {
	return func() tea.Msg {
		return weatherMsg(weather.Fetch(ctx, f, req))
	}
}

func (m agendaModel) openDayDetail() (tea.Model, tea.Cmd) {
	m.screen = screenDayDetail
	m.viewport = viewport.New(m.contentWidth(), m.detailHeight())
	m.refreshDetail()
	return m, m.weatherCmds()
}

func (m *agendaModel) refreshDetail() {
	sel, ok := m.engine.SelectedIndex()
	if !ok {
		return
	}
	var b strings.Builder
	FormatDay(&b, m.engine.Day(sel), m.cfg.Theme.MarkdownStyle)
	m.viewport.SetContent(b.String())
	m.viewport.GotoTop()
}

func (m *agendaModel) detailHeight() int {
	return max(m.height-2-footerLines, 1)
}

func (m agendaModel) openJumpList() (tea.Model, tea.Cmd) {
	var items []list.Item
	for i := 0; i < m.engine.DayCount(); i++ {
		if d := m.engine.Day(i); d.HasEvent() {
			items = append(items, dayItem{index: i, day: d})
		}
	}
	m.jumpList = m.cfg.Theme.NewList(items, m.contentWidth(), m.height-footerLines)
	m.jumpList.Title = "Days with events"
	m.jumpList.SetShowHelp(false)
	m.screen = screenJump
	return m, nil
}

// contentWidth returns the effective content width, respecting MaxWidth.
func (m *agendaModel) contentWidth() int {
	if m.cfg.MaxWidth > 0 && m.width > m.cfg.MaxWidth {
		return m.cfg.MaxWidth
	}
	return m.width
}

func (m agendaModel) View() string {
	if !m.ready {
		// No PaintScreen here: dimensions are unknown until the first WindowSizeMsg.
		return "Loading..."
	}
	if m.helpActive {
		return m.cfg.Theme.ClearLineEnds(m.helpOverlay())
	}

	cw := m.contentWidth()
	theme := m.cfg.Theme
	var result string

	switch m.screen {
	case screenAgenda:
		result = m.weekStrip(cw) + "\n\n" + m.agendaView(cw) + "\n" +
			theme.HelpStyle().Width(cw).Render("←/→ day • ↑/↓ scroll • t today • g jump • enter open • ? help • q quit")
	case screenDayDetail:
		sel, _ := m.engine.SelectedIndex()
		header := theme.HeaderStyle().Width(cw).Render(m.engine.DisplayString(sel))
		footer := theme.HelpStyle().Width(cw).Render("↑/↓ scroll • ←/p prev day • →/n next day • esc back")
		result = header + "\n\n" + theme.PaneStyle().Width(cw).Render(m.viewport.View()) + "\n" + footer
	case screenJump:
		footer := theme.HelpStyle().Width(cw).Render("↑/↓ navigate • / filter • enter go • esc back")
		result = m.jumpList.View() + "\n" + footer
	}

	return theme.PaintScreen(result, m.width, m.height, cw)
}

// weekStrip renders the month title and the Sunday-to-Saturday week that
// contains the selected day.
func (m agendaModel) weekStrip(cw int) string {
	theme := m.cfg.Theme
	sel, ok := m.engine.SelectedIndex()
	if !ok {
		return theme.HeaderStyle().Width(cw).Render("No days") + "\n\n"
	}
	title := theme.HeaderStyle().Width(cw).Render(m.engine.TitleForIndex(sel))

	weekStart := sel - (m.engine.Day(sel).Weekday() - 1)
	today := m.engine.Today()
	names := make([]string, 7)
	cells := make([]string, 7)
	for i := 0; i < 7; i++ {
		d := m.engine.Day(weekStart + i)
		if d == nil {
			names[i] = theme.MutedStyle().Render("     ")
			cells[i] = theme.MutedStyle().Render("     ")
			continue
		}
		names[i] = theme.MutedStyle().Render(fmt.Sprintf(" %-4s", d.WeekdayString()[:2]))
		opts := d.CellOptions()
		label := d.DayString()
		if opts.Has(day.FirstDay) {
			label = d.ShortMonthString()
		}
		mark := " "
		if opts.Has(day.HasEvent) {
			mark = "•"
		}
		weekend := d.Weekday() == 1 || d.Weekday() == 7
		style := theme.CellStyle(opts.Has(day.Selected), d.Date().Equal(today), weekend)
		cells[i] = style.Render(fmt.Sprintf(" %-3s", label)) + theme.AccentStyle().Render(mark)
	}
	return title + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, names...) + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// agendaView renders the sections from top until the agenda area is full.
func (m agendaModel) agendaView(cw int) string {
	theme := m.cfg.Theme
	now := time.Now()
	var lines []string
	lo, hi := m.visibleRange(m.top)
	for i := lo; i < hi; i++ {
		d := m.engine.Day(i)
		header := theme.HeaderStyle()
		if d.IsSelected() {
			header = theme.AccentStyle().Bold(true)
		}
		lines = append(lines, header.Width(cw).Render(d.DisplayString()))
		events := d.Events()
		if len(events) == 0 {
			lines = append(lines, theme.MutedStyle().Width(cw).Render("  No events"))
		}
		for _, e := range events {
			lines = append(lines, theme.EventStyle(e.Status(now)).Width(cw).Render("  "+EventLine(e)))
		}
		lines = append(lines, "")
	}
	if limit := m.agendaHeight(); len(lines) > limit {
		lines = lines[:limit]
	}
	return strings.Join(lines, "\n")
}

func (m agendaModel) helpOverlay() string {
	help := m.cfg.Theme.BorderStyle().
		Padding(1, 2).
		Width(48).
		Render(`Agenda
  ←/→ h/l    previous / next day
  [ ]        previous / next week
  ↑/↓ j/k    scroll agenda
  pgup/pgdn  scroll a page
  t          jump to today
  g          go to a day with events
  enter      day details

Day details
  ←/→ p/n    previous / next day
  esc        back

  q          quit     ? close help`)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, help,
		lipgloss.WithWhitespaceBackground(m.cfg.Theme.Background))
}

// RunTUI launches the interactive agenda for the engine's window. Events are
// loaded from store when the program starts.
func RunTUI(store StorageProvider, engine *calendar.Engine, cfg TUIConfig) error {
	m := newAgendaModel(store, engine, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return err
	}
	if am, ok := result.(agendaModel); ok && am.err != nil {
		return am.err
	}
	return nil
}
