package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	"github.com/chris-regnier/agendactl/internal/config"
	"github.com/chris-regnier/agendactl/internal/event"
)

// DefaultPreset is used when the configured preset is empty or unknown.
const DefaultPreset = "default-dark"

// Theme holds the resolved colors of the agenda.
type Theme struct {
	Primary    lipgloss.Color // event titles, body text
	Secondary  lipgloss.Color // borders, secondary details
	Accent     lipgloss.Color // selection, events in progress
	Muted      lipgloss.Color // past events, help text
	Danger     lipgloss.Color // delete prompts
	Background lipgloss.Color
	// Today marks today's cell in the week strip and Weekend the Saturday and
	// Sunday labels.
	Today   lipgloss.Color
	Weekend lipgloss.Color
	// MarkdownStyle is the glamour style used for event notes.
	MarkdownStyle string
}

var presets = map[string]Theme{
	"default-dark": {
		Primary: "15", Secondary: "243", Accent: "33", Muted: "241", Danger: "9",
		Background: "235", Today: "214", Weekend: "110",
		MarkdownStyle: "dark",
	},
	"default-light": {
		Primary: "0", Secondary: "240", Accent: "27", Muted: "245", Danger: "1",
		Background: "254", Today: "166", Weekend: "24",
		MarkdownStyle: "light",
	},
	"dracula": {
		Primary: "#F8F8F2", Secondary: "#6272A4", Accent: "#BD93F9", Muted: "#6272A4", Danger: "#FF5555",
		Background: "#282A36", Today: "#FFB86C", Weekend: "#8BE9FD",
		MarkdownStyle: "dark",
	},
	"catppuccin-mocha": {
		Primary: "#CDD6F4", Secondary: "#585B70", Accent: "#CBA6F7", Muted: "#6C7086", Danger: "#F38BA8",
		Background: "#1E1E2E", Today: "#FAB387", Weekend: "#89DCEB",
		MarkdownStyle: "dark",
	},
	"catppuccin-latte": {
		Primary: "#4C4F69", Secondary: "#9CA0B0", Accent: "#8839EF", Muted: "#9CA0B0", Danger: "#D20F39",
		Background: "#EFF1F5", Today: "#FE640B", Weekend: "#04A5E5",
		MarkdownStyle: "light",
	},
	"gruvbox-dark": {
		Primary: "#EBDBB2", Secondary: "#665C54", Accent: "#FABD2F", Muted: "#928374", Danger: "#FB4934",
		Background: "#282828", Today: "#FE8019", Weekend: "#83A598",
		MarkdownStyle: "dark",
	},
}

// Presets returns the names of the built-in themes, sorted.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveTheme starts from the configured preset and applies the color
// overrides set in cfg.
func ResolveTheme(cfg config.ThemeConfig) Theme {
	theme, ok := presets[cfg.Preset]
	if !ok {
		theme = presets[DefaultPreset]
	}

	overrides := []struct {
		value string
		dst   *lipgloss.Color
	}{
		{cfg.Primary, &theme.Primary},
		{cfg.Secondary, &theme.Secondary},
		{cfg.Accent, &theme.Accent},
		{cfg.Muted, &theme.Muted},
		{cfg.Danger, &theme.Danger},
		{cfg.Background, &theme.Background},
	}
	for _, o := range overrides {
		if o.value != "" {
			*o.dst = lipgloss.Color(o.value)
		}
	}
	if cfg.MarkdownStyle != "" {
		theme.MarkdownStyle = cfg.MarkdownStyle
	}
	return theme
}

func (t Theme) base() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Primary).Background(t.Background)
}

// PaneStyle is the plain style of body text.
func (t Theme) PaneStyle() lipgloss.Style { return t.base() }

func (t Theme) HelpStyle() lipgloss.Style { return t.base().Foreground(t.Muted) }

func (t Theme) HeaderStyle() lipgloss.Style { return t.base().Bold(true) }

func (t Theme) AccentStyle() lipgloss.Style { return t.base().Foreground(t.Accent) }

func (t Theme) DangerStyle() lipgloss.Style { return t.base().Foreground(t.Danger) }

func (t Theme) MutedStyle() lipgloss.Style { return t.base().Foreground(t.Muted) }

// EventStyle dims past events and highlights the ones in progress.
func (t Theme) EventStyle(s event.Status) lipgloss.Style {
	switch s {
	case event.StatusPast:
		return t.MutedStyle()
	case event.StatusPresent:
		return t.AccentStyle()
	default:
		return t.base()
	}
}

// CellStyle returns the style of a day cell in the week strip. Selection
// wins over today, today over weekend.
func (t Theme) CellStyle(selected, today, weekend bool) lipgloss.Style {
	s := t.base()
	switch {
	case selected:
		return s.Foreground(t.Background).Background(t.Accent).Bold(true)
	case today:
		return s.Foreground(t.Today).Bold(true)
	case weekend:
		return s.Foreground(t.Weekend)
	}
	return s
}

// BorderStyle draws a rounded box, used by the help overlay.
func (t Theme) BorderStyle() lipgloss.Style {
	return t.base().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Secondary).
		BorderBackground(t.Background)
}

// clearEOL sets the background color and erases to the end of the line, so
// the terminal paints the rest of the row even when lipgloss measured a line
// a cell short.
func (t Theme) clearEOL() string {
	s := string(t.Background)
	if len(s) == 7 && s[0] == '#' {
		var r, g, b int
		fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b)
		return fmt.Sprintf("\x1b[48;2;%d;%d;%dm\x1b[K", r, g, b)
	}
	return "\x1b[48;5;" + s + "m\x1b[K"
}

// PaintScreen centers content of width contentWidth on a termWidth x
// termHeight screen filled with the background color. Content taller than
// the screen is cut.
func (t Theme) PaintScreen(content string, termWidth, termHeight, contentWidth int) string {
	fill := lipgloss.NewStyle().Background(t.Background)
	eol := t.clearEOL()

	left := ""
	leftWidth := 0
	if contentWidth > 0 && contentWidth < termWidth {
		leftWidth = (termWidth - contentWidth) / 2
		left = fill.Render(strings.Repeat(" ", leftWidth))
	}

	lines := strings.Split(content, "\n")
	if len(lines) > termHeight {
		lines = lines[:termHeight]
	}
	for i, line := range lines {
		right := max(termWidth-leftWidth-lipgloss.Width(line), 0)
		lines[i] = left + line + fill.Render(strings.Repeat(" ", right)) + eol
	}
	blank := fill.Render(strings.Repeat(" ", termWidth)) + eol
	for len(lines) < termHeight {
		lines = append(lines, blank)
	}
	return strings.Join(lines, "\n")
}

// ClearLineEnds paints the background to the right edge of every line of
// content laid out with lipgloss.Place.
func (t Theme) ClearLineEnds(content string) string {
	eol := t.clearEOL()
	return strings.ReplaceAll(content, "\n", eol+"\n") + eol
}

// NewList builds the themed list used to jump to a day.
func (t Theme) NewList(items []list.Item, width, height int) list.Model {
	d := list.NewDefaultDelegate()
	d.Styles.NormalTitle = t.base().Padding(0, 0, 0, 2)
	d.Styles.NormalDesc = d.Styles.NormalTitle.Foreground(t.Muted)
	d.Styles.SelectedTitle = t.AccentStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(t.Accent).
		BorderBackground(t.Background).
		Padding(0, 0, 0, 1)
	d.Styles.SelectedDesc = d.Styles.SelectedTitle.Foreground(t.Secondary)
	d.Styles.DimmedTitle = t.MutedStyle().Padding(0, 0, 0, 2)
	d.Styles.DimmedDesc = d.Styles.DimmedTitle

	l := list.New(items, d, width, height)
	s := list.DefaultStyles()
	s.Title = t.HeaderStyle()
	s.TitleBar = lipgloss.NewStyle().Background(t.Background)
	s.FilterPrompt = t.AccentStyle()
	s.FilterCursor = t.AccentStyle()
	s.StatusBar = t.MutedStyle()
	s.PaginationStyle = t.MutedStyle()
	s.HelpStyle = t.MutedStyle()
	s.ActivePaginationDot = t.AccentStyle()
	s.InactivePaginationDot = t.MutedStyle()
	s.NoItems = t.MutedStyle()
	l.Styles = s
	return l
}
