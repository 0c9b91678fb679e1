package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/chris-regnier/agendactl/internal/config"
	"github.com/chris-regnier/agendactl/internal/event"
)

func TestResolveThemePresets(t *testing.T) {
	tests := []struct {
		preset       string
		wantPreset   string
		wantMarkdown string
	}{
		{"default-dark", "default-dark", "dark"},
		{"default-light", "default-light", "light"},
		{"dracula", "dracula", "dark"},
		{"catppuccin-latte", "catppuccin-latte", "light"},
		{"", DefaultPreset, "dark"},
		{"nonexistent-theme", DefaultPreset, "dark"},
	}
	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			theme := ResolveTheme(config.ThemeConfig{Preset: tt.preset})
			if theme != presets[tt.wantPreset] {
				t.Errorf("ResolveTheme(%q) = %+v, want preset %s", tt.preset, theme, tt.wantPreset)
			}
			if theme.MarkdownStyle != tt.wantMarkdown {
				t.Errorf("MarkdownStyle = %q, want %q", theme.MarkdownStyle, tt.wantMarkdown)
			}
		})
	}
}

func TestPresetsAreComplete(t *testing.T) {
	names := Presets()
	if len(names) != len(presets) {
		t.Fatalf("Presets() returned %d names, want %d", len(names), len(presets))
	}
	for _, name := range names {
		p := presets[name]
		for field, c := range map[string]lipgloss.Color{
			"Primary": p.Primary, "Secondary": p.Secondary, "Accent": p.Accent,
			"Muted": p.Muted, "Danger": p.Danger, "Background": p.Background,
			"Today": p.Today, "Weekend": p.Weekend,
		} {
			if c == "" {
				t.Errorf("preset %s: %s is empty", name, field)
			}
		}
		if p.MarkdownStyle != "dark" && p.MarkdownStyle != "light" {
			t.Errorf("preset %s: MarkdownStyle = %q", name, p.MarkdownStyle)
		}
	}
}

func TestResolveThemeOverrides(t *testing.T) {
	theme := ResolveTheme(config.ThemeConfig{
		Preset:        "dracula",
		Primary:       "#FF0000",
		Background:    "#000000",
		MarkdownStyle: "notty",
	})
	base := presets["dracula"]

	if theme.Primary != "#FF0000" || theme.Background != "#000000" {
		t.Errorf("overrides not applied: %+v", theme)
	}
	if theme.MarkdownStyle != "notty" {
		t.Errorf("MarkdownStyle = %q, want notty", theme.MarkdownStyle)
	}
	if theme.Accent != base.Accent || theme.Today != base.Today {
		t.Error("colors without an override should come from the preset")
	}
}

func TestEventStyle(t *testing.T) {
	theme := presets["default-dark"]
	tests := []struct {
		status event.Status
		want   lipgloss.Color
	}{
		{event.StatusPast, theme.Muted},
		{event.StatusPresent, theme.Accent},
		{event.StatusFuture, theme.Primary},
	}
	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			s := theme.EventStyle(tt.status)
			if s.GetForeground() != tt.want {
				t.Errorf("foreground = %v, want %v", s.GetForeground(), tt.want)
			}
			if s.GetBackground() != theme.Background {
				t.Errorf("background = %v, want %v", s.GetBackground(), theme.Background)
			}
		})
	}
}

func TestCellStyle(t *testing.T) {
	theme := presets["default-dark"]
	tests := []struct {
		name                     string
		selected, today, weekend bool
		wantFg, wantBg           lipgloss.Color
	}{
		{"plain", false, false, false, theme.Primary, theme.Background},
		{"weekend", false, false, true, theme.Weekend, theme.Background},
		{"today", false, true, true, theme.Today, theme.Background},
		{"selected", true, true, false, theme.Background, theme.Accent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := theme.CellStyle(tt.selected, tt.today, tt.weekend)
			if s.GetForeground() != tt.wantFg || s.GetBackground() != tt.wantBg {
				t.Errorf("colors = %v on %v, want %v on %v",
					s.GetForeground(), s.GetBackground(), tt.wantFg, tt.wantBg)
			}
		})
	}
}

func TestStylesCarryBackground(t *testing.T) {
	theme := presets["gruvbox-dark"]
	styles := map[string]lipgloss.Style{
		"PaneStyle":   theme.PaneStyle(),
		"HelpStyle":   theme.HelpStyle(),
		"HeaderStyle": theme.HeaderStyle(),
		"AccentStyle": theme.AccentStyle(),
		"DangerStyle": theme.DangerStyle(),
		"MutedStyle":  theme.MutedStyle(),
		"BorderStyle": theme.BorderStyle(),
	}
	for name, s := range styles {
		if s.GetBackground() != theme.Background {
			t.Errorf("%s background = %v, want %v", name, s.GetBackground(), theme.Background)
		}
	}
	if !theme.HeaderStyle().GetBold() {
		t.Error("HeaderStyle should be bold")
	}
	if theme.BorderStyle().GetBorderTopBackground() != theme.Background {
		t.Error("BorderStyle should paint the border background")
	}
}

func TestClearEOL(t *testing.T) {
	tests := []struct {
		bg   lipgloss.Color
		want string
	}{
		{"#282A36", "\x1b[48;2;40;42;54m\x1b[K"},
		{"235", "\x1b[48;5;235m\x1b[K"},
	}
	for _, tt := range tests {
		if got := (Theme{Background: tt.bg}).clearEOL(); got != tt.want {
			t.Errorf("clearEOL(%s) = %q, want %q", tt.bg, got, tt.want)
		}
	}
}

func TestPaintScreen(t *testing.T) {
	theme := presets["default-dark"]

	tests := []struct {
		name         string
		content      string
		width        int
		height       int
		contentWidth int
		wantLeft     int
	}{
		{"fills short content", "one\ntwo", 40, 10, 40, 0},
		{"centers narrow content", "centered", 100, 5, 60, 20},
		{"cuts tall content", strings.Repeat("x\n", 30) + "x", 20, 8, 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := theme.PaintScreen(tt.content, tt.width, tt.height, tt.contentWidth)
			lines := strings.Split(out, "\n")
			if len(lines) != tt.height {
				t.Fatalf("got %d lines, want %d", len(lines), tt.height)
			}
			for i, line := range lines {
				if !strings.HasSuffix(line, "\x1b[K") {
					t.Errorf("line %d does not clear to end of line", i)
				}
				if w := len(stripANSI(line)); w < tt.width {
					t.Errorf("line %d: width %d, want at least %d", i, w, tt.width)
				}
			}
			first := stripANSI(lines[0])
			if left := len(first) - len(strings.TrimLeft(first, " ")); left != tt.wantLeft {
				t.Errorf("left padding = %d, want %d", left, tt.wantLeft)
			}
		})
	}
}

func TestClearLineEnds(t *testing.T) {
	theme := presets["default-dark"]
	out := theme.ClearLineEnds("a\nb\nc")
	if n := strings.Count(out, "\x1b[K"); n != 3 {
		t.Errorf("got %d line clears, want 3", n)
	}
	if got := strings.ReplaceAll(stripANSI(out), "\x1b[K", ""); got != "a\nb\nc" {
		t.Errorf("content changed: %q", got)
	}
}

func TestNewListUsesTheme(t *testing.T) {
	theme := presets["catppuccin-mocha"]
	l := theme.NewList(nil, 40, 10)
	if l.Styles.Title.GetBackground() != theme.Background {
		t.Error("list title should use the theme background")
	}
	if l.Styles.NoItems.GetForeground() != theme.Muted {
		t.Error("empty list text should be muted")
	}
}
