package ui

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chris-regnier/agendactl/internal/config"
)

func sizedPager(t *testing.T, content string, cfg TUIConfig, width, height int) pagerModel {
	t.Helper()
	m, _ := newPager("Wednesday, May 08", content, cfg).Update(tea.WindowSizeMsg{Width: width, Height: height})
	return m.(pagerModel)
}

func pagerKey(m pagerModel, key string) pagerModel {
	var msg tea.KeyMsg
	switch key {
	case "end":
		msg = tea.KeyMsg{Type: tea.KeyEnd}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(pagerModel)
}

func TestPagerView(t *testing.T) {
	tests := []struct {
		name          string
		maxWidth      int
		width, height int
	}{
		{"full width", 0, 80, 24},
		{"max width", 60, 100, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := TUIConfig{MaxWidth: tt.maxWidth, Theme: ResolveTheme(config.ThemeConfig{Preset: "dracula"})}
			m := sizedPager(t, "  09: 30 AM  15m  Standup", cfg, tt.width, tt.height)

			lines := strings.Split(stripANSI(m.View()), "\n")
			if len(lines) != tt.height {
				t.Fatalf("got %d lines, want %d", len(lines), tt.height)
			}
			if !strings.Contains(lines[0], "Wednesday, May 08") || !strings.Contains(lines[0], "100%") {
				t.Errorf("header = %q", lines[0])
			}
			if !strings.Contains(lines[1], "Standup") {
				t.Errorf("first body line = %q", lines[1])
			}
			footer := strings.Join(lines, "\n")
			if !strings.Contains(footer, "q quit") {
				t.Error("missing footer help")
			}
		})
	}
}

func TestPagerScrolling(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 100; i++ {
		fmt.Fprintf(&b, "line %03d\n", i)
	}
	cfg := TUIConfig{Theme: ResolveTheme(config.ThemeConfig{})}
	m := sizedPager(t, b.String(), cfg, 80, 12)

	if !m.viewport.AtTop() {
		t.Fatal("pager should start at the top")
	}
	m = pagerKey(m, "G")
	if !m.viewport.AtBottom() {
		t.Error("G should go to the bottom")
	}
	m = pagerKey(m, "g")
	if !m.viewport.AtTop() {
		t.Error("g should go back to the top")
	}
	m = pagerKey(m, "end")
	if !m.viewport.AtBottom() {
		t.Error("end should go to the bottom")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestOutputOrPageWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	content := strings.Repeat("row\n", 500)
	if err := OutputOrPage(&buf, "List", content, TUIConfig{}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != content {
		t.Error("content written to a non-stdout writer should be unchanged")
	}
}
