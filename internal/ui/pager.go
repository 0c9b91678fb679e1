package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// pagerModel shows long command output in a scrollable full-screen view
// with a title bar.
type pagerModel struct {
	title    string
	content  string
	cfg      TUIConfig
	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

func newPager(title, content string, cfg TUIConfig) pagerModel {
	return pagerModel{title: title, content: content, cfg: cfg}
}

func (m pagerModel) Init() tea.Cmd { return nil }

func (m pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		w, h := m.contentWidth(), max(msg.Height-2, 1)
		if !m.ready {
			m.viewport = viewport.New(w, h)
			m.ready = true
		} else {
			m.viewport.Width, m.viewport.Height = w, h
		}
		m.viewport.SetContent(m.content)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m pagerModel) contentWidth() int {
	if m.cfg.MaxWidth > 0 && m.width > m.cfg.MaxWidth {
		return m.cfg.MaxWidth
	}
	return m.width
}

func (m pagerModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	theme := m.cfg.Theme
	cw := m.contentWidth()

	pct := theme.MutedStyle().Render(fmt.Sprintf("%3.f%%", m.viewport.ScrollPercent()*100))
	title := theme.HeaderStyle().Width(max(cw-lipgloss.Width(pct), 0)).Render(m.title)
	header := lipgloss.JoinHorizontal(lipgloss.Top, title, pct)

	body := theme.PaneStyle().Width(cw).Render(m.viewport.View())
	footer := theme.HelpStyle().Width(cw).Render("↑/↓ scroll • g/G top/bottom • q quit")
	return theme.PaintScreen(header+"\n"+body+"\n"+footer, m.width, m.height, cw)
}

// PageOutput writes content to stdout, opening the pager when stdout is a
// terminal too short to show all of it.
func PageOutput(title, content string, cfg TUIConfig) error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		fmt.Print(content)
		return nil
	}
	_, height, err := term.GetSize(fd)
	if err != nil || strings.Count(content, "\n") < height-2 {
		fmt.Print(content)
		return nil
	}

	_, err = tea.NewProgram(newPager(title, content, cfg), tea.WithAltScreen()).Run()
	return err
}

// OutputOrPage writes content to w. Only output going to stdout may be paged.
func OutputOrPage(w io.Writer, title, content string, cfg TUIConfig) error {
	if w == os.Stdout {
		return PageOutput(title, content, cfg)
	}
	_, err := io.WriteString(w, content)
	return err
}
