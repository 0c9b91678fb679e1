package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmModel asks a destructive yes/no question with two buttons. Keep is
// focused first so a stray enter never deletes anything.
type confirmModel struct {
	prompt   string
	theme    Theme
	focusYes bool
	answered bool
	yes      bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		return m.answer(true)
	case "n", "N", "q", "esc", "ctrl+c":
		return m.answer(false)
	case "left", "right", "h", "l", "tab", "shift+tab":
		m.focusYes = !m.focusYes
	case "enter", " ":
		return m.answer(m.focusYes)
	}
	return m, nil
}

func (m confirmModel) answer(yes bool) (tea.Model, tea.Cmd) {
	m.answered, m.yes = true, yes
	return m, tea.Quit
}

func (m confirmModel) button(label string, focused bool, color lipgloss.Color) string {
	s := m.theme.base().Padding(0, 2)
	if focused {
		s = s.Foreground(m.theme.Background).Background(color).Bold(true)
	}
	return s.Render(label)
}

func (m confirmModel) View() string {
	if m.answered {
		return ""
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		m.button("Keep", !m.focusYes, m.theme.Accent),
		m.theme.base().Render("  "),
		m.button("Delete", m.focusYes, m.theme.Danger),
	)
	return m.theme.HeaderStyle().Render(m.prompt) + "\n\n" + buttons + "\n" +
		m.theme.HelpStyle().Render("y/n answer • ←/→ move • enter select") + "\n"
}

// Confirm asks prompt on the terminal and reports whether the user chose
// Delete.
func Confirm(prompt string, theme Theme) (bool, error) {
	final, err := tea.NewProgram(confirmModel{prompt: prompt, theme: theme}).Run()
	if err != nil {
		return false, err
	}
	return final.(confirmModel).yes, nil
}
