package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/airdrop-tracker/internal/theme"
)

// Verbs are the palette commands, in the order they are suggested.
var Verbs = []string{"new", "types", "refresh", "search", "clear", "help", "quit"}

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// CancelMsg is emitted when the palette is closed without running anything.
type CancelMsg struct{}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = strings.Join(Verbs, ", ")
	ti.Prompt = ": "
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Update handles messages for the command palette. Tab completes the
// verb when exactly one matches what was typed.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if line == "" {
				return m, func() tea.Msg { return CancelMsg{} }
			}
			return m, func() tea.Msg { return CommandMsg(line) }

		case "esc":
			m.input.Reset()
			return m, func() tea.Msg { return CancelMsg{} }

		case "tab":
			if matches := Complete(m.input.Value()); len(matches) == 1 {
				m.input.SetValue(matches[0] + " ")
				m.input.CursorEnd()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Complete returns the verbs starting with the first word of line. Once
// an argument follows the verb there is nothing left to complete.
func Complete(line string) []string {
	line = strings.TrimLeft(line, " ")
	if strings.Contains(line, " ") {
		return nil
	}
	var out []string
	for _, v := range Verbs {
		if strings.HasPrefix(v, strings.ToLower(line)) {
			out = append(out, v)
		}
	}
	return out
}

// View renders the command palette.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Command")

	var hint string
	if v := m.input.Value(); v != "" {
		if matches := Complete(v); len(matches) > 0 {
			hint = theme.DimmedStyle.Render(strings.Join(matches, "  "))
		}
	}

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, m.input.View(), hint))
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	m.input.Reset()
	return m.input.Focus()
}
