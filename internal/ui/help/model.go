package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/airdrop-tracker/internal/keys"
	"github.com/nhle/airdrop-tracker/internal/theme"
	"github.com/nhle/airdrop-tracker/internal/ui/command"
)

// Model is the help overlay: every key binding, the palette verbs and a
// pointer to the scriptable CLI.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(k *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.ShowAll = true
	h.Width = width - 4
	return Model{keys: k, help: h, width: width, height: height}
}

// Update is a no-op; the root model closes the overlay.
func (m Model) Update(tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the help overlay.
func (m Model) View() string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	verbs := make([]string, len(command.Verbs))
	for i, v := range command.Verbs {
		verbs[i] = ":" + v
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		heading.MarginBottom(1).Render("Keys"),
		m.help.View(m.keys),
		"",
		heading.Render("Commands"),
		theme.DimmedStyle.Render(strings.Join(verbs, "  ")),
		"",
		theme.HelpStyle.Render("Run `airdrops --help` for the scriptable commands (list, add, done, move, ...)."),
	)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
