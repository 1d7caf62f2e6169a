package typemgr

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/airdrop-tracker/internal/keys"
	"github.com/nhle/airdrop-tracker/internal/model"
	"github.com/nhle/airdrop-tracker/internal/theme"
)

// Source is the part of the tracking controller the type manager needs.
type Source interface {
	Types(ctx context.Context) ([]model.AirdropType, error)
	CreateType(ctx context.Context, name string, titles []string) (int64, error)
}

// CloseMsg signals the parent to close the type manager.
type CloseMsg struct{}

// ChangedMsg carries the refreshed type catalogue after a change.
type ChangedMsg struct {
	Types []model.AirdropType
}

type typeMode int

const (
	modeList typeMode = iota
	modeForm
)

type formBindings struct {
	name  string
	tasks string
}

// LoadedMsg carries the type catalogue.
type LoadedMsg struct {
	Types []model.AirdropType
	Err   error
}

type typeSavedMsg struct{ err error }

// Model is the Bubble Tea model for airdrop type management.
type Model struct {
	mode        typeMode
	src         Source
	keys        *keys.KeyMap
	types       []model.AirdropType
	selectedIdx int
	form        *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new type manager model.
func New(src Source, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:  modeList,
		src:   src,
		keys:  k,
		fb:    &formBindings{},
		width: width, height: height,
	}
}

// Init loads the type catalogue.
func (m Model) Init() tea.Cmd {
	return m.loadTypes()
}

// Editing reports whether the create form has focus.
func (m Model) Editing() bool {
	return m.mode == modeForm
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
			return m, nil
		}
		m.types = msg.Types
		if m.selectedIdx >= len(m.types) {
			m.selectedIdx = max(len(m.types)-1, 0)
		}
		types := msg.Types
		return m, func() tea.Msg { return ChangedMsg{Types: types} }

	case typeSavedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Type saved"
		}
		m.mode = modeList
		return m, m.loadTypes()

	case tea.KeyMsg:
		if m.mode == modeForm {
			return m.updateForm(msg)
		}
		return m.handleListKey(msg)
	}

	if m.mode == modeForm {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.types) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.types)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.types) > 0 {
			m.selectedIdx = (m.selectedIdx - 1 + len(m.types)) % len(m.types)
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		*m.fb = formBindings{}
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("e.g. Testnet").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Default tasks").
				Description("One task per line. New airdrops of this type start with them.").
				Placeholder("Claim faucet\nSwap on DEX").
				Value(&m.fb.tasks),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		return m, m.saveType()
	case huh.StateAborted:
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

// View renders the type manager.
func (m Model) View() string {
	if m.mode == modeForm && m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	}
	return m.viewList()
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Airdrop Types"))
	b.WriteString("\n\n")

	if len(m.types) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No types yet. Press 'n' to create one."))
	}
	for i, t := range m.types {
		label := fmt.Sprintf("%s  %s", t.Name, theme.DimmedStyle.Render(fmt.Sprintf("%d default tasks", len(t.DefaultTasks))))
		if i == m.selectedIdx {
			b.WriteString(theme.SelectedItemStyle.Render(label))
			for _, d := range t.DefaultTasks {
				b.WriteString("\n")
				b.WriteString(theme.ListItemStyle.Render(theme.DimmedStyle.Render("  · " + d.Title)))
			}
		} else {
			b.WriteString(theme.ListItemStyle.Render(label))
		}
		b.WriteString("\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render("n new | j/k move | esc back"))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}

func (m Model) loadTypes() tea.Cmd {
	src := m.src
	return func() tea.Msg {
		types, err := src.Types(context.Background())
		return LoadedMsg{Types: types, Err: err}
	}
}

func (m Model) saveType() tea.Cmd {
	src := m.src
	name := m.fb.name
	titles := SplitTasks(m.fb.tasks)
	return func() tea.Msg {
		_, err := src.CreateType(context.Background(), name, titles)
		return typeSavedMsg{err: err}
	}
}

// SplitTasks turns one-per-line input into trimmed, non-blank titles.
func SplitTasks(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			out = append(out, t)
		}
	}
	return out
}
