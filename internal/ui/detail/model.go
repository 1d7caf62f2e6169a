package detail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/airdrop-tracker/internal/keys"
	"github.com/nhle/airdrop-tracker/internal/ledger"
	"github.com/nhle/airdrop-tracker/internal/model"
	"github.com/nhle/airdrop-tracker/internal/theme"
	"github.com/nhle/airdrop-tracker/internal/tracker"
)

// Source is the part of the tracking controller the detail view needs.
type Source interface {
	Item(id int64) (model.Airdrop, bool)
	Tasks(airdropID int64) []model.DailyTask
	Progress(airdropID int64) ledger.Progress
	Now() time.Time
	Today() string
	MarkTaskDone(ctx context.Context, taskID, airdropID int64) error
	AddTask(ctx context.Context, airdropID int64, title string) (int64, error)
	DeleteTask(ctx context.Context, taskID, airdropID int64) error
	Update(ctx context.Context, id int64, patch model.AirdropPatch) error
}

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// ChangedMsg tells the parent that the airdrop's tasks or fields changed.
type ChangedMsg struct {
	AirdropID int64
}

type taskDoneMsg struct{ err error }
type taskAddedMsg struct {
	title string
	err   error
}
type taskDeletedMsg struct{ err error }
type walletSavedMsg struct{ err error }

type inputMode int

const (
	modeBrowse inputMode = iota
	modeAddTask
	modeWallet
)

// Model is the airdrop detail view: metadata on top, daily tasks below.
type Model struct {
	src       Source
	keys      *keys.KeyMap
	airdropID int64
	cursor    int
	mode      inputMode
	input     textinput.Model
	viewport  viewport.Model
	status    string
	busy      bool
	width     int
	height    int
}

// New creates a new detail view model.
func New(src Source, k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	ti := textinput.New()
	ti.Width = width - 6

	return Model{
		src:      src,
		keys:     k,
		input:    ti,
		viewport: vp,
		width:    width,
		height:   height,
	}
}

// Open shows the given airdrop.
func (m *Model) Open(airdropID int64) {
	m.airdropID = airdropID
	m.cursor = 0
	m.mode = modeBrowse
	m.status = ""
	m.busy = false
	m.input.Reset()
	m.input.Blur()
	m.render()
	m.viewport.GotoTop()
}

// AirdropID returns the airdrop on display.
func (m Model) AirdropID() int64 {
	return m.airdropID
}

// Editing reports whether a text input has focus.
func (m Model) Editing() bool {
	return m.mode != modeBrowse
}

// Refresh re-renders from the controller's cache.
func (m *Model) Refresh() {
	if n := len(m.src.Tasks(m.airdropID)); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	m.render()
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskDoneMsg:
		m.busy = false
		m.status = outcome(msg.err, "Marked done for today")
		m.Refresh()
		return m, m.changed()

	case taskAddedMsg:
		m.busy = false
		if msg.err != nil {
			return m.restoreDraft(msg.title, msg.err)
		}
		m.status = "Task added"
		m.Refresh()
		return m, m.changed()

	case taskDeletedMsg:
		m.busy = false
		m.status = outcome(msg.err, "Task deleted")
		m.Refresh()
		return m, m.changed()

	case walletSavedMsg:
		m.busy = false
		m.status = outcome(msg.err, "Wallet saved")
		m.Refresh()
		return m, m.changed()

	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.handleInputKeys(msg)
		}
		return m.handleBrowseKeys(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// restoreDraft puts a failed task title back into the entry field so the
// user does not have to retype it.
func (m Model) restoreDraft(title string, err error) (Model, tea.Cmd) {
	var de *tracker.DispatchError
	if errors.As(err, &de) && de.Draft != "" {
		title = de.Draft
	}
	m.mode = modeAddTask
	m.input.Prompt = "new task: "
	m.input.SetValue(title)
	m.input.CursorEnd()
	m.status = "Error: " + err.Error()
	m.render()
	return m, m.input.Focus()
}

func (m Model) handleBrowseKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	tasks := m.src.Tasks(m.airdropID)

	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(tasks) > 0 {
			m.cursor = (m.cursor + 1) % len(tasks)
			m.render()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(tasks) > 0 {
			m.cursor = (m.cursor - 1 + len(tasks)) % len(tasks)
			m.render()
		}
		return m, nil

	case key.Matches(msg, m.keys.MarkDone):
		if m.busy || len(tasks) == 0 {
			return m, nil
		}
		t := tasks[m.cursor]
		if ledger.IsDoneOn(t, m.src.Today()) {
			m.status = "Already done today"
			m.render()
			return m, nil
		}
		m.busy = true
		src, airdropID := m.src, m.airdropID
		return m, func() tea.Msg {
			return taskDoneMsg{err: src.MarkTaskDone(context.Background(), t.ID, airdropID)}
		}

	case key.Matches(msg, m.keys.AddTask):
		m.mode = modeAddTask
		m.input.Prompt = "new task: "
		m.input.Placeholder = "task title"
		m.input.Reset()
		m.render()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.DeleteTask):
		if m.busy || len(tasks) == 0 {
			return m, nil
		}
		t := tasks[m.cursor]
		m.busy = true
		src, airdropID := m.src, m.airdropID
		return m, func() tea.Msg {
			return taskDeletedMsg{err: src.DeleteTask(context.Background(), t.ID, airdropID)}
		}

	case key.Matches(msg, m.keys.Wallet):
		a, _ := m.src.Item(m.airdropID)
		m.mode = modeWallet
		m.input.Prompt = "wallet: "
		m.input.Placeholder = "0x..."
		m.input.SetValue(model.StringValue(a.WalletAddress))
		m.input.CursorEnd()
		m.render()
		return m, m.input.Focus()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleInputKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		m.input.Reset()
		m.render()
		return m, nil

	case "enter":
		value := m.input.Value()
		mode := m.mode
		m.mode = modeBrowse
		m.input.Blur()
		m.input.Reset()
		m.busy = true
		m.render()

		src, airdropID := m.src, m.airdropID
		if mode == modeWallet {
			wallet := strings.TrimSpace(value)
			return m, func() tea.Msg {
				err := src.Update(context.Background(), airdropID, model.AirdropPatch{WalletAddress: &wallet})
				return walletSavedMsg{err: err}
			}
		}
		return m, func() tea.Msg {
			_, err := src.AddTask(context.Background(), airdropID, value)
			return taskAddedMsg{title: value, err: err}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.render()
	return m, cmd
}

func (m Model) changed() tea.Cmd {
	id := m.airdropID
	return func() tea.Msg { return ChangedMsg{AirdropID: id} }
}

// View renders the detail view.
func (m Model) View() string {
	if _, ok := m.src.Item(m.airdropID); !ok {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Airdrop not found")
	}
	return m.viewport.View()
}

func (m *Model) render() {
	m.viewport.SetContent(m.renderContent())
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	a, ok := m.src.Item(m.airdropID)
	if !ok {
		return ""
	}

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	head := titleStyle.Render(a.Name)
	if chain := model.StringValue(a.Chain); chain != "" {
		head += " " + theme.ChainStyle(strings.ToLower(chain)).Render(chain)
	}
	if !a.Active {
		head += theme.DimmedStyle.Render(" (inactive)")
	}
	sections = append(sections, head, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	meta := func(label, value string) {
		if value == "" {
			return
		}
		sections = append(sections, fmt.Sprintf("%-9s %s", metaStyle.Render(label), valStyle.Render(value)))
	}
	meta("URL:", a.URL)
	meta("Wallet:", model.StringValue(a.WalletAddress))
	meta("Notes:", model.StringValue(a.Notes))
	if !a.CreatedAt.IsZero() {
		meta("Added:", a.CreatedAt.Local().Format("2006-01-02"))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 0)))
	sections = append(sections, "", separator, "")

	p := m.src.Progress(m.airdropID)
	sections = append(sections, lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render(
		fmt.Sprintf("Daily tasks  %d/%d done %s", p.Completed, p.Total, m.src.Today()),
	), "")

	tasks := m.src.Tasks(m.airdropID)
	if len(tasks) == 0 {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No daily tasks. Press a to add one."))
	}

	today := m.src.Today()
	now := m.src.Now()
	for i, t := range tasks {
		done := ledger.IsDoneOn(t, today)
		mark := "○"
		if done {
			mark = "✓"
		}
		line := fmt.Sprintf("%s %s", theme.StatusStyle(done).Render(mark), t.Title)
		if s := ledger.Streak(t, now); s > 1 {
			line += theme.DimmedStyle.Render(fmt.Sprintf("  %d day streak", s))
		}
		if done {
			line = theme.DimmedStyle.Render(line)
		}
		if i == m.cursor {
			line = theme.SelectedItemStyle.Render(line)
		} else {
			line = theme.ListItemStyle.Render(line)
		}
		sections = append(sections, line)
	}

	if m.mode != modeBrowse {
		sections = append(sections, "", m.input.View())
	}

	if m.status != "" {
		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.ColorYellow).
			Italic(true).
			Render(m.status))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.input.Width = width - 6
	m.render()
}

// outcome maps a mutation result to a status line.
func outcome(err error, ok string) string {
	switch {
	case err == nil:
		return ok
	case errors.Is(err, tracker.ErrAlreadyDone):
		return "Already done today"
	default:
		return "Error: " + err.Error()
	}
}
