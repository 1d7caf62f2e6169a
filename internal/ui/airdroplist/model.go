package airdroplist

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/airdrop-tracker/internal/keys"
	"github.com/nhle/airdrop-tracker/internal/ledger"
	"github.com/nhle/airdrop-tracker/internal/model"
	"github.com/nhle/airdrop-tracker/internal/theme"
	"github.com/nhle/airdrop-tracker/internal/tracker"
)

// Source is the part of the tracking controller the list view needs.
type Source interface {
	Visible() []model.Airdrop
	Progress(airdropID int64) ledger.Progress
	SetFilter(query string)
	Query() string
	Filtered() bool
	StageReorder(from, to int) (*tracker.PendingReorder, error)
	CommitReorder(ctx context.Context, p *tracker.PendingReorder) error
}

// SelectedMsg is sent when the user opens an airdrop's tasks.
type SelectedMsg struct {
	ID int64
}

// ReorderedMsg reports the outcome of committing a move.
type ReorderedMsg struct {
	Err error
}

// StatusMsg carries a short, non-blocking hint for the status bar.
type StatusMsg string

// Model is the airdrop list view.
type Model struct {
	list        list.Model
	src         Source
	keys        *keys.KeyMap
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new airdrop list model.
func New(src Source, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, newItemDelegate(), width, height-2)
	l.Title = "Airdrops"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search airdrops..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		src:         src,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Refresh rebuilds the rows from the controller's visible airdrops,
// keeping the cursor on the same airdrop when it is still shown.
func (m *Model) Refresh() tea.Cmd {
	selected, hadSelection := m.Selected()

	visible := m.src.Visible()
	items := make([]list.Item, len(visible))
	cursor := 0
	for i, a := range visible {
		items[i] = AirdropItem{Airdrop: a, Progress: m.src.Progress(a.ID)}
		if hadSelection && a.ID == selected.ID {
			cursor = i
		}
	}
	cmd := m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(cursor)
	}
	return cmd
}

// Selected returns the airdrop under the cursor.
func (m Model) Selected() (model.Airdrop, bool) {
	it, ok := m.list.SelectedItem().(AirdropItem)
	if !ok {
		return model.Airdrop{}, false
	}
	return it.Airdrop, true
}

// Searching reports whether the search box has keyboard focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// Update handles messages for the list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys filters as the user types. Enter keeps the query,
// esc clears it.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Blur()
		m.searchInput.Reset()
		m.src.SetFilter("")
		return m, m.Refresh()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.src.SetFilter(m.searchInput.Value())
	return m, tea.Batch(cmd, m.Refresh())
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		a, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return SelectedMsg{ID: a.ID} }

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.src.Query())
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.MoveUp):
		return m.move(-1)

	case key.Matches(msg, m.keys.MoveDown):
		return m.move(1)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// move shifts the selected airdrop by delta. The new order is shown at
// once; the commit runs in the background and reports via ReorderedMsg.
func (m Model) move(delta int) (Model, tea.Cmd) {
	from := m.list.Index()
	to := from + delta
	if len(m.list.Items()) == 0 || to < 0 || to >= len(m.list.Items()) {
		return m, nil
	}

	pending, err := m.src.StageReorder(from, to)
	if errors.Is(err, tracker.ErrReorderFiltered) {
		return m, func() tea.Msg { return StatusMsg("clear the search to reorder") }
	}
	if err != nil {
		return m, func() tea.Msg { return StatusMsg(err.Error()) }
	}

	cmd := m.Refresh()
	m.list.Select(to)

	src := m.src
	commit := func() tea.Msg {
		return ReorderedMsg{Err: src.CommitReorder(context.Background(), pending)}
	}
	return m, tea.Batch(cmd, commit)
}

// View renders the list view.
func (m Model) View() string {
	var searchBar string
	if m.searchMode || m.src.Filtered() {
		input := m.searchInput.View()
		if !m.searchMode {
			input = theme.DimmedStyle.Render("/ " + m.src.Query())
		}
		searchBar = lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(input)
	}

	body := m.list.View()
	if len(m.list.Items()) == 0 {
		body = m.renderEmptyState()
	}

	if searchBar == "" {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, searchBar, body)
}

func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 1).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.src.Filtered() {
		return style.Render("No airdrops match your search.\nPress / then esc to clear it.")
	}
	return style.Render("No airdrops yet.\n\nPress n to track one.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
