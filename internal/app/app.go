package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/nhle/airdrop-tracker/internal/model"
	appsync "github.com/nhle/airdrop-tracker/internal/sync"
	"github.com/nhle/airdrop-tracker/internal/theme"
	"github.com/nhle/airdrop-tracker/internal/tracker"
	"github.com/nhle/airdrop-tracker/internal/ui"
	"github.com/nhle/airdrop-tracker/internal/ui/airdropform"
	"github.com/nhle/airdrop-tracker/internal/ui/airdroplist"
	"github.com/nhle/airdrop-tracker/internal/ui/command"
	"github.com/nhle/airdrop-tracker/internal/ui/detail"
	helpview "github.com/nhle/airdrop-tracker/internal/ui/help"
	"github.com/nhle/airdrop-tracker/internal/ui/typemgr"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewHelp
	ViewCommand
	ViewAirdropCreate
	ViewAirdropEdit
	ViewConfirmDelete
	ViewTypes
)

// Options configures the root model.
type Options struct {
	Notices         *NoticeBoard
	RefreshInterval time.Duration
	Logger          *zap.Logger
}

// deleteBindings keeps the confirm value on the heap so huh's pointer
// survives model copies.
type deleteBindings struct {
	id      int64
	name    string
	confirm bool
}

// Model is the root Bubble Tea model that manages view routing, layout
// and the tracking controller.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	ctrl         *tracker.Controller
	notices      *NoticeBoard
	logger       *zap.Logger
	keys         *KeyMap
	list         airdroplist.Model
	detail       detail.Model
	helpView     helpview.Model
	commandView  command.Model
	formView     airdropform.Model
	typeView     typemgr.Model
	confirmForm  *huh.Form
	del          *deleteBindings
	poller       *appsync.Poller
	spinner      spinner.Model
	loading      bool
	ready        bool
	notice       error
	status       string
	lastRefresh  time.Time
}

// New creates the root application model over ctrl.
func New(ctrl *tracker.Controller, opts Options) Model {
	keys := DefaultKeyMap()
	if opts.Notices == nil {
		opts.Notices = NewNoticeBoard()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	return Model{
		currentView: ViewList,
		ctrl:        ctrl,
		notices:     opts.Notices,
		logger:      opts.Logger,
		keys:        keys,
		list:        airdroplist.New(ctrl, keys, 80, 24),
		detail:      detail.New(ctrl, keys, 80, 24),
		helpView:    helpview.New(keys, 80, 24),
		commandView: command.New(80, 24),
		formView:    airdropform.New(80, 24),
		typeView:    typemgr.New(ctrl, keys, 80, 24),
		del:         &deleteBindings{},
		poller:      appsync.New(ctrl, opts.RefreshInterval, ctrl.Now, opts.Logger),
		spinner:     sp,
		loading:     true,
	}
}

// Init loads the airdrops and starts background refresh.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.load(),
		m.spinner.Tick,
		m.poller.Start(),
		m.notices.wait(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.list.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.formView.SetSize(w, h)
		m.typeView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case noticeMsg:
		m.notice = msg.err
		return m, m.notices.wait()

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		m.loading = false
		if msg.err == nil {
			m.lastRefresh = m.ctrl.Now()
			m.status = taskErrorSummary(msg.report)
		}
		return m, m.refreshViews()

	case appsync.RefreshMsg:
		if msg.Err == nil && !msg.Report.Stale {
			m.lastRefresh = m.ctrl.Now()
		}
		return m, tea.Batch(m.refreshViews(), m.poller.WaitForNextResult())

	case appsync.DayChangedMsg:
		m.status = "New day: " + msg.Day
		return m, tea.Batch(m.refreshViews(), m.poller.WaitForNextResult())

	case airdroplist.SelectedMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detail.Open(msg.ID)
		return m, nil

	case airdroplist.ReorderedMsg:
		if msg.Err != nil {
			m.status = "Reorder reverted"
		}
		return m, m.refreshViews()

	case airdroplist.StatusMsg:
		m.status = string(msg)
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewList
		return m, m.list.Refresh()

	case detail.ChangedMsg:
		return m, m.list.Refresh()

	case formTypesLoadedMsg:
		m.formView.SetTypes(msg.types)
		if m.currentView == ViewAirdropCreate {
			return m, m.formView.StartCreate()
		}
		return m, nil

	case airdropform.CreatedMsg:
		m.currentView = ViewList
		return m, m.createAirdrop(msg.Draft)

	case airdropform.EditedMsg:
		m.currentView = m.previousView
		return m, m.updateAirdrop(msg.ID, msg.Patch)

	case airdropform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case airdropCreatedResultMsg:
		m.status = resultStatus(msg.err, "Airdrop added")
		return m, m.refreshViews()

	case airdropUpdatedResultMsg:
		m.status = resultStatus(msg.err, "Airdrop saved")
		return m, m.refreshViews()

	case airdropDeletedResultMsg:
		switch {
		case errors.Is(msg.err, tracker.ErrDeclined):
			m.status = "Delete cancelled"
		case msg.err == nil:
			m.status = fmt.Sprintf("Deleted %q", msg.name)
		}
		m.currentView = ViewList
		return m, m.refreshViews()

	case typemgr.CloseMsg:
		m.currentView = ViewList
		return m, nil

	case typemgr.ChangedMsg:
		m.formView.SetTypes(msg.Types)
		var cmd tea.Cmd
		m.typeView, cmd = m.typeView.Update(msg)
		return m, cmd

	case command.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		if m.notice != nil {
			// The notice blocks every other key until acknowledged.
			switch msg.String() {
			case "enter", "esc":
				m.notice = nil
			}
			return m, nil
		}
		if !m.inputFocused() {
			if mdl, cmd, handled := m.handleGlobalKey(msg); handled {
				return mdl, cmd
			}
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work regardless of the active view.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "q":
		if m.currentView == ViewList {
			return m, m.quit(), true
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case ":":
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus(), true

	case "esc":
		if m.currentView == ViewHelp || m.currentView == ViewCommand {
			m.currentView = m.previousView
			return m, nil, true
		}

	case "r":
		if m.currentView == ViewList {
			m.status = ""
			m.loading = true
			return m, tea.Batch(m.load(), m.spinner.Tick), true
		}

	case "n":
		if m.currentView == ViewList {
			m.previousView = m.currentView
			m.currentView = ViewAirdropCreate
			return m, m.loadFormTypes(), true
		}

	case "e":
		if a, ok := m.focusedAirdrop(); ok {
			m.previousView = m.currentView
			m.currentView = ViewAirdropEdit
			return m, m.formView.StartEdit(a), true
		}

	case "d":
		if m.currentView == ViewList {
			if a, ok := m.list.Selected(); ok {
				return m.startDelete(a)
			}
		}

	case "t":
		if m.currentView == ViewList {
			m.previousView = m.currentView
			m.currentView = ViewTypes
			return m, m.typeView.Init(), true
		}
	}
	return m, nil, false
}

// startDelete opens the delete confirmation.
func (m Model) startDelete(a model.Airdrop) (tea.Model, tea.Cmd, bool) {
	*m.del = deleteBindings{id: a.ID, name: a.Name}
	m.confirmForm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete airdrop %q?", a.Name)).
				Description("Its daily tasks and their history are deleted too.").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.del.confirm),
		),
	).WithWidth(min(max(m.layout.ContentWidth()-4, 40), 100))
	m.previousView = m.currentView
	m.currentView = ViewConfirmDelete
	return m, m.confirmForm.Init(), true
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.confirmForm == nil {
		m.currentView = ViewList
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	switch m.confirmForm.State {
	case huh.StateCompleted:
		return m, m.deleteAirdrop(m.del.id, m.del.confirm)
	case huh.StateAborted:
		return m, m.deleteAirdrop(m.del.id, false)
	}
	return m, cmd
}

// focusedAirdrop returns the airdrop the list cursor or detail view is on.
func (m Model) focusedAirdrop() (model.Airdrop, bool) {
	switch m.currentView {
	case ViewList:
		return m.list.Selected()
	case ViewDetail:
		return m.ctrl.Item(m.detail.AirdropID())
	}
	return model.Airdrop{}, false
}

// inputFocused reports whether the active view is capturing text.
func (m Model) inputFocused() bool {
	switch m.currentView {
	case ViewList:
		return m.list.Searching()
	case ViewDetail:
		return m.detail.Editing()
	case ViewTypes:
		return m.typeView.Editing()
	case ViewCommand, ViewAirdropCreate, ViewAirdropEdit, ViewConfirmDelete:
		return true
	}
	return false
}

// refreshViews re-reads the controller's cache into the visible views.
func (m *Model) refreshViews() tea.Cmd {
	m.detail.Refresh()
	return m.list.Refresh()
}

func (m *Model) quit() tea.Cmd {
	m.poller.Stop()
	m.notices.Close()
	return tea.Quit
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.list, cmd = m.list.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewAirdropCreate, ViewAirdropEdit:
		m.formView, cmd = m.formView.Update(msg)
	case ViewConfirmDelete:
		return m.updateConfirm(msg)
	case ViewTypes:
		m.typeView, cmd = m.typeView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Airdrops", m.summary())
	content := m.renderContent()
	if m.notice != nil {
		content = m.renderNotice()
	}
	statusBar := m.layout.RenderStatusBar(m.status, m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.list.View()
	case ViewDetail:
		return m.detail.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewAirdropCreate, ViewAirdropEdit:
		return m.formView.View()
	case ViewConfirmDelete:
		if m.confirmForm == nil {
			return ""
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(m.confirmForm.View())
	case ViewTypes:
		return m.typeView.View()
	default:
		return ""
	}
}

func (m Model) renderNotice() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(theme.ColorRed).Render("Something went wrong"),
		"",
		m.notice.Error(),
		"",
		theme.HelpStyle.Render("enter or esc to dismiss"),
	)
	return m.layout.Overlay(
		theme.NoticeStyle.Width(min(m.layout.ContentWidth()-4, 70)).Render(body),
	)
}

// summary is the header's right side: today's overall progress and the
// last refresh time.
func (m Model) summary() string {
	done, total := 0, 0
	for _, a := range m.ctrl.Items() {
		p := m.ctrl.Progress(a.ID)
		done += p.Completed
		total += p.Total
	}
	s := fmt.Sprintf("%s  %d/%d done", m.ctrl.Today(), done, total)
	if m.loading {
		return m.spinner.View() + " loading  " + s
	}
	if !m.lastRefresh.IsZero() {
		s += "  synced " + m.lastRefresh.Local().Format("15:04")
	}
	return s
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.notice != nil {
		return "enter dismiss"
	}

	var hints string
	switch m.currentView {
	case ViewHelp:
		hints = "? close help | esc back"
	case ViewCommand:
		hints = "enter execute | esc back"
	case ViewDetail:
		hints = "x done today | a add task | D delete task | w wallet | e edit | esc back"
	case ViewAirdropCreate, ViewAirdropEdit:
		hints = "enter submit | esc cancel"
	case ViewConfirmDelete:
		hints = "y/n confirm | esc cancel"
	case ViewTypes:
		hints = "n new | esc back"
	default:
		if m.list.Searching() {
			hints = "type to filter | enter keep | esc clear"
		} else {
			hints = "q quit | ? help | n new | / search | J/K move | t types"
		}
	}
	return hints
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	verb, arg, _ := strings.Cut(cmd, " ")
	switch verb {
	case "refresh", "sync":
		m.poller.RefreshNow()
		return nil
	case "quit", "q":
		return m.quit()
	case "new", "add":
		m.previousView = ViewList
		m.currentView = ViewAirdropCreate
		return m.loadFormTypes()
	case "types":
		m.previousView = ViewList
		m.currentView = ViewTypes
		return m.typeView.Init()
	case "search", "filter":
		m.currentView = ViewList
		m.ctrl.SetFilter(strings.TrimSpace(arg))
		return m.list.Refresh()
	case "clear":
		m.currentView = ViewList
		m.ctrl.SetFilter("")
		return m.list.Refresh()
	case "help":
		m.currentView = ViewHelp
		return nil
	default:
		m.status = fmt.Sprintf("unknown command %q", cmd)
		return nil
	}
}

// taskErrorSummary reports how many task lists failed to load.
func taskErrorSummary(r tracker.LoadReport) string {
	if n := len(r.TaskErrors); n > 0 {
		return fmt.Sprintf("%d task lists could not be loaded", n)
	}
	return ""
}

// resultStatus maps a mutation outcome to a status hint. Dispatch failures
// already reach the user through the notice, so only local refusals are
// echoed here.
func resultStatus(err error, ok string) string {
	var ve *tracker.ValidationError
	var de *tracker.DispatchError
	switch {
	case err == nil:
		return ok
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &de):
		return ""
	default:
		return err.Error()
	}
}
