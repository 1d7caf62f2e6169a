package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/airdrop-tracker/internal/model"
	"github.com/nhle/airdrop-tracker/internal/tracker"
)

// loadedMsg is sent after a foreground reload.
type loadedMsg struct {
	report tracker.LoadReport
	err    error
}

// airdropCreatedResultMsg is sent after a new airdrop is dispatched.
type airdropCreatedResultMsg struct {
	id  int64
	err error
}

// airdropUpdatedResultMsg is sent after an airdrop edit is dispatched.
type airdropUpdatedResultMsg struct{ err error }

// airdropDeletedResultMsg is sent after a delete attempt.
type airdropDeletedResultMsg struct {
	name string
	err  error
}

// formTypesLoadedMsg carries the type catalogue for the create form.
type formTypesLoadedMsg struct {
	types []model.AirdropType
	err   error
}

// load reloads every airdrop and its tasks.
func (m *Model) load() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		report, err := ctrl.Load(context.Background())
		return loadedMsg{report: report, err: err}
	}
}

// createAirdrop dispatches a new airdrop.
func (m *Model) createAirdrop(draft model.AirdropDraft) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		id, err := ctrl.Create(context.Background(), draft)
		return airdropCreatedResultMsg{id: id, err: err}
	}
}

// updateAirdrop dispatches a partial edit.
func (m *Model) updateAirdrop(id int64, patch model.AirdropPatch) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return airdropUpdatedResultMsg{err: ctrl.Update(context.Background(), id, patch)}
	}
}

// deleteAirdrop runs the delete with the user's answer as the gate.
func (m *Model) deleteAirdrop(id int64, confirmed bool) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		var name string
		err := ctrl.Delete(context.Background(), id, func(a model.Airdrop) bool {
			name = a.Name
			return confirmed
		})
		return airdropDeletedResultMsg{name: name, err: err}
	}
}

// loadFormTypes fetches the type catalogue before the create form opens.
func (m *Model) loadFormTypes() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		types, err := ctrl.Types(context.Background())
		return formTypesLoadedMsg{types: types, err: err}
	}
}
