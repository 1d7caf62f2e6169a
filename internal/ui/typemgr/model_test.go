package typemgr

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/airdrop-tracker/internal/keys"
	"github.com/nhle/airdrop-tracker/internal/model"
)

type fakeSource struct {
	types   []model.AirdropType
	loadErr error
}

func (f *fakeSource) Types(context.Context) ([]model.AirdropType, error) {
	return f.types, f.loadErr
}

func (f *fakeSource) CreateType(_ context.Context, name string, titles []string) (int64, error) {
	t := model.AirdropType{ID: int64(len(f.types) + 1), Name: name}
	for _, title := range titles {
		t.DefaultTasks = append(t.DefaultTasks, model.DefaultTask{Title: title})
	}
	f.types = append(f.types, t)
	return t.ID, nil
}

func TestSplitTasks(t *testing.T) {
	assert.Equal(t, []string{"Claim faucet", "Swap"}, SplitTasks("  Claim faucet \n\n Swap\n   "))
	assert.Empty(t, SplitTasks(""))
}

func TestInit_LoadsAndAnnouncesTypes(t *testing.T) {
	src := &fakeSource{types: []model.AirdropType{{ID: 1, Name: "Testnet"}, {ID: 2, Name: "Mainnet"}}}
	m := New(src, keys.DefaultKeyMap(), 80, 24)

	loaded := m.Init()()
	m, cmd := m.Update(loaded)
	require.NotNil(t, cmd)

	changed, ok := cmd().(ChangedMsg)
	require.True(t, ok)
	assert.Len(t, changed.Types, 2)
	assert.Contains(t, m.View(), "Testnet")
}

func TestLoadError_ShownInStatus(t *testing.T) {
	src := &fakeSource{loadErr: errors.New("backend down")}
	m := New(src, keys.DefaultKeyMap(), 80, 24)

	m, cmd := m.Update(m.Init()())
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Error: backend down")
}

func TestListKeys(t *testing.T) {
	src := &fakeSource{types: []model.AirdropType{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}}
	m := New(src, keys.DefaultKeyMap(), 80, 24)
	m, _ = m.Update(m.Init()())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	assert.Equal(t, 1, m.selectedIdx)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.True(t, m.Editing())

	m.mode = modeList
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, CloseMsg{}, cmd())
}

func TestSaveType_SplitsDefaultTasks(t *testing.T) {
	src := &fakeSource{}
	m := New(src, keys.DefaultKeyMap(), 80, 24)
	m.fb.name = "Testnet"
	m.fb.tasks = "Faucet\n\nBridge"

	m, cmd := m.Update(m.saveType()())
	require.Len(t, src.types, 1)
	assert.Equal(t, []model.DefaultTask{{Title: "Faucet"}, {Title: "Bridge"}}, src.types[0].DefaultTasks)
	assert.False(t, m.Editing())
	require.NotNil(t, cmd)
	assert.IsType(t, LoadedMsg{}, cmd())
}
