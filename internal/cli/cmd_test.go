package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/airdrop-tracker/internal/invoke"
	"github.com/nhle/airdrop-tracker/internal/model"
	"github.com/nhle/airdrop-tracker/internal/store"
	"github.com/nhle/airdrop-tracker/internal/tracker"
	"github.com/nhle/airdrop-tracker/tests/testutil"
)

var testNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)

func clock() time.Time { return testNow }

// testApp wires a full App over an in-memory store for CLI tests.
func testApp(t *testing.T) (*App, *store.SQLiteStore) {
	t.Helper()
	s := testutil.NewTestStore(t)

	bus := invoke.NewBus(nil)
	invoke.Register(bus, s, clock)

	ctrl := tracker.New(invoke.NewClient(bus), tracker.Options{Clock: clock})
	return &App{
		Tracker:       ctrl,
		ConfigPath:    filepath.Join(t.TempDir(), "config.yaml"),
		IsInteractive: func() bool { return false },
	}, s
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func names(app *App) []string {
	var out []string
	for _, a := range app.Tracker.Items() {
		out = append(out, a.Name)
	}
	return out
}

// --- root ---

func TestRootCmd_NonInteractiveListsAirdrops(t *testing.T) {
	app, s := testApp(t)
	testutil.SeedAirdrops(t, s, "Alpha")

	tuiCalled := false
	app.RunTUI = func() error { tuiCalled = true; return nil }

	out, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.False(t, tuiCalled)
	assert.Contains(t, out, "Alpha")
}

func TestRootCmd_InteractiveRunsTUI(t *testing.T) {
	app, _ := testApp(t)
	app.IsInteractive = func() bool { return true }
	tuiCalled := false
	app.RunTUI = func() error { tuiCalled = true; return nil }

	_, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.True(t, tuiCalled)
}

// --- list ---

func TestListCmd_Empty(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No airdrops yet")
}

func TestListCmd_Search(t *testing.T) {
	app, s := testApp(t)
	testutil.SeedAirdrops(t, s, "Alpha", "Beta", "Alphabet")

	out, err := executeCmd(t, app, "list", "--search", "alpha")
	require.NoError(t, err)
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "Alphabet")
	assert.NotContains(t, out, "Beta")

	out, err = executeCmd(t, app, "list", "--search", "zzz")
	require.NoError(t, err)
	assert.Contains(t, out, `No airdrops match "zzz"`)
}

// --- add / update ---

func TestAddCmd_WithTypeSeedsTasks(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "types", "add", "Testnet", "--task", "Faucet", "--task", "Swap")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "add", "Monad", "--type", "testnet", "--chain", "Monad", "--url", "https://monad.xyz")
	require.NoError(t, err)
	assert.Contains(t, out, "Added airdrop Monad")
	assert.Contains(t, out, "with 2 daily tasks")

	a, err := resolveAirdrop(app, "Monad")
	require.NoError(t, err)
	assert.Equal(t, "https://monad.xyz", a.URL)
	assert.Equal(t, "Monad", model.StringValue(a.Chain))
}

func TestAddCmd_RejectsBadURL(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "add", "Alpha", "--url", "ftp://nope")
	require.Error(t, err)
	var ve *tracker.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Empty(t, app.Tracker.Items())
}

func TestUpdateCmd_OnlyChangedFlags(t *testing.T) {
	app, s := testApp(t)
	testutil.SeedAirdrops(t, s, "Alpha")

	_, err := executeCmd(t, app, "update", "alpha", "--wallet", "0xabc", "--active=false")
	require.NoError(t, err)

	a, err := resolveAirdrop(app, "Alpha")
	require.NoError(t, err)
	assert.Equal(t, "0xabc", model.StringValue(a.WalletAddress))
	assert.False(t, a.Active)
	assert.Equal(t, "Alpha", a.Name)
}

func TestUpdateCmd_NoFlags(t *testing.T) {
	app, s := testApp(t)
	testutil.SeedAirdrops(t, s, "Alpha")

	_, err := executeCmd(t, app, "update", "Alpha")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to update")
}

// --- rm ---

func TestRemoveCmd_NonInteractiveRequiresYes(t *testing.T) {
	app, s := testApp(t)
	testutil.SeedAirdrops(t, s, "Alpha")

	_, err := executeCmd(t, app, "rm", "Alpha")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
	assert.Equal(t, []string{"Alpha"}, names(app))
}

func TestRemoveCmd_Yes(t *testing.T) {
	app, s := testApp(t)
	testutil.SeedAirdrops(t, s, "Alpha", "Beta")

	out, err := executeCmd(t, app, "rm", "Alpha", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted airdrop Alpha")
	assert.Equal(t, []string{"Beta"}, names(app))
}

func TestRemoveCmd_InteractiveDeclined(t *testing.T) {
	app, s := testApp(t)
	testutil.SeedAirdrops(t, s, "Alpha")
	app.IsInteractive = func() bool { return true }
	asked := ""
	app.Confirm = func(title string) (bool, error) {
		asked = title
		return false, nil
	}

	out, err := executeCmd(t, app, "rm", "Alpha")
	require.NoError(t, err)
	assert.Contains(t, asked, "Alpha")
	assert.Contains(t, out, "Cancelled")

	_, err = app.Tracker.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha"}, names(app))
}

// --- move ---

func TestMoveCmd(t *testing.T) {
	app, s := testApp(t)
	testutil.SeedAirdrops(t, s, "A", "B", "C")

	out, err := executeCmd(t, app, "move", "1", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Moved A to position 3")

	_, err = app.Tracker.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A"}, names(app))
}

func TestMoveCmd_OutOfRange(t *testing.T) {
	app, s := testApp(t)
	testutil.SeedAirdrops(t, s, "A", "B")

	_, err := executeCmd(t, app, "move", "1", "5")
	require.Error(t, err)
	assert.Equal(t, []string{"A", "B"}, names(app))
}

// --- tasks ---

func TestTaskAndDoneCmds(t *testing.T) {
	app, s := testApp(t)
	ids := testutil.SeedAirdrops(t, s, "Alpha")

	_, err := executeCmd(t, app, "task", "add", "Alpha", "Bridge", "funds")
	require.NoError(t, err)

	tasks := app.Tracker.Tasks(ids[0])
	require.Len(t, tasks, 1)
	assert.Equal(t, "Bridge funds", tasks[0].Title)

	taskID := tasks[0].ID
	out, err := executeCmd(t, app, "done", itoa(taskID))
	require.NoError(t, err)
	assert.Contains(t, out, "Done: Bridge funds (1/1 today)")

	out, err = executeCmd(t, app, "done", itoa(taskID))
	require.NoError(t, err)
	assert.Contains(t, out, "already done today")

	out, err = executeCmd(t, app, "task", "list", "Alpha")
	require.NoError(t, err)
	assert.Contains(t, out, "Bridge funds")

	_, err = executeCmd(t, app, "task", "rm", itoa(taskID))
	require.NoError(t, err)
	assert.Empty(t, app.Tracker.Tasks(ids[0]))
}

func TestDoneCmd_UnknownTask(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "done", "42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task not found")
}

// --- types / config ---

func TestTypesListCmd(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "types", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No airdrop types yet")

	_, err = executeCmd(t, app, "types", "add", "Mainnet", "-t", "Swap", "-t", " ")
	require.NoError(t, err)

	out, err = executeCmd(t, app, "types", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Mainnet")
	assert.Contains(t, out, "Swap")
}

func TestConfigInitCmd(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, app.ConfigPath)

	cfg, err := model.LoadConfig(app.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Dispatch.TimeoutSec)

	_, err = executeCmd(t, app, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = executeCmd(t, app, "config", "init", "--force")
	require.NoError(t, err)
}

func TestResolveAirdrop_Ambiguous(t *testing.T) {
	app, s := testApp(t)
	testutil.SeedAirdrops(t, s, "Alpha", "Alphabet")
	_, err := app.Tracker.Load(context.Background())
	require.NoError(t, err)

	a, err := resolveAirdrop(app, "alpha")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", a.Name)

	_, err = resolveAirdrop(app, "alp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
}
