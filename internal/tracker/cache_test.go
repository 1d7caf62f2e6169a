package tracker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/airdrop-tracker/internal/model"
	"github.com/nhle/airdrop-tracker/internal/reorder"
)

func loadedCache(t *testing.T, names ...string) *Cache {
	t.Helper()
	items := make([]model.Airdrop, len(names))
	for i, n := range names {
		items[i] = model.Airdrop{ID: int64(i + 1), Name: n, Position: int64(i)}
	}
	c := NewCache()
	require.True(t, c.ReplaceAll(c.BeginLoad(), items, nil))
	return c
}

func move(from, to int) func([]model.Airdrop) ([]model.Airdrop, error) {
	return func(cur []model.Airdrop) ([]model.Airdrop, error) {
		return reorder.Move(cur, from, to)
	}
}

func TestCache_ApplyLocalConfirm(t *testing.T) {
	c := loadedCache(t, "A", "B", "C")

	tok, err := c.ApplyLocal(move(2, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, itemNames(c.Items()))
	assert.Equal(t, 1, c.Pending())

	c.Confirm(tok)
	assert.Zero(t, c.Pending())
	assert.False(t, c.Rollback(tok), "confirmed tokens cannot be rolled back")
	assert.Equal(t, []string{"C", "A", "B"}, itemNames(c.Items()))
}

func TestCache_RollbackRestoresSnapshot(t *testing.T) {
	c := loadedCache(t, "A", "B", "C")

	tok, err := c.ApplyLocal(move(0, 2))
	require.NoError(t, err)
	require.True(t, c.Rollback(tok))

	items := c.Items()
	assert.Equal(t, []string{"A", "B", "C"}, itemNames(items))
	assert.Equal(t, int64(0), items[0].Position)
	assert.Zero(t, c.Pending())
}

func TestCache_RollbackDiscardsLaterChanges(t *testing.T) {
	c := loadedCache(t, "A", "B", "C")

	first, err := c.ApplyLocal(move(0, 1))
	require.NoError(t, err)
	second, err := c.ApplyLocal(move(2, 0))
	require.NoError(t, err)

	require.True(t, c.Rollback(first))
	assert.Equal(t, []string{"A", "B", "C"}, itemNames(c.Items()))
	assert.False(t, c.Rollback(second))
}

func TestCache_ApplyLocalErrorLeavesState(t *testing.T) {
	c := loadedCache(t, "A", "B")

	_, err := c.ApplyLocal(func([]model.Airdrop) ([]model.Airdrop, error) {
		return nil, errors.New("nope")
	})
	assert.Error(t, err)
	assert.Zero(t, c.Pending())
	assert.Equal(t, []string{"A", "B"}, itemNames(c.Items()))
}

func TestCache_ReplaceAllDropsPendingSnapshots(t *testing.T) {
	c := loadedCache(t, "A", "B")

	tok, err := c.ApplyLocal(move(0, 1))
	require.NoError(t, err)

	fresh := []model.Airdrop{{ID: 1, Name: "A", Position: 0}, {ID: 2, Name: "B2", Position: 1}}
	require.True(t, c.ReplaceAll(c.BeginLoad(), fresh, nil))

	assert.False(t, c.Rollback(tok))
	assert.Equal(t, []string{"A", "B2"}, itemNames(c.Items()))
}

func TestCache_ReplaceAllSortsByPositionThenID(t *testing.T) {
	c := NewCache()
	items := []model.Airdrop{
		{ID: 3, Name: "c", Position: 1},
		{ID: 2, Name: "b", Position: 0},
		{ID: 1, Name: "a", Position: 0},
	}
	require.True(t, c.ReplaceAll(c.BeginLoad(), items, nil))
	assert.Equal(t, []string{"a", "b", "c"}, itemNames(c.Items()))
}

func TestCache_StaleLoadRejected(t *testing.T) {
	c := NewCache()
	old := c.BeginLoad()
	newer := c.BeginLoad()

	require.True(t, c.ReplaceAll(newer, []model.Airdrop{{ID: 1, Name: "new"}}, nil))
	assert.False(t, c.ReplaceAll(old, []model.Airdrop{{ID: 1, Name: "old"}}, nil))
	assert.Equal(t, []string{"new"}, itemNames(c.Items()))
}

func TestCache_TaskGenerations(t *testing.T) {
	c := loadedCache(t, "A")

	g1 := c.BeginTaskFetch(1)
	g2 := c.BeginTaskFetch(1)

	assert.True(t, c.ApplyTasks(1, g2, []model.DailyTask{{ID: 2, AirdropID: 1, Title: "newer"}}))
	assert.False(t, c.ApplyTasks(1, g1, []model.DailyTask{{ID: 1, AirdropID: 1, Title: "older"}}))

	tasks := c.Tasks(1)
	require.Len(t, tasks, 1)
	assert.Equal(t, "newer", tasks[0].Title)
}

func TestCache_ReplaceAllKeepsNewerTasksAndFailedFetches(t *testing.T) {
	c := loadedCache(t, "A", "B")
	require.True(t, c.ApplyTasks(2, c.BeginTaskFetch(2), []model.DailyTask{{ID: 20, AirdropID: 2, Title: "kept"}}))

	loadGen := c.BeginLoad()
	stale := c.BeginTaskFetch(1)
	fresh := c.BeginTaskFetch(1)
	require.True(t, c.ApplyTasks(1, fresh, []model.DailyTask{{ID: 11, AirdropID: 1, Title: "fresh"}}))

	items := []model.Airdrop{{ID: 1, Name: "A"}, {ID: 2, Name: "B", Position: 1}}
	fetched := map[int64]TaskFetch{
		1: {Gen: stale, Tasks: []model.DailyTask{{ID: 10, AirdropID: 1, Title: "stale"}}},
		2: {Err: errors.New("offline")},
	}
	require.True(t, c.ReplaceAll(loadGen, items, fetched))

	assert.Equal(t, "fresh", c.Tasks(1)[0].Title)
	assert.Equal(t, "kept", c.Tasks(2)[0].Title)
}

func TestCache_RemoveTombstones(t *testing.T) {
	c := loadedCache(t, "A", "B")
	tok, err := c.ApplyLocal(move(0, 1))
	require.NoError(t, err)

	c.Remove(1)
	assert.Equal(t, []string{"B"}, itemNames(c.Items()))

	// Neither a rollback nor a late load brings the airdrop back.
	require.True(t, c.Rollback(tok))
	assert.Equal(t, []string{"B"}, itemNames(c.Items()))

	items := []model.Airdrop{{ID: 1, Name: "A"}, {ID: 2, Name: "B", Position: 1}}
	require.True(t, c.ReplaceAll(c.BeginLoad(), items, nil))
	assert.Equal(t, []string{"B"}, itemNames(c.Items()))
	assert.False(t, c.ApplyTasks(1, c.BeginTaskFetch(1), nil))
}

func TestCache_ReadsAreCopies(t *testing.T) {
	c := loadedCache(t, "A")
	require.True(t, c.ApplyTasks(1, c.BeginTaskFetch(1), []model.DailyTask{{ID: 1, AirdropID: 1, DoneDates: []string{"2024-05-01"}}}))

	items := c.Items()
	items[0].Name = "mutated"
	tasks := c.Tasks(1)
	tasks[0].DoneDates[0] = "mutated"

	assert.Equal(t, "A", c.Items()[0].Name)
	assert.Equal(t, "2024-05-01", c.Tasks(1)[0].DoneDates[0])
}
