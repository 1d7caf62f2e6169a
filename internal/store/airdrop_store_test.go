package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/airdrop-tracker/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func draft(name string) model.AirdropDraft {
	return model.AirdropDraft{Name: name, Active: true}
}

func TestCreateAirdrop_AssignsNextPosition(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, n := range []string{"A", "B", "C"} {
		_, err := s.CreateAirdrop(ctx, draft(n))
		require.NoError(t, err)
	}

	got, err := s.ListAirdrops(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, a := range got {
		assert.Equal(t, int64(i), a.Position)
		assert.True(t, a.Active)
		assert.False(t, a.CreatedAt.IsZero())
	}
}

func TestCreateAirdrop_RejectsEmptyName(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateAirdrop(context.Background(), draft("  "))
	assert.Error(t, err)
}

func TestCreateAirdrop_SeedsTypeDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	typeID, err := s.CreateAirdropType(ctx, "Testnet", []model.DefaultTask{
		{Title: "Faucet"}, {Title: "Bridge"},
	})
	require.NoError(t, err)

	d := draft("Monad")
	d.AirdropTypeID = &typeID
	id, err := s.CreateAirdrop(ctx, d)
	require.NoError(t, err)

	tasks, err := s.ListDailyTasks(ctx, id)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Faucet", tasks[0].Title)
	assert.Equal(t, int64(0), tasks[0].Order)
	assert.Equal(t, "Bridge", tasks[1].Title)
	assert.Equal(t, int64(1), tasks[1].Order)
	assert.Empty(t, tasks[0].DoneDates)
}

func TestCreateAirdrop_UnknownTypeRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	missing := int64(99)
	d := draft("Ghost")
	d.AirdropTypeID = &missing
	_, err := s.CreateAirdrop(ctx, d)
	require.Error(t, err)

	got, err := s.ListAirdrops(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpdateAirdrop_Partial(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d := draft("Linea")
	d.URL = "https://linea.build"
	id, err := s.CreateAirdrop(ctx, d)
	require.NoError(t, err)

	wallet := "0xabc"
	inactive := false
	require.NoError(t, s.UpdateAirdrop(ctx, id, model.AirdropPatch{
		WalletAddress: &wallet,
		Active:        &inactive,
	}))

	got, err := s.ListAirdrops(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Linea", got[0].Name)
	assert.Equal(t, "https://linea.build", got[0].URL)
	assert.Equal(t, "0xabc", model.StringValue(got[0].WalletAddress))
	assert.False(t, got[0].Active)

	empty := ""
	require.NoError(t, s.UpdateAirdrop(ctx, id, model.AirdropPatch{WalletAddress: &empty}))
	got, err = s.ListAirdrops(ctx)
	require.NoError(t, err)
	assert.Nil(t, got[0].WalletAddress)
}

func TestUpdateAirdrop_NotFound(t *testing.T) {
	s := newTestStore(t)
	name := "x"
	err := s.UpdateAirdrop(context.Background(), 42, model.AirdropPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAirdrop_CascadesTasks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateAirdrop(ctx, draft("Zora"))
	require.NoError(t, err)
	_, err = s.CreateDailyTask(ctx, id, "Mint", 0)
	require.NoError(t, err)

	require.NoError(t, s.DeleteAirdrop(ctx, id))

	tasks, err := s.ListDailyTasks(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	assert.ErrorIs(t, s.DeleteAirdrop(ctx, id), ErrNotFound)
}

func TestReorderAirdrops(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var ids []int64
	for _, n := range []string{"A", "B", "C"} {
		id, err := s.CreateAirdrop(ctx, draft(n))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	err := s.ReorderAirdrops(ctx, []model.OrderItem{
		{ID: ids[1], Position: 0},
		{ID: ids[2], Position: 1},
		{ID: ids[0], Position: 2},
	})
	require.NoError(t, err)

	got, err := s.ListAirdrops(ctx)
	require.NoError(t, err)
	assert.Equal(t, "B", got[0].Name)
	assert.Equal(t, "C", got[1].Name)
	assert.Equal(t, "A", got[2].Name)
}

func TestReorderAirdrops_AllOrNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateAirdrop(ctx, draft("A"))
	require.NoError(t, err)
	b, err := s.CreateAirdrop(ctx, draft("B"))
	require.NoError(t, err)

	err = s.ReorderAirdrops(ctx, []model.OrderItem{
		{ID: b, Position: 0},
		{ID: a, Position: 1},
		{ID: 999, Position: 2},
	})
	require.ErrorIs(t, err, ErrNotFound)

	got, err := s.ListAirdrops(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, int64(0), got[0].Position)
	assert.Equal(t, "B", got[1].Name)
	assert.Equal(t, int64(1), got[1].Position)
}
