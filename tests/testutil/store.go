package testutil

import (
	"context"
	"testing"

	"github.com/nhle/airdrop-tracker/internal/model"
	"github.com/nhle/airdrop-tracker/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// SeedAirdrops creates one active airdrop per name, in order, and returns
// their ids.
func SeedAirdrops(t *testing.T, s *store.SQLiteStore, names ...string) []int64 {
	t.Helper()

	ids := make([]int64, 0, len(names))
	for _, n := range names {
		id, err := s.CreateAirdrop(context.Background(), model.AirdropDraft{Name: n, Active: true})
		if err != nil {
			t.Fatalf("seeding airdrop %q: %v", n, err)
		}
		ids = append(ids, id)
	}
	return ids
}
