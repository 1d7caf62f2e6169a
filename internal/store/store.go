package store

import (
	"context"
	"errors"

	"github.com/nhle/airdrop-tracker/internal/model"
)

// ErrNotFound is returned when a mutation targets a row that does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for airdrops, their daily tasks
// and the airdrop type catalogue.
type Store interface {
	// === Airdrops ===

	ListAirdrops(ctx context.Context) ([]model.Airdrop, error)
	CreateAirdrop(ctx context.Context, draft model.AirdropDraft) (int64, error)
	UpdateAirdrop(ctx context.Context, id int64, patch model.AirdropPatch) error
	DeleteAirdrop(ctx context.Context, id int64) error
	ReorderAirdrops(ctx context.Context, items []model.OrderItem) error

	// === Daily tasks ===

	ListDailyTasks(ctx context.Context, airdropID int64) ([]model.DailyTask, error)
	CreateDailyTask(ctx context.Context, airdropID int64, title string, order int64) (int64, error)
	DeleteDailyTask(ctx context.Context, id int64) error
	MarkTaskDone(ctx context.Context, taskID, airdropID int64, date string) error

	// === Airdrop types ===

	ListAirdropTypes(ctx context.Context) ([]model.AirdropType, error)
	CreateAirdropType(ctx context.Context, name string, defaults []model.DefaultTask) (int64, error)
}
