package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/airdrop-tracker/internal/model"
)

type typeRow struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	DefaultTasks string    `db:"default_tasks"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// ListAirdropTypes returns the type catalogue ordered by name.
func (s *SQLiteStore) ListAirdropTypes(ctx context.Context) ([]model.AirdropType, error) {
	var rows []typeRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, default_tasks, created_at, updated_at
		FROM airdrop_types
		ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying airdrop types: %w", err)
	}

	types := make([]model.AirdropType, 0, len(rows))
	for _, r := range rows {
		defaults, err := model.ParseDefaultTasks([]byte(r.DefaultTasks))
		if err != nil {
			return nil, fmt.Errorf("airdrop type %d: %w", r.ID, err)
		}
		types = append(types, model.AirdropType{
			ID:           r.ID,
			Name:         r.Name,
			DefaultTasks: defaults,
			CreatedAt:    r.CreatedAt,
			UpdatedAt:    r.UpdatedAt,
		})
	}
	return types, nil
}

// CreateAirdropType inserts a new type with its default tasks.
func (s *SQLiteStore) CreateAirdropType(ctx context.Context, name string, defaults []model.DefaultTask) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("airdrop type name must not be empty")
	}
	if defaults == nil {
		defaults = []model.DefaultTask{}
	}

	encoded, err := json.Marshal(defaults)
	if err != nil {
		return 0, fmt.Errorf("marshaling default tasks: %w", err)
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO airdrop_types (name, default_tasks, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		name, string(encoded), now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("creating airdrop type: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading airdrop type id: %w", err)
	}
	return id, nil
}
