package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/airdrop-tracker/internal/model"
)

// ListAirdrops returns every airdrop in display order.
func (s *SQLiteStore) ListAirdrops(ctx context.Context) ([]model.Airdrop, error) {
	var airdrops []model.Airdrop
	err := s.db.SelectContext(ctx, &airdrops, `
		SELECT id, name, url, airdrop_type_id, chain, wallet_address,
			position, notes, active, created_at, updated_at
		FROM airdrops
		ORDER BY position ASC, created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying airdrops: %w", err)
	}
	return airdrops, nil
}

// CreateAirdrop inserts a new airdrop after the current last position and
// seeds its type's default tasks in the same transaction.
func (s *SQLiteStore) CreateAirdrop(ctx context.Context, draft model.AirdropDraft) (int64, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return 0, fmt.Errorf("airdrop name must not be empty")
	}

	var id int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var position int64
		if err := tx.GetContext(ctx, &position,
			"SELECT COALESCE(MAX(position), -1) + 1 FROM airdrops"); err != nil {
			return fmt.Errorf("getting next position: %w", err)
		}

		now := time.Now().UTC()
		result, err := tx.ExecContext(ctx, `
			INSERT INTO airdrops (
				name, url, airdrop_type_id, chain, wallet_address,
				position, notes, active, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			strings.TrimSpace(draft.Name), strings.TrimSpace(draft.URL),
			draft.AirdropTypeID, draft.Chain, draft.WalletAddress,
			position, draft.Notes, boolToInt(draft.Active), now, now,
		)
		if err != nil {
			return fmt.Errorf("creating airdrop: %w", err)
		}
		if id, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("reading airdrop id: %w", err)
		}

		if draft.AirdropTypeID != nil {
			return seedDefaultTasks(ctx, tx, id, *draft.AirdropTypeID, now)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// seedDefaultTasks copies an airdrop type's default tasks onto a new airdrop.
func seedDefaultTasks(ctx context.Context, tx *sqlx.Tx, airdropID, typeID int64, now time.Time) error {
	var raw string
	err := tx.GetContext(ctx, &raw, "SELECT default_tasks FROM airdrop_types WHERE id = ?", typeID)
	if err != nil {
		return fmt.Errorf("airdrop type %d: %w", typeID, notFoundOr(err))
	}

	defaults, err := model.ParseDefaultTasks([]byte(raw))
	if err != nil {
		return fmt.Errorf("airdrop type %d: %w", typeID, err)
	}

	for i, d := range defaults {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO airdrop_daily_tasks (airdrop_id, title, "order", done_dates, created_at, updated_at)
			VALUES (?, ?, ?, '[]', ?, ?)`,
			airdropID, d.Title, i, now, now,
		)
		if err != nil {
			return fmt.Errorf("seeding task %q: %w", d.Title, err)
		}
	}
	return nil
}

// UpdateAirdrop applies the non-nil fields of patch to an airdrop.
func (s *SQLiteStore) UpdateAirdrop(ctx context.Context, id int64, patch model.AirdropPatch) error {
	var (
		sets []string
		args []interface{}
	)

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return fmt.Errorf("airdrop name must not be empty")
		}
		sets = append(sets, "name = ?")
		args = append(args, strings.TrimSpace(*patch.Name))
	}
	if patch.URL != nil {
		sets = append(sets, "url = ?")
		args = append(args, strings.TrimSpace(*patch.URL))
	}
	if patch.AirdropTypeID != nil {
		sets = append(sets, "airdrop_type_id = ?")
		args = append(args, *patch.AirdropTypeID)
	}
	if patch.Chain != nil {
		sets = append(sets, "chain = ?")
		args = append(args, model.OptionalString(*patch.Chain))
	}
	if patch.WalletAddress != nil {
		sets = append(sets, "wallet_address = ?")
		args = append(args, model.OptionalString(*patch.WalletAddress))
	}
	if patch.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, model.OptionalString(*patch.Notes))
	}
	if patch.Active != nil {
		sets = append(sets, "active = ?")
		args = append(args, boolToInt(*patch.Active))
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	query := "UPDATE airdrops SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating airdrop %d: %w", id, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("airdrop %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteAirdrop removes an airdrop by ID. Cascades to its daily tasks.
func (s *SQLiteStore) DeleteAirdrop(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM airdrops WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting airdrop %d: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("airdrop %d: %w", id, ErrNotFound)
	}
	return nil
}

// ReorderAirdrops writes every position in one transaction. If any id is
// unknown nothing is written.
func (s *SQLiteStore) ReorderAirdrops(ctx context.Context, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		stmt, err := tx.PreparexContext(ctx,
			"UPDATE airdrops SET position = ?, updated_at = ? WHERE id = ?")
		if err != nil {
			return fmt.Errorf("preparing reorder statement: %w", err)
		}
		defer stmt.Close()

		now := time.Now().UTC()
		for _, it := range items {
			result, err := stmt.ExecContext(ctx, it.Position, now, it.ID)
			if err != nil {
				return fmt.Errorf("reordering airdrop %d: %w", it.ID, err)
			}
			rows, _ := result.RowsAffected()
			if rows == 0 {
				return fmt.Errorf("reordering airdrop %d: %w", it.ID, ErrNotFound)
			}
		}
		return nil
	})
}

// decodeDates parses a stored done_dates column.
func decodeDates(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var dates []string
	if err := json.Unmarshal([]byte(raw), &dates); err != nil {
		return nil, fmt.Errorf("unmarshaling done_dates: %w", err)
	}
	return dates, nil
}
