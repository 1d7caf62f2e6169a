package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/airdrop-tracker/internal/ledger"
	"github.com/nhle/airdrop-tracker/internal/model"
)

// taskRow mirrors an airdrop_daily_tasks row; done_dates is stored as a
// JSON array.
type taskRow struct {
	ID        int64     `db:"id"`
	AirdropID int64     `db:"airdrop_id"`
	Title     string    `db:"title"`
	Order     int64     `db:"order"`
	DoneDates string    `db:"done_dates"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r taskRow) toModel() (model.DailyTask, error) {
	dates, err := decodeDates(r.DoneDates)
	if err != nil {
		return model.DailyTask{}, fmt.Errorf("task %d: %w", r.ID, err)
	}
	return model.DailyTask{
		ID:        r.ID,
		AirdropID: r.AirdropID,
		Title:     r.Title,
		Order:     r.Order,
		DoneDates: ledger.Dedupe(dates),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

// ListDailyTasks returns the tasks of one airdrop ordered by "order".
func (s *SQLiteStore) ListDailyTasks(ctx context.Context, airdropID int64) ([]model.DailyTask, error) {
	var rows []taskRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, airdrop_id, title, "order", done_dates, created_at, updated_at
		FROM airdrop_daily_tasks
		WHERE airdrop_id = ?
		ORDER BY "order" ASC, id ASC`, airdropID)
	if err != nil {
		return nil, fmt.Errorf("querying tasks for airdrop %d: %w", airdropID, err)
	}

	tasks := make([]model.DailyTask, 0, len(rows))
	for _, r := range rows {
		t, err := r.toModel()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// CreateDailyTask inserts a task with an empty ledger.
func (s *SQLiteStore) CreateDailyTask(ctx context.Context, airdropID int64, title string, order int64) (int64, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, fmt.Errorf("task title must not be empty")
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO airdrop_daily_tasks (airdrop_id, title, "order", done_dates, created_at, updated_at)
		VALUES (?, ?, ?, '[]', ?, ?)`,
		airdropID, title, order, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("creating task for airdrop %d: %w", airdropID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading task id: %w", err)
	}
	return id, nil
}

// DeleteDailyTask removes a task by ID.
func (s *SQLiteStore) DeleteDailyTask(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM airdrop_daily_tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return nil
}

// MarkTaskDone adds date to the task's ledger. Marking a date that is
// already present changes nothing.
func (s *SQLiteStore) MarkTaskDone(ctx context.Context, taskID, airdropID int64, date string) error {
	if _, err := time.Parse(ledger.DateLayout, date); err != nil {
		return fmt.Errorf("marking task %d done: invalid date %q", taskID, date)
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		var raw string
		err := tx.GetContext(ctx, &raw,
			"SELECT done_dates FROM airdrop_daily_tasks WHERE id = ? AND airdrop_id = ?",
			taskID, airdropID)
		if err != nil {
			return fmt.Errorf("task %d of airdrop %d: %w", taskID, airdropID, notFoundOr(err))
		}

		dates, err := decodeDates(raw)
		if err != nil {
			return fmt.Errorf("task %d: %w", taskID, err)
		}
		updated := ledger.MarkDone(model.DailyTask{DoneDates: ledger.Dedupe(dates)}, date)

		encoded, err := json.Marshal(updated.DoneDates)
		if err != nil {
			return fmt.Errorf("marshaling done_dates: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			"UPDATE airdrop_daily_tasks SET done_dates = ?, updated_at = ? WHERE id = ?",
			string(encoded), time.Now().UTC(), taskID)
		if err != nil {
			return fmt.Errorf("marking task %d done: %w", taskID, err)
		}
		return nil
	})
}
