package model

import "time"

// DailyTask is a repeatable task that belongs to exactly one airdrop.
// DoneDates is the completion ledger: calendar days (YYYY-MM-DD) on
// which the task was marked done. Its lifecycle is bound to the parent
// airdrop (CASCADE delete).
type DailyTask struct {
	ID        int64     `json:"id" db:"id"`
	AirdropID int64     `json:"airdrop_id" db:"airdrop_id"`
	Title     string    `json:"title" db:"title"`
	Order     int64     `json:"order" db:"order"`
	DoneDates []string  `json:"done_dates" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
