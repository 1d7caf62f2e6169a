// Package ledger derives completion state from a daily task's set of
// completion dates. All comparisons happen on calendar-day strings so the
// result never depends on the time of day or the zone offset.
package ledger

import (
	"slices"
	"sort"
	"time"

	"github.com/nhle/airdrop-tracker/internal/model"
)

// DateLayout is the ISO calendar date format stored in the ledger.
const DateLayout = "2006-01-02"

// Progress summarises how many of an airdrop's tasks are done on a date.
type Progress struct {
	Completed int
	Total     int
	Ratio     float64
}

// Today formats now as the local calendar day.
func Today(now time.Time) string {
	return now.Local().Format(DateLayout)
}

// IsDoneOn reports whether date is a member of the task's ledger.
func IsDoneOn(task model.DailyTask, date string) bool {
	return slices.Contains(task.DoneDates, date)
}

// IsDoneToday reports whether the task was completed on now's calendar day.
func IsDoneToday(task model.DailyTask, now time.Time) bool {
	return IsDoneOn(task, Today(now))
}

// MarkDone returns a copy of task with date added to its ledger. Marking the
// same date twice returns an equivalent task.
func MarkDone(task model.DailyTask, date string) model.DailyTask {
	out := task
	out.DoneDates = slices.Clone(task.DoneDates)
	if !slices.Contains(out.DoneDates, date) {
		out.DoneDates = append(out.DoneDates, date)
	}
	return out
}

// MarkDoneToday is MarkDone for now's calendar day.
func MarkDoneToday(task model.DailyTask, now time.Time) model.DailyTask {
	return MarkDone(task, Today(now))
}

// Dedupe returns dates with duplicates removed, keeping first occurrences.
func Dedupe(dates []string) []string {
	seen := make(map[string]struct{}, len(dates))
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// ComputeProgress counts the tasks owned by airdropID that are done on date.
// Tasks belonging to other airdrops are ignored.
func ComputeProgress(airdropID int64, tasks []model.DailyTask, date string) Progress {
	var p Progress
	for _, t := range tasks {
		if t.AirdropID != airdropID {
			continue
		}
		p.Total++
		if IsDoneOn(t, date) {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Ratio = float64(p.Completed) / float64(p.Total)
	}
	return p
}

// SortTasks returns a copy of tasks ordered by Order ascending. Tasks with
// equal order keep their relative input order.
func SortTasks(tasks []model.DailyTask) []model.DailyTask {
	out := slices.Clone(tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// NextOrder returns the order value for a task appended after tasks.
func NextOrder(tasks []model.DailyTask) int64 {
	if len(tasks) == 0 {
		return 0
	}
	highest := tasks[0].Order
	for _, t := range tasks[1:] {
		if t.Order > highest {
			highest = t.Order
		}
	}
	return highest + 1
}

// Streak counts consecutive completed days ending today. If today is not yet
// done the run ending yesterday still counts.
func Streak(task model.DailyTask, now time.Time) int {
	done := make(map[string]struct{}, len(task.DoneDates))
	for _, d := range task.DoneDates {
		done[d] = struct{}{}
	}

	day := now.Local()
	if _, ok := done[day.Format(DateLayout)]; !ok {
		day = day.AddDate(0, 0, -1)
	}

	n := 0
	for {
		if _, ok := done[day.Format(DateLayout)]; !ok {
			return n
		}
		n++
		day = day.AddDate(0, 0, -1)
	}
}
