package ledger

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/nhle/airdrop-tracker/internal/model"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		panic(err)
	}
	return t.Add(15 * time.Hour)
}

func TestIsDoneOn(t *testing.T) {
	task := model.DailyTask{ID: 1, DoneDates: []string{"2024-05-01", "2024-05-03"}}

	assert.True(t, IsDoneOn(task, "2024-05-01"))
	assert.True(t, IsDoneOn(task, "2024-05-03"))
	assert.False(t, IsDoneOn(task, "2024-05-02"))
	assert.False(t, IsDoneOn(model.DailyTask{}, "2024-05-01"))
}

func TestToday_UsesCalendarDay(t *testing.T) {
	late := time.Date(2024, 5, 1, 23, 59, 59, 0, time.Local)
	assert.Equal(t, "2024-05-01", Today(late))
}

func TestMarkDone_Idempotent(t *testing.T) {
	task := model.DailyTask{ID: 7, AirdropID: 1, Title: "Swap"}

	once := MarkDone(task, "2024-05-01")
	twice := MarkDone(once, "2024-05-01")

	assert.Equal(t, []string{"2024-05-01"}, twice.DoneDates)
	assert.True(t, IsDoneOn(twice, "2024-05-01"))
	assert.Empty(t, task.DoneDates, "input must not be mutated")
}

func TestMarkDone_DoesNotShareBackingArray(t *testing.T) {
	dates := make([]string, 1, 4)
	dates[0] = "2024-05-01"
	task := model.DailyTask{DoneDates: dates}

	a := MarkDone(task, "2024-05-02")
	b := MarkDone(task, "2024-05-03")

	assert.Equal(t, []string{"2024-05-01", "2024-05-02"}, a.DoneDates)
	assert.Equal(t, []string{"2024-05-01", "2024-05-03"}, b.DoneDates)
}

func TestMarkDoneToday(t *testing.T) {
	now := day("2024-06-10")
	task := MarkDoneToday(model.DailyTask{}, now)
	assert.True(t, IsDoneToday(task, now))
	assert.False(t, IsDoneToday(task, now.AddDate(0, 0, 1)))
}

func TestComputeProgress(t *testing.T) {
	tasks := []model.DailyTask{
		{ID: 1, AirdropID: 1, DoneDates: []string{"2024-05-01"}},
		{ID: 2, AirdropID: 1},
		{ID: 3, AirdropID: 1, DoneDates: []string{"2024-04-30"}},
		{ID: 4, AirdropID: 2, DoneDates: []string{"2024-05-01"}},
	}

	got := ComputeProgress(1, tasks, "2024-05-01")
	assert.Equal(t, 1, got.Completed)
	assert.Equal(t, 3, got.Total)
	assert.InDelta(t, 1.0/3.0, got.Ratio, 1e-9)
}

func TestComputeProgress_Empty(t *testing.T) {
	assert.Equal(t, Progress{}, ComputeProgress(1, nil, "2024-05-01"))
	assert.Equal(t, Progress{}, ComputeProgress(1, []model.DailyTask{{AirdropID: 2}}, "2024-05-01"))
}

func TestSortTasks_Stable(t *testing.T) {
	tasks := []model.DailyTask{
		{ID: 1, Order: 2},
		{ID: 2, Order: 0},
		{ID: 3, Order: 1},
		{ID: 4, Order: 0},
	}

	got := SortTasks(tasks)

	ids := make([]int64, len(got))
	for i, task := range got {
		ids[i] = task.ID
	}
	if diff := cmp.Diff([]int64{2, 4, 3, 1}, ids); diff != "" {
		t.Errorf("SortTasks order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, int64(1), tasks[0].ID, "input must not be reordered")
}

func TestNextOrder(t *testing.T) {
	assert.Equal(t, int64(0), NextOrder(nil))
	assert.Equal(t, int64(1), NextOrder([]model.DailyTask{{Order: 0}}))
	assert.Equal(t, int64(8), NextOrder([]model.DailyTask{{Order: 3}, {Order: 7}, {Order: 1}}))
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{"2024-05-02", "2024-05-01", "2024-05-02"})
	assert.Equal(t, []string{"2024-05-02", "2024-05-01"}, got)
	assert.Empty(t, Dedupe(nil))
}

func TestStreak(t *testing.T) {
	now := day("2024-05-10")

	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{"none", nil, 0},
		{"today only", []string{"2024-05-10"}, 1},
		{"run through today", []string{"2024-05-08", "2024-05-09", "2024-05-10"}, 3},
		{"run ending yesterday", []string{"2024-05-08", "2024-05-09"}, 2},
		{"gap breaks run", []string{"2024-05-06", "2024-05-08", "2024-05-09", "2024-05-10"}, 3},
		{"stale run", []string{"2024-05-01", "2024-05-02"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Streak(model.DailyTask{DoneDates: tt.dates}, now)
			assert.Equal(t, tt.want, got)
		})
	}
}
