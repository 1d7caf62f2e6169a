package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// AirdropType is a predefined category whose default tasks are seeded
// into every airdrop created with it.
type AirdropType struct {
	ID           int64         `json:"id" db:"id"`
	Name         string        `json:"name" db:"name"`
	DefaultTasks []DefaultTask `json:"default_tasks" db:"-"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// DefaultTask is a daily task template carried by an AirdropType.
type DefaultTask struct {
	Title string `json:"title"`
}

// ParseDefaultTasks decodes and validates a default-task payload. It
// accepts a JSON array of {"title": "..."} objects; null or an empty
// body yields no tasks.
func ParseDefaultTasks(raw []byte) ([]DefaultTask, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.DisallowUnknownFields()

	var tasks []DefaultTask
	if err := dec.Decode(&tasks); err != nil {
		return nil, fmt.Errorf("decoding default tasks: %w", err)
	}
	for i, t := range tasks {
		if strings.TrimSpace(t.Title) == "" {
			return nil, fmt.Errorf("default task %d: title must not be empty", i)
		}
		tasks[i].Title = strings.TrimSpace(t.Title)
	}
	return tasks, nil
}
