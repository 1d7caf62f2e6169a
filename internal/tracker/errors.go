package tracker

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrReorderFiltered is returned when a move is attempted while the
	// visible list is a filtered subset.
	ErrReorderFiltered = errors.New("reordering is disabled while a search filter is active")

	// ErrDeclined is returned when the user answers no to a confirmation.
	ErrDeclined = errors.New("action declined")

	// ErrAlreadyDone is returned when a task is already marked done today.
	ErrAlreadyDone = errors.New("task already done today")

	// ErrUnknownItem is returned for an airdrop or task id the cache does
	// not hold.
	ErrUnknownItem = errors.New("unknown airdrop or task")
)

// ValidationError reports user input that failed a local check. It never
// reaches the backend.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// DispatchError wraps a backend failure with the action the user attempted.
// Draft carries text the caller should restore into its input field.
type DispatchError struct {
	Action string
	Draft  string
	Err    error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("could not %s: %v", e.Action, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
