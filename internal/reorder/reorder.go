// Package reorder moves airdrops within their display order and derives the
// payload sent to the store.
package reorder

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/nhle/airdrop-tracker/internal/model"
)

// ErrInvalidIndex is returned by Move when an index is out of range or the
// move would be a no-op.
var ErrInvalidIndex = errors.New("invalid reorder index")

// Move removes the element at from, reinserts it at to and renumbers every
// position to match its new index. The input slice is left untouched.
func Move(seq []model.Airdrop, from, to int) ([]model.Airdrop, error) {
	n := len(seq)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, fmt.Errorf("move %d -> %d in %d items: %w", from, to, n, ErrInvalidIndex)
	}
	if from == to {
		return nil, fmt.Errorf("move %d -> %d: %w", from, to, ErrInvalidIndex)
	}

	out := slices.Clone(seq)
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	out = slices.Insert(out, to, moved)

	for i := range out {
		out[i].Position = int64(i)
	}
	return out, nil
}

// Sort returns a copy of seq ordered by position, breaking ties by id.
func Sort(seq []model.Airdrop) []model.Airdrop {
	out := slices.Clone(seq)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Payload lists the id/position pairs for seq in sequence order.
func Payload(seq []model.Airdrop) []model.OrderItem {
	items := make([]model.OrderItem, len(seq))
	for i, a := range seq {
		items[i] = model.OrderItem{ID: a.ID, Position: a.Position}
	}
	return items
}

// IsFiltered reports whether query narrows the visible sequence.
func IsFiltered(query string) bool {
	return strings.TrimSpace(query) != ""
}

// Filter returns the airdrops whose name contains query, ignoring case.
// A blank query returns a copy of seq.
func Filter(seq []model.Airdrop, query string) []model.Airdrop {
	if !IsFiltered(query) {
		return slices.Clone(seq)
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var out []model.Airdrop
	for _, a := range seq {
		if strings.Contains(strings.ToLower(a.Name), q) {
			out = append(out, a)
		}
	}
	return out
}
