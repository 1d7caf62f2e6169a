package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nhle/airdrop-tracker/internal/model"
)

// resolveAirdrop finds a loaded airdrop by numeric id or by name. Name
// matching is exact first, then a unique case-insensitive prefix.
func resolveAirdrop(app *App, input string) (model.Airdrop, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return model.Airdrop{}, fmt.Errorf("airdrop id or name is required")
	}

	items := app.Tracker.Items()

	if id, err := strconv.ParseInt(input, 10, 64); err == nil {
		if a, ok := app.Tracker.Item(id); ok {
			return a, nil
		}
	}

	for _, a := range items {
		if strings.EqualFold(a.Name, input) {
			return a, nil
		}
	}

	var matches []model.Airdrop
	for _, a := range items {
		if strings.HasPrefix(strings.ToLower(a.Name), strings.ToLower(input)) {
			matches = append(matches, a)
		}
	}

	switch len(matches) {
	case 0:
		return model.Airdrop{}, fmt.Errorf("airdrop not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return model.Airdrop{}, fmt.Errorf("airdrop name %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveTask finds a loaded daily task by id and returns it with the
// airdrop that owns it.
func resolveTask(app *App, input string) (model.DailyTask, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil {
		return model.DailyTask{}, fmt.Errorf("invalid task id %q", input)
	}
	for _, a := range app.Tracker.Items() {
		for _, t := range app.Tracker.Tasks(a.ID) {
			if t.ID == id {
				return t, nil
			}
		}
	}
	return model.DailyTask{}, fmt.Errorf("task not found: %d", id)
}

// resolveType finds an airdrop type by numeric id or case-insensitive name.
func resolveType(types []model.AirdropType, input string) (model.AirdropType, error) {
	input = strings.TrimSpace(input)
	if id, err := strconv.ParseInt(input, 10, 64); err == nil {
		for _, t := range types {
			if t.ID == id {
				return t, nil
			}
		}
	}
	for _, t := range types {
		if strings.EqualFold(t.Name, input) {
			return t, nil
		}
	}
	return model.AirdropType{}, fmt.Errorf("airdrop type not found: %q", input)
}
