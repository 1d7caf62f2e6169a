package airdroplist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/airdrop-tracker/internal/ledger"
	"github.com/nhle/airdrop-tracker/internal/model"
	"github.com/nhle/airdrop-tracker/internal/theme"
)

// AirdropItem wraps an airdrop and today's progress for a bubbles/list.
type AirdropItem struct {
	Airdrop  model.Airdrop
	Progress ledger.Progress
}

// FilterValue returns the string used for list filtering.
func (i AirdropItem) FilterValue() string { return i.Airdrop.Name }

// Title returns the airdrop name.
func (i AirdropItem) Title() string { return i.Airdrop.Name }

// Description returns a short summary line.
func (i AirdropItem) Description() string {
	parts := []string{
		model.StringValue(i.Airdrop.Chain),
		fmt.Sprintf("%d/%d today", i.Progress.Completed, i.Progress.Total),
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate renders an airdrop on two lines: name with badges, then a
// progress bar for today's tasks.
type ItemDelegate struct {
	bar progress.Model
}

func newItemDelegate() ItemDelegate {
	return ItemDelegate{
		bar: progress.New(
			progress.WithGradient(theme.ProgressStart, theme.ProgressEnd),
			progress.WithWidth(24),
			progress.WithoutPercentage(),
		),
	}
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 1 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single airdrop.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(AirdropItem)
	if !ok {
		return
	}
	a := it.Airdrop

	chain := model.StringValue(a.Chain)
	chainBadge := ""
	if chain != "" {
		chainBadge = " " + theme.ChainStyle(strings.ToLower(chain)).Render(chain)
	}

	inactive := ""
	if !a.Active {
		inactive = theme.DimmedStyle.Render(" (inactive)")
	}

	title := theme.ActiveStyle(a.Active).Render(a.Name)
	head := fmt.Sprintf("%s%s%s", title, chainBadge, inactive)

	count := fmt.Sprintf(" %d/%d", it.Progress.Completed, it.Progress.Total)
	if it.Progress.Total > 0 && it.Progress.Completed == it.Progress.Total {
		count = lipgloss.NewStyle().Foreground(theme.ColorGreen).Render(count + " done")
	} else {
		count = theme.DimmedStyle.Render(count)
	}
	bar := d.bar.ViewAs(it.Progress.Ratio) + count

	block := lipgloss.JoinVertical(lipgloss.Left, head, bar)
	if index == m.Index() {
		block = theme.SelectedItemStyle.Render(block)
	} else {
		block = theme.ListItemStyle.Render(block)
	}

	fmt.Fprint(w, block)
}
