// Package ui holds the frame shared by every view: a one-line header, the
// content area and a one-line status bar.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/airdrop-tracker/internal/theme"
)

// Layout tracks the terminal size and derives the content area from it.
type Layout struct {
	Width  int
	Height int
}

const (
	headerHeight    = 1
	statusBarHeight = 1
)

// NewLayout creates a Layout for a terminal of the given size.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// ContentWidth returns the width available to views.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height left between header and status bar.
func (l Layout) ContentHeight() int {
	return max(l.Height-headerHeight-statusBarHeight, 0)
}

// RenderHeader renders the title on the left and summary on the right,
// padded to the full width.
func (l Layout) RenderHeader(title, summary string) string {
	left := theme.HeaderStyle.Render(title)
	right := theme.HeaderStyle.Render(summary)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		left,
		fill(theme.HeaderStyle, l.Width-lipgloss.Width(left)-lipgloss.Width(right)),
		right,
	)
}

// RenderStatusBar renders an optional status message followed by key
// hints. The status is highlighted so it stands out from the hints.
func (l Layout) RenderStatusBar(status, hints string) string {
	var parts []string
	if status != "" {
		parts = append(parts, theme.StatusBarStyle.Foreground(theme.ColorYellow).Render(status+" |"))
	}
	parts = append(parts, theme.StatusBarStyle.Render(hints))

	used := 0
	for _, p := range parts {
		used += lipgloss.Width(p)
	}
	parts = append(parts, fill(theme.StatusBarStyle, l.Width-used))
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// RenderWithFrame stacks header, content and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// Overlay centres box in the content area.
func (l Layout) Overlay(box string) string {
	return lipgloss.Place(l.ContentWidth(), l.ContentHeight(), lipgloss.Center, lipgloss.Center, box)
}

// fill returns width cells of the style's background.
func fill(style lipgloss.Style, width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Width(width).Background(style.GetBackground()).Render("")
}
