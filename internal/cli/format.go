package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/airdrop-tracker/internal/theme"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

var (
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue)
	styleDim    = lipgloss.NewStyle().Foreground(theme.ColorGray)
	styleDone   = lipgloss.NewStyle().Foreground(theme.ColorGreen)
)

// renderTable renders an aligned table with a header separator line.
// Widths are measured on visible characters so styled cells line up.
func renderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	const colGap = 2

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(style(cell))
			if i < len(headers)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+colGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, func(s string) string { return styleHeader.Render(s) })
	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("─", w)
	}
	writeRow(seps, func(s string) string { return styleDim.Render(s) })
	for _, row := range rows {
		writeRow(row, func(s string) string { return s })
	}
	return b.String()
}

// renderProgress renders a bar like [████░░░░] 2/4.
func renderProgress(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = min(done*width/total, width)
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	if total > 0 && done == total {
		bar = styleDone.Render(bar)
	}
	return fmt.Sprintf("[%s] %d/%d", bar, done, total)
}
