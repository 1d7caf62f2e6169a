package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// Progress bar gradient endpoints. bubbles/progress takes hex strings.
const (
	ProgressStart = "#5B9BD5"
	ProgressEnd   = "#6BCB77"
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// DetailPanelStyle wraps the detail view content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// DimmedStyle renders secondary text such as chains and timestamps.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// NoticeStyle frames the blocking error notice.
var NoticeStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.ThickBorder()).
	BorderForeground(ColorRed)

// ChainStyle colors a chain badge. Unknown chains fall back to gray.
func ChainStyle(chain string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch chain {
	case "ethereum", "eth":
		return base.Foreground(ColorBlue)
	case "solana", "sol":
		return base.Foreground(ColorMagenta)
	case "arbitrum", "optimism", "base":
		return base.Foreground(ColorOrange)
	case "":
		return base.Foreground(ColorSubtle)
	default:
		return base.Foreground(ColorGray)
	}
}

// StatusStyle colors the done/pending marker of a daily task.
func StatusStyle(done bool) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	if done {
		return base.Foreground(ColorGreen)
	}
	return base.Foreground(ColorYellow)
}

// ActiveStyle dims inactive airdrops.
func ActiveStyle(active bool) lipgloss.Style {
	if active {
		return lipgloss.NewStyle().Foreground(ColorWhite)
	}
	return lipgloss.NewStyle().Foreground(ColorGray).Strikethrough(true)
}
