package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette, olive greens taken from the answer scale.
var (
	Primary   = lipgloss.Color("#72926A") // Sage
	Secondary = lipgloss.Color("#5E7852") // Moss
	Accent    = lipgloss.Color("#E3B448") // Gold, dominant archetype
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#172516") // Forest
	BgCard    = lipgloss.Color("#1F2B1E") // Dark moss
	Border    = lipgloss.Color("#36432C") // Olive
)

// Scale holds one color per Likert value, 1 through 5.
var Scale = []color.Color{
	lipgloss.Color("#172516"),
	lipgloss.Color("#36432C"),
	lipgloss.Color("#4A5E40"),
	lipgloss.Color("#5E7852"),
	lipgloss.Color("#72926A"),
}

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	DominantCard = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(Accent).
			Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Chosen = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
)

// Hex parses a #RRGGBB archetype color, falling back to Primary.
func Hex(s string) color.Color {
	if len(s) != 7 || s[0] != '#' {
		return Primary
	}
	return lipgloss.Color(s)
}
