package welcome

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/archetype/internal/ui/theme"
)

const bannerWord = "ARQUÉTIPOS"

// RenderBanner returns the title banner in the primary color. Narrow
// terminals get the word without letter spacing.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 40 {
		return style.Render(bannerWord)
	}

	spaced := strings.Join(strings.Split(bannerWord, ""), " ")
	return style.
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Padding(0, 3).
		Render(spaced)
}
