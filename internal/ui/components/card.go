package components

import "github.com/abhisek/archetype/internal/ui/theme"

// ContentWidth returns the inner width used for centered content blocks.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded card of width cw.
func Card(content string, cw int) string {
	return theme.Card.Width(cw).Render(content)
}

// HighlightCard wraps content in the thick-bordered card used for the
// dominant result.
func HighlightCard(content string, cw int) string {
	return theme.DominantCard.Width(cw).Render(content)
}
