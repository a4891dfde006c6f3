package components

import "github.com/abhisek/sattutor/internal/ui/theme"

// ContentWidth returns the inner width shared by stacked cards so their
// borders line up.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 72)
}

// Card wraps content in a titled rounded border at content width cw.
func Card(title, content string, cw int) string {
	body := content
	if title != "" {
		body = theme.Label.Render(title) + "\n" + content
	}
	return theme.Card.Width(cw).Render(body)
}
