package components

import (
	"fmt"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sattutor/internal/ui/theme"
)

// ChoiceList renders a question's lettered choices. Before the answer is
// revealed the selected key is highlighted; afterwards the correct key is
// green and a wrong pick is red.
type ChoiceList struct {
	Choices  map[string]string
	Selected string
	Correct  string // "" until revealed
}

// Keys returns the choice keys in display order.
func (c ChoiceList) Keys() []string {
	keys := make([]string, 0, len(c.Choices))
	for k := range c.Choices {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// View renders one line per choice.
func (c ChoiceList) View(width int) string {
	var b strings.Builder
	for _, k := range c.Keys() {
		prefix := "  "
		if strings.EqualFold(k, c.Selected) {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, k, c.Choices[k])

		style := lipgloss.NewStyle().Foreground(theme.Text).Width(width)
		switch {
		case c.Correct != "" && strings.EqualFold(k, c.Correct):
			style = style.Foreground(theme.Success).Bold(true)
		case c.Correct != "" && strings.EqualFold(k, c.Selected):
			style = style.Foreground(theme.Error).Bold(true)
		case c.Correct != "":
			style = style.Foreground(theme.TextDim)
		case strings.EqualFold(k, c.Selected):
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
