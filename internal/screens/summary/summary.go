package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sattutor/internal/analytics"
	"github.com/abhisek/sattutor/internal/router"
	"github.com/abhisek/sattutor/internal/screen"
	"github.com/abhisek/sattutor/internal/session"
	"github.com/abhisek/sattutor/internal/ui/layout"
	"github.com/abhisek/sattutor/internal/ui/theme"
)

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	summary *session.SessionSummary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary *session.SessionSummary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	center := func(str string, style lipgloss.Style) string {
		return layout.Centered(str, width, style)
	}

	var b strings.Builder
	b.WriteString(center("Session complete!", lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center(fmt.Sprintf("Duration: %d:%02d", mins, secs), lipgloss.NewStyle().Foreground(theme.TextDim)))
	b.WriteString("\n\n")

	if sum.TotalQuestions == 0 {
		b.WriteString(center("No answers submitted this session.", theme.Hint))
		return b.String()
	}

	stats := fmt.Sprintf("Answered: %d of %d        Correct: %d        Accuracy: %.0f%%        Avg time: %.0fs",
		sum.TotalQuestions, sum.QuestionsServed, sum.TotalCorrect, sum.Accuracy, sum.AverageTime)
	b.WriteString(center(stats, lipgloss.NewStyle().Foreground(theme.Text)))
	b.WriteString("\n\n")

	b.WriteString(center("Topics", lipgloss.NewStyle().Foreground(theme.TextDim)))
	b.WriteString("\n")
	b.WriteString(layout.Divider(width))
	b.WriteString("\n\n")

	for _, topic := range (analytics.Summary{ByTopic: sum.ByTopic}).Topics() {
		ts := sum.ByTopic[topic]
		line := fmt.Sprintf("%-32s %d/%d correct   %.0f%%   %.0fs avg",
			topic, ts.Correct, ts.Total, ts.Accuracy, ts.AverageTime)
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if ts.Accuracy >= 80 {
			style = style.Foreground(theme.Success)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}
