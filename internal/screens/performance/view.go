package performance

import (
	"fmt"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sattutor/internal/adaptive"
	"github.com/abhisek/sattutor/internal/analytics"
	"github.com/abhisek/sattutor/internal/ui/components"
	"github.com/abhisek/sattutor/internal/ui/layout"
	"github.com/abhisek/sattutor/internal/ui/theme"
)

func (s *PerformanceScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.Centered(fmt.Sprintf("\n\nError: %s\n\nPress r to retry.", s.errMsg), width,
			lipgloss.NewStyle().Foreground(theme.Error))
	}
	if s.report == nil {
		return layout.Centered("\n\n  Loading performance...", width, theme.Hint)
	}

	r := s.report
	cw := components.ContentWidth(width)
	sections := []string{
		renderAbility(r, cw),
		renderSummary(r, cw),
		renderMilestone(r, cw),
	}
	if len(r.Improvement) > 0 {
		sections = append(sections, renderImprovement(r, cw))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(sections, "\n"))
}

func renderAbility(r *Report, cw int) string {
	if !r.Remote {
		return components.Card("Ability", theme.Hint.Render("Sign in to see your ability estimate."), cw)
	}
	if r.AbilityErr != nil {
		return components.Card("Ability", theme.Warning.Render("Ability unavailable: "+r.AbilityErr.Error()), cw)
	}
	a := r.Ability
	if a == nil {
		return components.Card("Ability", theme.Hint.Render("No ability estimate yet."), cw)
	}

	var b strings.Builder
	overall := analytics.FormatAbility(a.OverallAbility)
	b.WriteString(components.NewProgressBar("Overall", float64(overall), true, cw-4).View())
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%d answered   suggested level: %s",
		a.QuestionsAnswered, adaptive.LevelName(adaptive.LevelFromIRT(a.OverallAbility)))))

	topics := make([]string, 0, len(a.TopicAbilities))
	for t := range a.TopicAbilities {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	for _, t := range topics {
		ta := a.TopicAbilities[t]
		b.WriteString("\n")
		b.WriteString(components.NewProgressBar(fmt.Sprintf("%-22.22s", t),
			float64(analytics.FormatAbility(ta.Ability)), true, cw-4).View())
	}
	return components.Card("Ability", b.String(), cw)
}

func renderSummary(r *Report, cw int) string {
	sum := r.Summary
	source := "local"
	if r.Remote {
		source = "all devices"
	}
	if sum.TotalQuestions == 0 {
		return components.Card("Answers ("+source+")", theme.Hint.Render("No answers yet. Start practicing!"), cw)
	}

	var b strings.Builder
	b.WriteString(theme.Body.Render(fmt.Sprintf("%d answered   %d correct   %.0f%% accuracy   %.0fs avg",
		sum.TotalQuestions, sum.CorrectAnswers, sum.Accuracy, sum.AverageTime)))
	for _, t := range sum.Topics() {
		ts := sum.ByTopic[t]
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
			fmt.Sprintf("  %-30.30s %3d  %5.1f%%  %5.1fs", t, ts.Total, ts.Accuracy, ts.AverageTime)))
	}
	return components.Card("Answers ("+source+")", b.String(), cw)
}

func renderMilestone(r *Report, cw int) string {
	m := r.Milestone
	if m.Achieved {
		return components.Card("Points", theme.Correct.Render(fmt.Sprintf("%d pts   every milestone achieved", r.Points)), cw)
	}
	label := fmt.Sprintf("%d/%d to %s", r.Points, m.NextThreshold, m.Label)
	return components.Card("Points", components.NewProgressBar(label, m.Percent, true, cw-4).View(), cw)
}

func renderImprovement(r *Report, cw int) string {
	topics := make([]string, 0, len(r.Improvement))
	for t := range r.Improvement {
		topics = append(topics, t)
	}
	sort.Strings(topics)

	var lines []string
	for _, t := range topics {
		pct := r.Improvement[t]
		style := theme.Correct
		verb := "faster"
		if pct < 0 {
			style = theme.Incorrect
			verb = "slower"
			pct = -pct
		}
		lines = append(lines, fmt.Sprintf("  %-30.30s %s", t, style.Render(fmt.Sprintf("%.0f%% %s", pct, verb))))
	}
	return components.Card("Speed (first 3 vs last 3)", strings.Join(lines, "\n"), cw)
}
