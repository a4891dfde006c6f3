package practice

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sattutor/internal/adaptive"
	sess "github.com/abhisek/sattutor/internal/session"
	"github.com/abhisek/sattutor/internal/ui/components"
	"github.com/abhisek/sattutor/internal/ui/layout"
	"github.com/abhisek/sattutor/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	st := s.machine.State()
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, s.renderInfoLine(st, width))

	switch {
	case st.Question != nil:
		sections = append(sections, s.renderQuestion(st, cw))
	case s.busy != "":
		sections = append(sections, layout.Centered("\n"+s.busy, width, theme.Hint))
	default:
		sections = append(sections, s.renderSetup(cw))
	}

	if st.Phase == sess.PhaseResolved && st.Question != nil {
		sections = append(sections, s.renderFeedback(st, cw))
	}
	switch {
	case st.Hint != "":
		sections = append(sections, components.Card("Hint", theme.Body.Render(st.Hint), cw))
	case s.hintPending:
		sections = append(sections, components.Card("Hint", theme.Hint.Render("Fetching hint..."), cw))
	}
	if chat := s.renderChat(st, cw); chat != "" {
		sections = append(sections, chat)
	}
	if s.warning != "" {
		sections = append(sections, layout.Centered(s.warning, width, theme.Hint))
	}
	if s.errMsg != "" {
		sections = append(sections, layout.Centered("Error: "+s.errMsg, width, lipgloss.NewStyle().Foreground(theme.Error)))
	}

	body := strings.Join(sections, "\n\n")
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

// renderInfoLine shows topic, difficulty, confidence and the timer.
func (s *PracticeScreen) renderInfoLine(st sess.State, width int) string {
	topic := st.Topic
	if topic == "" {
		topic = st.SelectedTopic
	}
	left := theme.Label.Render("  Topic: " + topic)

	level := "?"
	if st.Question != nil && st.Question.DifficultyLevel > 0 {
		level = adaptive.LevelName(st.Question.DifficultyLevel)
	}
	right := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf(
		"Level %s  Confidence %d/5  %s %s",
		level, st.Confidence,
		lipgloss.NewStyle().Foreground(theme.Accent).Render("T"),
		formatElapsed(s.elapsed),
	))

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	return line + "\n" + layout.Divider(width)
}

func (s *PracticeScreen) renderSetup(cw int) string {
	p := s.machine.Controller().Params()

	var b strings.Builder
	for i, t := range s.topics {
		style := theme.Unselected
		prefix := "  "
		if i == s.topicIdx {
			style = theme.Selected
			prefix = "▸ "
		}
		b.WriteString(style.Render(prefix + t))
		b.WriteString("\n")
	}

	mode := fmt.Sprintf("Manual, level %d (%s)", p.ManualDifficulty, adaptive.LevelName(p.ManualDifficulty))
	if p.AdaptiveMode {
		mode = "Adaptive"
		if s.deps.UserID() == "" {
			mode += " (sign in to enable; using manual level)"
		}
	}
	challenge := "off"
	if p.ChallengeMode {
		challenge = "on"
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Difficulty: %s   Challenge: %s", mode, challenge)))

	if s.mode == inputTopic {
		b.WriteString("\n\n" + s.input.View())
	}
	return components.Card("Choose a topic", b.String(), cw)
}

func (s *PracticeScreen) renderQuestion(st sess.State, cw int) string {
	q := st.Question
	var b strings.Builder
	if q.Passage != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw - 4).Render(q.Passage))
		b.WriteString("\n\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw - 4).Render(q.Prompt))
	b.WriteString("\n\n")

	choices := components.ChoiceList{Choices: q.Choices, Selected: st.UserAnswer}
	if st.Phase == sess.PhaseResolved {
		choices.Correct = q.CorrectAnswer
	}
	b.WriteString(choices.View(cw - 4))

	if s.busy != "" {
		b.WriteString("\n" + theme.Hint.Render(s.busy))
	}
	return components.Card("", b.String(), cw)
}

func (s *PracticeScreen) renderFeedback(st sess.State, cw int) string {
	var b strings.Builder
	if st.IsCorrect != nil && *st.IsCorrect {
		b.WriteString(theme.Correct.Render("Correct!"))
	} else {
		b.WriteString(theme.Incorrect.Render("Not quite"))
		b.WriteString(theme.Hint.Render(fmt.Sprintf("   Correct answer: %s", st.Question.CorrectAnswer)))
	}
	if s.last != nil {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("   %ds", s.last.TimeTakenSeconds)))
	}
	if sol := st.Question.Solution; sol != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 4).Render(sol))
	}
	return components.Card("Solution", b.String(), cw)
}

// renderChat shows the exchanges about the active question and the prompt.
func (s *PracticeScreen) renderChat(st sess.State, cw int) string {
	if st.Question == nil {
		return ""
	}
	msgs := s.thread.ForQuestion(st.Question.QuestionID)
	if len(msgs) == 0 && s.mode != inputChat {
		return ""
	}

	var b strings.Builder
	for _, m := range msgs {
		b.WriteString(theme.Selected.Render("You: "))
		b.WriteString(theme.Body.Render(m.UserMessage))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render("Tutor: "))
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(cw - 11).Render(m.TutorResponse))
		b.WriteString("\n")
	}
	if s.mode == inputChat {
		b.WriteString(s.input.View())
	}
	return components.Card("Chat", strings.TrimRight(b.String(), "\n"), cw)
}

func formatElapsed(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
