package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sattutor/internal/router"
	"github.com/abhisek/sattutor/internal/screen"
	"github.com/abhisek/sattutor/internal/session"
	"github.com/abhisek/sattutor/internal/store"
	"github.com/abhisek/sattutor/internal/ui/layout"
	"github.com/abhisek/sattutor/internal/ui/theme"
)

const sessionLimit = 50

type historyLoadedMsg struct {
	Sessions []store.SessionSummaryRecord
	Attempts map[string][]store.AttemptEventRecord // sessionID → attempts
	Err      error
}

// HistoryScreen lists past practice sessions and the questions answered
// in each.
type HistoryScreen struct {
	eventRepo store.EventRepo
	userID    string
	sessions  []store.SessionSummaryRecord
	attempts  map[string][]store.AttemptEventRecord
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. deps.Events must be set.
func New(deps screen.Deps) *HistoryScreen {
	userID := deps.UserID()
	if userID == "" {
		userID = session.AnonymousUser
	}
	return &HistoryScreen{
		eventRepo: deps.Events,
		userID:    userID,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo, userID := s.eventRepo, s.userID
	return func() tea.Msg {
		ctx := context.Background()

		all, err := repo.QuerySessionSummaries(ctx, store.QueryOpts{})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		var sessions []store.SessionSummaryRecord
		for _, rec := range all {
			if rec.UserID == userID {
				sessions = append(sessions, rec)
			}
			if len(sessions) == sessionLimit {
				break
			}
		}

		// Attempt details are optional; the list still renders without them.
		records, err := repo.QueryAttempts(ctx, userID, store.QueryOpts{})
		if err != nil {
			return historyLoadedMsg{Sessions: sessions, Attempts: map[string][]store.AttemptEventRecord{}}
		}
		bySession := make(map[string][]store.AttemptEventRecord)
		for _, r := range records {
			bySession[r.SessionID] = append(bySession[r.SessionID], r)
		}
		return historyLoadedMsg{Sessions: sessions, Attempts: bySession}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
			s.attempts = msg.Attempts
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %d:%02d  %d/%d correct  %.0f%% accuracy",
			prefix, sess.Timestamp.Format("Jan 02, 2006 15:04"),
			sess.DurationSecs/60, sess.DurationSecs%60,
			sess.CorrectAnswers, sess.QuestionsServed, accuracy(sess))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderAttempts(sess.SessionID, width))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderAttempts(sessionID string, width int) string {
	list := s.attempts[sessionID]
	if len(list) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
				Render("    No answers recorded")) + "\n"
	}

	var b strings.Builder
	for _, a := range list {
		mark, style := "✓", theme.Correct
		if !a.Correct {
			mark, style = "✗", theme.Incorrect
		}
		line := fmt.Sprintf("    %s %-20.20s level %d  answered %s  %ds  confidence %d",
			mark, a.Topic, a.DifficultyLevel, a.UserAnswer, a.TimeTakenSecs, a.Confidence)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func accuracy(s store.SessionSummaryRecord) float64 {
	if s.QuestionsServed == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(s.QuestionsServed) * 100
}
