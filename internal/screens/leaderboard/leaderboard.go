package leaderboard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sattutor/internal/analytics"
	"github.com/abhisek/sattutor/internal/screen"
	"github.com/abhisek/sattutor/internal/tutor"
	"github.com/abhisek/sattutor/internal/ui/components"
	"github.com/abhisek/sattutor/internal/ui/layout"
	"github.com/abhisek/sattutor/internal/ui/theme"
)

var tabs = []tutor.LeaderboardType{
	tutor.LeaderboardGlobal,
	tutor.LeaderboardTopic,
	tutor.LeaderboardUser,
}

type resultMsg struct {
	Query  tutor.LeaderboardQuery
	Result *tutor.LeaderboardResult
	Err    error
}

// LeaderboardScreen shows global and per-topic rankings and the user's
// own position.
type LeaderboardScreen struct {
	deps     screen.Deps
	tab      int
	topicIdx int
	topics   []string

	// results holds the last good projection per query key. A failed fetch
	// leaves the previous projection in place.
	results map[string]*tutor.LeaderboardResult
	loading bool
	errMsg  string
}

var _ screen.Screen = (*LeaderboardScreen)(nil)
var _ screen.KeyHintProvider = (*LeaderboardScreen)(nil)

// New creates a new LeaderboardScreen.
func New(deps screen.Deps) *LeaderboardScreen {
	topics := deps.Topics
	if len(topics) == 0 {
		topics = []string{"Algebra"}
	}
	return &LeaderboardScreen{
		deps:    deps,
		topics:  topics,
		results: make(map[string]*tutor.LeaderboardResult),
	}
}

func (s *LeaderboardScreen) Init() tea.Cmd {
	return s.fetch()
}

func (s *LeaderboardScreen) Title() string {
	return "Leaderboard"
}

func (s *LeaderboardScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Tab", Description: "Switch view"}}
	if tabs[s.tab] == tutor.LeaderboardTopic {
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Topic"})
	}
	return append(hints,
		layout.KeyHint{Key: "r", Description: "Refresh"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

func (s *LeaderboardScreen) query() tutor.LeaderboardQuery {
	q := tutor.LeaderboardQuery{Type: tabs[s.tab], Limit: tutor.DefaultLeaderboardLimit}
	switch q.Type {
	case tutor.LeaderboardTopic:
		q.Topic = s.topics[s.topicIdx]
	case tutor.LeaderboardUser:
		q.UserID = s.deps.UserID()
	}
	return q
}

func queryKey(q tutor.LeaderboardQuery) string {
	return string(q.Type) + "|" + q.Topic + "|" + q.UserID
}

func (s *LeaderboardScreen) fetch() tea.Cmd {
	q := s.query()
	if err := q.Validate(); err != nil {
		if q.Type == tutor.LeaderboardUser {
			s.errMsg = "Sign in to see your ranking."
		} else {
			s.errMsg = err.Error()
		}
		return nil
	}
	s.loading = true
	svc := s.deps.Service
	return func() tea.Msg {
		res, err := tutor.FetchLeaderboard(context.Background(), svc, q)
		return resultMsg{Query: q, Result: res, Err: err}
	}
}

func (s *LeaderboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.results[queryKey(msg.Query)] = msg.Result
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			s.tab = (s.tab + 1) % len(tabs)
			s.errMsg = ""
			return s, s.fetch()
		case "left", "h":
			if tabs[s.tab] == tutor.LeaderboardTopic {
				s.topicIdx = (s.topicIdx + len(s.topics) - 1) % len(s.topics)
				return s, s.fetch()
			}
		case "right", "l":
			if tabs[s.tab] == tutor.LeaderboardTopic {
				s.topicIdx = (s.topicIdx + 1) % len(s.topics)
				return s, s.fetch()
			}
		case "r":
			s.errMsg = ""
			return s, s.fetch()
		}
	}
	return s, nil
}

func (s *LeaderboardScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	q := s.query()

	var b strings.Builder
	b.WriteString(s.renderTabs())
	b.WriteString("\n\n")

	res := s.results[queryKey(q)]
	switch {
	case res == nil && s.loading:
		b.WriteString(theme.Hint.Render("Loading..."))
	case res == nil:
		b.WriteString(theme.Hint.Render("No data."))
	case q.Type == tutor.LeaderboardUser:
		b.WriteString(renderRanking(res.Ranking, cw))
	default:
		title := "Top learners"
		if q.Type == tutor.LeaderboardTopic {
			title = "Top learners in " + q.Topic
		}
		b.WriteString(components.Card(title, renderEntries(res.Entries, s.deps.UserID()), cw))
	}

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func (s *LeaderboardScreen) renderTabs() string {
	labels := make([]string, len(tabs))
	for i, t := range tabs {
		label := strings.ToUpper(string(t))
		if i == s.tab {
			labels[i] = theme.Selected.Render("[" + label + "]")
		} else {
			labels[i] = theme.Hint.Render(" " + label + " ")
		}
	}
	return strings.Join(labels, "  ")
}

func renderEntries(entries []tutor.LeaderboardEntry, self string) string {
	if len(entries) == 0 {
		return theme.Hint.Render("Nobody has scored yet.")
	}
	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, theme.Hint.Render(fmt.Sprintf("%4s  %-24s %8s %9s", "#", "user", "points", "accuracy")))
	for _, e := range entries {
		name := e.Email
		if name == "" {
			name = e.UserID
		}
		line := fmt.Sprintf("%4d  %-24.24s %8d %8.1f%%", e.Rank, name, e.TotalPoints, e.Accuracy)
		style := medalStyle(e.Rank)
		if self != "" && e.UserID == self {
			style = theme.Selected
		}
		lines = append(lines, style.Render(line))
	}
	return strings.Join(lines, "\n")
}

func medalStyle(rank int) lipgloss.Style {
	switch rank {
	case 1:
		return lipgloss.NewStyle().Foreground(theme.Gold).Bold(true)
	case 2:
		return lipgloss.NewStyle().Foreground(theme.Silver).Bold(true)
	case 3:
		return lipgloss.NewStyle().Foreground(theme.Bronze).Bold(true)
	}
	return theme.Body
}

func renderRanking(r *tutor.UserRanking, cw int) string {
	if r == nil || r.Rank == 0 {
		return components.Card("Your ranking", theme.Hint.Render("Answer a question correctly to get ranked."), cw)
	}

	var b strings.Builder
	b.WriteString(theme.Body.Render(fmt.Sprintf("Rank %d of %d   top %.0f%%   %d pts",
		r.Rank, r.TotalUsers, analytics.Percentile(r.Rank, r.TotalUsers), r.TotalPoints)))
	b.WriteString("\n\n")

	m := analytics.NextMilestone(r.TotalPoints)
	if m.Achieved {
		b.WriteString(theme.Correct.Render("Every milestone achieved!"))
	} else {
		label := fmt.Sprintf("%s at %d", m.Label, m.NextThreshold)
		b.WriteString(components.NewProgressBar(label, m.Percent, true, cw-4).View())
	}
	return components.Card("Your ranking", b.String(), cw)
}
