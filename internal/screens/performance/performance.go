package performance

import (
	"context"
	"errors"
	"sort"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sattutor/internal/analytics"
	"github.com/abhisek/sattutor/internal/router"
	"github.com/abhisek/sattutor/internal/screen"
	"github.com/abhisek/sattutor/internal/session"
	"github.com/abhisek/sattutor/internal/store"
	"github.com/abhisek/sattutor/internal/tutor"
	"github.com/abhisek/sattutor/internal/ui/layout"
)

// Report is everything the performance view renders. It is rebuilt from
// scratch on every load.
type Report struct {
	Remote      bool // history came from the backend rather than the local store
	Ability     *tutor.AbilitySnapshot
	AbilityErr  error
	Summary     analytics.Summary
	Improvement map[string]float64
	Points      int
	Milestone   analytics.Milestone
}

type reportLoadedMsg struct {
	Report *Report
	Err    error
}

// PerformanceScreen shows ability estimates and answer statistics.
type PerformanceScreen struct {
	deps    screen.Deps
	report  *Report
	loading bool
	errMsg  string
}

var _ screen.Screen = (*PerformanceScreen)(nil)
var _ screen.KeyHintProvider = (*PerformanceScreen)(nil)

// New creates a new PerformanceScreen.
func New(deps screen.Deps) *PerformanceScreen {
	return &PerformanceScreen{deps: deps, loading: true}
}

func (s *PerformanceScreen) Init() tea.Cmd {
	return s.load()
}

func (s *PerformanceScreen) Title() string {
	return "Performance"
}

func (s *PerformanceScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "r", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PerformanceScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reportLoadedMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.report = msg.Report
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			s.loading = true
			return s, s.load()
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *PerformanceScreen) load() tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		r, err := BuildReport(context.Background(), deps)
		return reportLoadedMsg{Report: r, Err: err}
	}
}

// BuildReport assembles a Report. Signed-in users get their backend ability
// and history; everyone else gets the attempts recorded locally.
func BuildReport(ctx context.Context, deps screen.Deps) (*Report, error) {
	var (
		attempts []analytics.Attempt
		r        = &Report{}
	)

	if userID := deps.UserID(); userID != "" {
		r.Remote = true
		r.Ability, r.AbilityErr = deps.Service.UserAbility(ctx, userID)

		entries, err := deps.Service.UserProgress(ctx, userID)
		if err != nil {
			return nil, err
		}
		attempts = attemptsFromProgress(entries)
	} else {
		if deps.Events == nil {
			return nil, errors.New("sign in or enable the local store to see performance")
		}
		records, err := deps.Events.QueryAttempts(ctx, session.AnonymousUser, store.QueryOpts{})
		if err != nil {
			return nil, err
		}
		attempts = session.AttemptsFromStore(records)
	}

	attempts = analytics.ValidateAttempts(attempts)
	sort.SliceStable(attempts, func(i, j int) bool {
		return attempts[i].Timestamp.Before(attempts[j].Timestamp)
	})

	r.Summary = analytics.Summarize(attempts)
	r.Improvement = analytics.TimeImprovement(attempts)
	r.Points = analytics.Points(attempts)
	r.Milestone = analytics.NextMilestone(r.Points)
	return r, nil
}

func attemptsFromProgress(entries []tutor.ProgressEntry) []analytics.Attempt {
	records := make([]analytics.ProgressRecord, len(entries))
	for i, e := range entries {
		records[i] = analytics.ProgressRecord{
			QuestionID:      e.QuestionID,
			Topic:           e.Topic,
			Correct:         e.Correct,
			TimeTaken:       e.TimeTaken,
			DifficultyLevel: e.DifficultyLevel,
			Confidence:      e.Confidence,
			Timestamp:       e.Timestamp.Time,
		}
	}
	return analytics.FromProgress(records)
}
