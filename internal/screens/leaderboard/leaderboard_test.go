package leaderboard

import (
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sattutor/internal/auth"
	"github.com/abhisek/sattutor/internal/screen"
	"github.com/abhisek/sattutor/internal/tutor"
)

func testScreen(user string, responses ...tutor.MockResponse) (*LeaderboardScreen, *tutor.MockService) {
	mock := tutor.NewMockService(responses...)
	deps := screen.Deps{Service: mock, Topics: []string{"Algebra", "Geometry"}}
	if user != "" {
		deps.Users = auth.Static{UserID: user}
	}
	return New(deps), mock
}

func run(s *LeaderboardScreen, cmd tea.Cmd) {
	if cmd != nil {
		s.Update(cmd())
	}
}

func globalResult() *tutor.LeaderboardResult {
	return &tutor.LeaderboardResult{Entries: []tutor.LeaderboardEntry{
		{UserID: "u1", Email: "ada@example.com", TotalPoints: 420, Accuracy: 91.5, Rank: 1},
		{UserID: "u2", Email: "bob@example.com", TotalPoints: 300, Accuracy: 70, Rank: 2},
	}}
}

func TestLeaderboard_InitLoadsGlobal(t *testing.T) {
	s, mock := testScreen("u1", tutor.MockResponse{Leaderboard: globalResult()})
	run(s, s.Init())

	q := mock.LastCall().Request.(tutor.LeaderboardQuery)
	assert.Equal(t, tutor.LeaderboardGlobal, q.Type)
	assert.Equal(t, tutor.DefaultLeaderboardLimit, q.Limit)

	view := s.View(100, 30)
	assert.Contains(t, view, "ada@example.com")
	assert.Contains(t, view, "bob@example.com")
}

func TestLeaderboard_FailureKeepsPreviousProjection(t *testing.T) {
	s, _ := testScreen("u1",
		tutor.MockResponse{Leaderboard: globalResult()},
		tutor.MockResponse{Err: errors.New("backend down")},
	)
	run(s, s.Init())

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	run(s, cmd)

	assert.Contains(t, s.errMsg, "backend down")
	view := s.View(100, 30)
	assert.Contains(t, view, "ada@example.com", "the last good rows stay on screen")
}

func TestLeaderboard_TopicTab(t *testing.T) {
	s, mock := testScreen("u1",
		tutor.MockResponse{Leaderboard: globalResult()},
		tutor.MockResponse{Leaderboard: &tutor.LeaderboardResult{}},
		tutor.MockResponse{Leaderboard: &tutor.LeaderboardResult{}},
	)
	run(s, s.Init())

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	run(s, cmd)
	q := mock.LastCall().Request.(tutor.LeaderboardQuery)
	assert.Equal(t, tutor.LeaderboardTopic, q.Type)
	assert.Equal(t, "Algebra", q.Topic)

	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	run(s, cmd)
	q = mock.LastCall().Request.(tutor.LeaderboardQuery)
	assert.Equal(t, "Geometry", q.Topic)

	assert.Contains(t, s.View(100, 30), "Nobody has scored yet.")
}

func TestLeaderboard_UserRanking(t *testing.T) {
	s, mock := testScreen("u1",
		tutor.MockResponse{Leaderboard: globalResult()},
		tutor.MockResponse{Leaderboard: &tutor.LeaderboardResult{}},
		tutor.MockResponse{Leaderboard: &tutor.LeaderboardResult{
			Ranking: &tutor.UserRanking{Rank: 2, TotalUsers: 8, TotalPoints: 500},
		}},
	)
	run(s, s.Init())
	for range 2 {
		_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
		run(s, cmd)
	}

	q := mock.LastCall().Request.(tutor.LeaderboardQuery)
	require.Equal(t, tutor.LeaderboardUser, q.Type)
	assert.Equal(t, "u1", q.UserID)

	view := s.View(100, 30)
	assert.Contains(t, view, "Rank 2 of 8")
	assert.Contains(t, view, "top 25%")
	assert.Contains(t, view, "Bronze at 1000")
}

func TestLeaderboard_UserTabNeedsSignIn(t *testing.T) {
	s, mock := testScreen("", tutor.MockResponse{Leaderboard: globalResult()})
	run(s, s.Init())

	for range 2 {
		_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
		run(s, cmd)
	}

	// global and topic were fetched, the user tab was not
	assert.Equal(t, 2, mock.CallCount())
	assert.Contains(t, s.View(100, 30), "Sign in")
}

func TestLeaderboard_Unranked(t *testing.T) {
	assert.Contains(t, renderRanking(&tutor.UserRanking{}, 60), "get ranked")
	assert.Contains(t, renderRanking(nil, 60), "get ranked")
}

func TestLeaderboard_KeyHints(t *testing.T) {
	s, _ := testScreen("u1")
	assert.Equal(t, "Leaderboard", s.Title())
	assert.Len(t, s.KeyHints(), 3)
	s.tab = 1
	assert.Len(t, s.KeyHints(), 4)
}
