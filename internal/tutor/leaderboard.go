package tutor

import (
	"context"
	"errors"
	"fmt"
)

// LeaderboardType selects which ranking the backend computes.
type LeaderboardType string

const (
	LeaderboardGlobal LeaderboardType = "global"
	LeaderboardTopic  LeaderboardType = "topic"
	LeaderboardUser   LeaderboardType = "user"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// ErrInvalidParameters is returned when a leaderboard query lacks the
// parameter its type requires.
var ErrInvalidParameters = errors.New("invalid parameters")

// LeaderboardQuery selects a leaderboard. Topic is required for
// LeaderboardTopic and UserID for LeaderboardUser.
type LeaderboardQuery struct {
	Type   LeaderboardType
	Topic  string
	UserID string
	Limit  int
}

// Validate checks that the query carries what its type needs and
// normalizes Limit into [1, MaxLeaderboardLimit].
func (q *LeaderboardQuery) Validate() error {
	switch q.Type {
	case LeaderboardGlobal:
	case LeaderboardTopic:
		if q.Topic == "" {
			return ErrInvalidParameters
		}
	case LeaderboardUser:
		if q.UserID == "" {
			return ErrInvalidParameters
		}
	default:
		return ErrInvalidParameters
	}

	if q.Limit <= 0 {
		q.Limit = DefaultLeaderboardLimit
	}
	if q.Limit > MaxLeaderboardLimit {
		q.Limit = MaxLeaderboardLimit
	}
	return nil
}

// LeaderboardEntry is one ranked user.
type LeaderboardEntry struct {
	UserID         string  `json:"user_id"`
	Email          string  `json:"email"`
	TotalPoints    int     `json:"total_points"`
	Accuracy       float64 `json:"accuracy"`
	Rank           int     `json:"rank"`
	TotalQuestions int     `json:"total_questions,omitempty"`
	CorrectAnswers int     `json:"correct_answers,omitempty"`
}

// UserRanking is a single user's position on the global leaderboard.
// Rank is 0 when the user has no recorded points.
type UserRanking struct {
	Rank        int     `json:"rank"`
	TotalUsers  int     `json:"total_users"`
	Percentile  float64 `json:"percentile"`
	TotalPoints int     `json:"total_points"`
}

// LeaderboardResult holds Entries for global and topic queries, or Ranking
// for user queries.
type LeaderboardResult struct {
	Entries []LeaderboardEntry `json:"leaderboard,omitempty"`
	Ranking *UserRanking       `json:"ranking,omitempty"`
}

// RankingFetchError indicates leaderboard or ranking data could not be
// fetched. Views keep their previous projection when they see it.
type RankingFetchError struct {
	Type LeaderboardType
	Err  error
}

func (e *RankingFetchError) Error() string {
	return fmt.Sprintf("fetch %s leaderboard: %v", e.Type, e.Err)
}

func (e *RankingFetchError) Unwrap() error { return e.Err }

// FetchLeaderboard runs q against svc and wraps any failure in a
// RankingFetchError. A successful result is always a fresh projection.
func FetchLeaderboard(ctx context.Context, svc Service, q LeaderboardQuery) (*LeaderboardResult, error) {
	res, err := svc.Leaderboard(ctx, q)
	if err != nil {
		return nil, &RankingFetchError{Type: q.Type, Err: err}
	}
	if res == nil {
		return nil, &RankingFetchError{Type: q.Type, Err: errors.New("empty response")}
	}
	return res, nil
}
