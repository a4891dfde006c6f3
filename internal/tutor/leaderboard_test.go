package tutor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardQuery_Validate(t *testing.T) {
	tests := []struct {
		name      string
		q         LeaderboardQuery
		wantErr   bool
		wantLimit int
	}{
		{"global default limit", LeaderboardQuery{Type: LeaderboardGlobal}, false, DefaultLeaderboardLimit},
		{"global capped limit", LeaderboardQuery{Type: LeaderboardGlobal, Limit: 1000}, false, MaxLeaderboardLimit},
		{"topic ok", LeaderboardQuery{Type: LeaderboardTopic, Topic: "Algebra", Limit: 5}, false, 5},
		{"topic missing topic", LeaderboardQuery{Type: LeaderboardTopic}, true, 0},
		{"user ok", LeaderboardQuery{Type: LeaderboardUser, UserID: "u1"}, false, DefaultLeaderboardLimit},
		{"user missing id", LeaderboardQuery{Type: LeaderboardUser}, true, 0},
		{"unknown type", LeaderboardQuery{Type: "weekly"}, true, 0},
		{"empty type", LeaderboardQuery{}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.q
			err := q.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParameters)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, q.Limit)
		})
	}
}

func TestFetchLeaderboard_WrapsErrors(t *testing.T) {
	mock := NewMockService(MockResponse{Err: &StatusError{Code: 500}})

	_, err := FetchLeaderboard(context.Background(), mock, LeaderboardQuery{Type: LeaderboardGlobal})
	var fetchErr *RankingFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, LeaderboardGlobal, fetchErr.Type)

	var statusErr *StatusError
	assert.True(t, errors.As(err, &statusErr))

	_, err = FetchLeaderboard(context.Background(), mock, LeaderboardQuery{Type: LeaderboardTopic})
	assert.ErrorIs(t, err, ErrInvalidParameters)
}
