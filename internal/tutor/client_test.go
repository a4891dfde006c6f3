package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient starts a backend stub and returns a client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(ClientConfig{BaseURL: srv.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

const questionJSON = `{
	"question_id": "q1",
	"question": "If 2x + 3 = 11, what is x?",
	"choices": {"A": "3", "B": "4", "C": "5", "D": "6"},
	"correct_answer": "B",
	"solution": "2x = 8",
	"difficulty_level": 3
}`

func TestNewClient_RejectsBadURL(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	assert.Error(t, err)

	_, err = NewClient(ClientConfig{BaseURL: "ftp://example.com"})
	assert.Error(t, err)
}

func TestClient_Generate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/generate-question", r.URL.Path)
		assert.Equal(t, "Algebra", r.URL.Query().Get("topic"))
		assert.Equal(t, "3", r.URL.Query().Get("difficulty_level"))
		io.WriteString(w, questionJSON)
	})

	q, err := c.Generate(context.Background(), GenerateRequest{Topic: "Algebra", DifficultyLevel: 3})
	require.NoError(t, err)
	assert.Equal(t, "q1", q.QuestionID)
	assert.Equal(t, "B", q.CorrectAnswer)
	assert.Len(t, q.Choices, 4)
	assert.Equal(t, 3, q.DifficultyLevel)
	assert.Nil(t, q.AdaptiveInfo)
}

func TestClient_GenerateAdaptive(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/adaptive-question", r.URL.Path)
		assert.Equal(t, "u1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "true", r.URL.Query().Get("challenge_mode"))
		io.WriteString(w, `{
			"question_id": "q2", "question": "?", "choices": {"A": "1", "B": "2"},
			"correct_answer": "a", "difficulty_level": 4,
			"adaptive_info": {"recommended_difficulty": 4, "user_ability": 0.7, "challenge_mode": true}
		}`)
	})

	q, err := c.GenerateAdaptive(context.Background(), AdaptiveRequest{UserID: "u1", Topic: "Algebra", ChallengeMode: true})
	require.NoError(t, err)
	require.NotNil(t, q.AdaptiveInfo)
	assert.Equal(t, 4, q.AdaptiveInfo.RecommendedDifficulty)
	assert.True(t, q.AdaptiveInfo.ChallengeMode)
}

func TestClient_GenerateRejectsMalformedQuestions(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing id", `{"question": "?", "choices": {"A": "1", "B": "2"}, "correct_answer": "A"}`},
		{"empty id", `{"question_id": "", "question": "?", "choices": {"A": "1", "B": "2"}, "correct_answer": "A"}`},
		{"difficulty out of range", `{"question_id": "q", "question": "?", "choices": {"A": "1", "B": "2"}, "correct_answer": "A", "difficulty_level": 9}`},
		{"answer not a choice", `{"question_id": "q", "question": "?", "choices": {"A": "1", "B": "2"}, "correct_answer": "E"}`},
		{"not json", `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			})
			_, err := c.Generate(context.Background(), GenerateRequest{Topic: "Algebra", DifficultyLevel: 1})
			var invErr *InvalidResponseError
			assert.True(t, errors.As(err, &invErr), "got %T: %v", err, err)
		})
	}
}

func TestClient_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, `{"detail": "model overloaded"}`)
	})

	_, err := c.Generate(context.Background(), GenerateRequest{Topic: "Algebra"})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	assert.Equal(t, "model overloaded", statusErr.Message)
	assert.JSONEq(t, `{"detail": "model overloaded"}`, string(statusErr.Body))
}

func TestClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(ClientConfig{BaseURL: url})
	require.NoError(t, err)

	err = c.SubmitAnswer(context.Background(), SubmitRequest{QuestionID: "q1"})
	var unavail *UnavailableError
	assert.True(t, errors.As(err, &unavail), "got %T: %v", err, err)
}

func TestClient_SubmitAnswerPayload(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/submit-answer", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, `{"status": "ok"}`)
	})

	err := c.SubmitAnswer(context.Background(), SubmitRequest{
		UserID: "u1", Topic: "Algebra", QuestionID: "q1", UserAnswer: "B",
		Correct: true, Confidence: 4, TimeTaken: 12, DifficultyLevel: 3,
	})
	require.NoError(t, err)

	want := map[string]any{
		"user_id": "u1", "topic": "Algebra", "question_id": "q1", "user_answer": "B",
		"correct": true, "confidence": float64(4), "time_taken": float64(12), "difficulty_level": float64(3),
	}
	assert.Equal(t, want, got)
}

func TestClient_HintAndChat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/get-hint":
			io.WriteString(w, `{"hint": "isolate x"}`)
		case "/chat":
			var req ChatRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "q1", req.QuestionID)
			io.WriteString(w, `{"tutor_response": "subtract 3 first"}`)
		default:
			http.NotFound(w, r)
		}
	})

	hint, err := c.Hint(context.Background(), HintRequest{Topic: "Algebra", Question: "2x+3=11"})
	require.NoError(t, err)
	assert.Equal(t, "isolate x", hint)

	reply, err := c.Chat(context.Background(), ChatRequest{UserID: "u1", QuestionID: "q1", Message: "why?"})
	require.NoError(t, err)
	assert.Equal(t, "subtract 3 first", reply)
}

func TestClient_UserAbility(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user-ability/user%201", r.URL.EscapedPath())
		io.WriteString(w, `{
			"user_id": "user 1", "overall_ability": 0.4, "questions_answered": 12,
			"topic_abilities": {"Algebra": {"ability": 0.9, "success_rate": 0.75, "question_count": 8}}
		}`)
	})

	snap, err := c.UserAbility(context.Background(), "user 1")
	require.NoError(t, err)
	assert.InDelta(t, 0.4, snap.OverallAbility, 1e-9)
	assert.Equal(t, 12, snap.QuestionsAnswered)
	assert.InDelta(t, 0.75, snap.TopicAbilities["Algebra"].SuccessRate, 1e-9)
}

func TestClient_UserProgressAndHistory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/performance-trends/u1":
			io.WriteString(w, `{"trends": [
				{"question_id": "q1", "timestamp": "2026-02-01T10:00:00.123456", "topic": "Algebra",
				 "correct": true, "time_taken": 14.6, "difficulty_level": 2, "confidence": 4}
			]}`)
		case "/chat-history/u1":
			io.WriteString(w, `{"history": [
				{"question_id": "q1", "user_message": "hi", "tutor_response": "hello", "timestamp": "2026-02-01T10:01:00+00:00"}
			]}`)
		default:
			http.NotFound(w, r)
		}
	})

	progress, err := c.UserProgress(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Equal(t, 2026, progress[0].Timestamp.Year())
	assert.InDelta(t, 14.6, progress[0].TimeTaken, 1e-9)

	history, err := c.ChatHistory(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "hello", history[0].TutorResponse)
}

func TestClient_UserProgressAcceptsNullLevels(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"trends": [
			{"question_id": "q1", "timestamp": "2026-02-01T10:00:00", "topic": "Algebra",
			 "correct": true, "time_taken": 12, "difficulty_level": 2, "confidence": null},
			{"question_id": "q2", "timestamp": "2026-02-01T10:05:00", "topic": "Algebra",
			 "correct": false, "time_taken": 30, "difficulty_level": null, "confidence": 3}
		]}`)
	})

	progress, err := c.UserProgress(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, progress, 2)
	assert.Equal(t, 0, progress[0].Confidence)
	assert.Equal(t, 2, progress[0].DifficultyLevel)
	assert.Equal(t, 0, progress[1].DifficultyLevel)
}

func TestClient_UserProgressRejectsOutOfRangeLevel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"trends": [
			{"question_id": "q1", "timestamp": "2026-02-01T10:00:00", "topic": "Algebra",
			 "correct": true, "time_taken": 12, "difficulty_level": 2, "confidence": 9}
		]}`)
	})

	_, err := c.UserProgress(context.Background(), "u1")
	var invErr *InvalidResponseError
	assert.True(t, errors.As(err, &invErr), "got %T: %v", err, err)
}

func TestClient_LeaderboardRouting(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/global-leaderboard":
			assert.Equal(t, "10", r.URL.Query().Get("limit"))
			io.WriteString(w, `{"leaderboard": [{"user_id": "a", "email": "a@x", "total_points": 120, "accuracy": 80, "rank": 1}]}`)
		case "/topic-leaderboard/Geometry":
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			io.WriteString(w, `{"leaderboard": []}`)
		case "/user-ranking/u1":
			io.WriteString(w, `{"rank": 1, "total_users": 4, "percentile": 25, "total_points": 120}`)
		case "/user-ranking/u2":
			io.WriteString(w, `{"rank": null, "total_users": 4, "percentile": null, "total_points": 0}`)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	global, err := c.Leaderboard(ctx, LeaderboardQuery{Type: LeaderboardGlobal})
	require.NoError(t, err)
	require.Len(t, global.Entries, 1)
	assert.Equal(t, 120, global.Entries[0].TotalPoints)

	topic, err := c.Leaderboard(ctx, LeaderboardQuery{Type: LeaderboardTopic, Topic: "Geometry", Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, topic.Entries)

	ranked, err := c.Leaderboard(ctx, LeaderboardQuery{Type: LeaderboardUser, UserID: "u1"})
	require.NoError(t, err)
	require.NotNil(t, ranked.Ranking)
	assert.Equal(t, 1, ranked.Ranking.Rank)
	assert.InDelta(t, 25.0, ranked.Ranking.Percentile, 1e-9)

	unranked, err := c.Leaderboard(ctx, LeaderboardQuery{Type: LeaderboardUser, UserID: "u2"})
	require.NoError(t, err)
	assert.Equal(t, 0, unranked.Ranking.Rank)
}

func TestClient_LeaderboardInvalidParameters(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	})

	for _, q := range []LeaderboardQuery{
		{Type: LeaderboardUser},
		{Type: LeaderboardTopic},
		{Type: "weekly"},
	} {
		_, err := c.Leaderboard(context.Background(), q)
		assert.ErrorIs(t, err, ErrInvalidParameters, "query %+v", q)
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Hint(ctx, HintRequest{Topic: "Algebra"})
	assert.ErrorIs(t, err, context.Canceled)
}
