package session

import (
	"context"

	"github.com/abhisek/sattutor/internal/analytics"
	"github.com/abhisek/sattutor/internal/store"
)

// AttemptRecord is a resolved attempt with the session and user it
// belongs to.
type AttemptRecord struct {
	SessionID string
	UserID    string
	Attempt   analytics.Attempt
}

// AttemptSink persists resolved attempts. Errors are reported as warnings
// and never undo the transition.
type AttemptSink interface {
	RecordAttempt(ctx context.Context, rec AttemptRecord) error
}

// SessionSink is implemented by sinks that also track session boundaries.
type SessionSink interface {
	SessionStarted(ctx context.Context, sessionID, userID string) error
	SessionEnded(ctx context.Context, sessionID, userID string, summary *SessionSummary) error
}

// StoreSink writes attempts and session boundaries to the local event log.
type StoreSink struct {
	Repo store.EventRepo
}

var (
	_ AttemptSink = StoreSink{}
	_ SessionSink = StoreSink{}
)

func (s StoreSink) RecordAttempt(ctx context.Context, rec AttemptRecord) error {
	a := rec.Attempt
	return s.Repo.AppendAttemptEvent(ctx, store.AttemptEventData{
		SessionID:       rec.SessionID,
		UserID:          rec.UserID,
		Topic:           a.Topic,
		QuestionID:      a.QuestionID,
		UserAnswer:      a.UserAnswer,
		Correct:         a.Correct,
		Confidence:      a.Confidence,
		TimeTakenSecs:   a.TimeTakenSeconds,
		DifficultyLevel: a.DifficultyLevel,
		Timestamp:       a.Timestamp,
	})
}

func (s StoreSink) SessionStarted(ctx context.Context, sessionID, userID string) error {
	return s.Repo.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID: sessionID,
		UserID:    userID,
		Action:    store.SessionStart,
	})
}

func (s StoreSink) SessionEnded(ctx context.Context, sessionID, userID string, summary *SessionSummary) error {
	return s.Repo.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:       sessionID,
		UserID:          userID,
		Action:          store.SessionEnd,
		QuestionsServed: summary.QuestionsServed,
		CorrectAnswers:  summary.TotalCorrect,
		DurationSecs:    int(summary.Duration.Seconds()),
	})
}

// AttemptsFromStore converts stored attempt events back into Attempts.
func AttemptsFromStore(records []store.AttemptEventRecord) []analytics.Attempt {
	out := make([]analytics.Attempt, len(records))
	for i, r := range records {
		out[i] = analytics.Attempt{
			Topic:            r.Topic,
			QuestionID:       r.QuestionID,
			UserAnswer:       r.UserAnswer,
			Correct:          r.Correct,
			Confidence:       r.Confidence,
			TimeTakenSeconds: r.TimeTakenSecs,
			DifficultyLevel:  r.DifficultyLevel,
			Timestamp:        r.Timestamp,
		}
	}
	return out
}
