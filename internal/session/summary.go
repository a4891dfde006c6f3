package session

import (
	"time"

	"github.com/abhisek/sattutor/internal/analytics"
)

// SessionSummary holds the data displayed when a session ends.
type SessionSummary struct {
	SessionID       string
	Duration        time.Duration
	QuestionsServed int
	TotalQuestions  int // resolved attempts
	TotalCorrect    int
	Accuracy        float64 // percent
	AverageTime     float64 // seconds
	ByTopic         map[string]analytics.TopicStats
}

func buildSummary(sessionID string, served int, history []analytics.Attempt, elapsed time.Duration) *SessionSummary {
	s := analytics.Summarize(history)
	return &SessionSummary{
		SessionID:       sessionID,
		Duration:        elapsed,
		QuestionsServed: served,
		TotalQuestions:  s.TotalQuestions,
		TotalCorrect:    s.CorrectAnswers,
		Accuracy:        s.Accuracy,
		AverageTime:     s.AverageTime,
		ByTopic:         s.ByTopic,
	}
}
