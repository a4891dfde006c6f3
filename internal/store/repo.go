package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Request event sources.
const (
	SourceClient  = "client"
	SourceGateway = "gateway"
)

// RequestEventData captures a single backend or gateway request.
type RequestEventData struct {
	Source       string // SourceClient or SourceGateway
	Operation    string // e.g. "generate" or "GET /api/leaderboard"
	StatusCode   int    // 0 when no response was received
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// RequestEventRecord is a stored request event.
type RequestEventRecord struct {
	RequestEventData
	Sequence  int64
	Timestamp time.Time
}

// AttemptEventData captures one resolved submission.
type AttemptEventData struct {
	SessionID       string
	UserID          string
	Topic           string
	QuestionID      string
	UserAnswer      string
	Correct         bool
	Confidence      int
	TimeTakenSecs   int
	DifficultyLevel int
	Timestamp       time.Time // zero means now
}

// AttemptEventRecord is a stored attempt.
type AttemptEventRecord struct {
	AttemptEventData
	Sequence int64
}

// Session actions.
const (
	SessionStart = "start"
	SessionEnd   = "end"
)

// SessionEventData captures a practice session starting or ending.
type SessionEventData struct {
	SessionID       string
	UserID          string
	Action          string // SessionStart or SessionEnd
	QuestionsServed int
	CorrectAnswers  int
	DurationSecs    int
}

// SessionSummaryRecord summarizes a finished session.
type SessionSummaryRecord struct {
	SessionID       string
	UserID          string
	Timestamp       time.Time
	QuestionsServed int
	CorrectAnswers  int
	DurationSecs    int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendRequestEvent records a backend call or gateway request.
	AppendRequestEvent(ctx context.Context, data RequestEventData) error

	// QueryRequestEvents returns request events, newest first.
	QueryRequestEvents(ctx context.Context, opts QueryOpts) ([]RequestEventRecord, error)

	// AppendAttemptEvent records a resolved submission.
	AppendAttemptEvent(ctx context.Context, data AttemptEventData) error

	// QueryAttempts returns a user's attempts in chronological order.
	// An empty userID matches attempts recorded without a user.
	QueryAttempts(ctx context.Context, userID string, opts QueryOpts) ([]AttemptEventRecord, error)

	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// QuerySessionSummaries returns finished sessions, newest first.
	QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error)
}
