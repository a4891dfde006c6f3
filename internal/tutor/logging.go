package tutor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/abhisek/sattutor/internal/store"
)

// LoggingService is a decorator that records every backend call as an event.
type LoggingService struct {
	inner     Service
	eventRepo store.EventRepo
}

var _ Service = (*LoggingService)(nil)

// WithLogging wraps a Service with event logging.
func WithLogging(s Service, repo store.EventRepo) Service {
	return &LoggingService{inner: s, eventRepo: repo}
}

// record appends a request event for op. Logging failures never fail the call.
func (l *LoggingService) record(ctx context.Context, op string, start time.Time, err error) {
	data := store.RequestEventData{
		Source:     store.SourceClient,
		Operation:  op,
		LatencyMs:  time.Since(start).Milliseconds(),
		Success:    err == nil,
		StatusCode: http.StatusOK,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		data.StatusCode = 0
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			data.StatusCode = statusErr.Code
		}
	}

	// A cancelled caller context must not drop the event.
	if logErr := l.eventRepo.AppendRequestEvent(context.WithoutCancel(ctx), data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log %s request event: %v\n", op, logErr)
	}
}

func (l *LoggingService) Generate(ctx context.Context, req GenerateRequest) (*Question, error) {
	start := time.Now()
	q, err := l.inner.Generate(ctx, req)
	l.record(ctx, "generate", start, err)
	return q, err
}

func (l *LoggingService) GenerateAdaptive(ctx context.Context, req AdaptiveRequest) (*Question, error) {
	start := time.Now()
	q, err := l.inner.GenerateAdaptive(ctx, req)
	l.record(ctx, "generate-adaptive", start, err)
	return q, err
}

func (l *LoggingService) Hint(ctx context.Context, req HintRequest) (string, error) {
	start := time.Now()
	hint, err := l.inner.Hint(ctx, req)
	l.record(ctx, "hint", start, err)
	return hint, err
}

func (l *LoggingService) SubmitAnswer(ctx context.Context, req SubmitRequest) error {
	start := time.Now()
	err := l.inner.SubmitAnswer(ctx, req)
	l.record(ctx, "submit-answer", start, err)
	return err
}

func (l *LoggingService) Chat(ctx context.Context, req ChatRequest) (string, error) {
	start := time.Now()
	reply, err := l.inner.Chat(ctx, req)
	l.record(ctx, "chat", start, err)
	return reply, err
}

func (l *LoggingService) UserAbility(ctx context.Context, userID string) (*AbilitySnapshot, error) {
	start := time.Now()
	snap, err := l.inner.UserAbility(ctx, userID)
	l.record(ctx, "user-ability", start, err)
	return snap, err
}

func (l *LoggingService) UserProgress(ctx context.Context, userID string) ([]ProgressEntry, error) {
	start := time.Now()
	entries, err := l.inner.UserProgress(ctx, userID)
	l.record(ctx, "user-progress", start, err)
	return entries, err
}

func (l *LoggingService) ChatHistory(ctx context.Context, userID string) ([]ChatRecord, error) {
	start := time.Now()
	history, err := l.inner.ChatHistory(ctx, userID)
	l.record(ctx, "chat-history", start, err)
	return history, err
}

func (l *LoggingService) Leaderboard(ctx context.Context, q LeaderboardQuery) (*LeaderboardResult, error) {
	start := time.Now()
	res, err := l.inner.Leaderboard(ctx, q)
	l.record(ctx, "leaderboard:"+string(q.Type), start, err)
	return res, err
}
