// Package chat keeps the ordered log of learner/tutor exchanges. Each new
// exchange is tagged with the question that was active when it was sent.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/sattutor/internal/auth"
	"github.com/abhisek/sattutor/internal/session"
	"github.com/abhisek/sattutor/internal/tutor"
)

// QuestionSource reports the active question. *session.Machine satisfies it.
type QuestionSource interface {
	ActiveQuestionID() (string, bool)
}

// Message is one exchange.
type Message struct {
	QuestionID    string
	UserMessage   string
	TutorResponse string
	Timestamp     time.Time
}

// ChatError indicates a message could not be delivered. The log and input
// buffer are unchanged.
type ChatError struct {
	QuestionID string
	Err        error
}

func (e *ChatError) Error() string {
	if e.QuestionID == "" {
		return fmt.Sprintf("chat: %v", e.Err)
	}
	return fmt.Sprintf("chat about %s: %v", e.QuestionID, e.Err)
}

func (e *ChatError) Unwrap() error { return e.Err }

// Thread is the chat log for one signed-in session.
type Thread struct {
	svc       tutor.Service
	questions QuestionSource
	users     auth.Provider
	clock     func() time.Time

	mu     sync.Mutex
	log    []Message
	input  string
	loaded bool
}

// New creates an empty Thread.
func New(svc tutor.Service, questions QuestionSource, users auth.Provider) *Thread {
	if users == nil {
		users = auth.Anonymous
	}
	return &Thread{svc: svc, questions: questions, users: users, clock: time.Now}
}

// SetInput replaces the input buffer.
func (t *Thread) SetInput(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.input = s
}

// Input returns the input buffer.
func (t *Thread) Input() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.input
}

// Messages returns a copy of the log, oldest first.
func (t *Thread) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Message, len(t.log))
	copy(out, t.log)
	return out
}

// ForQuestion returns the exchanges tagged with questionID.
func (t *Thread) ForQuestion(questionID string) []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Message
	for _, m := range t.log {
		if m.QuestionID == questionID {
			out = append(out, m)
		}
	}
	return out
}

// Send delivers message to the tutor about the active question. Blank
// messages are ignored and return nil, nil. On success the exchange is
// appended and the input buffer cleared, unless it was edited meanwhile.
func (t *Thread) Send(ctx context.Context, message string) (*Message, error) {
	text := strings.TrimSpace(message)
	if text == "" {
		return nil, nil
	}
	questionID, ok := t.questions.ActiveQuestionID()
	if !ok {
		return nil, session.ErrNoActiveQuestion
	}

	userID, ok := t.users.CurrentUser()
	if !ok {
		userID = session.AnonymousUser
	}
	reply, err := t.svc.Chat(ctx, tutor.ChatRequest{
		UserID:     userID,
		QuestionID: questionID,
		Message:    text,
	})
	if err != nil {
		return nil, &ChatError{QuestionID: questionID, Err: err}
	}

	msg := Message{
		QuestionID:    questionID,
		UserMessage:   text,
		TutorResponse: reply,
		Timestamp:     t.clock(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.log = append(t.log, msg)
	if t.input == message {
		t.input = ""
	}
	return &msg, nil
}

// SendInput sends the input buffer.
func (t *Thread) SendInput(ctx context.Context) (*Message, error) {
	return t.Send(ctx, t.Input())
}

// LoadHistory replaces the log with the user's stored history. It runs
// once; later calls are no-ops until ResetHistory.
func (t *Thread) LoadHistory(ctx context.Context, userID string) error {
	t.mu.Lock()
	loaded := t.loaded
	t.mu.Unlock()
	if loaded {
		return nil
	}

	records, err := t.svc.ChatHistory(ctx, userID)
	if err != nil {
		return &ChatError{Err: fmt.Errorf("load history: %w", err)}
	}

	log := make([]Message, len(records))
	for i, r := range records {
		log[i] = Message{
			QuestionID:    r.QuestionID,
			UserMessage:   r.UserMessage,
			TutorResponse: r.TutorResponse,
			Timestamp:     r.Timestamp.Time,
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loaded {
		return nil
	}
	t.log = log
	t.loaded = true
	return nil
}

// ResetHistory clears the log and allows LoadHistory to run again.
func (t *Thread) ResetHistory() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.log = nil
	t.loaded = false
}
