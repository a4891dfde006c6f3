// Package session drives the lifecycle of one question at a time:
// generate, answer, submit, feedback. Transitions are guarded by phase, so
// overlapping generate or submit calls are rejected rather than queued.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/sattutor/internal/adaptive"
	"github.com/abhisek/sattutor/internal/analytics"
	"github.com/abhisek/sattutor/internal/auth"
	"github.com/abhisek/sattutor/internal/tutor"
)

// DefaultConfidence is the confidence a new session starts with.
const DefaultConfidence = 3

// AnonymousUser is sent as the user id when nobody is signed in.
const AnonymousUser = "anonymous"

// Config wires a Machine to its collaborators.
type Config struct {
	Service    tutor.Service
	Controller *adaptive.Controller
	Users      auth.Provider

	// Sink persists resolved attempts. Optional.
	Sink AttemptSink

	// Clock defaults to time.Now.
	Clock func() time.Time

	// Warn reports non-fatal problems such as sink failures. Defaults to
	// writing a warning line to stderr.
	Warn func(error)
}

// Machine is the session state machine. It is safe for concurrent use.
type Machine struct {
	svc        tutor.Service
	controller *adaptive.Controller
	users      auth.Provider
	sink       AttemptSink
	clock      func() time.Time
	warn       func(error)

	sessionID string
	startedAt time.Time

	mu       sync.Mutex
	state    State
	question *tutor.Question // unredacted active question
	taken    time.Duration   // frozen elapsed time once resolved
	history  []analytics.Attempt
	served   int
	started  bool // session start recorded
}

// New creates a Machine in PhaseIdle.
func New(cfg Config) *Machine {
	m := &Machine{
		svc:        cfg.Service,
		controller: cfg.Controller,
		users:      cfg.Users,
		sink:       cfg.Sink,
		clock:      cfg.Clock,
		warn:       cfg.Warn,
		sessionID:  uuid.NewString(),
	}
	if m.users == nil {
		m.users = auth.Anonymous
	}
	if m.controller == nil {
		m.controller = adaptive.NewController(m.users, adaptive.Params{})
	}
	if m.clock == nil {
		m.clock = time.Now
	}
	if m.warn == nil {
		m.warn = func(err error) {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}
	m.startedAt = m.clock()
	m.state.Confidence = DefaultConfidence
	return m
}

// SessionID returns the id this session's events are recorded under.
func (m *Machine) SessionID() string {
	return m.sessionID
}

// Controller returns the adaptive controller shaping generate calls.
func (m *Machine) Controller() *adaptive.Controller {
	return m.controller
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() State {
	s := m.state
	if m.question != nil {
		q := *m.question
		if s.Phase != PhaseResolved {
			q.CorrectAnswer = ""
			q.Solution = ""
		}
		s.Question = &q
	}
	if m.state.IsCorrect != nil {
		v := *m.state.IsCorrect
		s.IsCorrect = &v
	}
	return s
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Phase
}

// Token returns the active question token. Timer ticks carry the token
// they were started with and stop once it no longer matches.
func (m *Machine) Token() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Token
}

// ActiveQuestionID returns the id of the installed question.
func (m *Machine) ActiveQuestionID() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.question == nil {
		return "", false
	}
	return m.question.QuestionID, true
}

// History returns a copy of the attempts resolved in this session.
func (m *Machine) History() []analytics.Attempt {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]analytics.Attempt, len(m.history))
	copy(out, m.history)
	return out
}

// SelectTopic sets the topic used by the next Generate call that does not
// name one.
func (m *Machine) SelectTopic(topic string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.SelectedTopic = strings.TrimSpace(topic)
}

// Generate requests a new question. It is valid from Idle or Resolved. An
// empty topic uses the selected topic.
func (m *Machine) Generate(ctx context.Context, topic string) (Effect, error) {
	m.mu.Lock()
	if p := m.state.Phase; p != PhaseIdle && p != PhaseResolved {
		m.mu.Unlock()
		return EffectNone, phaseError("generate", p)
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = m.state.SelectedTopic
	}
	if topic == "" {
		m.mu.Unlock()
		return EffectNone, &GenerationError{Err: ErrNoTopic}
	}

	m.state.Phase = PhaseGenerating
	m.state.Token++
	m.clearQuestionLocked()
	m.mu.Unlock()

	q, err := m.controller.Generate(ctx, m.svc, topic)
	if err == nil {
		err = checkQuestion(q)
	}

	m.mu.Lock()
	if err != nil {
		m.state.Phase = PhaseIdle
		m.mu.Unlock()
		return EffectNone, &GenerationError{Topic: topic, Err: err}
	}

	m.question = q
	m.state.Phase = PhaseAnswering
	m.state.Topic = topic
	m.state.QuestionStartTime = m.clock()
	m.served++
	first := !m.started
	m.started = true
	m.mu.Unlock()

	if first {
		m.recordStart(ctx)
	}
	return EffectStartTimer, nil
}

// clearQuestionLocked destroys the active question and everything scoped
// to it. Confidence carries over between questions.
func (m *Machine) clearQuestionLocked() {
	m.question = nil
	m.taken = 0
	m.state.Topic = ""
	m.state.UserAnswer = ""
	m.state.Hint = ""
	m.state.IsCorrect = nil
	m.state.QuestionStartTime = time.Time{}
}

// checkQuestion rejects payloads that cannot be answered.
func checkQuestion(q *tutor.Question) error {
	switch {
	case q == nil:
		return &tutor.InvalidResponseError{Op: "generate", Err: errors.New("empty response")}
	case strings.TrimSpace(q.QuestionID) == "":
		return &tutor.InvalidResponseError{Op: "generate", Err: errors.New("missing question id")}
	case len(q.Choices) == 0:
		return &tutor.InvalidResponseError{Op: "generate", Err: errors.New("question has no choices")}
	}
	return nil
}

// SelectAnswer selects a choice key. Keys match case-insensitively and are
// stored in the question's own spelling.
func (m *Machine) SelectAnswer(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Phase != PhaseAnswering {
		return phaseError("select answer", m.state.Phase)
	}
	key = strings.TrimSpace(key)
	for k := range m.question.Choices {
		if strings.EqualFold(k, key) {
			m.state.UserAnswer = k
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownChoice, key)
}

// SetConfidence sets the confidence level, clamped to 1..5.
func (m *Machine) SetConfidence(level int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Phase != PhaseAnswering {
		return phaseError("set confidence", m.state.Phase)
	}
	m.state.Confidence = min(max(level, analytics.MinConfidence), analytics.MaxConfidence)
	return nil
}

// Submit records the selected answer. It is valid only in Answering. On
// failure the machine returns to Answering and Submit may be retried.
func (m *Machine) Submit(ctx context.Context) (analytics.Attempt, Effect, error) {
	m.mu.Lock()
	if m.state.Phase != PhaseAnswering {
		p := m.state.Phase
		m.mu.Unlock()
		return analytics.Attempt{}, EffectNone, phaseError("submit", p)
	}
	if m.state.UserAnswer == "" {
		m.mu.Unlock()
		return analytics.Attempt{}, EffectNone, ErrNoAnswer
	}

	now := m.clock()
	taken := max(now.Sub(m.state.QuestionStartTime), 0)
	q := m.question
	attempt := analytics.Attempt{
		Topic:            m.state.Topic,
		QuestionID:       q.QuestionID,
		UserAnswer:       m.state.UserAnswer,
		Correct:          strings.EqualFold(strings.TrimSpace(m.state.UserAnswer), strings.TrimSpace(q.CorrectAnswer)),
		Confidence:       m.state.Confidence,
		TimeTakenSeconds: int(taken / time.Second),
		DifficultyLevel:  q.DifficultyLevel,
		Timestamp:        now,
	}
	m.state.Phase = PhaseSubmitting
	m.mu.Unlock()

	userID := m.userID()
	err := m.svc.SubmitAnswer(ctx, tutor.SubmitRequest{
		UserID:          userID,
		Topic:           attempt.Topic,
		QuestionID:      attempt.QuestionID,
		UserAnswer:      attempt.UserAnswer,
		Correct:         attempt.Correct,
		Confidence:      attempt.Confidence,
		TimeTaken:       attempt.TimeTakenSeconds,
		DifficultyLevel: attempt.DifficultyLevel,
	})

	m.mu.Lock()
	if err != nil {
		m.state.Phase = PhaseAnswering
		m.mu.Unlock()
		return analytics.Attempt{}, EffectNone, &SubmissionError{QuestionID: attempt.QuestionID, Err: err}
	}
	m.state.Phase = PhaseResolved
	correct := attempt.Correct
	m.state.IsCorrect = &correct
	m.taken = taken
	m.history = append(m.history, attempt)
	m.mu.Unlock()

	if m.sink != nil {
		rec := AttemptRecord{SessionID: m.sessionID, UserID: userID, Attempt: attempt}
		if err := m.sink.RecordAttempt(context.WithoutCancel(ctx), rec); err != nil {
			m.warn(fmt.Errorf("record attempt %s: %w", attempt.QuestionID, err))
		}
	}
	return attempt, EffectStopTimer | EffectRecordAttempt, nil
}

// RequestHint fetches a hint for the active question. It is valid in
// Answering or Resolved and never changes the phase. A hint that arrives
// after the question was replaced is dropped.
func (m *Machine) RequestHint(ctx context.Context) (string, error) {
	m.mu.Lock()
	if p := m.state.Phase; p != PhaseAnswering && p != PhaseResolved {
		m.mu.Unlock()
		return "", phaseError("hint", p)
	}
	token := m.state.Token
	questionID := m.question.QuestionID
	req := tutor.HintRequest{Topic: m.state.Topic, Question: m.question.Prompt}
	m.mu.Unlock()

	hint, err := m.svc.Hint(ctx, req)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Token != token {
		return "", ErrNoActiveQuestion
	}
	if err != nil {
		m.state.Hint = ""
		return "", &HintError{QuestionID: questionID, Err: err}
	}
	m.state.Hint = hint
	return hint, nil
}

// Reset destroys the active question and returns to Idle. It is valid from
// Resolved or Idle.
func (m *Machine) Reset() (Effect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p := m.state.Phase; p != PhaseResolved && p != PhaseIdle {
		return EffectNone, phaseError("reset", p)
	}
	m.state.Phase = PhaseIdle
	m.state.Token++
	m.clearQuestionLocked()
	return EffectStopTimer, nil
}

// Elapsed returns the time spent on the active question as of now. It is
// frozen once the answer is recorded and zero without a question.
func (m *Machine) Elapsed(now time.Time) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state.Phase {
	case PhaseAnswering, PhaseSubmitting:
		return max(now.Sub(m.state.QuestionStartTime), 0)
	case PhaseResolved:
		return m.taken
	}
	return 0
}

// Summary summarizes the session so far.
func (m *Machine) Summary() *SessionSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return buildSummary(m.sessionID, m.served, m.history, m.clock().Sub(m.startedAt))
}

// End records the end of the session when the sink tracks sessions and
// returns the final summary. Sessions that never produced a question
// record nothing.
func (m *Machine) End(ctx context.Context) *SessionSummary {
	summary := m.Summary()
	m.mu.Lock()
	started := m.started
	m.mu.Unlock()

	if ss, ok := m.sink.(SessionSink); ok && started {
		if err := ss.SessionEnded(ctx, m.sessionID, m.userID(), summary); err != nil {
			m.warn(fmt.Errorf("record session end: %w", err))
		}
	}
	return summary
}

func (m *Machine) recordStart(ctx context.Context) {
	ss, ok := m.sink.(SessionSink)
	if !ok {
		return
	}
	if err := ss.SessionStarted(context.WithoutCancel(ctx), m.sessionID, m.userID()); err != nil {
		m.warn(fmt.Errorf("record session start: %w", err))
	}
}

func (m *Machine) userID() string {
	if id, ok := m.users.CurrentUser(); ok {
		return id
	}
	return AnonymousUser
}
