package session

import (
	"time"

	"github.com/abhisek/sattutor/internal/tutor"
)

// Phase is the lifecycle phase of the current question.
type Phase int

const (
	PhaseIdle       Phase = iota // No question; ready to generate
	PhaseGenerating              // Waiting for the backend to produce a question
	PhaseAnswering               // Question shown, timer running
	PhaseSubmitting              // Waiting for the backend to record the answer
	PhaseResolved                // Answer recorded, feedback shown
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseGenerating:
		return "generating"
	case PhaseAnswering:
		return "answering"
	case PhaseSubmitting:
		return "submitting"
	case PhaseResolved:
		return "resolved"
	}
	return "unknown"
}

// Effect tells the caller which side effects a transition asks for. A
// transition may ask for several at once.
type Effect uint8

const (
	EffectNone       Effect = 0
	EffectStartTimer Effect = 1 << (iota - 1)
	EffectStopTimer
	EffectRecordAttempt
)

// Has reports whether e includes every flag in f.
func (e Effect) Has(f Effect) bool {
	return f != 0 && e&f == f
}

// State is a point-in-time copy of the machine's state.
type State struct {
	Phase Phase

	// Topic is the topic of the active question.
	Topic string

	// SelectedTopic is the topic the learner picked for the next question.
	SelectedTopic string

	// Question is the active question, or nil. CorrectAnswer and Solution
	// are blank until the phase is Resolved.
	Question *tutor.Question

	// UserAnswer is the selected choice key, or "".
	UserAnswer string

	// Confidence is the learner's confidence, 1..5.
	Confidence int

	// QuestionStartTime is when the active question was installed.
	QuestionStartTime time.Time

	// IsCorrect is set once the answer is recorded.
	IsCorrect *bool

	// Hint is the last hint received for the active question.
	Hint string

	// Token identifies the active question. It changes whenever a question
	// is replaced or the session resets.
	Token uint64
}

// Answered reports whether a choice has been selected.
func (s State) Answered() bool {
	return s.UserAnswer != ""
}
