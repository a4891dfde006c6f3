package session

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPhase is returned when an operation is not allowed in the
	// current phase, including while another call is in flight.
	ErrInvalidPhase = errors.New("operation not allowed in current phase")

	// ErrNoActiveQuestion is returned when an operation needs a question
	// and none is installed.
	ErrNoActiveQuestion = errors.New("no active question")

	// ErrUnknownChoice is returned for a choice key the question lacks.
	ErrUnknownChoice = errors.New("unknown choice")

	// ErrNoAnswer is returned when submitting without a selected choice.
	ErrNoAnswer = errors.New("no answer selected")

	// ErrNoTopic is returned when generating without a topic.
	ErrNoTopic = errors.New("no topic selected")
)

// GenerationError indicates a question could not be produced.
type GenerationError struct {
	Topic string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s question: %v", e.Topic, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// SubmissionError indicates the backend did not record an answer. The
// machine is back in Answering and the submit may be retried.
type SubmissionError struct {
	QuestionID string
	Err        error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit answer for %s: %v", e.QuestionID, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// HintError indicates a hint could not be fetched.
type HintError struct {
	QuestionID string
	Err        error
}

func (e *HintError) Error() string {
	return fmt.Sprintf("hint for %s: %v", e.QuestionID, e.Err)
}

func (e *HintError) Unwrap() error { return e.Err }

// phaseError wraps ErrInvalidPhase with the operation and phase.
func phaseError(op string, p Phase) error {
	return fmt.Errorf("%s while %s: %w", op, p, ErrInvalidPhase)
}
