// Package tutor is the typed client for the tutoring backend: question
// generation, hints, answer submission, chat, ability and leaderboard
// projections. It holds no session state.
package tutor

import "context"

// Service is the request/response contract of the tutoring backend.
// Every method is a single round trip; nothing is retried.
type Service interface {
	// Generate returns a question at an explicitly chosen difficulty.
	Generate(ctx context.Context, req GenerateRequest) (*Question, error)

	// GenerateAdaptive returns a question whose difficulty the backend picks
	// from the user's estimated ability. The result may carry AdaptiveInfo.
	GenerateAdaptive(ctx context.Context, req AdaptiveRequest) (*Question, error)

	// Hint returns a hint for the given question text.
	Hint(ctx context.Context, req HintRequest) (string, error)

	// SubmitAnswer records a completed attempt.
	SubmitAnswer(ctx context.Context, req SubmitRequest) error

	// Chat sends a message to the tutor about the active question.
	Chat(ctx context.Context, req ChatRequest) (string, error)

	// UserAbility returns the user's current ability projection.
	UserAbility(ctx context.Context, userID string) (*AbilitySnapshot, error)

	// UserProgress returns the user's attempt history, oldest first.
	UserProgress(ctx context.Context, userID string) ([]ProgressEntry, error)

	// ChatHistory returns every chat exchange the user has had, oldest first.
	ChatHistory(ctx context.Context, userID string) ([]ChatRecord, error)

	// Leaderboard returns ranking data for the query's type.
	Leaderboard(ctx context.Context, q LeaderboardQuery) (*LeaderboardResult, error)
}

// GenerateRequest asks for a question on a topic. A zero DifficultyLevel
// lets the backend choose.
type GenerateRequest struct {
	Topic           string
	DifficultyLevel int
}

// AdaptiveRequest asks the backend to choose difficulty for the user.
type AdaptiveRequest struct {
	UserID        string
	Topic         string
	ChallengeMode bool
}

// Question is a generated multiple-choice question.
type Question struct {
	QuestionID      string            `json:"question_id"`
	Prompt          string            `json:"question"`
	Passage         string            `json:"passage,omitempty"`
	Choices         map[string]string `json:"choices"`
	CorrectAnswer   string            `json:"correct_answer"`
	Solution        string            `json:"solution"`
	DifficultyLevel int               `json:"difficulty_level,omitempty"`
	AdaptiveInfo    *AdaptiveInfo     `json:"adaptive_info,omitempty"`
}

// AdaptiveInfo is the backend's difficulty decision for an adaptive question.
type AdaptiveInfo struct {
	RecommendedDifficulty int     `json:"recommended_difficulty"`
	UserAbility           float64 `json:"user_ability,omitempty"`
	ChallengeMode         bool    `json:"challenge_mode,omitempty"`
}

// HintRequest asks for a hint on a question.
type HintRequest struct {
	Topic    string `json:"topic"`
	Question string `json:"question"`
}

// SubmitRequest is the full attempt payload recorded by the backend.
type SubmitRequest struct {
	UserID          string `json:"user_id"`
	Topic           string `json:"topic"`
	QuestionID      string `json:"question_id"`
	UserAnswer      string `json:"user_answer"`
	Correct         bool   `json:"correct"`
	Confidence      int    `json:"confidence"`
	TimeTaken       int    `json:"time_taken"`
	DifficultyLevel int    `json:"difficulty_level"`
}

// ChatRequest is one user message to the tutor.
type ChatRequest struct {
	UserID     string `json:"user_id"`
	QuestionID string `json:"question_id"`
	Message    string `json:"message"`
}

// ChatRecord is a stored chat exchange.
type ChatRecord struct {
	QuestionID    string    `json:"question_id"`
	UserMessage   string    `json:"user_message"`
	TutorResponse string    `json:"tutor_response"`
	Timestamp     Timestamp `json:"timestamp"`
}

// TopicAbility is the ability estimate for a single topic.
type TopicAbility struct {
	Ability       float64 `json:"ability"`
	SuccessRate   float64 `json:"success_rate"`
	QuestionCount int     `json:"question_count,omitempty"`
}

// AbilitySnapshot is a read-only projection of the user's estimated ability.
// It is replaced wholesale on every fetch.
type AbilitySnapshot struct {
	UserID            string                  `json:"user_id"`
	OverallAbility    float64                 `json:"overall_ability"`
	QuestionsAnswered int                     `json:"questions_answered"`
	TopicAbilities    map[string]TopicAbility `json:"topic_abilities"`
}

// ProgressEntry is one recorded attempt from the user's history.
type ProgressEntry struct {
	QuestionID      string    `json:"question_id,omitempty"`
	Timestamp       Timestamp `json:"timestamp"`
	Topic           string    `json:"topic"`
	Correct         bool      `json:"correct"`
	TimeTaken       float64   `json:"time_taken"`
	DifficultyLevel int       `json:"difficulty_level"`
	Confidence      int       `json:"confidence"`
}
