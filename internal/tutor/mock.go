package tutor

import (
	"context"
	"sync"
)

// MockResponse is a canned response for the MockService. Only the field
// matching the called method is read.
type MockResponse struct {
	Question    *Question
	Text        string // hint or tutor reply
	Ability     *AbilitySnapshot
	Progress    []ProgressEntry
	History     []ChatRecord
	Leaderboard *LeaderboardResult
	Err         error
}

// MockCall records one call made against a MockService.
type MockCall struct {
	Op      string
	Request any
}

// MockService is a deterministic Service for testing.
// It returns canned responses in FIFO order and records all calls.
type MockService struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []MockCall

	// OnCall, if set, runs before each call is answered and outside the
	// lock, so tests can hold a call in flight.
	OnCall func(op string)
}

var _ Service = (*MockService)(nil)

// NewMockService creates a MockService with the given canned responses.
func NewMockService(responses ...MockResponse) *MockService {
	return &MockService{responses: responses}
}

// AddResponse appends a canned response to the queue.
func (m *MockService) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of calls made.
func (m *MockService) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent call, or a zero MockCall.
func (m *MockService) LastCall() MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return MockCall{}
	}
	return m.Calls[len(m.Calls)-1]
}

// next records the call and pops the next canned response. An empty queue
// answers with UnavailableError.
func (m *MockService) next(ctx context.Context, op string, req any) (MockResponse, error) {
	if m.OnCall != nil {
		m.OnCall(op)
	}
	if err := ctx.Err(); err != nil {
		return MockResponse{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{Op: op, Request: req})

	if len(m.responses) == 0 {
		return MockResponse{}, &UnavailableError{Op: op}
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, resp.Err
}

func (m *MockService) Generate(ctx context.Context, req GenerateRequest) (*Question, error) {
	resp, err := m.next(ctx, "generate", req)
	if err != nil {
		return nil, err
	}
	return resp.Question, nil
}

func (m *MockService) GenerateAdaptive(ctx context.Context, req AdaptiveRequest) (*Question, error) {
	resp, err := m.next(ctx, "generate-adaptive", req)
	if err != nil {
		return nil, err
	}
	return resp.Question, nil
}

func (m *MockService) Hint(ctx context.Context, req HintRequest) (string, error) {
	resp, err := m.next(ctx, "hint", req)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (m *MockService) SubmitAnswer(ctx context.Context, req SubmitRequest) error {
	_, err := m.next(ctx, "submit-answer", req)
	return err
}

func (m *MockService) Chat(ctx context.Context, req ChatRequest) (string, error) {
	resp, err := m.next(ctx, "chat", req)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (m *MockService) UserAbility(ctx context.Context, userID string) (*AbilitySnapshot, error) {
	resp, err := m.next(ctx, "user-ability", userID)
	if err != nil {
		return nil, err
	}
	return resp.Ability, nil
}

func (m *MockService) UserProgress(ctx context.Context, userID string) ([]ProgressEntry, error) {
	resp, err := m.next(ctx, "user-progress", userID)
	if err != nil {
		return nil, err
	}
	return resp.Progress, nil
}

func (m *MockService) ChatHistory(ctx context.Context, userID string) ([]ChatRecord, error) {
	resp, err := m.next(ctx, "chat-history", userID)
	if err != nil {
		return nil, err
	}
	return resp.History, nil
}

func (m *MockService) Leaderboard(ctx context.Context, q LeaderboardQuery) (*LeaderboardResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	resp, err := m.next(ctx, "leaderboard", q)
	if err != nil {
		return nil, err
	}
	return resp.Leaderboard, nil
}
