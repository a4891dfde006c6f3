package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// ClientConfig configures the HTTP client.
type ClientConfig struct {
	// BaseURL is the backend root, e.g. "http://localhost:8000".
	BaseURL string

	// Timeout bounds a single request. Default: 30s.
	Timeout time.Duration

	// HTTPClient overrides the underlying client. Optional.
	HTTPClient *http.Client
}

// Client implements Service over HTTP+JSON.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

var _ Service = (*Client)(nil)

// NewClient creates a Client for the backend at cfg.BaseURL.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("tutor: base URL is required")
	}
	u, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("tutor: parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("tutor: unsupported URL scheme %q", u.Scheme)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: u, http: hc}, nil
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*Question, error) {
	q := url.Values{"topic": {req.Topic}}
	if req.DifficultyLevel > 0 {
		q.Set("difficulty_level", strconv.Itoa(req.DifficultyLevel))
	}
	var out Question
	if err := c.do(ctx, "generate", http.MethodGet, "/generate-question", q, nil, QuestionSchema, &out); err != nil {
		return nil, err
	}
	if err := checkQuestion("generate", &out); err != nil {
		return nil, err
	}
	// Explicit difficulty requests never carry adaptive info.
	out.AdaptiveInfo = nil
	if out.DifficultyLevel == 0 {
		out.DifficultyLevel = req.DifficultyLevel
	}
	return &out, nil
}

func (c *Client) GenerateAdaptive(ctx context.Context, req AdaptiveRequest) (*Question, error) {
	q := url.Values{
		"user_id":        {req.UserID},
		"topic":          {req.Topic},
		"challenge_mode": {strconv.FormatBool(req.ChallengeMode)},
	}
	var out Question
	if err := c.do(ctx, "generate-adaptive", http.MethodGet, "/adaptive-question", q, nil, QuestionSchema, &out); err != nil {
		return nil, err
	}
	if err := checkQuestion("generate-adaptive", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Hint(ctx context.Context, req HintRequest) (string, error) {
	var out struct {
		Hint string `json:"hint"`
	}
	if err := c.do(ctx, "hint", http.MethodPost, "/get-hint", nil, req, HintSchema, &out); err != nil {
		return "", err
	}
	return out.Hint, nil
}

func (c *Client) SubmitAnswer(ctx context.Context, req SubmitRequest) error {
	return c.do(ctx, "submit-answer", http.MethodPost, "/submit-answer", nil, req, nil, nil)
}

func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	var out struct {
		TutorResponse string `json:"tutor_response"`
	}
	if err := c.do(ctx, "chat", http.MethodPost, "/chat", nil, req, ChatSchema, &out); err != nil {
		return "", err
	}
	return out.TutorResponse, nil
}

func (c *Client) UserAbility(ctx context.Context, userID string) (*AbilitySnapshot, error) {
	var out AbilitySnapshot
	if err := c.do(ctx, "user-ability", http.MethodGet, "/user-ability/"+url.PathEscape(userID), nil, nil, AbilitySchema, &out); err != nil {
		return nil, err
	}
	if out.TopicAbilities == nil {
		out.TopicAbilities = make(map[string]TopicAbility)
	}
	return &out, nil
}

func (c *Client) UserProgress(ctx context.Context, userID string) ([]ProgressEntry, error) {
	var out struct {
		Trends []ProgressEntry `json:"trends"`
	}
	if err := c.do(ctx, "user-progress", http.MethodGet, "/performance-trends/"+url.PathEscape(userID), nil, nil, ProgressSchema, &out); err != nil {
		return nil, err
	}
	return out.Trends, nil
}

func (c *Client) ChatHistory(ctx context.Context, userID string) ([]ChatRecord, error) {
	var out struct {
		History []ChatRecord `json:"history"`
	}
	if err := c.do(ctx, "chat-history", http.MethodGet, "/chat-history/"+url.PathEscape(userID), nil, nil, ChatHistorySchema, &out); err != nil {
		return nil, err
	}
	return out.History, nil
}

func (c *Client) Leaderboard(ctx context.Context, q LeaderboardQuery) (*LeaderboardResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if q.Type == LeaderboardUser {
		var ranking UserRanking
		if err := c.do(ctx, "user-ranking", http.MethodGet, "/user-ranking/"+url.PathEscape(q.UserID), nil, nil, RankingSchema, &ranking); err != nil {
			return nil, err
		}
		return &LeaderboardResult{Ranking: &ranking}, nil
	}

	path := "/global-leaderboard"
	if q.Type == LeaderboardTopic {
		path = "/topic-leaderboard/" + url.PathEscape(q.Topic)
	}
	var out LeaderboardResult
	params := url.Values{"limit": {strconv.Itoa(q.Limit)}}
	if err := c.do(ctx, "leaderboard", http.MethodGet, path, params, nil, LeaderboardSchema, &out); err != nil {
		return nil, err
	}
	if out.Entries == nil {
		out.Entries = []LeaderboardEntry{}
	}
	return &out, nil
}

// do performs a single request. A nil out discards the body after the
// status check; a nil schema skips validation.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any, schema *Schema, out any) error {
	// path segments are already escaped, so join on the string form.
	endpoint := c.baseURL.String() + path
	if query != nil {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("tutor: marshal %s request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("tutor: build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &UnavailableError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &UnavailableError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Code:    resp.StatusCode,
			Message: errorMessage(raw),
			Body:    raw,
		}
	}

	if out == nil {
		return nil
	}
	if err := validateResponse(op, schema, raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &InvalidResponseError{Op: op, Content: raw, Err: err}
	}
	return nil
}

// checkQuestion rejects questions whose correct answer is not one of the
// offered choices.
func checkQuestion(op string, q *Question) error {
	if strings.TrimSpace(q.QuestionID) == "" {
		return &InvalidResponseError{Op: op, Err: errors.New("missing question id")}
	}
	for key := range q.Choices {
		if strings.EqualFold(key, q.CorrectAnswer) {
			return nil
		}
	}
	return &InvalidResponseError{
		Op:  op,
		Err: fmt.Errorf("correct answer %q is not one of the choices", q.CorrectAnswer),
	}
}
