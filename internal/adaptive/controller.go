// Package adaptive decides the shape of each question request: either the
// backend picks the difficulty from the user's ability, or the learner's
// manual level is sent. Recommendations flow back from server to client
// only.
package adaptive

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/sattutor/internal/auth"
	"github.com/abhisek/sattutor/internal/tutor"
)

const (
	MinDifficulty     = 1
	MaxDifficulty     = 5
	DefaultDifficulty = 3
)

var (
	// ErrManualDifficultyLocked is returned by SetManualDifficulty while
	// adaptive mode owns the difficulty.
	ErrManualDifficultyLocked = errors.New("difficulty is chosen by the tutor while adaptive mode is on")

	// ErrDifficultyOutOfRange is returned for levels outside 1..5.
	ErrDifficultyOutOfRange = errors.New("difficulty must be between 1 and 5")
)

// Params are the learner-controlled generation settings.
type Params struct {
	AdaptiveMode     bool
	ChallengeMode    bool
	ManualDifficulty int
}

// CallKind says which backend operation a Call uses.
type CallKind int

const (
	CallManual CallKind = iota
	CallAdaptive
)

func (k CallKind) String() string {
	if k == CallAdaptive {
		return "adaptive"
	}
	return "manual"
}

// Call is a planned generate request. Only the request matching Kind is set.
type Call struct {
	Kind     CallKind
	Manual   tutor.GenerateRequest
	Adaptive tutor.AdaptiveRequest
}

// Controller owns Params and turns them into generate calls.
// It is safe for concurrent use.
type Controller struct {
	mu     sync.Mutex
	params Params
	users  auth.Provider
}

// NewController returns a Controller. A ManualDifficulty outside 1..5 is
// replaced with DefaultDifficulty.
func NewController(users auth.Provider, p Params) *Controller {
	if users == nil {
		users = auth.Anonymous
	}
	if p.ManualDifficulty < MinDifficulty || p.ManualDifficulty > MaxDifficulty {
		p.ManualDifficulty = DefaultDifficulty
	}
	return &Controller{params: p, users: users}
}

// Params returns a copy of the current settings.
func (c *Controller) Params() Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// SetAdaptiveMode turns adaptive mode on or off. While off, the challenge
// flag is kept but has no effect and manual editing is allowed again.
func (c *Controller) SetAdaptiveMode(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.AdaptiveMode = on
}

// SetChallengeMode sets the challenge flag sent with adaptive requests.
func (c *Controller) SetChallengeMode(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.ChallengeMode = on
}

// SetManualDifficulty sets the level sent with manual requests.
func (c *Controller) SetManualDifficulty(level int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.params.AdaptiveMode {
		return ErrManualDifficultyLocked
	}
	if level < MinDifficulty || level > MaxDifficulty {
		return fmt.Errorf("%w: got %d", ErrDifficultyOutOfRange, level)
	}
	c.params.ManualDifficulty = level
	return nil
}

// Plan returns the call shape for topic. Adaptive mode needs a signed-in
// user; without one the manual shape is used.
func (c *Controller) Plan(topic string) Call {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.params.AdaptiveMode {
		if userID, ok := c.users.CurrentUser(); ok {
			return Call{
				Kind: CallAdaptive,
				Adaptive: tutor.AdaptiveRequest{
					UserID:        userID,
					Topic:         topic,
					ChallengeMode: c.params.ChallengeMode,
				},
			}
		}
	}
	return Call{
		Kind:   CallManual,
		Manual: tutor.GenerateRequest{Topic: topic, DifficultyLevel: c.params.ManualDifficulty},
	}
}

// Reconcile folds the response of call back into Params. Only adaptive
// calls made while adaptive mode is still on can move ManualDifficulty,
// and only to an in-range recommendation.
func (c *Controller) Reconcile(call Call, q *tutor.Question) {
	if call.Kind != CallAdaptive || q == nil || q.AdaptiveInfo == nil {
		return
	}
	rec := q.AdaptiveInfo.RecommendedDifficulty
	if rec < MinDifficulty || rec > MaxDifficulty {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.params.AdaptiveMode {
		c.params.ManualDifficulty = rec
	}
}

// Generate plans a call for topic, runs it against svc and reconciles the
// result. Manual calls never carry adaptive info back to the caller.
func (c *Controller) Generate(ctx context.Context, svc tutor.Service, topic string) (*tutor.Question, error) {
	call := c.Plan(topic)

	var (
		q   *tutor.Question
		err error
	)
	switch call.Kind {
	case CallAdaptive:
		q, err = svc.GenerateAdaptive(ctx, call.Adaptive)
	default:
		q, err = svc.Generate(ctx, call.Manual)
	}
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, &tutor.InvalidResponseError{Op: "generate", Err: errors.New("empty response")}
	}

	c.Reconcile(call, q)

	if call.Kind == CallManual {
		q.AdaptiveInfo = nil
		if q.DifficultyLevel == 0 {
			q.DifficultyLevel = call.Manual.DifficultyLevel
		}
	} else if q.DifficultyLevel == 0 {
		q.DifficultyLevel = c.Params().ManualDifficulty
	}
	return q, nil
}
