package adaptive

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sattutor/internal/auth"
	"github.com/abhisek/sattutor/internal/tutor"
)

func question(id string, info *tutor.AdaptiveInfo) *tutor.Question {
	return &tutor.Question{
		QuestionID:    id,
		Choices:       map[string]string{"A": "1", "B": "2"},
		CorrectAnswer: "B",
		AdaptiveInfo:  info,
	}
}

func TestNewController_NormalizesDifficulty(t *testing.T) {
	c := NewController(nil, Params{ManualDifficulty: 9})
	assert.Equal(t, DefaultDifficulty, c.Params().ManualDifficulty)
}

func TestPlan_Manual(t *testing.T) {
	c := NewController(auth.Static{UserID: "u1"}, Params{ManualDifficulty: 3})
	call := c.Plan("Algebra")
	assert.Equal(t, CallManual, call.Kind)
	assert.Equal(t, tutor.GenerateRequest{Topic: "Algebra", DifficultyLevel: 3}, call.Manual)
}

func TestPlan_Adaptive(t *testing.T) {
	c := NewController(auth.Static{UserID: "u1"}, Params{AdaptiveMode: true, ChallengeMode: true})
	call := c.Plan("Geometry")
	assert.Equal(t, CallAdaptive, call.Kind)
	assert.Equal(t, tutor.AdaptiveRequest{UserID: "u1", Topic: "Geometry", ChallengeMode: true}, call.Adaptive)
}

func TestPlan_AdaptiveWithoutUserFallsBack(t *testing.T) {
	c := NewController(auth.Anonymous, Params{AdaptiveMode: true, ManualDifficulty: 2})
	call := c.Plan("Geometry")
	assert.Equal(t, CallManual, call.Kind)
	assert.Equal(t, 2, call.Manual.DifficultyLevel)
}

func TestSetManualDifficulty(t *testing.T) {
	c := NewController(nil, Params{ManualDifficulty: 3})
	require.NoError(t, c.SetManualDifficulty(5))
	assert.Equal(t, 5, c.Params().ManualDifficulty)

	assert.ErrorIs(t, c.SetManualDifficulty(0), ErrDifficultyOutOfRange)
	assert.ErrorIs(t, c.SetManualDifficulty(6), ErrDifficultyOutOfRange)

	c.SetAdaptiveMode(true)
	assert.ErrorIs(t, c.SetManualDifficulty(1), ErrManualDifficultyLocked)
	assert.Equal(t, 5, c.Params().ManualDifficulty)

	c.SetAdaptiveMode(false)
	assert.NoError(t, c.SetManualDifficulty(1))
}

func TestGenerate_AdaptiveRecommendationOverwritesDifficulty(t *testing.T) {
	svc := tutor.NewMockService(tutor.MockResponse{
		Question: question("q1", &tutor.AdaptiveInfo{RecommendedDifficulty: 4}),
	})
	c := NewController(auth.Static{UserID: "u1"}, Params{AdaptiveMode: true, ManualDifficulty: 2})

	q, err := c.Generate(context.Background(), svc, "Algebra")
	require.NoError(t, err)
	assert.Equal(t, 4, c.Params().ManualDifficulty)
	assert.Equal(t, 4, q.DifficultyLevel)
	assert.Equal(t, "generate-adaptive", svc.LastCall().Op)
}

func TestGenerate_ManualIgnoresAdaptiveInfo(t *testing.T) {
	svc := tutor.NewMockService(tutor.MockResponse{
		Question: question("q1", &tutor.AdaptiveInfo{RecommendedDifficulty: 4}),
	})
	c := NewController(auth.Static{UserID: "u1"}, Params{ManualDifficulty: 2})

	q, err := c.Generate(context.Background(), svc, "Algebra")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Params().ManualDifficulty)
	assert.Nil(t, q.AdaptiveInfo)
	assert.Equal(t, 2, q.DifficultyLevel)

	req, ok := svc.LastCall().Request.(tutor.GenerateRequest)
	require.True(t, ok)
	assert.Equal(t, 2, req.DifficultyLevel)
}

func TestGenerate_OutOfRangeRecommendationIgnored(t *testing.T) {
	for _, rec := range []int{0, 6, -1} {
		svc := tutor.NewMockService(tutor.MockResponse{
			Question: question("q1", &tutor.AdaptiveInfo{RecommendedDifficulty: rec}),
		})
		c := NewController(auth.Static{UserID: "u1"}, Params{AdaptiveMode: true, ManualDifficulty: 3})
		_, err := c.Generate(context.Background(), svc, "Algebra")
		require.NoError(t, err)
		assert.Equal(t, 3, c.Params().ManualDifficulty, "recommendation %d", rec)
	}
}

func TestReconcile_AfterAdaptiveModeTurnedOff(t *testing.T) {
	c := NewController(auth.Static{UserID: "u1"}, Params{AdaptiveMode: true, ManualDifficulty: 3})
	call := c.Plan("Algebra")
	c.SetAdaptiveMode(false)

	c.Reconcile(call, question("q1", &tutor.AdaptiveInfo{RecommendedDifficulty: 5}))
	assert.Equal(t, 3, c.Params().ManualDifficulty)
}

func TestGenerate_ErrorPassesThrough(t *testing.T) {
	want := &tutor.StatusError{Code: 500}
	svc := tutor.NewMockService(tutor.MockResponse{Err: want})
	c := NewController(nil, Params{})

	_, err := c.Generate(context.Background(), svc, "Algebra")
	assert.True(t, errors.Is(err, want))
}

func TestGenerate_NilQuestionIsInvalid(t *testing.T) {
	svc := tutor.NewMockService(tutor.MockResponse{})
	c := NewController(nil, Params{})

	_, err := c.Generate(context.Background(), svc, "Algebra")
	var invErr *tutor.InvalidResponseError
	assert.True(t, errors.As(err, &invErr))
}
