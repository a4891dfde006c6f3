package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sattutor/internal/auth"
	"github.com/abhisek/sattutor/internal/session"
	"github.com/abhisek/sattutor/internal/tutor"
)

// fixedQuestion is a QuestionSource with a settable question id.
type fixedQuestion struct{ id string }

func (f *fixedQuestion) ActiveQuestionID() (string, bool) {
	return f.id, f.id != ""
}

func TestSend_AppendsAndClearsInput(t *testing.T) {
	svc := tutor.NewMockService(tutor.MockResponse{Text: "Try isolating x."})
	q := &fixedQuestion{id: "q1"}
	th := New(svc, q, auth.Static{UserID: "u1"})

	th.SetInput("how do I start?")
	msg, err := th.SendInput(context.Background())
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "q1", msg.QuestionID)
	assert.Equal(t, "Try isolating x.", msg.TutorResponse)
	assert.Empty(t, th.Input())

	req, ok := svc.LastCall().Request.(tutor.ChatRequest)
	require.True(t, ok)
	assert.Equal(t, tutor.ChatRequest{UserID: "u1", QuestionID: "q1", Message: "how do I start?"}, req)
	assert.Len(t, th.Messages(), 1)
}

func TestSend_SignedOutUsesAnonymousUser(t *testing.T) {
	svc := tutor.NewMockService(tutor.MockResponse{Text: "ok"})
	th := New(svc, &fixedQuestion{id: "q1"}, auth.Anonymous)

	_, err := th.Send(context.Background(), "hello")
	require.NoError(t, err)

	req, ok := svc.LastCall().Request.(tutor.ChatRequest)
	require.True(t, ok)
	assert.Equal(t, session.AnonymousUser, req.UserID)
}

func TestSend_BlankIsNoop(t *testing.T) {
	svc := tutor.NewMockService()
	th := New(svc, &fixedQuestion{}, nil)

	msg, err := th.Send(context.Background(), "   ")
	assert.NoError(t, err)
	assert.Nil(t, msg)
	assert.Equal(t, 0, svc.CallCount())
}

func TestSend_RequiresActiveQuestion(t *testing.T) {
	svc := tutor.NewMockService()
	th := New(svc, &fixedQuestion{}, nil)

	_, err := th.Send(context.Background(), "hello")
	assert.ErrorIs(t, err, session.ErrNoActiveQuestion)
	assert.Equal(t, 0, svc.CallCount())
}

func TestSend_FailureLeavesLogAndInput(t *testing.T) {
	svc := tutor.NewMockService(
		tutor.MockResponse{Text: "first"},
		tutor.MockResponse{Err: &tutor.StatusError{Code: 500, Message: "boom"}},
	)
	th := New(svc, &fixedQuestion{id: "q1"}, nil)
	ctx := context.Background()

	_, err := th.Send(ctx, "one")
	require.NoError(t, err)

	th.SetInput("two")
	_, err = th.SendInput(ctx)
	var chatErr *ChatError
	require.True(t, errors.As(err, &chatErr))
	assert.Equal(t, "q1", chatErr.QuestionID)

	assert.Equal(t, "two", th.Input())
	require.Len(t, th.Messages(), 1)
	assert.Equal(t, "one", th.Messages()[0].UserMessage)
}

func TestSend_TagsCurrentQuestion(t *testing.T) {
	svc := tutor.NewMockService(tutor.MockResponse{Text: "a"}, tutor.MockResponse{Text: "b"})
	q := &fixedQuestion{id: "q1"}
	th := New(svc, q, nil)
	ctx := context.Background()

	_, err := th.Send(ctx, "about q1")
	require.NoError(t, err)
	q.id = "q2"
	_, err = th.Send(ctx, "about q2")
	require.NoError(t, err)

	assert.Len(t, th.ForQuestion("q1"), 1)
	assert.Len(t, th.ForQuestion("q2"), 1)
	assert.Len(t, th.Messages(), 2, "history persists across questions")
}

func TestMessagesReturnsCopy(t *testing.T) {
	svc := tutor.NewMockService(tutor.MockResponse{Text: "a"})
	th := New(svc, &fixedQuestion{id: "q1"}, nil)
	_, err := th.Send(context.Background(), "hi")
	require.NoError(t, err)

	msgs := th.Messages()
	msgs[0].UserMessage = "changed"
	assert.Equal(t, "hi", th.Messages()[0].UserMessage)
}

func TestLoadHistory_OneShot(t *testing.T) {
	ts := tutor.Timestamp{Time: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)}
	svc := tutor.NewMockService(
		tutor.MockResponse{History: []tutor.ChatRecord{
			{QuestionID: "old", UserMessage: "u", TutorResponse: "t", Timestamp: ts},
		}},
		tutor.MockResponse{History: []tutor.ChatRecord{}},
	)
	th := New(svc, &fixedQuestion{id: "q1"}, nil)
	ctx := context.Background()

	require.NoError(t, th.LoadHistory(ctx, "u1"))
	require.Len(t, th.Messages(), 1)
	assert.Equal(t, "old", th.Messages()[0].QuestionID)
	assert.True(t, th.Messages()[0].Timestamp.Equal(ts.Time))

	// Second load is a no-op.
	require.NoError(t, th.LoadHistory(ctx, "u1"))
	assert.Equal(t, 1, svc.CallCount())
	assert.Len(t, th.Messages(), 1)

	th.ResetHistory()
	assert.Empty(t, th.Messages())
	require.NoError(t, th.LoadHistory(ctx, "u1"))
	assert.Equal(t, 2, svc.CallCount())
	assert.Empty(t, th.Messages())
}

func TestLoadHistory_FailureCanRetry(t *testing.T) {
	svc := tutor.NewMockService(
		tutor.MockResponse{Err: &tutor.StatusError{Code: 404}},
		tutor.MockResponse{History: []tutor.ChatRecord{{UserMessage: "u", TutorResponse: "t"}}},
	)
	th := New(svc, &fixedQuestion{}, nil)
	ctx := context.Background()

	err := th.LoadHistory(ctx, "u1")
	var chatErr *ChatError
	require.True(t, errors.As(err, &chatErr))

	require.NoError(t, th.LoadHistory(ctx, "u1"))
	assert.Len(t, th.Messages(), 1)
}
