package tutor

import (
	"context"
	"errors"
	"testing"
)

func TestMockService_FIFOAndCalls(t *testing.T) {
	mock := NewMockService(
		MockResponse{Question: &Question{QuestionID: "q1"}},
		MockResponse{Text: "try factoring"},
	)
	ctx := context.Background()

	q, err := mock.Generate(ctx, GenerateRequest{Topic: "Algebra", DifficultyLevel: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.QuestionID != "q1" {
		t.Fatalf("question id = %q, want q1", q.QuestionID)
	}

	hint, err := mock.Hint(ctx, HintRequest{Topic: "Algebra"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hint != "try factoring" {
		t.Fatalf("hint = %q", hint)
	}

	if mock.CallCount() != 2 {
		t.Fatalf("call count = %d, want 2", mock.CallCount())
	}
	if mock.Calls[0].Op != "generate" || mock.LastCall().Op != "hint" {
		t.Fatalf("calls = %+v", mock.Calls)
	}
}

func TestMockService_EmptyQueueIsUnavailable(t *testing.T) {
	mock := NewMockService()
	err := mock.SubmitAnswer(context.Background(), SubmitRequest{})
	var unavail *UnavailableError
	if !errors.As(err, &unavail) {
		t.Fatalf("expected UnavailableError, got: %T", err)
	}
}

func TestMockService_CannedError(t *testing.T) {
	want := &StatusError{Code: 500}
	mock := NewMockService(MockResponse{Err: want})
	_, err := mock.Chat(context.Background(), ChatRequest{})
	if !errors.Is(err, want) {
		t.Fatalf("expected canned error, got: %v", err)
	}
}
