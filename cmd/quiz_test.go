package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sattutor/internal/session"
	"github.com/abhisek/sattutor/internal/tutor"
)

func quizQuestion() *tutor.Question {
	return &tutor.Question{
		QuestionID:      "q1",
		Prompt:          "If 2x = 8, what is x?",
		Choices:         map[string]string{"A": "2", "B": "4", "C": "6"},
		CorrectAnswer:   "B",
		Solution:        "Divide both sides by 2.",
		DifficultyLevel: 3,
	}
}

func newQuizMachine(responses ...tutor.MockResponse) (*session.Machine, *tutor.MockService) {
	mock := tutor.NewMockService(responses...)
	m := session.New(session.Config{Service: mock, Warn: func(error) {}})
	return m, mock
}

func TestQuizLoop_RevealsAnswerAfterWrongSubmit(t *testing.T) {
	m, mock := newQuizMachine(
		tutor.MockResponse{Question: quizQuestion()},
		tutor.MockResponse{},
	)
	var out bytes.Buffer

	sum := quizLoop(t.Context(), m, "Algebra", 1, strings.NewReader("a\n\n"), &out)

	require.NotNil(t, sum)
	assert.Equal(t, 1, sum.TotalQuestions)
	assert.Equal(t, 0, sum.TotalCorrect)
	assert.Contains(t, out.String(), "Answer: B")
	assert.Contains(t, out.String(), "Solution: Divide both sides by 2.")
	assert.Equal(t, "submit-answer", mock.LastCall().Op)
}

func TestQuizLoop_CorrectAnswerShowsSolution(t *testing.T) {
	m, _ := newQuizMachine(
		tutor.MockResponse{Question: quizQuestion()},
		tutor.MockResponse{},
	)
	var out bytes.Buffer

	sum := quizLoop(t.Context(), m, "Algebra", 1, strings.NewReader("z\nb\n4\n"), &out)

	assert.Equal(t, 1, sum.TotalCorrect)
	assert.Contains(t, out.String(), "Correct!")
	assert.Contains(t, out.String(), "Solution: Divide both sides by 2.")
	assert.NotContains(t, out.String(), "Answer: B")
}

func TestQuizLoop_ClosedInputStops(t *testing.T) {
	m, mock := newQuizMachine(tutor.MockResponse{Question: quizQuestion()})
	var out bytes.Buffer

	sum := quizLoop(t.Context(), m, "Algebra", 3, strings.NewReader(""), &out)

	assert.Equal(t, 0, sum.TotalQuestions)
	assert.Contains(t, out.String(), "(input closed)")
	assert.NotContains(t, out.String(), "Divide both sides")
	assert.Equal(t, 1, mock.CallCount())
}
