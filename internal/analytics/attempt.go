// Package analytics derives performance and leaderboard metrics from a
// history of attempts. Everything here is pure: no I/O, no clocks.
package analytics

import (
	"math"
	"strconv"
	"time"
)

const (
	MinConfidence = 1
	MaxConfidence = 5

	MinDifficulty = 1
	MaxDifficulty = 5
)

// Attempt is one completed answer submission. Attempts are immutable once
// created; histories are append-only and ordered chronologically.
type Attempt struct {
	Topic            string
	QuestionID       string
	UserAnswer       string
	Correct          bool
	Confidence       int
	TimeTakenSeconds int
	DifficultyLevel  int
	Timestamp        time.Time
}

// Valid reports whether every numeric field is inside its documented range.
func (a Attempt) Valid() bool {
	return a.QuestionID != "" &&
		a.TimeTakenSeconds >= 0 &&
		a.Confidence >= MinConfidence && a.Confidence <= MaxConfidence &&
		a.DifficultyLevel >= MinDifficulty && a.DifficultyLevel <= MaxDifficulty
}

// ValidateAttempts returns the attempts whose fields are all in range,
// preserving order. The input slice is not modified.
func ValidateAttempts(attempts []Attempt) []Attempt {
	out := make([]Attempt, 0, len(attempts))
	for _, a := range attempts {
		if a.Valid() {
			out = append(out, a)
		}
	}
	return out
}

// ProgressRecord is a history row as reported by the backend's progress
// endpoint. TimeTaken is in (possibly fractional) seconds.
type ProgressRecord struct {
	QuestionID      string
	Topic           string
	Correct         bool
	TimeTaken       float64
	DifficultyLevel int
	Confidence      int
	Timestamp       time.Time
}

// FromProgress converts backend history rows into attempts. Fractional times
// are rounded to whole seconds and negative times are clamped to zero.
// Rows without a question id get a positional placeholder so they still
// count toward aggregates.
func FromProgress(records []ProgressRecord) []Attempt {
	out := make([]Attempt, 0, len(records))
	for i, r := range records {
		secs := int(math.Round(r.TimeTaken))
		if secs < 0 {
			secs = 0
		}
		id := r.QuestionID
		if id == "" {
			id = "history-" + strconv.Itoa(i)
		}
		out = append(out, Attempt{
			Topic:            r.Topic,
			QuestionID:       id,
			Correct:          r.Correct,
			Confidence:       r.Confidence,
			TimeTakenSeconds: secs,
			DifficultyLevel:  r.DifficultyLevel,
			Timestamp:        r.Timestamp,
		})
	}
	return out
}
