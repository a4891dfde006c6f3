package store

import (
	"context"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{"request_events", "attempt_events", "session_events", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestRequestEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []RequestEventData{
		{Source: SourceClient, Operation: "generate", StatusCode: 200, LatencyMs: 40, Success: true},
		{Source: SourceClient, Operation: "submit-answer", StatusCode: 500, LatencyMs: 12, ErrorMessage: "backend returned 500"},
		{Source: SourceGateway, Operation: "GET /api/health", StatusCode: 200, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendRequestEvent(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryRequestEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// Newest first.
	if got[0].Operation != "GET /api/health" {
		t.Errorf("first operation = %q, want GET /api/health", got[0].Operation)
	}
	if got[1].Success || got[1].StatusCode != 500 || got[1].ErrorMessage == "" {
		t.Errorf("failed event round-tripped as %+v", got[1])
	}

	limited, err := repo.QueryRequestEvents(ctx, QueryOpts{Limit: 1, Before: got[0].Sequence})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 1 || limited[0].Operation != "submit-answer" {
		t.Errorf("limited = %+v, want only submit-answer", limited)
	}
}

func TestAttemptsChronologicalPerUser(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		err := repo.AppendAttemptEvent(ctx, AttemptEventData{
			SessionID:       "s1",
			UserID:          "u1",
			Topic:           "Algebra",
			QuestionID:      "q" + string(rune('a'+i)),
			UserAnswer:      "B",
			Correct:         i%2 == 0,
			Confidence:      3,
			TimeTakenSecs:   10 + i,
			DifficultyLevel: 2,
			Timestamp:       base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	if err := repo.AppendAttemptEvent(ctx, AttemptEventData{
		SessionID: "s2", UserID: "u2", Topic: "Geometry", QuestionID: "x",
		UserAnswer: "A", Confidence: 1, DifficultyLevel: 1,
	}); err != nil {
		t.Fatalf("append other user: %v", err)
	}

	got, err := repo.QueryAttempts(ctx, "u1", QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	for i, a := range got {
		if a.QuestionID != "q"+string(rune('a'+i)) {
			t.Errorf("got[%d].QuestionID = %q, not chronological", i, a.QuestionID)
		}
	}
	if !got[0].Timestamp.Equal(base) {
		t.Errorf("timestamp = %v, want %v", got[0].Timestamp, base)
	}
	if !got[0].Correct || got[1].Correct {
		t.Errorf("correct flags not preserved: %v %v", got[0].Correct, got[1].Correct)
	}

	latest, err := repo.QueryAttempts(ctx, "u1", QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query latest: %v", err)
	}
	if len(latest) != 2 || latest[0].QuestionID != "qc" || latest[1].QuestionID != "qd" {
		t.Errorf("latest = %+v, want qc then qd", latest)
	}
}

func TestSessionSummaries(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	steps := []SessionEventData{
		{SessionID: "s1", Action: SessionStart},
		{SessionID: "s1", Action: SessionEnd, QuestionsServed: 5, CorrectAnswers: 3, DurationSecs: 300},
		{SessionID: "s2", Action: SessionStart},
	}
	for _, e := range steps {
		if err := repo.AppendSessionEvent(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QuerySessionSummaries(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 finished session", len(got))
	}
	if got[0].SessionID != "s1" || got[0].QuestionsServed != 5 || got[0].CorrectAnswers != 3 {
		t.Errorf("summary = %+v", got[0])
	}
}
