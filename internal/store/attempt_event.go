package store

import (
	"context"
	"fmt"
	"slices"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendAttemptEvent(ctx context.Context, data AttemptEventData) error {
	err := r.insert(ctx, "attempt_events", data.Timestamp,
		[]string{
			"session_id", "user_id", "topic", "question_id", "user_answer",
			"correct", "confidence", "time_taken_secs", "difficulty_level",
		},
		[]any{
			data.SessionID, data.UserID, data.Topic, data.QuestionID, data.UserAnswer,
			data.Correct, data.Confidence, data.TimeTakenSecs, data.DifficultyLevel,
		},
	)
	if err != nil {
		return fmt.Errorf("save attempt event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAttempts(ctx context.Context, userID string, opts QueryOpts) ([]AttemptEventRecord, error) {
	sel := r.sql.Select(
		"sequence", "timestamp", "session_id", "user_id", "topic", "question_id",
		"user_answer", "correct", "confidence", "time_taken_secs", "difficulty_level",
	).From(r.sql.Table("attempt_events")).
		Where(entsql.EQ("user_id", userID))
	query, args := applyOpts(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var records []AttemptEventRecord
	for rows.Next() {
		var (
			rec AttemptEventRecord
			ts  int64
		)
		if err := rows.Scan(
			&rec.Sequence, &ts, &rec.SessionID, &rec.UserID, &rec.Topic, &rec.QuestionID,
			&rec.UserAnswer, &rec.Correct, &rec.Confidence, &rec.TimeTakenSecs, &rec.DifficultyLevel,
		); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}

	// Fetched newest first so Limit keeps the latest; callers want them oldest first.
	slices.Reverse(records)
	return records, nil
}
