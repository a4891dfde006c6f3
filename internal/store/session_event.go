package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	err := r.insert(ctx, "session_events", time.Time{},
		[]string{"session_id", "user_id", "action", "questions_served", "correct_answers", "duration_secs"},
		[]any{data.SessionID, data.UserID, data.Action, data.QuestionsServed, data.CorrectAnswers, data.DurationSecs},
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error) {
	sel := r.sql.Select(
		"session_id", "user_id", "timestamp", "questions_served", "correct_answers", "duration_secs",
	).From(r.sql.Table("session_events")).
		Where(entsql.EQ("action", SessionEnd))
	query, args := applyOpts(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}
	defer rows.Close()

	var records []SessionSummaryRecord
	for rows.Next() {
		var (
			rec SessionSummaryRecord
			ts  int64
		)
		if err := rows.Scan(
			&rec.SessionID, &rec.UserID, &ts, &rec.QuestionsServed, &rec.CorrectAnswers, &rec.DurationSecs,
		); err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}
	return records, nil
}
