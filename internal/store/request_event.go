package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo over database/sql. Statements are built
// with ent's SQL builder and every append draws from the global sequence.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	sql *entsql.DialectBuilder
}

// insert appends a row to table, prefixing the sequence and timestamp
// columns.
func (r *eventRepo) insert(ctx context.Context, table string, ts time.Time, cols []string, vals []any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	if ts.IsZero() {
		ts = time.Now()
	}

	allCols := make([]string, 0, len(cols)+2)
	allCols = append(allCols, "sequence", "timestamp")
	allCols = append(allCols, cols...)
	allVals := make([]any, 0, len(vals)+2)
	allVals = append(allVals, seqNum, ts.UnixMilli())
	allVals = append(allVals, vals...)

	query, args := r.sql.Insert(table).Columns(allCols...).Values(allVals...).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

// applyOpts narrows a selector by the sequence and time bounds in opts and
// orders it newest first.
func applyOpts(sel *entsql.Selector, opts QueryOpts) *entsql.Selector {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UnixMilli()))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel
}

func (r *eventRepo) AppendRequestEvent(ctx context.Context, data RequestEventData) error {
	err := r.insert(ctx, "request_events", time.Time{},
		[]string{"source", "operation", "status_code", "latency_ms", "success", "error_message"},
		[]any{data.Source, data.Operation, data.StatusCode, data.LatencyMs, data.Success, data.ErrorMessage},
	)
	if err != nil {
		return fmt.Errorf("save request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryRequestEvents(ctx context.Context, opts QueryOpts) ([]RequestEventRecord, error) {
	sel := r.sql.Select(
		"sequence", "timestamp", "source", "operation",
		"status_code", "latency_ms", "success", "error_message",
	).From(r.sql.Table("request_events"))
	query, args := applyOpts(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query request events: %w", err)
	}
	defer rows.Close()

	var records []RequestEventRecord
	for rows.Next() {
		var (
			rec RequestEventRecord
			ts  int64
		)
		if err := rows.Scan(
			&rec.Sequence, &ts, &rec.Source, &rec.Operation,
			&rec.StatusCode, &rec.LatencyMs, &rec.Success, &rec.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("scan request event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query request events: %w", err)
	}
	return records, nil
}
