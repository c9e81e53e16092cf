package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

var submissionSelectColumns = []string{
	"id", "timestamp", "session_id", "request_id", "endpoint", "comparison",
	"outcome", "status_code", "latency_ms", "success",
	"request_body", "response_body", "error_message",
}

// submissionRepo implements SubmissionRepo with the ent SQL builder.
type submissionRepo struct {
	drv *entsql.Driver
}

func (r *submissionRepo) AppendSubmission(ctx context.Context, data SubmissionEventData) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(submissionsTable).
		Columns(submissionSelectColumns[1:]...).
		Values(
			time.Now().UTC(),
			data.SessionID,
			data.RequestID,
			data.Endpoint,
			data.Comparison,
			data.Outcome,
			data.StatusCode,
			data.LatencyMs,
			data.Success,
			data.RequestBody,
			data.ResponseBody,
			data.ErrorMessage,
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save submission event: %w", err)
	}
	return nil
}

func (r *submissionRepo) QuerySubmissions(ctx context.Context, opts QueryOpts) ([]SubmissionEvent, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(submissionSelectColumns...).
		From(entsql.Table(submissionsTable)).
		OrderBy(entsql.Desc("id"))
	if opts.SessionID != "" {
		sel = sel.Where(entsql.EQ("session_id", opts.SessionID))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	return r.query(ctx, sel)
}

func (r *submissionRepo) GetSubmission(ctx context.Context, id int) (*SubmissionEvent, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(submissionSelectColumns...).
		From(entsql.Table(submissionsTable)).
		Where(entsql.EQ("id", id))
	events, err := r.query(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}
	return &events[0], nil
}

func (r *submissionRepo) StatsByOutcome(ctx context.Context) ([]OutcomeStats, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(
			"outcome",
			entsql.As(entsql.Count("*"), "calls"),
			entsql.As(entsql.Avg("latency_ms"), "avg_latency"),
		).
		From(entsql.Table(submissionsTable)).
		GroupBy("outcome").
		OrderBy("outcome").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query submission stats: %w", err)
	}
	defer rows.Close()

	var out []OutcomeStats
	for rows.Next() {
		var (
			st  OutcomeStats
			avg float64
		)
		if err := rows.Scan(&st.Outcome, &st.Count, &avg); err != nil {
			return nil, fmt.Errorf("scan submission stats: %w", err)
		}
		st.AvgLatencyMs = int64(avg)
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *submissionRepo) query(ctx context.Context, sel *entsql.Selector) ([]SubmissionEvent, error) {
	query, args := sel.Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query submission events: %w", err)
	}
	defer rows.Close()

	var out []SubmissionEvent
	for rows.Next() {
		var e SubmissionEvent
		if err := rows.Scan(
			&e.ID,
			&e.Timestamp,
			&e.SessionID,
			&e.RequestID,
			&e.Endpoint,
			&e.Comparison,
			&e.Outcome,
			&e.StatusCode,
			&e.LatencyMs,
			&e.Success,
			&e.RequestBody,
			&e.ResponseBody,
			&e.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("scan submission event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
