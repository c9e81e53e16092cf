package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int    // max results (0 = unlimited)
	SessionID string // only events of this session ("" = all)
}

// SubmissionEventData captures one webhook submission attempt.
type SubmissionEventData struct {
	SessionID    string
	RequestID    string
	Endpoint     string
	Comparison   bool
	Outcome      string
	StatusCode   int
	LatencyMs    int64
	Success      bool
	RequestBody  string
	ResponseBody string
	ErrorMessage string
}

// SubmissionEvent is a stored submission attempt.
type SubmissionEvent struct {
	ID        int
	Timestamp time.Time
	SubmissionEventData
}

// OutcomeStats aggregates submission attempts by outcome.
type OutcomeStats struct {
	Outcome      string
	Count        int
	AvgLatencyMs int64
}

// SubmissionRepo provides append and query access to submission events.
type SubmissionRepo interface {
	// AppendSubmission records a submission attempt.
	AppendSubmission(ctx context.Context, data SubmissionEventData) error

	// QuerySubmissions returns events newest first.
	QuerySubmissions(ctx context.Context, opts QueryOpts) ([]SubmissionEvent, error)

	// GetSubmission returns one event, or nil if it does not exist.
	GetSubmission(ctx context.Context, id int) (*SubmissionEvent, error)

	// StatsByOutcome aggregates attempts per outcome.
	StatsByOutcome(ctx context.Context) ([]OutcomeStats, error)
}
