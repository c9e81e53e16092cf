package submission

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/immowert/internal/store"
)

// Outcome values recorded for attempts that did not produce a report.
const (
	OutcomeTransportError = "transport_error"
	OutcomeStatusError    = "status_error"
	OutcomeUnrecognized   = "unrecognized"
	OutcomeFailed         = "failed"
)

// EventLogGateway is a decorator that records every submission attempt.
type EventLogGateway struct {
	inner     Gateway
	repo      store.SubmissionRepo
	sessionID string
	logger    *slog.Logger
}

// WithEventLog wraps g so each attempt is appended to repo.
func WithEventLog(g Gateway, repo store.SubmissionRepo, sessionID string, logger *slog.Logger) Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventLogGateway{inner: g, repo: repo, sessionID: sessionID, logger: logger}
}

func (l *EventLogGateway) Submit(ctx context.Context, req Request) (*Reply, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	start := time.Now()

	reply, err := l.inner.Submit(ctx, req)

	data := store.SubmissionEventData{
		SessionID:   l.sessionID,
		RequestID:   req.ID,
		Endpoint:    endpointOf(l.inner),
		Comparison:  req.IsComparison(),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: encodeRequest(req),
	}

	if reply != nil {
		data.Outcome = reply.Outcome.String()
		data.StatusCode = reply.StatusCode
		data.ResponseBody = string(reply.Body)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		data.Outcome, data.StatusCode, data.ResponseBody = classify(err)
	}

	// Recording is best effort; the submission result stands either way.
	if logErr := l.repo.AppendSubmission(ctx, data); logErr != nil {
		l.logger.Warn("failed to record submission event", "request_id", req.ID, "err", logErr)
	}

	return reply, err
}

func classify(err error) (outcome string, status int, body string) {
	var (
		transport *TransportError
		rejected  *StatusError
		unknown   *UnrecognizedResponseError
	)
	switch {
	case errors.As(err, &rejected):
		return OutcomeStatusError, rejected.StatusCode, string(rejected.Body)
	case errors.As(err, &unknown):
		return OutcomeUnrecognized, unknown.StatusCode, string(unknown.Body)
	case errors.As(err, &transport):
		return OutcomeTransportError, 0, ""
	}
	return OutcomeFailed, 0, ""
}

func endpointOf(g Gateway) string {
	if e, ok := g.(interface{ Endpoint() string }); ok {
		return e.Endpoint()
	}
	return ""
}

func encodeRequest(req Request) string {
	b, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	return string(b)
}
