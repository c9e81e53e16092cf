// Package submission sends a completed Answer Set to the valuation webhook
// and turns its reply into a result record.
package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/abhisek/immowert/internal/result"
)

// maxResponseBytes caps how much of a webhook reply is read.
const maxResponseBytes = 1 << 20

// Reply is a successful webhook exchange.
type Reply struct {
	Record     result.Record
	Outcome    result.Outcome
	StatusCode int
	Body       []byte
}

// Gateway submits answers for valuation.
type Gateway interface {
	// Submit sends req and returns the normalized report. Errors are
	// *TransportError, *StatusError or *UnrecognizedResponseError.
	Submit(ctx context.Context, req Request) (*Reply, error)
}

// HTTPGateway posts requests as JSON to a fixed endpoint.
type HTTPGateway struct {
	endpoint  string
	client    *http.Client
	ackTokens []string
}

// Option configures an HTTPGateway.
type Option func(*HTTPGateway)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *HTTPGateway) { g.client = c }
}

// WithAckTokens replaces the accepted acknowledgement bodies.
func WithAckTokens(tokens []string) Option {
	return func(g *HTTPGateway) { g.ackTokens = tokens }
}

// NewHTTPGateway creates a gateway for endpoint.
func NewHTTPGateway(endpoint string, opts ...Option) *HTTPGateway {
	g := &HTTPGateway{
		endpoint:  endpoint,
		client:    http.DefaultClient,
		ackTokens: result.DefaultAckTokens,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Endpoint returns the webhook URL.
func (g *HTTPGateway) Endpoint() string { return g.endpoint }

func (g *HTTPGateway) Submit(ctx context.Context, req Request) (*Reply, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json, text/plain")
	if req.ID != "" {
		httpReq.Header.Set("X-Request-Id", req.ID)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: respBody}
	}

	parsed := result.ParseResponse(respBody, g.ackTokens)
	if parsed.Outcome == result.Unrecognized {
		return nil, &UnrecognizedResponseError{StatusCode: resp.StatusCode, Body: respBody, Err: parsed.Err}
	}

	return &Reply{
		Record:     parsed.Record,
		Outcome:    parsed.Outcome,
		StatusCode: resp.StatusCode,
		Body:       respBody,
	}, nil
}
