package tenant

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	maxConfigBytes = 64 << 10
	defaultTimeout = 10 * time.Second
)

// Loader fetches tenant files from <baseURL>/configs/<tenant>.json.
type Loader struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient overrides the client used for fetching.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) { l.client = c }
}

// WithLogger sets the logger for fallback warnings.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader returns a Loader for baseURL. An empty baseURL disables
// fetching and every Load yields the default.
func NewLoader(baseURL string, opts ...LoaderOption) *Loader {
	l := &Loader{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load returns the effective config for tenant. Keys present in the
// tenant file replace the defaults; any failure yields Default().
func (l *Loader) Load(ctx context.Context, tenant string) Config {
	cfg, err := l.Fetch(ctx, tenant)
	if err != nil {
		l.logger.Warn("tenant config unavailable, using default", "tenant", tenant, "err", err)
		return Default()
	}
	return cfg
}

// Fetch is Load without the fallback: a failed request returns the error.
// No tenant or no base URL yields Default() and a nil error.
func (l *Loader) Fetch(ctx context.Context, tenant string) (Config, error) {
	if tenant == "" || l.baseURL == "" {
		return Default(), nil
	}
	return l.fetch(ctx, tenant)
}

// LoadHost resolves the tenant from host and loads it.
func (l *Loader) LoadHost(ctx context.Context, host, baseDomain string) Config {
	return l.Load(ctx, Subdomain(host, baseDomain))
}

func (l *Loader) fetch(ctx context.Context, tenant string) (Config, error) {
	u := l.baseURL + "/configs/" + url.PathEscape(tenant) + ".json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Config{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return Config{}, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Config{}, fmt.Errorf("fetch %s: status %d", u, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxConfigBytes))
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", u, err)
	}
	return Merge(Default(), body)
}

// Merge overlays the keys present in the JSON object data onto base.
func Merge(base Config, data []byte) (Config, error) {
	// Decoding into a copy leaves absent keys at their base values.
	out := base
	if err := json.Unmarshal(data, &out); err != nil {
		return base, fmt.Errorf("decode tenant config: %w", err)
	}
	return out.Sanitized(), nil
}
