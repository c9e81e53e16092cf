// Package api exposes questionnaire sessions over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/immowert/internal/formstate"
	"github.com/abhisek/immowert/internal/submission"
	"github.com/abhisek/immowert/internal/tenant"
	"github.com/abhisek/immowert/internal/wizard"
)

// Options configures a Server.
type Options struct {
	// Persistence returns the durable slot storage for a session.
	Persistence func(sessionID string) formstate.Persistence

	// Gateway returns the submission gateway for a session.
	Gateway func(sessionID string) submission.Gateway

	Tenants    *tenant.Loader
	BaseDomain string

	// ConfigsDir is served under /configs/. Empty disables it.
	ConfigsDir string

	Logger *slog.Logger
}

// Server routes requests to per-session wizards. Requests for the same
// session are serialized; different sessions run independently.
type Server struct {
	router chi.Router
	opts   Options
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*entry

	tenantMu    sync.Mutex
	tenants     map[string]tenant.Config
	tenantFetch singleflight.Group
}

// maxCachedTenants bounds the tenant cache, whose keys come from the
// request Host header.
const maxCachedTenants = 256

type entry struct {
	mu      sync.Mutex
	session *wizard.Session
}

// NewServer builds the router.
func NewServer(opts Options) *Server {
	if opts.Persistence == nil {
		opts.Persistence = func(string) formstate.Persistence { return formstate.NewMemoryPersistence() }
	}
	if opts.Tenants == nil {
		opts.Tenants = tenant.NewLoader("")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router:   chi.NewRouter(),
		opts:     opts,
		logger:   logger,
		sessions: make(map[string]*entry),
		tenants:  make(map[string]tenant.Config),
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Get("/api/tenant", s.handleTenant)
	s.router.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleState)
			r.Patch("/answers", s.handleAnswers)
			r.Post("/next", s.handleNext)
			r.Post("/back", s.handleBack)
			r.Post("/edit", s.handleEdit)
			r.Get("/result", s.handleResult)
			r.Post("/comparisons", s.handleCompare)
		})
	})

	if s.opts.ConfigsDir != "" {
		if _, err := os.Stat(s.opts.ConfigsDir); err != nil {
			s.logger.Warn("api: configs dir missing", "path", s.opts.ConfigsDir, "error", err)
		}
		fs := http.StripPrefix("/configs/", http.FileServer(http.Dir(s.opts.ConfigsDir)))
		s.router.Get("/configs/*", fs.ServeHTTP)
	}
}

// errUnknownSession is returned for ids that were never created.
var errUnknownSession = errors.New("unknown session")

// noGateway fails every submission; it stands in when no endpoint is set.
type noGateway struct{}

func (noGateway) Submit(context.Context, submission.Request) (*submission.Reply, error) {
	return nil, &submission.TransportError{Err: errors.New("no valuation endpoint configured")}
}

func (s *Server) newSession(id string) *entry {
	var gw submission.Gateway = noGateway{}
	if s.opts.Gateway != nil {
		gw = s.opts.Gateway(id)
	}
	return &entry{session: wizard.NewSession(wizard.Options{
		Store:   formstate.New(s.opts.Persistence(id)),
		Gateway: gw,
		Logger:  s.logger.With("session", id),
	})}
}

func (s *Server) create() (string, *entry) {
	id := uuid.NewString()
	e := s.newSession(id)
	s.mu.Lock()
	s.sessions[id] = e
	s.mu.Unlock()
	return id, e
}

// lookup returns the live session for id, reviving it from persistence
// when it has stored answers.
func (s *Server) lookup(ctx context.Context, id string) (*entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errUnknownSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[id]; ok {
		return e, nil
	}

	e := s.newSession(id)
	found, err := e.session.Resume(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errUnknownSession
	}
	s.sessions[id] = e
	return e, nil
}

// tenantFor returns the sanitized tenant config for the request host.
// Concurrent misses for one tenant share a single fetch, which runs
// without holding the cache lock. Only successful loads are cached.
func (s *Server) tenantFor(r *http.Request) tenant.Config {
	id := tenant.Subdomain(r.Host, s.opts.BaseDomain)

	s.tenantMu.Lock()
	cfg, ok := s.tenants[id]
	s.tenantMu.Unlock()
	if ok {
		return cfg
	}

	v, err, _ := s.tenantFetch.Do(id, func() (any, error) {
		cfg, err := s.opts.Tenants.Fetch(context.WithoutCancel(r.Context()), id)
		if err != nil {
			return nil, err
		}
		s.tenantMu.Lock()
		if len(s.tenants) >= maxCachedTenants {
			clear(s.tenants)
		}
		s.tenants[id] = cfg
		s.tenantMu.Unlock()
		return cfg, nil
	})
	if err != nil {
		s.logger.Warn("tenant config unavailable, using default", "tenant", id, "error", err)
		return tenant.Default()
	}
	return v.(tenant.Config)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
	} else {
		s.logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
