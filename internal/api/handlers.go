package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/immowert/internal/answers"
	"github.com/abhisek/immowert/internal/wizard"
)

const maxBodyBytes = 64 << 10

func (s *Server) handleTenant(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tenantFor(r))
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	id, _ := s.create()
	s.logger.Info("session created", "session", id)
	writeJSON(w, http.StatusCreated, createResponse{ID: id})
}

// withSession resolves {id}, locks the session and runs fn.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(id string, e *entry)) {
	id := chi.URLParam(r, "id")
	e, err := s.lookup(r.Context(), id)
	if err != nil {
		if errors.Is(err, errUnknownSession) {
			s.writeError(w, http.StatusNotFound, fmt.Errorf("session %q: %w", id, err))
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(id, e)
}

func (s *Server) state(r *http.Request, id string, e *entry) stateView {
	return newStateView(id, e.session, s.tenantFor(r).MaklerName)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, e *entry) {
		writeJSON(w, http.StatusOK, s.state(r, id, e))
	})
}

func readPatch(w http.ResponseWriter, r *http.Request) (answers.Patch, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &answers.InvalidPatchError{Err: err}
	}
	return answers.ParsePatch(body)
}

func (s *Server) handleAnswers(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, e *entry) {
		p, err := readPatch(w, r)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := e.session.Update(r.Context(), p); err != nil {
			s.writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, s.state(r, id, e))
	})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, e *entry) {
		adv, err := e.session.Next(r.Context())
		if err != nil {
			status := statusFor(err)
			if status >= http.StatusInternalServerError {
				// The session has already returned to the last step.
				writeJSON(w, http.StatusBadGateway, map[string]any{
					"error": wizard.FailureMessage,
					"state": s.state(r, id, e),
				})
				return
			}
			s.writeError(w, status, err)
			return
		}
		writeJSON(w, http.StatusOK, nextResponse{
			Submitted: adv == wizard.AdvanceSubmit,
			State:     s.state(r, id, e),
		})
	})
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, e *entry) {
		if err := e.session.Back(); err != nil {
			s.writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, s.state(r, id, e))
	})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, e *entry) {
		if err := e.session.Edit(r.Context()); err != nil {
			s.writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, s.state(r, id, e))
	})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, e *entry) {
		rec := e.session.Sequencer().Result()
		if rec == nil {
			s.writeError(w, http.StatusNotFound, wizard.ErrNotDone)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, e *entry) {
		p, err := readPatch(w, r)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		rec, err := e.session.Compare(r.Context(), p)
		if err != nil {
			status := statusFor(err)
			if status >= http.StatusInternalServerError {
				status = http.StatusBadGateway
			}
			s.writeError(w, status, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	})
}

// statusFor maps session errors to HTTP statuses.
func statusFor(err error) int {
	var invalid *answers.InvalidPatchError
	switch {
	case errors.As(err, &invalid), errors.Is(err, wizard.ErrComparisonLocation):
		return http.StatusBadRequest
	case errors.Is(err, wizard.ErrBlocked),
		errors.Is(err, wizard.ErrSubmitting),
		errors.Is(err, wizard.ErrFirstStep),
		errors.Is(err, wizard.ErrNotAtStep),
		errors.Is(err, wizard.ErrNotSubmitting),
		errors.Is(err, wizard.ErrNotDone):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
