// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package api is the local JSON API reservod exposes to the browser
// front-end. Each browser session owns one flow controller plus its
// waiting-list poller and countdown.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ManuGH/reservo/internal/api/middleware"
	"github.com/ManuGH/reservo/internal/auth"
	"github.com/ManuGH/reservo/internal/flow"
	"github.com/ManuGH/reservo/internal/health"
	"github.com/ManuGH/reservo/internal/journal"
	xglog "github.com/ManuGH/reservo/internal/log"
	"github.com/ManuGH/reservo/internal/reservation"
	"github.com/ManuGH/reservo/internal/selection"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config tunes the API surface.
type Config struct {
	Stack               middleware.StackConfig
	SessionIdleTimeout  time.Duration
	WaitingListInterval time.Duration
	CountdownInterval   time.Duration
	CountdownWindow     time.Duration
}

// Deps are the collaborators the handlers call into. Upstream is required.
type Deps struct {
	Upstream  reservation.API
	Selection *selection.Service
	Journal   *journal.Journal
	Health    *health.Manager
}

// Server serves the API and owns the session registry.
type Server struct {
	cfg      Config
	deps     Deps
	sessions *Registry
	router   chi.Router
	logger   zerolog.Logger
}

// New builds the server. Session loops derive from base and end when base
// is cancelled or Close is called.
func New(base context.Context, cfg Config, deps Deps) *Server {
	var observers []flow.Observer
	if deps.Journal != nil {
		observers = append(observers, deps.Journal.Observer())
	}
	s := &Server{
		cfg:      cfg,
		deps:     deps,
		sessions: NewRegistry(base, cfg.SessionIdleTimeout, deps.Upstream, observers...),
		logger:   xglog.WithComponent("api"),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Sessions exposes the registry, mainly for tests and diagnostics.
func (s *Server) Sessions() *Registry { return s.sessions }

// Run reaps idle sessions until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	s.sessions.Run(ctx)
	return nil
}

// Close stops every session loop.
func (s *Server) Close() {
	s.sessions.CloseAll()
}

//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen --config=oapi-codegen.yaml openapi.yaml

var _ ServerInterface = (*Server)(nil)

func (s *Server) routes() chi.Router {
	r := middleware.NewRouter(s.cfg.Stack)

	if s.deps.Health != nil {
		r.Get("/healthz", s.deps.Health.ServeHealth)
		r.Get("/readyz", s.deps.Health.ServeReady)
	}

	HandlerWithOptions(s, ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: s.bindError,
	})
	return r
}

// bindError answers parameter binding failures from the generated wrapper.
func (s *Server) bindError(w http.ResponseWriter, r *http.Request, err error) {
	xglog.FromContext(r.Context()).Debug().Err(err).
		Str(xglog.FieldEvent, "api.bind_failed").Msg("request parameters rejected")
	var missing *RequiredHeaderError
	if errors.As(err, &missing) && missing.ParamName == HeaderSessionID {
		writeErrorCode(w, r, http.StatusBadRequest, "session_required", "missing "+HeaderSessionID+" header")
		return
	}
	var invalid *InvalidParamFormatError
	if errors.As(err, &invalid) && invalid.ParamName == HeaderSessionID {
		writeErrorCode(w, r, http.StatusBadRequest, "invalid_session", HeaderSessionID+" must be a UUID")
		return
	}
	writeErrorCode(w, r, http.StatusBadRequest, "invalid_request", err.Error())
}

// bind resolves the session named by X-Session-ID and hands the caller's
// bearer token to both the request context and the session holder used by
// background loops.
func (s *Server) bind(w http.ResponseWriter, r *http.Request, id SessionID) (*Session, *http.Request, bool) {
	sess, ok := s.sessions.Get(id.String())
	if !ok {
		writeErrorCode(w, r, http.StatusNotFound, "session_not_found", "unknown or expired session")
		return nil, nil, false
	}

	ctx := r.Context()
	if tok := auth.ExtractToken(r); tok != "" {
		sess.tokens.Set(tok)
		ctx = auth.ContextWithToken(ctx, tok)
	}
	ctx = auth.ContextWithSource(ctx, sess.tokens)
	ctx = xglog.ContextWithSessionID(ctx, sess.ID)
	ctx = xglog.ContextWithFlowID(ctx, sess.Flow.ID())
	return sess, r.WithContext(ctx), true
}

// CreateSession implements ServerInterface.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	if tok := auth.ExtractToken(r); tok != "" {
		sess.tokens.Set(tok)
	}
	id, err := uuid.Parse(sess.ID)
	if err != nil {
		s.sessions.Remove(sess.ID)
		writeErrorCode(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	w.Header().Set(HeaderSessionID, sess.ID)
	writeJSON(w, http.StatusCreated, CreateSessionResponse{SessionId: id, Flow: sess.Flow.Snapshot()})
}

// DeleteSession implements ServerInterface.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request, params DeleteSessionParams) {
	sess, _, ok := s.bind(w, r, params.XSessionID)
	if !ok {
		return
	}
	s.sessions.Remove(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

// ListNotices implements ServerInterface.
func (s *Server) ListNotices(w http.ResponseWriter, r *http.Request, params ListNoticesParams) {
	sess, _, ok := s.bind(w, r, params.XSessionID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, NoticeList{Notices: sess.drainNotices()})
}
