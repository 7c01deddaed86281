// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ManuGH/reservo/internal/auth"
	"github.com/ManuGH/reservo/internal/countdown"
	"github.com/ManuGH/reservo/internal/flow"
	xglog "github.com/ManuGH/reservo/internal/log"
	"github.com/ManuGH/reservo/internal/metrics"
	"github.com/ManuGH/reservo/internal/reservation"
	"github.com/ManuGH/reservo/internal/waitlist"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HeaderSessionID identifies the browser session on every /api call.
const HeaderSessionID = "X-Session-ID"

const maxNotices = 32

// Notice kinds pushed to the front-end.
const (
	NoticePromoted      = "waitlist.promoted"
	NoticeOneMinuteLeft = "countdown.one_minute_left"
	NoticeExpired       = "countdown.expired"
	NoticeRetryFailed   = "flow.retry_failed"
)

// Session owns one browser's flow controller and its background loops.
type Session struct {
	ID   string
	Flow *flow.Controller

	tokens *auth.Holder
	ctx    context.Context
	cancel context.CancelFunc
	logger zerolog.Logger

	lastSeen atomic.Int64
	unsub    func()

	mu        sync.Mutex
	userType  reservation.UserType
	waitlist  *waitlist.PollHandle
	countdown *countdown.Handle
	notices   []Notice

	// retries tracks promotion-triggered CheckAndReserve calls.
	retries sync.WaitGroup
	closed  atomic.Bool
}

// Context is cancelled when the session is removed. It carries the
// session's token holder for background upstream calls.
func (s *Session) Context() context.Context { return s.ctx }

func (s *Session) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

func (s *Session) setUserType(ut reservation.UserType) {
	s.mu.Lock()
	s.userType = ut
	s.mu.Unlock()
}

func (s *Session) lastUserType() reservation.UserType {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userType == "" {
		return reservation.UserClient
	}
	return s.userType
}

func (s *Session) notify(kind, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.notices); n > 0 && s.notices[n-1].Kind == kind && s.notices[n-1].Message == msg {
		return
	}
	s.notices = append(s.notices, Notice{Kind: kind, Message: msg, At: time.Now()})
	if len(s.notices) > maxNotices {
		s.notices = s.notices[len(s.notices)-maxNotices:]
	}
}

// drainNotices returns and clears pending notices.
func (s *Session) drainNotices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notices
	s.notices = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}

// replaceWaitlist installs h and stops the previous poller, if any.
func (s *Session) replaceWaitlist(h *waitlist.PollHandle) {
	s.mu.Lock()
	old := s.waitlist
	s.waitlist = h
	if s.closed.Load() {
		s.waitlist = nil
	}
	s.mu.Unlock()
	if old != nil {
		old.Stop()
	}
	if h != nil && s.closed.Load() {
		h.Stop()
	}
}

func (s *Session) currentWaitlist() *waitlist.PollHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waitlist
}

func (s *Session) replaceCountdown(h *countdown.Handle) {
	s.mu.Lock()
	old := s.countdown
	s.countdown = h
	if s.closed.Load() {
		s.countdown = nil
	}
	s.mu.Unlock()
	if old != nil {
		old.Stop()
	}
	if h != nil && s.closed.Load() {
		h.Stop()
	}
}

func (s *Session) currentCountdown() *countdown.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countdown
}

// retryReservation runs CheckAndReserve in the background after a
// promotion. Called from the poller goroutine, which must not block on it.
func (s *Session) retryReservation(eventID string) {
	if s.closed.Load() {
		return
	}
	ut := s.lastUserType()
	s.retries.Add(1)
	go func() {
		defer s.retries.Done()
		if err := s.Flow.CheckAndReserve(s.ctx, eventID, ut); err != nil {
			s.logger.Warn().Err(err).Str(xglog.FieldEvent, "flow.retry_failed").Msg("reservation retry after promotion failed")
			s.notify(NoticeRetryFailed, reservation.MessageOf(err))
		}
	}()
}

// close stops both loops, waits for in-flight retries and releases the
// controller subscription. Safe to call repeatedly.
func (s *Session) close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.cancel()
	s.replaceWaitlist(nil)
	s.replaceCountdown(nil)
	s.retries.Wait()
	if s.unsub != nil {
		s.unsub()
	}
}

// Registry maps session IDs to live sessions and reaps idle ones.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	base      context.Context
	idle      time.Duration
	now       func() time.Time
	newFlow   func(id string) *flow.Controller
	observers []flow.Observer
	logger    zerolog.Logger
}

// NewRegistry creates a registry. Session contexts derive from base.
func NewRegistry(base context.Context, idle time.Duration, upstream reservation.API, observers ...flow.Observer) *Registry {
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	return &Registry{
		sessions:  make(map[string]*Session),
		base:      base,
		idle:      idle,
		now:       time.Now,
		observers: observers,
		newFlow: func(id string) *flow.Controller {
			return flow.New(upstream, flow.WithFlowID(id))
		},
		logger: xglog.WithComponent("sessions"),
	}
}

// Create opens a new session with a fresh flow controller.
func (r *Registry) Create() *Session {
	id := uuid.NewString()
	holder := &auth.Holder{}
	ctx := auth.ContextWithSource(r.base, holder)
	ctx = xglog.ContextWithSessionID(ctx, id)
	ctx, cancel := context.WithCancel(ctx)

	s := &Session{
		ID:     id,
		Flow:   r.newFlow(uuid.NewString()),
		tokens: holder,
		ctx:    ctx,
		cancel: cancel,
		logger: r.logger.With().Str(xglog.FieldSessionID, id).Logger(),
	}
	var unsubs []func()
	for _, o := range r.observers {
		unsubs = append(unsubs, s.Flow.Subscribe(o))
	}
	s.unsub = func() {
		for _, u := range unsubs {
			u()
		}
	}
	s.touch(r.now())

	r.mu.Lock()
	r.sessions[id] = s
	n := len(r.sessions)
	r.mu.Unlock()

	metrics.SetActiveFlows(n)
	s.logger.Info().
		Str(xglog.FieldEvent, "session.created").
		Str(xglog.FieldFlowID, s.Flow.ID()).
		Msg("session created")
	return s
}

// Get returns the session and marks it as used.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		s.touch(r.now())
	}
	return s, ok
}

// Remove closes and forgets the session.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()
	if !ok {
		return false
	}
	s.close()
	metrics.SetActiveFlows(n)
	return true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes sessions idle for longer than the idle timeout.
func (r *Registry) Sweep() int {
	now := r.now()
	r.mu.Lock()
	var stale []*Session
	for id, s := range r.sessions {
		if s.idleSince(now) > r.idle {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	for _, s := range stale {
		s.close()
		s.logger.Info().Str(xglog.FieldEvent, "session.reaped").Msg("idle session removed")
	}
	if len(stale) > 0 {
		metrics.SetActiveFlows(n)
	}
	return len(stale)
}

// Run sweeps on a ticker until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	interval := r.idle / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// CloseAll closes every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		all = append(all, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	for _, s := range all {
		s.close()
	}
	metrics.SetActiveFlows(0)
}
