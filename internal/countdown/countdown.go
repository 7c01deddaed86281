// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package countdown turns the service's authoritative remaining time for a
// held reservation into a ticking display state with warning and expiry hooks.
package countdown

import (
	"context"
	"fmt"
	"sync"
	"time"

	xglog "github.com/ManuGH/reservo/internal/log"
	"github.com/ManuGH/reservo/internal/metrics"
	"github.com/ManuGH/reservo/internal/reservation"
	"github.com/rs/zerolog"
)

const (
	DefaultInterval = time.Second
	DefaultWindow   = 600 * time.Second

	// WarningSeconds is the exact reading that triggers OnOneMinuteLeft.
	WarningSeconds = 60

	loopName = "countdown"
)

// Fetcher returns the authoritative remaining time for a ticket.
type Fetcher interface {
	RemainingTime(ctx context.Context, ticketID string) (reservation.RemainingTime, error)
}

// Options configures a countdown. Callbacks run on the countdown goroutine
// and must not call Stop or Restart synchronously.
type Options struct {
	TicketID string
	Interval time.Duration
	Window   time.Duration
	// OnOneMinuteLeft fires once per loop; OnExpired fires on every reading
	// at or below zero until the handle is stopped.
	OnOneMinuteLeft func()
	OnExpired       func()
	OnTick          func(State)
	OnError         func(error)
}

// State is derived from one authoritative reading.
type State struct {
	TicketID     string    `json:"ticketId"`
	Minutes      int       `json:"minutes"`
	Seconds      int       `json:"seconds"`
	TotalSeconds int       `json:"totalSeconds"`
	Progress     float64   `json:"progress"`
	Expired      bool      `json:"expired"`
	Formatted    string    `json:"formatted"`
	Error        string    `json:"error,omitempty"`
	FetchedAt    time.Time `json:"fetchedAt,omitempty"`
	Active       bool      `json:"active"`
}

// Format renders seconds as M:SS. Negative input renders as 0:00.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Compute derives the display state for a reading against a hold window.
func Compute(remaining int, window time.Duration) State {
	clamped := remaining
	if clamped < 0 {
		clamped = 0
	}
	windowSecs := window.Seconds()
	if windowSecs <= 0 {
		windowSecs = DefaultWindow.Seconds()
	}
	progress := float64(clamped) / windowSecs * 100
	if progress > 100 {
		progress = 100
	}
	return State{
		Minutes:      clamped / 60,
		Seconds:      clamped % 60,
		TotalSeconds: clamped,
		Progress:     progress,
		Expired:      remaining <= 0,
		Formatted:    Format(clamped),
	}
}

// Handle owns one countdown loop.
type Handle struct {
	fetcher Fetcher
	opts    Options
	parent  context.Context
	logger  zerolog.Logger
	ctl     sync.Mutex

	mu     sync.Mutex
	state  State
	warned bool
	cancel context.CancelFunc
	done   chan struct{}
}

// Start fetches immediately and then once per interval until Stop or ctx
// cancellation. An empty TicketID yields an inert handle.
func Start(ctx context.Context, fetcher Fetcher, opts Options) *Handle {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	h := &Handle{
		fetcher: fetcher,
		opts:    opts,
		parent:  ctx,
		state:   State{TicketID: opts.TicketID, Formatted: Format(0)},
	}
	h.logger = xglog.WithComponentFromContext(ctx, "countdown").With().
		Str(xglog.FieldTicketID, opts.TicketID).Logger()

	if opts.TicketID == "" {
		closed := make(chan struct{})
		close(closed)
		h.done = closed
		return h
	}
	h.mu.Lock()
	h.startLocked()
	h.mu.Unlock()
	return h
}

func (h *Handle) startLocked() {
	ctx, cancel := context.WithCancel(h.parent)
	done := make(chan struct{})
	h.cancel = cancel
	h.done = done
	h.state.Active = true
	go h.run(ctx, done)
}

func (h *Handle) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	metrics.IncActivePollers(loopName)
	defer metrics.DecActivePollers(loopName)

	ticker := time.NewTicker(h.opts.Interval)
	defer ticker.Stop()

	h.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.tick(ctx)
		}
	}
}

func (h *Handle) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	rt, err := h.fetcher.RemainingTime(ctx, h.opts.TicketID)
	if ctx.Err() != nil {
		return
	}
	metrics.RecordPoll(loopName, err)

	if err != nil {
		h.mu.Lock()
		h.state.Error = reservation.MessageOf(err)
		h.mu.Unlock()
		h.logger.Warn().Err(err).Str(xglog.FieldEvent, "countdown.fetch_failed").Msg("remaining time fetch failed")
		if h.opts.OnError != nil {
			h.opts.OnError(err)
		}
		return
	}

	next := Compute(rt.RemainingSeconds, h.opts.Window)
	next.TicketID = h.opts.TicketID
	next.FetchedAt = time.Now()
	next.Active = true

	h.mu.Lock()
	warn := rt.RemainingSeconds == WarningSeconds && !h.warned
	if warn {
		h.warned = true
	}
	h.state = next
	h.mu.Unlock()

	if h.opts.OnTick != nil {
		h.opts.OnTick(next)
	}
	if warn {
		h.logger.Info().Str(xglog.FieldEvent, "countdown.one_minute_left").Msg("one minute left on the hold")
		if h.opts.OnOneMinuteLeft != nil {
			h.opts.OnOneMinuteLeft()
		}
	}
	if next.Expired {
		metrics.RecordExpiredTick()
		h.logger.Debug().Int(xglog.FieldRemainingSeconds, rt.RemainingSeconds).
			Str(xglog.FieldEvent, "countdown.expired").Msg("hold expired")
		if h.opts.OnExpired != nil {
			h.opts.OnExpired()
		}
	}
}

// State returns the latest derived state.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// TicketID returns the ticket this handle tracks.
func (h *Handle) TicketID() string { return h.opts.TicketID }

// Stop cancels the loop and waits for it to exit. Safe to call repeatedly.
func (h *Handle) Stop() {
	h.ctl.Lock()
	defer h.ctl.Unlock()
	h.stop()
}

func (h *Handle) stop() {
	h.mu.Lock()
	cancel, done := h.cancel, h.done
	h.cancel = nil
	h.state.Active = false
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Restart clears the one-minute flag and starts exactly one new loop that
// fetches immediately.
func (h *Handle) Restart() {
	if h.opts.TicketID == "" {
		return
	}
	h.ctl.Lock()
	defer h.ctl.Unlock()
	h.stop()
	h.mu.Lock()
	h.warned = false
	if h.parent.Err() == nil {
		h.startLocked()
	}
	h.mu.Unlock()
}

// Done is closed once the current loop has exited.
func (h *Handle) Done() <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.done
}
