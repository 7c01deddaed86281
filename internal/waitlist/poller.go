// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package waitlist keeps a polled view of the caller's waiting-list
// membership for one event and reports promotion out of the queue.
package waitlist

import (
	"context"
	"errors"
	"sync"
	"time"

	xglog "github.com/ManuGH/reservo/internal/log"
	"github.com/ManuGH/reservo/internal/metrics"
	"github.com/ManuGH/reservo/internal/reservation"
	"github.com/rs/zerolog"
)

// DefaultPollingInterval applies when Options.PollingInterval is zero.
const DefaultPollingInterval = 30 * time.Second

const loopName = "waitlist"

// ErrDisabled is returned by actions on a handle started without an event.
var ErrDisabled = errors.New("waitlist: poller has no event id")

// Fetcher is the slice of the reservation client the poller needs.
type Fetcher interface {
	WaitingListStatus(ctx context.Context, eventID string) (reservation.WaitingListStatus, error)
	LeaveWaitingList(ctx context.Context, eventID string) (reservation.LeaveResult, error)
}

// Options configures a poller. Callbacks run on the poll goroutine (or the
// LeaveQueue caller) and must not call Stop or Restart synchronously.
type Options struct {
	EventID         string
	PollingInterval time.Duration
	OnPromoted      func()
	OnError         func(error)
	OnStatus        func(Status)
}

// Status is the last known queue membership. Each successful poll replaces
// it entirely; a failed poll only sets Error.
type Status struct {
	EventID      string     `json:"eventId"`
	InQueue      bool       `json:"inQueue"`
	Position     *int       `json:"position,omitempty"`
	TotalInQueue *int       `json:"totalInQueue,omitempty"`
	AddedAt      *time.Time `json:"addedAt,omitempty"`
	Loading      bool       `json:"loading"`
	Error        string     `json:"error,omitempty"`
	PolledAt     time.Time  `json:"polledAt,omitempty"`
	Active       bool       `json:"active"`
}

func (s Status) clone() Status {
	if s.Position != nil {
		v := *s.Position
		s.Position = &v
	}
	if s.TotalInQueue != nil {
		v := *s.TotalInQueue
		s.TotalInQueue = &v
	}
	if s.AddedAt != nil {
		v := *s.AddedAt
		s.AddedAt = &v
	}
	return s
}

// LeaveResult reports a voluntary exit attempt.
type LeaveResult struct {
	Success bool
	Error   error
}

// PollHandle owns one polling loop. The zero value is not usable; use Start.
type PollHandle struct {
	fetcher Fetcher
	opts    Options
	parent  context.Context
	logger  zerolog.Logger
	refresh chan struct{}
	ctl     sync.Mutex // serializes Stop and Restart

	mu         sync.Mutex
	status     Status
	wasInQueue bool
	leaveSeq   uint64
	cancel     context.CancelFunc
	done       chan struct{}
}

// Start activates polling: one poll immediately, then one per interval until
// Stop or ctx cancellation. An empty EventID yields an inert handle.
func Start(ctx context.Context, fetcher Fetcher, opts Options) *PollHandle {
	if opts.PollingInterval <= 0 {
		opts.PollingInterval = DefaultPollingInterval
	}
	h := &PollHandle{
		fetcher: fetcher,
		opts:    opts,
		parent:  ctx,
		refresh: make(chan struct{}, 1),
		status:  Status{EventID: opts.EventID},
	}
	h.logger = xglog.WithComponentFromContext(ctx, "waitlist").With().
		Str(xglog.FieldEventID, opts.EventID).Logger()

	if opts.EventID == "" {
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

func (h *PollHandle) startLocked() {
	// A Refresh sent while no loop ran is covered by the immediate poll.
	select {
	case <-h.refresh:
	default:
	}
	ctx, cancel := context.WithCancel(h.parent)
	done := make(chan struct{})
	h.cancel = cancel
	h.done = done
	h.status.Active = true
	go h.run(ctx, done)
}

func (h *PollHandle) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	metrics.IncActivePollers(loopName)
	defer metrics.DecActivePollers(loopName)

	ticker := time.NewTicker(h.opts.PollingInterval)
	defer ticker.Stop()

	h.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.poll(ctx)
		case <-h.refresh:
			h.poll(ctx)
		}
	}
}

func (h *PollHandle) poll(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	h.mu.Lock()
	h.status.Loading = true
	seq := h.leaveSeq
	h.mu.Unlock()

	st, err := h.fetcher.WaitingListStatus(ctx, h.opts.EventID)

	h.mu.Lock()
	h.status.Loading = false
	if ctx.Err() != nil {
		h.mu.Unlock()
		return
	}
	metrics.RecordPoll(loopName, err)

	if err != nil {
		h.status.Error = reservation.MessageOf(err)
		snap := h.status.clone()
		h.mu.Unlock()
		h.logger.Warn().Err(err).Str(xglog.FieldEvent, "waitlist.poll_failed").Msg("waiting-list poll failed")
		if h.opts.OnError != nil {
			h.opts.OnError(err)
		}
		h.emit(snap)
		return
	}

	if seq != h.leaveSeq {
		// A leave landed while this poll was in flight; its answer predates it.
		h.mu.Unlock()
		return
	}

	promoted := h.wasInQueue && !st.InQueue
	h.wasInQueue = st.InQueue
	h.status = Status{
		EventID:      h.opts.EventID,
		InQueue:      st.InQueue,
		Position:     st.Position,
		TotalInQueue: st.TotalInQueue,
		AddedAt:      st.AddedAt,
		PolledAt:     time.Now(),
		Active:       true,
	}
	snap := h.status.clone()
	h.mu.Unlock()

	ev := h.logger.Debug().Bool(xglog.FieldInQueue, st.InQueue)
	if st.Position != nil {
		ev = ev.Int(xglog.FieldPosition, *st.Position)
	}
	ev.Str(xglog.FieldEvent, "waitlist.polled").Msg("waiting-list status")
	h.emit(snap)

	if promoted {
		metrics.RecordPromotion()
		h.logger.Info().Str(xglog.FieldEvent, "waitlist.promoted").Msg("left the waiting list by promotion")
		if h.opts.OnPromoted != nil {
			h.opts.OnPromoted()
		}
	}
}

func (h *PollHandle) emit(s Status) {
	if h.opts.OnStatus != nil {
		h.opts.OnStatus(s)
	}
}

// Status returns a copy of the current view.
func (h *PollHandle) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status.clone()
}

// EventID returns the event this handle polls.
func (h *PollHandle) EventID() string { return h.opts.EventID }

// Refresh requests an immediate poll. It never blocks.
func (h *PollHandle) Refresh() {
	select {
	case h.refresh <- struct{}{}:
	default:
	}
}

// LeaveQueue exits the queue. Only a confirmed success flips InQueue to false,
// and it does so before returning.
func (h *PollHandle) LeaveQueue(ctx context.Context) LeaveResult {
	if h.opts.EventID == "" {
		return LeaveResult{Error: ErrDisabled}
	}
	res, err := h.fetcher.LeaveWaitingList(ctx, h.opts.EventID)
	if err == nil && !res.Success {
		err = &reservation.Error{Kind: reservation.KindRejected, Operation: reservation.OpLeaveWaitingList, Message: res.Message}
	}
	if err != nil {
		h.mu.Lock()
		h.status.Error = reservation.MessageOf(err)
		h.mu.Unlock()
		h.logger.Warn().Err(err).Str(xglog.FieldEvent, "waitlist.leave_failed").Msg("leaving the waiting list failed")
		if h.opts.OnError != nil {
			h.opts.OnError(err)
		}
		return LeaveResult{Success: false, Error: err}
	}

	h.mu.Lock()
	h.leaveSeq++
	h.wasInQueue = false
	h.status.InQueue = false
	h.status.Position = nil
	h.status.TotalInQueue = nil
	h.status.AddedAt = nil
	h.status.Error = ""
	snap := h.status.clone()
	h.mu.Unlock()

	h.logger.Info().Str(xglog.FieldEvent, "waitlist.left").Msg("left the waiting list")
	h.emit(snap)
	return LeaveResult{Success: true}
}

// Stop cancels the loop and waits for it to exit. After Stop returns no
// further fetch starts. Safe to call repeatedly.
func (h *PollHandle) Stop() {
	h.ctl.Lock()
	defer h.ctl.Unlock()
	h.stop()
}

func (h *PollHandle) stop() {
	h.mu.Lock()
	cancel, done := h.cancel, h.done
	h.cancel = nil
	h.status.Active = false
	h.status.Loading = false
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Restart stops the current loop, if any, and starts exactly one new loop
// with an immediate poll. A loop stopped before its first poll never makes
// it, so back-to-back restarts share a single fetch.
func (h *PollHandle) Restart() {
	if h.opts.EventID == "" {
		return
	}
	h.ctl.Lock()
	defer h.ctl.Unlock()
	h.stop()
	h.mu.Lock()
	if h.parent.Err() == nil {
		h.startLocked()
	}
	h.mu.Unlock()
}

// Done is closed once the current loop has exited.
func (h *PollHandle) Done() <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.done
}
