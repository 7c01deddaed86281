// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package flow sequences the reserve, pay and cancel operations against the
// reservation service and owns the resulting state and reservation record.
package flow

import (
	"context"
	"strings"
	"sync"
	"time"

	xglog "github.com/ManuGH/reservo/internal/log"
	"github.com/ManuGH/reservo/internal/metrics"
	"github.com/ManuGH/reservo/internal/reservation"
	"github.com/ManuGH/reservo/internal/telemetry"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Operation labels for outcome metrics.
const (
	opReserve = "check_and_reserve"
	opPayment = "process_payment"
	opCancel  = "cancel_reservation"
)

// Controller is one user's reservation flow. Safe for concurrent use.
type Controller struct {
	api    reservation.API
	id     string
	now    func() time.Time
	logger zerolog.Logger

	mu            sync.Mutex
	state         State
	errMsg        string
	errKind       reservation.ErrorKind
	record        *reservation.ReservationRecord
	inWaitingList bool
	eventID       string
	availability  *reservation.SpotAvailability
	updatedAt     time.Time
	gen           uint64

	obsMu     sync.RWMutex
	observers map[int]Observer
	nextObs   int
}

// Option configures a Controller.
type Option func(*Controller)

// WithFlowID overrides the generated flow id.
func WithFlowID(id string) Option {
	return func(c *Controller) {
		if id != "" {
			c.id = id
		}
	}
}

// WithClock overrides time.Now for snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithObserver registers an observer before the first transition.
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.subscribe(o) }
}

// New returns an idle controller using api for remote calls.
func New(api reservation.API, opts ...Option) *Controller {
	c := &Controller{
		api:       api,
		id:        uuid.NewString(),
		now:       time.Now,
		state:     StateIdle,
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.updatedAt = c.now()
	c.logger = xglog.Derive(func(zc *zerolog.Context) {
		*zc = zc.Str(xglog.FieldComponent, "flow").Str(xglog.FieldFlowID, c.id)
	})
	return c
}

// ID returns the flow id used in logs and the journal.
func (c *Controller) ID() string { return c.id }

// CheckAndReserve runs the advisory spot check and then always attempts the
// reservation. It settles in reserved, waitingList or error. Landing on the
// waiting list is not an error; hard failures are returned.
func (c *Controller) CheckAndReserve(ctx context.Context, eventID string, userType reservation.UserType) error {
	if strings.TrimSpace(eventID) == "" {
		return ErrInvalidEvent
	}
	if !userType.Valid() {
		return ErrInvalidUserType
	}

	c.mu.Lock()
	if c.state.InFlight() {
		c.mu.Unlock()
		metrics.RecordFlowOutcome(opReserve, "in_flight")
		return ErrInFlight
	}
	ch, err := c.applyLocked(ctx, EvCheckRequested, func() {
		c.eventID = eventID
		c.errMsg = ""
		c.errKind = reservation.KindUnknown
		c.availability = nil
	})
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.gen++
	gen := c.gen
	c.mu.Unlock()
	c.notify(ch)

	logger := xglog.WithContext(ctx, c.logger).With().
		Str(xglog.FieldEventID, eventID).
		Str(xglog.FieldUserType, string(userType)).
		Logger()

	avail, cerr := c.api.CheckSpot(ctx, eventID)
	if cerr != nil {
		logger.Warn().Err(cerr).Str(xglog.FieldEvent, "flow.check_failed").Msg("advisory spot check failed, reserving anyway")
	} else {
		logger.Debug().Bool("is_available", avail.IsAvailable).Str(xglog.FieldEvent, "flow.checked").Msg("advisory spot check")
	}
	if err := c.advance(ctx, gen, EvSpotChecked, func() {
		if cerr == nil {
			a := avail
			c.availability = &a
		}
	}); err != nil {
		return err
	}

	rec, err := c.api.ReserveSpot(ctx, eventID, userType)
	if err != nil {
		return c.fail(ctx, gen, opReserve, err, false)
	}

	if err := c.advance(ctx, gen, EvReserved, func() {
		r := rec
		c.record = &r
		c.inWaitingList = false
		c.errMsg = ""
		c.errKind = reservation.KindUnknown
	}); err != nil {
		return err
	}
	metrics.RecordFlowOutcome(opReserve, "reserved")
	logger.Info().Str(xglog.FieldSpotID, rec.SpotID).Str(xglog.FieldEvent, "flow.reserved").Msg("spot reserved")
	return nil
}

// ProcessPayment settles the held spot. "Pago" or "paid" completes the flow
// and discards the record; any other status returns to reserved with the
// record kept. Failures are classified like reservations and always returned.
func (c *Controller) ProcessPayment(ctx context.Context, req reservation.PaymentRequest) (reservation.PaymentResponse, error) {
	c.mu.Lock()
	if c.state.InFlight() {
		c.mu.Unlock()
		metrics.RecordFlowOutcome(opPayment, "in_flight")
		return reservation.PaymentResponse{}, ErrInFlight
	}
	if c.record != nil {
		if req.SpotID == "" {
			req.SpotID = c.record.SpotID
		}
		if req.EventID == "" {
			req.EventID = c.record.EventID
		}
		if req.Email == "" {
			req.Email = c.record.Email
		}
	}
	if req.SpotID == "" {
		c.mu.Unlock()
		return reservation.PaymentResponse{}, ErrNoReservation
	}
	ch, err := c.applyLocked(ctx, EvPaymentStarted, func() {
		if req.EventID != "" {
			c.eventID = req.EventID
		}
		c.errMsg = ""
		c.errKind = reservation.KindUnknown
	})
	if err != nil {
		c.mu.Unlock()
		return reservation.PaymentResponse{}, err
	}
	c.gen++
	gen := c.gen
	c.mu.Unlock()
	c.notify(ch)

	resp, err := c.api.ProcessPayment(ctx, req)
	if err != nil {
		_ = c.fail(ctx, gen, opPayment, err, true)
		return reservation.PaymentResponse{}, err
	}

	logger := xglog.WithContext(ctx, c.logger)
	if resp.Paid() {
		if err := c.advance(ctx, gen, EvPaid, func() { c.record = nil }); err != nil {
			return resp, err
		}
		metrics.RecordFlowOutcome(opPayment, "completed")
		logger.Info().Str(xglog.FieldSpotID, req.SpotID).Str(xglog.FieldEvent, "flow.paid").Msg("payment settled")
		return resp, nil
	}

	if err := c.advance(ctx, gen, EvPaymentPending, nil); err != nil {
		return resp, err
	}
	metrics.RecordFlowOutcome(opPayment, "pending")
	logger.Info().Str(xglog.FieldSpotID, req.SpotID).Str(xglog.FieldStatus, resp.Status).
		Str(xglog.FieldEvent, "flow.payment_pending").Msg("payment not settled yet")
	return resp, nil
}

// CancelReservation releases ticketID, or the held record when ticketID is
// empty. A remote failure is returned and leaves the state untouched.
func (c *Controller) CancelReservation(ctx context.Context, ticketID string) error {
	c.mu.Lock()
	if c.state.InFlight() {
		c.mu.Unlock()
		metrics.RecordFlowOutcome(opCancel, "in_flight")
		return ErrInFlight
	}
	if ticketID == "" && c.record != nil {
		ticketID = c.record.SpotID
	}
	if ticketID == "" {
		c.mu.Unlock()
		return ErrNoReservation
	}
	if _, ok := TransitionFor(c.state, EvCancelled); !ok {
		err := c.illegalLocked(EvCancelled)
		c.mu.Unlock()
		return err
	}
	gen := c.gen
	c.mu.Unlock()

	if err := c.api.CancelReservation(ctx, ticketID); err != nil {
		metrics.RecordFlowOutcome(opCancel, "error")
		return err
	}

	if err := c.advance(ctx, gen, EvCancelled, func() {
		c.record = nil
		c.inWaitingList = false
		c.errMsg = ""
		c.errKind = reservation.KindUnknown
		c.availability = nil
	}); err != nil {
		return err
	}
	metrics.RecordFlowOutcome(opCancel, "cancelled")
	return nil
}

// Reset drops all controller-owned state. It makes no remote calls; results
// of operations still in flight are discarded when they land.
func (c *Controller) Reset() {
	c.mu.Lock()
	from := c.state
	c.gen++
	c.state = StateIdle
	c.errMsg = ""
	c.errKind = reservation.KindUnknown
	c.record = nil
	c.inWaitingList = false
	c.eventID = ""
	c.availability = nil
	c.updatedAt = c.now()
	ch := Change{From: from, To: StateIdle, Event: EvReset, Snapshot: c.snapshotLocked()}
	c.mu.Unlock()

	c.logTransition(context.Background(), ch)
	c.notify(&ch)
}

// fail classifies err and settles the flow. clearRecord drops the hold when
// the service moved the user to the waiting list.
func (c *Controller) fail(ctx context.Context, gen uint64, op string, err error, clearRecord bool) error {
	kind := reservation.KindOf(err)
	msg := reservation.MessageOf(err)

	if kind == reservation.KindWaitingList {
		if aerr := c.advance(ctx, gen, EvQueued, func() {
			c.inWaitingList = true
			c.errMsg = msg
			c.errKind = kind
			if clearRecord {
				c.record = nil
			}
		}); aerr != nil {
			return aerr
		}
		metrics.RecordFlowOutcome(op, "waiting_list")
		return nil
	}

	if aerr := c.advance(ctx, gen, EvFailed, func() {
		c.errMsg = msg
		c.errKind = kind
	}); aerr != nil {
		return aerr
	}
	metrics.RecordFlowOutcome(op, "error")
	return err
}

// advance applies ev unless the operation that owns gen was superseded.
func (c *Controller) advance(ctx context.Context, gen uint64, ev EventKind, mutate func()) error {
	c.mu.Lock()
	if c.gen != gen {
		state := c.state
		c.mu.Unlock()
		c.logger.Debug().Str("event_kind", string(ev)).Str("state", string(state)).
			Str(xglog.FieldEvent, "flow.superseded").Msg("discarding stale result")
		return ErrSuperseded
	}
	ch, err := c.applyLocked(ctx, ev, mutate)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify(ch)
	return nil
}

// applyLocked looks ev up in the transition table and applies it.
// Caller must hold c.mu and call notify with the result after unlocking.
func (c *Controller) applyLocked(ctx context.Context, ev EventKind, mutate func()) (*Change, error) {
	tr, ok := TransitionFor(c.state, ev)
	if !ok {
		return nil, c.illegalLocked(ev)
	}
	if mutate != nil {
		mutate()
	}
	c.state = tr.To
	c.updatedAt = c.now()
	ch := &Change{From: tr.From, To: tr.To, Event: ev, Snapshot: c.snapshotLocked()}
	c.logTransition(ctx, *ch)
	return ch, nil
}

func (c *Controller) illegalLocked(ev EventKind) error {
	metrics.RecordIllegalTransition(string(c.state), string(ev))
	c.logger.Warn().
		Str(xglog.FieldOldState, string(c.state)).
		Str("event_kind", string(ev)).
		Str(xglog.FieldEvent, "flow.illegal_transition").
		Msg("transition rejected")
	return &IllegalTransitionError{From: c.state, Event: ev}
}

// logTransition records ch as a metric, a log line and an event on the span
// carried by ctx, if any.
func (c *Controller) logTransition(ctx context.Context, ch Change) {
	metrics.RecordFlowTransition(string(ch.From), string(ch.To))
	trace.SpanFromContext(ctx).AddEvent("flow.transition", trace.WithAttributes(
		append(telemetry.FlowTransitionAttributes(c.id, string(ch.From), string(ch.To)),
			attribute.String("flow.event", string(ch.Event)))...,
	))
	ev := c.logger.Info()
	if ch.To == StateError {
		ev = c.logger.Warn().Str("error", ch.Snapshot.Error)
	}
	ev.Str(xglog.FieldEvent, "flow.transition").
		Str(xglog.FieldOldState, string(ch.From)).
		Str(xglog.FieldNewState, string(ch.To)).
		Str("event_kind", string(ch.Event)).
		Str(xglog.FieldEventID, ch.Snapshot.EventID).
		Msg("flow transition")
}
