// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package reservation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ManuGH/reservo/internal/auth"
	xglog "github.com/ManuGH/reservo/internal/log"
	"github.com/ManuGH/reservo/internal/metrics"
	"github.com/ManuGH/reservo/internal/platform/httpx"
	"github.com/ManuGH/reservo/internal/resilience"
	"github.com/ManuGH/reservo/internal/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// Operation names, used for spans, metrics and error context.
const (
	OpCheckSpot         = "check_spot"
	OpReserveSpot       = "reserve_spot"
	OpRemainingTime     = "remaining_time"
	OpWaitingListStatus = "waiting_list_status"
	OpLeaveWaitingList  = "leave_waiting_list"
	OpProcessPayment    = "process_payment"
	OpCancelReservation = "cancel_reservation"
)

const (
	defaultTimeout        = 10 * time.Second
	defaultRetries        = 2
	defaultBackoff        = 200 * time.Millisecond
	defaultMaxBackoff     = 2 * time.Second
	defaultRateLimit      = 10
	defaultRateLimitBurst = 20
	maxResponseBytes      = 1 << 20
)

// API is the surface of the remote reservation service used by the flow,
// waiting-list and countdown packages. *Client implements it.
type API interface {
	CheckSpot(ctx context.Context, eventID string) (SpotAvailability, error)
	ReserveSpot(ctx context.Context, eventID string, userType UserType) (ReservationRecord, error)
	RemainingTime(ctx context.Context, ticketID string) (RemainingTime, error)
	WaitingListStatus(ctx context.Context, eventID string) (WaitingListStatus, error)
	LeaveWaitingList(ctx context.Context, eventID string) (LeaveResult, error)
	ProcessPayment(ctx context.Context, req PaymentRequest) (PaymentResponse, error)
	CancelReservation(ctx context.Context, ticketID string) error
}

// Options configures the reservation client.
type Options struct {
	Timeout        time.Duration
	HTTPClient     *http.Client
	Tokens         auth.TokenSource
	Breaker        *resilience.CircuitBreaker
	MaxRetries     int
	Backoff        time.Duration
	MaxBackoff     time.Duration
	RateLimit      rate.Limit
	RateLimitBurst int
	UserAgent      string
}

// Client talks JSON over HTTP to the reservation service.
type Client struct {
	baseURL    string
	http       *http.Client
	tokens     auth.TokenSource
	breaker    *resilience.CircuitBreaker
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	maxBackoff time.Duration
	userAgent  string
	rnd        *rand.Rand
	mu         sync.Mutex
}

// NewBreaker returns a circuit breaker that only counts technical failures.
// A waiting-list answer or a rejected payment never opens it.
func NewBreaker(threshold int, resetTimeout time.Duration) *resilience.CircuitBreaker {
	return resilience.NewCircuitBreaker("reservation", threshold, resetTimeout,
		resilience.WithFailureClassifier(IsTechnical))
}

// New builds a client for the service rooted at baseURL.
func New(baseURL string, opts Options) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing host", baseURL)
	}

	nopts := normalizeOptions(opts)
	httpClient := nopts.HTTPClient
	if httpClient == nil {
		httpClient = httpx.NewTracedClient(nopts.Timeout)
	}

	return &Client{
		baseURL:    trimmed,
		http:       httpClient,
		tokens:     nopts.Tokens,
		breaker:    nopts.Breaker,
		limiter:    rate.NewLimiter(nopts.RateLimit, nopts.RateLimitBurst),
		maxRetries: nopts.MaxRetries,
		backoff:    nopts.Backoff,
		maxBackoff: nopts.MaxBackoff,
		userAgent:  nopts.UserAgent,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- jitter only
	}, nil
}

func normalizeOptions(opts Options) Options {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	} else if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultRetries
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = defaultMaxBackoff
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = rate.Limit(defaultRateLimit)
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = defaultRateLimitBurst
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = "reservo/1"
	}
	return opts
}

// BaseURL returns the normalized service root.
func (c *Client) BaseURL() string { return c.baseURL }

// Breaker returns the circuit breaker guarding the client, or nil.
func (c *Client) Breaker() *resilience.CircuitBreaker { return c.breaker }

// CheckSpot asks whether a spot is free. The answer is advisory only.
func (c *Client) CheckSpot(ctx context.Context, eventID string) (SpotAvailability, error) {
	var out SpotAvailability
	err := c.do(ctx, call{
		op:         OpCheckSpot,
		method:     http.MethodGet,
		route:      "/events/{id}/check-spot",
		path:       "/events/" + url.PathEscape(eventID) + "/check-spot",
		eventID:    eventID,
		idempotent: true,
	}, &out)
	return out, err
}

// ReserveSpot places a hold. Exhausted capacity comes back as a KindWaitingList error.
func (c *Client) ReserveSpot(ctx context.Context, eventID string, userType UserType) (ReservationRecord, error) {
	var out ReservationRecord
	err := c.do(ctx, call{
		op:      OpReserveSpot,
		method:  http.MethodPost,
		route:   "/events/{id}/reserve-spot",
		path:    "/events/" + url.PathEscape(eventID) + "/reserve-spot",
		eventID: eventID,
		body:    map[string]UserType{"userType": userType},
	}, &out)
	if err != nil {
		return ReservationRecord{}, err
	}
	if out.EventID == "" {
		out.EventID = eventID
	}
	if out.UserType == "" {
		out.UserType = userType
	}
	return out, nil
}

// RemainingTime fetches the authoritative hold time for a ticket.
func (c *Client) RemainingTime(ctx context.Context, ticketID string) (RemainingTime, error) {
	var out RemainingTime
	err := c.do(ctx, call{
		op:         OpRemainingTime,
		method:     http.MethodGet,
		route:      "/reservations/{ticketId}/status",
		path:       "/reservations/" + url.PathEscape(ticketID) + "/status",
		ticketID:   ticketID,
		idempotent: true,
	}, &out)
	return out, err
}

// WaitingListStatus fetches the caller's queue membership for an event.
func (c *Client) WaitingListStatus(ctx context.Context, eventID string) (WaitingListStatus, error) {
	var out WaitingListStatus
	err := c.do(ctx, call{
		op:         OpWaitingListStatus,
		method:     http.MethodGet,
		route:      "/events/{id}/waiting-list/status",
		path:       "/events/" + url.PathEscape(eventID) + "/waiting-list/status",
		eventID:    eventID,
		idempotent: true,
	}, &out)
	return out, err
}

// LeaveWaitingList removes the caller from the queue. An explicit
// success=false answer is returned as a KindRejected error.
func (c *Client) LeaveWaitingList(ctx context.Context, eventID string) (LeaveResult, error) {
	var out LeaveResult
	err := c.do(ctx, call{
		op:      OpLeaveWaitingList,
		method:  http.MethodPost,
		route:   "/events/{id}/waiting-list/leave",
		path:    "/events/" + url.PathEscape(eventID) + "/waiting-list/leave",
		eventID: eventID,
	}, &out)
	if err != nil {
		return LeaveResult{}, err
	}
	if !out.Success {
		return out, &Error{Kind: KindRejected, Operation: OpLeaveWaitingList, Message: out.Message}
	}
	return out, nil
}

// ProcessPayment settles a held spot. The caller inspects PaymentResponse.Paid.
func (c *Client) ProcessPayment(ctx context.Context, req PaymentRequest) (PaymentResponse, error) {
	var out PaymentResponse
	err := c.do(ctx, call{
		op:       OpProcessPayment,
		method:   http.MethodPost,
		route:    "/payments",
		path:     "/payments",
		eventID:  req.EventID,
		ticketID: req.SpotID,
		body:     req,
	}, &out)
	return out, err
}

// CancelReservation releases a held spot.
func (c *Client) CancelReservation(ctx context.Context, ticketID string) error {
	return c.do(ctx, call{
		op:       OpCancelReservation,
		method:   http.MethodPost,
		route:    "/reservations/{ticketId}/cancel",
		path:     "/reservations/" + url.PathEscape(ticketID) + "/cancel",
		ticketID: ticketID,
	}, nil)
}

type call struct {
	op         string
	method     string
	route      string
	path       string
	eventID    string
	ticketID   string
	body       any
	idempotent bool
}

func (c *Client) do(ctx context.Context, rc call, out any) error {
	ctx, span := telemetry.StartClientSpan(ctx, rc.op, rc.eventID, rc.ticketID)
	defer span.End()

	var err error
	if c.breaker != nil {
		err = c.breaker.Execute(func() error { return c.roundTrip(ctx, span, rc, out) })
		if errors.Is(err, resilience.ErrCircuitOpen) {
			err = &Error{Kind: KindTransport, Operation: rc.op, Err: err}
		}
	} else {
		err = c.roundTrip(ctx, span, rc, out)
	}

	if err != nil {
		kind := KindOf(err)
		metrics.RecordUpstreamError(rc.op, kind.String())
		span.SetAttributes(telemetry.ErrorAttributes(kind.String())...)
		span.RecordError(err)
		span.SetStatus(codes.Error, kind.String())
		logger := xglog.WithComponentFromContext(ctx, "reservation")
		logger.Debug().
			Str(xglog.FieldOperation, rc.op).
			Str("kind", kind.String()).
			Err(err).
			Msg("reservation call failed")
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func (c *Client) roundTrip(ctx context.Context, span trace.Span, rc call, out any) error {
	var payload []byte
	if rc.body != nil {
		b, err := json.Marshal(rc.body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", rc.op, err)
		}
		payload = b
	}

	maxAttempts := 1
	if rc.idempotent {
		maxAttempts = c.maxRetries + 1
	}

	for attempt := 1; ; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return transportError(rc.op, err)
			}
		}

		req, err := c.newRequest(ctx, rc, payload)
		if err != nil {
			return err
		}

		start := time.Now()
		resp, err := c.http.Do(req)
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		retry := attempt < maxAttempts && ctx.Err() == nil && shouldRetry(status, err)
		metrics.RecordUpstreamAttempt(rc.op, status, time.Since(start), err, retry)
		span.AddEvent("attempt", trace.WithAttributes(
			attribute.Int("attempt", attempt),
			attribute.Int("http.status_code", status),
			attribute.Bool("retry", retry),
		))

		if !retry {
			if err != nil {
				return transportError(rc.op, err)
			}
			span.SetAttributes(telemetry.HTTPAttributes(rc.method, rc.route, rc.route, status)...)
			return decodeResponse(rc.op, resp, out)
		}

		if resp != nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}
		if err := sleepWithContext(ctx, c.backoffFor(attempt-1)); err != nil {
			return transportError(rc.op, err)
		}
	}
}

func (c *Client) newRequest(ctx context.Context, rc call, payload []byte) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, rc.method, c.baseURL+rc.path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", rc.op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := xglog.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, &Error{Kind: KindUnauthorized, Operation: rc.op, Err: err}
		}
		auth.SetBearer(req, token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	return req, nil
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func decodeResponse(op string, resp *http.Response, out any) error {
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return transportError(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		msg := eb.Message
		if msg == "" {
			msg = eb.Error
		}
		return &Error{
			Kind:      classifyStatus(resp.StatusCode, msg),
			Operation: op,
			Status:    resp.StatusCode,
			Message:   msg,
		}
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &Error{Kind: KindBadResponse, Operation: op, Status: resp.StatusCode, Err: io.ErrUnexpectedEOF}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindBadResponse, Operation: op, Status: resp.StatusCode, Err: err}
	}
	return nil
}

func shouldRetry(status int, err error) bool {
	if err != nil {
		return true
	}
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func (c *Client) backoffFor(attempt int) time.Duration {
	wait := c.backoff * time.Duration(1<<attempt)
	if wait > c.maxBackoff {
		wait = c.maxBackoff
	}
	c.mu.Lock()
	jitter := time.Duration(c.rnd.Int63n(int64(wait/5 + 1)))
	c.mu.Unlock()
	return wait + jitter
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
