// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package flow

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ManuGH/reservo/internal/reservation"
	"github.com/ManuGH/reservo/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestCheckAndReserve_Preconditions(t *testing.T) {
	c := New(&fakeAPI{})
	assert.ErrorIs(t, c.CheckAndReserve(context.Background(), "  ", reservation.UserClient), ErrInvalidEvent)
	assert.ErrorIs(t, c.CheckAndReserve(context.Background(), "evt-1", "admin"), ErrInvalidUserType)
	assert.Equal(t, StateIdle, c.State())
}

func TestCheckAndReserve_RecordsTransitionsOnSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	ctx, span := tp.Tracer("flow-test").Start(context.Background(), "reserve")

	c := New(&fakeAPI{})
	require.NoError(t, c.CheckAndReserve(ctx, "evt-1", reservation.UserClient))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	var got [][2]string
	for _, ev := range ended[0].Events() {
		require.Equal(t, "flow.transition", ev.Name)
		attrs := map[string]string{}
		for _, kv := range ev.Attributes {
			attrs[string(kv.Key)] = kv.Value.Emit()
		}
		assert.Equal(t, c.ID(), attrs[telemetry.FlowIDKey])
		got = append(got, [2]string{attrs[telemetry.FlowFromStateKey], attrs[telemetry.FlowToStateKey]})
	}
	assert.Equal(t, [][2]string{
		{string(StateIdle), string(StateChecking)},
		{string(StateChecking), string(StateReserving)},
		{string(StateReserving), string(StateReserved)},
	}, got)
}

func TestCheckAndReserve_AlwaysSettles(t *testing.T) {
	cases := []struct {
		name      string
		checkErr  error
		available bool
		reserve   func(context.Context, string, reservation.UserType) (reservation.ReservationRecord, error)
		want      State
	}{
		{
			name:      "reserved",
			available: true,
			want:      StateReserved,
		},
		{
			name:     "check fails but reservation succeeds",
			checkErr: errors.New("check-spot down"),
			want:     StateReserved,
		},
		{
			name: "capacity exhausted",
			reserve: func(context.Context, string, reservation.UserType) (reservation.ReservationRecord, error) {
				return reservation.ReservationRecord{}, &reservation.Error{Kind: reservation.KindWaitingList, Message: "vagas terminaram"}
			},
			want: StateWaitingList,
		},
		{
			name: "hard rejection",
			reserve: func(context.Context, string, reservation.UserType) (reservation.ReservationRecord, error) {
				return reservation.ReservationRecord{}, &reservation.Error{Kind: reservation.KindRejected, Message: "Evento encerrado"}
			},
			want: StateError,
		},
		{
			name: "context cancelled mid-flight",
			reserve: func(ctx context.Context, _ string, _ reservation.UserType) (reservation.ReservationRecord, error) {
				return reservation.ReservationRecord{}, &reservation.Error{Kind: reservation.KindTimeout, Err: context.Canceled}
			},
			want: StateError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeAPI{
				checkSpot: func(context.Context, string) (reservation.SpotAvailability, error) {
					return reservation.SpotAvailability{IsAvailable: tc.available}, tc.checkErr
				},
				reserveSpot: tc.reserve,
			}
			c := New(api)
			_ = c.CheckAndReserve(context.Background(), "evt-1", reservation.UserClient)
			snap := c.Snapshot()
			assert.Equal(t, tc.want, snap.State)
			assert.True(t, snap.State.Settled())
			assert.Equal(t, 1, api.Calls(reservation.OpReserveSpot), "reservation is always attempted")
		})
	}
}

func TestCheckAndReserve_ClassifiesByMessage(t *testing.T) {
	cases := []struct {
		msg      string
		want     State
		inWL     bool
		returned bool
	}{
		{msg: "Usuário entrou na lista de espera", want: StateWaitingList, inWL: true},
		{msg: "CPF já cadastrado", want: StateError, returned: true},
		{msg: "Usuário entrou na Lista De Espera", want: StateError, returned: true},
		{msg: "CPF já cadastrado, vagas terminaram", want: StateWaitingList, inWL: true},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			api := &fakeAPI{
				reserveSpot: func(context.Context, string, reservation.UserType) (reservation.ReservationRecord, error) {
					return reservation.ReservationRecord{}, errors.New(tc.msg)
				},
			}
			c := New(api)
			err := c.CheckAndReserve(context.Background(), "evt-1", reservation.UserStaff)
			assert.Equal(t, tc.returned, err != nil)

			snap := c.Snapshot()
			assert.Equal(t, tc.want, snap.State)
			assert.Equal(t, tc.inWL, snap.InWaitingList)
			assert.Equal(t, tc.msg, snap.Error, "message is kept verbatim")
			assert.Nil(t, snap.Record)
		})
	}
}

func TestCheckAndReserve_InFlightGuard(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAPI{
		reserveSpot: func(_ context.Context, eventID string, ut reservation.UserType) (reservation.ReservationRecord, error) {
			close(entered)
			<-release
			return reservation.ReservationRecord{SpotID: "sp-1", EventID: eventID, UserType: ut}, nil
		},
	}
	c := New(api)

	done := make(chan error, 1)
	go func() { done <- c.CheckAndReserve(context.Background(), "evt-1", reservation.UserClient) }()
	<-entered

	assert.Equal(t, StateReserving, c.State())
	assert.ErrorIs(t, c.CheckAndReserve(context.Background(), "evt-1", reservation.UserClient), ErrInFlight)
	_, err := c.ProcessPayment(context.Background(), reservation.PaymentRequest{SpotID: "x"})
	assert.ErrorIs(t, err, ErrInFlight)
	assert.ErrorIs(t, c.CancelReservation(context.Background(), "x"), ErrInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateReserved, c.State())
	assert.Equal(t, 1, api.Calls(reservation.OpReserveSpot))
}

func TestCheckAndReserve_RetryFromWaitingList(t *testing.T) {
	full := true
	api := &fakeAPI{
		reserveSpot: func(_ context.Context, eventID string, ut reservation.UserType) (reservation.ReservationRecord, error) {
			if full {
				return reservation.ReservationRecord{}, errors.New("vagas terminaram")
			}
			return reservation.ReservationRecord{SpotID: "sp-2", EventID: eventID, UserType: ut}, nil
		},
	}
	c := New(api)
	require.NoError(t, c.CheckAndReserve(context.Background(), "evt-1", reservation.UserClient))
	require.Equal(t, StateWaitingList, c.State())

	full = false
	require.NoError(t, c.CheckAndReserve(context.Background(), "evt-1", reservation.UserClient))
	snap := c.Snapshot()
	assert.Equal(t, StateReserved, snap.State)
	assert.False(t, snap.InWaitingList)
	assert.Empty(t, snap.Error)
	require.NotNil(t, snap.Record)
	assert.Equal(t, "sp-2", snap.Record.SpotID)
}

func TestCheckAndReserve_IllegalFromReserved(t *testing.T) {
	c := New(&fakeAPI{})
	require.NoError(t, c.CheckAndReserve(context.Background(), "evt-1", reservation.UserClient))

	err := c.CheckAndReserve(context.Background(), "evt-1", reservation.UserClient)
	require.ErrorIs(t, err, ErrIllegalTransition)
	var ite *IllegalTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, StateReserved, ite.From)
	assert.Equal(t, StateReserved, c.State())
}

func TestProcessPayment(t *testing.T) {
	t.Run("paid completes and discards record", func(t *testing.T) {
		var got reservation.PaymentRequest
		api := &fakeAPI{processPayment: func(_ context.Context, req reservation.PaymentRequest) (reservation.PaymentResponse, error) {
			got = req
			return reservation.PaymentResponse{Status: "paid"}, nil
		}}
		c := New(api)
		require.NoError(t, c.CheckAndReserve(context.Background(), "evt-1", reservation.UserClient))

		resp, err := c.ProcessPayment(context.Background(), reservation.PaymentRequest{PaymentMethod: "pix"})
		require.NoError(t, err)
		assert.True(t, resp.Paid())
		assert.Equal(t, "sp-1", got.SpotID, "spot reference taken from the held record")
		assert.Equal(t, "evt-1", got.EventID)

		snap := c.Snapshot()
		assert.Equal(t, StateCompleted, snap.State)
		assert.Nil(t, snap.Record)
	})

	t.Run("unsettled status returns to reserved", func(t *testing.T) {
		api := &fakeAPI{processPayment: func(context.Context, reservation.PaymentRequest) (reservation.PaymentResponse, error) {
			return reservation.PaymentResponse{Status: "Pendente"}, nil
		}}
		c := New(api)
		require.NoError(t, c.CheckAndReserve(context.Background(), "evt-1", reservation.UserClient))

		resp, err := c.ProcessPayment(context.Background(), reservation.PaymentRequest{})
		require.NoError(t, err)
		assert.False(t, resp.Paid())
		snap := c.Snapshot()
		assert.Equal(t, StateReserved, snap.State)
		assert.NotNil(t, snap.Record)
	})

	t.Run("hard failure is rethrown", func(t *testing.T) {
		boom := &reservation.Error{Kind: reservation.KindRejected, Message: "Cartão recusado"}
		api := &fakeAPI{processPayment: func(context.Context, reservation.PaymentRequest) (reservation.PaymentResponse, error) {
			return reservation.PaymentResponse{}, boom
		}}
		c := New(api)
		require.NoError(t, c.CheckAndReserve(context.Background(), "evt-1", reservation.UserClient))

		_, err := c.ProcessPayment(context.Background(), reservation.PaymentRequest{})
		assert.ErrorIs(t, err, boom)
		snap := c.Snapshot()
		assert.Equal(t, StateError, snap.State)
		assert.Equal(t, "Cartão recusado", snap.Error)
		assert.NotNil(t, snap.Record, "hold survives a refused card")
	})

	t.Run("waiting list at payment time is rethrown", func(t *testing.T) {
		api := &fakeAPI{processPayment: func(context.Context, reservation.PaymentRequest) (reservation.PaymentResponse, error) {
			return reservation.PaymentResponse{}, errors.New("reserva expirou, você voltou para a lista de espera")
		}}
		c := New(api)
		require.NoError(t, c.CheckAndReserve(context.Background(), "evt-1", reservation.UserClient))

		_, err := c.ProcessPayment(context.Background(), reservation.PaymentRequest{})
		require.Error(t, err)
		snap := c.Snapshot()
		assert.Equal(t, StateWaitingList, snap.State)
		assert.True(t, snap.InWaitingList)
		assert.Nil(t, snap.Record)
	})

	t.Run("requires a spot reference", func(t *testing.T) {
		c := New(&fakeAPI{})
		_, err := c.ProcessPayment(context.Background(), reservation.PaymentRequest{})
		assert.ErrorIs(t, err, ErrNoReservation)
		assert.Equal(t, StateIdle, c.State())
	})

	t.Run("explicit spot reference from idle", func(t *testing.T) {
		api := &fakeAPI{}
		c := New(api)
		_, err := c.ProcessPayment(context.Background(), reservation.PaymentRequest{SpotID: "sp-9", EventID: "evt-1"})
		require.NoError(t, err)
		assert.Equal(t, StateCompleted, c.State())
	})
}

func TestCancelReservation(t *testing.T) {
	t.Run("success clears record", func(t *testing.T) {
		var cancelled string
		api := &fakeAPI{cancel: func(_ context.Context, id string) error { cancelled = id; return nil }}
		c := New(api)
		require.NoError(t, c.CheckAndReserve(context.Background(), "evt-1", reservation.UserClient))

		require.NoError(t, c.CancelReservation(context.Background(), ""))
		assert.Equal(t, "sp-1", cancelled)
		snap := c.Snapshot()
		assert.Equal(t, StateIdle, snap.State)
		assert.Nil(t, snap.Record)
	})

	t.Run("remote failure leaves state untouched", func(t *testing.T) {
		api := &fakeAPI{cancel: func(context.Context, string) error {
			return &reservation.Error{Kind: reservation.KindUpstream}
		}}
		c := New(api)
		require.NoError(t, c.CheckAndReserve(context.Background(), "evt-1", reservation.UserClient))

		require.Error(t, c.CancelReservation(context.Background(), ""))
		snap := c.Snapshot()
		assert.Equal(t, StateReserved, snap.State)
		assert.NotNil(t, snap.Record)
	})

	t.Run("nothing to cancel", func(t *testing.T) {
		c := New(&fakeAPI{})
		assert.ErrorIs(t, c.CancelReservation(context.Background(), ""), ErrNoReservation)
	})
}

func TestReset_DiscardsInFlightResult(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAPI{
		reserveSpot: func(context.Context, string, reservation.UserType) (reservation.ReservationRecord, error) {
			close(entered)
			<-release
			return reservation.ReservationRecord{SpotID: "late"}, nil
		},
	}
	c := New(api)
	done := make(chan error, 1)
	go func() { done <- c.CheckAndReserve(context.Background(), "evt-1", reservation.UserClient) }()
	<-entered

	c.Reset()
	close(release)
	assert.ErrorIs(t, <-done, ErrSuperseded)

	snap := c.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Nil(t, snap.Record)
	assert.Empty(t, snap.EventID)
}

func TestSubscribe_ReceivesOrderedChanges(t *testing.T) {
	var mu sync.Mutex
	var got []State
	c := New(&fakeAPI{}, WithClock(func() time.Time { return time.Unix(1700000000, 0) }))
	unsubscribe := c.Subscribe(func(ch Change) {
		mu.Lock()
		got = append(got, ch.To)
		mu.Unlock()
		assert.Equal(t, ch.To, ch.Snapshot.State)
	})

	require.NoError(t, c.CheckAndReserve(context.Background(), "evt-1", reservation.UserClient))
	unsubscribe()
	c.Reset()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []State{StateChecking, StateReserving, StateReserved}, got)
}

func TestSnapshot_IsACopy(t *testing.T) {
	c := New(&fakeAPI{})
	require.NoError(t, c.CheckAndReserve(context.Background(), "evt-1", reservation.UserClient))

	snap := c.Snapshot()
	snap.Record.SpotID = "mutated"
	assert.Equal(t, "sp-1", c.Snapshot().Record.SpotID)
}

func newMockClient(t *testing.T, backend *reservation.MockBackend) *reservation.Client {
	t.Helper()
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)
	client, err := reservation.New(srv.URL, reservation.Options{RateLimit: 1000, Backoff: time.Millisecond})
	require.NoError(t, err)
	return client
}

func TestEndToEnd_CapacityExhaustedLandsOnWaitingList(t *testing.T) {
	backend := reservation.NewMockBackend()
	backend.Script(reservation.RouteCheckSpot, reservation.MockResponse{
		Status: http.StatusOK,
		Body:   map[string]bool{"isAvailable": false},
	})
	backend.Script(reservation.RouteReserveSpot, reservation.MockResponse{
		Status: http.StatusConflict,
		Body:   map[string]string{"message": "vagas terminaram, você foi adicionado à lista de espera"},
	})

	c := New(newMockClient(t, backend))
	require.NoError(t, c.CheckAndReserve(context.Background(), "evt-1", reservation.UserClient))

	snap := c.Snapshot()
	assert.Equal(t, StateWaitingList, snap.State)
	assert.True(t, snap.InWaitingList)
	assert.Contains(t, snap.Error, "lista de espera")
	require.NotNil(t, snap.Availability)
	assert.False(t, snap.Availability.IsAvailable)
}

func TestEndToEnd_ReservationSucceeds(t *testing.T) {
	backend := reservation.NewMockBackend()
	backend.Script(reservation.RouteCheckSpot, reservation.MockResponse{
		Status: http.StatusOK,
		Body:   map[string]bool{"isAvailable": false},
	})
	backend.Script(reservation.RouteReserveSpot, reservation.MockResponse{
		Status: http.StatusCreated,
		Body: reservation.ReservationRecord{
			SpotID:   "sp-42",
			Email:    "a@b.com",
			EventID:  "evt-1",
			UserType: reservation.UserClient,
			Status:   "reserved",
		},
	})

	c := New(newMockClient(t, backend))
	require.NoError(t, c.CheckAndReserve(context.Background(), "evt-1", reservation.UserClient))

	snap := c.Snapshot()
	assert.Equal(t, StateReserved, snap.State)
	require.NotNil(t, snap.Record)
	assert.Equal(t, "sp-42", snap.Record.SpotID)
	assert.Equal(t, "a@b.com", snap.Record.Email)
	assert.False(t, snap.InWaitingList)
}
