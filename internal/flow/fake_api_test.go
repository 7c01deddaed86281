// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package flow

import (
	"context"
	"sync"

	"github.com/ManuGH/reservo/internal/reservation"
)

type fakeAPI struct {
	checkSpot      func(ctx context.Context, eventID string) (reservation.SpotAvailability, error)
	reserveSpot    func(ctx context.Context, eventID string, userType reservation.UserType) (reservation.ReservationRecord, error)
	processPayment func(ctx context.Context, req reservation.PaymentRequest) (reservation.PaymentResponse, error)
	cancel         func(ctx context.Context, ticketID string) error

	mu    sync.Mutex
	calls map[string]int
}

func (f *fakeAPI) count(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[op]++
}

func (f *fakeAPI) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeAPI) CheckSpot(ctx context.Context, eventID string) (reservation.SpotAvailability, error) {
	f.count(reservation.OpCheckSpot)
	if f.checkSpot == nil {
		return reservation.SpotAvailability{IsAvailable: true}, nil
	}
	return f.checkSpot(ctx, eventID)
}

func (f *fakeAPI) ReserveSpot(ctx context.Context, eventID string, userType reservation.UserType) (reservation.ReservationRecord, error) {
	f.count(reservation.OpReserveSpot)
	if f.reserveSpot == nil {
		return reservation.ReservationRecord{SpotID: "sp-1", EventID: eventID, UserType: userType, Status: "reserved"}, nil
	}
	return f.reserveSpot(ctx, eventID, userType)
}

func (f *fakeAPI) RemainingTime(context.Context, string) (reservation.RemainingTime, error) {
	return reservation.RemainingTime{}, nil
}

func (f *fakeAPI) WaitingListStatus(context.Context, string) (reservation.WaitingListStatus, error) {
	return reservation.WaitingListStatus{}, nil
}

func (f *fakeAPI) LeaveWaitingList(context.Context, string) (reservation.LeaveResult, error) {
	return reservation.LeaveResult{Success: true}, nil
}

func (f *fakeAPI) ProcessPayment(ctx context.Context, req reservation.PaymentRequest) (reservation.PaymentResponse, error) {
	f.count(reservation.OpProcessPayment)
	if f.processPayment == nil {
		return reservation.PaymentResponse{Status: "Pago"}, nil
	}
	return f.processPayment(ctx, req)
}

func (f *fakeAPI) CancelReservation(ctx context.Context, ticketID string) error {
	f.count(reservation.OpCancelReservation)
	if f.cancel == nil {
		return nil
	}
	return f.cancel(ctx, ticketID)
}
