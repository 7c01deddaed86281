// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package reservation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// UserType tags who is reserving: a paying client or event staff.
type UserType string

const (
	UserClient UserType = "client"
	UserStaff  UserType = "staff"
)

// Valid reports whether u is one of the known user types.
func (u UserType) Valid() bool {
	return u == UserClient || u == UserStaff
}

// SpotAvailability is the advisory answer of check-spot.
type SpotAvailability struct {
	IsAvailable bool `json:"isAvailable"`
	WaitingList bool `json:"waitingList,omitempty"`
}

// UnmarshalJSON accepts both the object form and a bare JSON boolean.
func (a *SpotAvailability) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("true")):
		*a = SpotAvailability{IsAvailable: true}
		return nil
	case bytes.Equal(b, []byte("false")):
		*a = SpotAvailability{IsAvailable: false}
		return nil
	case len(b) > 0 && b[0] == '{':
		type plain SpotAvailability
		var p plain
		if err := json.Unmarshal(b, &p); err != nil {
			return err
		}
		*a = SpotAvailability(p)
		return nil
	}
	return fmt.Errorf("check-spot: unexpected json value: %s", string(b))
}

// ReservationRecord is what a successful reserve-spot hands back. It is a
// value: a new attempt produces a new record instead of mutating an old one.
type ReservationRecord struct {
	SpotID   string   `json:"spotId"`
	Email    string   `json:"email"`
	EventID  string   `json:"eventId"`
	UserType UserType `json:"userType"`
	Status   string   `json:"status"`
}

// WaitingListStatus is one polled snapshot of queue membership.
// Position and TotalInQueue are nil while the caller is not queued.
type WaitingListStatus struct {
	InQueue      bool       `json:"inQueue"`
	Position     *int       `json:"position,omitempty"`
	TotalInQueue *int       `json:"totalInQueue,omitempty"`
	AddedAt      *time.Time `json:"addedAt,omitempty"`
}

// RemainingTime is the authoritative time left on a held reservation.
type RemainingTime struct {
	RemainingSeconds int `json:"remainingSeconds"`
	RemainingMinutes int `json:"remainingMinutes"`
}

// LeaveResult is the answer to a voluntary waiting-list exit.
type LeaveResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// PaymentRequest finalizes payment for a held spot.
type PaymentRequest struct {
	SpotID        string `json:"spotId"`
	EventID       string `json:"eventId"`
	Email         string `json:"email,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	AmountCents   int64  `json:"amountCents,omitempty"`
}

// PaymentResponse mirrors the settlement status reported by the service.
type PaymentResponse struct {
	ID      string `json:"id,omitempty"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Payment statuses that mean the hand-off is complete.
const (
	PaymentStatusPaid   = "paid"
	PaymentStatusPagoPT = "Pago"
)

// Paid reports whether the service settled the payment.
func (p PaymentResponse) Paid() bool {
	return p.Status == PaymentStatusPagoPT || p.Status == PaymentStatusPaid
}

// IntPtr is a small helper for optional queue fields.
func IntPtr(v int) *int { return &v }
