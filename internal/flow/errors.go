// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package flow

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEvent    = errors.New("flow: event id must not be empty")
	ErrInvalidUserType = errors.New("flow: user type must be client or staff")
	ErrInFlight        = errors.New("flow: an operation is already in flight")
	ErrNoReservation   = errors.New("flow: no reservation held and no spot reference given")
	ErrSuperseded      = errors.New("flow: operation superseded by reset or a newer attempt")

	ErrIllegalTransition = errors.New("flow: illegal transition")
)

// IllegalTransitionError carries the rejected edge.
type IllegalTransitionError struct {
	From  State
	Event EventKind
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("flow: illegal transition: event %q in state %q", e.Event, e.From)
}

func (e *IllegalTransitionError) Unwrap() error { return ErrIllegalTransition }
