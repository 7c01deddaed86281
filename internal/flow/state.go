// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package flow

// State is the single tag describing where a reservation attempt stands.
type State string

const (
	StateIdle        State = "idle"
	StateChecking    State = "checking"
	StateReserving   State = "reserving"
	StateReserved    State = "reserved"
	StateWaitingList State = "waitingList"
	StateProcessing  State = "processing"
	StateCompleted   State = "completed"
	StateError       State = "error"
)

// InFlight reports whether a remote call is outstanding in this state.
func (s State) InFlight() bool {
	switch s {
	case StateChecking, StateReserving, StateProcessing:
		return true
	}
	return false
}

// Settled reports whether a CheckAndReserve run can end in this state.
func (s State) Settled() bool {
	switch s {
	case StateReserved, StateWaitingList, StateError:
		return true
	}
	return false
}

// EventKind names what happened to drive a transition.
type EventKind string

const (
	EvCheckRequested EventKind = "check_requested"
	EvSpotChecked    EventKind = "spot_checked"
	EvReserved       EventKind = "reserved"
	EvQueued         EventKind = "queued"
	EvFailed         EventKind = "failed"
	EvPaymentStarted EventKind = "payment_started"
	EvPaid           EventKind = "paid"
	EvPaymentPending EventKind = "payment_pending"
	EvCancelled      EventKind = "cancelled"
	EvReset          EventKind = "reset"
)

// Transition is a single allowed edge in the flow state machine.
type Transition struct {
	From  State
	To    State
	Event EventKind
}

var transitionsTable = []Transition{
	// Reserve path
	{From: StateIdle, To: StateChecking, Event: EvCheckRequested},
	{From: StateError, To: StateChecking, Event: EvCheckRequested},
	{From: StateWaitingList, To: StateChecking, Event: EvCheckRequested},
	{From: StateChecking, To: StateReserving, Event: EvSpotChecked},
	{From: StateReserving, To: StateReserved, Event: EvReserved},
	{From: StateReserving, To: StateWaitingList, Event: EvQueued},

	// Payment path
	{From: StateIdle, To: StateProcessing, Event: EvPaymentStarted},
	{From: StateReserved, To: StateProcessing, Event: EvPaymentStarted},
	{From: StateError, To: StateProcessing, Event: EvPaymentStarted},
	{From: StateProcessing, To: StateCompleted, Event: EvPaid},
	{From: StateProcessing, To: StateReserved, Event: EvPaymentPending},
	{From: StateProcessing, To: StateWaitingList, Event: EvQueued},

	// Failures from any active state
	{From: StateChecking, To: StateError, Event: EvFailed},
	{From: StateReserving, To: StateError, Event: EvFailed},
	{From: StateProcessing, To: StateError, Event: EvFailed},

	// Cancel releases whatever is held
	{From: StateIdle, To: StateIdle, Event: EvCancelled},
	{From: StateReserved, To: StateIdle, Event: EvCancelled},
	{From: StateWaitingList, To: StateIdle, Event: EvCancelled},
	{From: StateError, To: StateIdle, Event: EvCancelled},
	{From: StateCompleted, To: StateIdle, Event: EvCancelled},
}

// TransitionFor returns the allowed transition for a given state+event.
// Reset is not in the table: it is accepted from every state.
func TransitionFor(from State, ev EventKind) (Transition, bool) {
	for _, tr := range transitionsTable {
		if tr.From == from && tr.Event == ev {
			return tr, true
		}
	}
	return Transition{}, false
}
