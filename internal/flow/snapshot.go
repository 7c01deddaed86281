// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package flow

import (
	"time"

	"github.com/ManuGH/reservo/internal/reservation"
)

// Snapshot is an immutable copy of the controller state.
type Snapshot struct {
	FlowID        string                         `json:"flowId"`
	State         State                          `json:"state"`
	Error         string                         `json:"error,omitempty"`
	ErrorKind     string                         `json:"errorKind,omitempty"`
	EventID       string                         `json:"eventId,omitempty"`
	Record        *reservation.ReservationRecord `json:"record,omitempty"`
	Availability  *reservation.SpotAvailability  `json:"availability,omitempty"`
	InWaitingList bool                           `json:"isInWaitingList"`
	UpdatedAt     time.Time                      `json:"updatedAt"`
}

// Change describes one applied transition.
type Change struct {
	From     State
	To       State
	Event    EventKind
	Snapshot Snapshot
}

// Observer receives every applied transition, in order, outside the lock.
// Observers must not block.
type Observer func(Change)

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// State returns just the current state tag.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		FlowID:        c.id,
		State:         c.state,
		Error:         c.errMsg,
		EventID:       c.eventID,
		InWaitingList: c.inWaitingList,
		UpdatedAt:     c.updatedAt,
	}
	if c.errMsg != "" {
		s.ErrorKind = c.errKind.String()
	}
	if c.record != nil {
		r := *c.record
		s.Record = &r
	}
	if c.availability != nil {
		a := *c.availability
		s.Availability = &a
	}
	return s
}

// Subscribe registers o and returns a function removing it.
func (c *Controller) Subscribe(o Observer) (unsubscribe func()) {
	id := c.subscribe(o)
	return func() {
		c.obsMu.Lock()
		delete(c.observers, id)
		c.obsMu.Unlock()
	}
}

func (c *Controller) subscribe(o Observer) int {
	c.obsMu.Lock()
	defer c.obsMu.Unlock()
	if c.observers == nil {
		c.observers = make(map[int]Observer)
	}
	c.nextObs++
	c.observers[c.nextObs] = o
	return c.nextObs
}

func (c *Controller) notify(ch *Change) {
	if ch == nil {
		return
	}
	c.obsMu.RLock()
	obs := make([]Observer, 0, len(c.observers))
	for _, o := range c.observers {
		obs = append(obs, o)
	}
	c.obsMu.RUnlock()
	for _, o := range obs {
		o(*ch)
	}
}
