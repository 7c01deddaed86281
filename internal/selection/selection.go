// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package selection holds the "currently selected event" hand-off between
// pages. Expiry is decided here, once, by an injected policy; stores only
// persist.
package selection

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	xglog "github.com/ManuGH/reservo/internal/log"
	"github.com/rs/zerolog"
)

// ErrInvalidSelection is returned by Set when the selection has no event.
var ErrInvalidSelection = errors.New("selection: event id must not be empty")

// Selection is the event a user picked before entering the reservation flow.
type Selection struct {
	EventID    string    `json:"eventId"`
	EventName  string    `json:"eventName,omitempty"`
	SelectedAt time.Time `json:"selectedAt"`
}

// Store persists selections by key. Implementations never judge expiry.
type Store interface {
	Load(ctx context.Context, key string) (Selection, bool, error)
	// Save stores sel. A positive ttl lets backends with native expiry
	// reclaim the entry; it is a storage hint only.
	Save(ctx context.Context, key string, sel Selection, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ExpiryPolicy decides whether a stored selection is still usable.
type ExpiryPolicy interface {
	Expired(sel Selection, now time.Time) bool
	// Lifetime is passed to Store.Save; zero means keep until cleared.
	Lifetime() time.Duration
}

// TTLPolicy expires selections MaxAge after they were made.
type TTLPolicy struct {
	MaxAge time.Duration
}

func (p TTLPolicy) Expired(sel Selection, now time.Time) bool {
	if p.MaxAge <= 0 {
		return false
	}
	return now.Sub(sel.SelectedAt) >= p.MaxAge
}

func (p TTLPolicy) Lifetime() time.Duration {
	if p.MaxAge <= 0 {
		return 0
	}
	return p.MaxAge
}

// Service is the single owner of selection reads and writes.
type Service struct {
	store  Store
	policy ExpiryPolicy
	now    func() time.Time
	logger zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires store and policy. A nil policy never expires.
func NewService(store Store, policy ExpiryPolicy, opts ...Option) *Service {
	if policy == nil {
		policy = TTLPolicy{}
	}
	s := &Service{
		store:  store,
		policy: policy,
		now:    time.Now,
		logger: xglog.WithComponent("selection"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the selection for key. Expired entries are deleted and
// reported as absent.
func (s *Service) Get(ctx context.Context, key string) (Selection, bool, error) {
	sel, ok, err := s.store.Load(ctx, key)
	if err != nil {
		return Selection{}, false, fmt.Errorf("load selection: %w", err)
	}
	if !ok {
		return Selection{}, false, nil
	}
	if s.policy.Expired(sel, s.now()) {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to drop expired selection")
		}
		s.logger.Debug().Str("key", key).Str(xglog.FieldEventID, sel.EventID).
			Str(xglog.FieldEvent, "selection.expired").Msg("selection expired")
		return Selection{}, false, nil
	}
	return sel, true, nil
}

// Set stores sel for key, stamping SelectedAt when unset.
func (s *Service) Set(ctx context.Context, key string, sel Selection) (Selection, error) {
	if strings.TrimSpace(sel.EventID) == "" {
		return Selection{}, ErrInvalidSelection
	}
	if sel.SelectedAt.IsZero() {
		sel.SelectedAt = s.now()
	}
	if err := s.store.Save(ctx, key, sel, s.policy.Lifetime()); err != nil {
		return Selection{}, fmt.Errorf("save selection: %w", err)
	}
	return sel, nil
}

// Clear drops the selection for key. Clearing an absent key is not an error.
func (s *Service) Clear(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("clear selection: %w", err)
	}
	return nil
}

// Close releases the underlying store.
func (s *Service) Close() error { return s.store.Close() }
