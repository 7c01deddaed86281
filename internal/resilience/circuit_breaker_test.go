// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockClock struct {
	now time.Time
}

func (m *mockClock) Now() time.Time { return m.now }

var errTechnical = errors.New("connection refused")

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	clock := &mockClock{now: time.Now()}
	cb := NewCircuitBreaker("test", 3, 30*time.Second, WithClock(clock))

	for i := 0; i < 2; i++ {
		require.Error(t, cb.Execute(func() error { return errTechnical }))
		assert.Equal(t, StateClosed, cb.State())
	}

	require.Error(t, cb.Execute(func() error { return errTechnical }))
	assert.Equal(t, StateOpen, cb.State())

	executed := false
	err := cb.Execute(func() error {
		executed = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, executed, "function must not run while open")
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	clock := &mockClock{now: time.Now()}
	cb := NewCircuitBreaker("test", 1, 10*time.Second, WithClock(clock))

	_ = cb.Execute(func() error { return errTechnical })
	require.Equal(t, StateOpen, cb.State())

	clock.now = clock.now.Add(11 * time.Second)
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	clock := &mockClock{now: time.Now()}
	cb := NewCircuitBreaker("test", 1, 10*time.Second, WithClock(clock))

	_ = cb.Execute(func() error { return errTechnical })
	clock.now = clock.now.Add(11 * time.Second)

	_ = cb.Execute(func() error { return errTechnical })
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_BusinessErrorsDoNotTrip(t *testing.T) {
	errRejected := errors.New("vagas terminaram")
	cb := NewCircuitBreaker("test", 1, time.Minute, WithFailureClassifier(func(err error) bool {
		return !errors.Is(err, errRejected)
	}))

	for i := 0; i < 5; i++ {
		err := cb.Execute(func() error { return errRejected })
		assert.ErrorIs(t, err, errRejected, "business error must be returned unchanged")
	}
	assert.Equal(t, StateClosed, cb.State())
}

func TestNewCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker("test", 0, 0)
	assert.Equal(t, 5, cb.threshold)
	assert.Equal(t, 30*time.Second, cb.resetTimeout)
}
