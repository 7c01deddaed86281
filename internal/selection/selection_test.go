// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package selection

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestTTLPolicy(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	p := TTLPolicy{MaxAge: 30 * time.Minute}
	sel := Selection{EventID: "evt-1", SelectedAt: base}

	assert.False(t, p.Expired(sel, base.Add(29*time.Minute)))
	assert.True(t, p.Expired(sel, base.Add(30*time.Minute)))
	assert.Equal(t, 30*time.Minute, p.Lifetime())

	forever := TTLPolicy{}
	assert.False(t, forever.Expired(sel, base.Add(1000*time.Hour)))
	assert.Zero(t, forever.Lifetime())
}

func TestService_SetGetClear(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewService(NewMemoryStore(), TTLPolicy{MaxAge: time.Hour}, WithClock(clock.Now))
	ctx := context.Background()

	saved, err := svc.Set(ctx, "sess-1", Selection{EventID: "evt-1", EventName: "Show"})
	require.NoError(t, err)
	assert.Equal(t, clock.now, saved.SelectedAt)

	got, ok, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.True(t, ok)
	if diff := cmp.Diff(saved, got); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, svc.Clear(ctx, "sess-1"))
	require.NoError(t, svc.Clear(ctx, "sess-1"))
	_, ok, err = svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_ExpiryIsCheckedByService(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	svc := NewService(store, TTLPolicy{MaxAge: time.Minute}, WithClock(clock.Now))
	ctx := context.Background()

	_, err := svc.Set(ctx, "sess-1", Selection{EventID: "evt-1"})
	require.NoError(t, err)

	clock.now = clock.now.Add(2 * time.Minute)
	raw, ok, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	require.True(t, ok, "stores do not judge expiry")
	assert.Equal(t, "evt-1", raw.EventID)

	_, ok, err = svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, store.Len(), "expired entry is dropped on read")
}

func TestService_RejectsEmptyEvent(t *testing.T) {
	svc := NewService(NewMemoryStore(), nil)
	_, err := svc.Set(context.Background(), "sess-1", Selection{EventID: " "})
	assert.ErrorIs(t, err, ErrInvalidSelection)
}
