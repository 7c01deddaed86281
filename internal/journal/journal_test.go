// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ManuGH/reservo/internal/flow"
	"github.com/ManuGH/reservo/internal/persistence/sqlite"
	"github.com/ManuGH/reservo/internal/reservation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(context.Background(), filepath.Join(t.TempDir(), "journal.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestJournal_AppendList(t *testing.T) {
	j := openTemp(t)
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 12, 0, 0, 123, time.UTC)

	require.NoError(t, j.Append(ctx, Entry{FlowID: "f1", EventID: "evt-1", From: "idle", To: "checking", Event: "check_requested", At: at}))
	require.NoError(t, j.Append(ctx, Entry{FlowID: "f1", From: "checking", To: "reserving", Event: "spot_checked"}))
	require.NoError(t, j.Append(ctx, Entry{FlowID: "f2", From: "idle", To: "checking", Event: "check_requested"}))

	got, err := j.List(ctx, "f1", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "checking", got[0].To)
	assert.True(t, at.Equal(got[0].At))
	assert.Equal(t, "reserving", got[1].To)
	assert.Less(t, got[0].ID, got[1].ID)

	limited, err := j.List(ctx, "f1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	issues, err := j.Verify(ctx, sqlite.VerifyQuick)
	require.NoError(t, err)
	assert.Nil(t, issues)
}

type rejectingAPI struct{ reservation.API }

func (rejectingAPI) CheckSpot(context.Context, string) (reservation.SpotAvailability, error) {
	return reservation.SpotAvailability{}, nil
}

func (rejectingAPI) ReserveSpot(context.Context, string, reservation.UserType) (reservation.ReservationRecord, error) {
	return reservation.ReservationRecord{}, errors.New("CPF já cadastrado")
}

func TestJournal_ObserverRecordsFlow(t *testing.T) {
	j := openTemp(t)
	c := flow.New(rejectingAPI{}, flow.WithFlowID("flow-1"), flow.WithObserver(j.Observer()))

	err := c.CheckAndReserve(context.Background(), "evt-1", reservation.UserClient)
	require.Error(t, err)
	require.NoError(t, j.Flush(context.Background()))

	got, err := j.List(context.Background(), "flow-1", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"checking", "reserving", "error"}, []string{got[0].To, got[1].To, got[2].To})
	assert.Equal(t, "CPF já cadastrado", got[2].Error)
	assert.Equal(t, "evt-1", got[2].EventID)
}

func TestJournal_CloseDrainsQueuedTransitions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.sqlite")
	j, err := Open(context.Background(), path)
	require.NoError(t, err)

	observe := j.Observer()
	for i := 0; i < 20; i++ {
		observe(flow.Change{
			From:     flow.StateIdle,
			To:       flow.StateChecking,
			Event:    flow.EvCheckRequested,
			Snapshot: flow.Snapshot{FlowID: "flow-drain", UpdatedAt: time.Now()},
		})
	}
	require.NoError(t, j.Close())
	require.NoError(t, j.Close())

	// Transitions observed after Close are ignored.
	observe(flow.Change{Snapshot: flow.Snapshot{FlowID: "flow-drain"}})
	assert.NoError(t, j.Flush(context.Background()))

	reopened, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	got, err := reopened.List(context.Background(), "flow-drain", 0)
	require.NoError(t, err)
	assert.Len(t, got, 20)
}
