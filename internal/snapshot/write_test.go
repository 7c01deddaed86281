// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ManuGH/reservo/internal/reservation"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reservation.json")
	rec := reservation.ReservationRecord{
		SpotID:   "spot-7",
		Email:    "a@example.com",
		EventID:  "evt-1",
		UserType: reservation.UserClient,
		Status:   "reserved",
	}

	require.NoError(t, Write(context.Background(), path, "flow-1", rec))

	doc, err := Read(path)
	require.NoError(t, err)
	if diff := cmp.Diff(rec, doc.Record); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "flow-1", doc.FlowID)
	assert.False(t, doc.ExportedAt.IsZero())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWrite_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reservation.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	require.NoError(t, Write(context.Background(), path, "", reservation.ReservationRecord{SpotID: "s"}))
	doc, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "s", doc.Record.SpotID)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWrite_EmptyRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.json")
	err := Write(context.Background(), path, "", reservation.ReservationRecord{})
	assert.ErrorIs(t, err, ErrEmptyRecord)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRead_RejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":9,"record":{}}`), 0o600))
	_, err := Read(path)
	assert.Error(t, err)
}
