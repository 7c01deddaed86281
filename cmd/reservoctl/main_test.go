// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ManuGH/reservo/internal/reservation"
	"github.com/ManuGH/reservo/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "ctl-token"

type harness struct {
	mock *reservation.MockBackend
	url  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mock := reservation.NewMockBackend()
	mock.RequireToken(testToken)
	srv := httptest.NewServer(mock.Handler())
	t.Cleanup(srv.Close)
	return &harness{mock: mock, url: srv.URL}
}

func (h *harness) run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	if len(args) > 0 && args[0] != "journal" && args[0] != "mock" {
		args = append(args, "--url", h.url, "--token", testToken, "--retries", "0")
	}
	var out, errOut bytes.Buffer
	code := run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestReserve_WritesSnapshot(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "reservation.json")

	code, out, errOut := h.run(t, "reserve", "--event", "evt-1", "--out", path)
	require.Equal(t, exitOK, code, errOut)
	assert.Contains(t, out, `"state": "reserved"`)

	doc, err := snapshot.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "spot-1", doc.Record.SpotID)
	assert.Equal(t, "evt-1", doc.Record.EventID)
}

func TestShow_ReadsBackExportedRecord(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "reservation.json")

	code, _, errOut := h.run(t, "reserve", "--event", "evt-1", "--out", path)
	require.Equal(t, exitOK, code, errOut)

	code, out, errOut := h.run(t, "show", "--file", path)
	require.Equal(t, exitOK, code, errOut)
	assert.Contains(t, out, `"spotId": "spot-1"`)
	assert.Contains(t, out, `"version": 1`)

	h.mock.SetRemaining("spot-1", 125)
	code, out, errOut = h.run(t, "show", "--file", path, "--remaining")
	require.Equal(t, exitOK, code, errOut)
	assert.Contains(t, out, "2:05 left on spot-1")

	code, _, errOut = h.run(t, "show", "--file", filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, exitFail, code)
	assert.Contains(t, errOut, "missing.json")

	code, _, _ = h.run(t, "show")
	assert.Equal(t, exitUsage, code)
}

func TestReserve_FullEventJoinsWaitingList(t *testing.T) {
	h := newHarness(t)
	h.mock.AddEvent("evt-full", 0)
	path := filepath.Join(t.TempDir(), "reservation.json")

	code, out, errOut := h.run(t, "reserve", "--event", "evt-full", "--out", path)
	require.Equal(t, exitOK, code, errOut)
	assert.Contains(t, out, `"isInWaitingList": true`)
	assert.Contains(t, errOut, "waiting list")
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no record means no snapshot")

	code, out, _ = h.run(t, "status", "--event", "evt-full")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, `"inQueue": true`)

	code, _, errOut = h.run(t, "leave", "--event", "evt-full")
	require.Equal(t, exitOK, code, errOut)

	code, _, errOut = h.run(t, "leave", "--event", "evt-full")
	assert.Equal(t, exitFail, code)
	assert.Contains(t, errOut, "rejected")
}

func TestReserve_InvalidUserTypeIsUsageError(t *testing.T) {
	h := newHarness(t)
	code, _, _ := h.run(t, "reserve", "--event", "evt-1", "--user-type", "guest")
	assert.Equal(t, exitUsage, code)
	assert.Zero(t, h.mock.Calls(reservation.RouteReserveSpot))
}

func TestWrongTokenReportsUnauthorized(t *testing.T) {
	h := newHarness(t)
	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"cancel", "--ticket", "spot-9", "--url", h.url, "--token", "nope"}, &out, &errOut)
	assert.Equal(t, exitFail, code)
	assert.Contains(t, errOut.String(), "unauthorized")
}

func TestPayAndCountdown(t *testing.T) {
	h := newHarness(t)
	code, _, errOut := h.run(t, "reserve", "--event", "evt-2")
	require.Equal(t, exitOK, code, errOut)

	h.mock.SetRemaining("spot-1", 125)
	code, out, errOut := h.run(t, "countdown", "--ticket", "spot-1", "--once")
	require.Equal(t, exitOK, code, errOut)
	assert.Equal(t, "2:05", strings.TrimSpace(out))

	code, out, errOut = h.run(t, "pay", "--event", "evt-2", "--spot", "spot-1", "--email", "a@b.test")
	require.Equal(t, exitOK, code, errOut)
	assert.Contains(t, out, reservation.PaymentStatusPagoPT)
}

func TestCancel(t *testing.T) {
	h := newHarness(t)
	code, _, _ := h.run(t, "reserve", "--event", "evt-3")
	require.Equal(t, exitOK, code)

	code, out, errOut := h.run(t, "cancel", "--ticket", "spot-1")
	require.Equal(t, exitOK, code, errOut)
	assert.Contains(t, out, "cancelled spot-1")
}

func TestMissingURLIsUsageError(t *testing.T) {
	t.Setenv("RESERVO_UPSTREAM_URL", "")
	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"cancel", "--ticket", "x"}, &out, &errOut)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut.String(), "--url is required")
}

func TestJournalVerify(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "journal.db")

	code, out, errOut := h.run(t, "journal", "verify", "--path", path)
	require.Equal(t, exitOK, code, errOut)
	assert.Contains(t, out, "passed quick check")

	code, out, errOut = h.run(t, "journal", "list", "--path", path, "--flow", "nothing")
	require.Equal(t, exitOK, code, errOut)
	assert.Equal(t, "null", strings.TrimSpace(out))
}

func TestUnknownCommand(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, exitUsage, run(context.Background(), []string{"teleport"}, &out, &errOut))
	assert.Contains(t, errOut.String(), "Unknown command")
}

func TestEventFlags(t *testing.T) {
	ev := eventFlags{}
	require.NoError(t, ev.Set("evt-1=3"))
	assert.Equal(t, 3, ev["evt-1"])
	assert.Error(t, ev.Set("evt-1"))
	assert.Error(t, ev.Set("evt-1=-2"))
	assert.Error(t, ev.Set("=2"))
}
