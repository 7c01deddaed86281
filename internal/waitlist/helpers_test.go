// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package waitlist

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ManuGH/reservo/internal/reservation"
	"github.com/stretchr/testify/require"
)

func newBackendClient(t *testing.T, backend *reservation.MockBackend) *reservation.Client {
	t.Helper()
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)
	c, err := reservation.New(srv.URL, reservation.Options{RateLimit: 1000, Backoff: time.Millisecond})
	require.NoError(t, err)
	return c
}
