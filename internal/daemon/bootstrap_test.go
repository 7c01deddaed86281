// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/ManuGH/reservo/internal/auth"
	"github.com/ManuGH/reservo/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSource(t *testing.T) {
	ctx := context.Background()

	assert.Nil(t, tokenSource(config.AuthConfig{}))

	src := tokenSource(config.AuthConfig{ForwardClientToken: true, Token: "service"})
	require.NotNil(t, src)

	tok, err := src.Token(auth.ContextWithToken(ctx, "browser"))
	require.NoError(t, err)
	assert.Equal(t, "browser", tok)

	tok, err = src.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "service", tok)
}

func TestOpenSelection_UnknownBackend(t *testing.T) {
	cfg := config.Defaults().Selection
	cfg.Backend = "etcd"
	_, err := openSelection(cfg, testLogger(), nil)
	require.Error(t, err)
}

func TestBootstrap_MockUpstreamEndToEnd(t *testing.T) {
	cfg := config.Defaults()
	cfg.Version = "test"
	cfg.Upstream.Mock = true
	cfg.API.ListenAddr = "127.0.0.1:0"
	cfg.API.MetricsAddr = ""
	cfg.API.RateLimit = 0
	cfg.Telemetry.Enabled = false
	cfg.Journal.Path = filepath.Join(t.TempDir(), "journal.db")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt, err := Bootstrap(ctx, cfg, testLogger())
	require.NoError(t, err)
	require.NotEmpty(t, rt.MockURL)

	done := make(chan error, 1)
	go func() { done <- rt.Manager.Start(ctx) }()
	base := "http://" + waitForAddr(t, rt.Manager)
	client := &http.Client{Timeout: 5 * time.Second}

	call := func(method, path, session string, body any) (*http.Response, map[string]any) {
		t.Helper()
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req, err := http.NewRequest(method, base+path, &buf)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer browser-token")
		if session != "" {
			req.Header.Set("X-Session-ID", session)
		}
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		out := map[string]any{}
		_ = json.NewDecoder(resp.Body).Decode(&out)
		return resp, out
	}

	resp, _ := call(http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, created := call(http.MethodPost, "/api/sessions", "", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	session, _ := created["sessionId"].(string)
	require.NotEmpty(t, session)

	resp, snap := call(http.MethodPost, "/api/flow/reserve", session, map[string]string{"eventId": "evt-1", "userType": "client"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "reserved", snap["state"])

	resp, history := call(http.MethodGet, "/api/flow/history", session, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entries, _ := history["entries"].([]any)
	assert.Len(t, entries, 3, "checking, reserving, reserved")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("runtime did not stop")
	}
}
