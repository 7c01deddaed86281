// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger discards output but stays enabled; Deps rejects a disabled logger.
func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testServerConfig() ServerConfig {
	cfg := DefaultServerConfig()
	cfg.ListenAddr = "127.0.0.1:0"
	cfg.ShutdownTimeout = 2 * time.Second
	return cfg
}

func testDeps() Deps {
	return Deps{
		Logger: testLogger(),
		APIHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
	}
}

func waitForAddr(t *testing.T, m Manager) string {
	t.Helper()
	var addr string
	require.Eventually(t, func() bool {
		addr = m.APIAddr()
		return addr != ""
	}, 2*time.Second, 10*time.Millisecond)
	return addr
}

func TestNewManager_RequiresHandler(t *testing.T) {
	deps := testDeps()
	deps.APIHandler = nil
	_, err := NewManager(testServerConfig(), deps)
	require.ErrorIs(t, err, ErrMissingAPIHandler)
}

func TestNewManager_RejectsDisabledLogger(t *testing.T) {
	deps := testDeps()
	deps.Logger = zerolog.Nop()
	_, err := NewManager(testServerConfig(), deps)
	require.ErrorIs(t, err, ErrMissingLogger)
}

func TestManager_ServesAndRunsHooksInReverse(t *testing.T) {
	m, err := NewManager(testServerConfig(), testDeps())
	require.NoError(t, err)

	var mu sync.Mutex
	var order []string
	for _, name := range []string{"first", "second", "third"} {
		m.RegisterShutdownHook(name, func(context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Start(ctx) }()

	addr := waitForAddr(t, m)
	resp, err := (&http.Client{Timeout: 2 * time.Second}).Get("http://" + addr + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("manager did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"third", "second", "first"}, order)
}

func TestManager_HookErrorsAreJoined(t *testing.T) {
	m, err := NewManager(testServerConfig(), testDeps())
	require.NoError(t, err)

	boom := errors.New("boom")
	ran := false
	m.RegisterShutdownHook("ok", func(context.Context) error { ran = true; return nil })
	m.RegisterShutdownHook("bad", func(context.Context) error { return boom })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Start(ctx) }()
	waitForAddr(t, m)
	cancel()

	err = <-done
	require.ErrorIs(t, err, boom)
	assert.True(t, ran, "later hooks still run after a failure")
}

func TestManager_BindErrorSurfaces(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := testServerConfig()
	cfg.ListenAddr = ln.Addr().String()
	m, err := NewManager(cfg, testDeps())
	require.NoError(t, err)

	hookRan := false
	m.RegisterShutdownHook("cleanup", func(context.Context) error { hookRan = true; return nil })

	err = m.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start API server")
	assert.True(t, hookRan)
}

func TestManager_ShutdownBeforeStart(t *testing.T) {
	m, err := NewManager(testServerConfig(), testDeps())
	require.NoError(t, err)
	require.ErrorIs(t, m.Shutdown(context.Background()), ErrManagerNotStarted)
}

func TestManager_MetricsListener(t *testing.T) {
	cfg := testServerConfig()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	cfg.MetricsAddr = ln.Addr().String()
	require.NoError(t, ln.Close())

	deps := testDeps()
	deps.MetricsHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("reservo_up 1\n"))
	})
	m, err := NewManager(cfg, deps)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- m.Start(ctx) }()
	waitForAddr(t, m)

	resp, err := (&http.Client{Timeout: 2 * time.Second}).Get("http://" + cfg.MetricsAddr + "/metrics")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	require.NoError(t, <-done)
}
