// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigHolder_ReloadKeepsOldOnError(t *testing.T) {
	path := writeConfig(t, "upstream:\n  mock: true\nlog:\n  level: info\n")
	loader := NewLoader(path, "dev")
	initial, err := loader.Load()
	require.NoError(t, err)

	h := NewConfigHolder(initial, loader, path)
	ch := make(chan AppConfig, 1)
	h.RegisterListener(ch)

	require.NoError(t, os.WriteFile(path, []byte("upstream:\n  mock: true\nlog:\n  level: debug\n"), 0o600))
	require.NoError(t, h.Reload(context.Background()))
	assert.Equal(t, "debug", h.Get().Log.Level)
	assert.Equal(t, "debug", (<-ch).Log.Level)

	require.NoError(t, os.WriteFile(path, []byte("upstream:\n  nope: true\n"), 0o600))
	require.Error(t, h.Reload(context.Background()))
	assert.Equal(t, "debug", h.Get().Log.Level)
}

func TestConfigHolder_WatcherReloads(t *testing.T) {
	path := writeConfig(t, "upstream:\n  mock: true\n")
	loader := NewLoader(path, "dev")
	initial, err := loader.Load()
	require.NoError(t, err)

	h := NewConfigHolder(initial, loader, path)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, h.StartWatcher(ctx))
	defer h.Stop()

	require.NoError(t, os.WriteFile(path, []byte("upstream:\n  mock: true\nlog:\n  level: warn\n"), 0o600))
	assert.Eventually(t, func() bool {
		return h.Get().Log.Level == "warn"
	}, 5*time.Second, 50*time.Millisecond)
}

func TestConfigHolder_NoPathNoWatcher(t *testing.T) {
	h := NewConfigHolder(Defaults(), NewLoader("", "dev"), "")
	require.NoError(t, h.StartWatcher(context.Background()))
	h.Stop()
}
