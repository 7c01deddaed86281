// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWithMock(t *testing.T) {
	t.Setenv("RESERVO_MOCK_UPSTREAM", "true")

	cfg, err := NewLoader("", "v0.1.0").Load()
	require.NoError(t, err)
	assert.True(t, cfg.Upstream.Mock)
	assert.Equal(t, "v0.1.0", cfg.Version)
	assert.Equal(t, 30*time.Second, cfg.Polling.WaitingListInterval)
	assert.Equal(t, SelectionMemory, cfg.Selection.Backend)
	assert.Equal(t, 600, cfg.Polling.CountdownWindow)
}

func TestLoad_RequiresUpstream(t *testing.T) {
	_, err := NewLoader("", "dev").Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "upstream.baseUrl")
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, `
upstream:
  baseUrl: https://file.example.com
  timeout: 3s
polling:
  waitingListInterval: 5s
log:
  level: debug
`)
	t.Setenv("RESERVO_UPSTREAM_TIMEOUT", "7s")

	cfg, err := NewLoader(path, "dev").Load()
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.com", cfg.Upstream.BaseURL)
	assert.Equal(t, 7*time.Second, cfg.Upstream.Timeout, "env beats file")
	assert.Equal(t, 5*time.Second, cfg.Polling.WaitingListInterval, "file beats default")
	assert.Equal(t, 2, cfg.Upstream.MaxRetries, "default kept")
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_StrictUnknownField(t *testing.T) {
	path := writeConfig(t, `
upstream:
  baseUrl: https://x.example.com
  bogus: 1
`)
	_, err := NewLoader(path, "dev").Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownConfigField))
}

func TestLoad_RejectsTrailingDocument(t *testing.T) {
	path := writeConfig(t, "upstream:\n  mock: true\n---\nlog:\n  level: info\n")
	_, err := NewLoader(path, "dev").Load()
	assert.Error(t, err)
}

func TestLoad_RejectsNonYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	_, err := NewLoader(path, "dev").Load()
	assert.Error(t, err)
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("RESERVO_MOCK_UPSTREAM", "yes")
	cfg, err := NewLoader(path, "dev").Load()
	require.NoError(t, err)
	assert.True(t, cfg.Upstream.Mock)
}

func TestLoad_InvalidEnvFallsBack(t *testing.T) {
	t.Setenv("RESERVO_MOCK_UPSTREAM", "true")
	t.Setenv("RESERVO_UPSTREAM_MAX_RETRIES", "lots")
	cfg, err := NewLoader("", "dev").Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Upstream.MaxRetries)
}

func TestUnknownEnvKeys(t *testing.T) {
	t.Setenv("RESERVO_MOCK_UPSTREAM", "true")
	l := NewLoader("", "dev")
	_, err := l.Load()
	require.NoError(t, err)

	got := l.UnknownEnvKeys([]string{"RESERVO_MOCK_UPSTREAM=true", "RESERVO_TYPO=1", "HOME=/root"})
	assert.Equal(t, []string{"RESERVO_TYPO"}, got)
}

func TestValidate(t *testing.T) {
	base := Defaults()
	base.Upstream.BaseURL = "https://api.example.com"
	require.NoError(t, Validate(base))

	tests := []struct {
		name   string
		mutate func(*AppConfig)
		want   string
	}{
		{"relative url", func(c *AppConfig) { c.Upstream.BaseURL = "/api" }, "scheme must be http or https"},
		{"credentials in url", func(c *AppConfig) { c.Upstream.BaseURL = "https://u:p@api.example.com" }, "credentials"},
		{"redis without addr", func(c *AppConfig) { c.Selection.Backend = SelectionRedis }, "redisAddr"},
		{"badger without path", func(c *AppConfig) { c.Selection.Backend = SelectionBadger }, "badgerPath"},
		{"unknown backend", func(c *AppConfig) { c.Selection.Backend = "etcd" }, "selection.backend"},
		{"bad listen addr", func(c *AppConfig) { c.API.ListenAddr = "nope" }, "api.listenAddr"},
		{"bad level", func(c *AppConfig) { c.Log.Level = "loud" }, "log.level"},
		{"zero interval", func(c *AppConfig) { c.Polling.WaitingListInterval = 0 }, "polling intervals"},
		{"bad exporter", func(c *AppConfig) {
			c.Telemetry.Enabled = true
			c.Telemetry.Exporter = "zipkin"
		}, "telemetry.exporter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDiff(t *testing.T) {
	a := Defaults()
	b := Defaults()
	b.Upstream.Timeout = time.Minute
	b.Log.Level = "debug"
	b.Version = "ignored"

	assert.Equal(t, []string{"log.level", "upstream.timeout"}, Diff(a, b))
	assert.Empty(t, Diff(a, a))
}

func TestParseBool(t *testing.T) {
	for v, want := range map[string]bool{"1": true, "yes": true, "ON": true, "0": false, "no": false, "false": false} {
		t.Setenv("RESERVO_TEST_BOOL", v)
		assert.Equal(t, want, ParseBool("RESERVO_TEST_BOOL", !want), v)
	}
	t.Setenv("RESERVO_TEST_BOOL", "")
	assert.True(t, ParseBool("RESERVO_TEST_BOOL", true))
}

func TestLoad_AllowedOriginsFromEnv(t *testing.T) {
	t.Setenv("RESERVO_MOCK_UPSTREAM", "1")
	t.Setenv("RESERVO_ALLOWED_ORIGINS", "http://a.local, ,http://b.local")
	cfg, err := NewLoader("", "dev").Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.API.AllowedOrigins)
}
