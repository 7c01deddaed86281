// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is carried by every environment key the loader reads.
const EnvPrefix = "RESERVO_"

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

func (l *Loader) envString(key, def string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, def)
}

func (l *Loader) envBool(key string, def bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, def)
}

func (l *Loader) envInt(key string, def int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, def)
}

func (l *Loader) envDuration(key string, def time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, def)
}

func (l *Loader) envFloat(key string, def float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, def)
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		Upstream: UpstreamConfig{
			Timeout:          10 * time.Second,
			MaxRetries:       2,
			Backoff:          200 * time.Millisecond,
			MaxBackoff:       2 * time.Second,
			RateLimit:        10,
			RateBurst:        20,
			BreakerThreshold: 5,
			BreakerReset:     30 * time.Second,
		},
		Auth: AuthConfig{ForwardClientToken: true},
		API: APIConfig{
			ListenAddr:         "127.0.0.1:8484",
			MetricsAddr:        "127.0.0.1:9484",
			RateLimit:          600,
			SessionIdleTimeout: 30 * time.Minute,
			ShutdownTimeout:    10 * time.Second,
		},
		Polling: PollingConfig{
			WaitingListInterval: 30 * time.Second,
			CountdownInterval:   time.Second,
			CountdownWindow:     600,
		},
		Selection: SelectionConfig{
			Backend: SelectionMemory,
			TTL:     24 * time.Hour,
		},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			Insecure:     true,
			SamplingRate: 1.0,
			Environment:  "production",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load loads configuration with precedence: ENV > File > Defaults.
// Order is strict: Defaults -> Parse File (strict) -> Apply Env -> Validate.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	l.mergeEnvConfig(&cfg)
	cfg.Version = l.version

	if cfg.Selection.BadgerPath != "" {
		if abs, err := filepath.Abs(cfg.Selection.BadgerPath); err == nil {
			cfg.Selection.BadgerPath = abs
		}
	}

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile decodes the YAML file on top of cfg. Unknown fields are fatal.
func (l *Loader) loadFile(path string, cfg *AppConfig) error {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "not found in type") {
			return fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return nil
}

func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	u := &cfg.Upstream
	u.BaseURL = l.envString(EnvPrefix+"UPSTREAM_URL", u.BaseURL)
	u.Mock = l.envBool(EnvPrefix+"MOCK_UPSTREAM", u.Mock)
	u.Timeout = l.envDuration(EnvPrefix+"UPSTREAM_TIMEOUT", u.Timeout)
	u.MaxRetries = l.envInt(EnvPrefix+"UPSTREAM_MAX_RETRIES", u.MaxRetries)
	u.Backoff = l.envDuration(EnvPrefix+"UPSTREAM_BACKOFF", u.Backoff)
	u.MaxBackoff = l.envDuration(EnvPrefix+"UPSTREAM_MAX_BACKOFF", u.MaxBackoff)
	u.RateLimit = l.envFloat(EnvPrefix+"UPSTREAM_RATE_LIMIT", u.RateLimit)
	u.RateBurst = l.envInt(EnvPrefix+"UPSTREAM_RATE_BURST", u.RateBurst)
	u.BreakerThreshold = l.envInt(EnvPrefix+"BREAKER_THRESHOLD", u.BreakerThreshold)
	u.BreakerReset = l.envDuration(EnvPrefix+"BREAKER_RESET", u.BreakerReset)

	a := &cfg.Auth
	a.ForwardClientToken = l.envBool(EnvPrefix+"FORWARD_CLIENT_TOKEN", a.ForwardClientToken)
	a.Token = l.envString(EnvPrefix+"TOKEN", a.Token)
	a.TokenFile = l.envString(EnvPrefix+"TOKEN_FILE", a.TokenFile)

	api := &cfg.API
	api.ListenAddr = l.envString(EnvPrefix+"LISTEN_ADDR", api.ListenAddr)
	api.MetricsAddr = l.envString(EnvPrefix+"METRICS_ADDR", api.MetricsAddr)
	if v := l.envString(EnvPrefix+"ALLOWED_ORIGINS", ""); v != "" {
		api.AllowedOrigins = splitCSV(v)
	}
	api.RateLimit = l.envInt(EnvPrefix+"API_RATE_LIMIT", api.RateLimit)
	api.SessionIdleTimeout = l.envDuration(EnvPrefix+"SESSION_IDLE_TIMEOUT", api.SessionIdleTimeout)
	api.ShutdownTimeout = l.envDuration(EnvPrefix+"SHUTDOWN_TIMEOUT", api.ShutdownTimeout)

	p := &cfg.Polling
	p.WaitingListInterval = l.envDuration(EnvPrefix+"WAITLIST_POLL_INTERVAL", p.WaitingListInterval)
	p.CountdownInterval = l.envDuration(EnvPrefix+"COUNTDOWN_INTERVAL", p.CountdownInterval)
	p.CountdownWindow = l.envInt(EnvPrefix+"COUNTDOWN_WINDOW_SECONDS", p.CountdownWindow)

	s := &cfg.Selection
	s.Backend = l.envString(EnvPrefix+"SELECTION_BACKEND", s.Backend)
	s.TTL = l.envDuration(EnvPrefix+"SELECTION_TTL", s.TTL)
	s.RedisAddr = l.envString(EnvPrefix+"REDIS_ADDR", s.RedisAddr)
	s.RedisPassword = l.envString(EnvPrefix+"REDIS_PASSWORD", s.RedisPassword)
	s.RedisDB = l.envInt(EnvPrefix+"REDIS_DB", s.RedisDB)
	s.BadgerPath = l.envString(EnvPrefix+"BADGER_PATH", s.BadgerPath)

	cfg.Journal.Path = l.envString(EnvPrefix+"JOURNAL_PATH", cfg.Journal.Path)

	t := &cfg.Telemetry
	t.Enabled = l.envBool(EnvPrefix+"TRACING_ENABLED", t.Enabled)
	t.Exporter = l.envString(EnvPrefix+"TRACING_EXPORTER", t.Exporter)
	t.Endpoint = l.envString(EnvPrefix+"TRACING_ENDPOINT", t.Endpoint)
	t.Insecure = l.envBool(EnvPrefix+"TRACING_INSECURE", t.Insecure)
	t.SamplingRate = l.envFloat(EnvPrefix+"TRACING_SAMPLING_RATE", t.SamplingRate)
	t.Environment = l.envString(EnvPrefix+"ENVIRONMENT", t.Environment)

	cfg.Log.Level = l.envString(EnvPrefix+"LOG_LEVEL", cfg.Log.Level)
}

// UnknownEnvKeys lists RESERVO_* variables in environ the loader never read.
// Call after Load.
func (l *Loader) UnknownEnvKeys(environ []string) []string {
	var out []string
	for _, kv := range environ {
		key, _, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		if _, ok := l.ConsumedEnvKeys[key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
