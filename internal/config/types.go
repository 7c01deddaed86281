// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import "time"

// Selection backends.
const (
	SelectionMemory = "memory"
	SelectionRedis  = "redis"
	SelectionBadger = "badger"
)

// AppConfig is the complete reservod configuration.
type AppConfig struct {
	Version string `yaml:"-"`

	Upstream  UpstreamConfig  `yaml:"upstream"`
	Auth      AuthConfig      `yaml:"auth"`
	API       APIConfig       `yaml:"api"`
	Polling   PollingConfig   `yaml:"polling"`
	Selection SelectionConfig `yaml:"selection"`
	Journal   JournalConfig   `yaml:"journal"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
}

// UpstreamConfig describes the remote reservation service.
type UpstreamConfig struct {
	BaseURL          string        `yaml:"baseUrl"`
	Mock             bool          `yaml:"mock"`
	Timeout          time.Duration `yaml:"timeout"`
	MaxRetries       int           `yaml:"maxRetries"`
	Backoff          time.Duration `yaml:"backoff"`
	MaxBackoff       time.Duration `yaml:"maxBackoff"`
	RateLimit        float64       `yaml:"rateLimit"`
	RateBurst        int           `yaml:"rateBurst"`
	BreakerThreshold int           `yaml:"breakerThreshold"`
	BreakerReset     time.Duration `yaml:"breakerReset"`
}

// AuthConfig selects where upstream bearer tokens come from. The browser's
// own token always wins when ForwardClientToken is set.
type AuthConfig struct {
	ForwardClientToken bool   `yaml:"forwardClientToken"`
	Token              string `yaml:"token"`
	TokenFile          string `yaml:"tokenFile"`
}

// APIConfig configures the local HTTP surface.
type APIConfig struct {
	ListenAddr         string        `yaml:"listenAddr"`
	MetricsAddr        string        `yaml:"metricsAddr"`
	AllowedOrigins     []string      `yaml:"allowedOrigins"`
	RateLimit          int           `yaml:"rateLimit"` // requests per minute per client IP, 0 disables
	SessionIdleTimeout time.Duration `yaml:"sessionIdleTimeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdownTimeout"`
}

// PollingConfig holds poller defaults; clients may override per watch.
type PollingConfig struct {
	WaitingListInterval time.Duration `yaml:"waitingListInterval"`
	CountdownInterval   time.Duration `yaml:"countdownInterval"`
	CountdownWindow     int           `yaml:"countdownWindowSeconds"`
}

// SelectionConfig chooses the event selection store.
type SelectionConfig struct {
	Backend       string        `yaml:"backend"`
	TTL           time.Duration `yaml:"ttl"`
	RedisAddr     string        `yaml:"redisAddr"`
	RedisPassword string        `yaml:"redisPassword"`
	RedisDB       int           `yaml:"redisDb"`
	BadgerPath    string        `yaml:"badgerPath"`
}

// JournalConfig enables the SQLite transition journal when Path is set.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// TelemetryConfig mirrors telemetry.Config.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	Insecure     bool    `yaml:"insecure"`
	SamplingRate float64 `yaml:"samplingRate"`
	Environment  string  `yaml:"environment"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}
