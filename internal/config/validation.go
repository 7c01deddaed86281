// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"errors"
	"fmt"
	"net"

	platformnet "github.com/ManuGH/reservo/internal/platform/net"
	"github.com/rs/zerolog"
)

// Validate checks cfg and joins every problem found into one error.
func Validate(cfg AppConfig) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	u := cfg.Upstream
	if !u.Mock {
		if u.BaseURL == "" {
			add("upstream.baseUrl is required unless upstream.mock is set")
		} else if _, err := platformnet.ParseServiceURL(u.BaseURL); err != nil {
			add("upstream.baseUrl %q: %v", platformnet.SanitizeURL(u.BaseURL), err)
		}
	}
	if u.Timeout <= 0 {
		add("upstream.timeout must be positive")
	}
	if u.MaxRetries < 0 || u.MaxRetries > 10 {
		add("upstream.maxRetries must be between 0 and 10")
	}
	if u.RateLimit < 0 {
		add("upstream.rateLimit must not be negative")
	}
	if u.BreakerThreshold <= 0 {
		add("upstream.breakerThreshold must be positive")
	}

	for name, addr := range map[string]string{"api.listenAddr": cfg.API.ListenAddr, "api.metricsAddr": cfg.API.MetricsAddr} {
		if addr == "" && name == "api.metricsAddr" {
			continue
		}
		if _, _, err := net.SplitHostPort(addr); err != nil {
			add("%s %q: %v", name, addr, err)
		}
	}
	if cfg.API.RateLimit < 0 {
		add("api.rateLimit must not be negative")
	}
	if cfg.API.SessionIdleTimeout <= 0 {
		add("api.sessionIdleTimeout must be positive")
	}

	if cfg.Polling.WaitingListInterval <= 0 || cfg.Polling.CountdownInterval <= 0 {
		add("polling intervals must be positive")
	}
	if cfg.Polling.CountdownWindow <= 0 {
		add("polling.countdownWindowSeconds must be positive")
	}

	switch cfg.Selection.Backend {
	case SelectionMemory:
	case SelectionRedis:
		if cfg.Selection.RedisAddr == "" {
			add("selection.redisAddr is required for the redis backend")
		}
	case SelectionBadger:
		if cfg.Selection.BadgerPath == "" {
			add("selection.badgerPath is required for the badger backend")
		}
	default:
		add("selection.backend %q: want memory, redis or badger", cfg.Selection.Backend)
	}
	if cfg.Selection.TTL < 0 {
		add("selection.ttl must not be negative")
	}

	if cfg.Telemetry.Enabled {
		switch cfg.Telemetry.Exporter {
		case "grpc", "http", "noop":
		default:
			add("telemetry.exporter %q: want grpc, http or noop", cfg.Telemetry.Exporter)
		}
		if cfg.Telemetry.SamplingRate < 0 || cfg.Telemetry.SamplingRate > 1 {
			add("telemetry.samplingRate must be within [0,1]")
		}
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		add("log.level %q: %v", cfg.Log.Level, err)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
