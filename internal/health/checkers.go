// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package health

import (
	"context"

	"github.com/ManuGH/reservo/internal/resilience"
)

// BreakerSource exposes the state of an upstream circuit breaker.
type BreakerSource interface {
	State() resilience.State
}

// UpstreamChecker reports the reservation service as seen through its
// circuit breaker. An open breaker means recent technical failures; the
// daemon stays ready because every flow surfaces those errors itself.
type UpstreamChecker struct {
	name    string
	breaker BreakerSource
}

func NewUpstreamChecker(name string, b BreakerSource) *UpstreamChecker {
	return &UpstreamChecker{name: name, breaker: b}
}

func (c *UpstreamChecker) Name() string { return c.name }

func (c *UpstreamChecker) Check(context.Context) CheckResult {
	if c.breaker == nil {
		return CheckResult{Status: StatusHealthy, Message: "no breaker configured"}
	}
	switch st := c.breaker.State(); st {
	case resilience.StateOpen:
		return CheckResult{Status: StatusDegraded, Message: "circuit open", Error: "upstream failing"}
	case resilience.StateHalfOpen:
		return CheckResult{Status: StatusDegraded, Message: "circuit half-open"}
	default:
		return CheckResult{Status: StatusHealthy, Message: string(st)}
	}
}

// PingChecker wraps a reachability probe such as a Redis PING or a
// database ping. Failures are unhealthy when Required, degraded otherwise.
type PingChecker struct {
	name     string
	ping     func(ctx context.Context) error
	Required bool
}

func NewPingChecker(name string, ping func(ctx context.Context) error, required bool) *PingChecker {
	return &PingChecker{name: name, ping: ping, Required: required}
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Check(ctx context.Context) CheckResult {
	if err := c.ping(ctx); err != nil {
		st := StatusDegraded
		if c.Required {
			st = StatusUnhealthy
		}
		return CheckResult{Status: st, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy, Message: "reachable"}
}
