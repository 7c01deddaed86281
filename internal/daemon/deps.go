// SPDX-License-Identifier: MIT

package daemon

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ServerConfig holds listener addresses and HTTP server timeouts.
type ServerConfig struct {
	ListenAddr      string
	MetricsAddr     string // empty disables the metrics listener
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int
}

// DefaultServerConfig returns conservative timeouts. WriteTimeout leaves room
// for a payment call with retries behind it.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		ListenAddr:      "127.0.0.1:8484",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    60 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxHeaderBytes:  1 << 20,
	}
}

// Deps contains dependencies required by the daemon Manager.
type Deps struct {
	Logger         zerolog.Logger
	APIHandler     http.Handler
	MetricsHandler http.Handler
}

// Validate checks if the dependencies are valid.
func (d *Deps) Validate() error {
	if d.Logger.GetLevel() == zerolog.Disabled {
		return ErrMissingLogger
	}
	if d.APIHandler == nil {
		return ErrMissingAPIHandler
	}
	return nil
}
