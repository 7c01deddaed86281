// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ManuGH/reservo/internal/api"
	"github.com/ManuGH/reservo/internal/api/middleware"
	"github.com/ManuGH/reservo/internal/auth"
	"github.com/ManuGH/reservo/internal/config"
	"github.com/ManuGH/reservo/internal/health"
	"github.com/ManuGH/reservo/internal/journal"
	platformnet "github.com/ManuGH/reservo/internal/platform/net"
	"github.com/ManuGH/reservo/internal/reservation"
	"github.com/ManuGH/reservo/internal/selection"
	"github.com/ManuGH/reservo/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Runtime is everything Bootstrap wired. Manager owns the listeners and the
// shutdown hooks that release the rest.
type Runtime struct {
	Manager  Manager
	API      *api.Server
	Health   *health.Manager
	Upstream *reservation.Client
	// MockURL is set when the built-in mock upstream is serving.
	MockURL string
}

// Bootstrap builds the service graph from cfg. base bounds session loops.
// Resources opened before a failure are released before returning.
func Bootstrap(base context.Context, cfg config.AppConfig, logger zerolog.Logger) (rt *Runtime, err error) {
	var cleanups []func(context.Context) error
	defer func() {
		if err == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.WithoutCancel(base), 5*time.Second)
		defer cancel()
		for i := len(cleanups) - 1; i >= 0; i-- {
			_ = cleanups[i](ctx)
		}
	}()
	type hook struct {
		name string
		fn   func(context.Context) error
	}
	var hooks []hook
	addHook := func(name string, fn func(context.Context) error) {
		hooks = append(hooks, hook{name, fn})
		cleanups = append(cleanups, fn)
	}

	tp, err := telemetry.NewProvider(base, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "reservod",
		ServiceVersion: cfg.Version,
		Environment:    cfg.Telemetry.Environment,
		UpstreamURL:    cfg.Upstream.BaseURL,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	addHook("telemetry", tp.Shutdown)

	baseURL := cfg.Upstream.BaseURL
	var mockURL string
	if cfg.Upstream.Mock {
		url, stop, mockErr := startMockUpstream(logger)
		if mockErr != nil {
			return nil, fmt.Errorf("mock upstream: %w", mockErr)
		}
		addHook("mock-upstream", stop)
		baseURL, mockURL = url, url
	}

	breaker := reservation.NewBreaker(cfg.Upstream.BreakerThreshold, cfg.Upstream.BreakerReset)
	upstream, err := reservation.New(baseURL, reservation.Options{
		Timeout:        cfg.Upstream.Timeout,
		Tokens:         tokenSource(cfg.Auth),
		Breaker:        breaker,
		MaxRetries:     cfg.Upstream.MaxRetries,
		Backoff:        cfg.Upstream.Backoff,
		MaxBackoff:     cfg.Upstream.MaxBackoff,
		RateLimit:      rate.Limit(cfg.Upstream.RateLimit),
		RateLimitBurst: cfg.Upstream.RateBurst,
		UserAgent:      "reservod/" + cfg.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("reservation client: %w", err)
	}

	hm := health.NewManager(cfg.Version)
	hm.RegisterChecker(health.NewUpstreamChecker("upstream", breaker))

	sel, err := openSelection(cfg.Selection, logger, hm)
	if err != nil {
		return nil, err
	}
	addHook("selection", func(context.Context) error { return sel.Close() })

	var jr *journal.Journal
	if cfg.Journal.Path != "" {
		jr, err = journal.Open(base, cfg.Journal.Path)
		if err != nil {
			return nil, fmt.Errorf("journal: %w", err)
		}
		hm.RegisterChecker(health.NewPingChecker("journal", jr.Ping, true))
		addHook("journal", func(context.Context) error { return jr.Close() })
	}

	tracing := ""
	if cfg.Telemetry.Enabled {
		tracing = "reservod"
	}
	srv := api.New(base, api.Config{
		Stack: middleware.StackConfig{
			AllowedOrigins:        cfg.API.AllowedOrigins,
			EnableSecurityHeaders: true,
			EnableMetrics:         true,
			TracingService:        tracing,
			EnableLogging:         true,
			RateLimitPerMinute:    cfg.API.RateLimit,
		},
		SessionIdleTimeout:  cfg.API.SessionIdleTimeout,
		WaitingListInterval: cfg.Polling.WaitingListInterval,
		CountdownInterval:   cfg.Polling.CountdownInterval,
		CountdownWindow:     time.Duration(cfg.Polling.CountdownWindow) * time.Second,
	}, api.Deps{
		Upstream:  upstream,
		Selection: sel,
		Journal:   jr,
		Health:    hm,
	})
	// Sessions stop before the stores they write to close.
	addHook("sessions", func(context.Context) error { srv.Close(); return nil })

	serverCfg := DefaultServerConfig()
	serverCfg.ListenAddr = cfg.API.ListenAddr
	serverCfg.MetricsAddr = cfg.API.MetricsAddr
	if cfg.API.ShutdownTimeout > 0 {
		serverCfg.ShutdownTimeout = cfg.API.ShutdownTimeout
	}
	mgr, err := NewManager(serverCfg, Deps{
		Logger:         logger,
		APIHandler:     srv.Handler(),
		MetricsHandler: promhttp.Handler(),
	})
	if err != nil {
		return nil, err
	}
	for _, h := range hooks {
		mgr.RegisterShutdownHook(h.name, h.fn)
	}

	logger.Info().
		Str("upstream", platformnet.SanitizeURL(baseURL)).
		Bool("mock", cfg.Upstream.Mock).
		Str("selection", cfg.Selection.Backend).
		Bool("journal", jr != nil).
		Msg("runtime wired")

	return &Runtime{
		Manager:  mgr,
		API:      srv,
		Health:   hm,
		Upstream: upstream,
		MockURL:  mockURL,
	}, nil
}

// tokenSource builds the upstream credential chain. The browser's own token
// wins when forwarding is enabled; file and static tokens act as fallbacks.
func tokenSource(cfg config.AuthConfig) auth.TokenSource {
	var chain auth.Chain
	if cfg.ForwardClientToken {
		chain = append(chain, auth.ContextSource{})
	}
	if cfg.TokenFile != "" {
		chain = append(chain, &auth.Shared{Source: auth.FileSource{Path: cfg.TokenFile}})
	}
	if cfg.Token != "" {
		chain = append(chain, auth.StaticToken(cfg.Token))
	}
	if len(chain) == 0 {
		return nil
	}
	return chain
}

func openSelection(cfg config.SelectionConfig, logger zerolog.Logger, hm *health.Manager) (*selection.Service, error) {
	var store selection.Store
	switch cfg.Backend {
	case config.SelectionRedis:
		rs, err := selection.NewRedisStore(selection.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("selection redis: %w", err)
		}
		hm.RegisterChecker(health.NewPingChecker("selection", rs.HealthCheck, false))
		store = rs
	case config.SelectionBadger:
		bs, err := selection.OpenBadgerStore(cfg.BadgerPath)
		if err != nil {
			return nil, fmt.Errorf("selection badger: %w", err)
		}
		store = bs
	case config.SelectionMemory, "":
		store = selection.NewMemoryStore()
	default:
		return nil, fmt.Errorf("selection: unknown backend %q", cfg.Backend)
	}
	return selection.NewService(store, selection.TTLPolicy{MaxAge: cfg.TTL}), nil
}

// startMockUpstream serves the in-process mock reservation service on a
// loopback port for demos and local front-end work.
func startMockUpstream(logger zerolog.Logger) (string, func(context.Context) error, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, err
	}
	mock := reservation.NewMockBackend()
	srv := &http.Server{
		Handler:           mock.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("event", "mock_upstream.failed").Msg("mock upstream stopped")
		}
	}()
	url := "http://" + ln.Addr().String()
	logger.Warn().Str("url", url).Msg("serving mock reservation upstream")
	return url, srv.Shutdown, nil
}
