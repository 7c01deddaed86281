// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/reservo/internal/api"
	"github.com/ManuGH/reservo/internal/config"
	xglog "github.com/ManuGH/reservo/internal/log"
	"github.com/rs/zerolog"
)

// App owns the long-lived runtime lifecycle (config watcher, reload wiring,
// session sweeper) and delegates server management to Manager.
type App struct {
	logger       zerolog.Logger
	manager      Manager
	cfgHolder    *config.ConfigHolder
	apiServer    *api.Server
	reloadSignal os.Signal

	// applyLogLevel is swapped in tests.
	applyLogLevel func(level, version string)
}

// NewApp creates a new App orchestrator. cfgHolder and apiServer may be nil.
func NewApp(logger zerolog.Logger, manager Manager, cfgHolder *config.ConfigHolder, apiServer *api.Server) *App {
	return &App{
		logger:       logger,
		manager:      manager,
		cfgHolder:    cfgHolder,
		apiServer:    apiServer,
		reloadSignal: syscall.SIGHUP,
		applyLogLevel: func(level, version string) {
			xglog.Configure(xglog.Config{Level: level, Service: "reservod", Version: version})
		},
	}
}

// Run starts all owned background subsystems and blocks until ctx is cancelled or a fatal error occurs.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	g, ctx := errgroup.WithContext(ctx)

	// Config watcher is best-effort: startup should not fail if watcher cannot be started.
	if a.cfgHolder != nil {
		if err := a.cfgHolder.StartWatcher(ctx); err != nil {
			a.logger.Warn().Err(err).Str("event", "config.watcher_start_failed").Msg("failed to start config watcher")
		}

		applyCh := make(chan config.AppConfig, 1)
		a.cfgHolder.RegisterListener(applyCh)
		current := a.cfgHolder.Get()

		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case next := <-applyCh:
					a.apply(current, next)
					current = next
				}
			}
		})
	}

	// SIGHUP trigger for manual reload.
	if a.cfgHolder != nil && a.reloadSignal != nil {
		g.Go(func() error {
			hupChan := make(chan os.Signal, 1)
			signal.Notify(hupChan, a.reloadSignal)
			defer signal.Stop(hupChan)

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-hupChan:
					a.logger.Info().
						Str("event", "config.reload_signal").
						Str("signal", a.reloadSignal.String()).
						Msg("received reload signal, reloading config")

					if err := a.cfgHolder.Reload(context.Background()); err != nil {
						a.logger.Warn().
							Err(err).
							Str("event", "config.reload_failed").
							Msg("config reload failed")
					}
				}
			}
		})
	}

	if a.apiServer != nil {
		g.Go(func() error { return a.apiServer.Run(ctx) })
	}

	// Main server lifecycle.
	g.Go(func() error {
		err := a.manager.Start(ctx)
		if err != nil {
			_ = a.manager.Shutdown(context.Background())
		}
		return err
	})

	return g.Wait()
}

// apply takes over the fields that are safe to change at runtime. Anything
// else needs a restart and is only reported.
func (a *App) apply(prev, next config.AppConfig) {
	var restart []string
	for _, path := range config.Diff(prev, next) {
		if path == "log.level" {
			a.applyLogLevel(next.Log.Level, next.Version)
			a.logger.Info().
				Str("event", "config.log_level_applied").
				Str("level", next.Log.Level).
				Msg("log level changed")
			continue
		}
		restart = append(restart, path)
	}
	if len(restart) > 0 {
		a.logger.Warn().
			Str("event", "config.restart_required").
			Strs("fields", restart).
			Msg("changed settings take effect after restart")
	}
}
