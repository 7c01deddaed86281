// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ManuGH/reservo/internal/config"
	"github.com/ManuGH/reservo/internal/daemon"
	xglog "github.com/ManuGH/reservo/internal/log"
	platformnet "github.com/ManuGH/reservo/internal/platform/net"
	"github.com/ManuGH/reservo/internal/version"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "config":
			os.Exit(runConfigCLI(os.Args[2:]))
		case "healthcheck":
			os.Exit(runHealthcheckCLI(os.Args[2:]))
		}
	}

	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	mockUpstream := flag.Bool("mock-upstream", false, "serve the built-in mock reservation service")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("reservod"))
		os.Exit(0)
	}

	// Safe defaults until config is loaded
	xglog.Configure(xglog.Config{
		Level:   "info",
		Service: "reservod",
		Version: version.Version,
	})
	logger := xglog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *mockUpstream {
		// Via env so SIGHUP reloads keep the mock.
		_ = os.Setenv(config.EnvPrefix+"MOCK_UPSTREAM", "true")
	}

	path := strings.TrimSpace(*configPath)
	loader := config.NewLoader(path, version.Version)
	cfg, err := loader.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", path).
			Msg("failed to load configuration")
	}

	xglog.Configure(xglog.Config{
		Level:   cfg.Log.Level,
		Service: "reservod",
		Version: cfg.Version,
	})
	logger = xglog.WithComponent("daemon")

	source := "env+defaults"
	if path != "" {
		source = "file"
	}
	logger.Info().
		Str("event", "config.loaded").
		Str("source", source).
		Str("path", path).
		Msg("configuration loaded")

	if unknown := loader.UnknownEnvKeys(os.Environ()); len(unknown) > 0 {
		logger.Warn().
			Str("event", "config.unknown_env").
			Strs("keys", unknown).
			Msg("ignoring unknown environment keys")
	}

	logger.Info().
		Str("event", "startup").
		Str("version", version.Version).
		Str("commit", version.Commit).
		Str("build_date", version.Date).
		Str("addr", cfg.API.ListenAddr).
		Msg("starting reservod")
	logger.Info().Msgf("→ Upstream: %s (mock: %v)", platformnet.SanitizeURL(cfg.Upstream.BaseURL), cfg.Upstream.Mock)
	logger.Info().Msgf("→ Selection store: %s", cfg.Selection.Backend)
	if cfg.Journal.Path != "" {
		logger.Info().Msgf("→ Journal: %s", cfg.Journal.Path)
	}
	if !cfg.Auth.ForwardClientToken && cfg.Auth.Token == "" && cfg.Auth.TokenFile == "" {
		logger.Warn().
			Str("security", "none").
			Msg("→ Upstream auth: no token source configured, requests go out unauthenticated")
	}

	rt, err := daemon.Bootstrap(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "bootstrap.failed").
			Msg("failed to wire runtime")
	}

	cfgHolder := config.NewConfigHolder(cfg, loader, path)
	app := daemon.NewApp(logger, rt.Manager, cfgHolder, rt.API)
	if err := app.Run(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.failed").
			Msg("daemon app failed")
	}

	logger.Info().Msg("server exiting")
}
