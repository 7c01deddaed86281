// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/reservo/internal/log"
	"github.com/rs/zerolog"
)

func isSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "token") || strings.Contains(k, "password")
}

// lookup returns the non-empty value of key and logs where the value came from.
func lookup(logger zerolog.Logger, key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	ev := logger.Debug().Str("key", key).Str("source", "environment")
	if isSensitiveKey(key) {
		ev = ev.Bool("sensitive", true)
	} else {
		ev = ev.Str("value", v)
	}
	ev.Msg("using environment variable")
	return v, true
}

func parseWith[T any](key string, def T, parse func(string) (T, error)) T {
	logger := log.WithComponent("config")
	v, ok := lookup(logger, key)
	if !ok {
		return def
	}
	out, err := parse(v)
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Err(err).
			Msg("invalid environment variable, using default")
		return def
	}
	return out
}

// ParseString reads a string from the environment or returns def.
func ParseString(key, def string) string {
	return parseWith(key, def, func(s string) (string, error) { return s, nil })
}

// ParseInt reads an integer; parse errors fall back to def.
func ParseInt(key string, def int) int {
	return parseWith(key, def, strconv.Atoi)
}

// ParseDuration reads a Go duration such as "30s".
func ParseDuration(key string, def time.Duration) time.Duration {
	return parseWith(key, def, time.ParseDuration)
}

// ParseBool accepts "true", "false", "1", "0", "yes", "no" (case-insensitive).
func ParseBool(key string, def bool) bool {
	return parseWith(key, def, func(s string) (bool, error) {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes", "on":
			return true, nil
		case "no", "off":
			return false, nil
		}
		return strconv.ParseBool(s)
	})
}

func ParseFloat(key string, def float64) float64 {
	return parseWith(key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}
