// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config loads reservod configuration.
//
// Precedence is ENV > File > Defaults. The YAML file is parsed strictly:
// unknown keys are rejected. Every environment key carries the RESERVO_
// prefix. ConfigHolder keeps the active configuration and reloads it when
// the file changes or on SIGHUP.
package config
