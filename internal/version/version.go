// SPDX-License-Identifier: MIT

// Package version carries build metadata stamped in via ldflags.
package version

import "fmt"

var (
	// Version is the current application version, set with
	// -ldflags "-X github.com/ManuGH/reservo/internal/version.Version=...".
	Version = "dev"

	// Commit is the git short hash of the build.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// String renders the version line printed by --version.
func String(binary string) string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", binary, Version, Commit, Date)
}
