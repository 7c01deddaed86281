// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/ManuGH/reservo/internal/journal"
	"github.com/ManuGH/reservo/internal/persistence/sqlite"
)

func runJournal(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "Usage: reservoctl journal verify|list --path journal.db")
		return exitUsage
	}
	sub := args[0]
	fs := newFlagSet("journal "+sub, errOut)
	path := fs.String("path", "", "journal database")
	full := fs.Bool("full", false, "run integrity_check instead of quick_check")
	flowID := fs.String("flow", "", "flow id to list")
	limit := fs.Int("limit", 0, "maximum entries, 0 for all")
	if err := fs.Parse(args[1:]); err != nil {
		return exitUsage
	}
	if *path == "" {
		fmt.Fprintln(errOut, "--path is required")
		return exitUsage
	}

	j, err := journal.Open(ctx, *path)
	if err != nil {
		fmt.Fprintf(errOut, "open journal: %v\n", err)
		return exitFail
	}
	defer j.Close()

	switch sub {
	case "verify":
		mode := sqlite.VerifyQuick
		if *full {
			mode = sqlite.VerifyFull
		}
		issues, err := j.Verify(ctx, mode)
		if err != nil {
			fmt.Fprintf(errOut, "verify: %v\n", err)
			return exitFail
		}
		if len(issues) > 0 {
			for _, issue := range issues {
				fmt.Fprintf(out, "✗ %s\n", issue)
			}
			return exitFail
		}
		fmt.Fprintf(out, "✓ %s passed %s check\n", *path, mode)
		return exitOK
	case "list":
		if *flowID == "" {
			fmt.Fprintln(errOut, "--flow is required")
			return exitUsage
		}
		entries, err := j.List(ctx, *flowID, *limit)
		if err != nil {
			fmt.Fprintf(errOut, "list: %v\n", err)
			return exitFail
		}
		printJSON(out, entries)
		return exitOK
	default:
		fmt.Fprintf(errOut, "Unknown journal subcommand: %s\n", sub)
		return exitUsage
	}
}
