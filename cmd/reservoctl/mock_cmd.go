// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/reservo/internal/reservation"
)

// eventFlags collects repeated --event id=capacity values.
type eventFlags map[string]int

func (e eventFlags) String() string { return fmt.Sprint(map[string]int(e)) }

func (e eventFlags) Set(v string) error {
	id, capStr, ok := strings.Cut(v, "=")
	if !ok || id == "" {
		return fmt.Errorf("want ID=CAPACITY, got %q", v)
	}
	n, err := strconv.Atoi(capStr)
	if err != nil || n < 0 {
		return fmt.Errorf("invalid capacity %q", capStr)
	}
	e[id] = n
	return nil
}

func runMock(ctx context.Context, args []string, out, errOut io.Writer) int {
	fs := newFlagSet("mock", errOut)
	addr := fs.String("addr", "127.0.0.1:8585", "listen address")
	token := fs.String("require-token", "", "reject requests without this bearer token")
	events := eventFlags{}
	fs.Var(events, "event", "event capacity as ID=CAPACITY (repeatable)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	mock := reservation.NewMockBackend()
	for id, capacity := range events {
		mock.AddEvent(id, capacity)
	}
	if *token != "" {
		mock.RequireToken(*token)
	}

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		fmt.Fprintf(errOut, "listen: %v\n", err)
		return exitFail
	}
	srv := &http.Server{Handler: mock.Handler(), ReadHeaderTimeout: 5 * time.Second}
	fmt.Fprintf(out, "mock reservation service on http://%s\n", ln.Addr())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(errOut, "serve: %v\n", err)
			return exitFail
		}
		return exitOK
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return exitOK
	}
}
