// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Command reservoctl drives the reservation service from a terminal: the same
// flow controller, waiting-list poller and countdown reservod uses, without
// the browser in between.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ManuGH/reservo/internal/auth"
	"github.com/ManuGH/reservo/internal/config"
	xglog "github.com/ManuGH/reservo/internal/log"
	"github.com/ManuGH/reservo/internal/reservation"
	"github.com/ManuGH/reservo/internal/version"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, args []string, out, errOut io.Writer) int
}

func commands() []command {
	return []command{
		{"reserve", "reserve --event ID [--user-type client|staff] [--out file.json]", runReserve},
		{"status", "status --event ID [--watch] [--interval 30s]", runStatus},
		{"show", "show --file file.json [--remaining]", runShow},
		{"leave", "leave --event ID", runLeave},
		{"pay", "pay --event ID --spot ID [--email E] [--method M] [--amount-cents N]", runPay},
		{"cancel", "cancel --ticket ID", runCancel},
		{"countdown", "countdown --ticket ID [--once] [--interval 1s]", runCountdown},
		{"journal", "journal verify --path journal.db [--full] | journal list --path journal.db --flow ID", runJournal},
		{"mock", "mock [--addr 127.0.0.1:8585] [--event ID=CAPACITY ...]", runMock},
	}
}

func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	xglog.Configure(xglog.Config{
		Level:   config.ParseString(config.EnvPrefix+"LOG_LEVEL", "warn"),
		Output:  errOut,
		Service: "reservoctl",
		Version: version.Version,
	})

	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(errOut)
		return exitUsage
	}
	if args[0] == "version" || args[0] == "--version" {
		fmt.Fprintln(out, version.String("reservoctl"))
		return exitOK
	}
	for _, c := range commands() {
		if c.name == args[0] {
			return c.run(ctx, args[1:], out, errOut)
		}
	}
	fmt.Fprintf(errOut, "Unknown command: %s\n\n", args[0])
	usage(errOut)
	return exitUsage
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	for _, c := range commands() {
		fmt.Fprintf(w, "  reservoctl %s\n", c.usage)
	}
	fmt.Fprintln(w, "\nUpstream flags (all commands talking to the service):")
	fmt.Fprintln(w, "  --url URL         reservation service base URL (env RESERVO_UPSTREAM_URL)")
	fmt.Fprintln(w, "  --token T         bearer token (env RESERVO_TOKEN)")
	fmt.Fprintln(w, "  --token-file F    file holding the bearer token, re-read per request")
	fmt.Fprintln(w, "  --timeout D       per-request timeout")
}

// upstreamFlags are shared by every command that calls the service.
type upstreamFlags struct {
	url       string
	token     string
	tokenFile string
	timeout   time.Duration
	retries   int
}

func bindUpstream(fs *flag.FlagSet) *upstreamFlags {
	u := &upstreamFlags{}
	fs.StringVar(&u.url, "url", config.ParseString(config.EnvPrefix+"UPSTREAM_URL", ""), "reservation service base URL")
	fs.StringVar(&u.token, "token", "", "bearer token")
	fs.StringVar(&u.tokenFile, "token-file", config.ParseString(config.EnvPrefix+"TOKEN_FILE", ""), "file holding the bearer token")
	fs.DurationVar(&u.timeout, "timeout", config.ParseDuration(config.EnvPrefix+"UPSTREAM_TIMEOUT", 10*time.Second), "per-request timeout")
	fs.IntVar(&u.retries, "retries", 2, "retries for idempotent requests")
	return u
}

func (u *upstreamFlags) client() (*reservation.Client, error) {
	if u.url == "" {
		return nil, fmt.Errorf("--url is required (or set %sUPSTREAM_URL)", config.EnvPrefix)
	}
	var chain auth.Chain
	if u.token != "" {
		chain = append(chain, auth.StaticToken(u.token))
	}
	if u.tokenFile != "" {
		chain = append(chain, auth.FileSource{Path: u.tokenFile})
	}
	chain = append(chain, auth.EnvSource{Key: config.EnvPrefix + "TOKEN"})

	return reservation.New(u.url, reservation.Options{
		Timeout:    u.timeout,
		Tokens:     chain,
		Breaker:    reservation.NewBreaker(0, 0),
		MaxRetries: u.retries,
		UserAgent:  "reservoctl/" + version.Version,
	})
}

func newFlagSet(name string, errOut io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("reservoctl "+name, flag.ContinueOnError)
	fs.SetOutput(errOut)
	return fs
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// fail prints the user-facing message for err and returns exitFail.
func fail(errOut io.Writer, err error) int {
	kind := reservation.KindOf(err)
	fmt.Fprintf(errOut, "error (%s): %s\n", kind, reservation.MessageOf(err))
	return exitFail
}
