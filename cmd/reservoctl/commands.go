// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ManuGH/reservo/internal/countdown"
	"github.com/ManuGH/reservo/internal/flow"
	"github.com/ManuGH/reservo/internal/reservation"
	"github.com/ManuGH/reservo/internal/snapshot"
	"github.com/ManuGH/reservo/internal/waitlist"
)

func runReserve(ctx context.Context, args []string, out, errOut io.Writer) int {
	fs := newFlagSet("reserve", errOut)
	up := bindUpstream(fs)
	eventID := fs.String("event", "", "event id")
	userType := fs.String("user-type", string(reservation.UserClient), "client or staff")
	outPath := fs.String("out", "", "write the reservation record to this file")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	client, err := up.client()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return exitUsage
	}
	ctl := flow.New(client)
	if err := ctl.CheckAndReserve(ctx, *eventID, reservation.UserType(*userType)); err != nil {
		if errors.Is(err, flow.ErrInvalidEvent) || errors.Is(err, flow.ErrInvalidUserType) {
			fmt.Fprintln(errOut, err)
			return exitUsage
		}
		printJSON(out, ctl.Snapshot())
		return fail(errOut, err)
	}

	snap := ctl.Snapshot()
	printJSON(out, snap)
	if snap.InWaitingList {
		fmt.Fprintf(errOut, "event %s is full: added to the waiting list (reservoctl status --event %s --watch)\n", *eventID, *eventID)
		return exitOK
	}
	if *outPath != "" && snap.Record != nil {
		if err := snapshot.Write(ctx, *outPath, snap.FlowID, *snap.Record); err != nil {
			fmt.Fprintf(errOut, "write %s: %v\n", *outPath, err)
			return exitFail
		}
	}
	return exitOK
}

// runShow reads back a record exported by reserve --out and, with
// --remaining, asks the service how long the hold has left.
func runShow(ctx context.Context, args []string, out, errOut io.Writer) int {
	fs := newFlagSet("show", errOut)
	up := bindUpstream(fs)
	path := fs.String("file", "", "file written by reserve --out")
	remaining := fs.Bool("remaining", false, "also print the time left on the hold")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *path == "" {
		fmt.Fprintln(errOut, "--file is required")
		return exitUsage
	}
	doc, err := snapshot.Read(*path)
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", *path, err)
		return exitFail
	}
	printJSON(out, doc)
	if !*remaining {
		return exitOK
	}

	client, err := up.client()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return exitUsage
	}
	rt, err := client.RemainingTime(ctx, doc.Record.SpotID)
	if err != nil {
		return fail(errOut, err)
	}
	st := countdown.Compute(rt.RemainingSeconds, countdown.DefaultWindow)
	fmt.Fprintf(out, "%s left on %s\n", st.Formatted, doc.Record.SpotID)
	return exitOK
}

func runStatus(ctx context.Context, args []string, out, errOut io.Writer) int {
	fs := newFlagSet("status", errOut)
	up := bindUpstream(fs)
	eventID := fs.String("event", "", "event id")
	watch := fs.Bool("watch", false, "keep polling until promoted or interrupted")
	interval := fs.Duration("interval", 30*time.Second, "polling interval for --watch")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *eventID == "" {
		fmt.Fprintln(errOut, "--event is required")
		return exitUsage
	}
	client, err := up.client()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return exitUsage
	}

	if !*watch {
		st, err := client.WaitingListStatus(ctx, *eventID)
		if err != nil {
			return fail(errOut, err)
		}
		printJSON(out, st)
		return exitOK
	}

	promoted := make(chan struct{}, 1)
	h := waitlist.Start(ctx, client, waitlist.Options{
		EventID:         *eventID,
		PollingInterval: *interval,
		OnStatus:        func(s waitlist.Status) { printJSON(out, s) },
		OnError:         func(err error) { fmt.Fprintf(errOut, "poll failed: %s\n", reservation.MessageOf(err)) },
		OnPromoted: func() {
			select {
			case promoted <- struct{}{}:
			default:
			}
		},
	})
	defer h.Stop()

	select {
	case <-promoted:
		fmt.Fprintf(errOut, "promoted: a spot for %s is free, run reservoctl reserve --event %s\n", *eventID, *eventID)
		return exitOK
	case <-ctx.Done():
		return exitOK
	}
}

func runLeave(ctx context.Context, args []string, out, errOut io.Writer) int {
	fs := newFlagSet("leave", errOut)
	up := bindUpstream(fs)
	eventID := fs.String("event", "", "event id")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *eventID == "" {
		fmt.Fprintln(errOut, "--event is required")
		return exitUsage
	}
	client, err := up.client()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return exitUsage
	}

	res, err := client.LeaveWaitingList(ctx, *eventID)
	if err != nil {
		return fail(errOut, err)
	}
	printJSON(out, res)
	return exitOK
}

func runPay(ctx context.Context, args []string, out, errOut io.Writer) int {
	fs := newFlagSet("pay", errOut)
	up := bindUpstream(fs)
	var req reservation.PaymentRequest
	fs.StringVar(&req.EventID, "event", "", "event id")
	fs.StringVar(&req.SpotID, "spot", "", "spot id from the reservation")
	fs.StringVar(&req.Email, "email", "", "payer email")
	fs.StringVar(&req.PaymentMethod, "method", "", "payment method")
	fs.Int64Var(&req.AmountCents, "amount-cents", 0, "amount in cents")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if req.SpotID == "" || req.EventID == "" {
		fmt.Fprintln(errOut, "--event and --spot are required")
		return exitUsage
	}
	client, err := up.client()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return exitUsage
	}

	ctl := flow.New(client)
	resp, err := ctl.ProcessPayment(ctx, req)
	if err != nil {
		return fail(errOut, err)
	}
	printJSON(out, resp)
	if !resp.Paid() {
		fmt.Fprintf(errOut, "payment not settled yet (status %q)\n", resp.Status)
	}
	return exitOK
}

func runCancel(ctx context.Context, args []string, out, errOut io.Writer) int {
	fs := newFlagSet("cancel", errOut)
	up := bindUpstream(fs)
	ticketID := fs.String("ticket", "", "ticket (spot) id")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *ticketID == "" {
		fmt.Fprintln(errOut, "--ticket is required")
		return exitUsage
	}
	client, err := up.client()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return exitUsage
	}
	if err := client.CancelReservation(ctx, *ticketID); err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintf(out, "cancelled %s\n", *ticketID)
	return exitOK
}

func runCountdown(ctx context.Context, args []string, out, errOut io.Writer) int {
	fs := newFlagSet("countdown", errOut)
	up := bindUpstream(fs)
	ticketID := fs.String("ticket", "", "ticket (spot) id")
	once := fs.Bool("once", false, "print the remaining time once and exit")
	interval := fs.Duration("interval", time.Second, "refresh interval")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *ticketID == "" {
		fmt.Fprintln(errOut, "--ticket is required")
		return exitUsage
	}
	client, err := up.client()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return exitUsage
	}

	if *once {
		rt, err := client.RemainingTime(ctx, *ticketID)
		if err != nil {
			return fail(errOut, err)
		}
		st := countdown.Compute(rt.RemainingSeconds, countdown.DefaultWindow)
		st.TicketID = *ticketID
		fmt.Fprintln(out, st.Formatted)
		return exitOK
	}

	expired := make(chan struct{})
	h := countdown.Start(ctx, client, countdown.Options{
		TicketID:        *ticketID,
		Interval:        *interval,
		OnTick:          func(s countdown.State) { fmt.Fprintf(out, "\r%s ", s.Formatted) },
		OnOneMinuteLeft: func() { fmt.Fprintln(errOut, "\none minute left to pay") },
		OnExpired:       func() { close(expired) },
		OnError:         func(err error) { fmt.Fprintf(errOut, "\nrefresh failed: %s\n", reservation.MessageOf(err)) },
	})
	defer h.Stop()

	select {
	case <-expired:
		fmt.Fprintln(out, "\nreservation expired")
		return exitFail
	case <-ctx.Done():
		fmt.Fprintln(out)
		return exitOK
	}
}
