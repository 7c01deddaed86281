// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"net/http"
	"time"

	"github.com/ManuGH/reservo/internal/countdown"
)

// WatchCountdown starts the countdown for a ticket, defaulting to the spot
// the flow currently holds.
func (s *Server) WatchCountdown(w http.ResponseWriter, r *http.Request, params WatchCountdownParams) {
	sess, r, ok := s.bind(w, r, params.XSessionID)
	if !ok {
		return
	}
	var req WatchCountdownJSONRequestBody
	if err := decodeJSON(r, &req); err != nil {
		writeErrorCode(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	ticketID := req.TicketId
	if ticketID == "" {
		if rec := sess.Flow.Snapshot().Record; rec != nil {
			ticketID = rec.SpotID
		}
	}
	if ticketID == "" {
		writeErrorCode(w, r, http.StatusBadRequest, "invalid_request", "ticketId is required")
		return
	}
	window := s.cfg.CountdownWindow
	if req.WindowSeconds > 0 {
		window = time.Duration(req.WindowSeconds) * time.Second
	}

	h := countdown.Start(sess.Context(), s.deps.Upstream, countdown.Options{
		TicketID:        ticketID,
		Interval:        s.cfg.CountdownInterval,
		Window:          window,
		OnOneMinuteLeft: func() { sess.notify(NoticeOneMinuteLeft, "") },
		OnExpired:       func() { sess.notify(NoticeExpired, "") },
	})
	sess.replaceCountdown(h)
	writeJSON(w, http.StatusAccepted, h.State())
}

// GetCountdown implements ServerInterface.
func (s *Server) GetCountdown(w http.ResponseWriter, r *http.Request, params GetCountdownParams) {
	sess, r, ok := s.bind(w, r, params.XSessionID)
	if !ok {
		return
	}
	h := sess.currentCountdown()
	if h == nil {
		writeErrorCode(w, r, http.StatusNotFound, "not_watching", "no countdown active")
		return
	}
	writeJSON(w, http.StatusOK, h.State())
}

// StopCountdown implements ServerInterface.
func (s *Server) StopCountdown(w http.ResponseWriter, r *http.Request, params StopCountdownParams) {
	sess, _, ok := s.bind(w, r, params.XSessionID)
	if !ok {
		return
	}
	sess.replaceCountdown(nil)
	w.WriteHeader(http.StatusNoContent)
}
