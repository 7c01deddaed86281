// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"net/http"
	"time"

	xglog "github.com/ManuGH/reservo/internal/log"
	"github.com/ManuGH/reservo/internal/reservation"
	"github.com/ManuGH/reservo/internal/waitlist"
)

// WatchWaitingList (re)starts the poller. A promotion re-runs
// CheckAndReserve for the same event in the background.
func (s *Server) WatchWaitingList(w http.ResponseWriter, r *http.Request, params WatchWaitingListParams) {
	sess, r, ok := s.bind(w, r, params.XSessionID)
	if !ok {
		return
	}
	var req WatchWaitingListJSONRequestBody
	if err := decodeJSON(r, &req); err != nil {
		writeErrorCode(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	eventID := req.EventId
	if eventID == "" {
		eventID = sess.Flow.Snapshot().EventID
	}
	if eventID == "" {
		writeErrorCode(w, r, http.StatusBadRequest, "invalid_request", "eventId is required")
		return
	}
	interval := s.cfg.WaitingListInterval
	if req.PollingIntervalMs > 0 {
		interval = time.Duration(req.PollingIntervalMs) * time.Millisecond
		if interval < time.Second {
			interval = time.Second
		}
	}

	h := waitlist.Start(sess.Context(), s.deps.Upstream, waitlist.Options{
		EventID:         eventID,
		PollingInterval: interval,
		OnPromoted: func() {
			sess.notify(NoticePromoted, "")
			sess.retryReservation(eventID)
		},
	})
	sess.replaceWaitlist(h)

	logger := xglog.WithComponentFromContext(r.Context(), "api")
	logger.Info().
		Str(xglog.FieldEvent, "waitlist.watch").
		Str(xglog.FieldEventID, eventID).
		Dur("interval", interval).
		Msg("waiting-list poller started")
	writeJSON(w, http.StatusAccepted, h.Status())
}

// GetWaitingList implements ServerInterface.
func (s *Server) GetWaitingList(w http.ResponseWriter, r *http.Request, params GetWaitingListParams) {
	h, ok := s.watchedWaitlist(w, r, params.XSessionID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.Status())
}

// LeaveWaitingList implements ServerInterface.
func (s *Server) LeaveWaitingList(w http.ResponseWriter, r *http.Request, params LeaveWaitingListParams) {
	sess, r, ok := s.bind(w, r, params.XSessionID)
	if !ok {
		return
	}
	h := sess.currentWaitlist()
	if h == nil {
		writeErrorCode(w, r, http.StatusNotFound, "not_watching", "no waiting-list poller active")
		return
	}
	res := h.LeaveQueue(r.Context())
	if res.Error != nil {
		code, _ := statusFor(res.Error)
		writeJSON(w, code, LeaveResult{Success: false, Error: reservation.MessageOf(res.Error), Status: h.Status()})
		return
	}
	writeJSON(w, http.StatusOK, LeaveResult{Success: true, Status: h.Status()})
}

// RefreshWaitingList implements ServerInterface.
func (s *Server) RefreshWaitingList(w http.ResponseWriter, r *http.Request, params RefreshWaitingListParams) {
	h, ok := s.watchedWaitlist(w, r, params.XSessionID)
	if !ok {
		return
	}
	h.Refresh()
	w.WriteHeader(http.StatusAccepted)
}

// StopWaitingList implements ServerInterface.
func (s *Server) StopWaitingList(w http.ResponseWriter, r *http.Request, params StopWaitingListParams) {
	sess, _, ok := s.bind(w, r, params.XSessionID)
	if !ok {
		return
	}
	sess.replaceWaitlist(nil)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) watchedWaitlist(w http.ResponseWriter, r *http.Request, id SessionID) (*waitlist.PollHandle, bool) {
	sess, r, ok := s.bind(w, r, id)
	if !ok {
		return nil, false
	}
	h := sess.currentWaitlist()
	if h == nil {
		writeErrorCode(w, r, http.StatusNotFound, "not_watching", "no waiting-list poller active")
		return nil, false
	}
	return h, true
}
