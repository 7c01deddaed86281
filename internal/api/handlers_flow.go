// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"errors"
	"net/http"

	"github.com/ManuGH/reservo/internal/flow"
	"github.com/ManuGH/reservo/internal/journal"
	"github.com/ManuGH/reservo/internal/reservation"
)

// GetFlow implements ServerInterface.
func (s *Server) GetFlow(w http.ResponseWriter, r *http.Request, params GetFlowParams) {
	sess, _, ok := s.bind(w, r, params.XSessionID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Flow.Snapshot())
}

// GetFlowHistory implements ServerInterface.
func (s *Server) GetFlowHistory(w http.ResponseWriter, r *http.Request, params GetFlowHistoryParams) {
	sess, r, ok := s.bind(w, r, params.XSessionID)
	if !ok {
		return
	}
	if s.deps.Journal == nil {
		writeErrorCode(w, r, http.StatusNotFound, "journal_disabled", "transition journal is not configured")
		return
	}
	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}
	err := s.deps.Journal.Flush(r.Context())
	if err != nil {
		writeErrorCode(w, r, http.StatusInternalServerError, "journal_error", err.Error())
		return
	}
	entries, err := s.deps.Journal.List(r.Context(), sess.Flow.ID(), limit)
	if err != nil {
		writeErrorCode(w, r, http.StatusInternalServerError, "journal_error", err.Error())
		return
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	writeJSON(w, http.StatusOK, FlowHistory{Entries: entries})
}

// ReserveSpot runs CheckAndReserve. Landing on the waiting list is a
// normal outcome and answers 200 with the snapshot.
func (s *Server) ReserveSpot(w http.ResponseWriter, r *http.Request, params ReserveSpotParams) {
	sess, r, ok := s.bind(w, r, params.XSessionID)
	if !ok {
		return
	}
	var req ReserveSpotJSONRequestBody
	if err := decodeJSON(r, &req); err != nil {
		writeErrorCode(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	userType := reservation.UserType(req.UserType)
	if userType == "" {
		userType = reservation.UserClient
	}
	sess.setUserType(userType)

	if err := sess.Flow.CheckAndReserve(r.Context(), req.EventId, userType); err != nil {
		snap := sess.Flow.Snapshot()
		writeFlowError(w, r, err, &snap)
		return
	}
	writeJSON(w, http.StatusOK, sess.Flow.Snapshot())
}

// ProcessPayment implements ServerInterface.
func (s *Server) ProcessPayment(w http.ResponseWriter, r *http.Request, params ProcessPaymentParams) {
	sess, r, ok := s.bind(w, r, params.XSessionID)
	if !ok {
		return
	}
	var req ProcessPaymentJSONRequestBody
	if err := decodeJSON(r, &req); err != nil {
		writeErrorCode(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	resp, err := sess.Flow.ProcessPayment(r.Context(), reservation.PaymentRequest{
		SpotID:        req.SpotId,
		EventID:       req.EventId,
		Email:         req.Email,
		PaymentMethod: req.PaymentMethod,
		AmountCents:   req.AmountCents,
	})
	snap := sess.Flow.Snapshot()
	if err != nil {
		writeFlowError(w, r, err, &snap)
		return
	}
	if resp.Paid() {
		sess.replaceCountdown(nil)
	}
	writeJSON(w, http.StatusOK, PaymentResult{Payment: resp, Flow: snap})
}

// CancelReservation implements ServerInterface.
func (s *Server) CancelReservation(w http.ResponseWriter, r *http.Request, params CancelReservationParams) {
	sess, r, ok := s.bind(w, r, params.XSessionID)
	if !ok {
		return
	}
	var req CancelReservationJSONRequestBody
	if err := decodeJSON(r, &req); err != nil {
		writeErrorCode(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := sess.Flow.CancelReservation(r.Context(), req.TicketId); err != nil {
		if errors.Is(err, flow.ErrNoReservation) {
			writeErrorCode(w, r, http.StatusBadRequest, "invalid_request", "ticketId is required")
			return
		}
		snap := sess.Flow.Snapshot()
		writeFlowError(w, r, err, &snap)
		return
	}
	sess.replaceCountdown(nil)
	writeJSON(w, http.StatusOK, sess.Flow.Snapshot())
}

// ResetFlow discards the flow and stops every background loop.
func (s *Server) ResetFlow(w http.ResponseWriter, r *http.Request, params ResetFlowParams) {
	sess, _, ok := s.bind(w, r, params.XSessionID)
	if !ok {
		return
	}
	sess.Flow.Reset()
	sess.replaceWaitlist(nil)
	sess.replaceCountdown(nil)
	writeJSON(w, http.StatusOK, sess.Flow.Snapshot())
}
