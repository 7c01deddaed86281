// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"errors"
	"net/http"

	"github.com/ManuGH/reservo/internal/selection"
)

// selectionSession binds the session and checks a selection store is wired.
func (s *Server) selectionSession(w http.ResponseWriter, r *http.Request, id SessionID) (*Session, *http.Request, bool) {
	sess, r, ok := s.bind(w, r, id)
	if !ok {
		return nil, nil, false
	}
	if s.deps.Selection == nil {
		writeErrorCode(w, r, http.StatusNotFound, "selection_disabled", "event selection is not configured")
		return nil, nil, false
	}
	return sess, r, true
}

// GetSelection implements ServerInterface.
func (s *Server) GetSelection(w http.ResponseWriter, r *http.Request, params GetSelectionParams) {
	sess, r, ok := s.selectionSession(w, r, params.XSessionID)
	if !ok {
		return
	}
	sel, found, err := s.deps.Selection.Get(r.Context(), sess.ID)
	if err != nil {
		writeErrorCode(w, r, http.StatusServiceUnavailable, "selection_unavailable", err.Error())
		return
	}
	if !found {
		writeErrorCode(w, r, http.StatusNotFound, "no_selection", "no event selected")
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

// PutSelection implements ServerInterface.
func (s *Server) PutSelection(w http.ResponseWriter, r *http.Request, params PutSelectionParams) {
	sess, r, ok := s.selectionSession(w, r, params.XSessionID)
	if !ok {
		return
	}
	var req PutSelectionJSONRequestBody
	if err := decodeJSON(r, &req); err != nil {
		writeErrorCode(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	sel, err := s.deps.Selection.Set(r.Context(), sess.ID, selection.Selection{
		EventID:   req.EventId,
		EventName: req.EventName,
	})
	if err != nil {
		if errors.Is(err, selection.ErrInvalidSelection) {
			writeErrorCode(w, r, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		writeErrorCode(w, r, http.StatusServiceUnavailable, "selection_unavailable", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

// DeleteSelection implements ServerInterface.
func (s *Server) DeleteSelection(w http.ResponseWriter, r *http.Request, params DeleteSelectionParams) {
	sess, r, ok := s.selectionSession(w, r, params.XSessionID)
	if !ok {
		return
	}
	if err := s.deps.Selection.Clear(r.Context(), sess.ID); err != nil {
		writeErrorCode(w, r, http.StatusServiceUnavailable, "selection_unavailable", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
