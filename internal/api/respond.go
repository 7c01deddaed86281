// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ManuGH/reservo/internal/flow"
	xglog "github.com/ManuGH/reservo/internal/log"
	"github.com/ManuGH/reservo/internal/reservation"
)

const maxBodyBytes = 64 << 10

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorCode(w http.ResponseWriter, r *http.Request, code int, kind, msg string) {
	writeJSON(w, code, ErrorResponse{
		Error:     kind,
		Message:   msg,
		RequestId: xglog.RequestIDFromContext(r.Context()),
	})
}

// decodeJSON reads a bounded JSON body. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// statusFor maps controller and upstream errors to an HTTP status and a
// stable error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, flow.ErrInvalidEvent), errors.Is(err, flow.ErrInvalidUserType):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, flow.ErrInFlight):
		return http.StatusConflict, "in_flight"
	case errors.Is(err, flow.ErrNoReservation):
		return http.StatusConflict, "no_reservation"
	case errors.Is(err, flow.ErrSuperseded):
		return http.StatusConflict, "superseded"
	case errors.Is(err, flow.ErrIllegalTransition):
		return http.StatusConflict, "illegal_transition"
	}

	kind := reservation.KindOf(err)
	switch kind {
	case reservation.KindWaitingList:
		return http.StatusConflict, kind.String()
	case reservation.KindRejected:
		return http.StatusUnprocessableEntity, kind.String()
	case reservation.KindNotFound:
		return http.StatusNotFound, kind.String()
	case reservation.KindUnauthorized:
		return http.StatusUnauthorized, kind.String()
	case reservation.KindTimeout:
		return http.StatusGatewayTimeout, kind.String()
	case reservation.KindUpstream, reservation.KindTransport, reservation.KindBadResponse:
		return http.StatusBadGateway, kind.String()
	}
	return http.StatusInternalServerError, "internal_error"
}

// writeFlowError answers with the mapped status, the user-facing message and
// the controller snapshot so the front-end can re-render in one round trip.
func writeFlowError(w http.ResponseWriter, r *http.Request, err error, snap *flow.Snapshot) {
	code, kind := statusFor(err)
	msg := reservation.MessageOf(err)
	if code == http.StatusInternalServerError {
		xglog.FromContext(r.Context()).Error().Err(err).Str(xglog.FieldEvent, "api.unhandled_error").Msg("unexpected flow error")
		msg = reservation.FallbackMessage
	}
	writeJSON(w, code, ErrorResponse{
		Error:     kind,
		Message:   msg,
		RequestId: xglog.RequestIDFromContext(r.Context()),
		Flow:      snap,
	})
}
