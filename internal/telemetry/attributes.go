// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"

	// Reservation attributes
	ReservationEventIDKey   = "reservation.event_id"
	ReservationTicketIDKey  = "reservation.ticket_id"
	ReservationUserTypeKey  = "reservation.user_type"
	ReservationOperationKey = "reservation.operation"

	// Flow attributes
	FlowIDKey        = "flow.id"
	FlowFromStateKey = "flow.from_state"
	FlowToStateKey   = "flow.to_state"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// ReservationAttributes creates span attributes for a reservation service call.
// Empty identifiers are omitted.
func ReservationAttributes(operation, eventID, ticketID string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	attrs = append(attrs, attribute.String(ReservationOperationKey, operation))
	if eventID != "" {
		attrs = append(attrs, attribute.String(ReservationEventIDKey, eventID))
	}
	if ticketID != "" {
		attrs = append(attrs, attribute.String(ReservationTicketIDKey, ticketID))
	}
	return attrs
}

// FlowTransitionAttributes describes a flow state change.
func FlowTransitionAttributes(flowID, from, to string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(FlowIDKey, flowID),
		attribute.String(FlowFromStateKey, from),
		attribute.String(FlowToStateKey, to),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
