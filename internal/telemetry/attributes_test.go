// SPDX-License-Identifier: MIT
package telemetry

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestHTTPAttributes(t *testing.T) {
	attrs := HTTPAttributes("GET", "/events/evt-1/check-spot", "/events/evt-1/check-spot", 200)

	if len(attrs) != 4 {
		t.Fatalf("Expected 4 attributes, got %d", len(attrs))
	}
	verifyAttribute(t, attrs, HTTPMethodKey, "GET")
	verifyIntAttribute(t, attrs, HTTPStatusCodeKey, 200)
}

func TestReservationAttributes(t *testing.T) {
	tests := []struct {
		name     string
		eventID  string
		ticketID string
		wantLen  int
	}{
		{name: "event only", eventID: "evt-1", wantLen: 2},
		{name: "ticket only", ticketID: "t-1", wantLen: 2},
		{name: "both", eventID: "evt-1", ticketID: "t-1", wantLen: 3},
		{name: "none", wantLen: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := ReservationAttributes("reserve_spot", tt.eventID, tt.ticketID)
			if len(attrs) != tt.wantLen {
				t.Fatalf("Expected %d attributes, got %d", tt.wantLen, len(attrs))
			}
			verifyAttribute(t, attrs, ReservationOperationKey, "reserve_spot")
		})
	}
}

func TestFlowTransitionAttributes(t *testing.T) {
	attrs := FlowTransitionAttributes("f-1", "checking", "reserving")
	verifyAttribute(t, attrs, FlowIDKey, "f-1")
	verifyAttribute(t, attrs, FlowFromStateKey, "checking")
	verifyAttribute(t, attrs, FlowToStateKey, "reserving")
}

func TestErrorAttributes(t *testing.T) {
	attrs := ErrorAttributes("waiting_list")
	verifyAttribute(t, attrs, ErrorTypeKey, "waiting_list")
}

func verifyAttribute(t *testing.T, attrs []attribute.KeyValue, key, want string) {
	t.Helper()
	for _, a := range attrs {
		if string(a.Key) == key {
			if got := a.Value.AsString(); got != want {
				t.Errorf("attribute %s = %q, want %q", key, got, want)
			}
			return
		}
	}
	t.Errorf("attribute %s not found", key)
}

func verifyIntAttribute(t *testing.T, attrs []attribute.KeyValue, key string, want int64) {
	t.Helper()
	for _, a := range attrs {
		if string(a.Key) == key {
			if got := a.Value.AsInt64(); got != want {
				t.Errorf("attribute %s = %d, want %d", key, got, want)
			}
			return
		}
	}
	t.Errorf("attribute %s not found", key)
}
