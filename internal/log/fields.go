// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldSessionID = "session_id"
	FieldFlowID    = "flow_id"
	FieldEventID   = "event_id"
	FieldTicketID  = "ticket_id"
	FieldSpotID    = "spot_id"
	FieldUserType  = "user_type"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldOperation = "operation"

	// State fields
	FieldOldState = "old_state"
	FieldNewState = "new_state"

	// Waiting list / countdown fields
	FieldInQueue          = "in_queue"
	FieldPosition         = "position"
	FieldRemainingSeconds = "remaining_seconds"

	// Network fields
	FieldBaseURL = "base_url"
	FieldStatus  = "status"
)
