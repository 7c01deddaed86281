// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	flowTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservo_flow_transitions_total",
		Help: "Reservation flow state transitions",
	}, []string{"from", "to"})

	flowIllegalTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservo_flow_illegal_transitions_total",
		Help: "Transitions rejected by the flow transition table",
	}, []string{"from", "event"})

	flowOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservo_flow_outcomes_total",
		Help: "Settled outcomes of flow operations",
	}, []string{"operation", "outcome"}) // outcome=reserved|waiting_list|error|completed|pending|in_flight

	activeFlows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "reservo_flow_sessions_active",
		Help: "Number of live flow sessions held by the API",
	})
)

// RecordFlowTransition counts a state change of a reservation flow.
func RecordFlowTransition(from, to string) {
	flowTransitions.WithLabelValues(from, to).Inc()
}

// RecordIllegalTransition counts an event the transition table refused.
func RecordIllegalTransition(from, event string) {
	flowIllegalTransitions.WithLabelValues(from, event).Inc()
}

// RecordFlowOutcome counts how a flow operation settled.
func RecordFlowOutcome(operation, outcome string) {
	flowOutcomes.WithLabelValues(operation, outcome).Inc()
}

// SetActiveFlows sets the number of live flow sessions.
func SetActiveFlows(n int) {
	activeFlows.Set(float64(n))
}
