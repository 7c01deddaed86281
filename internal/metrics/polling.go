// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pollsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservo_poll_total",
		Help: "Background poll ticks by loop and result",
	}, []string{"loop", "result"}) // loop=waitlist|countdown, result=success|error

	activePollers = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "reservo_pollers_active",
		Help: "Number of running poll loops",
	}, []string{"loop"})

	waitlistPromotions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservo_waitlist_promotions_total",
		Help: "Waiting-list promotions detected (in queue -> out of queue)",
	})

	countdownExpirations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservo_countdown_expired_ticks_total",
		Help: "Countdown ticks that observed an expired reservation",
	})
)

// RecordPoll counts one poll tick.
func RecordPoll(loop string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	pollsTotal.WithLabelValues(loop, result).Inc()
}

// IncActivePollers marks a poll loop as running.
func IncActivePollers(loop string) {
	activePollers.WithLabelValues(loop).Inc()
}

// DecActivePollers marks a poll loop as stopped.
func DecActivePollers(loop string) {
	activePollers.WithLabelValues(loop).Dec()
}

// RecordPromotion counts a detected waiting-list promotion.
func RecordPromotion() {
	waitlistPromotions.Inc()
}

// RecordExpiredTick counts a countdown tick at or below zero.
func RecordExpiredTick() {
	countdownExpirations.Inc()
}
