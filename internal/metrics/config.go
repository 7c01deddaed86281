// SPDX-License-Identifier: MIT

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var configReloads = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reservo_config_reloads_total",
	Help: "Configuration reload attempts by result",
}, []string{"result"}) // result=success|failure

// RecordConfigReload counts a reload attempt.
func RecordConfigReload(ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	configReloads.WithLabelValues(result).Inc()
}
