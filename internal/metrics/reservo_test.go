// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "error", StatusClass(errors.New("boom"), 200))
	assert.Equal(t, "2xx", StatusClass(nil, 204))
	assert.Equal(t, "3xx", StatusClass(nil, 302))
	assert.Equal(t, "4xx", StatusClass(nil, 409))
	assert.Equal(t, "5xx", StatusClass(nil, 503))
	assert.Equal(t, "1xx", StatusClass(nil, 101))
	assert.Equal(t, "unknown", StatusClass(nil, 0))
}

func TestSetCircuitBreakerState_OneHot(t *testing.T) {
	SetCircuitBreakerState("test-cb", "open")

	assert.Equal(t, 1.0, testutil.ToFloat64(circuitBreakerState.WithLabelValues("test-cb", "open")))
	assert.Equal(t, 0.0, testutil.ToFloat64(circuitBreakerState.WithLabelValues("test-cb", "closed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(circuitBreakerState.WithLabelValues("test-cb", "half-open")))
}

func TestRecordFlowTransition_Increments(t *testing.T) {
	before := testutil.ToFloat64(flowTransitions.WithLabelValues("checking", "reserving"))
	RecordFlowTransition("checking", "reserving")
	after := testutil.ToFloat64(flowTransitions.WithLabelValues("checking", "reserving"))
	assert.Equal(t, before+1, after)
}

func TestRecordUpstreamAttempt_ObservesHistogram(t *testing.T) {
	RecordUpstreamAttempt("reserve_spot_test", 201, 120*time.Millisecond, nil, false)

	var m dto.Metric
	obs, err := upstreamDuration.GetMetricWithLabelValues("reserve_spot_test", "2xx")
	require.NoError(t, err)
	require.NoError(t, obs.(interface{ Write(*dto.Metric) error }).Write(&m))
	assert.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
}

func TestRecordPoll_Labels(t *testing.T) {
	before := testutil.ToFloat64(pollsTotal.WithLabelValues("waitlist", "error"))
	RecordPoll("waitlist", errors.New("down"))
	assert.Equal(t, before+1, testutil.ToFloat64(pollsTotal.WithLabelValues("waitlist", "error")))
}

func TestRecordConfigReload(t *testing.T) {
	before := testutil.ToFloat64(configReloads.WithLabelValues("failure"))
	RecordConfigReload(false)
	assert.Equal(t, before+1, testutil.ToFloat64(configReloads.WithLabelValues("failure")))
}
