package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveEvaluation("ok")
	m.ObserveEvaluation("ok")
	m.ObserveEvaluation("non_unique_match")
	m.IncrementWarning("no_match")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("non_unique_match")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Warnings.WithLabelValues("no_match")))
}

func TestMetrics_Histograms(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveDecisionLatency("dish", 2*time.Millisecond)
	m.ObserveDecisionLatency("beverages", time.Millisecond)
	m.ObserveCompile(time.Now())

	assert.Equal(t, 1, testutil.CollectAndCount(m.DecisionDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CompileDuration))
}

func TestMetrics_DecisionDurationSeriesStayBounded(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	for i := 0; i < 5000; i++ {
		m.ObserveDecisionLatency(fmt.Sprintf("decision-%d", i), time.Microsecond)
	}

	assert.Equal(t, 1, testutil.CollectAndCount(m.DecisionDuration))
	n, err := testutil.GatherAndCount(reg, "dmn_decision_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNew_RegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	assert.Panics(t, func() { New(reg) }, "duplicate registration must panic")
	assert.NotPanics(t, func() { New(prometheus.NewRegistry()) })
}
