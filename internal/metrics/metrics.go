// Package metrics exposes Prometheus instrumentation for decision
// evaluation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Evaluations      *prometheus.CounterVec
	Warnings         *prometheus.CounterVec
	DecisionDuration prometheus.Histogram
	CompileDuration  prometheus.Histogram
}

// New registers all metrics with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dmn_evaluations_total",
			Help: "Total number of top-level decision evaluations by outcome",
		}, []string{"outcome"}),
		Warnings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dmn_evaluation_warnings_total",
			Help: "Total number of non-fatal evaluation warnings by code",
		}, []string{"code"}),
		DecisionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "dmn_decision_duration_seconds",
			Help:    "Duration of a single decision table evaluation, required decisions excluded",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		CompileDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "dmn_compile_duration_seconds",
			Help:    "Duration of DMN document compilation (cache misses only)",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}
}

// ObserveDecisionLatency makes Metrics usable as an engine latency observer.
// Decision ids come from client documents and are not used as a label; the
// per-decision breakdown is left to DecisionLatencyLogger.
func (m *Metrics) ObserveDecisionLatency(_ string, duration time.Duration) {
	m.DecisionDuration.Observe(duration.Seconds())
}

// ObserveEvaluation counts one evaluation. outcome is "ok" or an error kind.
func (m *Metrics) ObserveEvaluation(outcome string) {
	m.Evaluations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementWarning(code string) {
	m.Warnings.WithLabelValues(code).Inc()
}

// ObserveCompile records the duration of a compilation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCompile(start time.Time) {
	m.CompileDuration.Observe(time.Since(start).Seconds())
}
