package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetricsRecorder exports catalog operation metrics through a
// Prometheus registry.
type PrometheusMetricsRecorder struct {
	durations *prometheus.HistogramVec
	results   *prometheus.CounterVec
}

// NewPrometheusMetricsRecorder constructs a recorder and registers its
// collectors with reg. A nil reg falls back to the default registerer.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) (*PrometheusMetricsRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &PrometheusMetricsRecorder{
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "catalogcore",
			Name:      "operation_duration_seconds",
			Help:      "Duration of catalog operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catalogcore",
			Name:      "operation_results_total",
			Help:      "Catalog operation outcomes.",
		}, []string{"operation", "outcome"}),
	}
	for _, c := range []prometheus.Collector{r.durations, r.results} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// RecordDuration observes the operation's duration.
func (r *PrometheusMetricsRecorder) RecordDuration(operation string, d time.Duration) {
	if operation == "" {
		return
	}
	r.durations.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordResult increments the operation's outcome counter.
func (r *PrometheusMetricsRecorder) RecordResult(operation, outcome string) {
	if operation == "" || outcome == "" {
		return
	}
	r.results.WithLabelValues(operation, outcome).Inc()
}
