package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects the application's Prometheus metrics: AI gateway call
// outcomes and workflow durations.
type Metrics struct {
	aiRequestsTotal   *prometheus.CounterVec
	aiRequestDuration *prometheus.HistogramVec
	workflowDuration  *prometheus.HistogramVec
	inventoryItems    prometheus.Gauge
}

// NewMetrics creates and registers the metric collectors.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		aiRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "frigozen",
				Name:      "ai_requests_total",
				Help:      "AI gateway calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		aiRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "frigozen",
				Name:      "ai_request_duration_seconds",
				Help:      "AI gateway call latency by operation",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		workflowDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "frigozen",
				Name:      "workflow_duration_seconds",
				Help:      "End-to-end workflow latency by workflow and outcome",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"workflow", "outcome"},
		),
		inventoryItems: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "frigozen",
				Name:      "inventory_items",
				Help:      "Number of tracked food item batches",
			},
		),
	}

	registry.MustRegister(
		m.aiRequestsTotal,
		m.aiRequestDuration,
		m.workflowDuration,
		m.inventoryItems,
	)

	return m
}

// ObserveAIRequest records one AI gateway call.
func (m *Metrics) ObserveAIRequest(operation string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.aiRequestsTotal.WithLabelValues(operation, outcome).Inc()
	m.aiRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveWorkflow records one completed workflow run.
func (m *Metrics) ObserveWorkflow(workflow string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.workflowDuration.WithLabelValues(workflow, outcome).Observe(duration.Seconds())
}

// SetInventorySize updates the tracked batch gauge.
func (m *Metrics) SetInventorySize(count int) {
	m.inventoryItems.Set(float64(count))
}
