// Package metrics provides Prometheus collectors for background poll generation.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PollMetrics counts daily poll generation results.
type PollMetrics struct {
	Outcomes        *prometheus.CounterVec // ensure results by outcome
	Errors          prometheus.Counter     // ensure calls that failed
	Dropped         prometheus.Counter     // schedule requests rejected because the queue was full
	EnsureDurations prometheus.Histogram   // time spent per ensure call
	QueueDepth      prometheus.Gauge       // jobs waiting for a worker
}

// NewPollMetrics creates the collectors and registers them with registerer.
func NewPollMetrics(registerer prometheus.Registerer) (*PollMetrics, error) {
	m := &PollMetrics{
		Outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "daybook_poll_ensure_total",
				Help: "Daily poll ensure calls by outcome",
			},
			[]string{"outcome"}, // created, existing, skipped_staff, owner_gone
		),
		Errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "daybook_poll_ensure_errors_total",
			Help: "Daily poll ensure calls that returned an error",
		}),
		Dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "daybook_poll_schedule_dropped_total",
			Help: "Poll generation requests dropped because the queue was full",
		}),
		EnsureDurations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "daybook_poll_ensure_duration_seconds",
			Help:    "Time spent ensuring a daily poll",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "daybook_poll_queue_depth",
			Help: "Poll generation requests waiting for a worker",
		}),
	}
	if registerer != nil {
		if err := registerer.Register(m); err != nil {
			return nil, fmt.Errorf("failed to register poll metrics: %w", err)
		}
	}
	return m, nil
}

func (m *PollMetrics) RecordOutcome(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(outcome).Inc()
	m.EnsureDurations.Observe(duration.Seconds())
}

func (m *PollMetrics) RecordError(duration time.Duration) {
	if m == nil {
		return
	}
	m.Errors.Inc()
	m.EnsureDurations.Observe(duration.Seconds())
}

func (m *PollMetrics) RecordDropped() {
	if m == nil {
		return
	}
	m.Dropped.Inc()
}

func (m *PollMetrics) SetQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(depth))
}

// Collect implements the prometheus.Collector interface.
func (m *PollMetrics) Collect(ch chan<- prometheus.Metric) {
	m.Outcomes.Collect(ch)
	m.Errors.Collect(ch)
	m.Dropped.Collect(ch)
	m.EnsureDurations.Collect(ch)
	m.QueueDepth.Collect(ch)
}

// Describe implements the prometheus.Collector interface.
func (m *PollMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.Outcomes.Describe(ch)
	m.Errors.Describe(ch)
	m.Dropped.Describe(ch)
	m.EnsureDurations.Describe(ch)
	m.QueueDepth.Describe(ch)
}
