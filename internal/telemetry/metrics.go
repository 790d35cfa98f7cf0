// Package telemetry exports service use-case events as Prometheus metrics
// and OpenTelemetry spans.
package telemetry

import (
	"context"
	"fmt"

	"github.com/alexanderramin/worklog/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

var durationBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// Metrics counts use cases by outcome and records their latency in a private
// registry. It implements service.UseCaseObserver.
type Metrics struct {
	registry  *prometheus.Registry
	useCases  *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

var _ service.UseCaseObserver = (*Metrics)(nil)

// NewMetrics creates a collector with its own registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		useCases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "worklog",
			Name:      "use_case_total",
			Help:      "Service use cases executed, by outcome.",
		}, []string{"use_case", "outcome"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "worklog",
			Name:      "use_case_duration_seconds",
			Help:      "Service use case latency.",
			Buckets:   durationBuckets,
		}, []string{"use_case"}),
	}
	m.registry.MustRegister(m.useCases, m.durations)
	return m
}

func (m *Metrics) ObserveUseCase(_ context.Context, event service.UseCaseEvent) {
	m.useCases.WithLabelValues(event.Name, event.Outcome()).Inc()
	m.durations.WithLabelValues(event.Name).Observe(event.Duration.Seconds())
}

// WriteTextfile writes the current metrics in text exposition format to path,
// for pickup by the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
