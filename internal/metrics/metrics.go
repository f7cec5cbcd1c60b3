// Package metrics exposes Prometheus counters for resolution runs. A batch
// process has no scrape endpoint, so ingest writes the registry to a
// node_exporter textfile when it finishes.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors for one registry.
type Metrics struct {
	registry *prometheus.Registry

	// Resolutions by outcome: created, matched, ambiguous.
	Resolutions *prometheus.CounterVec

	// Rows by result: ingested, skipped.
	Rows *prometheus.CounterVec

	// Time spent parsing a raw name into a new record.
	ParseLatency prometheus.Histogram
}

// New creates a Metrics instance backed by a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "namedisambig_resolutions_total",
			Help: "Alias resolutions by outcome",
		}, []string{"outcome"}),
		Rows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "namedisambig_rows_total",
			Help: "Ingested document rows by result",
		}, []string{"result"}),
		ParseLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "namedisambig_parse_duration_seconds",
			Help:    "Duration of raw name parsing for newly created records",
			Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
		}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveResolution records a resolution outcome.
func (m *Metrics) ObserveResolution(outcome string) {
	if m != nil {
		m.Resolutions.WithLabelValues(outcome).Inc()
	}
}

// ObserveParse records the duration of one parse.
func (m *Metrics) ObserveParse(d time.Duration) {
	if m != nil {
		m.ParseLatency.Observe(d.Seconds())
	}
}

// IncrementRow records one processed row.
func (m *Metrics) IncrementRow(result string) {
	if m != nil {
		m.Rows.WithLabelValues(result).Inc()
	}
}

// WriteTextfile writes every collector in the text exposition format. The
// file is written atomically so a concurrent scrape never sees a partial file.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
