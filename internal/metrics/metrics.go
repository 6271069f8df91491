// Package metrics exposes batch counters in the Prometheus text format so a
// node_exporter textfile collector can scrape the results of offline runs.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"heropatch/internal/batch"
)

// Recorder collects run metrics on a private registry.
type Recorder struct {
	registry        *prometheus.Registry
	entriesTotal    *prometheus.CounterVec
	fetchDuration   prometheus.Histogram
	downloadedBytes prometheus.Counter
	lastRun         prometheus.Gauge
}

// New returns a Recorder with every series registered.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		entriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "heropatch_entries_total",
				Help: "Catalog entries processed, by phase and status.",
			},
			[]string{"phase", "status"},
		),
		fetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "heropatch_fetch_duration_seconds",
				Help:    "Duration of hero image downloads.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
		),
		downloadedBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "heropatch_downloaded_bytes_total",
				Help: "Bytes written by hero image downloads.",
			},
		),
		lastRun: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "heropatch_last_run_timestamp_seconds",
				Help: "Unix time at which the last run finished.",
			},
		),
	}
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Observe counts one outcome.
func (r *Recorder) Observe(o batch.Outcome) {
	r.entriesTotal.WithLabelValues(string(o.Phase), string(o.Status)).Inc()
	if o.Phase != batch.PhaseFetch {
		return
	}
	switch o.Status {
	case batch.StatusDownloaded:
		r.fetchDuration.Observe(o.Duration.Seconds())
		r.downloadedBytes.Add(float64(o.Bytes))
	case batch.StatusFailed:
		r.fetchDuration.Observe(o.Duration.Seconds())
	}
}

// MarkFinished records the run completion time.
func (r *Recorder) MarkFinished(t time.Time) {
	r.lastRun.Set(float64(t.Unix()))
}

// WriteTextfile writes every series to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
