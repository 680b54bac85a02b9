// Package metrics provides Prometheus metrics for match updates and fingerprints.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the collectors of one registry.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	updatesTotal      *prometheus.CounterVec
	updateDuration    prometheus.Histogram
	matchedPaths      *prometheus.GaugeVec
	fingerprintsTotal *prometheus.CounterVec
	changesTotal      *prometheus.CounterVec
}

// New creates a Recorder with its own registry
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		updatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fmatch_updates_total",
				Help: "Total number of match updates",
			},
			[]string{"status"},
		),
		updateDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fmatch_update_duration_seconds",
				Help:    "Time to resolve a glob pattern and filter the result",
				Buckets: prometheus.DefBuckets,
			},
		),
		matchedPaths: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fmatch_matched_paths",
				Help: "Number of paths held by a match after its last update",
			},
			[]string{"pattern"},
		),
		fingerprintsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fmatch_fingerprints_total",
				Help: "Total number of file list fingerprints computed",
			},
			[]string{"status"},
		),
		changesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fmatch_changes_total",
				Help: "Total number of changed paths detected by watch runs",
			},
			[]string{"kind"},
		),
	}

	r.registry.MustRegister(
		r.updatesTotal,
		r.updateDuration,
		r.matchedPaths,
		r.fingerprintsTotal,
		r.changesTotal,
	)
	return r
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// RecordUpdate records one update attempt
func (r *Recorder) RecordUpdate(pattern string, paths int, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.updatesTotal.WithLabelValues(status(err)).Inc()
	r.updateDuration.Observe(duration.Seconds())
	if err == nil {
		r.matchedPaths.WithLabelValues(pattern).Set(float64(paths))
	}
}

// RecordFingerprint records one fingerprint computation
func (r *Recorder) RecordFingerprint(err error) {
	if r == nil {
		return
	}
	r.fingerprintsTotal.WithLabelValues(status(err)).Inc()
}

// RecordChanges records the paths found changed by a watch run
func (r *Recorder) RecordChanges(added, removed, modified int) {
	if r == nil {
		return
	}
	r.changesTotal.WithLabelValues("added").Add(float64(added))
	r.changesTotal.WithLabelValues("removed").Add(float64(removed))
	r.changesTotal.WithLabelValues("modified").Add(float64(modified))
}

// Handler returns the HTTP handler for the /metrics endpoint
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
