// Package metrics collects per-run counters and writes them as a
// node_exporter textfile.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Layer outcomes.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Recorder holds the metrics of one run. A nil Recorder discards everything.
type Recorder struct {
	registry *prometheus.Registry
	layers   *prometheus.CounterVec
	styles   *prometheus.CounterVec
	features prometheus.Counter
	dropped  prometheus.Counter
	lastRun  prometheus.Gauge
	success  prometheus.Gauge
}

// New registers the run metrics on a dedicated registry labeled with job.
func New(job string) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	labels := prometheus.Labels{"job": job}

	return &Recorder{
		registry: reg,
		layers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "geosym",
			Name:        "layers_total",
			Help:        "Layers processed by outcome",
			ConstLabels: labels,
		}, []string{"status"}),
		styles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "geosym",
			Name:        "styles_total",
			Help:        "Style documents written by type",
			ConstLabels: labels,
		}, []string{"type"}),
		features: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   "geosym",
			Name:        "features_total",
			Help:        "Features written",
			ConstLabels: labels,
		}),
		dropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   "geosym",
			Name:        "features_dropped_total",
			Help:        "Features dropped because their geometry could not be translated",
			ConstLabels: labels,
		}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   "geosym",
			Name:        "last_run_timestamp_seconds",
			Help:        "Unix time the run finished",
			ConstLabels: labels,
		}),
		success: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   "geosym",
			Name:        "last_run_success",
			Help:        "1 when the run completed, 0 when it aborted",
			ConstLabels: labels,
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Layer counts one layer outcome.
func (r *Recorder) Layer(status string) {
	if r == nil {
		return
	}
	r.layers.WithLabelValues(status).Inc()
}

// Features counts written and dropped features of a layer.
func (r *Recorder) Features(written, dropped int) {
	if r == nil {
		return
	}
	r.features.Add(float64(written))
	r.dropped.Add(float64(dropped))
}

// Style counts one written style document.
func (r *Recorder) Style(kind string) {
	if r == nil {
		return
	}
	r.styles.WithLabelValues(kind).Inc()
}

// Finish stamps the run completion time.
func (r *Recorder) Finish(t time.Time) {
	if r == nil {
		return
	}
	r.lastRun.Set(float64(t.Unix()))
}

// Succeeded records whether the run completed.
func (r *Recorder) Succeeded(ok bool) {
	if r == nil {
		return
	}
	if ok {
		r.success.Set(1)
		return
	}
	r.success.Set(0)
}

// WriteTextfile writes every metric to path in the text exposition format.
// An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
