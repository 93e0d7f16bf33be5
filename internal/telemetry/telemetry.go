// Package telemetry exposes Prometheus metrics about report passes and can
// write them to a node-exporter textfile.
package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ymmah/quality-report/schema"
)

const namespace = "quality_report"

// Recorder holds the report pass metrics on its own registry, so textfile
// output carries no Go runtime metrics.
type Recorder struct {
	registry *prometheus.Registry

	metricsEvaluated *prometheus.CounterVec
	evaluationTime   prometheus.Histogram
	lastRun          prometheus.Gauge
	runDuration      prometheus.Gauge
}

// Option configures a Recorder.
type Option func(*recorderOptions)

type recorderOptions struct {
	buckets []float64
}

// WithBuckets sets the histogram buckets of the evaluation time, in seconds.
func WithBuckets(buckets []float64) Option {
	return func(o *recorderOptions) {
		if len(buckets) > 0 {
			o.buckets = buckets
		}
	}
}

// NewRecorder registers the report pass metrics on a fresh registry.
func NewRecorder(opts ...Option) *Recorder {
	o := recorderOptions{buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}}
	for _, opt := range opts {
		opt(&o)
	}

	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)
	return &Recorder{
		registry: reg,
		metricsEvaluated: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metrics_evaluated_total",
			Help:      "Total number of metrics evaluated, by resulting status",
		}, []string{"status"}),
		evaluationTime: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "metric_evaluation_seconds",
			Help:      "Time taken to evaluate a single metric, including source queries",
			Buckets:   o.buckets,
		}),
		lastRun: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time at which the last report pass finished",
		}),
		runDuration: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Duration of the last report pass",
		}),
	}
}

// ObserveMetric records one evaluated metric.
func (r *Recorder) ObserveMetric(status schema.Status, elapsed time.Duration) {
	r.metricsEvaluated.WithLabelValues(string(status)).Inc()
	r.evaluationTime.Observe(elapsed.Seconds())
}

// ObserveRun records the end of a report pass.
func (r *Recorder) ObserveRun(finished time.Time, duration time.Duration) {
	r.lastRun.Set(float64(finished.Unix()))
	r.runDuration.Set(duration.Seconds())
}

// Gatherer exposes the registry, e.g. for tests or an HTTP handler.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all metrics in the text exposition format. The write
// is atomic so node-exporter never reads a partial file.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
