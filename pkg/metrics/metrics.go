// Package metrics exposes progress of a sweep as Prometheus metrics written to a
// textfile, so a node exporter textfile collector can pick them up while a long
// sweep is running.
package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "join_sweep"

// Run outcomes used as label values.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Sweep holds metrics of a single sweep. Methods of a nil Sweep do nothing.
type Sweep struct {
	registry *prometheus.Registry
	path     string

	planned     prometheus.Gauge
	runs        *prometheus.CounterVec
	builds      prometheus.Counter
	records     prometheus.Counter
	runDuration prometheus.Histogram
}

// NewSweep registers metrics labelled with the experiment name.
// Metrics are written to path after every change, empty path disables writing.
func NewSweep(experiment, path string) *Sweep {
	labels := prometheus.Labels{"experiment": experiment}
	s := &Sweep{
		registry: prometheus.NewRegistry(),
		path:     path,
		planned: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "configurations_planned",
			Help:        "Number of configurations in the sweep.",
			ConstLabels: labels,
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "runs_total",
			Help:        "Benchmark runs by outcome.",
			ConstLabels: labels,
		}, []string{"status"}),
		builds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "builds_total",
			Help:        "Artifacts built during the sweep.",
			ConstLabels: labels,
		}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "records_total",
			Help:        "Records appended to the result sink.",
			ConstLabels: labels,
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "run_duration_seconds",
			Help:        "Wall time of benchmark runs.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.1, 2, 14),
		}),
	}
	s.registry.MustRegister(s.planned, s.runs, s.builds, s.records, s.runDuration)
	return s
}

// Registry returns the registry holding sweep metrics.
func (s *Sweep) Registry() *prometheus.Registry {
	return s.registry
}

// Planned sets the number of configurations.
func (s *Sweep) Planned(configurations int) error {
	if s == nil {
		return nil
	}
	s.planned.Set(float64(configurations))
	return s.flush()
}

// Built counts an artifact build.
func (s *Sweep) Built() error {
	if s == nil {
		return nil
	}
	s.builds.Inc()
	return s.flush()
}

// Ran counts a finished run with its outcome and number of records it produced.
func (s *Sweep) Ran(status string, duration time.Duration, records int) error {
	if s == nil {
		return nil
	}
	s.runs.WithLabelValues(status).Inc()
	s.runDuration.Observe(duration.Seconds())
	s.records.Add(float64(records))
	return s.flush()
}

func (s *Sweep) flush() error {
	if s.path == "" {
		return nil
	}
	return errors.Wrapf(prometheus.WriteToTextfile(s.path, s.registry), "cannot write metrics to %q", s.path)
}
