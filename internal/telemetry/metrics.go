// Package telemetry exports checkpoint sweep statistics as Prometheus
// metrics and OpenTelemetry spans.
package telemetry

import (
	"fmt"
	"io"

	"github.com/born-ml/revad/internal/checkpoint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Recorder turns sweep statistics into Prometheus metrics.
// It implements checkpoint.Observer.
type Recorder struct {
	sweeps       *prometheus.CounterVec
	adjointCalls *prometheus.CounterVec
	restorations *prometheus.CounterVec
	retained     *prometheus.GaugeVec
	peakHeld     *prometheus.GaugeVec
	duration     *prometheus.HistogramVec
}

// NewRecorder registers the sweep collectors on reg.
// It panics if they are already registered there.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	labels := []string{"strategy"}
	return &Recorder{
		sweeps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "revad_sweeps_total",
			Help: "Total number of completed backward sweeps",
		}, labels),
		adjointCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "revad_adjoint_calls_total",
			Help: "Total number of adjoint function invocations",
		}, labels),
		restorations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "revad_restorations_total",
			Help: "Total number of restoration function invocations",
		}, labels),
		retained: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "revad_retained_snapshots",
			Help: "Snapshots retained by the chain at the start of the last sweep",
		}, labels),
		peakHeld: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "revad_sweep_peak_snapshots",
			Help: "Most snapshots held at once during the last sweep",
		}, labels),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "revad_sweep_duration_seconds",
			Help:    "Wall time of backward sweeps",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, labels),
	}
}

// ObserveSweep records one sweep.
func (r *Recorder) ObserveSweep(stats checkpoint.SweepStats) {
	strategy := string(stats.Strategy)
	r.sweeps.WithLabelValues(strategy).Inc()
	r.adjointCalls.WithLabelValues(strategy).Add(float64(stats.AdjointCalls))
	r.restorations.WithLabelValues(strategy).Add(float64(stats.Restorations))
	r.retained.WithLabelValues(strategy).Set(float64(stats.Retained))
	r.peakHeld.WithLabelValues(strategy).Set(float64(stats.PeakHeld))
	r.duration.WithLabelValues(strategy).Observe(stats.Duration.Seconds())
}

// WriteMetrics writes everything g gathers in the Prometheus text format.
func WriteMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// Multi fans a sweep out to several observers. Nil observers are skipped.
func Multi(observers ...checkpoint.Observer) checkpoint.Observer {
	return checkpoint.ObserverFunc(func(stats checkpoint.SweepStats) {
		for _, o := range observers {
			if o != nil {
				o.ObserveSweep(stats)
			}
		}
	})
}
