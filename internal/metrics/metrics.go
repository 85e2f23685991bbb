// ABOUTME: Prometheus instrumentation for playback sessions
// ABOUTME: Implements streamplay.Observer and serves the registry over HTTP
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the session collectors. A single instance may observe
// several players.
type Metrics struct {
	FragmentsReceived prometheus.Counter
	FragmentBytes     prometheus.Counter
	UnitsScheduled    prometheus.Counter
	UnitsEnded        prometheus.Counter
	UnitsDropped      prometheus.Counter
	DecodeFailures    prometheus.Counter
	UnitsInFlight     prometheus.Gauge
	UnitDuration      prometheus.Histogram
	ScheduleLead      prometheus.Histogram

	registry *prometheus.Registry
}

// New registers the collectors on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := newWith(reg)
	m.registry = reg
	return m
}

func newWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FragmentsReceived: f.NewCounter(prometheus.CounterOpts{
			Name: "streamplay_fragments_received_total",
			Help: "Fragments accepted by AddFragment",
		}),
		FragmentBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "streamplay_fragment_bytes_total",
			Help: "Bytes of fragment payload accepted",
		}),
		UnitsScheduled: f.NewCounter(prometheus.CounterOpts{
			Name: "streamplay_units_scheduled_total",
			Help: "Playback units handed to the output device",
		}),
		UnitsEnded: f.NewCounter(prometheus.CounterOpts{
			Name: "streamplay_units_ended_total",
			Help: "Playback units that finished playing",
		}),
		UnitsDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "streamplay_units_dropped_total",
			Help: "Playback units the device refused to schedule",
		}),
		DecodeFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "streamplay_decode_failures_total",
			Help: "Compressed fragments that failed to decode",
		}),
		UnitsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "streamplay_units_in_flight",
			Help: "Units scheduled on the device and not yet ended",
		}),
		UnitDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "streamplay_unit_duration_seconds",
			Help:    "Duration of scheduled playback units",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
		ScheduleLead: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "streamplay_schedule_lead_seconds",
			Help:    "Distance between the device clock and a unit's start time when scheduled",
			Buckets: []float64{0, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}),
	}
}

func (m *Metrics) FragmentReceived(bytes int) {
	m.FragmentsReceived.Inc()
	m.FragmentBytes.Add(float64(bytes))
}

func (m *Metrics) UnitScheduled(duration, lead float64) {
	m.UnitsScheduled.Inc()
	m.UnitsInFlight.Inc()
	m.UnitDuration.Observe(duration)
	m.ScheduleLead.Observe(lead)
}

func (m *Metrics) UnitEnded() {
	m.UnitsEnded.Inc()
	m.UnitsInFlight.Dec()
}

func (m *Metrics) UnitDropped() {
	m.UnitsDropped.Inc()
}

func (m *Metrics) DecodeFailed() {
	m.DecodeFailures.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
