// Package metrics exposes per-port health counters through
// github.com/prometheus/client_golang, grounded on the pack's own use
// of that library for exactly this shape of link-health exporter
// (runZeroInc-sockstats' TCPInfoCollector, dantte-lp-gobfd's BFD
// session gauges). Metrics are additive instrumentation: spec.md never
// lists them as a Non-goal, only full-duplex and persistence are
// excluded.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// PortMetrics is the set of counters/gauges for one serial port. Each
// PortAdapter owns one, labeled with its own device path so multiple
// ports can share a registry (spec §5: "multiple ports do not share
// state", but they may share an exporter).
type PortMetrics struct {
	framesParsed    prometheus.Counter
	framesNAKed     prometheus.Counter
	retransmits     *prometheus.CounterVec
	linefault       prometheus.Gauge
	alarmsForwarded prometheus.Counter
}

// NewPortMetrics creates and registers a PortMetrics for device against
// reg. Passing prometheus.NewRegistry() (rather than the global
// DefaultRegisterer) keeps multi-port tests isolated from each other.
func NewPortMetrics(reg prometheus.Registerer, device string) *PortMetrics {
	labels := prometheus.Labels{"device": device}

	m := &PortMetrics{
		framesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "alplink",
			Name:        "frames_parsed_total",
			Help:        "ALP frames successfully parsed off the wire.",
			ConstLabels: labels,
		}),
		framesNAKed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "alplink",
			Name:        "frames_naked_total",
			Help:        "Inbound byte sequences that triggered a NAK.",
			ConstLabels: labels,
		}),
		retransmits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "alplink",
			Name:        "retransmits_total",
			Help:        "Downlink retransmissions, by cause.",
			ConstLabels: labels,
		}, []string{"cause"}),
		linefault: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "alplink",
			Name:        "linefault",
			Help:        "1 while this port's linefault is latched, 0 otherwise.",
			ConstLabels: labels,
		}),
		alarmsForwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "alplink",
			Name:        "alarms_forwarded_total",
			Help:        "Classified uplink alarms forwarded to the alarm sink.",
			ConstLabels: labels,
		}),
	}

	reg.MustRegister(m.framesParsed, m.framesNAKed, m.retransmits, m.linefault, m.alarmsForwarded)
	return m
}

func (m *PortMetrics) FrameParsed() { m.framesParsed.Inc() }
func (m *PortMetrics) FrameNAKed()  { m.framesNAKed.Inc() }

func (m *PortMetrics) Retransmit(cause string) {
	m.retransmits.WithLabelValues(cause).Inc()
}

func (m *PortMetrics) AlarmForwarded() { m.alarmsForwarded.Inc() }

func (m *PortMetrics) FaultDetected() { m.linefault.Set(1) }
func (m *PortMetrics) FaultCleared()  { m.linefault.Set(0) }
