// Package metrics exposes Prometheus instrumentation for the tick engine
// and transports.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry bundles every gauge/counter the server updates. A single
// instance is constructed at process start and threaded through the tick
// engine and transports.
type Registry struct {
	ConnectedClients prometheus.Gauge
	TickDuration     prometheus.Histogram
	TickOverruns     prometheus.Counter
	DatagramsIn      prometheus.Counter
	DatagramsOut     prometheus.Counter
	FramesIn         prometheus.Counter
	FramesOut        prometheus.Counter
	DecodeErrors     prometheus.Counter
	Disconnects      prometheus.Counter
}

// New registers every metric against the default registerer and returns the
// bundle.
func New() *Registry {
	return &Registry{
		ConnectedClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "pitwall",
			Name:      "connected_clients",
			Help:      "Number of clients currently holding a car slot.",
		}),
		TickDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pitwall",
			Name:      "tick_duration_seconds",
			Help:      "Wall-clock duration of one tick engine iteration.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		TickOverruns: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "pitwall",
			Name:      "tick_overruns_total",
			Help:      "Count of ticks that ran longer than the configured tick period.",
		}),
		DatagramsIn: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "pitwall",
			Name:      "udp_datagrams_in_total",
			Help:      "UDP datagrams received.",
		}),
		DatagramsOut: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "pitwall",
			Name:      "udp_datagrams_out_total",
			Help:      "UDP datagrams sent.",
		}),
		FramesIn: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "pitwall",
			Name:      "tcp_frames_in_total",
			Help:      "TCP frames decoded.",
		}),
		FramesOut: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "pitwall",
			Name:      "tcp_frames_out_total",
			Help:      "TCP frames encoded and written.",
		}),
		DecodeErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "pitwall",
			Name:      "decode_errors_total",
			Help:      "Fatal decode errors across both transports.",
		}),
		Disconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "pitwall",
			Name:      "client_disconnects_total",
			Help:      "Clients released for any reason (timeout, eviction, clean close).",
		}),
	}
}
