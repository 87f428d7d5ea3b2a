// Package metrics exposes the server's Prometheus collectors. Purely
// observational: nothing here feeds back into simulation or the wire
// protocol (spec.md §9's ambient-stack carve-out from the Non-goals).
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors bundles the gauges/counters/histograms the server core
// updates every tick and on every connection event.
type Collectors struct {
	ConnectedPlayers prometheus.Gauge
	TicksTotal       prometheus.Counter
	ProtocolErrors   prometheus.Counter
	BroadcastSeconds prometheus.Histogram
}

// NewCollectors registers a fresh set of collectors against its own
// registry so multiple server instances (as in tests) don't collide
// on the default global registry.
func NewCollectors() (*Collectors, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collectors{
		ConnectedPlayers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "netcode_connected_players",
			Help: "Number of players currently joined to the authoritative world.",
		}),
		TicksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "netcode_ticks_total",
			Help: "Number of simulation ticks run.",
		}),
		ProtocolErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "netcode_protocol_errors_total",
			Help: "Number of malformed or undispatchable messages dropped.",
		}),
		BroadcastSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "netcode_broadcast_seconds",
			Help:    "Time spent encoding and writing one tick's snapshot to all connections.",
			Buckets: prometheus.DefBuckets,
		}),
	}, reg
}

// Serve starts an HTTP server exposing /metrics on addr. The caller
// runs this in its own goroutine; Serve blocks until the listener
// fails.
func Serve(addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return http.ListenAndServe(addr, mux)
}
