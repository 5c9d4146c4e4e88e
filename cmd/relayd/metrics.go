package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds Prometheus counters and gauges for the relay daemon
type metrics struct {
	registry         *prometheus.Registry
	framesReceived   prometheus.Counter
	framesBroadcast  prometheus.Counter
	framesMalformed  prometheus.Counter
	connectedClients prometheus.Gauge
}

// newMetrics creates and registers Prometheus metrics for the relay
func newMetrics() *metrics {

	registry := prometheus.NewRegistry()

	framesReceived := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_frames_received_total",
		Help: "Total number of pose frames ingested",
	})
	framesBroadcast := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_frames_broadcast_total",
		Help: "Total number of pose frames delivered to at least one client",
	})
	framesMalformed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_frames_malformed_total",
		Help: "Total number of rejected malformed frames",
	})
	connectedClients := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "relay_connected_clients",
		Help: "Number of WebSocket clients currently connected",
	})

	registry.MustRegister(
		framesReceived,
		framesBroadcast,
		framesMalformed,
		connectedClients,
	)

	return &metrics{
		registry:         registry,
		framesReceived:   framesReceived,
		framesBroadcast:  framesBroadcast,
		framesMalformed:  framesMalformed,
		connectedClients: connectedClients,
	}
}

// handler returns an http.Handler that serves the metrics.  updateGauges is
// called before each scrape to refresh gauge values.
func (m *metrics) handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
