// Package telemetry holds the Prometheus collectors for the server.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups every collector the server exports.
type Metrics struct {
	registry *prometheus.Registry

	DeviceCommands    *prometheus.CounterVec
	DeviceDropped     prometheus.Counter
	PlayoutOnAir      prometheus.Gauge
	PlayoutElapsed    prometheus.Gauge
	PlayoutTakes      prometheus.Counter
	APIRequestsTotal  *prometheus.CounterVec
	APIRequestSeconds *prometheus.HistogramVec
	DBQuerySeconds    *prometheus.HistogramVec
	DBErrors          *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		DeviceCommands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "onair_device_commands_total",
			Help: "Switcher commands sent, by function and result.",
		}, []string{"function", "result"}),
		DeviceDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "onair_device_commands_dropped_total",
			Help: "Switcher commands dropped because the dispatch queue was full.",
		}),
		PlayoutOnAir: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "onair_playout_on_air",
			Help: "1 while an item is on air, 0 when idle.",
		}),
		PlayoutElapsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "onair_playout_elapsed_seconds",
			Help: "Elapsed seconds of the on-air item.",
		}),
		PlayoutTakes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "onair_playout_takes_total",
			Help: "Items promoted to on air.",
		}),
		APIRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "onair_api_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "endpoint", "status"}),
		APIRequestSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "onair_api_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint", "status"}),
		DBQuerySeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "onair_db_query_duration_seconds",
			Help:    "Database statement latency by operation and table.",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"operation", "table"}),
		DBErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "onair_db_errors_total",
			Help: "Failed database statements by operation and table.",
		}, []string{"operation", "table"}),
	}

	m.registry.MustRegister(
		m.DeviceCommands,
		m.DeviceDropped,
		m.PlayoutOnAir,
		m.PlayoutElapsed,
		m.PlayoutTakes,
		m.APIRequestsTotal,
		m.APIRequestSeconds,
		m.DBQuerySeconds,
		m.DBErrors,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
