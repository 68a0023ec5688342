package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors exported on /metrics
type Metrics struct {
	Requests  *prometheus.CounterVec
	Latency   *prometheus.HistogramVec
	ViewNodes prometheus.Histogram
	ViewEdges prometheus.Histogram
}

// NewMetrics creates the collectors and registers them, together with store
// gauges read from the given functions, on reg
func NewMetrics(reg prometheus.Registerer, storeNodes, storeEdges, sessions func() float64) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brain_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brain_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		ViewNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "brain_view_nodes",
			Help:    "Number of nodes in computed graph views",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		ViewEdges: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "brain_view_edges",
			Help:    "Number of edges in computed graph views",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}

	reg.MustRegister(
		m.Requests,
		m.Latency,
		m.ViewNodes,
		m.ViewEdges,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "brain_store_nodes",
			Help: "Nodes in the current store snapshot",
		}, storeNodes),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "brain_store_edges",
			Help: "Edges in the current store snapshot",
		}, storeEdges),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "brain_sessions_active",
			Help: "Live viewing sessions",
		}, sessions),
	)
	return m
}
