// Package metrics exposes simulation counters through a Prometheus
// registry owned by the collector, served on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the simulation metrics on its own registry.
type Collector struct {
	registry *prometheus.Registry

	VehiclesInService prometheus.Gauge
	Departures        prometheus.Counter
	Retirements       prometheus.Counter
	MatchesAccepted   prometheus.Counter
	MatchesRejected   prometheus.Counter
	Boardings         prometheus.Counter
	Dropoffs          prometheus.Counter
	StepDuration      prometheus.Histogram
}

// New creates the collector and registers every metric.
func New() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Collector{
		registry: registry,
		VehiclesInService: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "mnms", Name: "vehicles_in_service",
			Help: "Vehicles currently owned by a mobility service.",
		}),
		Departures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "mnms", Name: "vehicle_departures_total",
			Help: "Vehicles launched into service.",
		}),
		Retirements: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "mnms", Name: "vehicle_retirements_total",
			Help: "Vehicles retired at the end of their route.",
		}),
		MatchesAccepted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "mnms", Name: "matches_accepted_total",
			Help: "Ride requests committed to a vehicle.",
		}),
		MatchesRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "mnms", Name: "matches_rejected_total",
			Help: "Ride requests rejected at commit time.",
		}),
		Boardings: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "mnms", Name: "boardings_total",
			Help: "Travelers boarded into a vehicle.",
		}),
		Dropoffs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "mnms", Name: "dropoffs_total",
			Help: "Travelers dropped at their leg destination.",
		}),
		StepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mnms", Name: "step_duration_seconds",
			Help:    "Wall time spent per simulation step.",
			Buckets: prometheus.ExponentialBuckets(1e-4, 4, 10),
		}),
	}
}

// Handler serves the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
