// Package obs exposes Prometheus metrics for outgoing OneSky API calls.
package obs

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StatusTransportError labels calls that never produced an HTTP response.
const StatusTransportError = "error"

// Metrics records outgoing requests by method, route template and status.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	inFlight prometheus.Gauge
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "onesky",
			Subsystem: "client",
			Name:      "in_flight_requests",
			Help:      "In-flight OneSky API requests.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onesky",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Total number of OneSky API requests.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "onesky",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "OneSky API request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	for _, c := range []prometheus.Collector{m.inFlight, m.requests, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Start marks a request as in flight and returns a function that records its
// outcome. Pass status 0 when no response was received.
func (m *Metrics) Start(method, route string) func(status int) {
	if m == nil {
		return func(int) {}
	}
	m.inFlight.Inc()
	start := time.Now()
	return func(status int) {
		label := StatusTransportError
		if status > 0 {
			label = strconv.Itoa(status)
		}
		m.duration.WithLabelValues(method, route, label).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(method, route, label).Inc()
		m.inFlight.Dec()
	}
}
