package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "enigma"

// Collector records session activity.
type Collector struct {
	traffic     *prometheus.CounterVec
	requests    *prometheus.CounterVec
	suspensions *prometheus.CounterVec
	objectAPIs  prometheus.Gauge
}

// New creates the session collectors and registers them with reg.
// A nil reg leaves them unregistered. Collectors already registered by
// another session are reused.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		traffic: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "traffic_messages_total",
				Help:      "Messages exchanged with the engine.",
			},
			[]string{"direction"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "requests_total",
				Help:      "Requests sent through the session by outcome.",
			},
			[]string{"outcome"},
		),
		suspensions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "suspensions_total",
				Help:      "Session suspensions by initiator.",
			},
			[]string{"initiator"},
		),
		objectAPIs: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "object_apis",
				Help:      "Object APIs currently cached.",
			},
		),
	}

	if reg != nil {
		c.traffic = register(reg, c.traffic)
		c.requests = register(reg, c.requests)
		c.suspensions = register(reg, c.suspensions)
		c.objectAPIs = register(reg, c.objectAPIs)
	}

	return c
}

func register[T prometheus.Collector](reg prometheus.Registerer, col T) T {
	if err := reg.Register(col); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing
			}
		}

		return col
	}

	return col
}

// RecordTraffic counts one message in direction.
func (c *Collector) RecordTraffic(direction string) {
	c.traffic.WithLabelValues(direction).Inc()
}

// RecordRequest counts a settled request.
func (c *Collector) RecordRequest(err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}

	c.requests.WithLabelValues(outcome).Inc()
}

// RecordRejected counts a request refused before reaching the transport.
func (c *Collector) RecordRejected() {
	c.requests.WithLabelValues("rejected").Inc()
}

// RecordSuspension counts a suspension by initiator.
func (c *Collector) RecordSuspension(initiator string) {
	c.suspensions.WithLabelValues(initiator).Inc()
}

// SetObjectAPIs sets the number of cached object APIs.
func (c *Collector) SetObjectAPIs(n int) {
	c.objectAPIs.Set(float64(n))
}
