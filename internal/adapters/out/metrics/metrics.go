// Package metrics exposes Prometheus collectors for order events, dispatch and
// push delivery.
package metrics

import (
	"context"
	"net/http"
	"time"

	"orderhub/internal/core/application/fanout"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orderhub"

// Metrics counts domain events and observes push attempts. It is a
// ports.EventHandler and a fanout.DeliveryObserver.
type Metrics struct {
	gatherer prometheus.Gatherer

	DomainEventsTotal      *prometheus.CounterVec
	OrderTransitionsTotal  *prometheus.CounterVec
	DriverAssignmentsTotal prometheus.Counter
	PushDeliveriesTotal    *prometheus.CounterVec
	PushDuration           prometheus.Histogram
}

var (
	_ ports.EventHandler      = (*Metrics)(nil)
	_ fanout.DeliveryObserver = (*Metrics)(nil)
)

// New creates the collectors and registers them with reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,

		DomainEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "domain_events_total",
				Help:      "Total number of committed domain events",
			},
			[]string{"event"},
		),

		OrderTransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "order_transitions_total",
				Help:      "Total number of order status transitions",
			},
			[]string{"from", "to"},
		),

		DriverAssignmentsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "driver_assignments_total",
				Help:      "Total number of drivers assigned to orders",
			},
		),

		PushDeliveriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "push_deliveries_total",
				Help:      "Total number of web push attempts by outcome",
			},
			[]string{"outcome"},
		),

		PushDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "push_duration_seconds",
				Help:      "Duration of single web push attempts",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}

	reg.MustRegister(
		m.DomainEventsTotal,
		m.OrderTransitionsTotal,
		m.DriverAssignmentsTotal,
		m.PushDeliveriesTotal,
		m.PushDuration,
	)

	return m
}

func (m *Metrics) Handle(_ context.Context, event kernel.DomainEvent) error {
	m.DomainEventsTotal.WithLabelValues(event.EventName()).Inc()

	switch e := event.(type) {
	case order.OrderStatusChanged:
		m.OrderTransitionsTotal.WithLabelValues(e.OldStatus.String(), e.NewStatus.String()).Inc()
	case order.DriverAssigned:
		m.DriverAssignmentsTotal.Inc()
	}

	return nil
}

func (m *Metrics) ObservePush(outcome fanout.Outcome, elapsed time.Duration) {
	m.PushDeliveriesTotal.WithLabelValues(string(outcome)).Inc()
	m.PushDuration.Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
