// Package observability provides metric instruments and tracing for the
// forwarder's dispatch path.
package observability

import (
	gu "github.com/xraph/go-utils/metrics"
)

// Metrics holds metric instruments for the forwarder, backed by any
// go-utils MetricFactory (e.g. metrics.NewMetricsCollector() for
// standalone usage, or the host application's factory).
type Metrics struct {
	EventsObserved   gu.Counter
	DeliveriesTotal  gu.Counter
	DeliveryLatency  gu.Histogram
	WebhooksDisabled gu.Counter
}

// NewMetrics creates the forwarder's metric instruments using the
// supplied factory.
func NewMetrics(factory gu.MetricFactory) *Metrics {
	return &Metrics{
		EventsObserved:   factory.Counter("lmsflow_events_observed_total"),
		DeliveriesTotal:  factory.Counter("lmsflow_deliveries_total"),
		DeliveryLatency:  factory.Histogram("lmsflow_delivery_latency_seconds"),
		WebhooksDisabled: factory.Counter("lmsflow_webhooks_disabled_total"),
	}
}

// RecordDelivery records a delivery attempt with the given status and latency.
func (m *Metrics) RecordDelivery(status string, latencySeconds float64) {
	m.DeliveriesTotal.WithLabels(map[string]string{"status": status}).Inc()
	m.DeliveryLatency.Observe(latencySeconds)
}

// RecordEvent records one observed platform event by type.
func (m *Metrics) RecordEvent(eventType string) {
	m.EventsObserved.WithLabels(map[string]string{"eventtype": eventType}).Inc()
}
