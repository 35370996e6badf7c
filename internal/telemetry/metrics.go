package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	WebhooksTotal    *prometheus.CounterVec
	ShipmentsTotal   *prometheus.CounterVec
	EscalationsTotal prometheus.Counter
	LabelsTotal      prometheus.Counter
	ShipmentDuration prometheus.Histogram
}

// NewMetrics creates and registers Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		WebhooksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fulfillment_webhooks_total",
				Help: "Total order-paid webhooks received by status",
			},
			[]string{"status"},
		),
		ShipmentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fulfillment_shipments_total",
				Help: "Total fulfillment orders processed by outcome",
			},
			[]string{"outcome"},
		),
		EscalationsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "fulfillment_rate_escalations_total",
				Help: "Total shipments escalated to a human after rate-selection exhaustion",
			},
		),
		LabelsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "fulfillment_labels_purchased_total",
				Help: "Total shipping labels purchased",
			},
		),
		ShipmentDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fulfillment_shipment_duration_seconds",
				Help:    "End-to-end processing time per fulfillment order",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordWebhook records a received webhook.
func (m *Metrics) RecordWebhook(status string) {
	m.WebhooksTotal.WithLabelValues(status).Inc()
}

// RecordShipment records a processed fulfillment order.
func (m *Metrics) RecordShipment(outcome string, duration float64) {
	m.ShipmentsTotal.WithLabelValues(outcome).Inc()
	m.ShipmentDuration.Observe(duration)
}
