package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "swiftlink_http_request_duration_seconds",
		Help:    "Duration of HTTP requests by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	ShipmentsBooked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swiftlink_shipments_booked_total",
		Help: "Shipments created after a successful capacity reservation.",
	})

	CapacityRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swiftlink_capacity_rejections_total",
		Help: "Reservations refused because the flight had too little capacity left.",
	})

	ShipmentTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swiftlink_shipment_transitions_total",
		Help: "Shipment status changes by target status.",
	}, []string{"status"})

	SettledCents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swiftlink_settled_cents_total",
		Help: "Money moved by settlements, split by carrier payout and platform fee.",
	}, []string{"kind"})

	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swiftlink_notification_failures_total",
		Help: "Notifications that could not be delivered.",
	}, []string{"event"})
)
