// Package metrics exposes Prometheus instrumentation for the booking
// backend. Collectors are registered once on the default registry and
// served over /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// WebhooksReceived counts inbound checkout webhooks by verification
	// outcome: "accepted" or "rejected".
	WebhooksReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_webhooks_received_total",
		Help: "Inbound checkout webhooks by HMAC verification outcome",
	}, []string{"outcome"})

	// AppointmentsRecorded counts ledger rows written from checkout
	// webhooks.
	AppointmentsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_appointments_recorded_total",
		Help: "Appointments written to the ledger from checkout webhooks",
	})

	// IntakeDayFailures counts per-day intake failures that were isolated
	// and skipped.
	IntakeDayFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_intake_day_failures_total",
		Help: "Per-day intake failures isolated during webhook processing",
	})

	// AutoBlackouts counts blackout dates created by the capacity rule
	AutoBlackouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_auto_blackouts_total",
		Help: "Blackout dates created automatically by the capacity threshold",
	})

	// WaitingListSignups counts accepted waiting-list submissions
	WaitingListSignups = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_waiting_list_signups_total",
		Help: "Accepted waiting-list submissions",
	})

	// IntakeDuration observes end-to-end webhook processing time
	IntakeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "booking_intake_duration_seconds",
		Help:    "End-to-end checkout webhook processing time",
		Buckets: prometheus.DefBuckets,
	})
)

// Handler returns the HTTP handler serving the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
