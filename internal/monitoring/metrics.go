// Package monitoring exposes Prometheus metrics for the allocation
// engine.  Metrics are registered through promauto at init time and
// served on /metrics by the HTTP server.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservation_bookings_total",
			Help: "Booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	bookingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reservation_booking_tx_seconds",
			Help:    "Duration of the booking check-and-commit transaction",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	transitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservation_transitions_total",
			Help: "Reservation lifecycle transitions by target status",
		},
		[]string{"to"},
	)

	waitlistOffers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "waitlist_offers_total",
			Help: "Freed-table offers proposed to waiting parties",
		},
	)

	waitlistDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "waitlist_depth",
			Help: "Current queue depth per restaurant",
		},
		[]string{"restaurant_id"},
	)
)

// TrackBooking records one booking attempt and the time its transaction took.
func TrackBooking(outcome string, dur time.Duration) {
	bookingOps.WithLabelValues(outcome).Inc()
	bookingDuration.Observe(dur.Seconds())
}

// TrackTransition records a lifecycle transition to the given status.
func TrackTransition(to string) {
	transitions.WithLabelValues(to).Inc()
}

// TrackWaitlistOffer records a proposed table/party match.
func TrackWaitlistOffer() {
	waitlistOffers.Inc()
}

// SetWaitlistDepth publishes a restaurant's current queue depth.
func SetWaitlistDepth(restaurantID string, depth int) {
	waitlistDepth.WithLabelValues(restaurantID).Set(float64(depth))
}
