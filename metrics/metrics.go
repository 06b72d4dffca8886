package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	admissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hotel_booking_admissions_total",
		Help: "Booking admission attempts by outcome",
	}, []string{"outcome"})

	transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hotel_booking_transitions_total",
		Help: "Booking status changes by operation and target status",
	}, []string{"kind", "status"})

	admissionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hotel_booking_admission_duration_seconds",
		Help:    "Time spent deciding a booking admission",
		Buckets: prometheus.DefBuckets,
	})

	occupancyRate = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hotel_occupancy_rate_percent",
		Help: "Occupancy of the last computed daily snapshot",
	})
)

// ObserveAdmission records one admission decision. outcome is "admitted" or an error kind.
func ObserveAdmission(outcome string, started time.Time) {
	admissions.WithLabelValues(outcome).Inc()
	admissionDuration.Observe(time.Since(started).Seconds())
}

func ObserveTransition(kind, status string) {
	transitions.WithLabelValues(kind, status).Inc()
}

func SetOccupancy(rate float64) {
	occupancyRate.Set(rate)
}
