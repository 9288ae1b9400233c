// Package metrics collects and exposes Prometheus metrics for the scheduler.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records booking and request outcomes for Prometheus scraping.
// It satisfies the application layer's ReservationMetrics interface.
type Collector struct {
	reservationsCreated prometheus.Counter
	slotConflicts       prometheus.Counter
	notifierFailures    prometheus.Counter
	httpStatus          *prometheus.CounterVec
	requestLatency      prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		reservationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_reservations_created_total",
			Help: "Total number of successfully booked interview slots.",
		}),
		slotConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_slot_conflicts_total",
			Help: "Total number of bookings rejected because the slot was taken.",
		}),
		notifierFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_notifier_failures_total",
			Help: "Total number of confirmation deliveries that failed.",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_http_status_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scheduler_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.reservationsCreated,
		c.slotConflicts,
		c.notifierFailures,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// ReservationCreated counts a committed booking.
func (c *Collector) ReservationCreated() {
	c.reservationsCreated.Inc()
}

// SlotConflict counts a booking rejected for a taken slot.
func (c *Collector) SlotConflict() {
	c.slotConflicts.Inc()
}

// NotifierFailure counts a failed confirmation delivery.
func (c *Collector) NotifierFailure() {
	c.notifierFailures.Inc()
}

// RecordHTTPStatus counts a response by status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency observes the duration of a handled request.
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// Handler returns the Prometheus scrape handler for the registry.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
