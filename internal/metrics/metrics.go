package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "picklejar_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "picklejar_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ReservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "picklejar_reservations_total",
			Help: "Total number of reservation rows by resulting status",
		},
		[]string{"status", "mode"},
	)

	ReservationWriteFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "picklejar_reservation_write_failures_total",
			Help: "Total number of reservation rows that failed to save",
		},
	)

	ReviewActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "picklejar_review_actions_total",
			Help: "Total number of admin review actions",
		},
		[]string{"action"},
	)

	QuotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "picklejar_quotes_total",
			Help: "Total number of priced selections",
		},
		[]string{"policy", "promo"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "picklejar_notifications_total",
			Help: "Total number of notifications by outcome",
		},
		[]string{"type", "status"},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "picklejar_events_published_total",
			Help: "Total number of domain events published",
		},
		[]string{"routing_key", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "picklejar_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	PendingReservations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "picklejar_pending_reservations",
			Help: "Reservations awaiting admin review at the last digest run",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordReservation(status, mode string) {
	ReservationsTotal.WithLabelValues(status, mode).Inc()
}

func RecordReservationWriteFailure() {
	ReservationWriteFailuresTotal.Inc()
}

func RecordReviewAction(action string) {
	ReviewActionsTotal.WithLabelValues(action).Inc()
}

func RecordQuote(policy string, promo bool) {
	QuotesTotal.WithLabelValues(policy, strconv.FormatBool(promo)).Inc()
}

func RecordNotification(notificationType, status string) {
	NotificationsTotal.WithLabelValues(notificationType, status).Inc()
}

func RecordEvent(routingKey, status string) {
	EventsPublishedTotal.WithLabelValues(routingKey, status).Inc()
}

func SetEmailQueueLength(n int64) {
	EmailQueueLength.Set(float64(n))
}

func SetPendingReservations(n int) {
	PendingReservations.Set(float64(n))
}
