package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// quoteRequests tracks quote computations per booking type.
	quoteRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_quote_requests_total",
		Help: "Total number of quote requests by booking type",
	}, []string{"booking_type"})

	// quoteErrors tracks failed quote computations.
	quoteErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_quote_errors_total",
		Help: "Total number of failed quote requests by reason",
	}, []string{"reason"})

	// quoteDuration tracks the time taken to compute a quote.
	quoteDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_quote_duration_seconds",
		Help:    "Time taken to compute a quote by booking type",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"booking_type"})

	// quoteAmount tracks the distribution of quoted totals.
	quoteAmount = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_quote_amount",
		Help:    "Distribution of quoted totals by booking type",
		Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
	}, []string{"booking_type"})

	// webhookEvents tracks accepted payment webhook events.
	webhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_webhook_events_total",
		Help: "Total number of accepted payment webhook events by kind",
	}, []string{"kind"})
)

// Recorder provides methods to record service metrics.
type Recorder struct{}

// NewRecorder creates a new metrics recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordQuote records a completed quote computation.
func (r *Recorder) RecordQuote(bookingType string, total float64, duration time.Duration) {
	quoteRequests.WithLabelValues(bookingType).Inc()
	quoteDuration.WithLabelValues(bookingType).Observe(duration.Seconds())
	quoteAmount.WithLabelValues(bookingType).Observe(total)
}

// RecordQuoteError records a failed quote computation.
func (r *Recorder) RecordQuoteError(reason string) {
	quoteErrors.WithLabelValues(reason).Inc()
}

// RecordWebhookEvent records an accepted payment webhook event.
func (r *Recorder) RecordWebhookEvent(kind string) {
	webhookEvents.WithLabelValues(kind).Inc()
}
