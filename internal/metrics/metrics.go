package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the various metrics used for monitoring the client.
// It includes counters for API calls, clock transitions and reviews,
// a gauge for the last successful clock action, and histograms for
// request and storage latency.
type Metrics struct {
	Requests          *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	ClockTransitions  *prometheus.CounterVec
	LastSuccessfulRun *prometheus.GaugeVec
	Reviews           *prometheus.CounterVec
	Logins            *prometheus.CounterVec
	DBQueryDuration   *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with the provided Registerer.
//
// Parameters:
//   - reg: A prometheus.Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		Requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "horae_api_requests_total",
			Help: "Total requests issued to the attendance API, by verb and outcome kind.",
		}, []string{"verb", "outcome"}),
		RequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "horae_api_request_duration_seconds",
			Help:    "Round-trip time of attendance API requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"verb"}),
		ClockTransitions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "horae_clock_transitions_total",
			Help: "Clock-in and clock-out attempts, by action and status.",
		}, []string{"action", "status"}),
		LastSuccessfulRun: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "horae_last_successful_clock_timestamp",
			Help: "Last time a clock action succeeded",
		}, []string{"action"}),
		Reviews: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "horae_reviews_total",
			Help: "Report review attempts, by requested status and outcome.",
		}, []string{"status", "outcome"}),
		Logins: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "horae_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "horae_storage_query_duration_seconds",
			Help:    "Duration of client storage queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'get_item', 'set_item', 'remove_item'
	}

	metrics.Logins.WithLabelValues("success")
	metrics.Logins.WithLabelValues("failure")

	return metrics
}
