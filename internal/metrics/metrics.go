package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for hackbot
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	TeamOperationsTotal  *prometheus.CounterVec
	InviteResolutions    *prometheus.CounterVec
	MemberJoinsTotal     *prometheus.CounterVec
	NotificationsTotal   *prometheus.CounterVec
	NotificationsDropped prometheus.Counter
	ExpiredInvitesTotal  prometheus.Counter
}

// NewMetricsRegistry registers every metric on reg. Pass prometheus.DefaultRegisterer
// in production and a fresh prometheus.NewRegistry() in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hackbot_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hackbot_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "hackbot_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hackbot_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hackbot_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Business Metrics
		TeamOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hackbot_team_operations_total",
				Help: "Team workflow operations by operation and outcome code",
			},
			[]string{"operation", "outcome"},
		),
		InviteResolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hackbot_invite_resolutions_total",
				Help: "Invites resolved by final status",
			},
			[]string{"status"},
		),
		MemberJoinsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hackbot_member_joins_total",
				Help: "Member join events by verification result",
			},
			[]string{"result"},
		),
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hackbot_notifications_total",
				Help: "Queued notifications delivered by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		NotificationsDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "hackbot_notifications_dropped_total",
				Help: "Notifications dropped because the queue was full",
			},
		),
		ExpiredInvitesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "hackbot_invites_expired_total",
				Help: "Pending invites marked expired by the expiry job",
			},
		),
	}
}
