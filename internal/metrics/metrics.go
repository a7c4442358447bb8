// Package metrics defines the Prometheus collectors shared by the score
// server and the bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Score relay outcomes.
const (
	OutcomeAccepted       = "accepted"
	OutcomeRejected       = "rejected"
	OutcomeInvalid        = "invalid"
	OutcomeTransportError = "transport_error"
)

var (
	// HTTPRequests counts HTTP requests by method, route and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPLatency observes HTTP request duration by method and route.
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// HTTPInflight tracks requests currently being served.
	HTTPInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Number of in-flight HTTP requests.",
		},
	)

	// ScoreSubmissions counts /score submissions by outcome.
	ScoreSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climb_score_submissions_total",
			Help: "Score submissions relayed to Telegram, by outcome.",
		},
		[]string{"outcome"},
	)

	// UpstreamLatency observes Bot API call duration by method.
	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "climb_upstream_request_duration_seconds",
			Help:    "Bot API call latency in seconds.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method"},
	)

	// BotUpdates counts bot updates by handler and result.
	BotUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climb_bot_updates_total",
			Help: "Telegram updates handled, by handler and result.",
		},
		[]string{"handler", "result"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequests,
		HTTPLatency,
		HTTPInflight,
		ScoreSubmissions,
		UpstreamLatency,
		BotUpdates,
	)
}
