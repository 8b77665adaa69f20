package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Rule engine metrics
	RuleTicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printwatch_rule_ticks_total",
			Help: "Total number of evaluation ticks per rule family",
		},
		[]string{"family", "outcome"}, // outcome: evaluated, no_data, fault
	)

	RuleFaultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printwatch_rule_faults_total",
			Help: "Detection errors and recovered panics per rule family",
		},
		[]string{"family"},
	)

	RuleCandidates = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "printwatch_rule_candidates",
			Help: "Signatures currently being timed toward their dwell threshold",
		},
		[]string{"family"},
	)

	AlertsEmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printwatch_alerts_emitted_total",
			Help: "Alerts confirmed by the rule engine",
		},
		[]string{"family", "code"},
	)

	SinkFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printwatch_sink_failures_total",
			Help: "Failed alert/audit writes (not retried)",
		},
		[]string{"sink"}, // sink: alert, audit, notifier
	)

	// Telemetry metrics
	SnapshotsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printwatch_snapshots_published_total",
			Help: "Telemetry snapshots published to the store",
		},
		[]string{"origin"}, // origin: api, simulator
	)

	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printwatch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "printwatch_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)
)
