// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type prometheusMetrics struct {
	queueDepth        prometheus.GaugeVec
	queueTimeouts     prometheus.CounterVec
	matchesCreated    prometheus.CounterVec
	matchDuration     prometheus.HistogramVec
	suspiciousMatches prometheus.CounterVec
}

func setupPrometheusMetrics(registry *prometheus.Registry) prometheusMetrics {
	factory := promauto.With(registry)
	bucketLabelDimensions := []string{"kit", "ranked"}

	queueDepth := factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aw_duel_queue_depth",
			Help: "Number of players waiting per (kit, ranked) bucket",
		}, bucketLabelDimensions)

	queueTimeouts := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aw_duel_queue_timeouts_total",
			Help: "Queue entries evicted by the timeout sweep",
		}, bucketLabelDimensions)

	matchesCreated := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aw_duel_matches_created_total",
			Help: "Matches created from pairing sweeps and direct requests",
		}, bucketLabelDimensions)

	//nolint:promlinter
	matchDuration := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aw_duel_match_duration_seconds",
			Help:    "A histogram of terminal match durations in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"kit", "state"})

	suspiciousMatches := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aw_duel_suspicious_matches_total",
			Help: "Matches flagged by the anti-abuse heuristic",
		}, []string{"kit"})

	return prometheusMetrics{
		queueDepth:        *queueDepth,
		queueTimeouts:     *queueTimeouts,
		matchesCreated:    *matchesCreated,
		matchDuration:     *matchDuration,
		suspiciousMatches: *suspiciousMatches,
	}
}

func bucketLabels(kit string, ranked bool) prometheus.Labels {
	return prometheus.Labels{"kit": kit, "ranked": strconv.FormatBool(ranked)}
}

func (metrics prometheusMetrics) SetQueueDepth(kit string, ranked bool, depth int) {
	metrics.queueDepth.With(bucketLabels(kit, ranked)).Set(float64(depth))
}

func (metrics prometheusMetrics) AddQueueTimeout(kit string, ranked bool) {
	metrics.queueTimeouts.With(bucketLabels(kit, ranked)).Add(float64(1))
}

func (metrics prometheusMetrics) AddMatchCreated(kit string, ranked bool) {
	metrics.matchesCreated.With(bucketLabels(kit, ranked)).Add(float64(1))
}

func (metrics prometheusMetrics) AddMatchEnded(kit string, state string, duration time.Duration) {
	metrics.matchDuration.With(prometheus.Labels{"kit": kit, "state": state}).Observe(duration.Seconds())
}

func (metrics prometheusMetrics) AddSuspiciousMatch(kit string) {
	metrics.suspiciousMatches.With(prometheus.Labels{"kit": kit}).Add(float64(1))
}
