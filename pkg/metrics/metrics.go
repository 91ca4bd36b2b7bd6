// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type DuelMetrics interface {
	SetQueueDepth(kit string, ranked bool, depth int)
	AddQueueTimeout(kit string, ranked bool)
	AddMatchCreated(kit string, ranked bool)
	AddMatchEnded(kit string, state string, duration time.Duration)
	AddSuspiciousMatch(kit string)
}

func NewMetrics(registry *prometheus.Registry) DuelMetrics {
	return setupPrometheusMetrics(registry)
}
