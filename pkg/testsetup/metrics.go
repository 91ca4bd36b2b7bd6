// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"time"

	"github.com/arenaworks/duelcore/pkg/metrics"
)

// NewNoopMetrics returns a DuelMetrics that records nothing, for tests that
// do not assert on metrics.
func NewNoopMetrics() metrics.DuelMetrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) SetQueueDepth(_ string, _ bool, _ int)             {}
func (noopMetrics) AddQueueTimeout(_ string, _ bool)                  {}
func (noopMetrics) AddMatchCreated(_ string, _ bool)                  {}
func (noopMetrics) AddMatchEnded(_ string, _ string, _ time.Duration) {}
func (noopMetrics) AddSuspiciousMatch(_ string)                       {}
