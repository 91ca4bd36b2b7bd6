// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

// Package scheduler drives matchmaking: a periodic tick sweeps queue
// timeouts, pairs waiting players and hands successful pairs to match
// creation.
package scheduler

import (
	"context"
	"time"

	"github.com/arenaworks/duelcore/pkg/antiabuse"
	"github.com/arenaworks/duelcore/pkg/config"
	"github.com/arenaworks/duelcore/pkg/constants"
	"github.com/arenaworks/duelcore/pkg/duel"
	"github.com/arenaworks/duelcore/pkg/envelope"
	"github.com/arenaworks/duelcore/pkg/external"
	"github.com/arenaworks/duelcore/pkg/models"
	"github.com/arenaworks/duelcore/pkg/queue"
)

type Scheduler struct {
	cfg      *config.Config
	queue    *queue.Queue
	duels    *duel.Manager
	detector *antiabuse.Detector
	notifier external.Notifier
}

func NewScheduler(cfg *config.Config, q *queue.Queue, duels *duel.Manager, detector *antiabuse.Detector, notifier external.Notifier) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		queue:    q,
		duels:    duels,
		detector: detector,
		notifier: notifier,
	}
}

// Run ticks at the configured interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			scope := envelope.NewRootScope(ctx, "scheduler.Tick", "")
			s.Tick(scope)
			scope.Finish()
		}
	}
}

// Tick performs one scheduler pass: timeout sweep first, then the pairing
// sweep capped at the configured matches-per-tick, then a purge of stale
// anti-abuse history.
func (s *Scheduler) Tick(scope *envelope.Scope) {
	s.sweepTimeouts(scope)
	s.sweepPairs(scope)
	s.detector.PurgeStale()
}

func (s *Scheduler) sweepTimeouts(scope *envelope.Scope) {
	for _, entry := range s.queue.EvictExpired(scope) {
		s.notifier.Message(entry.PlayerID, constants.MsgQueueTimeout)
	}
}

// sweepPairs attempts one pairing per non-empty bucket until the per-tick cap
// is reached. Both entries are removed atomically before match creation; a
// pair that lost a racing removal is skipped, and a pair whose match failed
// to create is put back into the queue.
func (s *Scheduler) sweepPairs(scope *envelope.Scope) {
	created := 0
	for _, bucket := range s.queue.Buckets() {
		if created >= s.cfg.MaxMatchesPerTick {
			return
		}

		entry, ok := s.queue.Head(bucket)
		if !ok {
			continue
		}
		opponent := s.queue.FindMatch(entry)
		if opponent == nil {
			continue
		}

		// advisory only, never blocks the pairing
		if s.detector.IsSuspicious(entry.PlayerID, opponent.PlayerID) {
			scope.Log.WithField("players", []string{string(entry.PlayerID), string(opponent.PlayerID)}).
				Warn("pairing players with suspicious repeat history")
		}

		if !s.queue.RemovePair(entry.PlayerID, opponent.PlayerID) {
			// consumed by a racing sweep
			continue
		}
		scope.Log.WithField("players", []string{string(entry.PlayerID), string(opponent.PlayerID)}).
			WithField("reason", constants.EvictReasonMatched).Debug("pair pulled from queue")

		if _, err := s.duels.CreateFromQueue(scope, entry, opponent); err != nil {
			scope.Log.WithField("players", []string{string(entry.PlayerID), string(opponent.PlayerID)}).
				WithField("errorCode", models.ValidationErrorCode(err)).
				Errorf("match creation failed, re-queueing pair: %s", err)
			s.queue.Reinsert(entry)
			s.queue.Reinsert(opponent)
			continue
		}
		created++
	}
}
