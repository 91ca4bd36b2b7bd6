// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

package duel

import (
	"fmt"
	"math"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/arenaworks/duelcore/pkg/common"
	"github.com/arenaworks/duelcore/pkg/constants"
	"github.com/arenaworks/duelcore/pkg/envelope"
	"github.com/arenaworks/duelcore/pkg/models"
	"github.com/arenaworks/duelcore/pkg/playerdata"
)

// ReportWinner resolves an external combat event naming a winner against the
// winner's active match. Events arriving for a match already terminal (or
// for a player with no match at all) are ignored, which makes duplicate
// reports harmless.
func (m *Manager) ReportWinner(scope *envelope.Scope, winner playerdata.ID) {
	match, ok := m.MatchFor(winner)
	if !ok {
		scope.Log.WithField("playerID", winner).Debug("winner report for unknown match, ignoring")
		return
	}
	m.finalize(scope, match, winner)
}

// finalize drives the match to ENDED exactly once: snapshots restored,
// anti-abuse factor obtained, rating settled and reconciled, record
// persisted asynchronously, aggregates updated, arena released, and the
// match dropped from the index after the grace delay.
func (m *Manager) finalize(rootScope *envelope.Scope, match *Match, winner playerdata.ID) {
	scope := rootScope.NewChildScope("Manager.finalize")
	defer scope.Finish()
	scope.SetAttributes(envelope.MatchIDTag, match.ID)

	match.mu.Lock()
	if match.state.Terminal() {
		match.mu.Unlock()
		return
	}
	if match.cancelCountdown != nil {
		match.cancelCountdown()
	}
	match.state = models.MatchStateEnded
	match.endedAt = Now()
	if match.startedAt.IsZero() {
		// winner reported before the countdown finished; measure from creation
		match.startedAt = match.createdAt
	}
	match.winner = winner
	startedAt := match.startedAt
	endedAt := match.endedAt
	match.mu.Unlock()

	loser := match.Opponent(winner)
	duration := endedAt.Sub(startedAt)

	m.restoreOrClear(scope, winner, match.Anywhere)
	m.restoreOrClear(scope, loser, match.Anywhere)

	factor := m.scoreFactor(scope, winner, loser, duration)
	suspicious := factor != 1.0
	if suspicious {
		m.metrics.AddSuspiciousMatch(match.Kit)
	}

	delta := m.settleRating(scope, match, winner, loser, factor)
	m.recordStats(winner, loser)

	record := models.MatchRecord{
		RecordID:    ulid.Make().String(),
		MatchID:     match.ID,
		PlayerA:     match.Players[0],
		PlayerB:     match.Players[1],
		Winner:      winner,
		Kit:         match.Kit,
		Ranked:      match.Ranked,
		RatingDelta: delta,
		Suspicious:  suspicious,
		StartedAt:   startedAt,
		EndedAt:     endedAt,
	}
	go func() {
		if err := m.sink.AppendMatchRecord(scope, record); err != nil {
			scope.Log.WithField("matchID", match.ID).WithField("record", common.LogJSONFormatter(record)).
				Errorf("failed to persist match record: %s", err)
		}
	}()

	m.arenas.Release(match.Arena)
	m.notifier.Message(winner, fmt.Sprintf(constants.MsgMatchWon, loser))
	m.notifier.Message(loser, fmt.Sprintf(constants.MsgMatchLost, winner))
	m.metrics.AddMatchEnded(match.Kit, string(models.MatchStateEnded), duration)
	scope.Log.WithField("matchID", match.ID).WithField("winner", winner).WithField("durationSec", duration.Seconds()).Info("match finalized")

	m.scheduleRemoval(match)
}

// scoreFactor asks the anti-abuse detector for the reward-scaling factor.
// Detector failures never block finalization: any panic defaults to the
// non-suspicious factor.
func (m *Manager) scoreFactor(scope *envelope.Scope, winner, loser playerdata.ID, duration time.Duration) (factor float64) {
	factor = 1.0
	defer func() {
		if r := recover(); r != nil {
			scope.Log.Errorf("anti-abuse detector failed, defaulting to factor 1.0: %v", r)
			factor = 1.0
		}
	}()
	factor = m.detector.RegisterMatchAndScoreFactor(scope, winner, loser, duration)
	return factor
}

// settleRating applies the external rating update for ranked matches and
// reconciles it with the anti-abuse factor: the nominal delta is settled by
// the service, then only the difference between nominal and scaled is applied
// as a corrective adjustment, so the stored delta matches the scaled value
// exactly. Returns the final delta credited to the winner.
func (m *Manager) settleRating(scope *envelope.Scope, match *Match, winner, loser playerdata.ID, factor float64) int {
	if !match.Ranked || !m.cfg.RankedEnabled || !m.rating.Configured() {
		return 0
	}

	nominal, err := m.rating.UpdateRatingAfterMatch(scope, winner, loser)
	if err != nil {
		scope.Log.WithField("matchID", match.ID).Errorf("rating update failed, skipping: %s", err)
		return 0
	}

	scaled := int(math.Round(float64(nominal) * factor))
	if adjustment := scaled - nominal; adjustment != 0 {
		if err := m.rating.AdjustRating(scope, winner, adjustment, constants.AdjustReasonSuspiciousScaling); err != nil {
			scope.Log.WithField("matchID", match.ID).Errorf("corrective rating adjustment failed: %s", err)
			return nominal
		}
	}
	return scaled
}
