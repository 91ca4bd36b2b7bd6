// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

// Package antiabuse flags likely-farmed matches so finalization can scale
// the reward down. It is best-effort statistical flagging, never a block on
// matchmaking or finalization.
package antiabuse

import (
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/arenaworks/duelcore/pkg/config"
	"github.com/arenaworks/duelcore/pkg/envelope"
	"github.com/arenaworks/duelcore/pkg/models"
	"github.com/arenaworks/duelcore/pkg/playerdata"
)

// Now is a variable that holds the current time function.
// This can be overridden for testing purposes.
var Now = time.Now

// Detector keeps a bounded per-player history of recent opponents and match
// durations and classifies finished matches as normal or suspicious.
type Detector struct {
	window      time.Duration
	minDuration time.Duration
	maxRepeats  int
	factor      float64
	historyMax  int

	mu      sync.Mutex
	history map[playerdata.ID][]models.OpponentHistoryRecord
}

func NewDetector(cfg *config.Config) *Detector {
	return &Detector{
		window:      cfg.AbuseWindow(),
		minDuration: cfg.MinMatchDuration(),
		maxRepeats:  cfg.MaxOpponentRepeats,
		factor:      cfg.SuspiciousRewardFactor,
		historyMax:  cfg.OpponentHistoryMax,
		history:     make(map[playerdata.ID][]models.OpponentHistoryRecord),
	}
}

// IsSuspicious reports whether the two players have already faced each other
// at least the configured number of times inside the rolling window. It is
// advisory only: callers log the result before creating a match but never
// block on it.
func (d *Detector) IsSuspicious(p1, p2 playerdata.ID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.recentEncountersLocked(p1, p2, Now()) >= d.maxRepeats
}

// RegisterMatchAndScoreFactor records the finished match into both players'
// histories and returns the reward-scaling factor: the configured reduction
// when the match is suspicious, 1.0 otherwise.
//
// A match is suspicious when its duration is below the configured minimum, or
// when this encounter brings the pair's match count inside the window to the
// configured repeat threshold or beyond.
func (d *Detector) RegisterMatchAndScoreFactor(scope *envelope.Scope, p1, p2 playerdata.ID, duration time.Duration) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := Now()
	repeats := d.recentEncountersLocked(p1, p2, now) + 1
	suspicious := duration < d.minDuration || repeats >= d.maxRepeats

	d.appendLocked(p1, models.OpponentHistoryRecord{
		OpponentID: p2,
		Timestamp:  now,
		Duration:   duration,
		Suspicious: suspicious,
	})
	d.appendLocked(p2, models.OpponentHistoryRecord{
		OpponentID: p1,
		Timestamp:  now,
		Duration:   duration,
		Suspicious: suspicious,
	})

	if suspicious {
		scope.Log.WithField("players", []string{string(p1), string(p2)}).
			WithField("durationSec", duration.Seconds()).
			WithField("repeatsInWindow", repeats).
			WithField("meanDurationSec", d.meanDurationLocked(p1)).
			Warn("match flagged suspicious, scaling reward")
		return d.factor
	}
	return 1.0
}

// PurgeStale drops history records older than twice the suspicion window.
// The scheduler calls this periodically.
func (d *Detector) PurgeStale() {
	d.mu.Lock()
	defer d.mu.Unlock()

	cutoff := Now().Add(-2 * d.window)
	for id, records := range d.history {
		kept := records[:0]
		for _, r := range records {
			if r.Timestamp.After(cutoff) {
				kept = append(kept, r)
			}
		}
		if len(kept) == 0 {
			delete(d.history, id)
			continue
		}
		d.history[id] = kept
	}
}

// HistoryLen returns the number of stored records for a player.
func (d *Detector) HistoryLen(id playerdata.ID) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.history[id])
}

func (d *Detector) recentEncountersLocked(p1, p2 playerdata.ID, now time.Time) int {
	cutoff := now.Add(-d.window)
	count := 0
	for _, r := range d.history[p1] {
		if r.OpponentID == p2 && r.Timestamp.After(cutoff) {
			count++
		}
	}
	return count
}

func (d *Detector) appendLocked(id playerdata.ID, record models.OpponentHistoryRecord) {
	records := append(d.history[id], record)
	if len(records) > d.historyMax {
		records = records[len(records)-d.historyMax:]
	}
	d.history[id] = records
}

func (d *Detector) meanDurationLocked(id playerdata.ID) float64 {
	records := d.history[id]
	if len(records) == 0 {
		return 0
	}
	durations := make([]float64, 0, len(records))
	for _, r := range records {
		durations = append(durations, r.Duration.Seconds())
	}
	return stat.Mean(durations, nil)
}
