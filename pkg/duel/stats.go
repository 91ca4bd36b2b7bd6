// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

package duel

import (
	"github.com/arenaworks/duelcore/pkg/mathutil"
	"github.com/arenaworks/duelcore/pkg/models"
	"github.com/arenaworks/duelcore/pkg/playerdata"
)

// recordStats updates the cumulative win/loss/streak aggregates.
func (m *Manager) recordStats(winner, loser playerdata.ID) {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()

	w := m.statsLocked(winner)
	w.Wins++
	w.CurrentStreak++
	w.BestStreak = mathutil.Max(w.BestStreak, w.CurrentStreak)

	l := m.statsLocked(loser)
	l.Losses++
	l.CurrentStreak = 0
}

// Stats returns a copy of the player's aggregates.
func (m *Manager) Stats(id playerdata.ID) (models.PlayerStats, bool) {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()

	stats, ok := m.stats[id]
	if !ok {
		return models.PlayerStats{}, false
	}
	return *stats, true
}

func (m *Manager) statsLocked(id playerdata.ID) *models.PlayerStats {
	stats, ok := m.stats[id]
	if !ok {
		stats = &models.PlayerStats{PlayerID: id}
		m.stats[id] = stats
	}
	return stats
}
