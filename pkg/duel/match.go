// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

// Package duel owns the per-match state machine: creation, countdown,
// fighting, finalization and cancellation.
package duel

import (
	"context"
	"sync"
	"time"

	"github.com/arenaworks/duelcore/pkg/models"
	"github.com/arenaworks/duelcore/pkg/playerdata"
)

// Options selects the match variant at creation time.
type Options struct {
	// Anywhere skips arena allocation and teleportation; the players fight
	// in place after a proximity check.
	Anywhere bool
	// NoKit leaves the players' current loadout untouched.
	NoKit bool
}

// Match is one 1v1 duel. State transitions go through the Manager, which
// guards them with the match mutex; everything else is set once at creation
// and read-only afterwards.
type Match struct {
	ID       string
	Players  [2]playerdata.ID
	Kit      string
	Ranked   bool
	Anywhere bool
	NoKit    bool
	Arena    *models.Arena // nil for anywhere-mode matches

	mu              sync.Mutex
	state           models.MatchState
	createdAt       time.Time
	startedAt       time.Time
	endedAt         time.Time
	winner          playerdata.ID
	cancelCountdown context.CancelFunc
}

// CurrentState returns the match state.
func (m *Match) CurrentState() models.MatchState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Winner returns the recorded winner, empty until the match ends.
func (m *Match) Winner() playerdata.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.winner
}

// StartedAt returns the time the fight phase began, zero while waiting.
func (m *Match) StartedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startedAt
}

// EndedAt returns the terminal transition time, zero while active.
func (m *Match) EndedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.endedAt
}

// Involves reports whether the player is one of the two participants.
func (m *Match) Involves(id playerdata.ID) bool {
	return m.Players[0] == id || m.Players[1] == id
}

// Opponent returns the other participant.
func (m *Match) Opponent(id playerdata.ID) playerdata.ID {
	if m.Players[0] == id {
		return m.Players[1]
	}
	return m.Players[0]
}
