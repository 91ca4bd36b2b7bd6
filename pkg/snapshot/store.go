// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

// Package snapshot captures and restores a player's transient loadout and
// location around a match.
package snapshot

import (
	"sync"
	"time"

	"github.com/arenaworks/duelcore/pkg/envelope"
	"github.com/arenaworks/duelcore/pkg/external"
	"github.com/arenaworks/duelcore/pkg/models"
	"github.com/arenaworks/duelcore/pkg/playerdata"
)

// Now is a variable that holds the current time function.
// This can be overridden for testing purposes.
var Now = time.Now

// Store keeps at most one snapshot per player. Capture is idempotent because
// several lifecycle paths (kit apply, cancellation, disconnect) may try to
// snapshot the same player.
type Store struct {
	directory external.PlayerDirectory

	mu        sync.Mutex
	snapshots map[playerdata.ID]models.Snapshot
}

func NewStore(directory external.PlayerDirectory) *Store {
	return &Store{
		directory: directory,
		snapshots: make(map[playerdata.ID]models.Snapshot),
	}
}

// Capture stores a deep copy of the player's inventory, equipment, effects
// and location. A second capture without an intervening restore is a no-op:
// the first snapshot wins.
func (s *Store) Capture(scope *envelope.Scope, id playerdata.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.snapshots[id]; exists {
		return true
	}

	handle, ok := s.directory.Resolve(id)
	if !ok {
		scope.Log.WithField("playerID", id).Warn("cannot snapshot a disconnected player")
		return false
	}

	snap := models.Snapshot{
		PlayerID:  id,
		Inventory: handle.Inventory(),
		Equipment: handle.Equipment(),
		Effects:   handle.Effects(),
		Location:  handle.Location(),
		TakenAt:   Now(),
	}
	s.snapshots[id] = snap.Copy()
	return true
}

// Restore applies the stored state back, clearing the player's current
// loadout first, and removes the snapshot. Restoring without a snapshot is a
// safe no-op. When the player cannot be resolved the snapshot is kept and
// false is returned so the caller can decide to Clear it.
func (s *Store) Restore(scope *envelope.Scope, id playerdata.ID, alsoRestoreLocation bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, exists := s.snapshots[id]
	if !exists {
		return true
	}

	handle, ok := s.directory.Resolve(id)
	if !ok {
		scope.Log.WithField("playerID", id).Warn("cannot restore snapshot, player disconnected")
		return false
	}

	handle.ClearLoadout()
	handle.SetInventory(snap.Inventory)
	handle.SetEquipment(snap.Equipment)
	handle.SetEffects(snap.Effects)
	if alsoRestoreLocation {
		handle.Teleport(snap.Location)
	}

	delete(s.snapshots, id)
	return true
}

// Clear drops the snapshot without restoring, for players that became
// unreachable.
func (s *Store) Clear(id playerdata.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, id)
}

// Has reports whether a snapshot is stored for the player.
func (s *Store) Has(id playerdata.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.snapshots[id]
	return exists
}

// Peek returns a copy of the stored snapshot for inspection.
func (s *Store) Peek(id playerdata.ID) (models.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, exists := s.snapshots[id]
	if !exists {
		return models.Snapshot{}, false
	}
	return snap.Copy(), true
}
