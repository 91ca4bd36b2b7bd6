// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

// Package external declares the boundary interfaces the duel core consumes.
// Every collaborator here is optional at runtime: callers resolve a concrete
// implementation once at startup, or fall back to the null objects in this
// package, so the core never probes for capabilities per call.
package external

import (
	"github.com/arenaworks/duelcore/pkg/envelope"
	"github.com/arenaworks/duelcore/pkg/models"
	"github.com/arenaworks/duelcore/pkg/playerdata"
)

/*
RatingService is the opaque skill-rating collaborator. The duel core never
computes rating deltas itself: it asks the service to settle a finished match
and only applies a corrective adjustment when the anti-abuse detector scales
the reward down.

Configured reports whether a real backend is wired in. When it returns false
all ranked-path code degrades to a no-op instead of failing.
*/
type RatingService interface {
	// Configured reports whether the service is backed by a real rating store.
	Configured() bool

	// GetRating returns the player's current skill rating.
	GetRating(scope *envelope.Scope, id playerdata.ID) (int, error)

	// UpdateRatingAfterMatch settles a finished match and returns the nominal
	// rating delta that was credited to the winner (and debited from the loser).
	UpdateRatingAfterMatch(scope *envelope.Scope, winner, loser playerdata.ID) (int, error)

	// AdjustRating applies a corrective delta to a single player, with a
	// reason recorded for audit.
	AdjustRating(scope *envelope.Scope, id playerdata.ID, delta int, reason string) error
}

// PlayerHandle is a live connection handle resolved from a player ID.
// It is the only way the core reads or writes a player's transient state.
type PlayerHandle interface {
	ID() playerdata.ID
	Connected() bool
	Location() models.Location
	Teleport(loc models.Location)
	Inventory() []models.ItemStack
	Equipment() map[string]models.ItemStack
	Effects() []models.Effect
	SetInventory(items []models.ItemStack)
	SetEquipment(slots map[string]models.ItemStack)
	SetEffects(effects []models.Effect)
	// ClearLoadout empties inventory, equipment and active effects.
	ClearLoadout()
}

// PlayerDirectory resolves live connection handles.
// Resolve returns false when the player has disconnected.
type PlayerDirectory interface {
	Resolve(id playerdata.ID) (PlayerHandle, bool)
}

// KitProvider supplies loadout definitions. A missing kit is a fail-fast
// condition for match creation, never a silent default.
type KitProvider interface {
	GetKit(scope *envelope.Scope, name string) (*models.Kit, bool)
}

// RecordSink is the asynchronous persistence boundary for completed matches.
// Writes are fire-and-forget from the core's point of view: failures are
// logged by the caller and never surfaced to players.
type RecordSink interface {
	AppendMatchRecord(scope *envelope.Scope, record models.MatchRecord) error
}

// Notifier sends textual feedback to a player. Fire-and-forget, never a
// blocking dependency.
type Notifier interface {
	Message(id playerdata.ID, text string)
}
