// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

// Package models holds the data objects shared by the duel core packages.
package models

import (
	"math"
	"regexp"
	"time"

	"github.com/mitchellh/copystructure"
	"github.com/sirupsen/logrus"

	"github.com/arenaworks/duelcore/pkg/playerdata"
)

// kitNamePattern is the syntax accepted for kit selectors.
var kitNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// ValidKitName reports whether name is a syntactically valid kit selector.
func ValidKitName(name string) bool {
	return kitNamePattern.MatchString(name)
}

// Bucket keys a matchmaking sub-queue by kit selector and ranked flag.
type Bucket struct {
	Kit    string
	Ranked bool
}

// QueueEntry is one waiting player inside a bucket.
// A player occupies at most one queue entry system-wide.
type QueueEntry struct {
	PlayerID playerdata.ID
	Kit      string
	Ranked   bool
	Rating   int // 0 for unranked entries
	QueuedAt time.Time
}

func (e QueueEntry) Bucket() Bucket {
	return Bucket{Kit: e.Kit, Ranked: e.Ranked}
}

// Location is a point in a named world.
type Location struct {
	World string
	X     float64
	Y     float64
	Z     float64
}

// DistanceTo returns the euclidean distance to other, ignoring the world name.
func (l Location) DistanceTo(other Location) float64 {
	dx := l.X - other.X
	dy := l.Y - other.Y
	dz := l.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// ItemStack is one inventory slot content.
type ItemStack struct {
	Name  string
	Count int
	Meta  map[string]interface{}
}

// Effect is a temporary status effect on a player.
type Effect struct {
	Name      string
	Amplifier int
	ExpiresAt time.Time
}

// Kit is a loadout definition supplied by the kit provider.
type Kit struct {
	Name      string
	Items     []ItemStack
	Equipment map[string]ItemStack
	Effects   []Effect
}

// Arena is an exclusively-allocated battle space.
// InUse may only be flipped by the arena pool, which guards it with its lock.
type Arena struct {
	Name    string
	SpawnA  Location
	SpawnB  Location
	Kits    []string // kit selectors this arena serves; empty means any
	Enabled bool
	InUse   bool
}

// ServesKit reports whether the arena accepts matches for the given kit.
func (a *Arena) ServesKit(kit string) bool {
	if len(a.Kits) == 0 {
		return true
	}
	for _, k := range a.Kits {
		if k == kit {
			return true
		}
	}
	return false
}

// MatchState is the lifecycle state of a match.
type MatchState string

const (
	MatchStateWaiting   MatchState = "WAITING"
	MatchStateFighting  MatchState = "FIGHTING"
	MatchStateEnded     MatchState = "ENDED"
	MatchStateCancelled MatchState = "CANCELLED"
)

// Terminal reports whether the state admits no further transitions.
func (s MatchState) Terminal() bool {
	return s == MatchStateEnded || s == MatchStateCancelled
}

// Snapshot is a saved copy of a player's transient loadout and location,
// captured when a match starts applying a kit and restored afterwards.
type Snapshot struct {
	PlayerID  playerdata.ID
	Inventory []ItemStack
	Equipment map[string]ItemStack
	Effects   []Effect
	Location  Location
	TakenAt   time.Time
}

// Copy deep-copies the snapshot so later mutation of live player state
// cannot leak into the stored copy.
func (s Snapshot) Copy() Snapshot {
	copied, err := copystructure.Copy(s)
	if err != nil {
		logrus.Warn("Failed to copy Snapshot struct:", err)
		return s
	}
	snapshot, _ := copied.(Snapshot)
	return snapshot
}

// OpponentHistoryRecord is one entry in a player's bounded anti-abuse history.
type OpponentHistoryRecord struct {
	OpponentID playerdata.ID
	Timestamp  time.Time
	Duration   time.Duration
	Suspicious bool
}

// PlayerStats are the cumulative win/loss/streak aggregates kept per player.
type PlayerStats struct {
	PlayerID      playerdata.ID
	Wins          int
	Losses        int
	CurrentStreak int
	BestStreak    int
}

// MatchRecord is the completed-match row handed to the persistence sink.
type MatchRecord struct {
	RecordID    string
	MatchID     string
	PlayerA     playerdata.ID
	PlayerB     playerdata.ID
	Winner      playerdata.ID
	Kit         string
	Ranked      bool
	RatingDelta int
	Suspicious  bool
	StartedAt   time.Time
	EndedAt     time.Time
}
