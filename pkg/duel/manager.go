// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

package duel

import (
	"fmt"
	"sync"
	"time"

	"github.com/arenaworks/duelcore/pkg/antiabuse"
	"github.com/arenaworks/duelcore/pkg/arena"
	"github.com/arenaworks/duelcore/pkg/common"
	"github.com/arenaworks/duelcore/pkg/config"
	"github.com/arenaworks/duelcore/pkg/constants"
	"github.com/arenaworks/duelcore/pkg/envelope"
	"github.com/arenaworks/duelcore/pkg/external"
	"github.com/arenaworks/duelcore/pkg/metrics"
	"github.com/arenaworks/duelcore/pkg/models"
	"github.com/arenaworks/duelcore/pkg/playerdata"
	"github.com/arenaworks/duelcore/pkg/snapshot"
)

// Now is a variable that holds the current time function.
// This can be overridden for testing purposes.
var Now = time.Now

// Manager owns the active-match index and drives every match through its
// lifecycle. The index maps are guarded by one mutex; per-match state by the
// match's own mutex.
type Manager struct {
	cfg       *config.Config
	arenas    *arena.Pool
	snapshots *snapshot.Store
	detector  *antiabuse.Detector
	rating    external.RatingService
	directory external.PlayerDirectory
	kits      external.KitProvider
	sink      external.RecordSink
	notifier  external.Notifier
	metrics   metrics.DuelMetrics

	mu       sync.Mutex
	matches  map[string]*Match
	byPlayer map[playerdata.ID]*Match

	statsMu sync.Mutex
	stats   map[playerdata.ID]*models.PlayerStats
}

func NewManager(
	cfg *config.Config,
	arenas *arena.Pool,
	snapshots *snapshot.Store,
	detector *antiabuse.Detector,
	rating external.RatingService,
	directory external.PlayerDirectory,
	kits external.KitProvider,
	sink external.RecordSink,
	notifier external.Notifier,
	duelMetrics metrics.DuelMetrics,
) *Manager {
	return &Manager{
		cfg:       cfg,
		arenas:    arenas,
		snapshots: snapshots,
		detector:  detector,
		rating:    rating,
		directory: directory,
		kits:      kits,
		sink:      sink,
		notifier:  notifier,
		metrics:   duelMetrics,
		matches:   make(map[string]*Match),
		byPlayer:  make(map[playerdata.ID]*Match),
		stats:     make(map[playerdata.ID]*models.PlayerStats),
	}
}

// CreateFromQueue builds a match for a pair the scheduler pulled out of the
// queue. Queue matches always allocate an arena and apply the kit.
func (m *Manager) CreateFromQueue(scope *envelope.Scope, a, b *models.QueueEntry) (*Match, error) {
	return m.create(scope, a.PlayerID, b.PlayerID, a.Kit, a.Ranked, Options{})
}

// CreateDirect builds a match for an explicit duel request that bypassed the
// queue, honoring the requested match options.
func (m *Manager) CreateDirect(scope *envelope.Scope, p1, p2 playerdata.ID, kit string, ranked bool, opts Options) (*Match, error) {
	return m.create(scope, p1, p2, kit, ranked, opts)
}

func (m *Manager) create(rootScope *envelope.Scope, p1, p2 playerdata.ID, kit string, ranked bool, opts Options) (*Match, error) {
	scope := rootScope.NewChildScope("Manager.create")
	defer scope.Finish()
	scope.SetAttributes(envelope.KitNameTag, kit)
	scope.SetAttributes(envelope.ParticipantTag, []string{string(p1), string(p2)})

	var kitDef *models.Kit
	if !opts.NoKit {
		def, ok := m.kits.GetKit(scope, kit)
		if !ok {
			return nil, models.ValidationErrorKitNotFound
		}
		kitDef = def
	}

	h1, ok := m.directory.Resolve(p1)
	if !ok {
		return nil, models.ValidationErrorPlayerOffline
	}
	h2, ok := m.directory.Resolve(p2)
	if !ok {
		return nil, models.ValidationErrorPlayerOffline
	}

	if opts.Anywhere {
		if err := m.validateProximity(h1, h2); err != nil {
			return nil, err
		}
	}

	match := &Match{
		ID:        common.GenerateUUID(),
		Players:   [2]playerdata.ID{p1, p2},
		Kit:       kit,
		Ranked:    ranked,
		Anywhere:  opts.Anywhere,
		NoKit:     opts.NoKit,
		state:     models.MatchStateWaiting,
		createdAt: Now(),
	}

	if err := m.bind(match); err != nil {
		return nil, err
	}

	if !opts.Anywhere {
		allocated := m.arenas.Acquire(kit)
		if allocated == nil {
			m.drop(match)
			m.notifier.Message(p1, constants.MsgNoArena)
			m.notifier.Message(p2, constants.MsgNoArena)
			scope.Log.WithField("kit", kit).WithField("reason", constants.CancelReasonArenaUnavailable).Warn("no arena available, aborting match creation")
			return nil, models.ValidationErrorNoArenaAvailable
		}
		match.Arena = allocated
	}

	if !m.snapshots.Capture(scope, p1) || !m.snapshots.Capture(scope, p2) {
		m.restoreOrClear(scope, p1, match.Anywhere)
		m.restoreOrClear(scope, p2, match.Anywhere)
		m.arenas.Release(match.Arena)
		m.drop(match)
		return nil, models.ValidationErrorPlayerOffline
	}

	if !opts.Anywhere {
		h1.Teleport(match.Arena.SpawnA)
		h2.Teleport(match.Arena.SpawnB)
	}
	if !opts.NoKit {
		applyKit(h1, kitDef)
		applyKit(h2, kitDef)
	}

	// a disconnect or cancel may have hit the match while setup was running
	if !m.startCountdown(scope, match) {
		m.restoreOrClear(scope, p1, match.Anywhere)
		m.restoreOrClear(scope, p2, match.Anywhere)
		m.arenas.Release(match.Arena)
		m.drop(match)
		scope.Log.WithField("matchID", match.ID).Warn("match went terminal during setup, rolling back")
		return nil, models.ValidationErrorMatchCancelled
	}

	m.notifier.Message(p1, constants.MsgMatchFound)
	m.notifier.Message(p2, constants.MsgMatchFound)
	m.metrics.AddMatchCreated(kit, ranked)
	scope.Log.WithField("matchID", match.ID).WithField("kit", kit).Info("match created, countdown started")
	return match, nil
}

// bind registers the match into the active index, enforcing that a player is
// in at most one non-terminal match at a time. A terminal match lingering in
// the index during its removal grace period does not block a new one.
func (m *Manager) bind(match *Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range match.Players {
		if existing, ok := m.byPlayer[p]; ok && !existing.CurrentState().Terminal() {
			return models.ValidationErrorAlreadyInMatch
		}
	}
	m.matches[match.ID] = match
	for _, p := range match.Players {
		m.byPlayer[p] = match
	}
	return nil
}

// drop removes the match from the active index. The player entries are only
// cleared when they still point at this match, so a newer match bound during
// the grace period is left alone.
func (m *Manager) drop(match *Match) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.matches, match.ID)
	for _, p := range match.Players {
		if m.byPlayer[p] == match {
			delete(m.byPlayer, p)
		}
	}
}

// MatchFor returns the match the player is currently bound to, including a
// terminal match still inside its removal grace period.
func (m *Manager) MatchFor(id playerdata.ID) (*Match, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	match, ok := m.byPlayer[id]
	return match, ok
}

// ActiveCount returns the number of matches in the index.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matches)
}

// boundTo reports whether the player's index entry still points at match.
// Countdown ticks use this to guard against a player being pulled into a
// different match mid-countdown.
func (m *Manager) boundTo(id playerdata.ID, match *Match) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byPlayer[id] == match
}

// HandleDisconnect resolves a disconnect event against the player's active
// match: mid-countdown the match is cancelled, mid-fight the opponent wins
// by forfeit. Terminal matches ignore the event.
func (m *Manager) HandleDisconnect(scope *envelope.Scope, id playerdata.ID) {
	match, ok := m.MatchFor(id)
	if !ok {
		return
	}
	switch match.CurrentState() {
	case models.MatchStateWaiting:
		m.Cancel(scope, match, constants.CancelReasonDisconnect)
	case models.MatchStateFighting:
		m.finalize(scope, match, match.Opponent(id))
	}
}

// Cancel drives the match to CANCELLED: countdown stopped, snapshots
// restored, arena released, index entry dropped after the grace delay.
// Cancelling a terminal match is a no-op.
func (m *Manager) Cancel(scope *envelope.Scope, match *Match, reason string) {
	match.mu.Lock()
	if match.state.Terminal() {
		match.mu.Unlock()
		return
	}
	if match.cancelCountdown != nil {
		match.cancelCountdown()
	}
	match.state = models.MatchStateCancelled
	match.endedAt = Now()
	createdAt := match.createdAt
	endedAt := match.endedAt
	match.mu.Unlock()

	for _, p := range match.Players {
		m.restoreOrClear(scope, p, match.Anywhere)
		m.notifier.Message(p, fmt.Sprintf(constants.MsgMatchCancelled, reason))
	}
	m.arenas.Release(match.Arena)
	m.metrics.AddMatchEnded(match.Kit, string(models.MatchStateCancelled), endedAt.Sub(createdAt))
	scope.Log.WithField("matchID", match.ID).WithField("reason", reason).Info("match cancelled")

	m.scheduleRemoval(match)
}

// validateProximity checks the anywhere-mode constraints: same world and
// within the configured maximum distance.
func (m *Manager) validateProximity(h1, h2 external.PlayerHandle) error {
	l1, l2 := h1.Location(), h2.Location()
	if l1.World != l2.World {
		return models.ValidationErrorWorldMismatch
	}
	if l1.DistanceTo(l2) > m.cfg.AnywhereMaxDistance {
		return models.ValidationErrorTooFarApart
	}
	return nil
}

// restoreOrClear restores the player's snapshot, or drops it when the player
// is no longer reachable. Location is only restored for anywhere matches;
// post-match placement after an arena fight belongs to the embedding engine.
func (m *Manager) restoreOrClear(scope *envelope.Scope, id playerdata.ID, anywhere bool) {
	if !m.snapshots.Restore(scope, id, anywhere) {
		m.snapshots.Clear(id)
	}
}

func (m *Manager) scheduleRemoval(match *Match) {
	time.AfterFunc(m.cfg.MatchRemoveGrace(), func() {
		m.drop(match)
	})
}

func applyKit(handle external.PlayerHandle, kit *models.Kit) {
	handle.ClearLoadout()
	handle.SetInventory(kit.Items)
	handle.SetEquipment(kit.Equipment)
	handle.SetEffects(kit.Effects)
}
