// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

package duel

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arenaworks/duelcore/pkg/antiabuse"
	"github.com/arenaworks/duelcore/pkg/arena"
	"github.com/arenaworks/duelcore/pkg/config"
	"github.com/arenaworks/duelcore/pkg/constants"
	"github.com/arenaworks/duelcore/pkg/envelope"
	"github.com/arenaworks/duelcore/pkg/external"
	"github.com/arenaworks/duelcore/pkg/models"
	"github.com/arenaworks/duelcore/pkg/playerdata"
	"github.com/arenaworks/duelcore/pkg/snapshot"
	"github.com/arenaworks/duelcore/pkg/testsetup"
)

var (
	lobbyA = models.Location{World: "lobby", X: 0, Y: 64, Z: 0}
	lobbyB = models.Location{World: "lobby", X: 5, Y: 64, Z: 5}
)

func testManagerConfig() *config.Config {
	return &config.Config{
		CountdownSecond:        2,
		AbuseWindowSecond:      3600,
		MinMatchDurationSecond: 0,
		MaxOpponentRepeats:     3,
		SuspiciousRewardFactor: 0.5,
		OpponentHistoryMax:     50,
		MatchRemoveGraceSecond: 60,
		AnywhereMaxDistance:    50,
		RankedEnabled:          true,
	}
}

type harness struct {
	cfg       *config.Config
	manager   *Manager
	arenas    *arena.Pool
	snapshots *snapshot.Store
	rating    *testsetup.StubRatingService
	directory *testsetup.StubDirectory
	notifier  *testsetup.StubNotifier
	sink      *testsetup.StubRecordSink
	p1, p2    *testsetup.StubPlayer
	scope     *envelope.Scope
}

func newHarness(t *testing.T, cfg *config.Config) *harness {
	return newHarnessWithArenas(t, cfg, []models.Arena{{
		Name:   "colosseum",
		SpawnA: models.Location{World: "arena_world", X: -10, Y: 80, Z: 0},
		SpawnB: models.Location{World: "arena_world", X: 10, Y: 80, Z: 0},
	}})
}

func newHarnessWithArenas(t *testing.T, cfg *config.Config, definitions []models.Arena) *harness {
	if cfg == nil {
		cfg = testManagerConfig()
	}
	scope := testsetup.NewTestScope()
	t.Cleanup(scope.Finish)

	p1 := testsetup.NewStubPlayer("player1", lobbyA)
	p1.SetInventory([]models.ItemStack{{Name: "bread", Count: 3}})
	p2 := testsetup.NewStubPlayer("player2", lobbyB)
	p2.SetInventory([]models.ItemStack{{Name: "bread", Count: 3}})
	directory := testsetup.NewStubDirectory(p1, p2)

	h := &harness{
		cfg:       cfg,
		arenas:    arena.NewPool(scope, definitions, nil),
		snapshots: snapshot.NewStore(directory),
		rating:    testsetup.NewStubRatingService(20),
		directory: directory,
		notifier:  testsetup.NewStubNotifier(),
		sink:      testsetup.NewStubRecordSink(),
		p1:        p1,
		p2:        p2,
		scope:     scope,
	}
	h.manager = NewManager(
		cfg,
		h.arenas,
		h.snapshots,
		antiabuse.NewDetector(cfg),
		h.rating,
		directory,
		testsetup.NewStubKitProvider(&models.Kit{
			Name:  "sword",
			Items: []models.ItemStack{{Name: "diamond_sword", Count: 1}},
		}),
		h.sink,
		h.notifier,
		testsetup.NewNoopMetrics(),
	)
	return h
}

// fastCountdown shrinks the countdown tick spacing so lifecycle tests finish
// in milliseconds.
func fastCountdown(t *testing.T) {
	countdownTickInterval = time.Millisecond
	t.Cleanup(func() { countdownTickInterval = time.Second })
}

func TestCreateFromQueueStartsWaitingMatch(t *testing.T) {
	h := newHarness(t, nil)

	match, err := h.manager.CreateFromQueue(h.scope,
		&models.QueueEntry{PlayerID: "player1", Kit: "sword"},
		&models.QueueEntry{PlayerID: "player2", Kit: "sword"})
	require.NoError(t, err)
	require.Equal(t, models.MatchStateWaiting, match.CurrentState())
	require.NotNil(t, match.Arena)
	require.Equal(t, 0, h.arenas.Available())

	// both players were snapshotted, teleported and kitted
	require.True(t, h.snapshots.Has("player1"))
	require.True(t, h.snapshots.Has("player2"))
	require.Equal(t, "arena_world", h.p1.Location().World)
	require.Equal(t, "arena_world", h.p2.Location().World)
	require.Equal(t, "diamond_sword", h.p1.Inventory()[0].Name)

	require.Contains(t, h.notifier.Received("player1"), constants.MsgMatchFound)

	bound, ok := h.manager.MatchFor("player2")
	require.True(t, ok)
	require.Equal(t, match.ID, bound.ID)
	require.Equal(t, 1, h.manager.ActiveCount())
}

func TestCreateFailsForUnknownKit(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.manager.CreateFromQueue(h.scope,
		&models.QueueEntry{PlayerID: "player1", Kit: "ghost_kit"},
		&models.QueueEntry{PlayerID: "player2", Kit: "ghost_kit"})
	require.ErrorIs(t, err, models.ValidationErrorKitNotFound)
	require.Equal(t, 0, h.manager.ActiveCount())
	require.Equal(t, 1, h.arenas.Available())
}

func TestCreateFailsForOfflinePlayer(t *testing.T) {
	h := newHarness(t, nil)
	h.directory.Remove("player2")

	_, err := h.manager.CreateFromQueue(h.scope,
		&models.QueueEntry{PlayerID: "player1", Kit: "sword"},
		&models.QueueEntry{PlayerID: "player2", Kit: "sword"})
	require.ErrorIs(t, err, models.ValidationErrorPlayerOffline)
	require.Equal(t, 0, h.manager.ActiveCount())
	require.False(t, h.snapshots.Has("player1"))
}

func TestCreateRejectsPlayerAlreadyInMatch(t *testing.T) {
	h := newHarness(t, nil)
	h.directory.Add(testsetup.NewStubPlayer("player3", lobbyA))

	_, err := h.manager.CreateFromQueue(h.scope,
		&models.QueueEntry{PlayerID: "player1", Kit: "sword"},
		&models.QueueEntry{PlayerID: "player2", Kit: "sword"})
	require.NoError(t, err)

	_, err = h.manager.CreateDirect(h.scope, "player1", "player3", "sword", false, Options{})
	require.ErrorIs(t, err, models.ValidationErrorAlreadyInMatch)
	require.Equal(t, 1, h.manager.ActiveCount())
}

func TestCreateFailsWhenNoArenaAvailable(t *testing.T) {
	h := newHarnessWithArenas(t, nil, nil)

	_, err := h.manager.CreateFromQueue(h.scope,
		&models.QueueEntry{PlayerID: "player1", Kit: "sword"},
		&models.QueueEntry{PlayerID: "player2", Kit: "sword"})
	require.ErrorIs(t, err, models.ValidationErrorNoArenaAvailable)
	require.Contains(t, h.notifier.Received("player1"), constants.MsgNoArena)
	require.Contains(t, h.notifier.Received("player2"), constants.MsgNoArena)

	// the failed attempt must not leave the players bound
	require.Equal(t, 0, h.manager.ActiveCount())
	_, ok := h.manager.MatchFor("player1")
	require.False(t, ok)
}

func TestAnywhereMatchSkipsArenaAndTeleport(t *testing.T) {
	h := newHarness(t, nil)

	match, err := h.manager.CreateDirect(h.scope, "player1", "player2", "sword", false, Options{Anywhere: true})
	require.NoError(t, err)
	require.Nil(t, match.Arena)
	require.Equal(t, 1, h.arenas.Available())
	require.Equal(t, lobbyA, h.p1.Location())
	require.Equal(t, lobbyB, h.p2.Location())

	// the kit still applies unless NoKit was requested
	require.Equal(t, "diamond_sword", h.p1.Inventory()[0].Name)
}

func TestAnywhereMatchValidatesProximity(t *testing.T) {
	h := newHarness(t, nil)

	h.p2.Teleport(models.Location{World: "nether", X: 5, Y: 64, Z: 5})
	_, err := h.manager.CreateDirect(h.scope, "player1", "player2", "sword", false, Options{Anywhere: true})
	require.ErrorIs(t, err, models.ValidationErrorWorldMismatch)

	h.p2.Teleport(models.Location{World: "lobby", X: 100, Y: 64, Z: 0})
	_, err = h.manager.CreateDirect(h.scope, "player1", "player2", "sword", false, Options{Anywhere: true})
	require.ErrorIs(t, err, models.ValidationErrorTooFarApart)
}

func TestNoKitMatchKeepsLoadout(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.manager.CreateDirect(h.scope, "player1", "player2", "any-name-works", false, Options{Anywhere: true, NoKit: true})
	require.NoError(t, err)
	require.Equal(t, "bread", h.p1.Inventory()[0].Name)
}

func TestCancelRestoresPlayersAndReleasesArena(t *testing.T) {
	h := newHarness(t, nil)

	match, err := h.manager.CreateFromQueue(h.scope,
		&models.QueueEntry{PlayerID: "player1", Kit: "sword"},
		&models.QueueEntry{PlayerID: "player2", Kit: "sword"})
	require.NoError(t, err)

	h.manager.Cancel(h.scope, match, constants.CancelReasonManual)
	require.Equal(t, models.MatchStateCancelled, match.CurrentState())
	require.Equal(t, 1, h.arenas.Available())
	require.Equal(t, "bread", h.p1.Inventory()[0].Name)
	require.False(t, h.snapshots.Has("player1"))

	// cancelling a terminal match is a no-op
	sent := h.notifier.Count("player1")
	h.manager.Cancel(h.scope, match, constants.CancelReasonManual)
	require.Equal(t, sent, h.notifier.Count("player1"))
}

func TestHandleDisconnectDuringCountdownCancels(t *testing.T) {
	h := newHarness(t, nil)

	match, err := h.manager.CreateFromQueue(h.scope,
		&models.QueueEntry{PlayerID: "player1", Kit: "sword"},
		&models.QueueEntry{PlayerID: "player2", Kit: "sword"})
	require.NoError(t, err)
	require.Equal(t, models.MatchStateWaiting, match.CurrentState())

	h.manager.HandleDisconnect(h.scope, "player2")
	require.Equal(t, models.MatchStateCancelled, match.CurrentState())
	require.Equal(t, 1, h.arenas.Available())
}

func TestHandleDisconnectWithoutMatchIsIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.manager.HandleDisconnect(h.scope, "player1")
	require.Equal(t, 0, h.manager.ActiveCount())
}

// hookedDirectory fires a callback on the nth handle resolution, which lets a
// test interleave an event into the middle of match setup.
type hookedDirectory struct {
	*testsetup.StubDirectory
	mu    sync.Mutex
	calls int
	at    int
	hook  func()
}

func (d *hookedDirectory) Resolve(id playerdata.ID) (external.PlayerHandle, bool) {
	d.mu.Lock()
	d.calls++
	fire := d.calls == d.at
	d.mu.Unlock()
	if fire && d.hook != nil {
		d.hook()
	}
	return d.StubDirectory.Resolve(id)
}

func TestTerminalTransitionDuringSetupRollsBack(t *testing.T) {
	cfg := testManagerConfig()
	scope := testsetup.NewTestScope()
	defer scope.Finish()

	p1 := testsetup.NewStubPlayer("player1", lobbyA)
	p1.SetInventory([]models.ItemStack{{Name: "bread", Count: 3}})
	p2 := testsetup.NewStubPlayer("player2", lobbyB)
	p2.SetInventory([]models.ItemStack{{Name: "bread", Count: 3}})

	// creation resolves each player once up front; the third resolution is
	// the first snapshot capture, which runs after the match became visible
	// in the index
	directory := &hookedDirectory{
		StubDirectory: testsetup.NewStubDirectory(p1, p2),
		at:            3,
	}

	pool := arena.NewPool(scope, []models.Arena{{
		Name:   "colosseum",
		SpawnA: models.Location{World: "arena_world", X: -10, Y: 80, Z: 0},
		SpawnB: models.Location{World: "arena_world", X: 10, Y: 80, Z: 0},
	}}, nil)
	store := snapshot.NewStore(directory)
	notifier := testsetup.NewStubNotifier()
	manager := NewManager(
		cfg,
		pool,
		store,
		antiabuse.NewDetector(cfg),
		testsetup.NewStubRatingService(20),
		directory,
		testsetup.NewStubKitProvider(&models.Kit{
			Name:  "sword",
			Items: []models.ItemStack{{Name: "diamond_sword", Count: 1}},
		}),
		testsetup.NewStubRecordSink(),
		notifier,
		testsetup.NewNoopMetrics(),
	)

	directory.hook = func() {
		if match, ok := manager.MatchFor("player1"); ok {
			manager.Cancel(scope, match, constants.CancelReasonDisconnect)
		}
	}

	_, err := manager.CreateFromQueue(scope,
		&models.QueueEntry{PlayerID: "player1", Kit: "sword"},
		&models.QueueEntry{PlayerID: "player2", Kit: "sword"})
	require.ErrorIs(t, err, models.ValidationErrorMatchCancelled)

	// setup is fully rolled back: no stranded snapshots, arena free, no
	// lingering index entries, loadouts back to pre-match state
	require.False(t, store.Has("player1"))
	require.False(t, store.Has("player2"))
	require.Equal(t, 1, pool.Available())
	require.Equal(t, 0, manager.ActiveCount())
	_, ok := manager.MatchFor("player1")
	require.False(t, ok)
	require.Equal(t, "bread", p1.Inventory()[0].Name)
	require.Equal(t, "bread", p2.Inventory()[0].Name)

	// the pair can be matched again right away
	directory.hook = nil
	_, err = manager.CreateFromQueue(scope,
		&models.QueueEntry{PlayerID: "player1", Kit: "sword"},
		&models.QueueEntry{PlayerID: "player2", Kit: "sword"})
	require.NoError(t, err)
}
