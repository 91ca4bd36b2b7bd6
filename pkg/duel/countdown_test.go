// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

package duel

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arenaworks/duelcore/pkg/constants"
	"github.com/arenaworks/duelcore/pkg/models"
)

func TestCountdownReachesFighting(t *testing.T) {
	fastCountdown(t)
	h := newHarness(t, nil)

	match, err := h.manager.CreateFromQueue(h.scope,
		&models.QueueEntry{PlayerID: "player1", Kit: "sword"},
		&models.QueueEntry{PlayerID: "player2", Kit: "sword"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return match.CurrentState() == models.MatchStateFighting
	}, time.Second, time.Millisecond)
	require.False(t, match.StartedAt().IsZero())

	received := h.notifier.Received("player1")
	require.Contains(t, received, fmt.Sprintf(constants.MsgCountdownTick, 2))
	require.Contains(t, received, fmt.Sprintf(constants.MsgCountdownTick, 1))
	require.Contains(t, received, constants.MsgFight)
}

func TestCountdownCancelsOnDisconnect(t *testing.T) {
	fastCountdown(t)
	cfg := testManagerConfig()
	cfg.CountdownSecond = 1000
	h := newHarness(t, cfg)

	match, err := h.manager.CreateFromQueue(h.scope,
		&models.QueueEntry{PlayerID: "player1", Kit: "sword"},
		&models.QueueEntry{PlayerID: "player2", Kit: "sword"})
	require.NoError(t, err)

	h.p2.SetConnected(false)

	require.Eventually(t, func() bool {
		return match.CurrentState() == models.MatchStateCancelled
	}, time.Second, time.Millisecond)
	require.Equal(t, 1, h.arenas.Available())
	require.Contains(t, h.notifier.Received("player1"),
		fmt.Sprintf(constants.MsgMatchCancelled, constants.CancelReasonDisconnect))
}

func TestCountdownCancelsWhenPlayersSeparate(t *testing.T) {
	fastCountdown(t)
	cfg := testManagerConfig()
	cfg.CountdownSecond = 1000
	h := newHarness(t, cfg)

	match, err := h.manager.CreateDirect(h.scope, "player1", "player2", "sword", false, Options{Anywhere: true})
	require.NoError(t, err)

	h.p2.Teleport(models.Location{World: "lobby", X: 500, Y: 64, Z: 0})

	require.Eventually(t, func() bool {
		return match.CurrentState() == models.MatchStateCancelled
	}, time.Second, time.Millisecond)
	require.Contains(t, h.notifier.Received("player1"), constants.MsgTooFarApart)
}

func TestCountdownCancelsOnWorldChange(t *testing.T) {
	fastCountdown(t)
	cfg := testManagerConfig()
	cfg.CountdownSecond = 1000
	h := newHarness(t, cfg)

	match, err := h.manager.CreateDirect(h.scope, "player1", "player2", "sword", false, Options{Anywhere: true})
	require.NoError(t, err)

	h.p2.Teleport(models.Location{World: "nether", X: 5, Y: 64, Z: 5})

	require.Eventually(t, func() bool {
		return match.CurrentState() == models.MatchStateCancelled
	}, time.Second, time.Millisecond)
	require.Contains(t, h.notifier.Received("player1"),
		fmt.Sprintf(constants.MsgMatchCancelled, constants.CancelReasonEnvironment))
}

func TestCountdownStopsWhenMatchAlreadyTerminal(t *testing.T) {
	fastCountdown(t)
	cfg := testManagerConfig()
	cfg.CountdownSecond = 1000
	h := newHarness(t, cfg)

	match, err := h.manager.CreateFromQueue(h.scope,
		&models.QueueEntry{PlayerID: "player1", Kit: "sword"},
		&models.QueueEntry{PlayerID: "player2", Kit: "sword"})
	require.NoError(t, err)

	h.manager.Cancel(h.scope, match, constants.CancelReasonManual)

	// let any tick already in flight drain before sampling
	time.Sleep(10 * time.Millisecond)
	sent := h.notifier.Count("player1")

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, sent, h.notifier.Count("player1"))
	require.Equal(t, models.MatchStateCancelled, match.CurrentState())
}
