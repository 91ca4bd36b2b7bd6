// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

package duel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arenaworks/duelcore/pkg/constants"
	"github.com/arenaworks/duelcore/pkg/envelope"
	"github.com/arenaworks/duelcore/pkg/models"
)

// countdownTickInterval is the spacing between countdown ticks.
// This can be overridden for testing purposes.
var countdownTickInterval = time.Second

// startCountdown arms the pre-fight countdown. The timer is a genuine
// cancellable handle tied to the match: any terminal transition cancels it
// explicitly instead of relying on the next tick to notice. The arming is
// atomic with the state check: a match that went terminal while creation was
// still setting it up is refused, and the caller rolls the setup back.
func (m *Manager) startCountdown(scope *envelope.Scope, match *Match) bool {
	ctx, cancel := context.WithCancel(context.Background())
	match.mu.Lock()
	if match.state.Terminal() {
		match.mu.Unlock()
		cancel()
		return false
	}
	match.cancelCountdown = cancel
	match.mu.Unlock()

	go m.runCountdown(ctx, scope, match)
	return true
}

func (m *Manager) runCountdown(ctx context.Context, scope *envelope.Scope, match *Match) {
	remaining := m.cfg.CountdownSecond
	ticker := time.NewTicker(countdownTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !m.countdownTick(scope, match, remaining) {
				return
			}
			remaining--
			if remaining <= 0 {
				m.beginFighting(scope, match)
				return
			}
		}
	}
}

// countdownTick re-validates the match every tick: both players connected,
// both still bound to this match, and for anywhere matches still within
// range in the same world. Any violation cancels the match. Returns false
// when the countdown should stop.
func (m *Manager) countdownTick(scope *envelope.Scope, match *Match, remaining int) bool {
	if match.CurrentState() != models.MatchStateWaiting {
		return false
	}

	for _, p := range match.Players {
		handle, ok := m.directory.Resolve(p)
		if !ok || !handle.Connected() {
			m.Cancel(scope, match, constants.CancelReasonDisconnect)
			return false
		}
		if !m.boundTo(p, match) {
			m.Cancel(scope, match, constants.CancelReasonRebound)
			return false
		}
	}

	if match.Anywhere {
		h1, ok1 := m.directory.Resolve(match.Players[0])
		h2, ok2 := m.directory.Resolve(match.Players[1])
		if !ok1 || !ok2 {
			m.Cancel(scope, match, constants.CancelReasonDisconnect)
			return false
		}
		if err := m.validateProximity(h1, h2); err != nil {
			for _, p := range match.Players {
				m.notifier.Message(p, constants.MsgTooFarApart)
			}
			reason := constants.CancelReasonProximity
			if errors.Is(err, models.ValidationErrorWorldMismatch) {
				reason = constants.CancelReasonEnvironment
			}
			m.Cancel(scope, match, reason)
			return false
		}
	}

	for _, p := range match.Players {
		m.notifier.Message(p, fmt.Sprintf(constants.MsgCountdownTick, remaining))
	}
	return true
}

// beginFighting transitions WAITING to FIGHTING once the countdown reaches
// zero. A match cancelled in the meantime stays terminal.
func (m *Manager) beginFighting(scope *envelope.Scope, match *Match) {
	match.mu.Lock()
	if match.state != models.MatchStateWaiting {
		match.mu.Unlock()
		return
	}
	match.state = models.MatchStateFighting
	match.startedAt = Now()
	match.mu.Unlock()

	for _, p := range match.Players {
		m.notifier.Message(p, constants.MsgFight)
	}
	scope.Log.WithField("matchID", match.ID).Info("countdown complete, fight phase started")
}
