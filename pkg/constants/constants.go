// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

package constants

const (
	// DefaultRating is the rating assigned to players the rating service has never seen.
	DefaultRating = 1000

	// UnrankedRating is the fixed rating recorded for unranked queue entries.
	UnrankedRating = 0
)

const (
	// Cancel reason constants.
	CancelReasonDisconnect       = "cancel_player_disconnected"
	CancelReasonRebound          = "cancel_player_rebound_to_other_match"
	CancelReasonArenaUnavailable = "cancel_arena_unavailable"
	CancelReasonProximity        = "cancel_proximity_violated"
	CancelReasonEnvironment      = "cancel_environment_mismatch"
	CancelReasonManual           = "cancel_manual"

	// Queue eviction reason constants.
	EvictReasonTimeout = "evict_queue_timeout"
	EvictReasonMatched = "evict_match_found"
	EvictReasonLeft    = "evict_manual_leave"

	// Rating adjustment reason constants.
	AdjustReasonSuspiciousScaling = "suspicious_match_scaling"
)

const (
	// Player-facing notification texts.
	MsgQueueTimeout   = "Your queue timed out, try again."
	MsgMatchFound     = "Match found!"
	MsgCountdownTick  = "Duel starting in %d..."
	MsgFight          = "Fight!"
	MsgMatchCancelled = "Your duel was cancelled: %s"
	MsgMatchWon       = "You won the duel against %s."
	MsgMatchLost      = "You lost the duel against %s."
	MsgTooFarApart    = "You drifted too far from your opponent."
	MsgNoArena        = "No arena is available right now, try again shortly."
)
