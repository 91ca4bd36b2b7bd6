// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

// Package playerdata holds the player identity type shared across the duel core.
package playerdata

// ID identifies a single player across queues, matches and snapshots.
type ID string

// IDToString converts an ID back to its string form.
func IDToString(id ID) string {
	return string(id)
}
