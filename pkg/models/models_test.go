// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidKitName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"sword", true},
		{"no_debuff", true},
		{"uhc-1", true},
		{"0kit", true},
		{"", false},
		{"Sword", false},
		{"-leading", false},
		{"_leading", false},
		{"has space", false},
		{"über", false},
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", true},  // 64 chars
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", false}, // 65 chars
	}
	for _, tt := range tests {
		require.Equal(t, tt.valid, ValidKitName(tt.name), "kit %q", tt.name)
	}
}

func TestLocationDistanceTo(t *testing.T) {
	a := Location{World: "lobby", X: 0, Y: 0, Z: 0}
	b := Location{World: "lobby", X: 3, Y: 4, Z: 0}
	require.Equal(t, 5.0, a.DistanceTo(b))
	require.Equal(t, 5.0, b.DistanceTo(a))
	require.Equal(t, 0.0, a.DistanceTo(a))
}

func TestArenaServesKit(t *testing.T) {
	open := &Arena{Name: "colosseum"}
	require.True(t, open.ServesKit("sword"))
	require.True(t, open.ServesKit("anything"))

	restricted := &Arena{Name: "desert", Kits: []string{"axe", "uhc"}}
	require.True(t, restricted.ServesKit("axe"))
	require.False(t, restricted.ServesKit("sword"))
}

func TestMatchStateTerminal(t *testing.T) {
	require.False(t, MatchStateWaiting.Terminal())
	require.False(t, MatchStateFighting.Terminal())
	require.True(t, MatchStateEnded.Terminal())
	require.True(t, MatchStateCancelled.Terminal())
}

func TestSnapshotCopyIsDeep(t *testing.T) {
	original := Snapshot{
		PlayerID:  "player1",
		Inventory: []ItemStack{{Name: "bread", Count: 3, Meta: map[string]interface{}{"custom": "value"}}},
		Equipment: map[string]ItemStack{"head": {Name: "iron_helmet", Count: 1}},
	}

	copied := original.Copy()
	original.Inventory[0].Name = "stone"
	original.Inventory[0].Meta["custom"] = "changed"
	original.Equipment["head"] = ItemStack{Name: "pumpkin", Count: 1}

	require.Equal(t, "bread", copied.Inventory[0].Name)
	require.Equal(t, "value", copied.Inventory[0].Meta["custom"])
	require.Equal(t, "iron_helmet", copied.Equipment["head"].Name)
}

func TestQueueEntryBucket(t *testing.T) {
	entry := QueueEntry{PlayerID: "player1", Kit: "sword", Ranked: true}
	require.Equal(t, Bucket{Kit: "sword", Ranked: true}, entry.Bucket())
}
