// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

package arena

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arenaworks/duelcore/pkg/envelope"
	"github.com/arenaworks/duelcore/pkg/models"
	"github.com/arenaworks/duelcore/pkg/testsetup"
)

// failingLoader fails world loading for the named arenas.
type failingLoader struct {
	broken map[string]bool
}

func (l *failingLoader) LoadWorld(_ *envelope.Scope, arenaName string) error {
	if l.broken[arenaName] {
		return errors.New("world file corrupted")
	}
	return nil
}

func testDefinitions() []models.Arena {
	return []models.Arena{
		{Name: "colosseum"},
		{Name: "desert", Kits: []string{"axe"}},
	}
}

func TestAcquireIsExclusive(t *testing.T) {
	scope := testsetup.NewTestScope()
	defer scope.Finish()
	pool := NewPool(scope, testDefinitions(), nil)

	first := pool.Acquire("sword")
	require.NotNil(t, first)
	require.Equal(t, "colosseum", first.Name)

	// colosseum is taken and desert does not serve sword
	require.Nil(t, pool.Acquire("sword"))

	pool.Release(first)
	require.NotNil(t, pool.Acquire("sword"))
}

func TestAcquireHonorsKitRestriction(t *testing.T) {
	scope := testsetup.NewTestScope()
	defer scope.Finish()
	pool := NewPool(scope, testDefinitions(), nil)

	taken := pool.Acquire("axe")
	require.NotNil(t, taken)
	require.Equal(t, "colosseum", taken.Name) // unrestricted arena serves any kit

	second := pool.Acquire("axe")
	require.NotNil(t, second)
	require.Equal(t, "desert", second.Name)

	require.Nil(t, pool.Acquire("axe"))
}

func TestReleaseIsIdempotentAndNilSafe(t *testing.T) {
	scope := testsetup.NewTestScope()
	defer scope.Finish()
	pool := NewPool(scope, testDefinitions(), nil)

	pool.Release(nil)

	a := pool.Acquire("sword")
	require.NotNil(t, a)
	pool.Release(a)
	pool.Release(a)
	require.Equal(t, 2, pool.Available())
}

func TestLoadFailureDisablesArena(t *testing.T) {
	scope := testsetup.NewTestScope()
	defer scope.Finish()
	loader := &failingLoader{broken: map[string]bool{"colosseum": true}}
	pool := NewPool(scope, testDefinitions(), loader)

	// the broken arena stays listed but is never handed out
	broken := pool.Get("colosseum")
	require.NotNil(t, broken)
	require.False(t, broken.Enabled)

	require.Equal(t, 1, pool.Available())
	require.Nil(t, pool.Acquire("sword"))

	a := pool.Acquire("axe")
	require.NotNil(t, a)
	require.Equal(t, "desert", a.Name)
}

func TestMarkInUseAndAvailable(t *testing.T) {
	scope := testsetup.NewTestScope()
	defer scope.Finish()
	pool := NewPool(scope, testDefinitions(), nil)

	require.True(t, pool.MarkInUse("colosseum"))
	require.False(t, pool.MarkInUse("colosseum"))
	require.False(t, pool.MarkInUse("unknown"))

	pool.MarkAvailable("colosseum")
	require.True(t, pool.MarkInUse("colosseum"))
}
