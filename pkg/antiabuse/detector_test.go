// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

package antiabuse

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arenaworks/duelcore/pkg/config"
	"github.com/arenaworks/duelcore/pkg/playerdata"
	"github.com/arenaworks/duelcore/pkg/testsetup"
)

func newTestDetector() *Detector {
	return NewDetector(&config.Config{
		AbuseWindowSecond:      3600,
		MinMatchDurationSecond: 30,
		MaxOpponentRepeats:     3,
		SuspiciousRewardFactor: 0.5,
		OpponentHistoryMax:     5,
	})
}

func TestShortMatchIsSuspicious(t *testing.T) {
	d := newTestDetector()
	scope := testsetup.NewTestScope()
	defer scope.Finish()

	factor := d.RegisterMatchAndScoreFactor(scope, "farmer", "alt", 5*time.Second)
	require.Equal(t, 0.5, factor)
	require.Equal(t, 1, d.HistoryLen("farmer"))
	require.Equal(t, 1, d.HistoryLen("alt"))
}

func TestNormalMatchScoresFullFactor(t *testing.T) {
	d := newTestDetector()
	scope := testsetup.NewTestScope()
	defer scope.Finish()

	factor := d.RegisterMatchAndScoreFactor(scope, "player1", "player2", 2*time.Minute)
	require.Equal(t, 1.0, factor)
	require.False(t, d.IsSuspicious("player1", "player2"))
}

func TestRepeatOpponentsBecomeSuspicious(t *testing.T) {
	d := newTestDetector()
	scope := testsetup.NewTestScope()
	defer scope.Finish()

	// first two rematches are fine, the third hits the repeat threshold
	require.Equal(t, 1.0, d.RegisterMatchAndScoreFactor(scope, "farmer", "alt", 2*time.Minute))
	require.Equal(t, 1.0, d.RegisterMatchAndScoreFactor(scope, "farmer", "alt", 2*time.Minute))
	require.False(t, d.IsSuspicious("farmer", "alt"))

	require.Equal(t, 0.5, d.RegisterMatchAndScoreFactor(scope, "farmer", "alt", 2*time.Minute))
	require.True(t, d.IsSuspicious("farmer", "alt"))
	require.True(t, d.IsSuspicious("alt", "farmer"))
}

func TestRepeatCountIgnoresOtherOpponents(t *testing.T) {
	d := newTestDetector()
	scope := testsetup.NewTestScope()
	defer scope.Finish()

	require.Equal(t, 1.0, d.RegisterMatchAndScoreFactor(scope, "player1", "a", 2*time.Minute))
	require.Equal(t, 1.0, d.RegisterMatchAndScoreFactor(scope, "player1", "b", 2*time.Minute))
	require.Equal(t, 1.0, d.RegisterMatchAndScoreFactor(scope, "player1", "c", 2*time.Minute))
	require.False(t, d.IsSuspicious("player1", "d"))
}

func TestPurgeStale(t *testing.T) {
	d := newTestDetector()
	scope := testsetup.NewTestScope()
	defer scope.Finish()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	defer func() { Now = time.Now }()

	Now = func() time.Time { return base }
	d.RegisterMatchAndScoreFactor(scope, "player1", "player2", 2*time.Minute)

	// inside twice the window the record survives
	Now = func() time.Time { return base.Add(90 * time.Minute) }
	d.PurgeStale()
	require.Equal(t, 1, d.HistoryLen("player1"))

	// but the encounter no longer counts toward suspicion
	require.False(t, d.IsSuspicious("player1", "player2"))

	Now = func() time.Time { return base.Add(121 * time.Minute) }
	d.PurgeStale()
	require.Equal(t, 0, d.HistoryLen("player1"))
	require.Equal(t, 0, d.HistoryLen("player2"))
}

func TestHistoryIsBounded(t *testing.T) {
	d := newTestDetector()
	scope := testsetup.NewTestScope()
	defer scope.Finish()

	for i := 0; i < 10; i++ {
		opponent := playerdata.ID(fmt.Sprintf("opponent%d", i))
		d.RegisterMatchAndScoreFactor(scope, "player1", opponent, 2*time.Minute)
	}
	require.Equal(t, 5, d.HistoryLen("player1"))
}
