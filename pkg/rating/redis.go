// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

// Package rating provides the Redis-backed implementation of the external
// RatingService boundary.
package rating

import (
	"errors"
	"fmt"
	"math"

	"github.com/redis/go-redis/v9"

	"github.com/arenaworks/duelcore/pkg/constants"
	"github.com/arenaworks/duelcore/pkg/envelope"
	"github.com/arenaworks/duelcore/pkg/external"
	"github.com/arenaworks/duelcore/pkg/playerdata"
)

const (
	ratingKeyPrefix = "duel:rating:"

	// kFactor controls how fast ratings move per match.
	kFactor = 32.0
)

// RedisRatingService stores per-player ratings in Redis and settles matches
// with a standard elo exchange.
type RedisRatingService struct {
	client redis.UniversalClient
}

func NewRedisRatingService(client redis.UniversalClient) *RedisRatingService {
	return &RedisRatingService{client: client}
}

func (s *RedisRatingService) Configured() bool { return true }

// GetRating returns the stored rating, or the default for players the
// service has never seen.
func (s *RedisRatingService) GetRating(scope *envelope.Scope, id playerdata.ID) (int, error) {
	value, err := s.client.Get(scope.Ctx, ratingKey(id)).Int()
	if errors.Is(err, redis.Nil) {
		return constants.DefaultRating, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get rating for %s: %w", id, err)
	}
	return value, nil
}

// UpdateRatingAfterMatch settles the match with an elo exchange and returns
// the nominal delta credited to the winner.
func (s *RedisRatingService) UpdateRatingAfterMatch(scope *envelope.Scope, winner, loser playerdata.ID) (int, error) {
	winnerRating, err := s.GetRating(scope, winner)
	if err != nil {
		return 0, err
	}
	loserRating, err := s.GetRating(scope, loser)
	if err != nil {
		return 0, err
	}

	delta := eloDelta(winnerRating, loserRating)

	pipe := s.client.TxPipeline()
	pipe.Set(scope.Ctx, ratingKey(winner), winnerRating+delta, 0)
	pipe.Set(scope.Ctx, ratingKey(loser), loserRating-delta, 0)
	if _, err := pipe.Exec(scope.Ctx); err != nil {
		return 0, fmt.Errorf("settle match %s vs %s: %w", winner, loser, err)
	}

	scope.Log.WithField("winner", winner).WithField("loser", loser).WithField("delta", delta).Info("rating settled")
	return delta, nil
}

// AdjustRating applies a corrective delta to one player.
func (s *RedisRatingService) AdjustRating(scope *envelope.Scope, id playerdata.ID, delta int, reason string) error {
	if err := s.client.IncrBy(scope.Ctx, ratingKey(id), int64(delta)).Err(); err != nil {
		return fmt.Errorf("adjust rating for %s: %w", id, err)
	}
	scope.Log.WithField("playerID", id).WithField("delta", delta).WithField("reason", reason).Info("rating adjusted")
	return nil
}

func ratingKey(id playerdata.ID) string {
	return ratingKeyPrefix + playerdata.IDToString(id)
}

// eloDelta is the winner's gain for a decisive result.
func eloDelta(winnerRating, loserRating int) int {
	expected := 1.0 / (1.0 + math.Pow(10, float64(loserRating-winnerRating)/400.0))
	delta := int(math.Round(kFactor * (1.0 - expected)))
	if delta < 1 {
		delta = 1
	}
	return delta
}

var _ external.RatingService = (*RedisRatingService)(nil)
