// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

// Package queue implements the bucketed matchmaking queue: one concurrent
// waiting list per (kit, ranked) bucket, with an expanding-radius skill
// search for ranked entries and FIFO pairing for unranked ones.
package queue

import (
	"sort"
	"sync"
	"time"

	pie "github.com/elliotchance/pie/v2"

	"github.com/arenaworks/duelcore/pkg/config"
	"github.com/arenaworks/duelcore/pkg/constants"
	"github.com/arenaworks/duelcore/pkg/envelope"
	"github.com/arenaworks/duelcore/pkg/external"
	"github.com/arenaworks/duelcore/pkg/mathutil"
	"github.com/arenaworks/duelcore/pkg/metrics"
	"github.com/arenaworks/duelcore/pkg/models"
	"github.com/arenaworks/duelcore/pkg/playerdata"
)

// Now is a variable that holds the current time function.
// This can be overridden for testing purposes.
var Now = time.Now

// Queue owns the bucket map and the player index. Both are guarded by one
// mutex: every mutation is an atomic insert/remove so a pairing sweep can
// never double-book or lose a player.
type Queue struct {
	cfg     *config.Config
	rating  external.RatingService
	metrics metrics.DuelMetrics

	mu      sync.Mutex
	buckets map[models.Bucket][]*models.QueueEntry
	players map[playerdata.ID]models.Bucket
}

func NewQueue(cfg *config.Config, rating external.RatingService, duelMetrics metrics.DuelMetrics) *Queue {
	return &Queue{
		cfg:     cfg,
		rating:  rating,
		metrics: duelMetrics,
		buckets: make(map[models.Bucket][]*models.QueueEntry),
		players: make(map[playerdata.ID]models.Bucket),
	}
}

// Enqueue validates the kit selector and inserts the player into the
// (kit, ranked) bucket. A player may occupy at most one entry system-wide.
// Ranked entries get a rating looked up before insertion; unranked entries
// are fixed at rating 0.
func (q *Queue) Enqueue(scope *envelope.Scope, id playerdata.ID, kit string, ranked bool) error {
	if !models.ValidKitName(kit) {
		return models.ValidationErrorInvalidKitName
	}

	// Rating lookup happens before taking the queue lock so a slow rating
	// backend cannot stall concurrent sweeps.
	rating := constants.UnrankedRating
	if ranked && q.rating.Configured() {
		value, err := q.rating.GetRating(scope, id)
		if err != nil {
			scope.Log.WithField("playerID", id).Errorf("rating lookup failed, using default: %s", err)
			value = constants.DefaultRating
		}
		rating = value
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if _, queued := q.players[id]; queued {
		return models.ValidationErrorAlreadyQueued
	}

	entry := &models.QueueEntry{
		PlayerID: id,
		Kit:      kit,
		Ranked:   ranked,
		Rating:   rating,
		QueuedAt: Now(),
	}
	q.insertLocked(entry)

	scope.Log.WithField("playerID", id).WithField("kit", kit).WithField("ranked", ranked).Info("player enqueued")
	return nil
}

// Dequeue removes the player from whichever bucket holds them.
func (q *Queue) Dequeue(scope *envelope.Scope, id playerdata.ID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.removeLocked(id) == nil {
		return false
	}
	scope.Log.WithField("playerID", id).WithField("reason", constants.EvictReasonLeft).Info("player dequeued")
	return true
}

// FindMatch searches the entry's bucket for an opponent.
//
// Ranked entries use an expanding-radius search: starting at the configured
// initial rating window, every other entry in the bucket is scanned for one
// whose rating lies within [rating-window, rating+window]; if none is found
// the window grows by the configured increment, up to the configured maximum.
// Among equally-eligible candidates the oldest enqueue time wins, then
// insertion order, which keeps selection deterministic.
//
// Unranked entries pair pure FIFO: the eligible entry with the smallest
// enqueue timestamp.
func (q *Queue) FindMatch(entry *models.QueueEntry) *models.QueueEntry {
	q.mu.Lock()
	defer q.mu.Unlock()

	candidates := pie.Filter(q.buckets[entry.Bucket()], func(e *models.QueueEntry) bool {
		return e.PlayerID != entry.PlayerID
	})
	if len(candidates) == 0 {
		return nil
	}

	if !entry.Ranked {
		return oldestOf(candidates)
	}

	increment := q.cfg.RatingWindowIncrement
	for window := q.cfg.RatingWindowInitial; window <= q.cfg.RatingWindowMax; window += increment {
		inWindow := pie.Filter(candidates, func(e *models.QueueEntry) bool {
			return mathutil.Abs(e.Rating-entry.Rating) <= window
		})
		if len(inWindow) > 0 {
			return oldestOf(inWindow)
		}
		if increment <= 0 {
			break
		}
	}
	return nil
}

// RemovePair atomically removes both entries from the queue, or neither.
// When one of the two was already consumed by a racing sweep the other is
// re-inserted and false is returned, so the caller treats the pair as gone.
func (q *Queue) RemovePair(a, b playerdata.ID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	entryA := q.removeLocked(a)
	if entryA == nil {
		return false
	}
	entryB := q.removeLocked(b)
	if entryB == nil {
		q.insertLocked(entryA)
		return false
	}
	return true
}

// Reinsert puts an entry back with its original enqueue timestamp, used when
// match creation fails after the pairing sweep already removed the pair.
func (q *Queue) Reinsert(entry *models.QueueEntry) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, queued := q.players[entry.PlayerID]; queued {
		return false
	}
	q.insertLocked(entry)
	return true
}

// EvictExpired removes and returns every entry older than the queue timeout.
func (q *Queue) EvictExpired(scope *envelope.Scope) []*models.QueueEntry {
	q.mu.Lock()
	defer q.mu.Unlock()

	cutoff := Now().Add(-q.cfg.QueueTimeout())
	var evicted []*models.QueueEntry
	for _, bucket := range q.bucketsLocked() {
		for _, entry := range q.buckets[bucket] {
			if entry.QueuedAt.Before(cutoff) {
				evicted = append(evicted, entry)
			}
		}
	}
	for _, entry := range evicted {
		q.removeLocked(entry.PlayerID)
		q.metrics.AddQueueTimeout(entry.Kit, entry.Ranked)
		scope.Log.WithField("playerID", entry.PlayerID).WithField("reason", constants.EvictReasonTimeout).Info("queue entry evicted")
	}
	return evicted
}

// Buckets returns the non-empty bucket keys in a deterministic order.
func (q *Queue) Buckets() []models.Bucket {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.bucketsLocked()
}

// Head returns the oldest entry of a bucket.
func (q *Queue) Head(bucket models.Bucket) (*models.QueueEntry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries := q.buckets[bucket]
	if len(entries) == 0 {
		return nil, false
	}
	return oldestOf(entries), true
}

// Position returns the player's zero-based position inside their bucket, for
// UI feedback only.
func (q *Queue) Position(id playerdata.ID) (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	bucket, queued := q.players[id]
	if !queued {
		return 0, false
	}
	for i, entry := range q.buckets[bucket] {
		if entry.PlayerID == id {
			return i, true
		}
	}
	return 0, false
}

// Size returns the number of entries waiting in one bucket.
func (q *Queue) Size(kit string, ranked bool) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buckets[models.Bucket{Kit: kit, Ranked: ranked}])
}

// Len returns the total entry count across all buckets.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}

func (q *Queue) insertLocked(entry *models.QueueEntry) {
	bucket := entry.Bucket()
	q.buckets[bucket] = append(q.buckets[bucket], entry)
	q.players[entry.PlayerID] = bucket
	q.metrics.SetQueueDepth(bucket.Kit, bucket.Ranked, len(q.buckets[bucket]))
}

func (q *Queue) removeLocked(id playerdata.ID) *models.QueueEntry {
	bucket, queued := q.players[id]
	if !queued {
		return nil
	}

	var removed *models.QueueEntry
	entries := q.buckets[bucket]
	for i, entry := range entries {
		if entry.PlayerID == id {
			removed = entry
			q.buckets[bucket] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	delete(q.players, id)
	if len(q.buckets[bucket]) == 0 {
		delete(q.buckets, bucket)
	}
	q.metrics.SetQueueDepth(bucket.Kit, bucket.Ranked, len(q.buckets[bucket]))
	return removed
}

func (q *Queue) bucketsLocked() []models.Bucket {
	buckets := make([]models.Bucket, 0, len(q.buckets))
	for bucket := range q.buckets {
		buckets = append(buckets, bucket)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Kit != buckets[j].Kit {
			return buckets[i].Kit < buckets[j].Kit
		}
		return !buckets[i].Ranked && buckets[j].Ranked
	})
	return buckets
}

// oldestOf picks the entry with the smallest enqueue timestamp; ties keep
// insertion order.
func oldestOf(entries []*models.QueueEntry) *models.QueueEntry {
	best := entries[0]
	for _, entry := range entries[1:] {
		if entry.QueuedAt.Before(best.QueuedAt) {
			best = entry
		}
	}
	return best
}
