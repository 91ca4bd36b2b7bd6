// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

package external

import (
	"github.com/arenaworks/duelcore/pkg/envelope"
	"github.com/arenaworks/duelcore/pkg/models"
	"github.com/arenaworks/duelcore/pkg/playerdata"
)

// NewNullRatingService returns a RatingService for deployments without a
// rating backend. Ranked scoring is skipped entirely when it is wired in.
func NewNullRatingService() RatingService {
	return nullRatingService{}
}

type nullRatingService struct{}

func (nullRatingService) Configured() bool { return false }

func (nullRatingService) GetRating(_ *envelope.Scope, _ playerdata.ID) (int, error) {
	return 0, nil
}

func (nullRatingService) UpdateRatingAfterMatch(_ *envelope.Scope, _, _ playerdata.ID) (int, error) {
	return 0, nil
}

func (nullRatingService) AdjustRating(_ *envelope.Scope, _ playerdata.ID, _ int, _ string) error {
	return nil
}

// NewNullRecordSink returns a RecordSink that drops every record.
func NewNullRecordSink() RecordSink {
	return nullRecordSink{}
}

type nullRecordSink struct{}

func (nullRecordSink) AppendMatchRecord(_ *envelope.Scope, _ models.MatchRecord) error {
	return nil
}

// NewNullNotifier returns a Notifier that discards every message.
func NewNullNotifier() Notifier {
	return nullNotifier{}
}

type nullNotifier struct{}

func (nullNotifier) Message(_ playerdata.ID, _ string) {}
