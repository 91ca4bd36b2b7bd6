// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

// Package storage provides the Postgres implementation of the external
// RecordSink boundary. Writes are append-only; the duel core never reads
// match history back.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arenaworks/duelcore/pkg/envelope"
	"github.com/arenaworks/duelcore/pkg/external"
	"github.com/arenaworks/duelcore/pkg/models"
	"github.com/arenaworks/duelcore/pkg/playerdata"
)

const appendTimeout = 5 * time.Second

const insertMatchRecordSQL = `
INSERT INTO duel_match_records
	(record_id, match_id, player_a, player_b, winner, kit, ranked, rating_delta, suspicious, started_at, ended_at)
VALUES
	($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// PostgresRecordSink appends completed-match records to Postgres.
type PostgresRecordSink struct {
	pool *pgxpool.Pool
}

func NewPostgresRecordSink(ctx context.Context, dsn string) (*PostgresRecordSink, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect match record store: %w", err)
	}
	return &PostgresRecordSink{pool: pool}, nil
}

// AppendMatchRecord writes one completed-match row. Callers invoke it off
// the hot path; the error is for their logs only.
func (s *PostgresRecordSink) AppendMatchRecord(scope *envelope.Scope, record models.MatchRecord) error {
	ctx, cancel := context.WithTimeout(scope.Ctx, appendTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, insertMatchRecordSQL,
		record.RecordID,
		record.MatchID,
		playerdata.IDToString(record.PlayerA),
		playerdata.IDToString(record.PlayerB),
		playerdata.IDToString(record.Winner),
		record.Kit,
		record.Ranked,
		record.RatingDelta,
		record.Suspicious,
		record.StartedAt,
		record.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("append match record %s: %w", record.RecordID, err)
	}
	return nil
}

func (s *PostgresRecordSink) Close() {
	s.pool.Close()
}

var _ external.RecordSink = (*PostgresRecordSink)(nil)
