package stats

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kiliankoe/acrodash/internal/game"
)

var ErrUnexpectedDatabase = errors.New("unexpected database error")

const postgresSchema = `
CREATE TABLE IF NOT EXISTS player_stats (
    username      TEXT PRIMARY KEY,
    rounds        INTEGER NOT NULL DEFAULT 0,
    points        INTEGER NOT NULL DEFAULT 0,
    wins          INTEGER NOT NULL DEFAULT 0,
    best_ms       BIGINT,
    correct_votes INTEGER NOT NULL DEFAULT 0,
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (p *PostgresStore) RecordMatchResult(ctx context.Context, res game.MatchResult) error {
	best := pgtype.Int8{Int64: res.FastestMs, Valid: res.FastestMs > 0}
	_, err := p.pool.Exec(ctx, `
		INSERT INTO player_stats(username, rounds, points, wins, best_ms, correct_votes)
		VALUES ($1, 1, $2, $3, $4, $5)
		ON CONFLICT (username) DO UPDATE SET
			rounds = player_stats.rounds + 1,
			points = player_stats.points + EXCLUDED.points,
			wins = player_stats.wins + EXCLUDED.wins,
			best_ms = LEAST(player_stats.best_ms, EXCLUDED.best_ms),
			correct_votes = player_stats.correct_votes + EXCLUDED.correct_votes,
			updated_at = now()`,
		res.Username, res.Points, boolInt(res.WasWinner), best, boolInt(res.VotedForWinner),
	)
	return wrapErr(err)
}

func (p *PostgresStore) Lookup(ctx context.Context, username string) (PlayerStats, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT username, rounds, points, wins, best_ms, correct_votes
		FROM player_stats WHERE username = $1`, username)
	var (
		ps   PlayerStats
		best pgtype.Int8
	)
	if err := row.Scan(&ps.Username, &ps.Rounds, &ps.Points, &ps.Wins, &best, &ps.CorrectVotes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PlayerStats{}, ErrNotFound
		}
		return PlayerStats{}, wrapErr(err)
	}
	ps.BestMs = best.Int64
	return ps, nil
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

func wrapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrUnexpectedDatabase, err)
	}
}
