package stats

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/kiliankoe/acrodash/internal/game"
)

//go:embed schema.sql
var embeddedSchema embed.FS

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) InitSchema() error {
	b, err := embeddedSchema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = s.db.Exec(strings.TrimSpace(string(b)))
	return err
}

func (s *SQLiteStore) RecordMatchResult(ctx context.Context, res game.MatchResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO round_results(room, round, username, points, was_winner, elapsed_ms, voted_for_winner, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.Room, res.Round, res.Username, res.Points, boolInt(res.WasWinner), res.FastestMs, boolInt(res.VotedForWinner), res.RecordedAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert round result: %w", err)
	}

	var best sql.NullInt64
	if res.FastestMs > 0 {
		best = sql.NullInt64{Int64: res.FastestMs, Valid: true}
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO player_stats(username, rounds, points, wins, best_ms, correct_votes, updated_at)
		VALUES (?, 1, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(username) DO UPDATE SET
			rounds = rounds + 1,
			points = points + excluded.points,
			wins = wins + excluded.wins,
			best_ms = CASE
				WHEN excluded.best_ms IS NULL THEN best_ms
				WHEN best_ms IS NULL THEN excluded.best_ms
				ELSE MIN(best_ms, excluded.best_ms)
			END,
			correct_votes = correct_votes + excluded.correct_votes,
			updated_at = CURRENT_TIMESTAMP`,
		res.Username, res.Points, boolInt(res.WasWinner), best, boolInt(res.VotedForWinner),
	); err != nil {
		return fmt.Errorf("upsert player stats: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) Lookup(ctx context.Context, username string) (PlayerStats, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT username, rounds, points, wins, best_ms, correct_votes
		FROM player_stats WHERE username = ?`, username)
	var (
		ps   PlayerStats
		best sql.NullInt64
	)
	if err := row.Scan(&ps.Username, &ps.Rounds, &ps.Points, &ps.Wins, &best, &ps.CorrectVotes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PlayerStats{}, ErrNotFound
		}
		return PlayerStats{}, err
	}
	ps.BestMs = best.Int64
	return ps, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
