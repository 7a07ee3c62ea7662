package stats

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiliankoe/acrodash/internal/game"
)

func newTestSQLite(t *testing.T) (*SQLiteStore, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)

	s := NewSQLite(db)
	require.NoError(t, s.InitSchema())
	return s, db
}

func TestSQLiteStore_AccumulatesTotals(t *testing.T) {
	s, db := newTestSQLite(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	results := []game.MatchResult{
		{Room: "r", Round: 1, Username: "alice", Points: 9, WasWinner: true, FastestMs: 4200, RecordedAt: now},
		{Room: "r", Round: 2, Username: "alice", Points: 1, FastestMs: 0, VotedForWinner: true, RecordedAt: now},
		{Room: "r", Round: 3, Username: "alice", Points: 3, FastestMs: 2500, RecordedAt: now},
		{Room: "r", Round: 1, Username: "bob", Points: 0, RecordedAt: now},
	}
	for _, res := range results {
		require.NoError(t, s.RecordMatchResult(ctx, res))
	}

	alice, err := s.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, PlayerStats{Username: "alice", Rounds: 3, Points: 13, Wins: 1, BestMs: 2500, CorrectVotes: 1}, alice)

	bob, err := s.Lookup(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(0), bob.BestMs)
	assert.Equal(t, 1, bob.Rounds)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM round_results`).Scan(&n))
	assert.Equal(t, 4, n)
}

func TestSQLiteStore_LookupMissing(t *testing.T) {
	s, _ := newTestSQLite(t)
	_, err := s.Lookup(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_InitSchemaIsIdempotent(t *testing.T) {
	s, _ := newTestSQLite(t)
	require.NoError(t, s.InitSchema())
}
