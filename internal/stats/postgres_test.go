package stats

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiliankoe/acrodash/internal/game"
)

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("ACRODASH_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("ACRODASH_TEST_POSTGRES_URL not set")
	}
	ctx := context.Background()
	s, err := NewPostgres(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	user := "pg-test-" + time.Now().Format("150405.000000")
	t.Cleanup(func() {
		_, _ = s.pool.Exec(context.Background(), `DELETE FROM player_stats WHERE username = $1`, user)
	})

	require.NoError(t, s.RecordMatchResult(ctx, game.MatchResult{Username: user, Points: 4, FastestMs: 3000}))
	require.NoError(t, s.RecordMatchResult(ctx, game.MatchResult{Username: user, Points: 5, WasWinner: true}))
	require.NoError(t, s.RecordMatchResult(ctx, game.MatchResult{Username: user, Points: 1, FastestMs: 1200, VotedForWinner: true}))

	ps, err := s.Lookup(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, PlayerStats{Username: user, Rounds: 3, Points: 10, Wins: 1, BestMs: 1200, CorrectVotes: 1}, ps)

	_, err = s.Lookup(ctx, user+"-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWrapErr(t *testing.T) {
	assert.NoError(t, wrapErr(nil))
	assert.ErrorIs(t, wrapErr(context.Canceled), context.Canceled)
	assert.NotErrorIs(t, wrapErr(context.Canceled), ErrUnexpectedDatabase)
	assert.ErrorIs(t, wrapErr(assert.AnError), ErrUnexpectedDatabase)
	assert.ErrorIs(t, wrapErr(assert.AnError), assert.AnError)
}
