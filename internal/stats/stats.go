// Package stats keeps the lifetime leaderboard fed by scored rounds.
package stats

import (
	"context"
	"errors"

	"github.com/kiliankoe/acrodash/internal/game"
)

var ErrNotFound = errors.New("player not found")

// PlayerStats is a player's running totals across every room.
type PlayerStats struct {
	Username     string `json:"username"`
	Rounds       int    `json:"rounds"`
	Points       int    `json:"points"`
	Wins         int    `json:"wins"`
	BestMs       int64  `json:"bestMs,omitempty"`
	CorrectVotes int    `json:"correctVotes"`
}

// Store is a StatsRecorder that can also answer leaderboard lookups.
type Store interface {
	game.StatsRecorder
	Lookup(ctx context.Context, username string) (PlayerStats, error)
	Close() error
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordMatchResult(context.Context, game.MatchResult) error { return nil }

func (Nop) Lookup(context.Context, string) (PlayerStats, error) {
	return PlayerStats{}, ErrNotFound
}

func (Nop) Close() error { return nil }
