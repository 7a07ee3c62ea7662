package stats

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kiliankoe/acrodash/internal/game"
)

// FileStore appends one line per round result to a plain text log. It keeps
// running totals in memory for lookups; they reset when the process restarts.
type FileStore struct {
	mu     sync.Mutex
	path   string
	totals map[string]*PlayerStats
}

func NewFile(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &FileStore{path: path, totals: make(map[string]*PlayerStats)}, nil
}

func (f *FileStore) RecordMatchResult(_ context.Context, res game.MatchResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	sb.WriteString(res.RecordedAt.UTC().Format(time.RFC3339))
	sb.WriteString(fmt.Sprintf("\troom=%s round=%d player=%s points=%d", res.Room, res.Round, res.Username, res.Points))
	if res.WasWinner {
		sb.WriteString(" winner")
	}
	if res.VotedForWinner {
		sb.WriteString(" correct_vote")
	}
	if res.FastestMs > 0 {
		sb.WriteString(fmt.Sprintf(" elapsed_ms=%d", res.FastestMs))
	}
	sb.WriteString("\n")
	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	t := f.totals[res.Username]
	if t == nil {
		t = &PlayerStats{Username: res.Username}
		f.totals[res.Username] = t
	}
	t.Rounds++
	t.Points += res.Points
	t.Wins += boolInt(res.WasWinner)
	t.CorrectVotes += boolInt(res.VotedForWinner)
	if res.FastestMs > 0 && (t.BestMs == 0 || res.FastestMs < t.BestMs) {
		t.BestMs = res.FastestMs
	}
	return nil
}

func (f *FileStore) Lookup(_ context.Context, username string) (PlayerStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.totals[username]
	if !ok {
		return PlayerStats{}, ErrNotFound
	}
	return *t, nil
}

func (f *FileStore) Close() error { return nil }
