package game

import (
	"time"

	"github.com/google/uuid"
)

// ledger holds one round's entries and votes.
type ledger struct {
	entries []*Entry          // submission order
	byID    map[string]*Entry // entryID -> Entry
	byUser  map[string]*Entry // username -> Entry
	votes   map[string]*Vote  // voter -> Vote
	seq     int
}

func newLedger() *ledger {
	return &ledger{
		byID:   make(map[string]*Entry),
		byUser: make(map[string]*Entry),
		votes:  make(map[string]*Vote),
	}
}

func (l *ledger) submit(username, text string, now, roundStart time.Time) (*Entry, error) {
	if _, ok := l.byUser[username]; ok {
		return nil, ErrDuplicateEntry
	}
	e := &Entry{
		ID:          uuid.NewString(),
		Username:    username,
		Text:        text,
		SubmittedAt: now,
		Elapsed:     now.Sub(roundStart),
	}
	l.entries = append(l.entries, e)
	l.byID[e.ID] = e
	l.byUser[username] = e
	return e, nil
}

// vote records or replaces voter's vote. A replaced vote takes a fresh
// sequence number.
func (l *ledger) vote(voter, entryID string, now time.Time) error {
	e := l.byID[entryID]
	if e == nil {
		return ErrUnknownEntry
	}
	if e.Username == voter {
		return ErrSelfVote
	}
	l.seq++
	l.votes[voter] = &Vote{Voter: voter, EntryID: entryID, Seq: l.seq, CastAt: now}
	return nil
}

func (l *ledger) submittedUsers() []string {
	out := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e.Username)
	}
	return out
}

func (l *ledger) entryOf(username string) *Entry {
	return l.byUser[username]
}

func (l *ledger) ballot() []BallotEntry {
	out := make([]BallotEntry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, BallotEntry{ID: e.ID, Text: e.Text})
	}
	return out
}
