package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRejectsSecondEntry(t *testing.T) {
	l := newLedger()
	start := time.Now()
	first, err := l.submit("alice", "Really Useful Nap", start.Add(1500*time.Millisecond), start)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, first.Elapsed)

	_, err = l.submit("alice", "Rather Unusual Newt", start.Add(2*time.Second), start)
	assert.ErrorIs(t, err, ErrDuplicateEntry)

	require.Len(t, l.entries, 1)
	assert.Equal(t, "Really Useful Nap", l.entries[0].Text)
	assert.Same(t, first, l.entryOf("alice"))
}

func TestLedgerVoting(t *testing.T) {
	l := newLedger()
	now := time.Now()
	a, err := l.submit("alice", "a", now, now)
	require.NoError(t, err)
	b, err := l.submit("bob", "b", now, now)
	require.NoError(t, err)
	c, err := l.submit("carol", "c", now, now)
	require.NoError(t, err)

	assert.ErrorIs(t, l.vote("alice", a.ID, now), ErrSelfVote)
	assert.Empty(t, l.votes, "self vote should not be recorded")

	assert.ErrorIs(t, l.vote("alice", "missing", now), ErrUnknownEntry)

	require.NoError(t, l.vote("alice", b.ID, now))
	require.NoError(t, l.vote("alice", c.ID, now))
	require.Len(t, l.votes, 1, "re-vote should overwrite, not add")
	assert.Equal(t, c.ID, l.votes["alice"].EntryID)
	assert.Equal(t, 2, l.votes["alice"].Seq)

	// a rejected self vote leaves the standing vote alone
	require.NoError(t, l.vote("carol", a.ID, now))
	assert.ErrorIs(t, l.vote("carol", c.ID, now), ErrSelfVote)
	assert.Equal(t, a.ID, l.votes["carol"].EntryID)
}

func TestLedgerBallotHidesAuthors(t *testing.T) {
	l := newLedger()
	now := time.Now()
	e, _ := l.submit("alice", "Angry Bees", now, now)
	assert.Equal(t, []BallotEntry{{ID: e.ID, Text: "Angry Bees"}}, l.ballot())
	assert.Equal(t, []string{"alice"}, l.submittedUsers())
}
