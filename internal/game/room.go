package game

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type faceoffState struct {
	finalists []string
	scores    map[string]int
}

func (f *faceoffState) isFinalist(username string) bool {
	if f == nil {
		return false
	}
	for _, u := range f.finalists {
		if u == username {
			return true
		}
	}
	return false
}

// Room is one isolated match. All fields behind mu are owned by the room's
// scheduler goroutine and by the ledger operations it serialises with.
type Room struct {
	Key string

	cfg   Config
	gen   AcronymGenerator
	out   Broadcaster
	stats StatsRecorder
	now   func() time.Time

	// cancelled when the room is evicted; every scheduled step checks it
	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	players      []*Player
	phase        Phase
	round        int
	faceoffRound int
	acronym      string
	roundStart   time.Time
	ledger       *ledger
	scores       map[string]int
	faceoff      *faceoffState
	running      bool
	closed       bool
}

func newRoom(key string, rm *RoomManager) *Room {
	ctx, cancel := context.WithCancel(context.Background())
	return &Room{
		Key:     key,
		cfg:     rm.cfg,
		gen:     rm.acronyms,
		out:     rm.out,
		stats:   rm.stats,
		now:     rm.now,
		ctx:     ctx,
		cancel:  cancel,
		players: make([]*Player, 0, rm.cfg.MaxPlayers),
		phase:   PhaseWaiting,
		ledger:  newLedger(),
		scores:  make(map[string]int),
	}
}

// join adds p and reports whether the caller should start the scheduler.
func (r *Room) join(p *Player) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false, ErrRoomNotFound
	}
	if r.playerByName(p.Username) != nil {
		return false, ErrAlreadyInRoom
	}
	if len(r.players) >= r.cfg.MaxPlayers {
		return false, ErrRoomFull
	}
	r.players = append(r.players, p)
	r.emit(EventPlayers, r.playerList())

	if len(r.players) >= 2 && r.phase == PhaseWaiting && !r.running {
		r.running = true
		return true, nil
	}
	return false, nil
}

// leave removes the connection and reports whether the room is now empty.
// An emptied room is closed and its scheduler cancelled.
func (r *Room) leave(connID string) (removed bool, empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.players {
		if p.ID == connID {
			r.players = append(r.players[:i], r.players[i+1:]...)
			removed = true
			break
		}
	}
	if removed && len(r.players) > 0 {
		r.emit(EventPlayers, r.playerList())
	}
	if len(r.players) == 0 {
		r.closed = true
		r.cancel()
		return removed, true
	}
	return removed, false
}

func (r *Room) submit(username, text string) (*Entry, error) {
	text = strings.TrimSpace(text)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRoomNotFound
	}
	if !r.phase.acceptsEntries() {
		return nil, ErrWrongPhase
	}
	if r.playerByName(username) == nil {
		return nil, ErrNotInRoom
	}
	if r.phase == PhaseFaceoffSubmit && !r.faceoff.isFinalist(username) {
		return nil, ErrNotFaceoffPlayer
	}
	if text == "" {
		return nil, ErrEmptyEntry
	}
	e, err := r.ledger.submit(username, text, r.now(), r.roundStart)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("room", r.Key).Str("user", username).Int("round", r.round).Msg("entry accepted")
	r.emit(EventSubmittedUsers, r.ledger.submittedUsers())
	return e, nil
}

func (r *Room) vote(username, entryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRoomNotFound
	}
	if !r.phase.acceptsVotes() {
		return ErrWrongPhase
	}
	voter := r.playerByName(username)
	if voter == nil {
		return ErrNotInRoom
	}
	if r.phase == PhaseFaceoffVote && !r.cfg.FaceoffOpenVoting && !r.faceoff.isFinalist(username) {
		return ErrNotFaceoffPlayer
	}
	if err := r.ledger.vote(username, entryID, r.now()); err != nil {
		if errors.Is(err, ErrUnknownEntry) {
			log.Warn().Str("room", r.Key).Str("user", username).Str("entry", entryID).Msg("dropped vote for unknown entry")
		}
		return err
	}
	r.out.Send(voter.ID, EventVoteConfirmed, entryID)
	return nil
}

func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

func (r *Room) Players() []Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playerList()
}

func (r *Room) Scores() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyScores(r.scores)
}

func (r *Room) Stats() RoomStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := RoomStats{Players: len(r.players), Round: r.round, Phase: r.phase}
	if r.phase.isFaceoff() {
		st.Faceoff = true
		st.Round = r.faceoffRound
	}
	return st
}

func (r *Room) playerByName(username string) *Player {
	for _, p := range r.players {
		if p.Username == username {
			return p
		}
	}
	return nil
}

func (r *Room) playerList() []Player {
	out := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, *p)
	}
	return out
}

// emit broadcasts to the room. Callers hold mu; nothing leaves a closed room.
func (r *Room) emit(event string, payload any) {
	if r.closed {
		return
	}
	r.out.Broadcast(r.Key, event, payload)
}

func copyScores(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
