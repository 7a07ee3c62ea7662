package game

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// RoomManager is the room registry: it creates rooms on first join, evicts
// them when they empty and routes ledger calls to the right room.
type RoomManager struct {
	mu       sync.RWMutex
	rooms    map[string]*Room
	memberOf map[string]string // connID -> room key

	cfg      Config
	acronyms AcronymGenerator
	out      Broadcaster
	stats    StatsRecorder
	filter   ContentFilter
	tickers  TickerGen
	now      func() time.Time
}

type Option func(*RoomManager)

func WithBroadcaster(b Broadcaster) Option { return func(rm *RoomManager) { rm.out = b } }
func WithStats(s StatsRecorder) Option      { return func(rm *RoomManager) { rm.stats = s } }
func WithFilter(f ContentFilter) Option     { return func(rm *RoomManager) { rm.filter = f } }
func WithTickerGen(t TickerGen) Option      { return func(rm *RoomManager) { rm.tickers = t } }
func WithClock(now func() time.Time) Option { return func(rm *RoomManager) { rm.now = now } }

func WithAcronymGenerator(g AcronymGenerator) Option {
	return func(rm *RoomManager) { rm.acronyms = g }
}

func NewRoomManager(cfg Config, opts ...Option) *RoomManager {
	rm := &RoomManager{
		rooms:    make(map[string]*Room),
		memberOf: make(map[string]string),
		cfg:      cfg,
		out:      nopBroadcaster{},
		tickers:  NewTickerGen(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(rm)
	}
	if rm.acronyms == nil {
		rm.acronyms = NewLetterPool(cfg.WeightedLetters)
	}
	return rm
}

// GetOrCreate returns the room for key, creating it in the waiting phase.
func (rm *RoomManager) GetOrCreate(key string) *Room {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.getOrCreateLocked(key)
}

func (rm *RoomManager) getOrCreateLocked(key string) *Room {
	if r := rm.rooms[key]; r != nil {
		return r
	}
	r := newRoom(key, rm)
	rm.rooms[key] = r
	log.Info().Str("room", key).Msg("room created")
	return r
}

func (rm *RoomManager) Get(key string) (*Room, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	r := rm.rooms[key]
	if r == nil {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// Join seats p in the room, leaving any other room the connection is in.
// The second player to join a waiting room starts the match.
func (rm *RoomManager) Join(key string, p Player) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if cur, ok := rm.memberOf[p.ID]; ok {
		if cur == key {
			return ErrAlreadyInRoom
		}
		rm.leaveLocked(cur, p.ID)
	}

	r := rm.getOrCreateLocked(key)
	if p.JoinedAt.IsZero() {
		p.JoinedAt = rm.now()
	}
	start, err := r.join(&p)
	if err != nil {
		if len(r.Players()) == 0 {
			rm.evictLocked(key, r)
		}
		log.Debug().Err(err).Str("room", key).Str("user", p.Username).Msg("join refused")
		return err
	}
	rm.memberOf[p.ID] = key
	log.Info().Str("room", key).Str("user", p.Username).Str("sid", p.ID).Msg("player joined")
	if start {
		r.start(rm.tickers)
	}
	return nil
}

func (rm *RoomManager) Leave(key, connID string) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.memberOf[connID] != key {
		return ErrNotInRoom
	}
	rm.leaveLocked(key, connID)
	return nil
}

// Disconnect removes the connection from whatever room it is in.
func (rm *RoomManager) Disconnect(connID string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if key, ok := rm.memberOf[connID]; ok {
		rm.leaveLocked(key, connID)
	}
}

func (rm *RoomManager) leaveLocked(key, connID string) {
	delete(rm.memberOf, connID)
	r := rm.rooms[key]
	if r == nil {
		return
	}
	if _, empty := r.leave(connID); empty {
		rm.evictLocked(key, r)
	}
	log.Info().Str("room", key).Str("sid", connID).Msg("player left")
}

func (rm *RoomManager) evictLocked(key string, r *Room) {
	if rm.rooms[key] != r {
		return
	}
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.cancel()
	delete(rm.rooms, key)
	log.Info().Str("room", key).Msg("room evicted")
}

// RoomOf returns the key of the room a connection sits in.
func (rm *RoomManager) RoomOf(connID string) (string, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	key, ok := rm.memberOf[connID]
	return key, ok
}

func (rm *RoomManager) Submit(ctx context.Context, key, username, text string) (*Entry, error) {
	r, err := rm.Get(key)
	if err != nil {
		return nil, err
	}
	if rm.filter != nil && !rm.filter.IsClean(ctx, text) {
		log.Info().Str("room", key).Str("user", username).Msg("entry rejected by content filter")
		return nil, ErrProfaneEntry
	}
	return r.submit(username, text)
}

func (rm *RoomManager) Vote(key, username, entryID string) error {
	r, err := rm.Get(key)
	if err != nil {
		return err
	}
	return r.vote(username, entryID)
}

func (rm *RoomManager) Stats() map[string]RoomStats {
	rm.mu.RLock()
	rooms := make([]*Room, 0, len(rm.rooms))
	for _, r := range rm.rooms {
		rooms = append(rooms, r)
	}
	rm.mu.RUnlock()

	out := make(map[string]RoomStats, len(rooms))
	for _, r := range rooms {
		out[r.Key] = r.Stats()
	}
	return out
}

// Close stops every room's scheduler.
func (rm *RoomManager) Close() {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	for key, r := range rm.rooms {
		rm.evictLocked(key, r)
	}
	rm.memberOf = make(map[string]string)
}
