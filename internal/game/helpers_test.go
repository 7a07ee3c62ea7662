package game

import (
	"context"
	"sync"
	"testing"
	"time"
)

type sent struct {
	Room    string
	To      string
	Event   string
	Payload any
}

// recorder is a Broadcaster that keeps everything it is handed.
type recorder struct {
	mu     sync.Mutex
	events []sent
	ch     chan sent
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan sent, 4096)}
}

func (r *recorder) Broadcast(room, event string, payload any) {
	r.add(sent{Room: room, Event: event, Payload: payload})
}

func (r *recorder) Send(connID, event string, payload any) {
	r.add(sent{To: connID, Event: event, Payload: payload})
}

func (r *recorder) add(s sent) {
	r.mu.Lock()
	r.events = append(r.events, s)
	r.mu.Unlock()
	select {
	case r.ch <- s:
	default:
	}
}

func (r *recorder) snapshot() []sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sent(nil), r.events...)
}

// waitFor consumes events until one named event matches.
func (r *recorder) waitFor(t *testing.T, event string, match func(sent) bool) sent {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case s := <-r.ch:
			if s.Event == event && (match == nil || match(s)) {
				return s
			}
		case <-timeout:
			t.Fatalf("should have seen %q event", event)
			return sent{}
		}
	}
}

func phaseIs(p Phase) func(sent) bool {
	return func(s sent) bool { return s.Payload == p }
}

func sentTo(connID string) func(sent) bool {
	return func(s sent) bool { return s.To == connID }
}

// manualTicker hands the test full control over a room's clock.
type manualTicker struct {
	ch chan time.Time
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time)}
}

func (m *manualTicker) Create(time.Duration) (<-chan time.Time, func()) {
	return m.ch, func() {}
}

func (m *manualTicker) tick(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case m.ch <- time.Now():
		case <-time.After(2 * time.Second):
			t.Fatalf("room scheduler should accept tick %d", i+1)
		}
	}
}

// freeRun ticks as fast as the scheduler consumes until the test ends.
func (m *manualTicker) freeRun(t *testing.T) {
	done := make(chan struct{})
	t.Cleanup(func() { close(done) })
	go func() {
		for {
			select {
			case m.ch <- time.Now():
			case <-done:
				return
			}
		}
	}()
}

type fakeStats struct {
	mu      sync.Mutex
	results []MatchResult
}

func (f *fakeStats) RecordMatchResult(_ context.Context, res MatchResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, res)
	return nil
}

func (f *fakeStats) recorded() []MatchResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]MatchResult(nil), f.results...)
}

type denyList map[string]bool

func (d denyList) IsClean(_ context.Context, text string) bool {
	return !d[text]
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxRounds = 1
	cfg.SubmitSeconds = 3
	cfg.VoteSeconds = 2
	cfg.ResultsSeconds = 1
	cfg.FaceoffIntroSeconds = 1
	cfg.FaceoffSubmitSeconds = 2
	cfg.FaceoffVoteSeconds = 2
	cfg.FaceoffResultsSeconds = 1
	cfg.GameOverSeconds = 1
	cfg.ImminentSeconds = 1
	cfg.RevealTicks = 0
	cfg.FaceoffEnabled = false
	return cfg
}

func newTestManager(t *testing.T, cfg Config, opts ...Option) (*RoomManager, *recorder, *manualTicker) {
	t.Helper()
	rec := newRecorder()
	tick := newManualTicker()
	opts = append([]Option{
		WithBroadcaster(rec),
		WithTickerGen(tick),
		WithAcronymGenerator(NewSeededLetterPool(false, 1)),
	}, opts...)
	rm := NewRoomManager(cfg, opts...)
	t.Cleanup(rm.Close)
	return rm, rec, tick
}
