package game

import (
	"context"
	"time"
)

// Broadcaster delivers notifications to room members. Implementations must
// not block: rooms call it while holding their lock.
type Broadcaster interface {
	Broadcast(room string, event string, payload any)
	Send(connID string, event string, payload any)
}

type ContentFilter interface {
	IsClean(ctx context.Context, text string) bool
}

type StatsRecorder interface {
	RecordMatchResult(ctx context.Context, res MatchResult) error
}

// TickerGen creates the tick source that drives a room's scheduler.
type TickerGen interface {
	Create(d time.Duration) (<-chan time.Time, func())
}

type tickerGen struct{}

func (tickerGen) Create(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

func NewTickerGen() TickerGen {
	return tickerGen{}
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(string, string, any) {}
func (nopBroadcaster) Send(string, string, any)      {}
