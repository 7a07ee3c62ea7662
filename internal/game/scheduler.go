package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
)

func (r *Room) start(gen TickerGen) {
	ticks, stop := gen.Create(r.cfg.TickInterval)
	log.Info().Str("room", r.Key).Msg("match starting")
	go r.run(ticks, stop)
}

// run plays matches back to back until the room empties or fewer than two
// players remain after a game over.
func (r *Room) run(ticks <-chan time.Time, stop func()) {
	defer stop()
	for {
		if !r.playMatch(ticks) {
			log.Debug().Str("room", r.Key).Msg("scheduler stopped, room closed")
			return
		}
		r.mu.Lock()
		again := !r.closed && len(r.players) >= 2
		if !again {
			r.running = false
		}
		r.mu.Unlock()
		if !again {
			log.Info().Str("room", r.Key).Msg("room waiting for players")
			return
		}
	}
}

func (r *Room) playMatch(ticks <-chan time.Time) bool {
	r.mu.Lock()
	r.scores = make(map[string]int)
	r.faceoff = nil
	r.mu.Unlock()

	for round := 1; round <= r.cfg.MaxRounds; round++ {
		if !r.playRound(ticks, round) {
			return false
		}
	}
	if r.cfg.FaceoffEnabled {
		if !r.playFaceoff(ticks) {
			return false
		}
	}
	return r.finishMatch(ticks)
}

func (r *Room) playRound(ticks <-chan time.Time, round int) bool {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return false
	}
	r.round = round
	r.beginRound(round)
	r.emit(EventRoundNumber, round)
	if !r.transition(PhaseSubmit) {
		r.mu.Unlock()
		return false
	}
	r.emit(EventPlayers, r.playerList())
	acronym := r.acronym
	r.mu.Unlock()

	if !r.reveal(ticks, acronym) || !r.window(ticks, r.cfg.SubmitSeconds) {
		return false
	}

	r.mu.Lock()
	if !r.transition(PhaseVote) {
		r.mu.Unlock()
		return false
	}
	r.sendBallots()
	r.mu.Unlock()

	if !r.window(ticks, r.cfg.VoteSeconds) {
		return false
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return false
	}
	res := Score(r.ledger.entries, r.ledger.votes)
	res.applyTo(r.scores)
	r.emit(EventVotes, res.VoteCounts)
	r.emit(EventScores, copyScores(r.scores))
	r.emit(EventEntries, res.revealed(r.ledger.entries))
	r.emit(EventHighlightResults, res.highlight())
	if !r.transition(PhaseResults) {
		r.mu.Unlock()
		return false
	}
	results := r.matchResults(res)
	r.mu.Unlock()

	r.record(results)
	return r.pause(ticks, r.cfg.ResultsSeconds)
}

func (r *Room) finishMatch(ticks <-chan time.Time) bool {
	r.mu.Lock()
	if !r.transition(PhaseGameOver) {
		r.mu.Unlock()
		return false
	}
	r.emit(EventGameOver, GameOver{Scores: copyScores(r.scores), Winner: r.matchWinner()})
	r.mu.Unlock()

	if !r.pause(ticks, r.cfg.GameOverSeconds) {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.transition(PhaseWaiting) {
		return false
	}
	r.round = 0
	r.faceoffRound = 0
	r.acronym = ""
	r.ledger = newLedger()
	return true
}

// beginRound resets round-scoped state. Callers hold mu.
func (r *Room) beginRound(index int) {
	r.ledger = newLedger()
	r.acronym = r.gen.Generate(r.cfg.BaseAcronymLength + index - 1)
	r.roundStart = r.now()
}

// transition moves the room to next and announces it. Callers hold mu.
func (r *Room) transition(next Phase) bool {
	if r.closed {
		return false
	}
	if !r.phase.CanTransitionTo(next) {
		log.Error().Str("room", r.Key).Str("from", string(r.phase)).Str("to", string(next)).Msg("illegal phase transition")
		return false
	}
	log.Debug().Str("room", r.Key).Str("from", string(r.phase)).Str("to", string(next)).Msg("phase transition")
	r.phase = next
	r.emit(EventPhase, next)
	return true
}

// sendBallots gives every member the entries in an order of its own.
func (r *Room) sendBallots() {
	for _, p := range r.players {
		ballot := r.ledger.ballot()
		rand.Shuffle(len(ballot), func(i, j int) { ballot[i], ballot[j] = ballot[j], ballot[i] })
		r.out.Send(p.ID, EventEntries, ballot)
	}
}

// await blocks for the next tick. It returns false once the room is evicted.
func (r *Room) await(ticks <-chan time.Time) bool {
	select {
	case <-r.ctx.Done():
		return false
	case _, ok := <-ticks:
		return ok
	}
}

// step runs fn under the lock unless the room closed meanwhile.
func (r *Room) step(fn func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	fn()
	return true
}

func (r *Room) reveal(ticks <-chan time.Time, acronym string) bool {
	if r.cfg.RevealTicks <= 0 {
		return r.step(func() {
			r.emit(EventAcronym, acronym)
			r.emit(EventAcronymReady, nil)
		})
	}
	for i := 1; i <= len(acronym); i++ {
		for t := 0; t < r.cfg.RevealTicks; t++ {
			if !r.await(ticks) {
				return false
			}
		}
		partial := acronym[:i]
		if !r.step(func() {
			r.emit(EventAcronym, partial)
			r.emit(EventLetterBeep, nil)
		}) {
			return false
		}
	}
	return r.step(func() {
		r.roundStart = r.now()
		r.emit(EventAcronymReady, nil)
	})
}

// window counts seconds down to zero, one countdown event per tick.
func (r *Room) window(ticks <-chan time.Time, seconds int) bool {
	if !r.step(func() { r.emit(EventCountdown, seconds) }) {
		return false
	}
	for remaining := seconds - 1; remaining >= 0; remaining-- {
		if !r.await(ticks) {
			return false
		}
		left := remaining
		if !r.step(func() {
			if left <= r.cfg.ImminentSeconds {
				r.emit(EventBeep, left)
			}
			r.emit(EventCountdown, left)
		}) {
			return false
		}
	}
	return true
}

// pause waits silently, used for intermissions.
func (r *Room) pause(ticks <-chan time.Time, seconds int) bool {
	for i := 0; i < seconds; i++ {
		if !r.await(ticks) {
			return false
		}
	}
	return r.step(func() {})
}

func (r *Room) matchResults(res RoundResult) []MatchResult {
	now := r.now()
	out := make([]MatchResult, 0, len(r.players))
	for _, p := range r.players {
		mr := MatchResult{
			Room:       r.Key,
			Round:      r.round,
			Username:   p.Username,
			Points:     res.Deltas[p.Username],
			RecordedAt: now,
		}
		if e := r.ledger.entryOf(p.Username); e != nil {
			mr.FastestMs = e.Elapsed.Milliseconds()
			mr.WasWinner = res.Winner != nil && res.Winner.ID == e.ID
		}
		if v := r.ledger.votes[p.Username]; v != nil && res.Winner != nil {
			mr.VotedForWinner = v.EntryID == res.Winner.ID
		}
		out = append(out, mr)
	}
	return out
}

// record hands results to the stats store without holding up the room clock.
func (r *Room) record(results []MatchResult) {
	if r.stats == nil || len(results) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.StatsRecordTimeout)
		defer cancel()
		for _, res := range results {
			if err := r.stats.RecordMatchResult(ctx, res); err != nil {
				log.Error().Err(err).Str("room", res.Room).Str("user", res.Username).Msg("failed to record match result")
			}
		}
	}()
}

// matchWinner is the faceoff winner when one was played, else the top scorer.
// Callers hold mu.
func (r *Room) matchWinner() string {
	if f := r.faceoff; f != nil && len(f.finalists) == 2 {
		a, b := f.finalists[0], f.finalists[1]
		if f.scores[b] > f.scores[a] {
			return b
		}
		return a
	}
	if top := rankPlayers(r.players, r.scores); len(top) > 0 {
		return top[0]
	}
	return ""
}
