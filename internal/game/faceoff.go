package game

import (
	"sort"
	"time"
)

// rankPlayers orders current members by main-match score, highest first.
// Equal scores keep join order.
func rankPlayers(players []*Player, scores map[string]int) []string {
	ranked := make([]string, 0, len(players))
	for _, p := range players {
		ranked = append(ranked, p.Username)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})
	return ranked
}

func selectFinalists(players []*Player, scores map[string]int) []string {
	ranked := rankPlayers(players, scores)
	if len(ranked) < 2 {
		return nil
	}
	return ranked[:2]
}

// playFaceoff runs the sudden-death rounds between the top two scorers. With
// fewer than two members left it is skipped and the match ends normally.
func (r *Room) playFaceoff(ticks <-chan time.Time) bool {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return false
	}
	finalists := selectFinalists(r.players, r.scores)
	if finalists == nil {
		r.mu.Unlock()
		return true
	}
	r.faceoff = &faceoffState{
		finalists: finalists,
		scores:    map[string]int{finalists[0]: 0, finalists[1]: 0},
	}
	if !r.transition(PhaseFaceoffIntro) {
		r.mu.Unlock()
		return false
	}
	r.emit(EventFaceoffPlayers, finalists)
	r.mu.Unlock()

	if !r.pause(ticks, r.cfg.FaceoffIntroSeconds) {
		return false
	}
	for round := 1; round <= r.cfg.FaceoffRounds; round++ {
		if !r.playFaceoffRound(ticks, round) {
			return false
		}
	}

	return r.step(func() {
		r.emit(EventFaceoffGameOver, FaceoffGameOver{
			Players: r.faceoff.finalists,
			Scores:  copyScores(r.faceoff.scores),
			Winner:  r.matchWinner(),
		})
	})
}

func (r *Room) playFaceoffRound(ticks <-chan time.Time, round int) bool {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return false
	}
	r.faceoffRound = round
	r.beginRound(round)
	r.emit(EventFaceoffRound, round)
	if !r.transition(PhaseFaceoffSubmit) {
		r.mu.Unlock()
		return false
	}
	acronym := r.acronym
	r.mu.Unlock()

	if !r.reveal(ticks, acronym) || !r.window(ticks, r.cfg.FaceoffSubmitSeconds) {
		return false
	}

	r.mu.Lock()
	if !r.transition(PhaseFaceoffVote) {
		r.mu.Unlock()
		return false
	}
	r.sendBallots()
	r.mu.Unlock()

	if !r.window(ticks, r.cfg.FaceoffVoteSeconds) {
		return false
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return false
	}
	res := Score(r.ledger.entries, r.ledger.votes)
	// audience correct-guess points do not enter the faceoff table
	for _, u := range r.faceoff.finalists {
		r.faceoff.scores[u] += res.Deltas[u]
	}
	r.emit(EventVotes, res.VoteCounts)
	r.emit(EventFaceoffScores, copyScores(r.faceoff.scores))
	r.emit(EventEntries, res.revealed(r.ledger.entries))
	r.emit(EventHighlightResults, res.highlight())
	ok := r.transition(PhaseFaceoffResults)
	r.mu.Unlock()

	return ok && r.pause(ticks, r.cfg.FaceoffResultsSeconds)
}
