package game

import "sort"

const (
	FirstVoteBonus    = 3
	MostVotedBonus    = 5
	CorrectGuessBonus = 1
)

type RoundResult struct {
	VoteCounts   map[string]int // entryID -> votes
	Deltas       map[string]int // username -> points gained this round
	FirstVoted   *Entry         // target of the earliest standing vote
	Winner       *Entry         // nil when nobody voted or the top count is tied
	Fastest      *Entry
	WinnerVoters []string
}

// Score computes a round's vote counts and score deltas. Entries must be in
// submission order; the result does not depend on map iteration order.
func Score(entries []*Entry, votes map[string]*Vote) RoundResult {
	res := RoundResult{
		VoteCounts: make(map[string]int, len(entries)),
		Deltas:     make(map[string]int, len(entries)),
	}
	byID := make(map[string]*Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
		res.VoteCounts[e.ID] = 0
		res.Deltas[e.Username] += 0
		if res.Fastest == nil || e.Elapsed < res.Fastest.Elapsed {
			res.Fastest = e
		}
	}

	var first *Vote
	for _, v := range votes {
		if byID[v.EntryID] == nil {
			continue
		}
		res.VoteCounts[v.EntryID]++
		if first == nil || v.Seq < first.Seq {
			first = v
		}
	}

	highest, tied := 0, false
	for _, e := range entries {
		n := res.VoteCounts[e.ID]
		res.Deltas[e.Username] += n
		switch {
		case n > highest:
			highest, tied, res.Winner = n, false, e
		case n == highest && n > 0:
			tied = true
		}
	}
	if tied {
		res.Winner = nil
	}

	if first != nil {
		res.FirstVoted = byID[first.EntryID]
		res.Deltas[res.FirstVoted.Username] += FirstVoteBonus
	}

	if res.Winner != nil {
		res.Deltas[res.Winner.Username] += MostVotedBonus
		for voter, v := range votes {
			if v.EntryID == res.Winner.ID {
				res.WinnerVoters = append(res.WinnerVoters, voter)
				res.Deltas[voter] += CorrectGuessBonus
			}
		}
		sort.Strings(res.WinnerVoters)
	}
	return res
}

func (res RoundResult) applyTo(scores map[string]int) {
	for user, d := range res.Deltas {
		scores[user] += d
	}
}

// Total is the number of points awarded in the round.
func (res RoundResult) Total() int {
	total := 0
	for _, d := range res.Deltas {
		total += d
	}
	return total
}

func (res RoundResult) revealed(entries []*Entry) []RevealedEntry {
	out := make([]RevealedEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, res.reveal(e))
	}
	return out
}

func (res RoundResult) reveal(e *Entry) RevealedEntry {
	return RevealedEntry{
		ID:        e.ID,
		Username:  e.Username,
		Text:      e.Text,
		ElapsedMs: e.Elapsed.Milliseconds(),
		Votes:     res.VoteCounts[e.ID],
	}
}

func (res RoundResult) highlight() Highlight {
	h := Highlight{Voters: res.WinnerVoters}
	if h.Voters == nil {
		h.Voters = []string{}
	}
	if res.Fastest != nil {
		f := res.reveal(res.Fastest)
		h.Fastest = &f
	}
	if res.Winner != nil {
		w := res.reveal(res.Winner)
		h.Winner = &w
	}
	return h
}
