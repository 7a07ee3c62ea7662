package game

var transitions = map[Phase][]Phase{
	PhaseWaiting:        {PhaseSubmit},
	PhaseSubmit:         {PhaseVote},
	PhaseVote:           {PhaseResults},
	PhaseResults:        {PhaseSubmit, PhaseFaceoffIntro, PhaseGameOver},
	PhaseFaceoffIntro:   {PhaseFaceoffSubmit},
	PhaseFaceoffSubmit:  {PhaseFaceoffVote},
	PhaseFaceoffVote:    {PhaseFaceoffResults},
	PhaseFaceoffResults: {PhaseFaceoffSubmit, PhaseGameOver},
	PhaseGameOver:       {PhaseWaiting},
}

func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo reports whether the state machine allows moving from p to target.
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, next := range transitions[p] {
		if next == target {
			return true
		}
	}
	return false
}

func (p Phase) acceptsEntries() bool {
	return p == PhaseSubmit || p == PhaseFaceoffSubmit
}

func (p Phase) acceptsVotes() bool {
	return p == PhaseVote || p == PhaseFaceoffVote
}

func (p Phase) isFaceoff() bool {
	switch p {
	case PhaseFaceoffIntro, PhaseFaceoffSubmit, PhaseFaceoffVote, PhaseFaceoffResults:
		return true
	}
	return false
}
