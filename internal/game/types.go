package game

import (
	"time"
)

type Phase string

const (
	PhaseWaiting        Phase = "waiting"
	PhaseSubmit         Phase = "submit"
	PhaseVote           Phase = "vote"
	PhaseResults        Phase = "results"
	PhaseFaceoffIntro   Phase = "faceoff_intro"
	PhaseFaceoffSubmit  Phase = "faceoff_submit"
	PhaseFaceoffVote    Phase = "faceoff_vote"
	PhaseFaceoffResults Phase = "faceoff_results"
	PhaseGameOver       Phase = "game_over"
)

// Config tunes one room's match. Windows are counted in scheduler ticks
// (one tick per TickInterval), so every member of a room sees the same timing.
type Config struct {
	MaxPlayers        int
	MaxRounds         int
	FaceoffRounds     int
	BaseAcronymLength int

	SubmitSeconds         int
	VoteSeconds           int
	ResultsSeconds        int
	FaceoffIntroSeconds   int
	FaceoffSubmitSeconds  int
	FaceoffVoteSeconds    int
	FaceoffResultsSeconds int
	GameOverSeconds       int
	ImminentSeconds       int
	RevealTicks           int // ticks per revealed letter, 0 reveals at once

	FaceoffEnabled     bool
	FaceoffOpenVoting  bool // non-finalists may vote during the faceoff
	WeightedLetters    bool
	TickInterval       time.Duration
	StatsRecordTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxPlayers:            10,
		MaxRounds:             5,
		FaceoffRounds:         3,
		BaseAcronymLength:     3,
		SubmitSeconds:         60,
		VoteSeconds:           30,
		ResultsSeconds:        10,
		FaceoffIntroSeconds:   5,
		FaceoffSubmitSeconds:  45,
		FaceoffVoteSeconds:    30,
		FaceoffResultsSeconds: 8,
		GameOverSeconds:       15,
		ImminentSeconds:       10,
		RevealTicks:           2,
		FaceoffEnabled:        true,
		FaceoffOpenVoting:     true,
		WeightedLetters:       true,
		TickInterval:          time.Second,
		StatsRecordTimeout:    5 * time.Second,
	}
}

type Player struct {
	ID       string    `json:"id"` // connection id
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joinedAt"`
}

type Entry struct {
	ID          string        `json:"id"`
	Username    string        `json:"username"`
	Text        string        `json:"text"`
	SubmittedAt time.Time     `json:"time"`
	Elapsed     time.Duration `json:"-"`
}

type Vote struct {
	Voter   string    `json:"voter"`
	EntryID string    `json:"entryId"`
	Seq     int       `json:"-"`
	CastAt  time.Time `json:"-"`
}

// MatchResult is one player's outcome of a scored main round.
type MatchResult struct {
	Room           string
	Round          int
	Username       string
	Points         int
	WasWinner      bool
	FastestMs      int64 // elapsed of the player's own entry, 0 without one
	VotedForWinner bool
	RecordedAt     time.Time
}

type RoomStats struct {
	Players int   `json:"players"`
	Round   int   `json:"round"`
	Phase   Phase `json:"phase"`
	Faceoff bool  `json:"faceoff"`
}
