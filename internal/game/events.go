package game

// Outbound notification names.
const (
	EventPlayers          = "players"
	EventRoundNumber      = "round_number"
	EventFaceoffRound     = "faceoff_round"
	EventPhase            = "phase"
	EventAcronym          = "acronym"
	EventLetterBeep       = "letter_beep"
	EventAcronymReady     = "acronym_ready"
	EventCountdown        = "countdown"
	EventBeep             = "beep"
	EventSubmittedUsers   = "submitted_users"
	EventVoteConfirmed    = "vote_confirmed"
	EventEntries          = "entries"
	EventVotes            = "votes"
	EventScores           = "scores"
	EventFaceoffScores    = "faceoff_scores"
	EventHighlightResults = "highlight_results"
	EventFaceoffPlayers   = "faceoff_players"
	EventFaceoffGameOver  = "faceoff_game_over"
	EventGameOver         = "game_over"
)

// BallotEntry is what voters see: no author, no timing.
type BallotEntry struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type RevealedEntry struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	ElapsedMs int64  `json:"elapsed"`
	Votes     int    `json:"votes"`
}

type Highlight struct {
	Fastest *RevealedEntry `json:"fastest"`
	Winner  *RevealedEntry `json:"winner"`
	Voters  []string       `json:"voters"`
}

type GameOver struct {
	Scores map[string]int `json:"scores"`
	Winner string         `json:"winner"`
}

type FaceoffGameOver struct {
	Players []string       `json:"players"`
	Scores  map[string]int `json:"scores"`
	Winner  string         `json:"winner"`
}
