package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kiliankoe/acrodash/internal/game"
)

type Config struct {
	Port           string
	LogLevel       string
	AllowedOrigins []string

	JWTSecret string
	TokenTTL  time.Duration
	DevLogin  bool

	StatsDriver string
	SQLitePath  string
	PostgresURL string
	StatsFile   string

	ModerationWords []string
	OpenAIKey       string
	OpenAIBaseURL   string
	OllamaHost      string
	OllamaModel     string

	Game game.Config
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.LogLevel = getenv("LOG_LEVEL", "info")
	c.AllowedOrigins = getlist("ALLOWED_ORIGINS", []string{"*"})

	c.JWTSecret = os.Getenv("JWT_SECRET")
	c.TokenTTL = getduration("TOKEN_TTL", 24*time.Hour)
	c.DevLogin = getbool("DEV_LOGIN", false)

	c.StatsDriver = strings.ToLower(getenv("STATS_DRIVER", "sqlite"))
	c.SQLitePath = getenv("SQLITE_PATH", "data/acrodash.db")
	c.PostgresURL = os.Getenv("POSTGRES_URL")
	c.StatsFile = getenv("STATS_FILE", "./acrodash-results.txt")

	c.ModerationWords = getlist("MODERATION_WORDS", nil)
	c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	c.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	c.OllamaHost = os.Getenv("OLLAMA_HOST")
	c.OllamaModel = os.Getenv("OLLAMA_MODEL")

	g := game.DefaultConfig()
	g.MaxPlayers = getint("MAX_PLAYERS", g.MaxPlayers)
	g.MaxRounds = getint("MAX_ROUNDS", g.MaxRounds)
	g.BaseAcronymLength = getint("BASE_ACRONYM_LENGTH", g.BaseAcronymLength)
	g.SubmitSeconds = getint("SUBMIT_SECONDS", g.SubmitSeconds)
	g.VoteSeconds = getint("VOTE_SECONDS", g.VoteSeconds)
	g.ResultsSeconds = getint("RESULTS_SECONDS", g.ResultsSeconds)
	g.FaceoffIntroSeconds = getint("FACEOFF_INTRO_SECONDS", g.FaceoffIntroSeconds)
	g.FaceoffSubmitSeconds = getint("FACEOFF_SUBMIT_SECONDS", g.FaceoffSubmitSeconds)
	g.FaceoffVoteSeconds = getint("FACEOFF_VOTE_SECONDS", g.FaceoffVoteSeconds)
	g.FaceoffResultsSeconds = getint("FACEOFF_RESULTS_SECONDS", g.FaceoffResultsSeconds)
	g.GameOverSeconds = getint("GAME_OVER_SECONDS", g.GameOverSeconds)
	g.RevealTicks = getint("REVEAL_TICKS", g.RevealTicks)
	g.ImminentSeconds = getint("IMMINENT_SECONDS", g.ImminentSeconds)
	g.FaceoffEnabled = getbool("FACEOFF_ENABLED", g.FaceoffEnabled)
	g.FaceoffOpenVoting = getbool("FACEOFF_OPEN_VOTING", g.FaceoffOpenVoting)
	g.WeightedLetters = getbool("WEIGHTED_LETTERS", g.WeightedLetters)
	g.TickInterval = getduration("TICK_INTERVAL", g.TickInterval)
	c.Game = g
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return def
}

func getbool(k string, def bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(k)); err == nil {
		return b
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(k)); err == nil && d > 0 {
		return d
	}
	return def
}

func getlist(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
