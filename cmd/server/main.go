package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/acrodash/internal/auth"
	"github.com/kiliankoe/acrodash/internal/config"
	"github.com/kiliankoe/acrodash/internal/game"
	"github.com/kiliankoe/acrodash/internal/ws"
	staticserver "github.com/kiliankoe/acrodash/static"
)

const version = "v0.3.0-dev"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Acrodash - Real-time acronym party game

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT                Port to listen on (default: 8080)
  LOG_LEVEL           debug, info, warn or error (default: info)
  ALLOWED_ORIGINS     Comma separated CORS origins (default: *)
  JWT_SECRET          Secret used to verify session tokens
  DEV_LOGIN           Enable POST /api/dev/token (default: false)
  STATS_DRIVER        sqlite, postgres, file or none (default: sqlite)
  SQLITE_PATH         SQLite database path (default: data/acrodash.db)
  POSTGRES_URL        PostgreSQL connection string
  STATS_FILE          Results log for the file driver
  MODERATION_WORDS    Extra comma separated words to reject
  OPENAI_API_KEY      Enables the OpenAI moderation check
  OLLAMA_HOST         Enables the Ollama moderation check
  MAX_PLAYERS, MAX_ROUNDS, SUBMIT_SECONDS, VOTE_SECONDS, ...
                      Game tuning, see README

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Acrodash %s\n", version)
		return
	}

	cfg := config.FromEnv()
	if *portFlag != "" {
		cfg.Port = *portFlag
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(cw)
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && lvl != zerolog.NoLevel {
		zerolog.SetGlobalLevel(lvl)
	}

	secret := cfg.JWTSecret
	if secret == "" {
		if !cfg.DevLogin {
			log.Fatal().Msg("JWT_SECRET is required unless DEV_LOGIN is enabled")
		}
		secret = uuid.NewString()
		log.Warn().Msg("JWT_SECRET not set, using an ephemeral secret for dev login")
	}
	tokens := auth.NewTokenManager(secret, cfg.TokenTTL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStats(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StatsDriver).Msg("failed to open stats store")
	}
	defer store.Close()

	// Socket server + game manager
	sock := ws.New(tokens)
	rm := game.NewRoomManager(cfg.Game,
		game.WithBroadcaster(sock.Gateway()),
		game.WithStats(store),
		game.WithFilter(moderationChain(cfg)),
	)

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	io := sock.Mount(r, rm)
	routes(r, rm, store, tokens, cfg.DevLogin)

	// Serve frontend (if embedded build is present) for all other routes
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	rm.Close()
	_ = io.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		log.Info().Str("path", path).Int("status", c.Writer.Status()).Dur("dur", time.Since(start)).Msg("http")
	}
}

func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Origin", "Authorization"},
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cc.AllowAllOrigins = true
		return cc
	}
	cc.AllowOrigins = origins
	cc.AllowCredentials = true
	return cc
}
