package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/acrodash/internal/config"
	"github.com/kiliankoe/acrodash/internal/moderation"
	"github.com/kiliankoe/acrodash/internal/moderation/ollama"
	"github.com/kiliankoe/acrodash/internal/moderation/openai"
	"github.com/kiliankoe/acrodash/internal/stats"
)

func openStats(ctx context.Context, cfg config.Config) (stats.Store, error) {
	switch cfg.StatsDriver {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		db, err := sql.Open("sqlite3", cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(1)
		s := stats.NewSQLite(db)
		if err := s.InitSchema(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("stats: sqlite")
		return s, nil
	case "postgres":
		if cfg.PostgresURL == "" {
			return nil, fmt.Errorf("POSTGRES_URL is required for the postgres driver")
		}
		log.Info().Msg("stats: postgres")
		return stats.NewPostgres(ctx, cfg.PostgresURL)
	case "file":
		log.Info().Str("file", cfg.StatsFile).Msg("stats: file")
		return stats.NewFile(cfg.StatsFile)
	case "none", "":
		return stats.Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown stats driver %q", cfg.StatsDriver)
	}
}

func moderationChain(cfg config.Config) moderation.Chain {
	chain := moderation.Chain{moderation.NewWordList(cfg.ModerationWords...)}
	if cfg.OpenAIKey != "" {
		chain = append(chain, openai.New(cfg.OpenAIKey, cfg.OpenAIBaseURL))
	}
	if cfg.OllamaHost != "" {
		chain = append(chain, ollama.New(cfg.OllamaHost, cfg.OllamaModel))
	}
	return chain
}
