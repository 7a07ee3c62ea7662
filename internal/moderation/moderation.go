package moderation

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Checker decides whether a piece of player text may be shown to the room.
type Checker interface {
	Check(ctx context.Context, text string) (clean bool, err error)
}

// Chain runs checkers in order and rejects on the first flag. A checker that
// errors is skipped so an unreachable backend never blocks play.
type Chain []Checker

func (c Chain) IsClean(ctx context.Context, text string) bool {
	for _, chk := range c {
		clean, err := chk.Check(ctx, text)
		if err != nil {
			log.Warn().Err(err).Msg("moderation backend failed, skipping")
			continue
		}
		if !clean {
			return false
		}
	}
	return true
}
