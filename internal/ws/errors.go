package ws

import (
	"errors"

	"github.com/kiliankoe/acrodash/internal/game"
)

var (
	errUnauthorized = errors.New("not authenticated")
	errRateLimited  = errors.New("slow down")
	errBadRequest   = errors.New("malformed request")
)

var errorCodes = []struct {
	err  error
	code string
}{
	{game.ErrRoomNotFound, "room_not_found"},
	{game.ErrRoomFull, "room_full"},
	{game.ErrAlreadyInRoom, "already_in_room"},
	{game.ErrNotInRoom, "not_in_room"},
	{game.ErrWrongPhase, "wrong_phase"},
	{game.ErrDuplicateEntry, "duplicate"},
	{game.ErrEmptyEntry, "empty_entry"},
	{game.ErrProfaneEntry, "profane"},
	{game.ErrSelfVote, "self_vote"},
	{game.ErrUnknownEntry, "unknown_entry"},
	{game.ErrNotFaceoffPlayer, "not_faceoff_player"},
	{errUnauthorized, "unauthorized"},
	{errRateLimited, "rate_limited"},
	{errBadRequest, "bad_request"},
}

// errorCode maps an engine refusal to its stable wire code.
func errorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "internal"
}
