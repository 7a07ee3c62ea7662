package game

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room full")
	ErrAlreadyInRoom    = errors.New("already in room")
	ErrNotInRoom        = errors.New("not in room")
	ErrWrongPhase       = errors.New("invalid phase for action")
	ErrDuplicateEntry   = errors.New("already submitted this round")
	ErrEmptyEntry       = errors.New("empty entry")
	ErrProfaneEntry     = errors.New("entry rejected by content filter")
	ErrSelfVote         = errors.New("cannot vote for own entry")
	ErrUnknownEntry     = errors.New("unknown entry")
	ErrNotFaceoffPlayer = errors.New("only faceoff players may do that")
)
