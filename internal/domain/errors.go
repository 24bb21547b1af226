package domain

import "errors"

// Validation errors. These are reported only to the acting player and
// never change room state. Stale client actions (out-of-turn advance,
// double votes, a non-liar guess) are dropped silently instead.
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrDuplicateName    = errors.New("display name already taken")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrNotHost          = errors.New("only the host can perform this action")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrNotAllReady      = errors.New("not every player is ready")
	ErrInvalidPhase     = errors.New("invalid action for current phase")
)
