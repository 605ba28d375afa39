package session

import "errors"

// Session errors.
var (
	ErrNoGameInChat  = errors.New("no game in this chat")
	ErrNoGameForUser = errors.New("user is not in a game")
	ErrGameExists    = errors.New("chat already has a game")
	ErrAlreadyInGame = errors.New("user already plays in another chat")
	ErrRoomAborted   = errors.New("room aborted: session state out of sync")
)
