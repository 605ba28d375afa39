package uno

import (
	"errors"
	"fmt"
)

// Errors returned by game actions. Refined errors wrap their kind so callers
// can test with errors.Is against either.
var (
	ErrLobbyClosed      = errors.New("lobby is closed")
	ErrAlreadyJoined    = errors.New("player already joined")
	ErrNotInGame        = errors.New("player is not in this game")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrDeckExhausted    = errors.New("deck exhausted")
	ErrIllegalAction    = errors.New("illegal action")
	ErrIllegalCard      = errors.New("illegal card")
	ErrUnknownPreset    = errors.New("unknown preset")

	ErrNotStarted     = fmt.Errorf("%w: game not started", ErrIllegalAction)
	ErrAlreadyStarted = fmt.Errorf("%w: game already started", ErrIllegalAction)
	ErrNotYourTurn    = fmt.Errorf("%w: not your turn", ErrIllegalAction)
	ErrWrongState     = fmt.Errorf("%w: not allowed in this state", ErrIllegalAction)
	ErrNotOwner       = fmt.Errorf("%w: only the owner can do this", ErrIllegalAction)
	ErrBluffNotArmed  = fmt.Errorf("%w: nothing to challenge", ErrIllegalAction)
	ErrNoSuchCard     = fmt.Errorf("%w: no such card in hand", ErrIllegalCard)
)
