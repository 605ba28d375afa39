// Package event carries game state changes from the engine to adapters.
//
// The engine publishes every committed change as an Event. A Bus fans events
// out to sinks; sinks either handle events inline (push) or buffer them in a
// Queue for a consumer to pull.
package event

import "fmt"

// Type identifies what happened.
type Type int

const (
	SessionStart Type = iota
	SessionEnd
	SessionJoin
	SessionLeave
	GameStart
	GameEnd
	GameJoin
	GameLeave
	GameNext
	GameTurn
	GameState
	GameReverse
	GameRotate
	GameUno
	GameSelectColor
	GameSelectPlayer
	PlayerPut
	PlayerTake
	PlayerBluff
	PlayerIntervened
)

var typeNames = [...]string{
	SessionStart:     "SESSION_START",
	SessionEnd:       "SESSION_END",
	SessionJoin:      "SESSION_JOIN",
	SessionLeave:     "SESSION_LEAVE",
	GameStart:        "GAME_START",
	GameEnd:          "GAME_END",
	GameJoin:         "GAME_JOIN",
	GameLeave:        "GAME_LEAVE",
	GameNext:         "GAME_NEXT",
	GameTurn:         "GAME_TURN",
	GameState:        "GAME_STATE",
	GameReverse:      "GAME_REVERSE",
	GameRotate:       "GAME_ROTATE",
	GameUno:          "GAME_UNO",
	GameSelectColor:  "GAME_SELECT_COLOR",
	GameSelectPlayer: "GAME_SELECT_PLAYER",
	PlayerPut:        "PLAYER_PUT",
	PlayerTake:       "PLAYER_TAKE",
	PlayerBluff:      "PLAYER_BLUFF",
	PlayerIntervened: "PLAYER_INTERVENED",
}

// String returns the stable upper-case name of the type.
func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("EVENT_%d", int(t))
}

// Event is the transport-neutral carrier for one state change.
//
// Data holds the payload for the type: bool for GAME_LEAVE, GAME_REVERSE and
// PLAYER_BLUFF, int for PLAYER_TAKE, the engine's card, color, state, timer
// stat and result values for the others, and nil when there is no payload.
type Event struct {
	RoomID string
	GameID string
	Seq    uint64 // per-room commit order, assigned by the Bus
	From   string // user id of the acting player, empty for system events
	Type   Type
	Data   any
}

// String formats the event for logs.
func (e Event) String() string {
	return fmt.Sprintf("%s#%d %s from=%q data=%v", e.RoomID, e.Seq, e.Type, e.From, e.Data)
}
