package uno

// State is the sub-state of the turn in progress.
type State int

const (
	// StateNext waits for the current player to play or draw.
	StateNext State = iota
	// StateChooseColor waits for the current player to pick a wild color.
	StateChooseColor
	// StateTwistHand waits for the current player to pick a hand to swap with.
	StateTwistHand
	// StateShotgun waits for the current player to draw or shoot.
	StateShotgun
	// StateContinue lets the current player play another card of equal cost.
	StateContinue
	// StateTake follows a draw; the player may play or pass.
	StateTake
)

var stateNames = [...]string{"NEXT", "CHOOSE_COLOR", "TWIST_HAND", "SHOTGUN", "CONTINUE", "TAKE"}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "UNKNOWN"
}

// in reports whether s is one of states.
func (s State) in(states ...State) bool {
	for _, st := range states {
		if s == st {
			return true
		}
	}
	return false
}
