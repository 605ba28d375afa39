package uno

import "math/rand"

// PlayerManager keeps the seating order, the turn cursor and the play
// direction, plus the finishing order of players that left.
type PlayerManager struct {
	players []*Player
	cursor  int
	reverse bool
	winners []string
	losers  []string
}

// NewPlayerManager creates an empty manager.
func NewPlayerManager() *PlayerManager {
	return &PlayerManager{}
}

// Len is the number of seated players.
func (pm *PlayerManager) Len() int { return len(pm.players) }

// All returns the players in seating order.
func (pm *PlayerManager) All() []*Player {
	out := make([]*Player, len(pm.players))
	copy(out, pm.players)
	return out
}

// Winners lists players who left with an empty hand, in finishing order.
func (pm *PlayerManager) Winners() []string { return append([]string(nil), pm.winners...) }

// Losers lists players who left holding cards, in leaving order.
func (pm *PlayerManager) Losers() []string { return append([]string(nil), pm.losers...) }

// Reversed reports the play direction.
func (pm *PlayerManager) Reversed() bool { return pm.reverse }

// Reverse flips the play direction.
func (pm *PlayerManager) Reverse() { pm.reverse = !pm.reverse }

// Add seats a player at the end.
func (pm *PlayerManager) Add(p *Player) {
	pm.players = append(pm.players, p)
}

// Find returns the player with the given id.
func (pm *PlayerManager) Find(id string) *Player {
	if i := pm.index(id); i >= 0 {
		return pm.players[i]
	}
	return nil
}

func (pm *PlayerManager) index(id string) int {
	for i, p := range pm.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Remove unseats p and records it as winner when its hand is empty,
// otherwise as loser. If p held the turn, the cursor moves to the player
// that follows in the current direction.
func (pm *PlayerManager) Remove(p *Player) {
	if pm.drop(p) < 0 {
		return
	}
	if p.HandSize() == 0 {
		pm.winners = append(pm.winners, p.ID)
	} else {
		pm.losers = append(pm.losers, p.ID)
	}
}

// drop unseats p without recording a result and returns its former index.
func (pm *PlayerManager) drop(p *Player) int {
	idx := pm.index(p.ID)
	if idx < 0 {
		return -1
	}
	pm.players = append(pm.players[:idx], pm.players[idx+1:]...)

	n := len(pm.players)
	switch {
	case n == 0:
		pm.cursor = 0
		return idx
	case idx < pm.cursor:
		pm.cursor--
	case idx == pm.cursor && pm.reverse:
		pm.cursor--
	}
	pm.cursor = mod(pm.cursor, n)
	return idx
}

// Current returns the player offset seats away from the cursor, following
// the seating order regardless of direction.
func (pm *PlayerManager) Current(offset ...int) *Player {
	if len(pm.players) == 0 {
		return nil
	}
	o := 0
	if len(offset) > 0 {
		o = offset[0]
	}
	return pm.players[mod(pm.cursor+o, len(pm.players))]
}

// Peek returns the player n turns ahead in the current direction.
func (pm *PlayerManager) Peek(n int) *Player {
	if pm.reverse {
		n = -n
	}
	return pm.Current(n)
}

// Next moves the cursor n turns in the current direction.
func (pm *PlayerManager) Next(n int) {
	if len(pm.players) == 0 {
		return
	}
	if pm.reverse {
		n = -n
	}
	pm.cursor = mod(pm.cursor+n, len(pm.players))
}

// SetCurrent moves the cursor to p.
func (pm *PlayerManager) SetCurrent(p *Player) {
	if i := pm.index(p.ID); i >= 0 {
		pm.cursor = i
	}
}

// IsCurrent reports whether p holds the turn.
func (pm *PlayerManager) IsCurrent(p *Player) bool {
	cur := pm.Current()
	return cur != nil && p != nil && cur.ID == p.ID
}

// RotateHands passes every hand one seat along. With reverse false each
// player receives the hand of the player before them.
func (pm *PlayerManager) RotateHands(reverse bool) {
	n := len(pm.players)
	if n < 2 {
		return
	}
	hands := make([][]*Card, n)
	for i, p := range pm.players {
		hands[i] = p.hand
	}
	for i, p := range pm.players {
		if reverse {
			p.hand = hands[mod(i+1, n)]
		} else {
			p.hand = hands[mod(i-1, n)]
		}
	}
}

// Start shuffles the seating, resets the cursor and direction and clears
// previous results.
func (pm *PlayerManager) Start(rng *rand.Rand) {
	rng.Shuffle(len(pm.players), func(i, j int) {
		pm.players[i], pm.players[j] = pm.players[j], pm.players[i]
	})
	pm.cursor = 0
	pm.reverse = false
	pm.winners = nil
	pm.losers = nil
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
