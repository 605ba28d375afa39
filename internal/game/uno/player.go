package uno

import (
	"fmt"
	"sort"
)

// Player is a participant of a game. Identity is the user id.
type Player struct {
	ID   string
	Name string

	hand    []*Card
	shotgun *Shotgun
}

// NewPlayer creates a player with an empty hand.
func NewPlayer(id, name string, shotgun *Shotgun) *Player {
	if name == "" {
		name = id
	}
	return &Player{ID: id, Name: name, shotgun: shotgun}
}

// Hand returns a copy of the hand in holding order.
func (p *Player) Hand() []*Card {
	out := make([]*Card, len(p.hand))
	copy(out, p.hand)
	return out
}

// HandSize is the number of cards held.
func (p *Player) HandSize() int { return len(p.hand) }

// Card returns the card at index.
func (p *Player) Card(index int) (*Card, error) {
	if index < 0 || index >= len(p.hand) {
		return nil, fmt.Errorf("%w: index %d", ErrNoSuchCard, index)
	}
	return p.hand[index], nil
}

// IndexOf finds the first card matching a token, see Card.Encode. Wild cards
// in hand are black, so a wild token matches regardless of its color digit.
func (p *Player) IndexOf(token string) (int, error) {
	want, err := Decode(token)
	if err != nil {
		return -1, err
	}
	for i, c := range p.hand {
		if c.Kind != want.Kind || c.Value != want.Value {
			continue
		}
		if c.Wild() || c.Color == want.Color {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrNoSuchCard, token)
}

// Add puts cards into the hand.
func (p *Player) Add(cards ...*Card) {
	p.hand = append(p.hand, cards...)
}

func (p *Player) removeAt(index int) *Card {
	c := p.hand[index]
	p.hand = append(p.hand[:index], p.hand[index+1:]...)
	return c
}

// takeHand empties the hand and returns what it held.
func (p *Player) takeHand() []*Card {
	h := p.hand
	p.hand = nil
	return h
}

// SwapHand exchanges hands with other.
func (p *Player) SwapHand(other *Player) {
	p.hand, other.hand = other.hand, p.hand
}

// IsBluffing reports whether the player holds a colored card matching top,
// which makes a wild +4 on top of it a bluff.
func (p *Player) IsBluffing(top *Card) bool {
	if top == nil || top.Color == Black {
		return false
	}
	for _, c := range p.hand {
		if !c.Wild() && c.Color == top.Color {
			return true
		}
	}
	return false
}

// FavouriteColor is the most frequent color in hand; ties go to the earlier
// color. ok is false when the hand holds no colored card.
func (p *Player) FavouriteColor() (color Color, ok bool) {
	var counts [len(colorNames)]int
	for _, c := range p.hand {
		if c.Color != Black {
			counts[c.Color]++
		}
	}
	best := -1
	for _, col := range Colors {
		if counts[col] > 0 && (best < 0 || counts[col] > counts[best]) {
			best = int(col)
		}
	}
	if best < 0 {
		return Black, false
	}
	return Color(best), true
}

// Shotgun returns the player's own revolver.
func (p *Player) Shotgun() *Shotgun { return p.shotgun }

func sortByCost(cards []*Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Cost > cards[j].Cost
	})
}

func (p *Player) String() string {
	return fmt.Sprintf("%s(%d)", p.Name, len(p.hand))
}
