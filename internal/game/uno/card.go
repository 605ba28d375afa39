package uno

import (
	"errors"
	"fmt"
)

// ErrInvalidToken is returned when a card token cannot be decoded.
var ErrInvalidToken = errors.New("invalid card token")

// Card is one physical card of a deck. Only Color changes after construction:
// a wild card gets its color assigned when played and loses it again when it
// goes back to the deck.
type Card struct {
	Color Color
	Kind  Kind
	Value int
	Cost  int

	behavior Behavior
}

// NewCard builds a card and binds the behavior of its kind and value.
func NewCard(color Color, kind Kind, value int) *Card {
	return &Card{
		Color:    color,
		Kind:     kind,
		Value:    value,
		Cost:     kind.Cost(value),
		behavior: behaviorFor(kind, value),
	}
}

// Wild reports whether the card is a color-choosing card.
func (c *Card) Wild() bool {
	return c.Kind.Wild()
}

// CanCover reports whether c may be placed on top.
func (c *Card) CanCover(top *Card) bool {
	if top == nil {
		return true
	}
	return c.Kind.Wild() ||
		c.Color == top.Color ||
		(c.Kind == top.Kind && c.Value == top.Value)
}

// Cover pairs a hand card with whether it can be put on the top card.
type Cover struct {
	Card *Card
	OK   bool
}

// IterCover pairs every card of hand with whether it covers c.
func (c *Card) IterCover(hand []*Card) []Cover {
	out := make([]Cover, 0, len(hand))
	for _, card := range hand {
		out = append(out, Cover{Card: card, OK: card.CanCover(c)})
	}
	return out
}

// Equal compares the visible face of two cards.
func (c *Card) Equal(o *Card) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.Color == o.Color && c.Kind == o.Kind && c.Value == o.Value
}

// Play applies the card's effect to the game.
func (c *Card) Play(g *Game) {
	c.behavior.Use(c, g)
}

// OnCover is invoked on the old top card when another card covers it.
func (c *Card) OnCover(g *Game) {
	c.behavior.OnCover(c, g)
}

// ReturnedToDeck restores the card to its pristine state.
func (c *Card) ReturnedToDeck() {
	c.behavior.PrepareUsed(c)
}

// Encode returns the three digit token KCV (kind, color, value).
func (c *Card) Encode() string {
	return fmt.Sprintf("%d%d%d", int(c.Kind), int(c.Color), c.Value)
}

// Decode parses a token produced by Encode into a fresh card.
func Decode(token string) (*Card, error) {
	if len(token) != 3 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidToken, token)
	}
	var digits [3]int
	for i := 0; i < 3; i++ {
		ch := token[i]
		if ch < '0' || ch > '9' {
			return nil, fmt.Errorf("%w: %q", ErrInvalidToken, token)
		}
		digits[i] = int(ch - '0')
	}

	kind, color, value := Kind(digits[0]), Color(digits[1]), digits[2]
	if !kind.Valid() || !color.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidToken, token)
	}
	if color == Black && !kind.Wild() {
		return nil, fmt.Errorf("%w: %q is black but not wild", ErrInvalidToken, token)
	}
	return NewCard(color, kind, value), nil
}

// String renders the card for humans, e.g. "red 5" or "wild +4 (green)".
func (c *Card) String() string {
	switch c.Kind {
	case KindNumber:
		return fmt.Sprintf("%s %d", c.Color, c.Value)
	case KindTurn:
		if c.Value > 1 {
			return fmt.Sprintf("%s skip x%d", c.Color, c.Value)
		}
		return fmt.Sprintf("%s skip", c.Color)
	case KindTake:
		return fmt.Sprintf("%s +%d", c.Color, c.Value)
	case KindChooseColor, KindTakeFour:
		if c.Color == Black {
			return c.Kind.String()
		}
		return fmt.Sprintf("%s (%s)", c.Kind, c.Color)
	default:
		return fmt.Sprintf("%s %s", c.Color, c.Kind)
	}
}

// Label is the emoji form used in chat messages.
func (c *Card) Label() string {
	switch c.Kind {
	case KindNumber:
		return fmt.Sprintf("%s %d", c.Color.Emoji(), c.Value)
	case KindTurn:
		return c.Color.Emoji() + " ⊘"
	case KindReverse:
		return c.Color.Emoji() + " ↺"
	case KindTake:
		return fmt.Sprintf("%s +%d", c.Color.Emoji(), c.Value)
	case KindChooseColor:
		return c.Color.Emoji() + " 🌈"
	case KindTakeFour:
		return c.Color.Emoji() + " 🌈+4"
	default:
		return c.String()
	}
}
