package uno

import (
	"fmt"
	"strings"
)

// Color of a card. Black marks a wild card whose color is not chosen yet.
type Color int

const (
	Red Color = iota
	Yellow
	Green
	Blue
	Black
)

// Colors lists the playable (non-black) colors in order.
var Colors = []Color{Red, Yellow, Green, Blue}

var colorNames = [...]string{"red", "yellow", "green", "blue", "black"}

var colorEmoji = [...]string{"🔴", "💛", "💚", "🔵", "⚫"}

// String returns the lower-case color name.
func (c Color) String() string {
	if c.Valid() {
		return colorNames[c]
	}
	return fmt.Sprintf("color(%d)", int(c))
}

// Emoji returns a symbol for chat rendering.
func (c Color) Emoji() string {
	if c.Valid() {
		return colorEmoji[c]
	}
	return "?"
}

// Valid reports whether c is one of the five defined colors.
func (c Color) Valid() bool {
	return c >= Red && c <= Black
}

// ParseColor accepts a color name, its first letter or its digit.
// "b" resolves to blue.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range colorNames {
		if s == name || s == name[:1] || s == fmt.Sprint(i) {
			return Color(i), nil
		}
	}
	return Black, fmt.Errorf("unknown color %q", s)
}

// Kind of a card.
type Kind int

const (
	KindNumber Kind = iota
	KindTurn
	KindReverse
	KindTake
	KindChooseColor
	KindTakeFour
)

var kindNames = [...]string{"number", "skip", "reverse", "+2", "wild", "wild +4"}

// String returns a short human label of the kind.
func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Valid reports whether k is a defined kind.
func (k Kind) Valid() bool {
	return k >= KindNumber && k <= KindTakeFour
}

// Wild reports whether cards of this kind are played black and get a color
// assigned afterwards.
func (k Kind) Wild() bool {
	return k == KindChooseColor || k == KindTakeFour
}

// Cost is the static play-cost of a card of this kind with the given value.
func (k Kind) Cost(value int) int {
	switch k {
	case KindNumber:
		return value
	case KindTurn, KindReverse, KindTake:
		return 20
	case KindChooseColor, KindTakeFour:
		return 50
	default:
		return 0
	}
}
