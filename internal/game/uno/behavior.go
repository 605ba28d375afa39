package uno

import "uno-game-bot/internal/event"

// Number card values that carry a house-rule effect.
const (
	TwistValue  = 7
	RotateValue = 0
)

// Behavior is the effect bound to a card at construction time.
type Behavior interface {
	// Use runs when the card is played, before it becomes the top card.
	Use(card *Card, g *Game)
	// OnCover runs on the old top card when it gets covered.
	OnCover(card *Card, g *Game)
	// PrepareUsed runs when the card goes back to the deck.
	PrepareUsed(card *Card)
}

type noop struct{}

func (noop) Use(*Card, *Game)     {}
func (noop) OnCover(*Card, *Game) {}
func (noop) PrepareUsed(*Card)    {}

type numberBehavior struct{ noop }

type skipBehavior struct{ noop }

func (skipBehavior) Use(c *Card, g *Game) {
	n := c.Value
	if n < 1 {
		n = 1
	}
	g.skip += n
}

type reverseBehavior struct{ noop }

func (reverseBehavior) Use(_ *Card, g *Game) {
	if g.players.Len() == 2 {
		g.skip++
		return
	}
	g.players.Reverse()
	g.emit(event.GameReverse, g.players.Current().ID, g.players.Reversed())
}

type takeBehavior struct{ noop }

func (takeBehavior) Use(c *Card, g *Game) {
	g.takeCounter += c.Value
}

// wild cards forget their chosen color when they return to the deck.
type wild struct{ noop }

func (wild) PrepareUsed(c *Card) {
	c.Color = Black
}

type chooseColorBehavior struct{ wild }

func (chooseColorBehavior) Use(c *Card, g *Game) {
	g.requestColor(c)
}

type takeFourBehavior struct{ wild }

func (takeFourBehavior) Use(c *Card, g *Game) {
	g.takeCounter += 4
	g.markBluff()
	g.requestColor(c)
}

type twistBehavior struct{ noop }

func (twistBehavior) Use(_ *Card, g *Game) {
	if !g.rules.Status(RuleTwistHand) || g.players.Len() < 2 {
		return
	}
	if g.players.Current().HandSize() == 0 {
		return
	}
	g.setState(StateTwistHand)
}

type rotateBehavior struct{ noop }

func (rotateBehavior) Use(_ *Card, g *Game) {
	if !g.rules.Status(RuleRotateCards) || g.players.Len() < 2 {
		return
	}
	// the winner keeps the empty hand
	if g.players.Current().HandSize() == 0 {
		return
	}
	g.players.RotateHands(g.players.Reversed())
	g.emit(event.GameRotate, g.players.Current().ID, g.players.Reversed())
}

var behaviors = map[Kind]Behavior{
	KindNumber:      numberBehavior{},
	KindTurn:        skipBehavior{},
	KindReverse:     reverseBehavior{},
	KindTake:        takeBehavior{},
	KindChooseColor: chooseColorBehavior{},
	KindTakeFour:    takeFourBehavior{},
}

func behaviorFor(kind Kind, value int) Behavior {
	if kind == KindNumber {
		switch value {
		case TwistValue:
			return twistBehavior{}
		case RotateValue:
			return rotateBehavior{}
		}
	}
	if b, ok := behaviors[kind]; ok {
		return b
	}
	return numberBehavior{}
}
