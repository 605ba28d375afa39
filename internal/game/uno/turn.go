package uno

import (
	"fmt"

	"uno-game-bot/internal/event"
)

// actor returns the player allowed to act right now.
func (g *Game) actor(userID string) (*Player, error) {
	if !g.started {
		return nil, ErrNotStarted
	}
	p := g.players.Find(userID)
	if p == nil {
		return nil, ErrNotInGame
	}
	if !g.players.IsCurrent(p) {
		return nil, ErrNotYourTurn
	}
	return p, nil
}

// stackAllowed reports whether c may be played while cards are pending.
func (g *Game) stackAllowed(top, c *Card) bool {
	if g.takeCounter == 0 || g.rules.DeferredTake() {
		return true
	}
	switch top.Kind {
	case KindTakeFour:
		return c.Kind == KindTakeFour
	case KindTake:
		return c.Kind == KindTake || (c.Kind == KindTakeFour && g.rules.SpecialWild())
	}
	return true
}

// covers reports whether p may play c on the current top right now.
func (g *Game) covers(p *Player, c *Card) bool {
	if !g.started || !g.state.in(StateNext, StateContinue, StateTake) {
		return false
	}
	top := g.deck.Top()
	if top == nil {
		return true
	}
	if !g.players.IsCurrent(p) {
		return g.rules.Intervention() && c.Equal(top)
	}
	if !g.stackAllowed(top, c) {
		return false
	}
	if g.state == StateContinue && c.Cost != top.Cost {
		return false
	}
	return c.CanCover(top)
}

// CoverCards splits a hand into playable and unplayable cards, each sorted
// by cost in descending order.
func (g *Game) CoverCards(p *Player) (cover, uncover []*Card) {
	for _, c := range p.hand {
		if g.covers(p, c) {
			cover = append(cover, c)
		} else {
			uncover = append(uncover, c)
		}
	}
	sortByCost(cover)
	sortByCost(uncover)
	return cover, uncover
}

func (g *Game) hasCover(p *Player) bool {
	for _, c := range p.hand {
		if g.covers(p, c) {
			return true
		}
	}
	return false
}

// chainable reports whether p holds another card of the same cost that
// could follow the card just played.
func (g *Game) chainable(p *Player, played *Card) bool {
	for _, c := range p.hand {
		if c.Cost == played.Cost && c.CanCover(played) && g.stackAllowed(played, c) {
			return true
		}
	}
	return false
}

// CanPlay reports whether the user may put a card down now, either on their
// own turn or by intervention.
func (g *Game) CanPlay(userID string) bool {
	p := g.players.Find(userID)
	return p != nil && g.hasCover(p)
}

// Play puts the card at index of the user's hand on top of the deck.
func (g *Game) Play(userID string, index int) error {
	if !g.started {
		return ErrNotStarted
	}
	p := g.players.Find(userID)
	if p == nil {
		return ErrNotInGame
	}
	card, err := p.Card(index)
	if err != nil {
		return err
	}
	current := g.players.IsCurrent(p)
	if !current && !g.rules.Intervention() {
		return ErrNotYourTurn
	}
	if !g.state.in(StateNext, StateContinue, StateTake) {
		return ErrWrongState
	}
	top := g.deck.Top()
	if !g.covers(p, card) {
		return fmt.Errorf("%w: %s on %s", ErrIllegalCard, card, top)
	}

	g.bluff.armed = false
	if !current {
		g.players.SetCurrent(p)
		g.emit(event.PlayerIntervened, p.ID, *card)
	}
	// the turn restarts as a plain play
	g.state = StateNext

	p.removeAt(index)
	g.hold()
	card.Play(g)
	if top != nil {
		top.OnCover(g)
	}
	g.deck.PutTop(card)
	g.holding = false
	g.emit(event.PlayerPut, p.ID, *card)
	g.release()
	if p.HandSize() == 1 {
		g.emit(event.GameUno, p.ID, nil)
	}

	if g.state == StateNext && g.rules.SideEffect() && g.chainable(p, card) {
		g.setState(StateContinue)
		return nil
	}
	if !g.state.in(StateNext, StateTake) {
		return nil
	}
	g.nextTurn()
	g.settle()
	return nil
}

// Take draws cards for the current player. With pending cards the player
// draws them all and loses the turn; a big penalty under the shotgun rules
// switches to SHOTGUN instead. Taking again after a draw passes the turn.
func (g *Game) Take(userID string) error {
	p, err := g.actor(userID)
	if err != nil {
		return err
	}
	switch g.state {
	case StateTake:
		g.nextTurn()
		return nil
	case StateNext, StateShotgun:
	default:
		return ErrWrongState
	}

	pending := g.takeCounter
	if pending == 0 && g.rules.TakeUntilCover() {
		pending = g.deck.CountUntilCover()
	}
	if pending > 3 && g.rules.AnyShotgun() && g.state != StateShotgun {
		g.bluff.armed = false
		g.takeCounter = pending
		g.setState(StateShotgun)
		return nil
	}

	n := max(pending, 1)
	cards, err := g.deck.Take(n)
	if err != nil {
		return err
	}
	g.bluff.armed = false
	p.Add(cards...)
	g.emit(event.PlayerTake, p.ID, n)

	penalty := g.takeCounter > 0
	g.takeCounter = 0
	g.setState(StateTake)
	if penalty || (g.rules.AutoSkip() && !g.hasCover(p)) {
		g.nextTurn()
	}
	return nil
}

// Pass ends the turn after a draw or a chain of equal cards.
func (g *Game) Pass(userID string) error {
	if _, err := g.actor(userID); err != nil {
		return err
	}
	if !g.state.in(StateTake, StateContinue) {
		return ErrWrongState
	}
	g.nextTurn()
	g.settle()
	return nil
}

// ChooseColor colors the wild card on top and finishes the turn.
func (g *Game) ChooseColor(userID string, color Color) error {
	if _, err := g.actor(userID); err != nil {
		return err
	}
	if g.state != StateChooseColor {
		return ErrWrongState
	}
	if !color.Valid() || color == Black {
		return fmt.Errorf("%w: cannot choose %s", ErrIllegalAction, color)
	}
	g.assignColor(g.deck.Top(), color)
	g.nextTurn()
	g.settle()
	return nil
}

// TwistTo swaps hands with the target and finishes the turn. An empty
// target or the player themself passes when twist_hand_pass is enabled.
func (g *Game) TwistTo(userID, targetID string) error {
	p, err := g.actor(userID)
	if err != nil {
		return err
	}
	if g.state != StateTwistHand {
		return ErrWrongState
	}
	if targetID == "" || targetID == p.ID {
		if !g.rules.TwistHandPass() {
			return fmt.Errorf("%w: pick another player", ErrIllegalAction)
		}
	} else {
		target := g.players.Find(targetID)
		if target == nil {
			return ErrNotInGame
		}
		p.SwapHand(target)
		g.emit(event.GameSelectPlayer, p.ID, target.ID)
	}
	g.nextTurn()
	g.settle()
	return nil
}

// Shoot pulls the trigger instead of drawing. A lucky shot hands the
// pending cards to the next player; an unlucky one draws them and reloads.
func (g *Game) Shoot(userID string) (bool, error) {
	p, err := g.actor(userID)
	if err != nil {
		return false, err
	}
	if g.state != StateShotgun {
		return false, ErrWrongState
	}
	if g.deck.Available() < g.takeCounter {
		return false, fmt.Errorf("%w: %d cards pending", ErrDeckExhausted, g.takeCounter)
	}

	gun := g.shotgunFor(p)
	if !gun.Shot() {
		g.nextTurn()
		return false, nil
	}

	n := g.takeCounter
	cards, err := g.deck.Take(n)
	if err != nil {
		return true, err
	}
	p.Add(cards...)
	g.emit(event.PlayerTake, p.ID, n)
	g.takeCounter = 0
	gun.Reset()
	g.nextTurn()
	return true, nil
}

// CallBluff challenges the wild +4 played just before. A caught bluffer
// draws the pending cards and the challenger keeps the turn; otherwise the
// challenger draws two more and loses the turn.
func (g *Game) CallBluff(userID string) error {
	p, err := g.actor(userID)
	if err != nil {
		return err
	}
	if g.state != StateNext {
		return ErrWrongState
	}
	if !g.bluff.armed {
		return ErrBluffNotArmed
	}
	bluffer := g.players.Find(g.bluff.player)
	if bluffer == nil {
		g.bluff = bluffState{}
		return fmt.Errorf("%w: player left", ErrBluffNotArmed)
	}

	caught := g.bluff.bluffing
	taker, n := bluffer, g.takeCounter
	if !caught {
		taker, n = p, g.takeCounter+2
	}
	cards, err := g.deck.Take(n)
	if err != nil {
		return err
	}

	taker.Add(cards...)
	g.takeCounter = 0
	g.bluff = bluffState{}
	g.emit(event.PlayerBluff, p.ID, caught)
	g.emit(event.PlayerTake, taker.ID, n)
	if !caught {
		g.nextTurn()
	}
	return nil
}

// ForceSkip finishes the current turn on behalf of an idle player: a
// pending color is picked at random, a pending twist is dropped and a
// player who has not acted draws.
func (g *Game) ForceSkip() error {
	if !g.started {
		return ErrNotStarted
	}
	p := g.players.Current()
	switch g.state {
	case StateChooseColor:
		g.assignColor(g.deck.Top(), g.randomColor())
	case StateNext, StateShotgun:
		n := min(max(g.takeCounter, 1), g.deck.Available())
		if n > 0 {
			cards, err := g.deck.Take(n)
			if err != nil {
				return err
			}
			p.Add(cards...)
			g.emit(event.PlayerTake, p.ID, n)
		}
		g.takeCounter = 0
	}
	g.nextTurn()
	g.settle()
	return nil
}

// nextTurn commits the current turn and hands it to the next player.
func (g *Game) nextTurn() {
	g.emit(event.GameNext, g.currentID(), nil)
	g.players.Next(1 + g.skip)
	g.skip = 0
	g.bluff.armed = g.bluff.pending
	g.bluff.pending = false
	g.setState(StateNext)
	g.beginTurn()
}

func (g *Game) beginTurn() {
	if g.rules.RandomColor() {
		if top := g.deck.Top(); top != nil && top.Wild() {
			g.assignColor(top, g.randomColor())
		}
	}
	g.emit(event.GameTurn, g.currentID(), g.timer.Tick())
}

// resetTurn clears everything pending for a turn that was cut short.
func (g *Game) resetTurn() {
	g.takeCounter = 0
	g.skip = 0
	g.bluff = bluffState{}
	if g.state == StateChooseColor {
		if top := g.deck.Top(); top != nil && top.Color == Black {
			g.assignColor(top, g.randomColor())
		}
	}
	g.setState(StateNext)
}

// settle removes players who emptied their hand and ends the game when
// nobody is left to play against.
func (g *Game) settle() {
	for _, p := range g.players.All() {
		if !g.started {
			return
		}
		if p.HandSize() > 0 {
			continue
		}
		wasCurrent := g.players.IsCurrent(p)
		seat := g.players.index(p.ID)
		g.players.Remove(p)
		g.emit(event.GameLeave, p.ID, true)
		g.transferOwner(p.ID, seat)

		if g.rules.OneWinner() || g.players.Len() <= 1 {
			_ = g.End()
			return
		}
		if wasCurrent {
			g.resetTurn()
			g.beginTurn()
		}
	}
}
