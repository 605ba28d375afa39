// Package uno implements the card game engine: cards and their behaviors,
// decks and presets, house rules and the per-room state machine.
//
// A Game is not safe for concurrent use. Callers serialise all actions of one
// room; distinct games are independent. The engine performs no I/O, every
// change is reported through an event.Publisher.
package uno

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"uno-game-bot/internal/event"
)

// DefaultHandSize is the number of cards dealt to each player.
const DefaultHandSize = 7

// Config holds game settings.
type Config struct {
	Rules    RuleSet
	HandSize int
	Timer    TimerConfig

	// Rand drives every random decision; nil seeds from the clock.
	Rand *rand.Rand
	// Now replaces the wall clock of the timer.
	Now func() time.Time
}

// Result lists the finishing order of a game.
type Result struct {
	Winners []string
	Losers  []string
}

type bluffState struct {
	player   string
	bluffing bool
	pending  bool // set by a wild +4, armed by the following turn commit
	armed    bool
}

// Game is the state machine of one room.
type Game struct {
	ID      string
	RoomID  string
	OwnerID string

	rules    RuleSet
	handSize int
	deck     *Deck
	players  *PlayerManager
	shotgun  *Shotgun
	timer    *Timer
	rng      *rand.Rand
	pub      event.Publisher

	state       State
	takeCounter int
	skip        int
	bluff       bluffState
	held        []event.Event
	holding     bool
	started     bool
	finished    bool
	open        bool
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// New creates an open lobby with the owner seated.
func New(cfg *Config, roomID, ownerID, ownerName string, pub event.Publisher) *Game {
	if cfg == nil {
		cfg = &Config{}
	}
	rng := cfg.Rand
	if rng == nil {
		rng = newRand()
	}
	handSize := cfg.HandSize
	if handSize <= 0 {
		handSize = DefaultHandSize
	}
	if pub == nil {
		pub = event.Discard
	}

	g := &Game{
		ID:       uuid.NewString(),
		RoomID:   roomID,
		OwnerID:  ownerID,
		rules:    cfg.Rules,
		handSize: handSize,
		players:  NewPlayerManager(),
		shotgun:  NewShotgun(rng),
		timer:    NewTimer(cfg.Timer, cfg.Now),
		rng:      rng,
		pub:      pub,
		open:     true,
	}
	g.players.Add(NewPlayer(ownerID, ownerName, NewShotgun(rng)))
	return g
}

func (g *Game) emit(t event.Type, from string, data any) {
	ev := event.Event{
		RoomID: g.RoomID,
		GameID: g.ID,
		From:   from,
		Type:   t,
		Data:   data,
	}
	if g.holding {
		g.held = append(g.held, ev)
		return
	}
	g.pub.Publish(ev)
}

// hold buffers emitted events until release, so card effects are
// announced after the card itself.
func (g *Game) hold() {
	g.holding = true
}

func (g *Game) release() {
	g.holding = false
	held := g.held
	g.held = nil
	for _, ev := range held {
		g.pub.Publish(ev)
	}
}

// NewDeck materialises a preset with the game's random source so a seeded
// game deals reproducibly.
func (g *Game) NewDeck(p *Preset) *Deck {
	return p.NewDeck(g.rng)
}

// Announce publishes an event on behalf of the room, used by the session
// layer so its events share the room's ordering.
func (g *Game) Announce(t event.Type, from string, data any) {
	g.emit(t, from, data)
}

func (g *Game) currentID() string {
	if p := g.players.Current(); p != nil {
		return p.ID
	}
	return ""
}

func (g *Game) setState(s State) {
	if g.state == s {
		return
	}
	g.state = s
	g.emit(event.GameState, g.currentID(), s)
}

// State returns the turn sub-state.
func (g *Game) State() State { return g.state }

// TakeCounter returns the number of cards pending for the next draw.
func (g *Game) TakeCounter() int { return g.takeCounter }

// Started reports whether cards have been dealt.
func (g *Game) Started() bool { return g.started }

// Finished reports whether the game has ended.
func (g *Game) Finished() bool { return g.finished }

// Open reports whether new players may join.
func (g *Game) Open() bool { return g.open }

// Rules returns the enabled house rules.
func (g *Game) Rules() RuleSet { return g.rules }

// Deck returns the deck, nil before the start.
func (g *Game) Deck() *Deck { return g.deck }

// Reversed reports the play direction.
func (g *Game) Reversed() bool { return g.players.Reversed() }

// BluffArmed reports whether the current player may challenge a wild +4.
func (g *Game) BluffArmed() bool { return g.bluff.armed }

// Top returns a copy of the exposed card, nil before the start.
func (g *Game) Top() *Card {
	if g.deck == nil || g.deck.Top() == nil {
		return nil
	}
	c := *g.deck.Top()
	return &c
}

// Current returns the player holding the turn.
func (g *Game) Current() *Player { return g.players.Current() }

// Player returns a seated player by user id.
func (g *Game) Player(userID string) *Player { return g.players.Find(userID) }

// Players returns the seated players in seating order.
func (g *Game) Players() []*Player { return g.players.All() }

// Timer returns the current clock snapshot.
func (g *Game) Timer() TimerStat { return g.timer.Stat() }

// Results returns the finishing order so far.
func (g *Game) Results() Result {
	return Result{Winners: g.players.Winners(), Losers: g.players.Losers()}
}

// SetOpen opens or closes the lobby. Only the owner may do this.
func (g *Game) SetOpen(userID string, open bool) error {
	if userID != g.OwnerID {
		return ErrNotOwner
	}
	g.open = open
	return nil
}

// SetRules replaces the rule set before the start. Only the owner may do this.
func (g *Game) SetRules(userID string, rules RuleSet) error {
	if userID != g.OwnerID {
		return ErrNotOwner
	}
	if g.started {
		return ErrAlreadyStarted
	}
	g.rules = rules
	return nil
}

// ToggleRule flips one rule before the start and returns its new status.
func (g *Game) ToggleRule(userID string, r Rule) (bool, error) {
	if userID != g.OwnerID {
		return false, ErrNotOwner
	}
	if g.started {
		return false, ErrAlreadyStarted
	}
	return g.rules.Toggle(r), nil
}

// Join seats a new player. Joining a running game deals a fresh hand.
func (g *Game) Join(userID, name string) error {
	if !g.open || g.finished {
		return ErrLobbyClosed
	}
	if g.players.Find(userID) != nil {
		return ErrAlreadyJoined
	}
	if g.started && g.deck.Available() < g.handSize {
		return fmt.Errorf("%w: cannot deal a hand", ErrDeckExhausted)
	}

	p := NewPlayer(userID, name, NewShotgun(g.rng))
	g.players.Add(p)
	if g.started {
		g.onJoin(p)
	}
	g.emit(event.GameJoin, p.ID, p.Name)
	return nil
}

func (g *Game) onJoin(p *Player) {
	p.shotgun.Reset()
	cards, err := g.deck.Take(g.handSize)
	if err != nil {
		// callers check availability first
		panic(fmt.Sprintf("uno: dealing to %s: %v", p.ID, err))
	}
	p.Add(cards...)
}

func (g *Game) onLeave(p *Player) {
	for _, c := range p.takeHand() {
		g.deck.Put(c)
	}
}

// transferOwner hands ownership to whoever now sits at the leaver's seat.
func (g *Game) transferOwner(leaver string, seat int) {
	if leaver != g.OwnerID || g.players.Len() == 0 {
		return
	}
	g.OwnerID = g.players.players[mod(seat, g.players.Len())].ID
}

// Leave removes a player. A player leaving with cards counts as loser. When
// the current player leaves the turn passes on and pending cards are
// dropped. A running game with one player left ends.
func (g *Game) Leave(userID string) error {
	p := g.players.Find(userID)
	if p == nil {
		return ErrNotInGame
	}
	seat := g.players.index(userID)

	if !g.started {
		g.players.drop(p)
		g.emit(event.GameLeave, p.ID, false)
		g.transferOwner(p.ID, seat)
		return nil
	}

	wasCurrent := g.players.IsCurrent(p)
	win := p.HandSize() == 0
	g.players.Remove(p)
	g.onLeave(p)
	g.emit(event.GameLeave, p.ID, win)
	g.transferOwner(p.ID, seat)

	if g.players.Len() <= 1 {
		return g.End()
	}
	if wasCurrent {
		g.resetTurn()
		g.beginTurn()
	}
	return nil
}

// Start deals the deck: the seating is shuffled, a non-black card is
// exposed and every player receives a hand.
func (g *Game) Start(deck *Deck) error {
	if g.started {
		return ErrAlreadyStarted
	}
	if g.finished {
		return ErrWrongState
	}
	if g.players.Len() < 2 {
		return ErrNotEnoughPlayers
	}
	if deck == nil {
		return fmt.Errorf("%w: no deck", ErrIllegalAction)
	}
	if need := g.players.Len()*g.handSize + 1; deck.Available() < need {
		return fmt.Errorf("%w: need %d cards, deck has %d", ErrDeckExhausted, need, deck.Available())
	}

	deck.Shuffle()
	if err := deck.OpenTop(); err != nil {
		return err
	}
	if deck.Available() < g.players.Len()*g.handSize {
		return fmt.Errorf("%w: too many wild cards to deal", ErrDeckExhausted)
	}

	g.deck = deck
	g.players.Start(g.rng)
	g.shotgun.Reset()
	g.state = StateNext
	g.takeCounter = 0
	g.skip = 0
	g.bluff = bluffState{}
	g.started = true

	ids := make([]string, 0, g.players.Len())
	for _, p := range g.players.All() {
		g.onJoin(p)
		ids = append(ids, p.ID)
	}

	g.timer.Start()
	g.emit(event.GameStart, g.OwnerID, ids)
	g.emit(event.GameTurn, g.currentID(), g.timer.Stat())
	return nil
}

// End finishes the game. Remaining players count as losers and their cards
// go back to the deck.
func (g *Game) End() error {
	if !g.started {
		return ErrNotStarted
	}
	for _, p := range g.players.All() {
		g.players.Remove(p)
		g.onLeave(p)
	}
	g.started = false
	g.finished = true
	g.open = false
	g.deck.Clear()
	g.emit(event.GameEnd, "", g.Results())
	return nil
}

// randomColor picks a playable color uniformly.
func (g *Game) randomColor() Color {
	return Colors[g.rng.Intn(len(Colors))]
}

func (g *Game) assignColor(c *Card, color Color) {
	c.Color = color
	g.emit(event.GameSelectColor, g.currentID(), color)
}

// requestColor resolves the color of a wild card that is being played,
// either automatically or by asking the current player.
func (g *Game) requestColor(c *Card) {
	switch {
	case g.rules.ChooseRandomColor() || g.rules.RandomColor():
		g.assignColor(c, g.randomColor())
	case g.rules.AutoChooseColor():
		color, ok := g.players.Current().FavouriteColor()
		if !ok {
			color = g.randomColor()
		}
		g.assignColor(c, color)
	default:
		g.setState(StateChooseColor)
	}
}

// markBluff remembers whether the current player bluffs with a wild +4.
func (g *Game) markBluff() {
	p := g.players.Current()
	g.bluff = bluffState{
		player:   p.ID,
		bluffing: p.IsBluffing(g.deck.Top()),
		pending:  true,
	}
}

func (g *Game) shotgunFor(p *Player) *Shotgun {
	if g.rules.SingleShotgun() {
		return g.shotgun
	}
	return p.shotgun
}
