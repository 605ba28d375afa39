package uno

import (
	"math/rand"

	"github.com/stretchr/testify/require"

	"uno-game-bot/internal/event"
)

// newTestGame starts a seeded game with the given players seated in the
// given order and the first one current.
func newTestGame(t require.TestingT, rules RuleSet, seed int64, ids ...string) (*Game, *event.Queue) {
	q := event.NewQueue()
	bus := event.NewBus()
	bus.Subscribe(q)

	cfg := &Config{Rules: rules, Rand: rand.New(rand.NewSource(seed))}
	g := New(cfg, "room-1", ids[0], "player "+ids[0], bus)
	for _, id := range ids[1:] {
		require.NoError(t, g.Join(id, "player "+id))
	}
	require.NoError(t, g.Start(Classic.NewDeck(g.rng)))
	seat(g, ids...)
	q.Drain()
	return g, q
}

// seat reorders the players and gives the turn to the first one.
func seat(g *Game, ids ...string) {
	ordered := make([]*Player, 0, len(ids))
	for _, id := range ids {
		ordered = append(ordered, g.players.Find(id))
	}
	g.players.players = ordered
	g.players.cursor = 0
	g.players.reverse = false
}

// rig replaces a hand with fresh cards. The old hand goes back to the deck.
func rig(g *Game, id string, cards ...*Card) {
	p := g.players.Find(id)
	for _, c := range p.takeHand() {
		g.deck.Put(c)
	}
	p.Add(cards...)
}

// setTop exposes a fresh card.
func setTop(g *Game, c *Card) {
	g.deck.PutTop(c)
}

func filler(n int) []*Card {
	cards := make([]*Card, n)
	for i := range cards {
		cards[i] = NewCard(Green, KindNumber, 8)
	}
	return cards
}

func types(evs []event.Event) []event.Type {
	out := make([]event.Type, len(evs))
	for i, ev := range evs {
		out[i] = ev.Type
	}
	return out
}

func countType(evs []event.Type, t event.Type) int {
	n := 0
	for _, ev := range evs {
		if ev == t {
			n++
		}
	}
	return n
}

// cardCount is the number of cards in piles, on top and in hands.
func cardCount(g *Game) int {
	n := g.deck.DrawLen() + g.deck.DiscardLen()
	if g.deck.Top() != nil {
		n++
	}
	for _, p := range g.players.All() {
		n += p.HandSize()
	}
	return n
}
