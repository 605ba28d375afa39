package uno

import (
	"math/rand"
	"testing"

	"pgregory.net/rapid"
)

func drawCard(t *rapid.T) *Card {
	cards := append(Classic.Cards(), Wild.Cards()...)
	return cards[rapid.IntRange(0, len(cards)-1).Draw(t, "card")]
}

// TestCardConservationProperty plays random games and counts cards.
// **Property 1: Card Conservation**
// *For any* rule set and any sequence of legal moves, the draw pile, the
// discard pile, the top card and all hands together SHALL hold exactly the
// cards of the initial deck.
func TestCardConservationProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rules := RuleSet(rapid.Uint32Range(0, 1<<uint32(ruleCount)-1).Draw(t, "rules"))
		seed := rapid.Int64().Draw(t, "seed")
		n := rapid.IntRange(2, 6).Draw(t, "players")
		ids := []string{"p0", "p1", "p2", "p3", "p4", "p5"}[:n]

		g, _ := newTestGame(t, rules, seed, ids...)
		policy := NewRandomPolicy(rand.New(rand.NewSource(seed)))
		size := g.deck.Size()

		for step := 0; step < 300 && g.Started(); step++ {
			if err := policy.Step(g); err != nil {
				t.Fatalf("step %d in %s: %v", step, g.State(), err)
			}
			if !g.Started() {
				break
			}
			if got := cardCount(g); got != size {
				t.Fatalf("step %d: %d cards in play, deck has %d", step, got, size)
			}
		}
	})
}

// TestTopLegalityProperty checks the exposed card at every turn boundary.
// **Property 2: Top Legality**
// *For any* random game, whenever the state is NEXT the top card SHALL NOT be black.
func TestTopLegalityProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rules := RuleSet(rapid.Uint32Range(0, 1<<uint32(ruleCount)-1).Draw(t, "rules"))
		seed := rapid.Int64().Draw(t, "seed")

		g, _ := newTestGame(t, rules, seed, "a", "b", "c")
		policy := NewRandomPolicy(rand.New(rand.NewSource(seed)))

		for step := 0; step < 200 && g.Started(); step++ {
			if err := policy.Step(g); err != nil {
				t.Fatalf("step %d: %v", step, err)
			}
			if g.Started() && g.State() == StateNext && g.Top().Color == Black {
				t.Fatalf("step %d: black top %s", step, g.Top())
			}
		}
	})
}

// TestCoverProperty checks why a card may cover another.
// **Property 4: Cover Symmetry**
// *For any* two cards a and b, if a covers b then the colors match, a is
// wild, or kind and value match.
func TestCoverProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a, b := drawCard(t), drawCard(t)
		if b.Wild() {
			b.Color = Colors[rapid.IntRange(0, 3).Draw(t, "color")]
		}
		if !a.CanCover(b) {
			return
		}
		if a.Color != b.Color && !a.Wild() && (a.Kind != b.Kind || a.Value != b.Value) {
			t.Fatalf("%s covers %s", a, b)
		}
	})
}

// TestCardCodecProperty round-trips cards through their token.
// **Property 5: Serialization Round-Trip**
// *For any* generable card c, Decode(c.Encode()) SHALL equal c.
func TestCardCodecProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := drawCard(t)
		got, err := Decode(c.Encode())
		if err != nil {
			t.Fatalf("decode %q: %v", c.Encode(), err)
		}
		if !got.Equal(c) || got.Cost != c.Cost {
			t.Fatalf("round trip %s -> %s", c, got)
		}
	})
}

// TestReverseTwoPlayersProperty plays a reverse between two players.
// **Property 6: Reverse Acts As Skip**
// *For any* reverse card played by either of two players, the same player
// SHALL hold the turn afterwards and the direction SHALL NOT change.
func TestReverseTwoPlayersProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		color := Colors[rapid.IntRange(0, 3).Draw(t, "color")]
		first := rapid.SampledFrom([]string{"A", "B"}).Draw(t, "first")

		g, _ := newTestGame(t, 0, 1, "A", "B")
		if first == "B" {
			g.players.Next(1)
		}
		setTop(g, NewCard(color, KindNumber, 4))
		rig(g, first, NewCard(color, KindReverse, 0), NewCard(color, KindNumber, 1))

		if err := g.Play(first, 0); err != nil {
			t.Fatalf("play: %v", err)
		}
		if g.Current().ID != first || g.Reversed() {
			t.Fatalf("current %s reversed %v", g.Current().ID, g.Reversed())
		}
	})
}

// TestRotationClosureProperty rotates hands all the way round.
// **Property 7: Rotation Closure**
// *For any* seating, rotating hands once per player SHALL restore every hand.
func TestRotationClosureProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(2, 8).Draw(t, "players")
		reverse := rapid.Bool().Draw(t, "reverse")

		pm := NewPlayerManager()
		want := make(map[string]int)
		for i := 0; i < n; i++ {
			p := NewPlayer(string(rune('a'+i)), "", nil)
			p.Add(filler(rapid.IntRange(0, 10).Draw(t, "hand"))...)
			pm.Add(p)
			want[p.ID] = p.HandSize()
		}

		for i := 0; i < n; i++ {
			pm.RotateHands(reverse)
		}
		for _, p := range pm.All() {
			if p.HandSize() != want[p.ID] {
				t.Fatalf("%s holds %d cards, want %d", p.ID, p.HandSize(), want[p.ID])
			}
		}
	})
}

// TestDeckTakeProperty draws random amounts from a recycled deck.
// **Property 9: Deck Recycling**
// *For any* sequence of draws and discards, Take SHALL either return exactly
// n cards or fail without removing any card, and recycled wild cards SHALL be black.
func TestDeckTakeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := Classic.NewDeck(rand.New(rand.NewSource(rapid.Int64().Draw(t, "seed"))))
		d.Shuffle()
		var hand []*Card

		for i := 0; i < 50; i++ {
			n := rapid.IntRange(0, 20).Draw(t, "n")
			before := d.Available()
			cards, err := d.Take(n)
			if err != nil {
				if d.Available() != before {
					t.Fatalf("failed take changed the deck")
				}
			} else if len(cards) != n {
				t.Fatalf("took %d, want %d", len(cards), n)
			}
			for _, c := range cards {
				if c.Wild() && c.Color != Black {
					t.Fatalf("recycled wild is %s", c.Color)
				}
				if c.Wild() {
					c.Color = Red
				}
			}
			hand = append(hand, cards...)

			k := rapid.IntRange(0, len(hand)).Draw(t, "discard")
			for _, c := range hand[:k] {
				d.Put(c)
			}
			hand = hand[k:]
			if d.Available()+len(hand) != d.Size() {
				t.Fatalf("lost cards: %d + %d != %d", d.Available(), len(hand), d.Size())
			}
		}
	})
}
