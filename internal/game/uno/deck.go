package uno

import (
	"fmt"
	"math/rand"
)

// Deck holds the draw pile, the discard pile and the exposed top card.
// Every card of a game is in exactly one place: a hand, the draw pile, the
// discard pile or the top slot.
type Deck struct {
	draw    []*Card // the end of the slice is the top of the pile
	discard []*Card
	top     *Card
	size    int
	rng     *rand.Rand
}

// NewDeck builds a deck over cards. The cards are not shuffled.
func NewDeck(cards []*Card, rng *rand.Rand) *Deck {
	if rng == nil {
		rng = newRand()
	}
	draw := make([]*Card, len(cards))
	copy(draw, cards)
	return &Deck{
		draw: draw,
		size: len(cards),
		rng:  rng,
	}
}

// Size is the number of cards the deck was built with.
func (d *Deck) Size() int { return d.size }

// DrawLen is the number of cards in the draw pile.
func (d *Deck) DrawLen() int { return len(d.draw) }

// DiscardLen is the number of cards in the discard pile.
func (d *Deck) DiscardLen() int { return len(d.discard) }

// Available is the number of cards that can still be taken, counting the
// discard pile that would be recycled.
func (d *Deck) Available() int { return len(d.draw) + len(d.discard) }

// Top returns the exposed card, or nil before the game starts.
func (d *Deck) Top() *Card { return d.top }

// Shuffle shuffles the draw pile.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.draw), func(i, j int) {
		d.draw[i], d.draw[j] = d.draw[j], d.draw[i]
	})
}

// Clear empties every pile.
func (d *Deck) Clear() {
	d.draw = nil
	d.discard = nil
	d.top = nil
}

// recycle moves the discard pile under the draw pile and shuffles it.
func (d *Deck) recycle() {
	if len(d.discard) == 0 {
		return
	}
	for _, c := range d.discard {
		c.ReturnedToDeck()
	}
	recycled := d.discard
	d.discard = nil
	d.rng.Shuffle(len(recycled), func(i, j int) {
		recycled[i], recycled[j] = recycled[j], recycled[i]
	})
	d.draw = append(recycled, d.draw...)
}

// Take removes n cards from the draw pile. When the pile is short the
// discard pile is recycled first. If even that is not enough nothing is
// taken and ErrDeckExhausted is returned.
func (d *Deck) Take(n int) ([]*Card, error) {
	if n <= 0 {
		return nil, nil
	}
	if len(d.draw) < n {
		if d.Available() < n {
			return nil, fmt.Errorf("%w: need %d, have %d", ErrDeckExhausted, n, d.Available())
		}
		d.recycle()
	}

	cards := make([]*Card, 0, n)
	for i := 0; i < n; i++ {
		last := len(d.draw) - 1
		cards = append(cards, d.draw[last])
		d.draw[last] = nil
		d.draw = d.draw[:last]
	}
	return cards, nil
}

// CountUntilCover scans the draw pile from its top and returns the 1-based
// position of the first card that covers the top card, or 1 if none does.
func (d *Deck) CountUntilCover() int {
	for i := len(d.draw) - 1; i >= 0; i-- {
		if d.draw[i].CanCover(d.top) {
			return len(d.draw) - i
		}
	}
	return 1
}

// Put returns a card to the discard pile.
func (d *Deck) Put(c *Card) {
	c.ReturnedToDeck()
	d.discard = append(d.discard, c)
}

// PutTop exposes c, moving the previous top card to the discard pile.
func (d *Deck) PutTop(c *Card) {
	if d.top != nil {
		d.Put(d.top)
	}
	d.top = c
}

// OpenTop draws until a non-black card is exposed. Black cards drawn on the
// way go to the discard pile.
func (d *Deck) OpenTop() error {
	for n := d.Available(); n > 0; n-- {
		cards, err := d.Take(1)
		if err != nil {
			return err
		}
		c := cards[0]
		if c.Color == Black {
			d.Put(c)
			continue
		}
		d.PutTop(c)
		return nil
	}
	return fmt.Errorf("%w: no colored card to open", ErrDeckExhausted)
}
