package uno

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardCost(t *testing.T) {
	tests := []struct {
		card *Card
		cost int
	}{
		{NewCard(Red, KindNumber, 0), 0},
		{NewCard(Red, KindNumber, 7), 7},
		{NewCard(Blue, KindTurn, 1), 20},
		{NewCard(Blue, KindReverse, 0), 20},
		{NewCard(Green, KindTake, 2), 20},
		{NewCard(Black, KindChooseColor, 0), 50},
		{NewCard(Black, KindTakeFour, 0), 50},
	}

	for _, tt := range tests {
		t.Run(tt.card.String(), func(t *testing.T) {
			assert.Equal(t, tt.cost, tt.card.Cost)
		})
	}
}

func TestCanCover(t *testing.T) {
	top := NewCard(Red, KindNumber, 5)

	assert.True(t, NewCard(Red, KindNumber, 1).CanCover(top), "same color")
	assert.True(t, NewCard(Blue, KindNumber, 5).CanCover(top), "same value")
	assert.True(t, NewCard(Black, KindChooseColor, 0).CanCover(top), "wild")
	assert.False(t, NewCard(Blue, KindNumber, 4).CanCover(top))
	assert.False(t, NewCard(Blue, KindTake, 2).CanCover(top))
	assert.True(t, NewCard(Blue, KindTake, 2).CanCover(NewCard(Green, KindTake, 2)))
	assert.True(t, NewCard(Blue, KindNumber, 4).CanCover(nil))
}

func TestIterCover(t *testing.T) {
	top := NewCard(Red, KindNumber, 5)
	hand := []*Card{NewCard(Red, KindNumber, 1), NewCard(Blue, KindNumber, 2)}

	covers := top.IterCover(hand)
	require.Len(t, covers, 2)
	assert.Equal(t, Red, covers[0].Card.Color)
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "002", NewCard(Red, KindNumber, 2).Encode())
	assert.Equal(t, "332", NewCard(Blue, KindTake, 2).Encode())
	assert.Equal(t, "540", NewCard(Black, KindTakeFour, 0).Encode())
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for _, token := range []string{"", "12", "1234", "a00", "900", "090", "040"} {
		_, err := Decode(token)
		assert.ErrorIs(t, err, ErrInvalidToken, token)
	}
}

func TestWildResetOnReturn(t *testing.T) {
	c := NewCard(Black, KindChooseColor, 0)
	c.Color = Green

	d := NewDeck(nil, nil)
	d.Put(c)
	assert.Equal(t, Black, c.Color)
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "red 5", NewCard(Red, KindNumber, 5).String())
	assert.Equal(t, "blue skip", NewCard(Blue, KindTurn, 1).String())
	assert.Equal(t, "green +2", NewCard(Green, KindTake, 2).String())
	assert.Equal(t, "wild", NewCard(Black, KindChooseColor, 0).String())

	c := NewCard(Black, KindTakeFour, 0)
	c.Color = Yellow
	assert.Equal(t, "wild +4 (yellow)", c.String())
}

func TestParseColor(t *testing.T) {
	for in, want := range map[string]Color{"red": Red, "R": Red, "b": Blue, "Green": Green, "1": Yellow} {
		got, err := ParseColor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseColor("purple")
	assert.Error(t, err)
}

func TestHandIndexOf(t *testing.T) {
	p := NewPlayer("a", "A", nil)
	p.Add(NewCard(Red, KindNumber, 5), NewCard(Black, KindTakeFour, 0))

	i, err := p.IndexOf("005")
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	i, err = p.IndexOf("520")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	_, err = p.IndexOf("015")
	assert.ErrorIs(t, err, ErrIllegalCard)
}

func TestFavouriteColor(t *testing.T) {
	p := NewPlayer("a", "A", nil)
	_, ok := p.FavouriteColor()
	assert.False(t, ok)

	p.Add(NewCard(Green, KindNumber, 1), NewCard(Blue, KindNumber, 1), NewCard(Blue, KindTake, 2))
	c, ok := p.FavouriteColor()
	assert.True(t, ok)
	assert.Equal(t, Blue, c)
}
