package handler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uno-game-bot/internal/game/uno"
)

// newRedOnesGame starts a two player game where every card is a red one.
func newRedOnesGame(t *testing.T, rules uno.RuleSet) (g *uno.Game, current, waiting string) {
	t.Helper()
	cards := make([]*uno.Card, 20)
	for i := range cards {
		cards[i] = uno.NewCard(uno.Red, uno.KindNumber, 1)
	}
	g = uno.New(&uno.Config{Rules: rules}, "chat-1", "1", "Alice", nil)
	require.NoError(t, g.Join("2", "Bob"))
	require.NoError(t, g.Start(uno.NewDeck(cards, nil)))

	current = g.Current().ID
	waiting = "1"
	if current == "1" {
		waiting = "2"
	}
	return g, current, waiting
}

func TestHandViewMarksPlayableCards(t *testing.T) {
	g, current, waiting := newRedOnesGame(t, 0)

	text, markup, err := handView(g, current)
	require.NoError(t, err)
	assert.Equal(t, uno.DefaultHandSize, strings.Count(text, "✓"))
	require.NotNil(t, markup)

	// the same cards are not playable off turn
	text, markup, err = handView(g, waiting)
	require.NoError(t, err)
	assert.NotContains(t, text, "✓")
	assert.Nil(t, markup)
}

func TestHandViewIntervention(t *testing.T) {
	var rules uno.RuleSet
	rules.Set(uno.RuleIntervention)
	g, _, waiting := newRedOnesGame(t, rules)

	text, markup, err := handView(g, waiting)
	require.NoError(t, err)
	assert.Equal(t, uno.DefaultHandSize, strings.Count(text, "✓"))
	assert.NotNil(t, markup)
}

func TestHandViewChooseColorGate(t *testing.T) {
	g, current, _ := newRedOnesGame(t, 0)
	p := g.Player(current)
	p.Add(uno.NewCard(uno.Black, uno.KindChooseColor, 0))
	index := p.HandSize() - 1

	require.NoError(t, g.Play(current, index))
	require.Equal(t, uno.StateChooseColor, g.State())

	// nothing can be played while the color is pending
	text, _, err := handView(g, current)
	require.NoError(t, err)
	assert.NotContains(t, text, "✓")
}
