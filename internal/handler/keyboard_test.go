package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"uno-game-bot/internal/event"
	"uno-game-bot/internal/game/uno"
)

// **Property 15: Callback Round Trip**
// *For any* action and parameter without the prefix, DecodeCallback SHALL
// return what EncodeCallback was given, with or without the \f marker.
func TestProperty_CallbackRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		action := rapid.SampledFrom([]string{ActionPlay, ActionColor, ActionDraw, ActionPass, ActionShoot, ActionBluff}).Draw(t, "action")
		param := rapid.StringMatching(`[0-9a-z_]{0,6}`).Draw(t, "param")

		data := EncodeCallback(action, param)
		if rapid.Bool().Draw(t, "marker") {
			data = "\f" + data
		}
		gotAction, gotParam := DecodeCallback(data)
		if gotAction != action || gotParam != param {
			t.Fatalf("decode(%q) = %q, %q", data, gotAction, gotParam)
		}
	})
}

func TestBuildHandKeyboard(t *testing.T) {
	hand := []*uno.Card{
		uno.NewCard(uno.Red, uno.KindNumber, 1),
		uno.NewCard(uno.Blue, uno.KindNumber, 2),
		uno.NewCard(uno.Green, uno.KindNumber, 3),
		uno.NewCard(uno.Yellow, uno.KindNumber, 4),
		uno.NewCard(uno.Black, uno.KindChooseColor, 0),
	}
	playable := map[*uno.Card]bool{hand[0]: true, hand[4]: true}

	kb := BuildHandKeyboard(hand, playable, uno.StateNext)
	require.Len(t, kb.InlineKeyboard, 3)
	assert.Len(t, kb.InlineKeyboard[0], 4)
	assert.Len(t, kb.InlineKeyboard[1], 1)
	assert.Equal(t, "uno_play_0", kb.InlineKeyboard[0][0].Data)
	assert.Equal(t, "uno_play_4", kb.InlineKeyboard[1][0].Data)
	assert.Contains(t, kb.InlineKeyboard[0][0].Text, "✓")
	assert.NotContains(t, kb.InlineKeyboard[0][1].Text, "✓")
	assert.Contains(t, kb.InlineKeyboard[1][0].Text, "✓")
	assert.Equal(t, "uno_draw", kb.InlineKeyboard[2][0].Data)

	kb = BuildHandKeyboard(hand, playable, uno.StateTake)
	assert.Equal(t, "uno_pass", kb.InlineKeyboard[2][0].Data)

	kb = BuildHandKeyboard(hand, playable, uno.StateShotgun)
	require.Len(t, kb.InlineKeyboard[2], 2)
	assert.Equal(t, "uno_shoot", kb.InlineKeyboard[2][1].Data)
}

func TestBuildColorKeyboard(t *testing.T) {
	kb := BuildColorKeyboard()
	require.Len(t, kb.InlineKeyboard, 1)
	var data []string
	for _, b := range kb.InlineKeyboard[0] {
		data = append(data, b.Data)
	}
	assert.Equal(t, []string{"uno_color_0", "uno_color_1", "uno_color_2", "uno_color_3"}, data)
}

func TestFormatEvent(t *testing.T) {
	name := func(id string) string { return "P" + id }
	put := *uno.NewCard(uno.Black, uno.KindTakeFour, 4)

	text, kb := FormatEvent(event.Event{From: "1", Type: event.PlayerPut, Data: put}, name)
	assert.Contains(t, text, "P1 played")
	require.NotNil(t, kb)
	assert.Equal(t, "uno_bluff", kb.InlineKeyboard[0][0].Data)

	text, _ = FormatEvent(event.Event{Type: event.GameEnd, Data: uno.Result{Winners: []string{"2", "1"}, Losers: []string{"3"}}}, name)
	assert.Equal(t, "🏁 Game over\n━━━━━━━━━━━━━━━\n🥇 P2\n🥈 P1\n😢 P3", text)

	text, _ = FormatEvent(event.Event{From: "1", Type: event.GameState, Data: uno.StateNext}, name)
	assert.Empty(t, text)

	text, _ = FormatEvent(event.Event{From: "1", Type: event.PlayerBluff, Data: true}, name)
	assert.Equal(t, "🤥 P1 caught a bluff!", text)

	text, _ = FormatEvent(event.Event{From: "1", Type: event.GameTurn, Data: uno.TimerStat{TurnSeconds: 40, Alert: uno.AlertTurn}}, name)
	assert.Contains(t, text, "⏰ 40s this turn")
}

func TestFormatHand(t *testing.T) {
	hand := []*uno.Card{uno.NewCard(uno.Red, uno.KindNumber, 1), uno.NewCard(uno.Blue, uno.KindNumber, 2)}
	top := uno.NewCard(uno.Red, uno.KindNumber, 9)
	playable := map[*uno.Card]bool{hand[0]: true}
	assert.Equal(t, "Top: "+top.Label()+"\n✓ 0. "+hand[0].Label()+"\n  1. "+hand[1].Label(), FormatHand(hand, top, playable))

	// a card matching the top is not marked unless the game allows it
	assert.NotContains(t, FormatHand(hand, top, nil), "✓")
}
