package handler

import (
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"

	"uno-game-bot/internal/game/uno"
)

const (
	// CallbackPrefix is the prefix for all game callback data
	CallbackPrefix = "uno_"

	// handRowSize is the number of card buttons per keyboard row
	handRowSize = 4
)

// Callback actions.
const (
	ActionPlay  = "play"
	ActionColor = "color"
	ActionDraw  = "draw"
	ActionPass  = "pass"
	ActionShoot = "shoot"
	ActionBluff = "bluff"
)

// EncodeCallback encodes an action and parameter into callback data.
func EncodeCallback(action string, param string) string {
	if param != "" {
		return fmt.Sprintf("%s%s_%s", CallbackPrefix, action, param)
	}
	return CallbackPrefix + action
}

// DecodeCallback decodes callback data into action and parameter.
// Telebot may prefix callback data with \f.
func DecodeCallback(data string) (action string, param string) {
	data = strings.TrimPrefix(data, "\f")
	if !strings.HasPrefix(data, CallbackPrefix) {
		return "", ""
	}

	content := strings.TrimPrefix(data, CallbackPrefix)
	parts := strings.SplitN(content, "_", 2)
	action = parts[0]
	if len(parts) > 1 {
		param = parts[1]
	}
	return action, param
}

// BuildHandKeyboard lays out a hand as buttons, playable cards marked with
// a check. The index in the callback is the hand index.
func BuildHandKeyboard(hand []*uno.Card, playable map[*uno.Card]bool, state uno.State) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}

	var rows [][]tele.InlineButton
	var row []tele.InlineButton
	for i, card := range hand {
		text := card.Label()
		if playable[card] {
			text = "✓ " + text
		}
		row = append(row, tele.InlineButton{
			Text: text,
			Data: EncodeCallback(ActionPlay, strconv.Itoa(i)),
		})
		if len(row) == handRowSize {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	actions := []tele.InlineButton{{Text: "🃏 Draw", Data: EncodeCallback(ActionDraw, "")}}
	switch state {
	case uno.StateTake, uno.StateContinue:
		actions = []tele.InlineButton{{Text: "⏭ Pass", Data: EncodeCallback(ActionPass, "")}}
	case uno.StateShotgun:
		actions = append(actions, tele.InlineButton{Text: "🔫 Shoot", Data: EncodeCallback(ActionShoot, "")})
	}
	rows = append(rows, actions)

	markup.InlineKeyboard = rows
	return markup
}

// BuildColorKeyboard builds the wild color picker.
func BuildColorKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	row := make([]tele.InlineButton, 0, len(uno.Colors))
	for _, c := range uno.Colors {
		row = append(row, tele.InlineButton{
			Text: c.Emoji() + " " + c.String(),
			Data: EncodeCallback(ActionColor, strconv.Itoa(int(c))),
		})
	}
	markup.InlineKeyboard = [][]tele.InlineButton{row}
	return markup
}

// BuildBluffKeyboard offers the next player to challenge a wild +4.
func BuildBluffKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.InlineKeyboard = [][]tele.InlineButton{{
		{Text: "🤥 Bluff!", Data: EncodeCallback(ActionBluff, "")},
	}}
	return markup
}
