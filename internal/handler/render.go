package handler

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"uno-game-bot/internal/event"
	"uno-game-bot/internal/game/uno"
	"uno-game-bot/internal/model"
)

// NameFunc resolves a user id to a display name.
type NameFunc func(userID string) string

// FormatEvent renders an event for the room chat. An empty text means the
// event is not shown.
func FormatEvent(ev event.Event, name NameFunc) (string, *tele.ReplyMarkup) {
	who := name(ev.From)

	switch ev.Type {
	case event.SessionStart:
		return fmt.Sprintf("🎴 %s opened an Uno lobby. /join to sit down, /begin to deal.", who), nil
	case event.SessionEnd:
		reason, _ := ev.Data.(string)
		return fmt.Sprintf("🏁 Room closed (%s).", reason), nil
	case event.SessionJoin:
		return fmt.Sprintf("👋 %s joined.", who), nil
	case event.SessionLeave:
		return fmt.Sprintf("🚪 %s left the room.", who), nil
	case event.GameStart:
		ids, _ := ev.Data.([]string)
		return fmt.Sprintf("🎲 Game started with %d players: %s", len(ids), joinNames(ids, name)), nil
	case event.GameEnd:
		res, _ := ev.Data.(uno.Result)
		return FormatResult(res, name), nil
	case event.GameLeave:
		if win, _ := ev.Data.(bool); win {
			return fmt.Sprintf("🏆 %s has no cards left!", who), nil
		}
		return fmt.Sprintf("🚪 %s left the game.", who), nil
	case event.GameTurn:
		stat, _ := ev.Data.(uno.TimerStat)
		msg := fmt.Sprintf("👉 %s, your turn. /hand to see your cards.", who)
		if stat.Alert != uno.AlertNone {
			msg += fmt.Sprintf("\n⏰ %ds this turn, %ds in game, %d turns.", stat.TurnSeconds, stat.GameSeconds, stat.Ticks)
		}
		return msg, nil
	case event.GameState:
		switch ev.Data {
		case uno.StateChooseColor:
			return fmt.Sprintf("🎨 %s, pick a color.", who), BuildColorKeyboard()
		case uno.StateTwistHand:
			return fmt.Sprintf("🔀 %s, pick a hand to swap: /twist @name", who), nil
		case uno.StateShotgun:
			return fmt.Sprintf("🔫 %s, /draw the cards or /shoot.", who), nil
		}
	case event.GameReverse:
		return "↺ Direction reversed.", nil
	case event.GameRotate:
		return "🔄 Hands passed around the table.", nil
	case event.GameUno:
		return fmt.Sprintf("❗ UNO! %s has one card left.", who), nil
	case event.GameSelectColor:
		if c, ok := ev.Data.(uno.Color); ok {
			return fmt.Sprintf("🎨 Color is now %s %s.", c.Emoji(), c), nil
		}
	case event.GameSelectPlayer:
		target, _ := ev.Data.(string)
		return fmt.Sprintf("🔀 %s swapped hands with %s.", who, name(target)), nil
	case event.PlayerPut:
		card, _ := ev.Data.(uno.Card)
		msg := fmt.Sprintf("🃏 %s played %s", who, card.Label())
		if card.Kind == uno.KindTakeFour {
			return msg + "\nNext player may call a bluff.", BuildBluffKeyboard()
		}
		return msg, nil
	case event.PlayerTake:
		n, _ := ev.Data.(int)
		return fmt.Sprintf("📥 %s drew %d.", who, n), nil
	case event.PlayerBluff:
		if caught, _ := ev.Data.(bool); caught {
			return fmt.Sprintf("🤥 %s caught a bluff!", who), nil
		}
		return fmt.Sprintf("😇 %s called a bluff, but there was none.", who), nil
	case event.PlayerIntervened:
		card, _ := ev.Data.(uno.Card)
		return fmt.Sprintf("⚡ %s jumped in with %s!", who, card.Label()), nil
	}
	return "", nil
}

// FormatResult renders the final standings.
func FormatResult(res uno.Result, name NameFunc) string {
	var b strings.Builder
	b.WriteString("🏁 Game over\n")
	b.WriteString("━━━━━━━━━━━━━━━\n")
	medals := []string{"🥇", "🥈", "🥉"}
	for i, id := range res.Winners {
		rank := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			rank = medals[i]
		}
		fmt.Fprintf(&b, "%s %s\n", rank, name(id))
	}
	if len(res.Losers) > 0 {
		fmt.Fprintf(&b, "😢 %s", joinNames(res.Losers, name))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatHand lists a hand with the hand index of each card, playable
// cards marked with a check.
func FormatHand(hand []*uno.Card, top *uno.Card, playable map[*uno.Card]bool) string {
	var b strings.Builder
	if top != nil {
		fmt.Fprintf(&b, "Top: %s\n", top.Label())
	}
	for i, c := range hand {
		mark := " "
		if playable[c] {
			mark = "✓"
		}
		fmt.Fprintf(&b, "%s %d. %s\n", mark, i, c.Label())
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatRules lists every rule with its state.
func FormatRules(rules uno.RuleSet) string {
	var b strings.Builder
	b.WriteString("⚙️ Rules\n")
	for _, r := range rules.Iter() {
		mark := "➖"
		if r.Enabled {
			mark = "✅"
		}
		fmt.Fprintf(&b, "%s %s\n", mark, r.Name)
	}
	b.WriteString("Toggle with /rule <name>")
	return b.String()
}

// FormatTable shows the seat order and hand sizes.
func FormatTable(g *uno.Game) string {
	var b strings.Builder
	dir := "→"
	if g.Reversed() {
		dir = "←"
	}
	fmt.Fprintf(&b, "🎴 %d players %s\n", len(g.Players()), dir)
	cur := g.Current()
	for _, p := range g.Players() {
		mark := "  "
		if cur != nil && cur.ID == p.ID {
			mark = "👉"
		}
		fmt.Fprintf(&b, "%s %s: %d\n", mark, p.Name, p.HandSize())
	}
	if top := g.Top(); top != nil {
		fmt.Fprintf(&b, "Top: %s", top.Label())
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatStats renders a user's statistics.
func FormatStats(s *model.UserStats) string {
	status := "off"
	if s.OptIn {
		status = "on"
	}
	msg := fmt.Sprintf("📊 %s\n", displayName(s))
	msg += "━━━━━━━━━━━━━━━\n"
	msg += fmt.Sprintf("🎮 Games: %d\n", s.GamesPlayed)
	msg += fmt.Sprintf("🥇 First places: %d\n", s.FirstPlaces)
	msg += fmt.Sprintf("🃏 Cards played: %d\n", s.CardsPlayed)
	msg += fmt.Sprintf("Tracking: %s", status)
	return msg
}

// FormatTop renders the leaderboard.
func FormatTop(list []*model.UserStats) string {
	msg := "🏆 Uno TOP\n"
	msg += "━━━━━━━━━━━━━━━\n"
	if len(list) == 0 {
		return msg + "No data yet"
	}
	medals := []string{"🥇", "🥈", "🥉"}
	for i, s := range list {
		rank := fmt.Sprintf("%d.", i+1)
		if i < 3 {
			rank = medals[i]
		}
		msg += fmt.Sprintf("%s %s: %d wins / %d games\n", rank, displayName(s), s.FirstPlaces, s.GamesPlayed)
	}
	return strings.TrimRight(msg, "\n")
}

func displayName(s *model.UserStats) string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return "User" + s.UserID
}

func joinNames(ids []string, name NameFunc) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, name(id))
	}
	return strings.Join(names, ", ")
}
