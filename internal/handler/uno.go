// Package handler provides Telegram bot command handlers.
package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"uno-game-bot/internal/game/uno"
	"uno-game-bot/internal/pkg/lock"
	"uno-game-bot/internal/session"
)

// UnoHandler handles game commands. The room id is the chat id.
type UnoHandler struct {
	sessions *session.Manager
}

// NewUnoHandler creates a new UnoHandler.
func NewUnoHandler(sessions *session.Manager) *UnoHandler {
	return &UnoHandler{sessions: sessions}
}

func roomID(chat *tele.Chat) string { return strconv.FormatInt(chat.ID, 10) }

func userID(u *tele.User) string { return strconv.FormatInt(u.ID, 10) }

func senderName(u *tele.User) string {
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}

// ErrorText maps engine and session errors to chat replies.
func ErrorText(err error) string {
	switch {
	case errors.Is(err, session.ErrNoGameInChat):
		return "❌ No game here. Start one with /new"
	case errors.Is(err, session.ErrNoGameForUser):
		return "❌ You are not playing"
	case errors.Is(err, session.ErrGameExists):
		return "❌ This chat already has a game"
	case errors.Is(err, session.ErrAlreadyInGame):
		return "❌ You already play in another chat"
	case errors.Is(err, session.ErrRoomAborted):
		return "⚠️ The game was aborted"
	case errors.Is(err, lock.ErrLockTimeout):
		return "⏳ Busy, try again"
	case errors.Is(err, uno.ErrLobbyClosed):
		return "🔒 The lobby is closed"
	case errors.Is(err, uno.ErrAlreadyJoined):
		return "❌ You already joined"
	case errors.Is(err, uno.ErrNotEnoughPlayers):
		return "❌ At least two players are needed"
	case errors.Is(err, uno.ErrUnknownPreset):
		return "❌ Unknown deck"
	case errors.Is(err, uno.ErrUnknownRule):
		return "❌ Unknown rule, see /rules"
	case errors.Is(err, uno.ErrDeckExhausted):
		return "❌ Not enough cards in the deck"
	case errors.Is(err, uno.ErrNotOwner):
		return "❌ Only the room owner can do this"
	case errors.Is(err, uno.ErrNotYourTurn):
		return "❌ Not your turn"
	case errors.Is(err, uno.ErrNotStarted):
		return "❌ The game has not started"
	case errors.Is(err, uno.ErrAlreadyStarted):
		return "❌ The game is already running"
	case errors.Is(err, uno.ErrNoSuchCard):
		return "❌ You have no such card"
	case errors.Is(err, uno.ErrIllegalCard):
		return "❌ That card does not fit"
	case errors.Is(err, uno.ErrBluffNotArmed):
		return "❌ There is nothing to challenge"
	case errors.Is(err, uno.ErrNotInGame):
		return "❌ No such player"
	case errors.Is(err, uno.ErrIllegalAction):
		return "❌ You can't do that now"
	default:
		return "❌ Something went wrong, try again later"
	}
}

// reply answers a command with the outcome of an action. Successful
// actions stay quiet because the notifier reports what happened.
func reply(c tele.Context, err error) error {
	if err == nil {
		return nil
	}
	if !errors.Is(err, uno.ErrIllegalAction) && !errors.Is(err, uno.ErrIllegalCard) {
		log.Debug().Err(err).Str("text", c.Text()).Msg("Game command failed")
	}
	return c.Reply(ErrorText(err))
}

// groupOnly rejects private chats.
func groupOnly(c tele.Context) bool {
	chat := c.Chat()
	if chat == nil || c.Sender() == nil {
		return false
	}
	if chat.Type == tele.ChatPrivate {
		_ = c.Reply("❌ Uno is played in groups")
		return false
	}
	return true
}

// HandleNew handles /new.
func (h *UnoHandler) HandleNew(c tele.Context) error {
	if !groupOnly(c) {
		return nil
	}
	_, err := h.sessions.Create(context.Background(), roomID(c.Chat()), userID(c.Sender()), senderName(c.Sender()))
	return reply(c, err)
}

// HandleJoin handles /join.
func (h *UnoHandler) HandleJoin(c tele.Context) error {
	if !groupOnly(c) {
		return nil
	}
	return reply(c, h.sessions.Join(context.Background(), roomID(c.Chat()), userID(c.Sender()), senderName(c.Sender())))
}

// HandleLeave handles /leave.
func (h *UnoHandler) HandleLeave(c tele.Context) error {
	if c.Sender() == nil {
		return nil
	}
	return reply(c, h.sessions.Leave(context.Background(), userID(c.Sender())))
}

// HandleBegin handles /begin [preset].
func (h *UnoHandler) HandleBegin(c tele.Context) error {
	if !groupOnly(c) {
		return nil
	}
	preset := strings.TrimSpace(c.Message().Payload)
	err := h.sessions.Start(context.Background(), roomID(c.Chat()), userID(c.Sender()), preset)
	if errors.Is(err, uno.ErrUnknownPreset) {
		return c.Reply("❌ Unknown deck. Available: " + strings.Join(h.sessions.Presets().Names(), ", "))
	}
	return reply(c, err)
}

// HandleOpen handles /open.
func (h *UnoHandler) HandleOpen(c tele.Context) error {
	return h.setOpen(c, true)
}

// HandleClose handles /close.
func (h *UnoHandler) HandleClose(c tele.Context) error {
	return h.setOpen(c, false)
}

func (h *UnoHandler) setOpen(c tele.Context, open bool) error {
	if !groupOnly(c) {
		return nil
	}
	err := h.sessions.Do(context.Background(), roomID(c.Chat()), func(g *uno.Game) error {
		return g.SetOpen(userID(c.Sender()), open)
	})
	if err != nil {
		return reply(c, err)
	}
	if open {
		return c.Reply("🔓 Lobby opened")
	}
	return c.Reply("🔒 Lobby closed")
}

// HandleRules handles /rules.
func (h *UnoHandler) HandleRules(c tele.Context) error {
	if !groupOnly(c) {
		return nil
	}
	var text string
	err := h.sessions.Do(context.Background(), roomID(c.Chat()), func(g *uno.Game) error {
		text = FormatRules(g.Rules())
		return nil
	})
	if err != nil {
		return reply(c, err)
	}
	return c.Reply(text)
}

// HandleRule handles /rule <key>.
func (h *UnoHandler) HandleRule(c tele.Context) error {
	if !groupOnly(c) {
		return nil
	}
	r, err := uno.ParseRule(c.Message().Payload)
	if err != nil {
		return reply(c, err)
	}
	var enabled bool
	err = h.sessions.Do(context.Background(), roomID(c.Chat()), func(g *uno.Game) error {
		var terr error
		enabled, terr = g.ToggleRule(userID(c.Sender()), r)
		return terr
	})
	if err != nil {
		return reply(c, err)
	}
	state := "off"
	if enabled {
		state = "on"
	}
	return c.Reply(fmt.Sprintf("⚙️ %s is now %s", r, state))
}

// HandleTable handles /table.
func (h *UnoHandler) HandleTable(c tele.Context) error {
	if !groupOnly(c) {
		return nil
	}
	var text string
	err := h.sessions.Do(context.Background(), roomID(c.Chat()), func(g *uno.Game) error {
		text = FormatTable(g)
		return nil
	})
	if err != nil {
		return reply(c, err)
	}
	return c.Reply(text)
}

// handView renders the hand of userID. Must run under the room lock.
func handView(g *uno.Game, userID string) (string, *tele.ReplyMarkup, error) {
	p := g.Player(userID)
	if p == nil {
		return "", nil, session.ErrNoGameForUser
	}
	if !g.Started() {
		return "", nil, uno.ErrNotStarted
	}
	cover, _ := g.CoverCards(p)
	playable := make(map[*uno.Card]bool, len(cover))
	for _, c := range cover {
		playable[c] = true
	}
	hand := p.Hand()
	text := FormatHand(hand, g.Top(), playable)
	// an intervention is the only way to act off turn
	if cur := g.Current(); (cur == nil || cur.ID != userID) && !g.CanPlay(userID) {
		return text, nil, nil
	}
	return text, BuildHandKeyboard(hand, playable, g.State()), nil
}

// HandleHand handles /hand. The hand goes to the private chat so other
// players can't see it.
func (h *UnoHandler) HandleHand(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	var text string
	var markup *tele.ReplyMarkup
	err := h.sessions.DoUser(context.Background(), userID(sender), func(g *uno.Game) error {
		var verr error
		text, markup, verr = handView(g, userID(sender))
		return verr
	})
	if err != nil {
		return reply(c, err)
	}

	opts := []interface{}{}
	if markup != nil {
		opts = append(opts, markup)
	}
	if _, err := c.Bot().Send(sender, text, opts...); err != nil {
		log.Debug().Err(err).Int64("user_id", sender.ID).Msg("Failed to send hand")
		return c.Reply("❌ Send me a private message first so I can show your cards")
	}
	if c.Chat() != nil && c.Chat().Type != tele.ChatPrivate {
		return c.Reply("📬 Sent to your private chat")
	}
	return nil
}

// play resolves a hand index or card token and plays it.
func play(g *uno.Game, userID, arg string) error {
	p := g.Player(userID)
	if p == nil {
		return session.ErrNoGameForUser
	}
	idx, err := strconv.Atoi(arg)
	if err != nil {
		if idx, err = p.IndexOf(arg); err != nil {
			return err
		}
	}
	return g.Play(userID, idx)
}

// HandlePlay handles /play <index|token>.
func (h *UnoHandler) HandlePlay(c tele.Context) error {
	if c.Sender() == nil {
		return nil
	}
	arg := strings.TrimSpace(c.Message().Payload)
	if arg == "" {
		return c.Reply("Usage: /play <card number>, see /hand")
	}
	uid := userID(c.Sender())
	return reply(c, h.sessions.DoUser(context.Background(), uid, func(g *uno.Game) error {
		return play(g, uid, arg)
	}))
}

// HandleDraw handles /draw.
func (h *UnoHandler) HandleDraw(c tele.Context) error {
	return h.act(c, func(g *uno.Game, uid string) error { return g.Take(uid) })
}

// HandlePass handles /pass.
func (h *UnoHandler) HandlePass(c tele.Context) error {
	return h.act(c, func(g *uno.Game, uid string) error { return g.Pass(uid) })
}

// HandleShoot handles /shoot.
func (h *UnoHandler) HandleShoot(c tele.Context) error {
	if c.Sender() == nil {
		return nil
	}
	uid := userID(c.Sender())
	var survived bool
	err := h.sessions.DoUser(context.Background(), uid, func(g *uno.Game) error {
		var serr error
		survived, serr = g.Shoot(uid)
		return serr
	})
	if err != nil {
		return reply(c, err)
	}
	if survived {
		return c.Reply("😮‍💨 Click. The next player takes the cards")
	}
	return c.Reply("💥 Bang!")
}

// HandleBluff handles /bluff.
func (h *UnoHandler) HandleBluff(c tele.Context) error {
	return h.act(c, func(g *uno.Game, uid string) error { return g.CallBluff(uid) })
}

// HandleColor handles /color <red|yellow|green|blue>.
func (h *UnoHandler) HandleColor(c tele.Context) error {
	color, err := uno.ParseColor(c.Message().Payload)
	if err != nil || color == uno.Black {
		return c.Reply("Usage: /color red|yellow|green|blue")
	}
	return h.act(c, func(g *uno.Game, uid string) error { return g.ChooseColor(uid, color) })
}

// HandleTwist handles /twist <@name|pass>. Replying to a player's message
// also picks them.
func (h *UnoHandler) HandleTwist(c tele.Context) error {
	arg := strings.TrimPrefix(strings.TrimSpace(c.Message().Payload), "@")
	var replyTo *tele.User
	if m := c.Message(); m != nil && m.ReplyTo != nil {
		replyTo = m.ReplyTo.Sender
	}
	return h.act(c, func(g *uno.Game, uid string) error {
		target, err := twistTarget(g, uid, arg, replyTo)
		if err != nil {
			return err
		}
		return g.TwistTo(uid, target)
	})
}

func twistTarget(g *uno.Game, uid, arg string, replyTo *tele.User) (string, error) {
	if replyTo != nil {
		return userID(replyTo), nil
	}
	if arg == "" || strings.EqualFold(arg, "pass") {
		return "", nil
	}
	for _, p := range g.Players() {
		if p.ID == arg || strings.EqualFold(p.Name, arg) {
			return p.ID, nil
		}
	}
	return "", uno.ErrNotInGame
}

// HandleSkip handles /skip, the owner moving a stalled turn along.
func (h *UnoHandler) HandleSkip(c tele.Context) error {
	if !groupOnly(c) {
		return nil
	}
	uid := userID(c.Sender())
	return reply(c, h.sessions.Do(context.Background(), roomID(c.Chat()), func(g *uno.Game) error {
		if g.OwnerID != uid {
			return uno.ErrNotOwner
		}
		return g.ForceSkip()
	}))
}

// HandleKill handles /kill. Admin only.
func (h *UnoHandler) HandleKill(c tele.Context) error {
	if !groupOnly(c) {
		return nil
	}
	if err := h.sessions.Kill(context.Background(), roomID(c.Chat())); err != nil {
		return reply(c, err)
	}
	return c.Reply("🛑 Game stopped")
}

// act runs fn for the sender in whatever room they play.
func (h *UnoHandler) act(c tele.Context, fn func(g *uno.Game, uid string) error) error {
	if c.Sender() == nil {
		return nil
	}
	uid := userID(c.Sender())
	return reply(c, h.sessions.DoUser(context.Background(), uid, func(g *uno.Game) error {
		return fn(g, uid)
	}))
}

// HandleCallback handles the inline keyboards.
func (h *UnoHandler) HandleCallback(c tele.Context) error {
	callback := c.Callback()
	sender := c.Sender()
	if callback == nil || sender == nil {
		return nil
	}

	action, param := DecodeCallback(callback.Data)
	uid := userID(sender)

	var fn func(g *uno.Game) error
	switch action {
	case ActionPlay:
		fn = func(g *uno.Game) error { return play(g, uid, param) }
	case ActionColor:
		n, err := strconv.Atoi(param)
		if err != nil || !uno.Color(n).Valid() || uno.Color(n) == uno.Black {
			return c.Respond(&tele.CallbackResponse{Text: "❌ Invalid action"})
		}
		fn = func(g *uno.Game) error { return g.ChooseColor(uid, uno.Color(n)) }
	case ActionDraw:
		fn = func(g *uno.Game) error { return g.Take(uid) }
	case ActionPass:
		fn = func(g *uno.Game) error { return g.Pass(uid) }
	case ActionShoot:
		fn = func(g *uno.Game) error {
			_, err := g.Shoot(uid)
			return err
		}
	case ActionBluff:
		fn = func(g *uno.Game) error { return g.CallBluff(uid) }
	default:
		return c.Respond(&tele.CallbackResponse{Text: "❌ Invalid action"})
	}

	var text string
	var markup *tele.ReplyMarkup
	err := h.sessions.DoUser(context.Background(), uid, func(g *uno.Game) error {
		if err := fn(g); err != nil {
			return err
		}
		if g.Player(uid) != nil && g.Started() {
			text, markup, _ = handView(g, uid)
		}
		return nil
	})
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: ErrorText(err), ShowAlert: true})
	}

	// hand keyboards live in the private chat; refresh them in place
	if c.Chat() != nil && c.Chat().Type == tele.ChatPrivate && action != ActionBluff {
		if text == "" {
			text = "✅"
		}
		opts := []interface{}{}
		if markup != nil {
			opts = append(opts, markup)
		}
		if err := c.Edit(text, opts...); err != nil {
			log.Debug().Err(err).Msg("Failed to refresh hand")
		}
	}
	return c.Respond()
}
