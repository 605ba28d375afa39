package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"uno-game-bot/internal/event"
)

// Sender delivers messages. *tele.Bot implements it.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Notifier is an event sink that renders game events to the room chat.
// Handle only buffers; Run delivers from a single goroutine so messages keep
// the commit order of each room.
type Notifier struct {
	sender Sender
	queue  *event.Queue
	names  map[string]map[string]string // room id -> user id -> name, owned by Run
}

// NewNotifier creates a Notifier sending through sender.
func NewNotifier(sender Sender) *Notifier {
	return &Notifier{
		sender: sender,
		queue:  event.NewQueue(),
		names:  make(map[string]map[string]string),
	}
}

// Handle buffers an event.
func (n *Notifier) Handle(ev event.Event) {
	n.queue.Handle(ev)
}

// Close stops accepting events. Run returns once the buffer is empty.
func (n *Notifier) Close() {
	n.queue.Close()
}

// Run delivers events until ctx is done or the notifier is closed.
func (n *Notifier) Run(ctx context.Context) error {
	for {
		ev, err := n.queue.Next(ctx)
		if err != nil {
			if errors.Is(err, event.ErrQueueClosed) {
				return nil
			}
			return err
		}
		n.deliver(ev)
	}
}

func (n *Notifier) deliver(ev event.Event) {
	n.remember(ev)

	text, markup := FormatEvent(ev, n.nameFunc(ev.RoomID))
	if ev.Type == event.SessionEnd {
		delete(n.names, ev.RoomID)
	}
	if text == "" {
		return
	}

	chatID, err := strconv.ParseInt(ev.RoomID, 10, 64)
	if err != nil {
		log.Warn().Str("room_id", ev.RoomID).Msg("Room id is not a chat id")
		return
	}

	opts := []interface{}{}
	if markup != nil {
		opts = append(opts, markup)
	}
	if _, err := n.sender.Send(tele.ChatID(chatID), text, opts...); err != nil {
		log.Error().Err(err).
			Int64("chat_id", chatID).
			Str("event", ev.Type.String()).
			Msg("Failed to send game event")
	}
}

func (n *Notifier) remember(ev event.Event) {
	if ev.Type != event.SessionJoin && ev.Type != event.GameJoin {
		return
	}
	name, ok := ev.Data.(string)
	if !ok || ev.From == "" {
		return
	}
	room, ok := n.names[ev.RoomID]
	if !ok {
		room = make(map[string]string)
		n.names[ev.RoomID] = room
	}
	room[ev.From] = name
}

func (n *Notifier) nameFunc(roomID string) NameFunc {
	room := n.names[roomID]
	return func(userID string) string {
		if name, ok := room[userID]; ok && name != "" {
			return name
		}
		if userID == "" {
			return "Someone"
		}
		return "User" + userID
	}
}
