// Package bot provides middleware for the Telegram bot.
package bot

import (
	"sync"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"uno-game-bot/internal/config"
)

// KnownUsers remembers who has used the bot in an allowed group. Only they
// may talk to it in private, which is where hands are shown.
type KnownUsers struct {
	mu    sync.RWMutex
	users map[int64]bool
}

// NewKnownUsers creates an empty set.
func NewKnownUsers() *KnownUsers {
	return &KnownUsers{users: make(map[int64]bool)}
}

// Allow marks a user as known.
func (k *KnownUsers) Allow(userID int64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.users[userID] = true
}

// Allowed reports whether the user is known.
func (k *KnownUsers) Allowed(userID int64) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.users[userID]
}

// WhitelistMiddleware drops updates from chats that are not whitelisted.
// Private chats pass for known users, or for everyone when the whitelist
// is empty.
func WhitelistMiddleware(cfg *config.Config, known *KnownUsers) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			chat := c.Chat()
			sender := c.Sender()

			if chat == nil || sender == nil {
				return nil
			}

			if chat.Type == tele.ChatPrivate {
				if known.Allowed(sender.ID) || len(cfg.Whitelist.Chats) == 0 {
					return next(c)
				}
				log.Debug().
					Int64("user_id", sender.ID).
					Msg("Ignoring private chat from unknown user")
				return nil
			}

			if !cfg.IsChatAllowed(chat.ID) {
				log.Debug().
					Int64("chat_id", chat.ID).
					Msg("Ignoring update from non-whitelisted chat")
				return nil
			}

			known.Allow(sender.ID)
			return next(c)
		}
	}
}

// AdminMiddleware rejects users that are not admins.
func AdminMiddleware(cfg *config.Config) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return nil
			}

			if !cfg.IsAdmin(sender.ID) {
				log.Warn().
					Int64("user_id", sender.ID).
					Str("command", c.Text()).
					Msg("Non-admin attempted admin command")
				return c.Reply("❌ Admins only")
			}

			return next(c)
		}
	}
}

// LoggingMiddleware logs every incoming update at debug level.
func LoggingMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			chat := c.Chat()

			logEvent := log.Debug()
			if sender != nil {
				logEvent = logEvent.
					Int64("user_id", sender.ID).
					Str("username", sender.Username)
			}
			if chat != nil {
				logEvent = logEvent.
					Int64("chat_id", chat.ID).
					Str("chat_type", string(chat.Type))
			}
			logEvent.
				Str("text", c.Text()).
				Msg("Received update")

			return next(c)
		}
	}
}

// RecoveryMiddleware turns a handler panic into an error reply.
func RecoveryMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Interface("panic", r).
						Str("text", c.Text()).
						Msg("Recovered from panic in handler")
					err = c.Reply("❌ Internal error, try again later")
				}
			}()
			return next(c)
		}
	}
}
