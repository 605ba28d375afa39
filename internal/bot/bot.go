// Package bot provides the Telegram bot initialization and handler registration.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"uno-game-bot/internal/config"
	"uno-game-bot/internal/event"
	"uno-game-bot/internal/handler"
	"uno-game-bot/internal/service"
	"uno-game-bot/internal/session"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot      *tele.Bot
	cfg      *config.Config
	known    *KnownUsers
	notifier *handler.Notifier
	unsub    func()

	unoHandler   *handler.UnoHandler
	statsHandler *handler.StatsHandler
}

// Dependencies holds all the dependencies needed by the bot handlers.
type Dependencies struct {
	Config   *config.Config
	Sessions *session.Manager
	Bus      *event.Bus
	Stats    *service.StatsService // nil when statistics are disabled
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.Error().Err(err).Msg("Handler error")
		},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot:          teleBot,
		cfg:          deps.Config,
		known:        NewKnownUsers(),
		notifier:     handler.NewNotifier(teleBot),
		unoHandler:   handler.NewUnoHandler(deps.Sessions),
		statsHandler: handler.NewStatsHandler(deps.Stats),
	}
	b.unsub = deps.Bus.Subscribe(b.notifier)

	b.registerMiddleware()
	b.registerHandlers()

	return b, nil
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(RecoveryMiddleware())
	b.bot.Use(WhitelistMiddleware(b.cfg, b.known))
	b.bot.Use(LoggingMiddleware())
}

// registerHandlers registers all command and callback handlers.
func (b *Bot) registerHandlers() {
	h := b.unoHandler

	// Room
	b.bot.Handle("/new", h.HandleNew)
	b.bot.Handle("/join", h.HandleJoin)
	b.bot.Handle("/leave", h.HandleLeave)
	b.bot.Handle("/begin", h.HandleBegin)
	b.bot.Handle("/open", h.HandleOpen)
	b.bot.Handle("/close", h.HandleClose)
	b.bot.Handle("/rules", h.HandleRules)
	b.bot.Handle("/rule", h.HandleRule)
	b.bot.Handle("/table", h.HandleTable)
	b.bot.Handle("/skip", h.HandleSkip)

	// Turn
	b.bot.Handle("/hand", h.HandleHand)
	b.bot.Handle("/play", h.HandlePlay)
	b.bot.Handle("/draw", h.HandleDraw)
	b.bot.Handle("/pass", h.HandlePass)
	b.bot.Handle("/color", h.HandleColor)
	b.bot.Handle("/twist", h.HandleTwist)
	b.bot.Handle("/shoot", h.HandleShoot)
	b.bot.Handle("/bluff", h.HandleBluff)

	// Statistics
	b.bot.Handle("/stats", b.statsHandler.HandleStats)
	b.bot.Handle("/top", b.statsHandler.HandleTop)
	b.bot.Handle("/stats_on", b.statsHandler.HandleStatsOn)
	b.bot.Handle("/stats_off", b.statsHandler.HandleStatsOff)

	adminGroup := b.bot.Group()
	adminGroup.Use(AdminMiddleware(b.cfg))
	adminGroup.Handle("/kill", h.HandleKill)

	b.bot.Handle(tele.OnCallback, h.HandleCallback)
}

// Start runs the notifier and polls until Stop.
func (b *Bot) Start(ctx context.Context) {
	go func() {
		if err := b.notifier.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("Notifier stopped")
		}
	}()

	log.Info().Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops polling and the notifier. Events already queued are still sent.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
	b.unsub()
	b.notifier.Close()
}

// GetBot returns the underlying telebot instance.
func (b *Bot) GetBot() *tele.Bot {
	return b.bot
}
