// Package main is the entry point for the Uno bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"uno-game-bot/internal/bot"
	"uno-game-bot/internal/config"
	"uno-game-bot/internal/event"
	"uno-game-bot/internal/game/uno"
	"uno-game-bot/internal/pkg/db"
	"uno-game-bot/internal/repository"
	"uno-game-bot/internal/service"
	"uno-game-bot/internal/session"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warn().Str("level", cfg.Log.Level).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := event.NewBus()
	presets := uno.DefaultPresets()
	if _, err := presets.Get(cfg.Game.Preset); err != nil {
		log.Fatal().Err(err).Strs("presets", presets.Names()).Msg("Invalid default preset")
	}

	sessions := session.NewManager(session.Config{
		Game:        cfg.Game.EngineConfig(),
		Preset:      cfg.Game.Preset,
		LockTimeout: cfg.Game.LockTimeout,
	}, bus, presets)

	log.Info().
		Strs("presets", presets.Names()).
		Strs("rules", cfg.Game.RuleSet().Enabled()).
		Msg("Game engine ready")

	// Statistics need the database; without them the bot runs stateless
	var stats *service.StatsService
	statsDone := make(chan struct{})
	if cfg.Stats.Enabled {
		pool, err := db.NewPool(ctx, &cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer pool.Close()

		if err := db.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}

		stats = service.NewStatsService(repository.NewStatsRepository(pool), cfg.Stats.QueueSize)
		unsubscribe := bus.Subscribe(stats)
		defer unsubscribe()

		go func() {
			defer close(statsDone)
			_ = stats.Run(ctx)
		}()
	} else {
		close(statsDone)
		log.Info().Msg("Statistics disabled")
	}

	telegramBot, err := bot.New(&bot.Dependencies{
		Config:   cfg,
		Sessions: sessions,
		Bus:      bus,
		Stats:    stats,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Msg("Bot is starting...")
		telegramBot.Start(ctx)
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	// Stop taking updates, close every room, then let stats flush
	telegramBot.Stop()
	for _, room := range sessions.Rooms() {
		if err := sessions.Remove(context.Background(), room); err != nil {
			log.Warn().Err(err).Str("room_id", room).Msg("Failed to close room")
		}
	}
	cancel()
	<-statsDone
	log.Info().Msg("Bot stopped gracefully")
}
