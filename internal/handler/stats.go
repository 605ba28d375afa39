package handler

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"uno-game-bot/internal/repository"
	"uno-game-bot/internal/service"
)

// topLimit is the size of the leaderboard.
const topLimit = 10

// StatsHandler handles statistics commands. stats is nil when statistics
// are disabled.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) enabled(c tele.Context) bool {
	if h.stats == nil {
		_ = c.Reply("📊 Statistics are disabled")
		return false
	}
	return c.Sender() != nil
}

// HandleStats handles /stats.
func (h *StatsHandler) HandleStats(c tele.Context) error {
	if !h.enabled(c) {
		return nil
	}
	s, err := h.stats.Get(context.Background(), userID(c.Sender()))
	if errors.Is(err, repository.ErrStatsNotFound) {
		return c.Reply("📊 No statistics yet. Turn them on with /stats_on")
	}
	if err != nil {
		log.Error().Err(err).Int64("user_id", c.Sender().ID).Msg("Failed to get stats")
		return c.Reply("❌ Failed to load statistics, try again later")
	}
	return c.Reply(FormatStats(s))
}

// HandleTop handles /top.
func (h *StatsHandler) HandleTop(c tele.Context) error {
	if !h.enabled(c) {
		return nil
	}
	list, err := h.stats.Top(context.Background(), topLimit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get leaderboard")
		return c.Reply("❌ Failed to load the leaderboard, try again later")
	}
	return c.Reply(FormatTop(list))
}

// HandleStatsOn handles /stats_on.
func (h *StatsHandler) HandleStatsOn(c tele.Context) error {
	return h.setOptIn(c, true)
}

// HandleStatsOff handles /stats_off.
func (h *StatsHandler) HandleStatsOff(c tele.Context) error {
	return h.setOptIn(c, false)
}

func (h *StatsHandler) setOptIn(c tele.Context, optIn bool) error {
	if !h.enabled(c) {
		return nil
	}
	sender := c.Sender()
	if _, err := h.stats.SetOptIn(context.Background(), userID(sender), senderName(sender), optIn); err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to update stats opt-in")
		return c.Reply("❌ Failed to update, try again later")
	}
	if optIn {
		return c.Reply("📊 Your games will be counted")
	}
	return c.Reply("📊 Your games are no longer counted")
}
