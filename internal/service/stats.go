// Package service provides business logic implementations.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"uno-game-bot/internal/event"
	"uno-game-bot/internal/game/uno"
	"uno-game-bot/internal/model"
)

// StatsStore persists player statistics.
type StatsStore interface {
	GetByID(ctx context.Context, userID string) (*model.UserStats, error)
	SetOptIn(ctx context.Context, userID, displayName string, optIn bool) (*model.UserStats, error)
	Record(ctx context.Context, records []model.GameRecord) (int, error)
	Top(ctx context.Context, limit int) ([]*model.UserStats, error)
}

// tally collects what one game contributes to statistics.
type tally struct {
	names   map[string]string
	players []string
	cards   map[string]int
	first   string
}

func newTally() *tally {
	return &tally{
		names: make(map[string]string),
		cards: make(map[string]int),
	}
}

func (t *tally) seat(userID string) {
	for _, id := range t.players {
		if id == userID {
			return
		}
	}
	t.players = append(t.players, userID)
}

func (t *tally) records() []model.GameRecord {
	out := make([]model.GameRecord, 0, len(t.players))
	for _, id := range t.players {
		out = append(out, model.GameRecord{
			UserID:      id,
			DisplayName: t.names[id],
			FirstPlace:  id == t.first,
			CardsPlayed: t.cards[id],
		})
	}
	return out
}

// StatsService derives player statistics from game events. It is an event
// sink; finished games are written by Run so no database work happens while
// a room is locked.
type StatsService struct {
	store StatsStore

	mu    sync.Mutex
	games map[string]*tally // by game id

	jobs chan []model.GameRecord
}

// NewStatsService creates a StatsService buffering up to queueSize games.
func NewStatsService(store StatsStore, queueSize int) *StatsService {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &StatsService{
		store: store,
		games: make(map[string]*tally),
		jobs:  make(chan []model.GameRecord, queueSize),
	}
}

// Handle consumes one event.
func (s *StatsService) Handle(ev event.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.games[ev.GameID]
	if !ok {
		if ev.Type == event.SessionEnd || ev.Type == event.GameEnd {
			return
		}
		t = newTally()
		s.games[ev.GameID] = t
	}

	switch ev.Type {
	case event.SessionJoin, event.GameJoin:
		if name, ok := ev.Data.(string); ok {
			t.names[ev.From] = name
		}
		if len(t.players) > 0 && ev.Type == event.GameJoin {
			t.seat(ev.From)
		}
	case event.GameStart:
		if ids, ok := ev.Data.([]string); ok {
			for _, id := range ids {
				t.seat(id)
			}
		}
	case event.PlayerPut:
		t.cards[ev.From]++
	case event.GameLeave:
		if win, _ := ev.Data.(bool); win && t.first == "" {
			t.first = ev.From
		}
	case event.GameEnd:
		if res, ok := ev.Data.(uno.Result); ok && len(res.Winners) > 0 && t.first == "" {
			t.first = res.Winners[0]
		}
		delete(s.games, ev.GameID)
		if len(t.players) > 0 {
			s.enqueue(ev.RoomID, t.records())
		}
	case event.SessionEnd:
		delete(s.games, ev.GameID)
	}
}

func (s *StatsService) enqueue(roomID string, recs []model.GameRecord) {
	select {
	case s.jobs <- recs:
	default:
		log.Warn().Str("room_id", roomID).Int("players", len(recs)).Msg("Stats queue full, dropping game")
	}
}

// Pending returns the number of games waiting to be written.
func (s *StatsService) Pending() int { return len(s.jobs) }

// Run writes finished games until ctx is done, then flushes what is queued.
func (s *StatsService) Run(ctx context.Context) error {
	for {
		select {
		case recs := <-s.jobs:
			s.write(ctx, recs)
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			for {
				select {
				case recs := <-s.jobs:
					s.write(flushCtx, recs)
				default:
					return ctx.Err()
				}
			}
		}
	}
}

func (s *StatsService) write(ctx context.Context, recs []model.GameRecord) {
	n, err := s.store.Record(ctx, recs)
	if err != nil {
		log.Error().Err(err).Int("players", len(recs)).Msg("Failed to record game stats")
		return
	}
	log.Debug().Int("players", len(recs)).Int("updated", n).Msg("Game stats recorded")
}

// Get returns the statistics of a user.
func (s *StatsService) Get(ctx context.Context, userID string) (*model.UserStats, error) {
	return s.store.GetByID(ctx, userID)
}

// Top returns the leaderboard.
func (s *StatsService) Top(ctx context.Context, limit int) ([]*model.UserStats, error) {
	return s.store.Top(ctx, limit)
}

// SetOptIn switches statistics collection for a user.
func (s *StatsService) SetOptIn(ctx context.Context, userID, displayName string, optIn bool) (*model.UserStats, error) {
	return s.store.SetOptIn(ctx, userID, displayName, optIn)
}
