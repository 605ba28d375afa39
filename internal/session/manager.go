// Package session owns the running games: it maps rooms to games and users
// to rooms, and runs every game action under the lock of its room.
package session

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"uno-game-bot/internal/event"
	"uno-game-bot/internal/game/uno"
	"uno-game-bot/internal/pkg/lock"
)

// Config holds settings for new rooms.
type Config struct {
	Game        uno.Config
	Preset      string
	LockTimeout time.Duration

	// Rand returns the random source of a new game. Games never share one.
	Rand func() *rand.Rand
}

// Manager maps rooms to games and users to rooms. A user is in the users
// map exactly when the game of that room seats them.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*uno.Game
	users map[string]string

	locks   *lock.KeyLock
	bus     *event.Bus
	presets *uno.PresetRegistry
	cfg     Config
}

// NewManager creates a manager publishing to bus.
func NewManager(cfg Config, bus *event.Bus, presets *uno.PresetRegistry) *Manager {
	if bus == nil {
		bus = event.NewBus()
	}
	if presets == nil {
		presets = uno.DefaultPresets()
	}
	if cfg.Preset == "" {
		cfg.Preset = uno.Classic.Name
	}
	return &Manager{
		rooms:   make(map[string]*uno.Game),
		users:   make(map[string]string),
		locks:   lock.New(),
		bus:     bus,
		presets: presets,
		cfg:     cfg,
	}
}

// Presets returns the deck presets rooms can start with.
func (m *Manager) Presets() *uno.PresetRegistry { return m.presets }

func (m *Manager) lockRoom(ctx context.Context, roomID string) error {
	if err := m.locks.LockContext(ctx, roomID, m.cfg.LockTimeout); err != nil {
		return fmt.Errorf("lock room %s: %w", roomID, err)
	}
	return nil
}

func (m *Manager) newGameConfig() *uno.Config {
	cfg := m.cfg.Game
	cfg.Rand = nil
	if m.cfg.Rand != nil {
		cfg.Rand = m.cfg.Rand()
	}
	return &cfg
}

// Create opens a lobby in roomID owned by userID.
func (m *Manager) Create(ctx context.Context, roomID, userID, name string) (*uno.Game, error) {
	if err := m.lockRoom(ctx, roomID); err != nil {
		return nil, err
	}
	defer m.locks.Unlock(roomID)

	m.mu.Lock()
	if _, ok := m.rooms[roomID]; ok {
		m.mu.Unlock()
		return nil, ErrGameExists
	}
	if _, ok := m.users[userID]; ok {
		m.mu.Unlock()
		return nil, ErrAlreadyInGame
	}
	g := uno.New(m.newGameConfig(), roomID, userID, name, m.bus)
	m.rooms[roomID] = g
	m.users[userID] = roomID
	m.mu.Unlock()

	log.Info().Str("room_id", roomID).Str("user_id", userID).Str("game_id", g.ID).Msg("Room created")
	g.Announce(event.SessionStart, userID, g.ID)
	g.Announce(event.SessionJoin, userID, name)
	return g, nil
}

// Join seats userID in the game of roomID.
func (m *Manager) Join(ctx context.Context, roomID, userID, name string) error {
	if err := m.lockRoom(ctx, roomID); err != nil {
		return err
	}
	defer m.locks.Unlock(roomID)

	g, err := m.reserve(roomID, userID)
	if err != nil {
		return err
	}
	if err := g.Join(userID, name); err != nil {
		m.release(roomID, userID)
		return err
	}
	g.Announce(event.SessionJoin, userID, name)
	return m.reconcile(roomID, g)
}

// reserve claims the user for roomID so no other room can take them while
// the join is in flight.
func (m *Manager) reserve(roomID, userID string) (*uno.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrNoGameInChat
	}
	if rid, ok := m.users[userID]; ok {
		if rid == roomID {
			return nil, uno.ErrAlreadyJoined
		}
		return nil, ErrAlreadyInGame
	}
	m.users[userID] = roomID
	return g, nil
}

func (m *Manager) release(roomID, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.users[userID] == roomID {
		delete(m.users, userID)
	}
}

// Leave removes userID from whatever game they are in.
func (m *Manager) Leave(ctx context.Context, userID string) error {
	return m.DoUser(ctx, userID, func(g *uno.Game) error {
		return g.Leave(userID)
	})
}

// Start deals a deck of the named preset, or the default one when preset is
// empty. Only the owner may start.
func (m *Manager) Start(ctx context.Context, roomID, userID, preset string) error {
	if preset == "" {
		preset = m.cfg.Preset
	}
	p, err := m.presets.Get(preset)
	if err != nil {
		return err
	}
	return m.Do(ctx, roomID, func(g *uno.Game) error {
		if g.OwnerID != userID {
			return uno.ErrNotOwner
		}
		return g.Start(g.NewDeck(p))
	})
}

// Do runs fn on the game of roomID while holding the room lock, then brings
// the user map in line with the game and drops the room if it is over.
func (m *Manager) Do(ctx context.Context, roomID string, fn func(g *uno.Game) error) error {
	if err := m.lockRoom(ctx, roomID); err != nil {
		return err
	}
	defer m.locks.Unlock(roomID)

	m.mu.RLock()
	g, ok := m.rooms[roomID]
	m.mu.RUnlock()
	if !ok {
		return ErrNoGameInChat
	}

	err := fn(g)
	if rerr := m.reconcile(roomID, g); rerr != nil {
		return rerr
	}
	return err
}

// DoUser is Do for the room userID plays in.
func (m *Manager) DoUser(ctx context.Context, userID string, fn func(g *uno.Game) error) error {
	roomID, ok := m.RoomOf(userID)
	if !ok {
		return ErrNoGameForUser
	}
	return m.Do(ctx, roomID, func(g *uno.Game) error {
		// the user may have moved while we waited for the lock
		if g.Player(userID) == nil {
			return ErrNoGameForUser
		}
		return fn(g)
	})
}

// Remove ends the game of roomID, if running, and destroys the room.
func (m *Manager) Remove(ctx context.Context, roomID string) error {
	return m.destroy(ctx, roomID, "removed")
}

// Kill is Remove on behalf of an administrator.
func (m *Manager) Kill(ctx context.Context, roomID string) error {
	log.Warn().Str("room_id", roomID).Msg("Killing room")
	return m.destroy(ctx, roomID, "killed")
}

func (m *Manager) destroy(ctx context.Context, roomID, reason string) error {
	if err := m.lockRoom(ctx, roomID); err != nil {
		return err
	}
	defer m.locks.Unlock(roomID)

	m.mu.RLock()
	g, ok := m.rooms[roomID]
	m.mu.RUnlock()
	if !ok {
		return ErrNoGameInChat
	}
	if g.Started() {
		_ = g.End()
	}
	m.drop(roomID, g, reason)
	return nil
}

// reconcile runs under the room lock after every action.
func (m *Manager) reconcile(roomID string, g *uno.Game) error {
	seated := make(map[string]bool)
	for _, p := range g.Players() {
		seated[p.ID] = true
	}

	m.mu.Lock()
	var left []string
	for uid, rid := range m.users {
		if rid == roomID && !seated[uid] {
			delete(m.users, uid)
			left = append(left, uid)
		}
	}
	var broken []string
	for uid := range seated {
		if m.users[uid] != roomID {
			broken = append(broken, uid)
		}
	}
	m.mu.Unlock()

	sort.Strings(left)
	for _, uid := range left {
		g.Announce(event.SessionLeave, uid, nil)
	}

	if len(broken) > 0 {
		log.Error().Str("room_id", roomID).Strs("user_ids", broken).Msg("Players without session, aborting room")
		if g.Started() {
			_ = g.End()
		}
		m.drop(roomID, g, "aborted")
		return ErrRoomAborted
	}
	if g.Finished() || len(seated) == 0 {
		m.drop(roomID, g, "finished")
	}
	return nil
}

// drop deletes the room and every user mapped to it.
func (m *Manager) drop(roomID string, g *uno.Game, reason string) {
	m.mu.Lock()
	if m.rooms[roomID] == g {
		delete(m.rooms, roomID)
	}
	var left []string
	for uid, rid := range m.users {
		if rid == roomID {
			delete(m.users, uid)
			left = append(left, uid)
		}
	}
	m.mu.Unlock()

	sort.Strings(left)
	for _, uid := range left {
		g.Announce(event.SessionLeave, uid, nil)
	}
	g.Announce(event.SessionEnd, "", reason)
	m.bus.Forget(roomID)
	log.Info().Str("room_id", roomID).Str("game_id", g.ID).Str("reason", reason).Msg("Room closed")
}

// GameByRoom returns the game of roomID. Use Do to act on it.
func (m *Manager) GameByRoom(roomID string) (*uno.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrNoGameInChat
	}
	return g, nil
}

// GameByUser returns the game userID plays in. Use DoUser to act on it.
func (m *Manager) GameByUser(userID string) (*uno.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rid, ok := m.users[userID]
	if !ok {
		return nil, ErrNoGameForUser
	}
	g, ok := m.rooms[rid]
	if !ok {
		return nil, ErrNoGameForUser
	}
	return g, nil
}

// RoomOf returns the room userID plays in.
func (m *Manager) RoomOf(userID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rid, ok := m.users[userID]
	return rid, ok
}

// Rooms returns the ids of all rooms, sorted.
func (m *Manager) Rooms() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of rooms.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}
