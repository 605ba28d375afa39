package uno

import "time"

// Alert tells which timer threshold was crossed. Higher values win when
// several are crossed at once.
type Alert int

const (
	AlertNone Alert = iota
	AlertGame
	AlertTicks
	AlertTurn
)

func (a Alert) String() string {
	switch a {
	case AlertGame:
		return "game"
	case AlertTicks:
		return "ticks"
	case AlertTurn:
		return "turn"
	default:
		return "none"
	}
}

// TimerConfig holds the alert thresholds. Zero disables a threshold.
type TimerConfig struct {
	TurnAlert  time.Duration
	GameAlert  time.Duration
	TicksAlert int
}

// TimerStat is a snapshot of the game clock.
type TimerStat struct {
	GameSeconds int
	TurnSeconds int
	Ticks       int
	Alert       Alert
}

// Timer measures elapsed game and turn time. It only reports, it never
// cancels anything.
type Timer struct {
	cfg       TimerConfig
	now       func() time.Time
	gameStart time.Time
	turnStart time.Time
	ticks     int
}

// NewTimer creates a timer. now may be nil to use the wall clock.
func NewTimer(cfg TimerConfig, now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	t := &Timer{cfg: cfg, now: now}
	t.Start()
	return t
}

// Start resets game and turn clocks.
func (t *Timer) Start() {
	t.gameStart = t.now()
	t.turnStart = t.gameStart
	t.ticks = 0
}

// Tick ends the current turn and returns the stat of the new one.
func (t *Timer) Tick() TimerStat {
	t.ticks++
	t.turnStart = t.now()
	return t.Stat()
}

// Stat returns the current snapshot.
func (t *Timer) Stat() TimerStat {
	now := t.now()
	game := now.Sub(t.gameStart)
	turn := now.Sub(t.turnStart)

	alert := AlertNone
	switch {
	case t.cfg.TurnAlert > 0 && turn >= t.cfg.TurnAlert:
		alert = AlertTurn
	case t.cfg.TicksAlert > 0 && t.ticks >= t.cfg.TicksAlert:
		alert = AlertTicks
	case t.cfg.GameAlert > 0 && game >= t.cfg.GameAlert:
		alert = AlertGame
	}

	return TimerStat{
		GameSeconds: int(game.Seconds()),
		TurnSeconds: int(turn.Seconds()),
		Ticks:       t.ticks,
		Alert:       alert,
	}
}
