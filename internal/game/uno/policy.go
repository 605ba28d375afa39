package uno

import "math/rand"

// ActionKind identifies a move a player can make.
type ActionKind int

const (
	ActPlay ActionKind = iota
	ActTake
	ActPass
	ActChooseColor
	ActTwist
	ActShoot
	ActCallBluff
)

var actionNames = [...]string{"play", "take", "pass", "color", "twist", "shoot", "bluff"}

func (a ActionKind) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Action is one legal move of the current player.
type Action struct {
	Kind   ActionKind
	Index  int    // hand index for ActPlay
	Color  Color  // for ActChooseColor
	Target string // for ActTwist, empty passes
}

// Actions lists the legal moves of the current player.
func (g *Game) Actions() []Action {
	if !g.started {
		return nil
	}
	p := g.players.Current()
	var acts []Action

	switch g.state {
	case StateChooseColor:
		for _, c := range Colors {
			acts = append(acts, Action{Kind: ActChooseColor, Color: c})
		}
		return acts
	case StateTwistHand:
		for _, o := range g.players.All() {
			if o.ID != p.ID {
				acts = append(acts, Action{Kind: ActTwist, Target: o.ID})
			}
		}
		if g.rules.TwistHandPass() {
			acts = append(acts, Action{Kind: ActTwist})
		}
		return acts
	case StateShotgun:
		if g.deck.Available() >= g.takeCounter {
			acts = append(acts, Action{Kind: ActShoot}, Action{Kind: ActTake})
		}
		return acts
	}

	for i, c := range p.hand {
		if g.covers(p, c) {
			acts = append(acts, Action{Kind: ActPlay, Index: i})
		}
	}
	switch g.state {
	case StateNext:
		if g.deck.Available() >= max(g.takeCounter, 1) {
			acts = append(acts, Action{Kind: ActTake})
		}
		if g.bluff.armed && g.deck.Available() >= g.takeCounter+2 {
			acts = append(acts, Action{Kind: ActCallBluff})
		}
	case StateTake, StateContinue:
		acts = append(acts, Action{Kind: ActPass})
	}
	return acts
}

// Apply performs a for the current player.
func (g *Game) Apply(a Action) error {
	p := g.players.Current()
	if p == nil {
		return ErrNotStarted
	}
	switch a.Kind {
	case ActPlay:
		return g.Play(p.ID, a.Index)
	case ActTake:
		return g.Take(p.ID)
	case ActPass:
		return g.Pass(p.ID)
	case ActChooseColor:
		return g.ChooseColor(p.ID, a.Color)
	case ActTwist:
		return g.TwistTo(p.ID, a.Target)
	case ActShoot:
		_, err := g.Shoot(p.ID)
		return err
	case ActCallBluff:
		return g.CallBluff(p.ID)
	}
	return ErrIllegalAction
}

// RandomPolicy plays uniformly random legal moves.
type RandomPolicy struct {
	rng *rand.Rand
}

// NewRandomPolicy returns a policy drawing from rng, or a clock-seeded source.
func NewRandomPolicy(rng *rand.Rand) *RandomPolicy {
	if rng == nil {
		rng = newRand()
	}
	return &RandomPolicy{rng: rng}
}

// Choose picks one of the legal moves. ok is false when there is none.
func (rp *RandomPolicy) Choose(g *Game) (a Action, ok bool) {
	acts := g.Actions()
	if len(acts) == 0 {
		return Action{}, false
	}
	return acts[rp.rng.Intn(len(acts))], true
}

// Step chooses and applies one move. When no move is legal the turn is
// skipped.
func (rp *RandomPolicy) Step(g *Game) error {
	a, ok := rp.Choose(g)
	if !ok {
		return g.ForceSkip()
	}
	return g.Apply(a)
}
