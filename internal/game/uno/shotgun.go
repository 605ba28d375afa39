package uno

import "math/rand"

// Chambers is the number of chambers of a revolver.
const Chambers = 8

// Shotgun is a revolver with one pre-rolled losing chamber. Each shot moves
// to the next chamber; reaching the losing one is the unlucky outcome.
type Shotgun struct {
	cur  int
	lose int
	rng  *rand.Rand
}

// NewShotgun creates a freshly loaded revolver.
func NewShotgun(rng *rand.Rand) *Shotgun {
	if rng == nil {
		rng = newRand()
	}
	s := &Shotgun{rng: rng}
	s.Reset()
	return s
}

// Reset rewinds to the first chamber and rolls a new losing one.
func (s *Shotgun) Reset() {
	s.cur = 0
	s.lose = s.rng.Intn(Chambers) + 1
}

// Shot fires the next chamber and reports whether it was the unlucky one.
func (s *Shotgun) Shot() bool {
	s.cur++
	return s.cur >= s.lose
}

// Fired is the number of chambers fired since the last reset.
func (s *Shotgun) Fired() int { return s.cur }
