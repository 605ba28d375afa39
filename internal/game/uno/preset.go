package uno

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
)

// Group is a batch of identical cards repeated for each listed color.
type Group struct {
	Kind   Kind
	Value  int
	Colors []Color
	Count  int
}

// Preset describes the composition of a deck.
type Preset struct {
	Name        string
	Description string
	Groups      []Group
}

// Cards materialises the preset into fresh card instances.
func (p *Preset) Cards() []*Card {
	var cards []*Card
	for _, g := range p.Groups {
		for _, color := range g.Colors {
			for i := 0; i < g.Count; i++ {
				cards = append(cards, NewCard(color, g.Kind, g.Value))
			}
		}
	}
	return cards
}

// Size is the number of cards the preset produces.
func (p *Preset) Size() int {
	n := 0
	for _, g := range p.Groups {
		n += g.Count * len(g.Colors)
	}
	return n
}

// NewDeck materialises the preset into a deck.
func (p *Preset) NewDeck(rng *rand.Rand) *Deck {
	return NewDeck(p.Cards(), rng)
}

func numberGroups(from, to, count int) []Group {
	var groups []Group
	for v := from; v <= to; v++ {
		groups = append(groups, Group{Kind: KindNumber, Value: v, Colors: Colors, Count: count})
	}
	return groups
}

func black(kind Kind, count int) Group {
	return Group{Kind: kind, Colors: []Color{Black}, Count: count}
}

// Classic is the standard 108 card deck.
var Classic = &Preset{
	Name:        "classic",
	Description: "Standard deck: 0-9, skip, reverse, +2 in four colors plus 4 wild and 4 wild +4.",
	Groups: append(append([]Group{
		{Kind: KindNumber, Value: 0, Colors: Colors, Count: 1},
	}, numberGroups(1, 9, 2)...),
		Group{Kind: KindTurn, Value: 1, Colors: Colors, Count: 2},
		Group{Kind: KindReverse, Colors: Colors, Count: 2},
		Group{Kind: KindTake, Value: 2, Colors: Colors, Count: 2},
		black(KindChooseColor, 4),
		black(KindTakeFour, 4),
	),
}

// Wild trades half of the numbers for twice the action cards.
var Wild = &Preset{
	Name:        "wild",
	Description: "Action heavy deck: one of each number, doubled skips, reverses, +2 and wilds.",
	Groups: append(numberGroups(0, 9, 1),
		Group{Kind: KindTurn, Value: 1, Colors: Colors, Count: 4},
		Group{Kind: KindTurn, Value: 2, Colors: Colors, Count: 1},
		Group{Kind: KindReverse, Colors: Colors, Count: 4},
		Group{Kind: KindTake, Value: 2, Colors: Colors, Count: 4},
		black(KindChooseColor, 8),
		black(KindTakeFour, 8),
	),
}

// PresetRegistry looks presets up by name. It is safe for concurrent use.
type PresetRegistry struct {
	presets map[string]*Preset
	mu      sync.RWMutex
}

// NewPresetRegistry creates an empty registry.
func NewPresetRegistry() *PresetRegistry {
	return &PresetRegistry{
		presets: make(map[string]*Preset),
	}
}

// Register adds a preset, replacing one with the same name.
func (r *PresetRegistry) Register(p *Preset) error {
	if p == nil {
		return fmt.Errorf("cannot register nil preset")
	}
	if p.Name == "" {
		return fmt.Errorf("preset name cannot be empty")
	}
	if p.Size() == 0 {
		return fmt.Errorf("preset %q has no cards", p.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.presets[p.Name] = p
	return nil
}

// Get retrieves a preset by name.
func (r *PresetRegistry) Get(name string) (*Preset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p, nil
}

// Names returns the registered names in sorted order.
func (r *PresetRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered presets.
func (r *PresetRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.presets)
}

// Unregister removes a preset by name and reports whether it existed.
func (r *PresetRegistry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.presets[name]; ok {
		delete(r.presets, name)
		return true
	}
	return false
}

// DefaultPresets returns a registry holding the built-in presets.
func DefaultPresets() *PresetRegistry {
	r := NewPresetRegistry()
	_ = r.Register(Classic)
	_ = r.Register(Wild)
	return r
}
