package uno

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRule is returned when a rule key is not registered.
var ErrUnknownRule = errors.New("unknown rule")

// Rule is a house rule. Its value is the bit position in a RuleSet and must
// never be reordered.
type Rule uint

const (
	RuleTwistHand Rule = iota
	RuleRotateCards
	RuleTakeUntilCover
	RuleSingleShotgun
	RuleShotgun
	RuleAutoChooseColor
	RuleChooseRandomColor
	RuleRandomColor
	RuleSideEffect
	RuleIntervention
	RuleTwistHandPass
	RuleOneWinner
	RuleAutoSkip
	RuleSpecialWild
	RuleDeferredTake

	ruleCount
)

var ruleKeys = [ruleCount]string{
	RuleTwistHand:         "twist_hand",
	RuleRotateCards:       "rotate_cards",
	RuleTakeUntilCover:    "take_until_cover",
	RuleSingleShotgun:     "single_shotgun",
	RuleShotgun:           "shotgun",
	RuleAutoChooseColor:   "auto_choose_color",
	RuleChooseRandomColor: "choose_random_color",
	RuleRandomColor:       "random_color",
	RuleSideEffect:        "side_effect",
	RuleIntervention:      "intervention",
	RuleTwistHandPass:     "twist_hand_pass",
	RuleOneWinner:         "one_winner",
	RuleAutoSkip:          "auto_skip",
	RuleSpecialWild:       "special_wild",
	RuleDeferredTake:      "deferred_take",
}

// Rules lists every rule in bit order.
func Rules() []Rule {
	out := make([]Rule, 0, ruleCount)
	for r := Rule(0); r < ruleCount; r++ {
		out = append(out, r)
	}
	return out
}

// String returns the stable key of the rule.
func (r Rule) String() string {
	if r < ruleCount {
		return ruleKeys[r]
	}
	return fmt.Sprintf("rule(%d)", uint(r))
}

// ParseRule resolves a rule key.
func ParseRule(key string) (Rule, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for r, k := range ruleKeys {
		if k == key {
			return Rule(r), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRule, key)
}

// RuleSet is a bitmask of enabled rules.
type RuleSet uint32

// ParseRuleSet builds a set from rule keys.
func ParseRuleSet(keys []string) (RuleSet, error) {
	var rs RuleSet
	for _, key := range keys {
		r, err := ParseRule(key)
		if err != nil {
			return 0, err
		}
		rs.Set(r)
	}
	return rs, nil
}

// Status reports whether r is enabled.
func (rs RuleSet) Status(r Rule) bool { return rs&(1<<r) != 0 }

// Set enables r.
func (rs *RuleSet) Set(r Rule) { *rs |= 1 << r }

// Reset disables r.
func (rs *RuleSet) Reset(r Rule) { *rs &^= 1 << r }

// Toggle flips r and returns its new status.
func (rs *RuleSet) Toggle(r Rule) bool {
	*rs ^= 1 << r
	return rs.Status(r)
}

// RuleStatus is one entry of RuleSet.Iter.
type RuleStatus struct {
	Rule    Rule
	Name    string
	Enabled bool
}

// Iter lists every rule with its status in bit order.
func (rs RuleSet) Iter() []RuleStatus {
	out := make([]RuleStatus, 0, ruleCount)
	for _, r := range Rules() {
		out = append(out, RuleStatus{Rule: r, Name: r.String(), Enabled: rs.Status(r)})
	}
	return out
}

// Enabled returns the keys of the enabled rules.
func (rs RuleSet) Enabled() []string {
	var keys []string
	for _, r := range Rules() {
		if rs.Status(r) {
			keys = append(keys, r.String())
		}
	}
	return keys
}

func (rs RuleSet) TwistHand() bool         { return rs.Status(RuleTwistHand) }
func (rs RuleSet) RotateCards() bool       { return rs.Status(RuleRotateCards) }
func (rs RuleSet) TakeUntilCover() bool    { return rs.Status(RuleTakeUntilCover) }
func (rs RuleSet) SingleShotgun() bool     { return rs.Status(RuleSingleShotgun) }
func (rs RuleSet) Shotgun() bool           { return rs.Status(RuleShotgun) }
func (rs RuleSet) AutoChooseColor() bool   { return rs.Status(RuleAutoChooseColor) }
func (rs RuleSet) ChooseRandomColor() bool { return rs.Status(RuleChooseRandomColor) }
func (rs RuleSet) RandomColor() bool       { return rs.Status(RuleRandomColor) }
func (rs RuleSet) SideEffect() bool        { return rs.Status(RuleSideEffect) }
func (rs RuleSet) Intervention() bool      { return rs.Status(RuleIntervention) }
func (rs RuleSet) TwistHandPass() bool     { return rs.Status(RuleTwistHandPass) }
func (rs RuleSet) OneWinner() bool         { return rs.Status(RuleOneWinner) }
func (rs RuleSet) AutoSkip() bool          { return rs.Status(RuleAutoSkip) }
func (rs RuleSet) SpecialWild() bool       { return rs.Status(RuleSpecialWild) }
func (rs RuleSet) DeferredTake() bool      { return rs.Status(RuleDeferredTake) }

// AnyShotgun reports whether either shotgun variant is enabled.
func (rs RuleSet) AnyShotgun() bool { return rs.Shotgun() || rs.SingleShotgun() }
