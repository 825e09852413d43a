// Package terrain generates and maintains the destructible cave grid: a
// cellular-automaton generator, per-block metadata, and persistence.
package terrain

import (
	"errors"
	"fmt"
	"strings"
)

// Rule is the outcome of one neighbor count in a cellular-automaton step.
type Rule uint8

const (
	ruleUnset Rule = iota
	RuleDie        // become or stay empty
	RuleStay       // keep the current state
	RuleBoth       // become or stay solid
	RuleBirth      // empty cells become solid; solid cells keep their value
)

// ErrUnknownRule is returned when a rule table holds a value that is not a
// recognized rule.
var ErrUnknownRule = errors.New("terrain: unknown rule")

var ruleNames = map[Rule]string{
	RuleDie:   "die",
	RuleStay:  "stay",
	RuleBoth:  "both",
	RuleBirth: "birth",
}

// String returns the config name of the rule.
func (r Rule) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Rule(%d)", uint8(r))
}

// Valid reports whether r is a recognized rule.
func (r Rule) Valid() bool {
	_, ok := ruleNames[r]
	return ok
}

// ParseRule converts a config name into a Rule.
func ParseRule(s string) (Rule, error) {
	for r, name := range ruleNames {
		if strings.EqualFold(s, name) {
			return r, nil
		}
	}
	return ruleUnset, fmt.Errorf("%w %q", ErrUnknownRule, s)
}

// NeighborCounts is the number of entries a rule table needs: one for every
// possible count of solid neighbors, 0 through 8.
const NeighborCounts = 9

// Rules maps a solid-neighbor count to the rule applied to the cell.
type Rules []Rule

// Validate checks that the table has an entry for every neighbor count and
// that every entry is recognized.
func (rs Rules) Validate() error {
	if len(rs) != NeighborCounts {
		return fmt.Errorf("terrain: rule table has %d entries, need %d", len(rs), NeighborCounts)
	}
	for count, r := range rs {
		if !r.Valid() {
			return fmt.Errorf("%w %s for neighbor count %d", ErrUnknownRule, r, count)
		}
	}
	return nil
}

// ParseRules converts config names into a rule table.
func ParseRules(names []string) (Rules, error) {
	rs := make(Rules, len(names))
	for i, name := range names {
		r, err := ParseRule(name)
		if err != nil {
			return nil, fmt.Errorf("neighbor count %d: %w", i, err)
		}
		rs[i] = r
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return rs, nil
}

// Names returns the config names of the table entries.
func (rs Rules) Names() []string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.String()
	}
	return names
}

// Preset rule tables.
var (
	// CaveRules smooths noise into open caverns: sparse cells erode,
	// crowded cells fill in.
	CaveRules = Rules{RuleDie, RuleDie, RuleDie, RuleDie, RuleStay, RuleBoth, RuleBoth, RuleBoth, RuleBoth}

	// LifeRules is Conway's B3/S23.
	LifeRules = Rules{RuleDie, RuleDie, RuleStay, RuleBoth, RuleDie, RuleDie, RuleDie, RuleDie, RuleDie}

	// MazeRules is B3/S12345, which grows corridors.
	MazeRules = Rules{RuleDie, RuleStay, RuleStay, RuleBirth, RuleStay, RuleStay, RuleDie, RuleDie, RuleDie}
)

// PresetRules returns a copy of a named preset table.
func PresetRules(name string) (Rules, bool) {
	var rs Rules
	switch strings.ToLower(name) {
	case "cave":
		rs = CaveRules
	case "life":
		rs = LifeRules
	case "maze":
		rs = MazeRules
	default:
		return nil, false
	}
	return append(Rules(nil), rs...), true
}

// EdgePolicy decides how neighbors outside the grid are counted.
type EdgePolicy uint8

const (
	EdgeDead  EdgePolicy = iota // out-of-grid neighbors are empty
	EdgeAlive                   // out-of-grid neighbors are solid
	EdgeWrap                    // the grid is a torus
)

// String returns the config name of the policy.
func (e EdgePolicy) String() string {
	switch e {
	case EdgeDead:
		return "dead"
	case EdgeAlive:
		return "alive"
	case EdgeWrap:
		return "wrap"
	default:
		return fmt.Sprintf("EdgePolicy(%d)", uint8(e))
	}
}

// ParseEdgePolicy converts a config name into an EdgePolicy.
func ParseEdgePolicy(s string) (EdgePolicy, error) {
	switch strings.ToLower(s) {
	case "dead", "":
		return EdgeDead, nil
	case "alive":
		return EdgeAlive, nil
	case "wrap":
		return EdgeWrap, nil
	}
	return EdgeDead, fmt.Errorf("terrain: unknown edge policy %q", s)
}
