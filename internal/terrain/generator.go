package terrain

import (
	"fmt"
	"math/rand"
)

// Params configures cellular-automaton generation.
type Params struct {
	Width, Height   int
	Rules           Rules
	Edge            EdgePolicy
	FillProbability float64 // chance each cell starts solid
	Generations     int
	Border          int // thickness of the solid frame forced after generation
}

// DefaultParams returns a cave-shaped configuration.
func DefaultParams() Params {
	return Params{
		Width:           96,
		Height:          64,
		Rules:           append(Rules(nil), CaveRules...),
		Edge:            EdgeAlive,
		FillProbability: 0.45,
		Generations:     5,
		Border:          1,
	}
}

// Validate checks the parameters before any random draws are made.
func (p Params) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("terrain: invalid size %dx%d", p.Width, p.Height)
	}
	if p.FillProbability < 0 || p.FillProbability > 1 {
		return fmt.Errorf("terrain: fill probability %f out of [0, 1]", p.FillProbability)
	}
	if p.Generations < 0 {
		return fmt.Errorf("terrain: negative generation count %d", p.Generations)
	}
	if p.Border < 0 {
		return fmt.Errorf("terrain: negative border %d", p.Border)
	}
	return p.Rules.Validate()
}

// Generate seeds a grid with random fill and runs the configured number of
// automaton generations. For a fixed rng state and parameters the result is
// always the same.
func Generate(p Params, rng *rand.Rand) (*Grid, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	g := NewGrid(p.Width, p.Height)
	for i := range g.Cells {
		if rng.Float64() < p.FillProbability {
			g.Cells[i] = 1
		}
	}

	for gen := 0; gen < p.Generations; gen++ {
		next, err := Step(g, p.Rules, p.Edge)
		if err != nil {
			return nil, fmt.Errorf("generation %d: %w", gen, err)
		}
		g = next
	}

	applyBorder(g, p.Border)
	return g, nil
}

// Step applies one automaton generation and returns the new grid. The input
// grid is not modified.
func Step(g *Grid, rules Rules, edge EdgePolicy) (*Grid, error) {
	if len(rules) != NeighborCounts {
		return nil, fmt.Errorf("terrain: rule table has %d entries, need %d", len(rules), NeighborCounts)
	}

	next := NewGrid(g.W, g.H)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			n := countNeighbors(g, x, y, edge)
			cur := g.Cells[y*g.W+x]

			var v uint8
			switch rules[n] {
			case RuleDie:
				v = 0
			case RuleStay:
				v = cur
			case RuleBoth:
				v = 1
			case RuleBirth:
				v = cur
				if v == 0 {
					v = 1
				}
			default:
				return nil, fmt.Errorf("%w %s for neighbor count %d", ErrUnknownRule, rules[n], n)
			}
			next.Cells[y*g.W+x] = v
		}
	}
	return next, nil
}

// countNeighbors counts solid cells among the 8 neighbors of (x, y).
func countNeighbors(g *Grid, x, y int, edge EdgePolicy) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if !g.InBounds(nx, ny) {
				switch edge {
				case EdgeAlive:
					n++
					continue
				case EdgeWrap:
					nx, ny = mod(nx, g.W), mod(ny, g.H)
				default:
					continue
				}
			}
			if g.Cells[ny*g.W+nx] != 0 {
				n++
			}
		}
	}
	return n
}

// mod is the true modulus: the result has the sign of m.
func mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

func applyBorder(g *Grid, thickness int) {
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if x < thickness || y < thickness || x >= g.W-thickness || y >= g.H-thickness {
				if g.Cells[y*g.W+x] == 0 {
					g.Cells[y*g.W+x] = 1
				}
			}
		}
	}
}
