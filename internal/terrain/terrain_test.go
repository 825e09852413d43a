package terrain

import (
	"errors"
	"math/rand"
	"testing"
)

func TestGenerateDeterminism(t *testing.T) {
	for _, edge := range []EdgePolicy{EdgeDead, EdgeAlive, EdgeWrap} {
		p := DefaultParams()
		p.Width, p.Height = 40, 30
		p.Edge = edge

		g1, err := Generate(p, rand.New(rand.NewSource(7)))
		if err != nil {
			t.Fatalf("Generate(%s) error: %v", edge, err)
		}
		g2, err := Generate(p, rand.New(rand.NewSource(7)))
		if err != nil {
			t.Fatalf("Generate(%s) error: %v", edge, err)
		}
		if !g1.Equal(g2) {
			t.Errorf("Generate(%s) produced different grids for the same seed", edge)
		}

		g3, _ := Generate(p, rand.New(rand.NewSource(8)))
		if g1.Equal(g3) {
			t.Errorf("Generate(%s) produced identical grids for different seeds", edge)
		}
	}
}

func TestGenerateBorder(t *testing.T) {
	p := DefaultParams()
	p.Width, p.Height = 20, 12
	p.FillProbability = 0
	p.Generations = 0
	g, err := Generate(p, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			edge := x == 0 || y == 0 || x == g.W-1 || y == g.H-1
			if g.Solid(x, y) != edge {
				t.Errorf("cell (%d,%d) solid = %v, expected %v", x, y, g.Solid(x, y), edge)
			}
		}
	}
}

func TestStepEveryNeighborCount(t *testing.T) {
	// A 3x3 grid with dead edges lets the center see every count 0..8.
	for _, preset := range []string{"cave", "life", "maze"} {
		rules, ok := PresetRules(preset)
		if !ok {
			t.Fatalf("PresetRules(%q) missing", preset)
		}
		for mask := 0; mask < 1<<9; mask++ {
			g := NewGrid(3, 3)
			for i := range g.Cells {
				if mask&(1<<i) != 0 {
					g.Cells[i] = 1
				}
			}
			if _, err := Step(g, rules, EdgeDead); err != nil {
				t.Fatalf("Step(%s, mask=%d) error: %v", preset, mask, err)
			}
		}
	}
}

func TestStepRules(t *testing.T) {
	tests := []struct {
		name     string
		rule     Rule
		center   uint8
		expected uint8
	}{
		{"die empties solid", RuleDie, 1, 0},
		{"die keeps empty", RuleDie, 0, 0},
		{"stay keeps solid", RuleStay, 1, 1},
		{"stay keeps empty", RuleStay, 0, 0},
		{"both fills empty", RuleBoth, 0, 1},
		{"both keeps solid", RuleBoth, 1, 1},
		{"birth fills empty", RuleBirth, 0, 1},
		{"birth keeps solid", RuleBirth, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := make(Rules, NeighborCounts)
			for i := range rules {
				rules[i] = tt.rule
			}
			g := NewGrid(1, 1)
			g.Cells[0] = tt.center
			next, err := Step(g, rules, EdgeDead)
			if err != nil {
				t.Fatal(err)
			}
			if next.Cells[0] != tt.expected {
				t.Errorf("Step() center = %d, expected %d", next.Cells[0], tt.expected)
			}
			if g.Cells[0] != tt.center {
				t.Error("Step() modified its input grid")
			}
		})
	}
}

func TestBirthNeverEmpties(t *testing.T) {
	rules := make(Rules, NeighborCounts)
	for i := range rules {
		rules[i] = RuleBirth
	}
	g := ParseGrid([]string{
		"#.#.",
		"..##",
		"#...",
	})
	next, err := Step(g, rules, EdgeWrap)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range g.Cells {
		if c != 0 && next.Cells[i] == 0 {
			t.Errorf("birth rule emptied cell %d", i)
		}
	}
}

func TestStepUnknownRule(t *testing.T) {
	rules := append(Rules(nil), CaveRules...)
	rules[4] = Rule(42)

	_, err := Step(NewGrid(4, 4), rules, EdgeDead)
	if !errors.Is(err, ErrUnknownRule) {
		t.Errorf("Step() error = %v, expected ErrUnknownRule", err)
	}

	p := DefaultParams()
	p.Rules = rules
	if _, err := Generate(p, rand.New(rand.NewSource(1))); !errors.Is(err, ErrUnknownRule) {
		t.Errorf("Generate() error = %v, expected ErrUnknownRule", err)
	}

	if _, err := Step(NewGrid(4, 4), CaveRules[:8], EdgeDead); err == nil {
		t.Error("Step() with 8 rules should fail")
	}
}

func TestParseRules(t *testing.T) {
	rs, err := ParseRules([]string{"die", "die", "STAY", "both", "die", "die", "die", "die", "birth"})
	if err != nil {
		t.Fatalf("ParseRules() error: %v", err)
	}
	if rs[2] != RuleStay || rs[8] != RuleBirth {
		t.Errorf("ParseRules() = %v", rs.Names())
	}

	if _, err := ParseRules([]string{"die", "grow"}); !errors.Is(err, ErrUnknownRule) {
		t.Errorf("ParseRules(grow) error = %v, expected ErrUnknownRule", err)
	}
	if _, err := ParseRules([]string{"die"}); err == nil {
		t.Error("ParseRules() with one entry should fail")
	}
}

func TestEdgePolicies(t *testing.T) {
	// Single solid cell in the corner of a 4x4 grid.
	g := NewGrid(4, 4)
	g.Set(0, 0, 1)

	tests := []struct {
		edge     EdgePolicy
		x, y     int
		expected int
	}{
		{EdgeDead, 0, 0, 0},
		{EdgeAlive, 0, 0, 5},
		{EdgeWrap, 3, 3, 1},
		{EdgeWrap, 0, 3, 1},
		{EdgeDead, 3, 3, 0},
		{EdgeAlive, 3, 3, 5},
		{EdgeDead, 1, 1, 1},
	}
	for _, tt := range tests {
		if got := countNeighbors(g, tt.x, tt.y, tt.edge); got != tt.expected {
			t.Errorf("countNeighbors(%d,%d,%s) = %d, expected %d", tt.x, tt.y, tt.edge, got, tt.expected)
		}
	}
}

func TestParseEdgePolicy(t *testing.T) {
	for _, e := range []EdgePolicy{EdgeDead, EdgeAlive, EdgeWrap} {
		got, err := ParseEdgePolicy(e.String())
		if err != nil || got != e {
			t.Errorf("ParseEdgePolicy(%q) = %v, %v", e.String(), got, err)
		}
	}
	if _, err := ParseEdgePolicy("mirror"); err == nil {
		t.Error("ParseEdgePolicy(mirror) should fail")
	}
}

func TestFindEmptyCells(t *testing.T) {
	g := ParseGrid([]string{
		"###",
		"#.#",
		"#..",
	})
	cells := g.FindEmptyCells()
	expected := []Cell{{1, 1}, {1, 2}, {2, 2}}
	if len(cells) != len(expected) {
		t.Fatalf("FindEmptyCells() = %v, expected %v", cells, expected)
	}
	for i := range expected {
		if cells[i] != expected[i] {
			t.Errorf("FindEmptyCells()[%d] = %v, expected %v", i, cells[i], expected[i])
		}
	}

	Shuffle(cells, rand.New(rand.NewSource(3)))
	seen := map[Cell]bool{}
	for _, c := range cells {
		seen[c] = true
	}
	if len(seen) != len(expected) {
		t.Errorf("Shuffle() lost or duplicated cells: %v", cells)
	}
}

func TestBuildKeepsInvariant(t *testing.T) {
	p := DefaultParams()
	p.Width, p.Height = 48, 32
	tr, err := Build(p, DefaultBlockParams(), rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	for x := 0; x < tr.Width(); x++ {
		if b, ok := tr.Block(x, 0); !ok || !b.Indestructible() {
			t.Errorf("border block (%d,0) = %+v, expected indestructible", x, b)
		}
	}
}

func TestDamage(t *testing.T) {
	g := ParseGrid([]string{
		"###",
		"#.#",
		"###",
	})
	tr := FromGrid(g, 2)
	tr.Blocks.Set(0, 0, Block{Durability: Infinite})
	tr.Blocks.Set(1, 0, Block{Durability: 2, Collectible: CollectibleGem, Reward: 25})

	if _, destroyed := tr.Damage(1, 0, 1); destroyed {
		t.Error("Damage(1) on durability 2 should not destroy")
	}
	if b, _ := tr.Block(1, 0); b.Durability != 1 {
		t.Errorf("durability = %d, expected 1", b.Durability)
	}

	b, destroyed := tr.Damage(1, 0, 5)
	if !destroyed {
		t.Fatal("Damage(5) on durability 1 should destroy")
	}
	if b.Collectible != CollectibleGem || b.Reward != 25 {
		t.Errorf("destroyed block = %+v, expected gem worth 25", b)
	}
	if tr.Solid(1, 0) {
		t.Error("cell should be empty after destruction")
	}
	if _, ok := tr.Block(1, 0); ok {
		t.Error("block should be removed after destruction")
	}

	if _, destroyed := tr.Damage(0, 0, 1000); destroyed || !tr.Solid(0, 0) {
		t.Error("indestructible block was destroyed")
	}
	if _, destroyed := tr.Damage(1, 1, 1); destroyed {
		t.Error("damaging an empty cell should do nothing")
	}
	if err := tr.Validate(); err != nil {
		t.Errorf("Validate() after damage: %v", err)
	}

	tr.Carve(0, 0)
	tr.Carve(-1, 5)
	if tr.Solid(0, 0) {
		t.Error("Carve() should empty an indestructible cell")
	}
	if err := tr.Validate(); err != nil {
		t.Errorf("Validate() after carve: %v", err)
	}
}

func TestValidateMismatch(t *testing.T) {
	g := ParseGrid([]string{"#.", ".#"})
	f := NewBlockField(2, 2)
	f.Set(0, 0, Block{Durability: 1})
	if _, err := New(g, f); !errors.Is(err, ErrMismatch) {
		t.Errorf("New() error = %v, expected ErrMismatch", err)
	}
	if _, err := New(g, NewBlockField(3, 2)); !errors.Is(err, ErrMismatch) {
		t.Errorf("New() with wrong size error = %v, expected ErrMismatch", err)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	p := DefaultParams()
	p.Width, p.Height = 32, 24
	bp := DefaultBlockParams()
	bp.CollectibleChance = 0.5
	tr, err := Build(p, bp, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatal(err)
	}
	tr.Damage(5, 5, 1)

	data, err := Encode(tr)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if !got.Grid.Equal(tr.Grid) {
		t.Error("decoded grid differs")
	}
	for y := 0; y < tr.Height(); y++ {
		for x := 0; x < tr.Width(); x++ {
			a, _ := tr.Block(x, y)
			b, _ := got.Block(x, y)
			if a != b {
				t.Fatalf("block (%d,%d) = %+v, expected %+v", x, y, b, a)
			}
		}
	}
}

func TestDecodeRejectsCorrupt(t *testing.T) {
	tr := FromGrid(ParseGrid([]string{"##", "#."}), 1)
	data, err := Encode(tr)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(data[:len(data)/2]); err == nil {
		t.Error("Decode() of truncated data should fail")
	}
	if _, err := Decode([]byte{0xc0}); err == nil {
		t.Error("Decode() of nil snapshot should fail")
	}
}
