package terrain

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrMismatch is returned when a grid and its block field disagree.
var ErrMismatch = errors.New("terrain: block field does not match grid")

// Terrain pairs the solidity grid with its block metadata. A cell has a
// block exactly when the grid marks it solid.
type Terrain struct {
	Grid   *Grid
	Blocks *BlockField
}

// New wraps a grid and block field after checking they agree.
func New(g *Grid, f *BlockField) (*Terrain, error) {
	t := &Terrain{Grid: g, Blocks: f}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// FromGrid wraps a grid giving every solid cell the same durability.
func FromGrid(g *Grid, durability int) *Terrain {
	f := NewBlockField(g.W, g.H)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if g.Solid(x, y) {
				f.Set(x, y, Block{Durability: durability})
			}
		}
	}
	return &Terrain{Grid: g, Blocks: f}
}

// Build generates a grid and derives its blocks from the same rng.
func Build(p Params, bp BlockParams, rng *rand.Rand) (*Terrain, error) {
	g, err := Generate(p, rng)
	if err != nil {
		return nil, err
	}
	f, err := DeriveBlocks(g, bp, rng)
	if err != nil {
		return nil, err
	}
	return &Terrain{Grid: g, Blocks: f}, nil
}

// Width returns the grid width in cells.
func (t *Terrain) Width() int { return t.Grid.W }

// Height returns the grid height in cells.
func (t *Terrain) Height() int { return t.Grid.H }

// InBounds reports whether (x, y) is inside the grid.
func (t *Terrain) InBounds(x, y int) bool {
	return t.Grid.InBounds(x, y)
}

// Solid reports whether the in-bounds cell (x, y) is solid. Out-of-bounds
// cells are reported as empty here; the collision layer decides how to treat
// them.
func (t *Terrain) Solid(x, y int) bool {
	return t.Grid.Solid(x, y)
}

// Block returns the block at (x, y).
func (t *Terrain) Block(x, y int) (Block, bool) {
	return t.Blocks.At(x, y)
}

// Damage removes durability from the block at (x, y). When durability runs
// out the cell becomes empty and the block is removed; the removed block is
// returned with destroyed set so callers can release its collectible.
func (t *Terrain) Damage(x, y, amount int) (b Block, destroyed bool) {
	b, ok := t.Blocks.At(x, y)
	if !ok || b.Indestructible() || amount <= 0 {
		return b, false
	}

	b.Durability -= amount
	if b.Durability > 0 {
		t.Blocks.Set(x, y, b)
		return b, false
	}

	t.Blocks.Set(x, y, Block{})
	t.Grid.Set(x, y, 0)
	b.Durability = 0
	return b, true
}

// Carve empties the cell at (x, y) regardless of durability.
func (t *Terrain) Carve(x, y int) {
	if !t.InBounds(x, y) {
		return
	}
	t.Blocks.Set(x, y, Block{})
	t.Grid.Set(x, y, 0)
}

// Validate checks dimensions and that the block field mirrors solidity.
func (t *Terrain) Validate() error {
	if t.Grid == nil || t.Blocks == nil {
		return fmt.Errorf("%w: missing grid or blocks", ErrMismatch)
	}
	if err := t.Grid.validate(); err != nil {
		return err
	}
	if t.Blocks.W != t.Grid.W || t.Blocks.H != t.Grid.H || len(t.Blocks.blocks) != len(t.Grid.Cells) {
		return fmt.Errorf("%w: grid %dx%d, blocks %dx%d", ErrMismatch, t.Grid.W, t.Grid.H, t.Blocks.W, t.Blocks.H)
	}
	for i, c := range t.Grid.Cells {
		b := t.Blocks.blocks[i]
		if (c != 0) != b.Present() {
			return fmt.Errorf("%w at (%d, %d)", ErrMismatch, i%t.Grid.W, i/t.Grid.W)
		}
		if b.Durability < Infinite {
			return fmt.Errorf("terrain: invalid durability %d at (%d, %d)", b.Durability, i%t.Grid.W, i/t.Grid.W)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (t *Terrain) Clone() *Terrain {
	return &Terrain{Grid: t.Grid.Clone(), Blocks: t.Blocks.Clone()}
}
