package terrain

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/cavern/internal/chance"
)

// Infinite durability marks an indestructible block.
const Infinite = -1

// CollectibleKind is the type of reward embedded in a block.
type CollectibleKind uint8

const (
	CollectibleNone CollectibleKind = iota
	CollectibleGold
	CollectibleGem
	CollectibleRelic
)

// String returns the name of the collectible.
func (k CollectibleKind) String() string {
	switch k {
	case CollectibleNone:
		return "none"
	case CollectibleGold:
		return "gold"
	case CollectibleGem:
		return "gem"
	case CollectibleRelic:
		return "relic"
	default:
		return fmt.Sprintf("CollectibleKind(%d)", uint8(k))
	}
}

// Block is the metadata of one solid cell. A zero Durability means no block.
type Block struct {
	Durability  int
	Collectible CollectibleKind
	Reward      int
}

// Present reports whether the block exists.
func (b Block) Present() bool {
	return b.Durability != 0
}

// Indestructible reports whether the block can never be dug out.
func (b Block) Indestructible() bool {
	return b.Durability == Infinite
}

// BlockField holds one Block per grid cell.
type BlockField struct {
	W, H   int
	blocks []Block
}

// NewBlockField allocates an empty field.
func NewBlockField(w, h int) *BlockField {
	return &BlockField{W: w, H: h, blocks: make([]Block, w*h)}
}

// At returns the block at (x, y) and whether one is present.
func (f *BlockField) At(x, y int) (Block, bool) {
	if x < 0 || x >= f.W || y < 0 || y >= f.H {
		return Block{}, false
	}
	b := f.blocks[y*f.W+x]
	return b, b.Present()
}

// Set stores a block. Storing a zero block removes it.
func (f *BlockField) Set(x, y int, b Block) {
	if x < 0 || x >= f.W || y < 0 || y >= f.H {
		return
	}
	f.blocks[y*f.W+x] = b
}

// Clone returns a deep copy.
func (f *BlockField) Clone() *BlockField {
	c := NewBlockField(f.W, f.H)
	copy(c.blocks, f.blocks)
	return c
}

// BlockParams configures how block metadata is derived from a grid.
type BlockParams struct {
	MinDurability        int
	MaxDurability        int
	IndestructibleChance float64
	CollectibleChance    float64
	GoldReward           int
	GemReward            int
	RelicReward          int
}

// DefaultBlockParams returns the standard block mix.
func DefaultBlockParams() BlockParams {
	return BlockParams{
		MinDurability:        1,
		MaxDurability:        3,
		IndestructibleChance: 0.04,
		CollectibleChance:    0.03,
		GoldReward:           10,
		GemReward:            25,
		RelicReward:          100,
	}
}

func (p BlockParams) collectibles() *chance.Table[CollectibleKind] {
	t := chance.New[CollectibleKind]()
	//nolint:errcheck // constant positive weights
	t.Add(CollectibleGold, 6)
	//nolint:errcheck
	t.Add(CollectibleGem, 3)
	//nolint:errcheck
	t.Add(CollectibleRelic, 1)
	return t
}

func (p BlockParams) reward(k CollectibleKind) int {
	switch k {
	case CollectibleGold:
		return p.GoldReward
	case CollectibleGem:
		return p.GemReward
	case CollectibleRelic:
		return p.RelicReward
	}
	return 0
}

// DeriveBlocks builds the block field for a grid. Solid cells on the grid
// edge are always indestructible so the world stays closed.
func DeriveBlocks(g *Grid, p BlockParams, rng *rand.Rand) (*BlockField, error) {
	if p.MinDurability < 1 || p.MaxDurability < p.MinDurability {
		return nil, fmt.Errorf("terrain: invalid durability range [%d, %d]", p.MinDurability, p.MaxDurability)
	}

	table := p.collectibles()
	f := NewBlockField(g.W, g.H)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if !g.Solid(x, y) {
				continue
			}

			edge := x == 0 || y == 0 || x == g.W-1 || y == g.H-1
			var b Block
			switch {
			case edge || rng.Float64() < p.IndestructibleChance:
				b.Durability = Infinite
			default:
				b.Durability = p.MinDurability + rng.Intn(p.MaxDurability-p.MinDurability+1)
				if rng.Float64() < p.CollectibleChance {
					kind, err := table.Pick(rng)
					if err != nil {
						return nil, err
					}
					b.Collectible = kind
					b.Reward = p.reward(kind)
				}
			}
			f.Set(x, y, b)
		}
	}
	return f, nil
}
