package cave

import "math"

// Snapshot contains the comparable game state, for determinism tests and
// headless runs. Uses primitive types only for stable serialization.
type Snapshot struct {
	Steps uint64
	Depth int
	Score int
	State string

	HeroHealth int // milli-units
	Bombs      int

	// Entity states (each entity is 5 ints: Kind, X, Y, VX, VY; positions
	// and velocities in milli-units)
	EntityCount int
	EntityData  []int

	ParticleCount int

	// Terrain (each cell is its block durability, 0 for empty)
	TerrainData []int
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	ents := g.world.Entities()
	entityData := make([]int, 0, len(ents)*5)
	for _, e := range ents {
		entityData = append(entityData,
			int(e.Kind),
			milli(e.Pos.X), milli(e.Pos.Y),
			milli(e.Vel.X), milli(e.Vel.Y))
	}

	t := g.world.Terrain()
	terrainData := make([]int, 0, t.Width()*t.Height())
	for y := 0; y < t.Height(); y++ {
		for x := 0; x < t.Width(); x++ {
			b, _ := t.Block(x, y)
			terrainData = append(terrainData, b.Durability)
		}
	}

	return Snapshot{
		Steps:         g.world.Steps(),
		Depth:         g.depth,
		Score:         g.hero.Score,
		State:         g.state,
		HeroHealth:    milli(g.hero.Health),
		Bombs:         g.hero.Bombs,
		EntityCount:   len(ents),
		EntityData:    entityData,
		ParticleCount: len(g.world.Particles()),
		TerrainData:   terrainData,
	}
}

func milli(v float64) int {
	return int(math.Round(v * 1000))
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Steps
	h = h*31 + uint64(snap.Depth)         //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Score)         //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.HeroHealth)    //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Bombs)         //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.EntityCount)   //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.ParticleCount) //#nosec G115 -- hash computation

	for _, c := range snap.State {
		h = h*31 + uint64(c) //#nosec G115 -- hash computation
	}

	for _, v := range snap.EntityData {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}

	for _, v := range snap.TerrainData {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}

	return h
}
