// Package cave implements the cave arcade game: a hero digging and
// shooting through procedurally generated caves, built on the sim world
// and driven by the fixed-step scheduler.
package cave

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cavern/internal/config"
	"github.com/vovakirdan/cavern/internal/core"
	"github.com/vovakirdan/cavern/internal/loop"
	"github.com/vovakirdan/cavern/internal/registry"
	"github.com/vovakirdan/cavern/internal/sim"
	"github.com/vovakirdan/cavern/internal/terrain"
)

// GameState constants
const (
	StatePlaying  = "playing"
	StatePaused   = "paused"
	StateGameOver = "gameover"
)

const (
	minSpawnDistance = 8.0 // tiles between the hero and any enemy at level start
	cellsPerBoulder  = 150 // open cells per boulder
	descendHeal      = 0.25
)

func init() {
	registry.Register("cave", func() registry.Game {
		return New()
	})
}

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, err := config.ParsePreset(preset)
	if err != nil || preset == "" {
		difficultyPreset = ""
		return
	}
	difficultyPreset = p
}

// Option configures a Game.
type Option func(*Game)

// WithConfig uses cfg instead of loading the configuration from disk.
func WithConfig(cfg config.CaveConfig) Option {
	return func(g *Game) { g.cfgOverride = &cfg }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) { g.logger = l }
}

// WithObserver reports step and phase timings to o.
func WithObserver(o sim.StepObserver) Option {
	return func(g *Game) { g.observer = o }
}

// WithAudio sets the audio collaborator.
func WithAudio(a sim.Audio) Option {
	return func(g *Game) { g.audio = a }
}

// WithTerrain plays the first cave on t instead of generating one. Deeper
// caves are generated as usual.
func WithTerrain(t *terrain.Terrain) Option {
	return func(g *Game) { g.terrainOverride = t }
}

// Game implements the cave game logic.
type Game struct {
	// Configuration
	runtime     core.RuntimeConfig
	cfg         config.CaveConfig
	cfgOverride *config.CaveConfig
	difficulty  *config.DifficultyManager

	// Simulation
	rng   *rand.Rand
	world *sim.World
	sched *loop.Scheduler
	input core.InputState
	level *Level
	hero  *Hero

	// Game state
	state      string
	depth      int
	levelSteps int
	idle       bool  // the last frame ran no steps, so its input is still pending
	err        error // why the run stopped, when it was not the hero dying

	// Collaborators
	logger          *log.Logger
	observer        sim.StepObserver
	audio           sim.Audio
	terrainOverride *terrain.Terrain
}

// New creates a new cave game instance.
func New(opts ...Option) *Game {
	g := &Game{
		logger: log.New(io.Discard),
		audio:  sim.NopAudio{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "cave"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Cavern"
}

// Reset initializes or restarts the game. A configuration that does not
// validate, or a first cave that cannot be generated, leaves the game over
// with Err set.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.err = nil
	cfg, err := g.loadConfig()
	if err != nil {
		g.logger.Error("cannot start", "err", err)
		g.err = err
		g.state = StateGameOver
		return
	}
	g.cfg = cfg
	g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty)
	g.rng = rand.New(rand.NewSource(runtime.Seed))

	opts := []sim.Option{
		sim.WithLogger(g.logger),
		sim.WithAudio(g.audio),
		sim.WithInput(&g.input),
		sim.WithRand(g.rng),
	}
	if g.observer != nil {
		opts = append(opts, sim.WithObserver(g.observer))
	}
	g.world = sim.New(nil, sim.Config{
		TileSize:  g.cfg.World.TileSize,
		FarRadius: g.cfg.World.FarRadius,
		Particles: g.cfg.World.Particles,
	}, opts...)
	g.sched = loop.New(g.cfg.Loop.TickRate, time.Duration(g.cfg.Loop.MaxFrameMS)*time.Millisecond)

	g.input.Reset()
	g.idle = false
	g.hero = NewHero(g.cfg.Hero, g.cfg.Weapons, g.cfg.PowerUps.MaxMagnitude)
	g.depth = 1
	g.state = StatePlaying
	g.buildLevel()
}

// loadConfig resolves the configuration: an explicit one from options, or
// the file search path with the CLI preset applied. Only an explicit
// configuration can fail; a broken file falls back to the defaults.
func (g *Game) loadConfig() (config.CaveConfig, error) {
	if g.cfgOverride != nil {
		return *g.cfgOverride, g.cfgOverride.Validate()
	}
	cfg, err := config.LoadCave(configPath)
	if err != nil {
		g.logger.Warn("using default config", "err", err)
		cfg = config.DefaultCaveConfig()
	}
	if difficultyPreset != "" {
		config.ApplyCavePreset(&cfg, difficultyPreset)
	}
	return cfg, nil
}

// terrainParams derives generation parameters for the current depth.
func (g *Game) terrainParams() (terrain.Params, terrain.BlockParams, error) {
	tc := g.cfg.Terrain
	rules, edge, err := tc.Automaton()
	if err != nil {
		return terrain.Params{}, terrain.BlockParams{}, err
	}

	p := terrain.Params{
		Width:           tc.Width,
		Height:          tc.Height,
		Rules:           rules,
		Edge:            edge,
		FillProbability: g.difficulty.FillProbability(tc.FillProbability, g.depth, g.hero.Score),
		Generations:     tc.Generations,
		Border:          max(1, tc.Border),
	}
	bp := terrain.DefaultBlockParams()
	bp.MinDurability = tc.MinDurability
	bp.MaxDurability = tc.MaxDurability
	bp.IndestructibleChance = tc.IndestructibleChance
	bp.CollectibleChance = tc.CollectibleChance
	return p, bp, nil
}

// GenerateTerrain builds the first cave a game configured with cfg and
// seeded with seed would play.
func GenerateTerrain(cfg config.CaveConfig, seed int64) (*terrain.Terrain, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := New()
	g.cfg = cfg
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)
	g.hero = NewHero(cfg.Hero, cfg.Weapons, cfg.PowerUps.MaxMagnitude)
	g.depth = 1
	p, bp, err := g.terrainParams()
	if err != nil {
		return nil, err
	}
	return terrain.Build(p, bp, rand.New(rand.NewSource(seed)))
}

// generate builds the cave for the current depth.
func (g *Game) generate() (*terrain.Terrain, error) {
	if g.depth == 1 && g.terrainOverride != nil {
		return g.terrainOverride.Clone(), nil
	}
	p, bp, err := g.terrainParams()
	if err != nil {
		return nil, err
	}
	return terrain.Build(p, bp, g.rng)
}

// buildLevel generates the cave for the current depth and populates it. A
// cave that cannot be generated ends the run.
func (g *Game) buildLevel() {
	t, err := g.generate()
	if err != nil {
		g.logger.Error("terrain generation failed", "depth", g.depth, "err", err)
		g.err = fmt.Errorf("generating depth %d: %w", g.depth, err)
		g.state = StateGameOver
		return
	}
	g.world.Reset(t)

	drops, err := newDropTable(g.cfg.PowerUps.Types)
	if err != nil {
		g.logger.Warn("power-up drops disabled", "err", err)
	}
	g.level = &Level{
		Depth:       g.depth,
		cfg:         &g.cfg,
		drops:       drops,
		enemySpeed:  max(0.1, g.difficulty.Speed(1, g.depth, g.hero.Score)),
		enemyDamage: g.difficulty.Damage(1, g.depth, g.hero.Score),
	}
	g.levelSteps = 0

	cells := t.Grid.FindEmptyCells()
	terrain.Shuffle(cells, g.rng)

	start := terrain.Cell{X: t.Width() / 2, Y: t.Height() / 2}
	if len(cells) > 0 {
		start, cells = cells[0], cells[1:]
	}
	// Open a pocket so the hero never starts inside rock.
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			x, y := start.X+dx, start.Y+dy
			if x > 0 && y > 0 && x < t.Width()-1 && y < t.Height()-1 {
				t.Carve(x, y)
			}
		}
	}
	heroPos := g.world.CellCenter(start.X, start.Y)
	g.hero.Spawn(g.world, g.level, heroPos)
	g.world.SetFocus(heroPos)

	ts := g.cfg.World.TileSize
	enemies := g.difficulty.EnemyCount(g.cfg.Enemies.Count, g.depth, g.hero.Score)
	boulders := len(cells) / cellsPerBoulder
	spawned := 0
	for _, c := range cells {
		pos := g.world.CellCenter(c.X, c.Y)
		near := pos.Dist(heroPos) < minSpawnDistance*ts
		switch {
		case spawned < enemies && !near:
			newLevelEnemy(g.world, g.level, pos, g.cfg.Enemies)
			spawned++
		case boulders > 0 && !near:
			sides := sim.AllSides
			if boulders%3 == 0 {
				sides = sim.SideTop
			}
			SpawnBoulder(g.world, pos, sides)
			boulders--
		}
		if spawned == enemies && boulders == 0 {
			break
		}
	}

	g.level.Enemies = spawned
	if spawned == 0 {
		g.logger.Warn("no room for enemies, the cave cannot be cleared", "depth", g.depth)
	}
	g.logger.Info("cave ready",
		"depth", g.depth,
		"size", [2]int{t.Width(), t.Height()},
		"enemies", spawned,
		"fill", t.Grid.CountSolid())
}

// Update advances the game to host time now. It returns the state and how
// many fixed steps ran.
func (g *Game) Update(now time.Time, in core.InputFrame) core.StepResult {
	if in.Has(core.ActionRestart) && g.state == StateGameOver && g.err == nil {
		g.Reset(g.runtime)
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		switch g.state {
		case StatePlaying:
			g.state = StatePaused
		case StatePaused:
			g.state = StatePlaying
			// Paused wall time must not turn into simulation steps.
			g.sched.Reset(now)
		}
	}
	if g.state != StatePlaying {
		return core.StepResult{State: g.State()}
	}

	if g.idle {
		g.input.Merge(in)
	} else {
		g.input.Advance(in)
	}
	steps := g.sched.Frame(now, g)
	g.idle = steps == 0
	return core.StepResult{State: g.State(), Steps: steps}
}

// Step runs one fixed simulation step. It implements loop.Stepper.
func (g *Game) Step() {
	if g.state != StatePlaying {
		return
	}
	if e, ok := g.world.Lookup(g.level.heroHandle); ok {
		g.world.SetFocus(e.Pos)
	}
	g.world.Step()
	g.input.Settle()
	g.levelSteps++

	switch {
	case !g.hero.Alive():
		g.state = StateGameOver
		g.logger.Info("game over", "depth", g.depth, "score", g.hero.Score)
	case g.level.Enemies > 0 && len(g.world.Query(sim.KindEnemy)) == 0:
		g.descend()
	}
}

// descend moves the hero to a new, harder cave.
func (g *Game) descend() {
	g.depth++
	g.hero.Heal(g.hero.MaxHealth * descendHeal)
	g.hero.Bombs++
	g.world.Play(SoundDescend)
	g.logger.Info("descending", "depth", g.depth, "score", g.hero.Score, "steps", g.levelSteps)
	g.buildLevel()
}

// SnapshotPositions implements loop.Stepper.
func (g *Game) SnapshotPositions() {
	g.world.SnapshotPositions()
}

// Interpolate implements loop.Stepper.
func (g *Game) Interpolate(f float64) {
	g.world.Interpolate(f)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.hero == nil {
		return core.GameState{GameOver: g.err != nil}
	}
	return core.GameState{
		Score:    g.hero.Score,
		Depth:    g.depth,
		GameOver: g.state == StateGameOver,
		Paused:   g.state == StatePaused,
	}
}

// Err reports why the run stopped when the cause was not the hero dying,
// such as an invalid configuration or a cave that failed to generate.
func (g *Game) Err() error {
	return g.err
}

// World exposes the simulation, for hosts and tools.
func (g *Game) World() *sim.World {
	return g.world
}

// Hero returns the player's creature.
func (g *Game) Hero() *Hero {
	return g.hero
}

// Terrain returns the terrain of the current cave.
func (g *Game) Terrain() *terrain.Terrain {
	return g.world.Terrain()
}

// Scheduler returns the fixed-step scheduler.
func (g *Game) Scheduler() *loop.Scheduler {
	return g.sched
}
