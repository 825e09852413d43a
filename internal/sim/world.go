package sim

import (
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cavern/internal/core"
	"github.com/vovakirdan/cavern/internal/terrain"
)

// Config holds world-wide simulation settings.
type Config struct {
	TileSize  float64 // world units per terrain cell
	FarRadius float64 // distance from the focus beyond which far policies apply; <= 0 disables culling
	Particles int     // cosmetic particles in a full-size burst; 0 turns bursts off
}

// DefaultConfig returns one world unit per tile and a generous far radius.
func DefaultConfig() Config {
	return Config{TileSize: 1, FarRadius: 48, Particles: 12}
}

// resolvePasses bounds how many times tile adjustment re-examines an entity
// after pushing it.
const resolvePasses = 4

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(w *World) { w.logger = l }
}

// WithAudio sets the audio collaborator.
func WithAudio(a Audio) Option {
	return func(w *World) { w.audio = a }
}

// WithObserver sets the step observer.
func WithObserver(o StepObserver) Option {
	return func(w *World) { w.observer = o }
}

// WithInput sets the input collaborator read by behaviors.
func WithInput(in core.InputReader) Option {
	return func(w *World) { w.input = in }
}

// WithRand sets the random source shared by behaviors.
func WithRand(r *rand.Rand) Option {
	return func(w *World) { w.rng = r }
}

// World owns every entity, particle, and the terrain, and advances them one
// fixed step at a time. It is not safe for concurrent use; the host calls
// it from a single loop.
type World struct {
	cfg     Config
	terrain *terrain.Terrain

	entities  []*Entity
	particles []*Entity
	byHandle  map[Handle]*Entity
	nextID    Handle
	buckets   [kindCount][]*Entity

	focus core.Vec
	steps uint64

	logger   *log.Logger
	audio    Audio
	observer StepObserver
	input    core.InputReader
	rng      *rand.Rand
}

// New creates a world over the given terrain.
func New(t *terrain.Terrain, cfg Config, opts ...Option) *World {
	if cfg.TileSize <= 0 {
		cfg.TileSize = 1
	}
	w := &World{
		cfg:      cfg,
		terrain:  t,
		byHandle: make(map[Handle]*Entity),
		logger:   log.New(io.Discard),
		audio:    NopAudio{},
		observer: nopObserver{},
		input:    noInput{},
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rng == nil {
		w.rng = rand.New(rand.NewSource(1))
	}
	return w
}

// Config returns the world settings.
func (w *World) Config() Config { return w.cfg }

// Terrain returns the tile grid.
func (w *World) Terrain() *terrain.Terrain { return w.terrain }

// Logger returns the world logger.
func (w *World) Logger() *log.Logger { return w.logger }

// Input returns the input collaborator.
func (w *World) Input() core.InputReader { return w.input }

// Rand returns the shared random source.
func (w *World) Rand() *rand.Rand { return w.rng }

// Play asks the audio collaborator for a sound.
func (w *World) Play(sound string) { w.audio.Play(sound) }

// Steps returns the number of steps run since the last reset.
func (w *World) Steps() uint64 { return w.steps }

// SetFocus moves the camera center used for far culling.
func (w *World) SetFocus(p core.Vec) { w.focus = p }

// Focus returns the camera center.
func (w *World) Focus() core.Vec { return w.focus }

// Add takes ownership of e and returns its handle. Entities added during a
// step are first simulated on the next step.
func (w *World) Add(e *Entity) Handle {
	w.register(e)
	w.entities = append(w.entities, e)
	return e.handle
}

// AddParticle takes ownership of a particle. Particles only move and expire;
// they never act or collide.
func (w *World) AddParticle(e *Entity) Handle {
	w.register(e)
	w.particles = append(w.particles, e)
	return e.handle
}

func (w *World) register(e *Entity) {
	w.nextID++
	e.handle = w.nextID
	e.prev = e.Pos
	e.draw = e.Pos
	e.dead = false
	e.destroyed = false
	w.byHandle[e.handle] = e
}

// Lookup resolves a handle. It fails once the entity has been removed.
func (w *World) Lookup(h Handle) (*Entity, bool) {
	e, ok := w.byHandle[h]
	return e, ok
}

// Destroy flags the entity behind h for removal at the end of the step.
func (w *World) Destroy(h Handle) {
	if e, ok := w.byHandle[h]; ok {
		e.Kill()
	}
}

// Entities returns the entity list in insertion order. Callers must not
// modify the slice.
func (w *World) Entities() []*Entity { return w.entities }

// Particles returns the particle list.
func (w *World) Particles() []*Entity { return w.particles }

// Count returns the number of entities, excluding particles.
func (w *World) Count() int { return len(w.entities) }

// Query returns the live entities of kind k in insertion order.
func (w *World) Query(k Kind) []*Entity {
	var out []*Entity
	for _, e := range w.entities {
		if e.Kind == k && !e.dead {
			out = append(out, e)
		}
	}
	return out
}

// InRadius returns the live, active entities of kind k whose centers are
// within r of p.
func (w *World) InRadius(p core.Vec, r float64, k Kind) []*Entity {
	var out []*Entity
	r2 := r * r
	for _, e := range w.entities {
		if e.Kind == k && e.Active && !e.dead && e.Pos.DistSq(p) <= r2 {
			out = append(out, e)
		}
	}
	return out
}

// Nearest returns the closest live, active entity of kind k to p.
func (w *World) Nearest(p core.Vec, k Kind) (*Entity, bool) {
	var best *Entity
	bestD := 0.0
	for _, e := range w.entities {
		if e.Kind != k || !e.Active || e.dead {
			continue
		}
		if d := e.Pos.DistSq(p); best == nil || d < bestD {
			best, bestD = e, d
		}
	}
	return best, best != nil
}

// IsSolid reports whether a tile blocks movement. Cells outside the grid are
// solid so the world edge is always walled.
func (w *World) IsSolid(cx, cy int) bool {
	if w.terrain == nil {
		return false
	}
	if !w.terrain.InBounds(cx, cy) {
		return true
	}
	return w.terrain.Solid(cx, cy)
}

// CellOf returns the tile containing p.
func (w *World) CellOf(p core.Vec) (int, int) {
	return CellOf(p, w.cfg.TileSize)
}

// CellCenter returns the world position of a tile's center.
func (w *World) CellCenter(cx, cy int) core.Vec {
	ts := w.cfg.TileSize
	return core.V((float64(cx)+0.5)*ts, (float64(cy)+0.5)*ts)
}

// Dig damages the block at a tile. It reports the block and whether it was
// destroyed.
func (w *World) Dig(cx, cy, amount int) (terrain.Block, bool) {
	if w.terrain == nil {
		return terrain.Block{}, false
	}
	b, destroyed := w.terrain.Damage(cx, cy, amount)
	if destroyed {
		w.logger.Debug("block destroyed", "x", cx, "y", cy, "collectible", b.Collectible)
	}
	return b, destroyed
}

// tileBox returns the collision box of a tile together with the faces that
// do not touch another solid tile.
func (w *World) tileBox(cx, cy int) (Box, Sides) {
	ts := w.cfg.TileSize
	open := NoSides
	if !w.IsSolid(cx-1, cy) {
		open |= SideLeft
	}
	if !w.IsSolid(cx+1, cy) {
		open |= SideRight
	}
	if !w.IsSolid(cx, cy-1) {
		open |= SideTop
	}
	if !w.IsSolid(cx, cy+1) {
		open |= SideBottom
	}
	return Box{Center: w.CellCenter(cx, cy), W: ts, H: ts}, open
}

// PushOut separates e from another entity used as an obstacle, honoring
// the obstacle's Sides. It reports whether e moved.
func (w *World) PushOut(e, obstacle *Entity) bool {
	push, ok := Separation(e.Box(), obstacle.Box(), obstacle.Sides)
	if !ok {
		return false
	}
	applyPush(e, push)
	return true
}

// Step runs one fixed simulation step: cull, action, physics, tile
// adjustment, entity collision, and deferred destruction. Only entities
// present when the step starts take part; anything spawned during the step
// waits for the next one.
func (w *World) Step() {
	w.observer.StartTick()
	defer w.observer.EndTick()

	n := len(w.entities)
	cur := w.entities[:n:n]
	parts := w.particles[:len(w.particles):len(w.particles)]

	w.observer.StartPhase(PhaseCull)
	w.cull(cur)

	w.observer.StartPhase(PhaseAction)
	for _, e := range cur {
		if e.Active && !e.dead && e.Behavior != nil {
			e.Behavior.Action(w, e)
		}
	}

	w.observer.StartPhase(PhasePhysics)
	for _, e := range cur {
		if e.Active && !e.dead {
			e.integrate()
		}
	}
	for _, p := range parts {
		if !p.dead {
			p.integrate()
		}
	}

	w.observer.StartPhase(PhaseTiles)
	for _, e := range cur {
		if e.Active && e.Walls && !e.dead {
			w.adjustTiles(e)
		}
	}

	w.observer.StartPhase(PhaseCollide)
	w.collide(cur)

	w.observer.StartPhase(PhaseDestroy)
	w.reap()

	w.steps++
}

func (w *World) cull(cur []*Entity) {
	if w.cfg.FarRadius <= 0 {
		return
	}
	r2 := w.cfg.FarRadius * w.cfg.FarRadius
	for _, e := range cur {
		far := e.Pos.DistSq(w.focus) > r2
		switch e.Far {
		case FarDelete:
			if far {
				e.Kill()
			}
		case FarDeactivate:
			switch {
			case far && e.Active:
				e.Active, e.culled = false, true
			case !far && e.culled:
				e.Active, e.culled = true, false
			}
		}
	}
}

// adjustTiles pushes e out of every solid tile its box overlaps. If that
// leaves e embedded in rock, e backs out along the axis it moved in.
func (w *World) adjustTiles(e *Entity) {
	collider, _ := e.Behavior.(BlockCollider)
	ts := w.cfg.TileSize

	for pass := 0; pass < resolvePasses; pass++ {
		box := e.Box()
		x0, y0 := CellOf(box.Min(), ts)
		x1, y1 := CellOf(box.Max(), ts)

		moved := false
		for cy := y0; cy <= y1; cy++ {
			for cx := x0; cx <= x1; cx++ {
				if !w.IsSolid(cx, cy) {
					continue
				}
				tile, open := w.tileBox(cx, cy)
				push, ok := Separation(e.Box(), tile, open)
				if !ok {
					continue
				}
				applyPush(e, push)
				moved = true

				if collider != nil && w.terrain.InBounds(cx, cy) {
					collider.CollideWithBlock(w, e, terrain.Cell{X: cx, Y: cy})
					if e.dead {
						return
					}
				}
			}
		}
		if !moved {
			break
		}
	}

	if !w.Embedded(e.Box()) {
		return
	}
	hit := terrain.Cell{}
	hit.X, hit.Y = w.CellOf(e.Pos)
	w.backOut(e)
	if collider != nil && w.terrain.InBounds(hit.X, hit.Y) && w.terrain.Solid(hit.X, hit.Y) {
		collider.CollideWithBlock(w, e, hit)
	}
}

// backOut returns an embedded e toward where it started the step. Undoing
// one axis of the move is preferred; when neither works the whole move is
// undone. Velocity still heading along an undone axis is reflected.
// Nothing happens if e started embedded.
func (w *World) backOut(e *Entity) {
	from := e.from
	if w.Embedded(e.box(from)) {
		return
	}
	move := e.Pos.Sub(from)
	undo := core.V(-move.X, -move.Y)
	switch {
	case !w.Embedded(e.box(core.V(from.X, e.Pos.Y))):
		undo.Y = 0
	case !w.Embedded(e.box(core.V(e.Pos.X, from.Y))):
		undo.X = 0
	}
	applyPush(e, undo)
}

// Embedded reports whether b is stuck in rock: it properly overlaps a solid
// tile, or every tile its closed area touches is solid. The second case
// catches a thin box lying on the face between two solid tiles.
func (w *World) Embedded(b Box) bool {
	if w.terrain == nil {
		return false
	}
	ts := w.cfg.TileSize
	lo, hi := b.Min(), b.Max()
	x0, y0 := CellOf(lo, ts)
	x1, y1 := CellOf(hi, ts)
	if float64(x0)*ts == lo.X {
		x0--
	}
	if float64(y0)*ts == lo.Y {
		y0--
	}

	allSolid := true
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			if !w.IsSolid(cx, cy) {
				allSolid = false
				continue
			}
			tile, _ := w.tileBox(cx, cy)
			if _, _, px, py := penetration(b, tile); px > 0 && py > 0 {
				return true
			}
		}
	}
	return allSolid
}

// collide dispatches entity-entity reactions. Only the initiator's
// reactions are consulted, so each direction of a pair registers its own.
func (w *World) collide(cur []*Entity) {
	for k := range w.buckets {
		w.buckets[k] = w.buckets[k][:0]
	}
	for _, e := range cur {
		if e.Active && !e.dead {
			w.buckets[e.Kind] = append(w.buckets[e.Kind], e)
		}
	}

	for _, e := range cur {
		if !e.Active || e.dead {
			continue
		}
		for k := range e.reactions {
			react := e.reactions[k]
			if react == nil {
				continue
			}
			for _, o := range w.buckets[k] {
				if e.dead {
					break
				}
				if o == e || o.dead {
					continue
				}
				if Overlaps(e.Box(), o.Box()) {
					react(w, e, o)
				}
			}
		}
	}
}

// reap runs destroy hooks for flagged entities and then removes them.
// Hooks may flag further entities; those are reaped in the same pass.
func (w *World) reap() {
	for {
		found := false
		for _, list := range [][]*Entity{w.entities, w.particles} {
			for i := 0; i < len(list); i++ {
				e := list[i]
				if !e.dead || e.destroyed {
					continue
				}
				e.destroyed = true
				found = true
				if e.Behavior != nil {
					e.Behavior.Destroy(w, e)
				}
			}
		}
		if !found {
			break
		}
	}

	w.entities = w.compact(w.entities)
	w.particles = w.compact(w.particles)
}

func (w *World) compact(list []*Entity) []*Entity {
	kept := list[:0]
	for _, e := range list {
		if e.destroyed {
			delete(w.byHandle, e.handle)
			continue
		}
		kept = append(kept, e)
	}
	clear(list[len(kept):])
	return kept
}

// SnapshotPositions records every current position as the previous one for
// interpolation.
func (w *World) SnapshotPositions() {
	for _, e := range w.entities {
		e.prev = e.Pos
	}
	for _, p := range w.particles {
		p.prev = p.Pos
	}
}

// Interpolate sets each render position to lerp(previous, current, f).
// Inactive entities are drawn where they are.
func (w *World) Interpolate(f float64) {
	for _, e := range w.entities {
		if e.Active {
			e.draw = e.prev.Lerp(e.Pos, f)
		} else {
			e.draw = e.Pos
		}
	}
	for _, p := range w.particles {
		p.draw = p.prev.Lerp(p.Pos, f)
	}
}

// Reset drops every entity and particle and installs new terrain. Handles
// issued before the reset never resolve again.
func (w *World) Reset(t *terrain.Terrain) {
	w.terrain = t
	clear(w.entities)
	clear(w.particles)
	w.entities = w.entities[:0]
	w.particles = w.particles[:0]
	clear(w.byHandle)
	for k := range w.buckets {
		w.buckets[k] = nil
	}
	w.steps = 0
}
