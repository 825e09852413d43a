package sim

import (
	"github.com/vovakirdan/cavern/internal/core"
	"github.com/vovakirdan/cavern/internal/terrain"
)

// Forever is the lifetime of an entity that never expires.
const Forever = -1

// FarPolicy decides what happens to an entity outside the far radius.
type FarPolicy uint8

const (
	FarNothing    FarPolicy = iota // keep simulating
	FarDelete                      // flag for destruction
	FarDeactivate                  // suspend until back in range
)

// Sides is a set of box faces. Y grows downward, so Top is the face with
// the smaller Y.
type Sides uint8

const (
	SideLeft Sides = 1 << iota
	SideTop
	SideRight
	SideBottom

	NoSides  Sides = 0
	AllSides       = SideLeft | SideTop | SideRight | SideBottom
)

// Has reports whether every face in o is in s.
func (s Sides) Has(o Sides) bool {
	return s&o == o
}

// Reaction is invoked when self overlaps other during the collision phase.
type Reaction func(w *World, self, other *Entity)

// Behavior is the per-entity strategy the World calls into.
type Behavior interface {
	// Action runs once per step for active entities, before physics.
	Action(w *World, e *Entity)
	// Destroy runs once, just before the entity is removed.
	Destroy(w *World, e *Entity)
}

// BlockCollider is implemented by behaviors that react to touching a solid
// in-grid tile.
type BlockCollider interface {
	CollideWithBlock(w *World, e *Entity, cell terrain.Cell)
}

// Appearance is what a renderer needs to draw an entity.
type Appearance struct {
	Rune  rune
	Color core.Color
}

// Drawer is implemented by behaviors that pick their own appearance.
type Drawer interface {
	Draw(e *Entity) Appearance
}

// Entity is one simulated object. Position is the center of its box.
type Entity struct {
	Kind Kind

	Pos, Vel, Acc core.Vec
	Drag          float64 // fraction of velocity lost per step
	MaxAcc        float64 // <= 0 means unlimited
	MaxVel        float64 // <= 0 means unlimited
	W, H          float64
	Bounce        float64 // velocity kept when reflecting off a wall

	Lifetime int // steps remaining, or Forever
	Active   bool
	Walls    bool  // collide with solid tiles
	Sides    Sides // faces others are pushed through when this is an obstacle
	Far      FarPolicy

	Behavior   Behavior
	Appearance Appearance

	handle    Handle
	prev      core.Vec
	from      core.Vec // position before this step's move
	culled    bool     // deactivated by the far cull, not by game code
	draw      core.Vec
	dead      bool
	destroyed bool
	reactions [kindCount]Reaction
}

// NewEntity returns an active entity with an infinite lifetime and every
// side solid.
func NewEntity(kind Kind, pos core.Vec, w, h float64) *Entity {
	return &Entity{
		Kind:     kind,
		Pos:      pos,
		W:        w,
		H:        h,
		Lifetime: Forever,
		Active:   true,
		Sides:    AllSides,
	}
}

// Handle returns the entity's handle, or zero if it was never added.
func (e *Entity) Handle() Handle {
	return e.handle
}

// Kill flags the entity for removal at the end of the step.
func (e *Entity) Kill() {
	e.dead = true
}

// Dead reports whether the entity is flagged for removal.
func (e *Entity) Dead() bool {
	return e.dead
}

// On registers the reaction invoked when e overlaps an entity of kind k.
// A nil reaction removes the registration.
func (e *Entity) On(k Kind, r Reaction) {
	if k >= kindCount {
		return
	}
	e.reactions[k] = r
}

// Reacts reports whether e has a reaction for kind k.
func (e *Entity) Reacts(k Kind) bool {
	return k < kindCount && e.reactions[k] != nil
}

// Box returns the entity's current collision box.
func (e *Entity) Box() Box {
	return e.box(e.Pos)
}

func (e *Entity) box(at core.Vec) Box {
	return Box{Center: at, W: e.W, H: e.H}
}

// PrevPos returns the position recorded by the last snapshot.
func (e *Entity) PrevPos() core.Vec {
	return e.prev
}

// DrawPos returns the interpolated render position.
func (e *Entity) DrawPos() core.Vec {
	return e.draw
}

// Look returns the appearance to render, asking the behavior first.
func (e *Entity) Look() Appearance {
	if d, ok := e.Behavior.(Drawer); ok {
		return d.Draw(e)
	}
	return e.Appearance
}

// integrate advances lifetime and motion by one step.
func (e *Entity) integrate() {
	if e.Lifetime != Forever {
		e.Lifetime--
		if e.Lifetime <= 0 {
			e.Lifetime = 0
			e.dead = true
		}
	}

	e.from = e.Pos
	acc := e.Acc.Limit(e.MaxAcc)
	e.Vel = e.Vel.Add(acc).Mult(1 - e.Drag).Limit(e.MaxVel)
	e.Pos = e.Pos.Add(e.Vel)
}
