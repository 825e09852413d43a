package cave

import (
	"math"

	"github.com/vovakirdan/cavern/internal/config"
	"github.com/vovakirdan/cavern/internal/core"
	"github.com/vovakirdan/cavern/internal/sim"
	"github.com/vovakirdan/cavern/internal/terrain"
)

const (
	pickupSize  = 0.8
	pickupDrag  = 0.12
	blinkWindow = 120 // steps before expiry when a power-up starts blinking
)

// PowerUp is a dropped power-up waiting to be collected by the hero.
type PowerUp struct {
	Type config.PowerUpType
}

// Action does nothing; power-ups only drift to a stop.
func (p *PowerUp) Action(*sim.World, *sim.Entity) {}

// Destroy does nothing.
func (p *PowerUp) Destroy(*sim.World, *sim.Entity) {}

// Draw blinks the power-up before it expires.
func (p *PowerUp) Draw(e *sim.Entity) sim.Appearance {
	r := '?'
	if s := []rune(p.Type.Symbol); len(s) > 0 {
		r = s[0]
	}
	c := core.ColorBrightGreen
	if e.Lifetime != sim.Forever && e.Lifetime < blinkWindow && e.Lifetime/8%2 == 0 {
		c = core.ColorGray
	}
	return sim.Appearance{Rune: r, Color: c}
}

// SpawnPowerUp drops a power-up of type t at pos.
func SpawnPowerUp(w *sim.World, pos core.Vec, t config.PowerUpType, lifetime int) *sim.Entity {
	e := sim.NewEntity(sim.KindPowerUp, pos, pickupSize, pickupSize)
	e.Walls = true
	e.Drag = pickupDrag
	e.Vel = core.FromAngle(w.Rand().Float64()*2*math.Pi, 0.1)
	if lifetime > 0 {
		e.Lifetime = lifetime
	}
	e.Far = sim.FarDeactivate
	e.Behavior = &PowerUp{Type: t}
	w.Add(e)
	return e
}

// Gem is a collectible released from a destroyed block.
type Gem struct {
	Collectible terrain.CollectibleKind
	Reward      int
}

// Action does nothing.
func (g *Gem) Action(*sim.World, *sim.Entity) {}

// Destroy does nothing.
func (g *Gem) Destroy(*sim.World, *sim.Entity) {}

// Draw picks a glyph by collectible kind.
func (g *Gem) Draw(*sim.Entity) sim.Appearance {
	return collectibleLook(g.Collectible)
}

func collectibleLook(k terrain.CollectibleKind) sim.Appearance {
	switch k {
	case terrain.CollectibleGold:
		return sim.Appearance{Rune: '$', Color: core.ColorBrightYellow}
	case terrain.CollectibleGem:
		return sim.Appearance{Rune: '♦', Color: core.ColorBrightCyan}
	case terrain.CollectibleRelic:
		return sim.Appearance{Rune: '¤', Color: core.ColorBrightMagenta}
	default:
		return sim.Appearance{Rune: '*', Color: core.ColorWhite}
	}
}

// SpawnGem releases the collectible of a destroyed block at pos. Blocks
// without a collectible spawn nothing.
func SpawnGem(w *sim.World, pos core.Vec, b terrain.Block) (*sim.Entity, bool) {
	if b.Collectible == terrain.CollectibleNone {
		return nil, false
	}
	e := sim.NewEntity(sim.KindGem, pos, pickupSize, pickupSize)
	e.Walls = true
	e.Drag = pickupDrag
	e.Far = sim.FarDeactivate
	e.Behavior = &Gem{Collectible: b.Collectible, Reward: b.Reward}
	w.Add(e)
	return e, true
}

// digAt damages a tile and releases its collectible when it breaks.
func digAt(w *sim.World, cx, cy, amount int) bool {
	b, destroyed := w.Dig(cx, cy, amount)
	if !destroyed {
		return false
	}
	SpawnGem(w, w.CellCenter(cx, cy), b)
	burst(w, w.CellCenter(cx, cy), burstDig, 0.08, core.ColorBrown)
	return true
}

// Boulder is a movable solid entity. Other entities are pushed out of it
// only through the faces listed in its Sides.
type Boulder struct{}

// Action does nothing; boulders move only when shoved.
func (Boulder) Action(*sim.World, *sim.Entity) {}

// Destroy does nothing.
func (Boulder) Destroy(*sim.World, *sim.Entity) {}

// Draw shows which faces are solid.
func (Boulder) Draw(e *sim.Entity) sim.Appearance {
	r := 'O'
	if e.Sides == sim.SideTop {
		r = '='
	}
	return sim.Appearance{Rune: r, Color: core.ColorBrown}
}

// SpawnBoulder places a boulder at pos. With sides set to SideTop alone the
// boulder is a ledge: overlapping entities only ever leave through its top.
func SpawnBoulder(w *sim.World, pos core.Vec, sides sim.Sides) *sim.Entity {
	e := sim.NewEntity(sim.KindBoulder, pos, 1, 1)
	e.Walls = true
	e.Drag = 0.15
	e.Bounce = 0.1
	e.MaxVel = 0.3
	e.Sides = sides
	e.Far = sim.FarDeactivate
	e.Behavior = Boulder{}
	e.On(sim.KindBoulder, func(w *sim.World, self, other *sim.Entity) {
		w.PushOut(self, other)
	})
	w.Add(e)
	return e
}

// shove pushes a movable entity away from a point.
func shove(e *sim.Entity, from core.Vec, strength float64) {
	d := e.Pos.Sub(from)
	if d.IsZero() {
		d = core.V(0, -1)
	}
	e.Vel = e.Vel.Add(d.Norm().Mult(strength))
}
