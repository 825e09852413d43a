package cave

import (
	"github.com/vovakirdan/cavern/internal/core"
	"github.com/vovakirdan/cavern/internal/sim"
	"github.com/vovakirdan/cavern/internal/terrain"
)

const (
	bulletSize    = 0.3
	bombSize      = 0.5
	bombToss      = 0.15
	explosionLife = 4
	recoil        = 0.25
)

// HitFunc runs when a bullet hits a creature. Returning true lets the
// bullet continue past the target.
type HitFunc func(w *sim.World, b *Bullet, target *sim.Entity, magnitude int) bool

// BurstFunc runs where a projectile ends: when a bullet is destroyed or a
// bomb detonates.
type BurstFunc func(w *sim.World, at core.Vec, owner sim.Handle, magnitude int)

// Bullet is a projectile fired by the hero or an enemy.
type Bullet struct {
	Owner     sim.Handle
	Damage    float64
	Dig       int // damage dealt to blocks; 0 bullets do not dig
	OnHit     sim.Hooks[HitFunc]
	OnDestroy sim.Hooks[BurstFunc]

	hits map[sim.Handle]bool
}

// FireBullet spawns a bullet from owner travelling along dir. Hero bullets
// hit enemies and enemy bullets hit the hero.
func FireBullet(w *sim.World, owner *sim.Entity, kind sim.Kind, dir core.Vec, speed float64, lifetime int, b *Bullet) *sim.Entity {
	if dir.IsZero() {
		dir = core.V(1, 0)
	}
	e := sim.NewEntity(kind, owner.Pos, bulletSize, bulletSize)
	e.Vel = dir.Norm().Mult(speed)
	e.Lifetime = lifetime
	e.Walls = true
	e.Far = sim.FarDelete

	b.Owner = owner.Handle()
	b.hits = make(map[sim.Handle]bool)
	e.Behavior = b
	if kind == sim.KindHeroBullet {
		e.Appearance = sim.Appearance{Rune: '•', Color: core.ColorBrightYellow}
		e.On(sim.KindEnemy, b.hit)
	} else {
		e.Appearance = sim.Appearance{Rune: '•', Color: core.ColorBrightRed}
		e.On(sim.KindHero, b.hit)
	}
	e.On(sim.KindBoulder, func(w *sim.World, self, other *sim.Entity) {
		self.Kill()
	})
	w.Add(e)
	return e
}

func (b *Bullet) hit(w *sim.World, self, target *sim.Entity) {
	if b.hits[target.Handle()] || target.Handle() == b.Owner {
		return
	}
	b.hits[target.Handle()] = true

	if c, ok := creatureOf(target); ok {
		c.Damage(target, b.Damage)
		w.Play(SoundHit)
	}

	pass := false
	for _, h := range b.OnHit.Entries() {
		if h.Fn(w, b, target, h.Magnitude) {
			pass = true
		}
	}
	if !pass {
		self.Kill()
	}
}

// Action does nothing; bullets fly straight.
func (b *Bullet) Action(*sim.World, *sim.Entity) {}

// CollideWithBlock digs the block and stops the bullet.
func (b *Bullet) CollideWithBlock(w *sim.World, e *sim.Entity, cell terrain.Cell) {
	if b.Dig > 0 {
		digAt(w, cell.X, cell.Y, b.Dig)
	}
	e.Kill()
}

// Destroy runs the OnDestroy hooks where the bullet ended.
func (b *Bullet) Destroy(w *sim.World, e *sim.Entity) {
	for _, h := range b.OnDestroy.Entries() {
		h.Fn(w, e.Pos, b.Owner, h.Magnitude)
	}
}

// Hits returns how many distinct targets the bullet has struck.
func (b *Bullet) Hits() int {
	return len(b.hits)
}

// Bomb is a thrown explosive that detonates when its fuse runs out.
type Bomb struct {
	Owner      sim.Handle
	Radius     float64
	Damage     float64
	Dig        int
	OnDetonate sim.Hooks[BurstFunc]
}

// ThrowBomb spawns a bomb at owner tossed along dir. The fuse is the bomb's
// lifetime; it detonates from its destroy hook.
func ThrowBomb(w *sim.World, owner *sim.Entity, dir core.Vec, fuse int, b *Bomb) *sim.Entity {
	e := sim.NewEntity(sim.KindBomb, owner.Pos, bombSize, bombSize)
	if !dir.IsZero() {
		e.Vel = owner.Vel.Add(dir.Norm().Mult(bombToss))
	}
	e.Lifetime = max(1, fuse)
	e.Walls = true
	e.Drag = 0.1
	e.Bounce = 0.4
	b.Owner = owner.Handle()
	e.Behavior = b
	w.Add(e)
	return e
}

// Action does nothing; the fuse is the entity lifetime.
func (b *Bomb) Action(*sim.World, *sim.Entity) {}

// Destroy detonates the bomb.
func (b *Bomb) Destroy(w *sim.World, e *sim.Entity) {
	Detonate(w, e.Pos, b.Owner, b.Radius, b.Damage, b.Dig)
	for _, h := range b.OnDetonate.Entries() {
		h.Fn(w, e.Pos, b.Owner, h.Magnitude)
	}
}

// Draw flashes faster as the fuse burns down.
func (b *Bomb) Draw(e *sim.Entity) sim.Appearance {
	c := core.ColorRed
	period := 16
	if e.Lifetime < 30 {
		period = 4
	}
	if e.Lifetime%period < period/2 {
		c = core.ColorBrightWhite
	}
	return sim.Appearance{Rune: '●', Color: c}
}

// Detonate digs every tile whose center lies within radius of at and spawns
// an explosion that damages creatures other than the owner. The owner is
// looked up by handle and may already be gone; when alive it is knocked
// back from the blast.
func Detonate(w *sim.World, at core.Vec, owner sim.Handle, radius, damage float64, dig int) *sim.Entity {
	if radius <= 0 {
		return nil
	}
	ts := w.Config().TileSize
	x0, y0 := w.CellOf(at.Sub(core.V(radius, radius)))
	x1, y1 := w.CellOf(at.Add(core.V(radius, radius)))
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			if w.CellCenter(cx, cy).Dist(at) <= radius+ts*0.5 {
				digAt(w, cx, cy, dig)
			}
		}
	}

	if o, ok := w.Lookup(owner); ok && !o.Dead() {
		if d := o.Pos.Dist(at); d <= radius {
			shove(o, at, recoil*(1-d/(radius+1)))
		}
	}

	x := &Explosion{Owner: owner, Radius: radius, Damage: damage, hit: make(map[sim.Handle]bool)}
	e := sim.NewEntity(sim.KindExplosion, at, radius*2, radius*2)
	e.Lifetime = explosionLife
	e.Behavior = x
	e.On(sim.KindEnemy, x.blast)
	e.On(sim.KindHero, x.blast)
	e.On(sim.KindBoulder, x.push)
	e.On(sim.KindBomb, x.chain)
	w.Add(e)

	burst(w, at, burstExplosion, 0.25, core.ColorOrange)
	w.Play(SoundExplosion)
	return e
}

// Explosion is the short-lived area effect of a detonation.
type Explosion struct {
	Owner  sim.Handle
	Radius float64
	Damage float64

	hit map[sim.Handle]bool
}

// Action does nothing.
func (x *Explosion) Action(*sim.World, *sim.Entity) {}

// Destroy does nothing.
func (x *Explosion) Destroy(*sim.World, *sim.Entity) {}

// Draw fades the blast as it ends.
func (x *Explosion) Draw(e *sim.Entity) sim.Appearance {
	if e.Lifetime > explosionLife/2 {
		return sim.Appearance{Rune: '✶', Color: core.ColorBrightYellow}
	}
	return sim.Appearance{Rune: '*', Color: core.ColorOrange}
}

// inside reports whether o's center is within the blast circle.
func (x *Explosion) inside(self, o *sim.Entity) bool {
	return o.Pos.Dist(self.Pos) <= x.Radius
}

func (x *Explosion) blast(w *sim.World, self, o *sim.Entity) {
	if o.Handle() == x.Owner || x.hit[o.Handle()] || !x.inside(self, o) {
		return
	}
	x.hit[o.Handle()] = true
	if c, ok := creatureOf(o); ok {
		c.Damage(o, x.Damage)
	}
	shove(o, self.Pos, recoil)
}

func (x *Explosion) push(w *sim.World, self, o *sim.Entity) {
	if x.hit[o.Handle()] || !x.inside(self, o) {
		return
	}
	x.hit[o.Handle()] = true
	shove(o, self.Pos, recoil)
}

// chain sets off other bombs caught in the blast.
func (x *Explosion) chain(w *sim.World, self, o *sim.Entity) {
	if x.inside(self, o) {
		o.Kill()
	}
}
