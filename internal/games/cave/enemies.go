package cave

import (
	"math"

	"github.com/vovakirdan/cavern/internal/config"
	"github.com/vovakirdan/cavern/internal/core"
	"github.com/vovakirdan/cavern/internal/sim"
)

const (
	enemySize     = 0.8
	touchCooldown = 30 // steps between two touch hits from the same drifter
	wanderSteps   = 90
	losStep       = 0.5 // sampling distance for line-of-sight checks, in tiles
)

// enemy is the part shared by every enemy behavior: stats, bounty, and the
// death handling.
type enemy struct {
	Creature
	Reward int

	level *Level
}

// Destroy pays out the bounty and maybe drops a power-up.
func (en *enemy) Destroy(w *sim.World, e *sim.Entity) {
	if en.Health > 0 {
		// Removed without dying, e.g. culled.
		return
	}
	en.level.award(en.Reward)
	burst(w, e.Pos, burstEnemy, 0.2, core.ColorRed)
	w.Play(SoundDeath)

	pc := en.level.cfg.PowerUps
	if en.level.drops == nil || en.level.drops.Len() == 0 || w.Rand().Float64() >= pc.DropChance {
		return
	}
	t, err := en.level.drops.Pick(w.Rand())
	if err != nil {
		return
	}
	SpawnPowerUp(w, e.Pos, t, pc.Lifetime)
}

// Drifter wanders the cave and homes in on the hero when it sees it.
// Touching the hero hurts it.
type Drifter struct {
	enemy

	Thrust      float64
	Sight       float64
	TouchDamage float64

	touch  int
	wander core.Vec
	turn   int
}

// SpawnDrifter adds a drifter at pos, scaled by the level difficulty.
func SpawnDrifter(w *sim.World, l *Level, pos core.Vec) *sim.Entity {
	dc := l.cfg.Enemies.Drifter
	d := &Drifter{
		enemy:       enemy{Creature: NewCreature(dc.Health, dc.Defense), Reward: dc.Reward, level: l},
		Thrust:      dc.Thrust * l.enemySpeed,
		Sight:       dc.Sight,
		TouchDamage: dc.TouchDamage * l.enemyDamage,
	}

	e := sim.NewEntity(sim.KindEnemy, pos, enemySize, enemySize)
	e.Walls = true
	e.Drag = dc.Drag
	e.Bounce = 0.5
	e.MaxVel = dc.MaxSpeed * l.enemySpeed
	e.Far = sim.FarDeactivate
	e.Behavior = d
	e.On(sim.KindHero, d.touchHero)
	e.On(sim.KindBoulder, func(w *sim.World, self, other *sim.Entity) {
		w.PushOut(self, other)
	})
	w.Add(e)
	return e
}

// Action steers toward the hero when it is in sight, otherwise wanders.
func (d *Drifter) Action(w *sim.World, e *sim.Entity) {
	d.tickCooldowns()
	if d.touch > 0 {
		d.touch--
	}

	if h, ok := d.level.heroEntity(w); ok && h.Pos.Dist(e.Pos) <= d.Sight {
		if dir := h.Pos.Sub(e.Pos); !dir.IsZero() {
			e.Acc = dir.Norm().Mult(d.Thrust)
			return
		}
	}

	if d.turn <= 0 {
		d.wander = core.FromAngle(w.Rand().Float64()*2*math.Pi, 1)
		d.turn = wanderSteps
	}
	d.turn--
	e.Acc = d.wander.Mult(d.Thrust * 0.5)
}

func (d *Drifter) touchHero(w *sim.World, self, hero *sim.Entity) {
	if d.touch > 0 {
		return
	}
	c, ok := creatureOf(hero)
	if !ok {
		return
	}
	c.Damage(hero, d.TouchDamage)
	d.touch = touchCooldown
	w.Play(SoundHurt)
}

// Draw tints the drifter as it loses health.
func (d *Drifter) Draw(*sim.Entity) sim.Appearance {
	c := core.ColorBrightRed
	if d.Health < d.MaxHealth/2 {
		c = core.ColorRed
	}
	return sim.Appearance{Rune: 'ж', Color: c}
}

// Turret sits still and shoots at the hero when it has a clear line.
type Turret struct {
	enemy

	Range        float64
	ShotDamage   float64
	FireCooldown int
}

// SpawnTurret adds a turret at pos, scaled by the level difficulty.
func SpawnTurret(w *sim.World, l *Level, pos core.Vec) *sim.Entity {
	tc := l.cfg.Enemies.Turret
	t := &Turret{
		enemy:        enemy{Creature: NewCreature(tc.Health, tc.Defense), Reward: tc.Reward, level: l},
		Range:        tc.Range,
		ShotDamage:   tc.Damage * l.enemyDamage,
		FireCooldown: max(1, int(math.Round(float64(tc.FireCooldown)/l.enemySpeed))),
	}
	// Stagger the first shots so turrets do not fire in unison.
	t.ShootCooldown = w.Rand().Intn(t.FireCooldown + 1)

	e := sim.NewEntity(sim.KindEnemy, pos, enemySize, enemySize)
	e.Drag = 1 // anchored: blasts cannot move it
	e.Far = sim.FarDeactivate
	e.Behavior = t
	w.Add(e)
	return e
}

// Action fires at the hero when it is in range and visible.
func (t *Turret) Action(w *sim.World, e *sim.Entity) {
	t.tickCooldowns()
	if t.ShootCooldown > 0 {
		return
	}
	h, ok := t.level.heroEntity(w)
	if !ok || h.Pos.Dist(e.Pos) > t.Range || !lineOfSight(w, e.Pos, h.Pos) {
		return
	}

	wc := t.level.cfg.Weapons
	FireBullet(w, e, sim.KindEnemyBullet, h.Pos.Sub(e.Pos), wc.BulletSpeed*0.5, wc.BulletLifetime, &Bullet{Damage: t.ShotDamage})
	t.ShootCooldown = t.FireCooldown
	w.Play(SoundShoot)
}

// Draw shows the turret charging before it fires.
func (t *Turret) Draw(*sim.Entity) sim.Appearance {
	if t.ShootCooldown < 10 {
		return sim.Appearance{Rune: 'Ψ', Color: core.ColorBrightMagenta}
	}
	return sim.Appearance{Rune: 'Ψ', Color: core.ColorMagenta}
}

// lineOfSight reports whether no solid tile lies on the segment from a to b.
func lineOfSight(w *sim.World, a, b core.Vec) bool {
	d := a.Dist(b)
	step := losStep * w.Config().TileSize
	n := int(math.Ceil(d / step))
	for i := 1; i < n; i++ {
		cx, cy := w.CellOf(a.Lerp(b, float64(i)/float64(n)))
		if w.IsSolid(cx, cy) {
			return false
		}
	}
	return true
}

// newLevelEnemy picks the enemy type for one spawn slot.
func newLevelEnemy(w *sim.World, l *Level, pos core.Vec, ec config.EnemyConfig) *sim.Entity {
	if w.Rand().Float64() < ec.TurretShare {
		return SpawnTurret(w, l, pos)
	}
	return SpawnDrifter(w, l, pos)
}
