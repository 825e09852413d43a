package cave

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cavern/internal/config"
	"github.com/vovakirdan/cavern/internal/core"
	"github.com/vovakirdan/cavern/internal/sim"
)

const (
	minFireCooldown = 2
	knockback       = 0.12
	boulderShove    = 0.5
)

// Hero is the player's creature. It outlives single caves: descending
// spawns a new entity driven by the same Hero.
type Hero struct {
	Creature

	Score  int
	Bombs  int
	Facing core.Vec

	Thrust       float64
	MaxSpeed     float64
	FireCooldown int
	BulletDamage float64
	BombRadius   float64

	// Hooks copied into every bullet and bomb the hero fires.
	OnHit     sim.Hooks[HitFunc]
	OnDestroy sim.Hooks[BurstFunc]

	level  *Level
	logger *log.Logger
}

// NewHero creates a hero from configuration. maxMagnitude caps every
// power-up the hero stacks; <= 0 means DefaultMaxMagnitude.
func NewHero(cfg config.HeroConfig, weapons config.WeaponConfig, maxMagnitude int) *Hero {
	c := NewCreature(cfg.Health, cfg.Defense)
	c.MaxMagnitude = maxMagnitude
	return &Hero{
		Creature:     c,
		Bombs:        cfg.Bombs,
		Facing:       core.V(1, 0),
		Thrust:       cfg.Thrust,
		MaxSpeed:     cfg.MaxSpeed,
		FireCooldown: cfg.FireCooldown,
		BulletDamage: weapons.BulletDamage,
		BombRadius:   weapons.BombRadius,
		OnHit:        sim.Hooks[HitFunc]{Max: c.powerUpCap()},
		OnDestroy:    sim.Hooks[BurstFunc]{Max: c.powerUpCap()},
		logger:       log.New(io.Discard),
	}
}

// Spawn adds an entity for the hero at pos and installs its reactions.
func (h *Hero) Spawn(w *sim.World, l *Level, pos core.Vec) *sim.Entity {
	h.level = l
	h.logger = w.Logger()

	hc := l.cfg.Hero
	e := sim.NewEntity(sim.KindHero, pos, hc.Size, hc.Size)
	e.Walls = true
	e.Drag = hc.Drag
	e.Bounce = hc.Bounce
	e.MaxVel = h.MaxSpeed
	e.Appearance = sim.Appearance{Rune: '@', Color: core.ColorBrightWhite}
	e.Behavior = h

	e.On(sim.KindPowerUp, h.collectPowerUp)
	e.On(sim.KindGem, h.collectGem)
	e.On(sim.KindBoulder, func(w *sim.World, self, other *sim.Entity) {
		vel := self.Vel
		if w.PushOut(self, other) {
			other.Vel = other.Vel.Add(vel.Mult(boulderShove))
		}
	})
	// Touching an enemy knocks the hero back; the damage comes from the
	// enemy's own reaction.
	e.On(sim.KindEnemy, func(w *sim.World, self, other *sim.Entity) {
		shove(self, other.Pos, knockback)
	})

	l.hero = h
	l.heroHandle = w.Add(e)
	return e
}

// Action turns input into thrust, shots, and bombs.
func (h *Hero) Action(w *sim.World, e *sim.Entity) {
	h.tickCooldowns()
	in := w.Input()

	e.Acc = core.Zero
	if move := in.Move(); !move.IsZero() {
		dir := move.Norm()
		e.Acc = dir.Mult(h.Thrust)
		h.Facing = dir
	}
	if aim := in.Aim(); !aim.IsZero() {
		h.Facing = aim.Norm()
	}
	e.MaxVel = h.MaxSpeed

	if in.Held(core.ActionFire) && h.ShootCooldown == 0 {
		h.fire(w, e)
		h.ShootCooldown = h.FireCooldown
	}
	if in.Pressed(core.ActionBomb) && h.BombCooldown == 0 && h.Bombs > 0 {
		h.throwBomb(w, e)
		h.BombCooldown = h.level.cfg.Hero.BombCooldown
	}
}

func (h *Hero) fire(w *sim.World, e *sim.Entity) {
	wc := h.level.cfg.Weapons
	b := &Bullet{
		Damage:    h.BulletDamage,
		Dig:       wc.DigPower,
		OnHit:     h.OnHit.Clone(),
		OnDestroy: h.OnDestroy.Clone(),
	}
	FireBullet(w, e, sim.KindHeroBullet, h.Facing, wc.BulletSpeed, wc.BulletLifetime, b)
	w.Play(SoundShoot)
}

func (h *Hero) throwBomb(w *sim.World, e *sim.Entity) {
	wc := h.level.cfg.Weapons
	h.Bombs--
	ThrowBomb(w, e, h.Facing, wc.BombFuse, &Bomb{
		Radius:     h.BombRadius,
		Damage:     wc.BombDamage,
		Dig:        wc.BombDig,
		OnDetonate: h.OnDestroy.Clone(),
	})
}

// Destroy scatters the hero.
func (h *Hero) Destroy(w *sim.World, e *sim.Entity) {
	burst(w, e.Pos, burstHero, 0.3, core.ColorBrightWhite)
	w.Play(SoundDeath)
	h.logger.Info("hero died", "depth", h.level.Depth, "score", h.Score)
}

func (h *Hero) collectPowerUp(w *sim.World, self, other *sim.Entity) {
	p, ok := other.Behavior.(*PowerUp)
	if !ok {
		return
	}
	h.Apply(self, p.Type)
	other.Kill()
	w.Play(SoundPickup)
}

func (h *Hero) collectGem(w *sim.World, self, other *sim.Entity) {
	g, ok := other.Behavior.(*Gem)
	if !ok {
		return
	}
	h.Score += g.Reward
	other.Kill()
	w.Play(SoundCollect)
}

// Apply raises the magnitude of a power-up and applies one level of its
// effect. Once a power-up reaches the hero's cap further pickups change
// nothing. It returns the magnitude after the pickup.
func (h *Hero) Apply(e *sim.Entity, t config.PowerUpType) int {
	m, gained := h.AddPowerUp(t.Name)
	if !gained {
		return m
	}

	switch t.Stat {
	case "max_health":
		h.SetMaxHealth(h.MaxHealth + t.Amount)
		h.Heal(t.Amount)
	case "defense":
		h.Defense += t.Amount
	case "fire_rate":
		h.FireCooldown = max(minFireCooldown, h.FireCooldown-int(t.Amount))
	case "damage":
		h.BulletDamage += t.Amount
	case "speed":
		h.MaxSpeed += t.Amount
		if e != nil {
			e.MaxVel = h.MaxSpeed
		}
	case "bomb_radius":
		h.BombRadius += t.Amount
		h.Bombs++
	case "piercing":
		h.OnHit.Upsert(t.Name, 1, piercing)
	case "explosive":
		h.OnDestroy.Upsert(t.Name, 1, explosive(t.Amount))
	default:
		h.logger.Warn("unknown power-up stat", "powerup", t.Name, "stat", t.Stat)
	}
	h.logger.Debug("power-up applied", "powerup", t.Name, "magnitude", m)
	return m
}

// piercing lets a bullet pass through one more target per magnitude.
func piercing(w *sim.World, b *Bullet, target *sim.Entity, magnitude int) bool {
	return b.Hits() <= magnitude
}

// explosive makes projectiles detonate where they end, with a radius of
// amount per magnitude. The blast neither digs nor hurts the shooter.
func explosive(amount float64) BurstFunc {
	return func(w *sim.World, at core.Vec, owner sim.Handle, magnitude int) {
		Detonate(w, at, owner, amount*float64(magnitude), 4*float64(magnitude), 0)
	}
}
