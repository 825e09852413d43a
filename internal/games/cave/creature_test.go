package cave

import (
	"math"
	"testing"

	"github.com/vovakirdan/cavern/internal/config"
	"github.com/vovakirdan/cavern/internal/core"
	"github.com/vovakirdan/cavern/internal/sim"
)

func TestDefenseMultiplier(t *testing.T) {
	if got := DefenseMultiplier(0); math.Abs(got-1.25) > 1e-12 {
		t.Errorf("DefenseMultiplier(0) = %v, expected 1.25", got)
	}
	if got := DefenseMultiplier(100); math.Abs(got-0.25) > 1e-6 {
		t.Errorf("DefenseMultiplier(100) = %v, expected about 0.25", got)
	}

	prev := DefenseMultiplier(0)
	for d := 0.5; d <= 50; d += 0.5 {
		m := DefenseMultiplier(d)
		if m >= prev {
			t.Fatalf("DefenseMultiplier not decreasing at %v: %v >= %v", d, m, prev)
		}
		if m <= 0.25 {
			t.Fatalf("DefenseMultiplier(%v) = %v, expected above 0.25", d, m)
		}
		prev = m
	}
}

func TestCreatureDamage(t *testing.T) {
	e := sim.NewEntity(sim.KindEnemy, core.Zero, 1, 1)
	c := NewCreature(100, 0)

	lost := c.Damage(e, 40)
	if c.Health <= 0 || c.Health >= 100-40 {
		t.Errorf("Health after 40 damage = %v, expected in (0, 60)", c.Health)
	}
	if math.Abs(c.Health-50) > 1e-9 || math.Abs(lost-50) > 1e-9 {
		t.Errorf("Health = %v, lost = %v, expected 50 and 50", c.Health, lost)
	}
	if e.Dead() {
		t.Error("entity should not be flagged after non-lethal damage")
	}

	c.Damage(e, 39.995)
	if c.Health != 0 {
		t.Errorf("Health after crossing threshold = %v, expected exactly 0", c.Health)
	}
	if !e.Dead() || c.Alive() {
		t.Error("lethal damage should flag the entity and the creature")
	}

	if lost := c.Damage(e, 10); lost != 0 {
		t.Errorf("Damage() after death = %v, expected 0", lost)
	}
}

func TestCreatureDeathThreshold(t *testing.T) {
	tests := []struct {
		name   string
		health float64
		damage float64 // raw damage; defense 0 scales it by 1.25
		dead   bool
	}{
		{"leaves a sliver", 10, 7.99, false},
		{"under threshold", 10, 7.996, true},
		{"overkill", 10, 1000, true},
		{"no damage", 10, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := sim.NewEntity(sim.KindEnemy, core.Zero, 1, 1)
			c := NewCreature(tt.health, 0)
			c.Damage(e, tt.damage)
			if e.Dead() != tt.dead {
				t.Errorf("Dead() = %v, expected %v (health %v)", e.Dead(), tt.dead, c.Health)
			}
			if c.Health < 0 || c.Health > c.MaxHealth {
				t.Errorf("Health = %v out of [0, %v]", c.Health, c.MaxHealth)
			}
			if tt.dead && c.Health != 0 {
				t.Errorf("Health = %v, expected exactly 0", c.Health)
			}
		})
	}
}

func TestCreatureHealAndMax(t *testing.T) {
	e := sim.NewEntity(sim.KindHero, core.Zero, 1, 1)
	c := NewCreature(100, 0)
	c.Damage(e, 40)

	c.Heal(1000)
	if c.Health != 100 {
		t.Errorf("Heal() overflow: Health = %v, expected 100", c.Health)
	}

	c.SetMaxHealth(60)
	if c.Health != 60 {
		t.Errorf("SetMaxHealth(60): Health = %v, expected 60", c.Health)
	}
}

func TestAddPowerUpCap(t *testing.T) {
	tests := []struct {
		max  int
		want int
	}{
		{0, DefaultMaxMagnitude},
		{2, 2},
		{7, 7},
	}

	for _, tt := range tests {
		c := NewCreature(10, 0)
		c.MaxMagnitude = tt.max
		for i := 1; i <= tt.want; i++ {
			m, gained := c.AddPowerUp("armor")
			if m != i || !gained {
				t.Fatalf("max %d: AddPowerUp() #%d = %d, %v", tt.max, i, m, gained)
			}
		}
		if m, gained := c.AddPowerUp("armor"); m != tt.want || gained {
			t.Errorf("max %d: AddPowerUp() past cap = %d, %v, expected %d, false", tt.max, m, gained, tt.want)
		}
	}
}

func TestHeroApplyStacks(t *testing.T) {
	cfg := config.DefaultCaveConfig()
	cfg.PowerUps.MaxMagnitude = 3
	h := NewHero(cfg.Hero, cfg.Weapons, cfg.PowerUps.MaxMagnitude)
	e := sim.NewEntity(sim.KindHero, core.Zero, 1, 1)

	types := make(map[string]config.PowerUpType)
	for _, p := range cfg.PowerUps.Types {
		types[p.Stat] = p
	}

	for range 5 {
		h.Apply(e, types["piercing"])
		h.Apply(e, types["defense"])
		h.Apply(e, types["explosive"])
	}

	if h.OnHit.Len() != 1 {
		t.Errorf("OnHit.Len() = %d, expected one entry for repeated pickups", h.OnHit.Len())
	}
	if m, _ := h.OnHit.Magnitude(types["piercing"].Name); m != 3 {
		t.Errorf("piercing magnitude = %d, expected 3", m)
	}
	if m, _ := h.OnDestroy.Magnitude(types["explosive"].Name); m != 3 {
		t.Errorf("explosive magnitude = %d, expected 3", m)
	}
	want := cfg.Hero.Defense + 3*types["defense"].Amount
	if math.Abs(h.Defense-want) > 1e-9 {
		t.Errorf("Defense = %v, expected %v", h.Defense, want)
	}
}

func TestHeroApplyStats(t *testing.T) {
	cfg := config.DefaultCaveConfig()

	tests := []struct {
		stat  string
		check func(h *Hero, e *sim.Entity) bool
	}{
		{"max_health", func(h *Hero, _ *sim.Entity) bool { return h.MaxHealth > cfg.Hero.Health && h.Health == h.MaxHealth }},
		{"fire_rate", func(h *Hero, _ *sim.Entity) bool { return h.FireCooldown < cfg.Hero.FireCooldown }},
		{"damage", func(h *Hero, _ *sim.Entity) bool { return h.BulletDamage > cfg.Weapons.BulletDamage }},
		{"speed", func(h *Hero, e *sim.Entity) bool { return h.MaxSpeed > cfg.Hero.MaxSpeed && e.MaxVel == h.MaxSpeed }},
		{"bomb_radius", func(h *Hero, _ *sim.Entity) bool { return h.BombRadius > cfg.Weapons.BombRadius }},
	}

	for _, tt := range tests {
		t.Run(tt.stat, func(t *testing.T) {
			h := NewHero(cfg.Hero, cfg.Weapons, cfg.PowerUps.MaxMagnitude)
			e := sim.NewEntity(sim.KindHero, core.Zero, 1, 1)
			for _, p := range cfg.PowerUps.Types {
				if p.Stat == tt.stat {
					h.Apply(e, p)
				}
			}
			if !tt.check(h, e) {
				t.Errorf("power-up for %s had no effect: %+v", tt.stat, h)
			}
		})
	}
}
