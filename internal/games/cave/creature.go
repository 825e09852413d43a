package cave

import (
	"math"

	"github.com/vovakirdan/cavern/internal/core"
	"github.com/vovakirdan/cavern/internal/sim"
)

// DefaultMaxMagnitude caps the stacked strength of a single power-up when
// a creature sets no cap of its own.
const DefaultMaxMagnitude = 5

// Health below this counts as dead.
const deathThreshold = 0.01

// DefenseMultiplier scales incoming damage. It is 1.25 with no defense and
// falls toward 0.25 as defense grows, so it never equals 1 exactly.
func DefenseMultiplier(defense float64) float64 {
	return 0.25 + 1.0*math.Exp(-defense/5)
}

// Creature holds the combat stats shared by the hero and enemies.
type Creature struct {
	Health    float64
	MaxHealth float64
	Defense   float64

	ShootCooldown int // steps until the next shot
	BombCooldown  int // steps until the next bomb

	// PowerUps maps a power-up name to its accumulated magnitude, at most
	// MaxMagnitude.
	PowerUps     map[string]int
	MaxMagnitude int

	killed bool
}

// NewCreature returns a creature at full health.
func NewCreature(health, defense float64) Creature {
	return Creature{
		Health:    health,
		MaxHealth: health,
		Defense:   defense,
		PowerUps:  make(map[string]int),
	}
}

// Alive reports whether the creature has not died yet.
func (c *Creature) Alive() bool {
	return !c.killed
}

// Damage reduces health by amount scaled with DefenseMultiplier and returns
// the health actually lost. When health drops under the death threshold it
// becomes exactly 0 and e is flagged for deletion; this happens once.
func (c *Creature) Damage(e *sim.Entity, amount float64) float64 {
	if c.killed || amount <= 0 {
		return 0
	}

	before := c.Health
	c.Health = core.ClampF(c.Health-amount*DefenseMultiplier(c.Defense), 0, c.MaxHealth)
	if c.Health < deathThreshold {
		c.Health = 0
		c.killed = true
		e.Kill()
	}
	return before - c.Health
}

// Heal restores up to amount health without passing MaxHealth.
func (c *Creature) Heal(amount float64) {
	if c.killed || amount <= 0 {
		return
	}
	c.Health = core.ClampF(c.Health+amount, 0, c.MaxHealth)
}

// SetMaxHealth changes the health cap, clamping current health to it.
func (c *Creature) SetMaxHealth(max float64) {
	if max < 0 {
		max = 0
	}
	c.MaxHealth = max
	c.Health = core.ClampF(c.Health, 0, max)
}

// AddPowerUp raises the magnitude of a power-up by one, up to the cap.
// It returns the new magnitude and whether it changed.
func (c *Creature) AddPowerUp(name string) (int, bool) {
	if c.PowerUps == nil {
		c.PowerUps = make(map[string]int)
	}
	m := c.PowerUps[name]
	if m >= c.powerUpCap() {
		return m, false
	}
	m++
	c.PowerUps[name] = m
	return m, true
}

func (c *Creature) powerUpCap() int {
	if c.MaxMagnitude <= 0 {
		return DefaultMaxMagnitude
	}
	return c.MaxMagnitude
}

// tickCooldowns counts both cooldowns down by one step.
func (c *Creature) tickCooldowns() {
	if c.ShootCooldown > 0 {
		c.ShootCooldown--
	}
	if c.BombCooldown > 0 {
		c.BombCooldown--
	}
}
