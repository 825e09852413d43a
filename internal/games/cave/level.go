package cave

import (
	"github.com/vovakirdan/cavern/internal/chance"
	"github.com/vovakirdan/cavern/internal/config"
	"github.com/vovakirdan/cavern/internal/sim"
)

// Sound names passed to the audio collaborator.
const (
	SoundShoot     = "shoot"
	SoundHit       = "hit"
	SoundHurt      = "hurt"
	SoundExplosion = "explosion"
	SoundPickup    = "pickup"
	SoundCollect   = "collect"
	SoundDeath     = "death"
	SoundDescend   = "descend"
)

// Level is the context shared by every behavior in one cave.
type Level struct {
	Depth   int
	Enemies int // enemies spawned when the cave was built

	cfg         *config.CaveConfig
	hero        *Hero
	heroHandle  sim.Handle
	drops       *chance.Table[config.PowerUpType]
	enemySpeed  float64 // multiplier applied to enemy thrust and top speed
	enemyDamage float64 // multiplier applied to enemy damage
}

// heroEntity returns the live hero entity, if any.
func (l *Level) heroEntity(w *sim.World) (*sim.Entity, bool) {
	e, ok := w.Lookup(l.heroHandle)
	if !ok || e.Dead() || !e.Active {
		return nil, false
	}
	return e, true
}

// award adds points to the hero's score.
func (l *Level) award(points int) {
	if l.hero != nil && points > 0 {
		l.hero.Score += points
	}
}

// newDropTable builds the power-up chance table from the configured catalog.
func newDropTable(types []config.PowerUpType) (*chance.Table[config.PowerUpType], error) {
	t := chance.New[config.PowerUpType]()
	for _, p := range types {
		if err := t.Add(p, p.Weight); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// combatant is implemented by behaviors that carry creature stats.
type combatant interface {
	stats() *Creature
}

func (c *Creature) stats() *Creature { return c }

// creatureOf returns the creature stats behind an entity, if it has any.
func creatureOf(e *sim.Entity) (*Creature, bool) {
	c, ok := e.Behavior.(combatant)
	if !ok {
		return nil, false
	}
	return c.stats(), true
}
