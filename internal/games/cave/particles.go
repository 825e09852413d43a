package cave

import (
	"math"

	"github.com/vovakirdan/cavern/internal/core"
	"github.com/vovakirdan/cavern/internal/sim"
)

// Particle lifetimes, in steps.
const (
	particleMinLife = 8
	particleMaxLife = 24
)

// Burst sizes as shares of the world's full-size burst.
const (
	burstExplosion = 1.0
	burstHero      = 1.5
	burstEnemy     = 0.75
	burstDig       = 0.25
)

// burst scatters share times the world's burst size of particles from at.
// Particles are cosmetic: they move and fade but never act or collide.
func burst(w *sim.World, at core.Vec, share, speed float64, color core.Color) {
	n := int(math.Round(share * float64(w.Config().Particles)))
	rng := w.Rand()
	for i := 0; i < n; i++ {
		p := sim.NewEntity(sim.KindParticle, at, 0, 0)
		p.Vel = core.FromAngle(rng.Float64()*2*math.Pi, speed*(0.3+0.7*rng.Float64()))
		p.Drag = 0.08
		p.Lifetime = particleMinLife + rng.Intn(particleMaxLife-particleMinLife+1)
		p.Appearance = sim.Appearance{Rune: '·', Color: color}
		w.AddParticle(p)
	}
}
