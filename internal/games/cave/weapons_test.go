package cave

import (
	"testing"

	"github.com/vovakirdan/cavern/internal/config"
	"github.com/vovakirdan/cavern/internal/core"
	"github.com/vovakirdan/cavern/internal/sim"
	"github.com/vovakirdan/cavern/internal/terrain"
)

func testLevel() *Level {
	cfg := config.DefaultCaveConfig()
	return &Level{Depth: 1, cfg: &cfg, enemySpeed: 1, enemyDamage: 1}
}

// owner adds a behaviorless entity to act as a shooter.
func owner(w *sim.World, pos core.Vec) *sim.Entity {
	e := sim.NewEntity(sim.KindHero, pos, 0.5, 0.5)
	w.Add(e)
	return e
}

func runSteps(w *sim.World, n int) {
	for range n {
		w.Step()
	}
}

func TestBulletDigsBlockAndReleasesGem(t *testing.T) {
	g := terrain.ParseGrid([]string{
		"#######",
		"#....##",
		"#######",
	})
	tr := terrain.FromGrid(g, 3)
	tr.Blocks.Set(5, 1, terrain.Block{Durability: 1, Collectible: terrain.CollectibleGold, Reward: 10})
	w := sim.New(tr, sim.DefaultConfig())

	shooter := owner(w, core.V(1.5, 1.5))
	FireBullet(w, shooter, sim.KindHeroBullet, core.V(1, 0), 0.3, 60, &Bullet{Damage: 1, Dig: 1})

	runSteps(w, 20)

	if tr.Solid(5, 1) {
		t.Error("block hit by the bullet should be dug out")
	}
	if !tr.Solid(6, 1) {
		t.Error("block behind the target should be untouched")
	}
	if n := len(w.Query(sim.KindHeroBullet)); n != 0 {
		t.Errorf("bullets alive = %d, expected 0", n)
	}
	gems := w.Query(sim.KindGem)
	if len(gems) != 1 {
		t.Fatalf("gems = %d, expected 1", len(gems))
	}
	if gem := gems[0].Behavior.(*Gem); gem.Reward != 10 || gem.Collectible != terrain.CollectibleGold {
		t.Errorf("gem = %+v, expected gold worth 10", gem)
	}
	if err := tr.Validate(); err != nil {
		t.Errorf("terrain invalid after digging: %v", err)
	}
}

func TestBulletWithoutDigStops(t *testing.T) {
	g := terrain.ParseGrid([]string{
		"#####",
		"#...#",
		"#####",
	})
	tr := terrain.FromGrid(g, 1)
	w := sim.New(tr, sim.DefaultConfig())

	shooter := owner(w, core.V(1.5, 1.5))
	FireBullet(w, shooter, sim.KindEnemyBullet, core.V(1, 0), 0.3, 60, &Bullet{Damage: 1})
	runSteps(w, 15)

	if !tr.Solid(4, 1) {
		t.Error("a bullet with no dig power must not break blocks")
	}
	if n := len(w.Query(sim.KindEnemyBullet)); n != 0 {
		t.Errorf("bullets alive = %d, expected 0", n)
	}
}

func TestBulletPiercing(t *testing.T) {
	tests := []struct {
		name        string
		pierce      int
		firstHealth float64
		lastHealth  float64
	}{
		{"plain", 0, 15, 30},
		{"piercing", 1, 15, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := sim.New(nil, sim.DefaultConfig())
			l := testLevel()
			first := SpawnDrifter(w, l, core.V(4.5, 1.5))
			last := SpawnDrifter(w, l, core.V(6.5, 1.5))
			for _, e := range []*sim.Entity{first, last} {
				e.Behavior.(*Drifter).Thrust = 0 // hold still
			}

			b := &Bullet{Damage: 12}
			if tt.pierce > 0 {
				b.OnHit.Upsert("drill", tt.pierce, piercing)
			}
			FireBullet(w, owner(w, core.V(1.5, 1.5)), sim.KindHeroBullet, core.V(1, 0), 0.3, 60, b)
			runSteps(w, 30)

			if got := first.Behavior.(*Drifter).Health; got != tt.firstHealth {
				t.Errorf("first Health = %v, expected %v", got, tt.firstHealth)
			}
			if got := last.Behavior.(*Drifter).Health; got != tt.lastHealth {
				t.Errorf("last Health = %v, expected %v", got, tt.lastHealth)
			}
		})
	}
}

func TestBombFuse(t *testing.T) {
	w := sim.New(nil, sim.DefaultConfig())
	shooter := owner(w, core.V(5, 5))
	ThrowBomb(w, shooter, core.Zero, 5, &Bomb{Radius: 2, Damage: 10})

	runSteps(w, 4)
	if len(w.Query(sim.KindBomb)) != 1 || len(w.Query(sim.KindExplosion)) != 0 {
		t.Fatal("bomb should still be ticking after 4 steps")
	}

	runSteps(w, 1)
	if len(w.Query(sim.KindBomb)) != 0 {
		t.Error("bomb should be gone once its fuse runs out")
	}
	if len(w.Query(sim.KindExplosion)) != 1 {
		t.Error("detonation should spawn an explosion")
	}
}

func TestBurstSizeFollowsConfig(t *testing.T) {
	tests := []struct {
		particles int
		explosion int
		enemy     int
	}{
		{0, 0, 0},
		{8, 8, 6},
		{12, 12, 9},
	}

	for _, tt := range tests {
		cfg := sim.DefaultConfig()
		cfg.Particles = tt.particles
		w := sim.New(nil, cfg)

		Detonate(w, core.V(5, 5), 0, 2, 10, 0)
		if got := len(w.Particles()); got != tt.explosion {
			t.Errorf("particles %d: explosion burst = %d, expected %d", tt.particles, got, tt.explosion)
		}

		before := len(w.Particles())
		burst(w, core.V(5, 5), burstEnemy, 0.2, core.ColorRed)
		if got := len(w.Particles()) - before; got != tt.enemy {
			t.Errorf("particles %d: enemy burst = %d, expected %d", tt.particles, got, tt.enemy)
		}
	}
}

func TestDetonateDigsRadius(t *testing.T) {
	rows := make([]string, 9)
	for i := range rows {
		rows[i] = "#########"
	}
	tr := terrain.FromGrid(terrain.ParseGrid(rows), 1)
	w := sim.New(tr, sim.DefaultConfig())

	Detonate(w, core.V(4.5, 4.5), 0, 2, 10, 1)

	tests := []struct {
		x, y  int
		solid bool
	}{
		{4, 4, false},
		{4, 2, false}, // distance 2
		{6, 4, false},
		{4, 1, true}, // distance 3
		{2, 2, true}, // distance 2.83
		{0, 0, true},
	}
	for _, tt := range tests {
		if got := tr.Solid(tt.x, tt.y); got != tt.solid {
			t.Errorf("Solid(%d, %d) = %v, expected %v", tt.x, tt.y, got, tt.solid)
		}
	}
	if err := tr.Validate(); err != nil {
		t.Errorf("terrain invalid after blast: %v", err)
	}
}

func TestExplosionSparesOwner(t *testing.T) {
	w := sim.New(nil, sim.DefaultConfig())
	l := testLevel()
	hero := NewHero(l.cfg.Hero, l.cfg.Weapons, l.cfg.PowerUps.MaxMagnitude)
	he := hero.Spawn(w, l, core.V(4.5, 5.5))
	target := SpawnDrifter(w, l, core.V(5.5, 4.5))
	bystander := SpawnDrifter(w, l, core.V(12.5, 4.5))

	Detonate(w, core.V(4.5, 4.5), he.Handle(), 2, 60, 0)
	runSteps(w, 1)

	if hero.Health != hero.MaxHealth {
		t.Errorf("owner Health = %v, expected untouched %v", hero.Health, hero.MaxHealth)
	}
	if _, ok := w.Lookup(target.Handle()); ok {
		t.Error("drifter inside the blast should be destroyed")
	}
	if d := bystander.Behavior.(*Drifter); d.Health != d.MaxHealth {
		t.Errorf("bystander Health = %v, expected %v", d.Health, d.MaxHealth)
	}
	if hero.Score != l.cfg.Enemies.Drifter.Reward {
		t.Errorf("Score = %d, expected bounty %d", hero.Score, l.cfg.Enemies.Drifter.Reward)
	}
}

func TestDetonateToleratesMissingOwner(t *testing.T) {
	w := sim.New(nil, sim.DefaultConfig())
	shooter := owner(w, core.V(1, 1))
	h := shooter.Handle()
	shooter.Kill()
	runSteps(w, 1)

	if e := Detonate(w, core.V(1, 1), h, 1, 5, 0); e == nil {
		t.Fatal("Detonate() with a removed owner returned nil")
	}
	runSteps(w, 1)
}

func TestHeroCollectsPickups(t *testing.T) {
	w := sim.New(nil, sim.DefaultConfig())
	l := testLevel()
	hero := NewHero(l.cfg.Hero, l.cfg.Weapons, l.cfg.PowerUps.MaxMagnitude)
	hero.Spawn(w, l, core.V(5.5, 5.5))

	armor := l.cfg.PowerUps.Types[1]
	SpawnPowerUp(w, core.V(5.5, 5.5), armor, 100)
	SpawnGem(w, core.V(5.5, 5.5), terrain.Block{Durability: 1, Collectible: terrain.CollectibleGem, Reward: 25})
	runSteps(w, 1)

	if hero.PowerUps[armor.Name] != 1 {
		t.Errorf("PowerUps[%s] = %d, expected 1", armor.Name, hero.PowerUps[armor.Name])
	}
	if hero.Score != 25 {
		t.Errorf("Score = %d, expected 25", hero.Score)
	}
	if len(w.Query(sim.KindPowerUp))+len(w.Query(sim.KindGem)) != 0 {
		t.Error("collected pickups should be removed")
	}
}

func TestSpawnGemNeedsCollectible(t *testing.T) {
	w := sim.New(nil, sim.DefaultConfig())
	if _, ok := SpawnGem(w, core.Zero, terrain.Block{Durability: 2}); ok {
		t.Error("SpawnGem() of a plain block should spawn nothing")
	}
	if w.Count() != 0 {
		t.Errorf("Count() = %d, expected 0", w.Count())
	}
}

func TestDrifterTouchHurtsHero(t *testing.T) {
	w := sim.New(nil, sim.DefaultConfig())
	l := testLevel()
	hero := NewHero(l.cfg.Hero, l.cfg.Weapons, l.cfg.PowerUps.MaxMagnitude)
	hero.Spawn(w, l, core.V(5.5, 5.5))
	d := SpawnDrifter(w, l, core.V(5.5, 5.5))
	drifter := d.Behavior.(*Drifter)

	runSteps(w, 1)
	want := hero.MaxHealth - drifter.TouchDamage*DefenseMultiplier(hero.Defense)
	if diff := hero.Health - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("hero Health = %v, expected %v after one touch", hero.Health, want)
	}
	if drifter.Health != drifter.MaxHealth {
		t.Error("the hero's touch reaction must not hurt the drifter")
	}
}
