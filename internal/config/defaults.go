package config

import (
	_ "embed"
)

//go:embed defaults/cave.yaml
var defaultCaveYAML []byte

// DefaultCaveConfig returns the default cave configuration.
func DefaultCaveConfig() CaveConfig {
	return CaveConfig{
		Terrain: TerrainConfig{
			Width:                96,
			Height:               64,
			Rules:                "cave",
			Edge:                 "alive",
			FillProbability:      0.45,
			Generations:          5,
			Border:               1,
			MinDurability:        1,
			MaxDurability:        3,
			IndestructibleChance: 0.04,
			CollectibleChance:    0.03,
		},
		World: WorldConfig{
			TileSize:  1,
			FarRadius: 48,
			Particles: 12,
		},
		Loop: LoopConfig{
			TickRate:   60,
			MaxFrameMS: 250,
		},
		Hero: HeroConfig{
			Health:       100,
			Defense:      0,
			Thrust:       0.02,
			MaxSpeed:     0.35,
			Drag:         0.08,
			Bounce:       0.3,
			Size:         0.7,
			FireCooldown: 10,
			BombCooldown: 45,
			Bombs:        3,
		},
		Enemies: EnemyConfig{
			Count:       12,
			TurretShare: 0.3,
			Drifter: DrifterConfig{
				Health:      30,
				Defense:     0,
				Thrust:      0.01,
				MaxSpeed:    0.15,
				Drag:        0.05,
				Sight:       12,
				TouchDamage: 8,
				Reward:      15,
			},
			Turret: TurretConfig{
				Health:       45,
				Defense:      2,
				FireCooldown: 50,
				Range:        14,
				Damage:       10,
				Reward:       30,
			},
		},
		Weapons: WeaponConfig{
			BulletSpeed:    0.6,
			BulletLifetime: 60,
			BulletDamage:   12,
			DigPower:       1,
			BombFuse:       90,
			BombRadius:     3,
			BombDamage:     60,
			BombDig:        3,
		},
		PowerUps: PowerUpConfig{
			DropChance:   0.35,
			MaxMagnitude: 5,
			Lifetime:     900,
			Types: []PowerUpType{
				{Name: "vitality", Stat: "max_health", Amount: 20, Weight: 3, Symbol: "+"},
				{Name: "armor", Stat: "defense", Amount: 1.5, Weight: 3, Symbol: "A"},
				{Name: "rapid", Stat: "fire_rate", Amount: 1, Weight: 2, Symbol: "R"},
				{Name: "power", Stat: "damage", Amount: 4, Weight: 2, Symbol: "P"},
				{Name: "boots", Stat: "speed", Amount: 0.04, Weight: 2, Symbol: "S"},
				{Name: "blast", Stat: "bomb_radius", Amount: 0.75, Weight: 1, Symbol: "B"},
				{Name: "drill", Stat: "piercing", Amount: 1, Weight: 1, Symbol: "D"},
				{Name: "nova", Stat: "explosive", Amount: 0.5, Weight: 1, Symbol: "N"},
			},
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.3,
			Progression: ProgressionConfig{
				Type:  "depth",
				MaxAt: 10,
			},
			Scaling: ScalingConfig{
				EnemyMultiplier:  1.0,
				SpeedMultiplier:  0.5,
				DamageMultiplier: 0.75,
				FillIncrease:     0.05,
			},
		},
	}
}
