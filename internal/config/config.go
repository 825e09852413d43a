// Package config provides YAML-based game configuration loading and
// difficulty management for the cave game.
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vovakirdan/cavern/internal/terrain"
)

// CaveConfig contains all configuration for the cave game.
type CaveConfig struct {
	Terrain    TerrainConfig    `yaml:"terrain"`
	World      WorldConfig      `yaml:"world"`
	Loop       LoopConfig       `yaml:"loop"`
	Hero       HeroConfig       `yaml:"hero"`
	Enemies    EnemyConfig      `yaml:"enemies"`
	Weapons    WeaponConfig     `yaml:"weapons"`
	PowerUps   PowerUpConfig    `yaml:"powerups"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// TerrainConfig defines cave generation parameters.
type TerrainConfig struct {
	Width           int      `yaml:"width"`
	Height          int      `yaml:"height"`
	Rules           string   `yaml:"rules"`      // preset name: cave, life, maze
	RuleTable       []string `yaml:"rule_table"` // explicit table, overrides Rules
	Edge            string   `yaml:"edge"`       // wrap, alive, dead
	FillProbability float64  `yaml:"fill_probability"`
	Generations     int      `yaml:"generations"`
	Border          int      `yaml:"border"`

	MinDurability        int     `yaml:"min_durability"`
	MaxDurability        int     `yaml:"max_durability"`
	IndestructibleChance float64 `yaml:"indestructible_chance"`
	CollectibleChance    float64 `yaml:"collectible_chance"`
}

// WorldConfig defines simulation-wide settings.
type WorldConfig struct {
	TileSize  float64 `yaml:"tile_size"`
	FarRadius float64 `yaml:"far_radius"`
	Particles int     `yaml:"particles"` // particles per explosion; other bursts scale from it, 0 turns them off
}

// LoopConfig defines the fixed-step scheduler.
type LoopConfig struct {
	TickRate   int `yaml:"tick_rate"`
	MaxFrameMS int `yaml:"max_frame_ms"`
}

// HeroConfig defines the player creature.
type HeroConfig struct {
	Health       float64 `yaml:"health"`
	Defense      float64 `yaml:"defense"`
	Thrust       float64 `yaml:"thrust"`
	MaxSpeed     float64 `yaml:"max_speed"`
	Drag         float64 `yaml:"drag"`
	Bounce       float64 `yaml:"bounce"`
	Size         float64 `yaml:"size"`
	FireCooldown int     `yaml:"fire_cooldown"`
	BombCooldown int     `yaml:"bomb_cooldown"`
	Bombs        int     `yaml:"bombs"`
}

// EnemyConfig defines enemy population and stats.
type EnemyConfig struct {
	Count       int           `yaml:"count"`
	TurretShare float64       `yaml:"turret_share"`
	Drifter     DrifterConfig `yaml:"drifter"`
	Turret      TurretConfig  `yaml:"turret"`
}

// DrifterConfig defines the wandering melee enemy.
type DrifterConfig struct {
	Health      float64 `yaml:"health"`
	Defense     float64 `yaml:"defense"`
	Thrust      float64 `yaml:"thrust"`
	MaxSpeed    float64 `yaml:"max_speed"`
	Drag        float64 `yaml:"drag"`
	Sight       float64 `yaml:"sight"`
	TouchDamage float64 `yaml:"touch_damage"`
	Reward      int     `yaml:"reward"`
}

// TurretConfig defines the stationary shooting enemy.
type TurretConfig struct {
	Health       float64 `yaml:"health"`
	Defense      float64 `yaml:"defense"`
	FireCooldown int     `yaml:"fire_cooldown"`
	Range        float64 `yaml:"range"`
	Damage       float64 `yaml:"damage"`
	Reward       int     `yaml:"reward"`
}

// WeaponConfig defines bullets and bombs.
type WeaponConfig struct {
	BulletSpeed    float64 `yaml:"bullet_speed"`
	BulletLifetime int     `yaml:"bullet_lifetime"`
	BulletDamage   float64 `yaml:"bullet_damage"`
	DigPower       int     `yaml:"dig_power"`
	BombFuse       int     `yaml:"bomb_fuse"`
	BombRadius     float64 `yaml:"bomb_radius"`
	BombDamage     float64 `yaml:"bomb_damage"`
	BombDig        int     `yaml:"bomb_dig"`
}

// PowerUpConfig defines drop rates and the data-driven power-up catalog.
type PowerUpConfig struct {
	DropChance   float64       `yaml:"drop_chance"`
	MaxMagnitude int           `yaml:"max_magnitude"`
	Lifetime     int           `yaml:"lifetime"`
	Types        []PowerUpType `yaml:"types"`
}

// PowerUpType is one entry of the power-up catalog.
type PowerUpType struct {
	Name   string  `yaml:"name"`
	Stat   string  `yaml:"stat"`   // which hero stat the effect modifies
	Amount float64 `yaml:"amount"` // change per magnitude level
	Weight float64 `yaml:"weight"` // relative drop weight
	Symbol string  `yaml:"symbol"`
}

// Automaton resolves the rule table and edge policy the terrain settings
// name. An explicit rule_table wins over the rules preset.
func (t TerrainConfig) Automaton() (terrain.Rules, terrain.EdgePolicy, error) {
	var rules terrain.Rules
	if len(t.RuleTable) > 0 {
		parsed, err := terrain.ParseRules(t.RuleTable)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: rule_table: %w", ErrInvalid, err)
		}
		rules = parsed
	} else {
		preset, ok := terrain.PresetRules(t.Rules)
		if !ok {
			return nil, 0, fmt.Errorf("%w: unknown rules preset %q (expected cave, life, or maze)", ErrInvalid, t.Rules)
		}
		rules = preset
	}
	edge, err := terrain.ParseEdgePolicy(t.Edge)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return rules, edge, nil
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "depth", "score", or "none"
	MaxAt int    `yaml:"max_at"` // depth/score at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	EnemyMultiplier  float64 `yaml:"enemy_multiplier"`  // extra enemies at max difficulty, as a fraction of the base count
	SpeedMultiplier  float64 `yaml:"speed_multiplier"`  // extra enemy speed at max difficulty
	DamageMultiplier float64 `yaml:"damage_multiplier"` // extra enemy damage at max difficulty
	FillIncrease     float64 `yaml:"fill_increase"`     // extra terrain fill at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a flag value into a preset.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	case "":
		return DifficultyNormal, nil
	}
	return "", fmt.Errorf("unknown difficulty %q (expected easy, normal, hard, or fixed)", s)
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks values the game cannot run without.
func (c CaveConfig) Validate() error {
	switch {
	case c.Terrain.Width < 8 || c.Terrain.Height < 8:
		return fmt.Errorf("%w: terrain must be at least 8x8, got %dx%d", ErrInvalid, c.Terrain.Width, c.Terrain.Height)
	case c.World.TileSize <= 0:
		return fmt.Errorf("%w: tile_size must be positive", ErrInvalid)
	case c.Loop.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate must be positive", ErrInvalid)
	case c.Hero.Health <= 0:
		return fmt.Errorf("%w: hero health must be positive", ErrInvalid)
	case c.Weapons.BulletLifetime <= 0:
		return fmt.Errorf("%w: bullet_lifetime must be positive", ErrInvalid)
	case c.Enemies.Count < 1:
		return fmt.Errorf("%w: enemies count must be at least 1, got %d", ErrInvalid, c.Enemies.Count)
	case c.World.Particles < 0:
		return fmt.Errorf("%w: particles must not be negative", ErrInvalid)
	case c.PowerUps.MaxMagnitude < 1:
		return fmt.Errorf("%w: power-up max_magnitude must be at least 1", ErrInvalid)
	}
	if _, _, err := c.Terrain.Automaton(); err != nil {
		return err
	}
	for _, p := range c.PowerUps.Types {
		if p.Weight <= 0 {
			return fmt.Errorf("%w: power-up %q has non-positive weight", ErrInvalid, p.Name)
		}
		if !slices.Contains(PowerUpStats, p.Stat) {
			return fmt.Errorf("%w: power-up %q modifies unknown stat %q", ErrInvalid, p.Name, p.Stat)
		}
	}
	return nil
}

// PowerUpStats lists the hero stats a power-up may modify.
var PowerUpStats = []string{
	"max_health",
	"defense",
	"fire_rate",
	"damage",
	"speed",
	"bomb_radius",
	"piercing",
	"explosive",
}
