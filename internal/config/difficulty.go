package config

import "math"

// DifficultyManager turns progress through the cave into a difficulty
// level in [InitialLevel, 1] and scales level parameters by it.
type DifficultyManager struct {
	cfg  DifficultyConfig
	base float64
}

func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{cfg: cfg, base: clamp01(cfg.InitialLevel)}
}

// SetEnabled switches progression on or off. When off the level stays at
// the initial level.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// Level is the difficulty at a depth (1 for the first cave) and score. It
// rises linearly from the initial level and reaches 1 at Progression.MaxAt.
func (d *DifficultyManager) Level(depth, score int) float64 {
	if !d.cfg.Enabled {
		return d.base
	}

	var reached float64
	switch d.cfg.Progression.Type {
	case "depth":
		reached = float64(depth - 1)
	case "score":
		reached = float64(score)
	default:
		return d.base
	}
	progress := clamp01(reached / float64(max(d.cfg.Progression.MaxAt, 1)))
	return d.base + progress*(1-d.base)
}

// EnemyCount is base plus EnemyMultiplier times base extra enemies at full
// difficulty.
func (d *DifficultyManager) EnemyCount(base, depth, score int) int {
	extra := float64(base) * d.Level(depth, score) * d.cfg.Scaling.EnemyMultiplier
	return base + int(math.Round(extra))
}

func (d *DifficultyManager) Speed(base float64, depth, score int) float64 {
	return base * (1 + d.Level(depth, score)*d.cfg.Scaling.SpeedMultiplier)
}

func (d *DifficultyManager) Damage(base float64, depth, score int) float64 {
	return base * (1 + d.Level(depth, score)*d.cfg.Scaling.DamageMultiplier)
}

// FillProbability thickens the cave with difficulty, capped at 0.6 so a
// level stays open enough to cross.
func (d *DifficultyManager) FillProbability(base float64, depth, score int) float64 {
	return math.Min(math.Max(base+d.Level(depth, score)*d.cfg.Scaling.FillIncrease, 0), 0.6)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
