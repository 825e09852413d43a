package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/cavern/internal/terrain"
)

func TestEmbeddedMatchesDefaults(t *testing.T) {
	var cfg CaveConfig
	if err := yaml.Unmarshal(defaultCaveYAML, &cfg); err != nil {
		t.Fatalf("embedded yaml does not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultCaveConfig()) {
		t.Errorf("embedded yaml differs from DefaultCaveConfig()\n got: %+v\nwant: %+v", cfg, DefaultCaveConfig())
	}
}

func TestLoadCaveEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := LoadCave("")
	if err != nil {
		t.Fatalf("LoadCave() error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadCaveCustomPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cave.yaml")
	data := []byte("terrain:\n  width: 40\n  rules: maze\nhero:\n  bombs: 9\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadCave(path)
	if err != nil {
		t.Fatalf("LoadCave() error: %v", err)
	}
	if cfg.Terrain.Width != 40 || cfg.Terrain.Rules != "maze" || cfg.Hero.Bombs != 9 {
		t.Errorf("overrides not applied: %+v %+v", cfg.Terrain, cfg.Hero)
	}
	if cfg.Terrain.Height != 64 || cfg.Hero.Health != 100 {
		t.Errorf("unset keys lost their defaults: height=%d health=%v", cfg.Terrain.Height, cfg.Hero.Health)
	}
}

func TestLoadCaveErrors(t *testing.T) {
	if _, err := LoadCave(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadCave() of a missing file should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("world:\n  tile_size: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCave(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("LoadCave() error = %v, expected ErrInvalid", err)
	}
}

func TestValidatePowerUps(t *testing.T) {
	cfg := DefaultCaveConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg.PowerUps.Types = append(cfg.PowerUps.Types, PowerUpType{Name: "luck", Stat: "luck", Amount: 1, Weight: 1})
	if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Validate() with unknown stat = %v, expected ErrInvalid", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *CaveConfig)
	}{
		{"unknown rules preset", func(c *CaveConfig) { c.Terrain.Rules = "caves" }},
		{"unknown rule name", func(c *CaveConfig) {
			c.Terrain.RuleTable = []string{"die", "die", "die", "die", "stay", "both", "both", "both", "grow"}
		}},
		{"short rule table", func(c *CaveConfig) { c.Terrain.RuleTable = []string{"die", "stay", "both"} }},
		{"unknown edge", func(c *CaveConfig) { c.Terrain.Edge = "mirror" }},
		{"no enemies", func(c *CaveConfig) { c.Enemies.Count = 0 }},
		{"negative particles", func(c *CaveConfig) { c.World.Particles = -1 }},
		{"zero power-up cap", func(c *CaveConfig) { c.PowerUps.MaxMagnitude = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultCaveConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, expected ErrInvalid", err)
			}
		})
	}
}

func TestTerrainAutomaton(t *testing.T) {
	tc := DefaultCaveConfig().Terrain
	tc.Rules = "maze"
	tc.Edge = "wrap"
	rules, edge, err := tc.Automaton()
	if err != nil {
		t.Fatalf("Automaton() error: %v", err)
	}
	if !reflect.DeepEqual(rules, terrain.MazeRules) || edge != terrain.EdgeWrap {
		t.Errorf("Automaton() = %v, %v", rules, edge)
	}

	// An explicit table wins over the preset.
	tc.RuleTable = terrain.LifeRules.Names()
	if rules, _, err = tc.Automaton(); err != nil || !reflect.DeepEqual(rules, terrain.LifeRules) {
		t.Errorf("Automaton() with rule_table = %v, %v", rules, err)
	}
}

func TestApplyCavePreset(t *testing.T) {
	tests := []struct {
		preset  DifficultyPreset
		enabled bool
		level   float64
		health  float64
	}{
		{DifficultyEasy, true, 0.0, 150},
		{DifficultyNormal, true, 0.3, 100},
		{DifficultyHard, true, 0.7, 75},
		{DifficultyFixed, false, 0.3, 100},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cfg := DefaultCaveConfig()
			ApplyCavePreset(&cfg, tt.preset)
			if cfg.Difficulty.Enabled != tt.enabled {
				t.Errorf("Enabled = %v, expected %v", cfg.Difficulty.Enabled, tt.enabled)
			}
			if cfg.Difficulty.InitialLevel != tt.level {
				t.Errorf("InitialLevel = %v, expected %v", cfg.Difficulty.InitialLevel, tt.level)
			}
			if cfg.Hero.Health != tt.health {
				t.Errorf("Hero.Health = %v, expected %v", cfg.Hero.Health, tt.health)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	if p, err := ParsePreset(""); err != nil || p != DifficultyNormal {
		t.Errorf("ParsePreset(\"\") = %v, %v", p, err)
	}
	if _, err := ParsePreset("nightmare"); err == nil {
		t.Error("ParsePreset(nightmare) should fail")
	}
}

func TestDifficultyManager(t *testing.T) {
	cfg := DefaultCaveConfig().Difficulty
	cfg.InitialLevel = 0.2
	dm := NewDifficultyManager(cfg)

	if got := dm.Level(1, 0); got != 0.2 {
		t.Errorf("Level(depth 1) = %v, expected 0.2", got)
	}
	if got := dm.Level(11, 0); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Level(depth 11) = %v, expected 1.0", got)
	}
	if got := dm.Level(100, 0); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Level(depth 100) = %v, expected clamp to 1.0", got)
	}
	if a, b := dm.Level(3, 0), dm.Level(6, 0); a >= b {
		t.Errorf("Level() not increasing with depth: %v >= %v", a, b)
	}

	if got := dm.EnemyCount(10, 11, 0); got != 20 {
		t.Errorf("EnemyCount() at max = %d, expected 20", got)
	}
	if got := dm.FillProbability(0.58, 11, 0); got != 0.6 {
		t.Errorf("FillProbability() = %v, expected clamp to 0.6", got)
	}

	dm.SetEnabled(false)
	if got := dm.Level(11, 0); got != 0.2 {
		t.Errorf("Level() disabled = %v, expected 0.2", got)
	}
}
