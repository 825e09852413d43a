package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadCave loads the cave configuration.
// Search order: customPath -> ~/.cavern/configs/cave.yaml -> ./configs/cave.yaml -> embedded default
func LoadCave(customPath string) (CaveConfig, error) {
	// Start from the hardcoded defaults so files may set only some keys.
	cfg := DefaultCaveConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("cave.yaml"); userCfgPath != "" {
		if loaded, ok := tryLoad(userCfgPath); ok {
			return loaded, nil
		}
	}

	// Try local configs directory
	if loaded, ok := tryLoad(filepath.Join("configs", "cave.yaml")); ok {
		return loaded, nil
	}

	// Use embedded default YAML
	embedded := DefaultCaveConfig()
	if err := yaml.Unmarshal(defaultCaveYAML, &embedded); err != nil || embedded.Validate() != nil {
		return DefaultCaveConfig(), nil // Fallback to hardcoded if embed fails
	}
	return embedded, nil
}

// tryLoad reads an optional config file. Missing or broken files are skipped.
func tryLoad(path string) (CaveConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CaveConfig{}, false
	}
	cfg := DefaultCaveConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CaveConfig{}, false
	}
	if err := cfg.Validate(); err != nil {
		return CaveConfig{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cavern", "configs", filename)
}

// ApplyCavePreset modifies the config based on a difficulty preset.
func ApplyCavePreset(cfg *CaveConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust gameplay based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Hero.Health = 150
		cfg.Hero.Bombs = 5
		cfg.Enemies.Count = max(1, cfg.Enemies.Count*2/3)
	case DifficultyHard:
		cfg.Hero.Health = 75
		cfg.Hero.Bombs = 2
		cfg.Enemies.Count = cfg.Enemies.Count * 3 / 2
	}
}

// Marshal renders a config as YAML, for writing a starting file.
func Marshal(cfg CaveConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}
