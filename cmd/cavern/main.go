// cavern is a terminal cave arcade: dig, shoot and descend through
// procedurally generated caves.
//
// Usage:
//
//	cavern list               - List available games
//	cavern play [game]        - Play a game (default: cave)
//	cavern menu               - Start menu with scores and saved caves
//	cavern serve              - Start SSH server for remote play
//	cavern scores [game]      - Show high scores
//	cavern terrain <command>  - Generate, save and inspect caves
//	cavern bench              - Run headless games and report step timings
//
// Global flags:
//
//	--fps <rate>         - Host frame rate (default: 60)
//	--seed <value>       - RNG seed for reproducible caves
//	--db <path>          - Database path (default: ~/.cavern/scores.db)
//	--config <path>      - Custom cave config YAML
//	--difficulty <name>  - Difficulty preset: easy, normal, hard, fixed
//	--log-level <level>  - debug, info, warn, error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/cavern/internal/config"
	"github.com/vovakirdan/cavern/internal/core"
	"github.com/vovakirdan/cavern/internal/games/cave"
	"github.com/vovakirdan/cavern/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string

	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cavern",
	Short: "Cavern - a cave arcade in your terminal",
	Long: `Cavern is a terminal arcade game. Dig through rock, collect gold and
gems, shoot what moves and descend as deep as you can.

Available commands:
  list     - Show all available games
  play     - Play directly
  menu     - Interactive menu with scores and saved caves
  serve    - Start SSH server for remote play
  scores   - View high scores
  terrain  - Generate, save and inspect caves
  bench    - Headless runs with step timings

Examples:
  cavern play
  cavern play --difficulty hard --seed 42
  cavern terrain save mine --seed 7
  cavern play --terrain mine
  cavern bench --runs 20 --out ./bench
  cavern serve --ssh :2222`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
		}
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "cavern",
			Level:           level,
		})

		if flagDifficulty != "" {
			if _, err := config.ParsePreset(flagDifficulty); err != nil {
				return err
			}
		}
		cave.SetConfigPath(flagConfig)
		cave.SetDifficultyPreset(flagDifficulty)
		return nil
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Host frame rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.cavern/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom cave config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(terrainCmd)
	rootCmd.AddCommand(benchCmd)
}

// runtimeConfig sizes the game to the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the database, or returns nil with a warning so games
// still run without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// mustOpenStore opens the database or exits.
func mustOpenStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	return store
}

// playerName is the name local scores are saved under.
func playerName() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}

// loadConfig resolves the cave config the way a game would.
func loadConfig() config.CaveConfig {
	cfg, err := config.LoadCave(flagConfig)
	if err != nil {
		logger.Warn("using default config", "error", err)
		cfg = config.DefaultCaveConfig()
	}
	if flagDifficulty != "" {
		if preset, err := config.ParsePreset(flagDifficulty); err == nil {
			config.ApplyCavePreset(&cfg, preset)
		}
	}
	return cfg
}

// tuiLogger returns a logger writing to ~/.cavern/cavern.log, since stderr
// would draw over the game screen. The returned func closes the file.
func tuiLogger() (*log.Logger, func()) {
	discard := log.New(io.Discard)
	home, err := os.UserHomeDir()
	if err != nil {
		return discard, func() {}
	}
	dir := filepath.Join(home, ".cavern")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return discard, func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "cavern.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return discard, func() {}
	}
	l := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "cavern",
		Level:           logger.GetLevel(),
	})
	return l, func() { f.Close() }
}
