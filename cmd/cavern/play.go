package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cavern/internal/games/cave"
	"github.com/vovakirdan/cavern/internal/platform/tui"
	"github.com/vovakirdan/cavern/internal/registry"
	"github.com/vovakirdan/cavern/internal/storage"
)

var flagTerrain string

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play a game",
	Long: `Start playing the specified game (default: cave).

Controls:
  WASD/Arrows  - Move
  IJKL         - Aim
  Space        - Fire
  B            - Drop a bomb
  P/Esc        - Pause
  R            - Restart (after game over)
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Start at lowest difficulty, scales with depth
  normal - Start at 30% difficulty, scales with depth
  hard   - Start at 70% difficulty, scales with depth
  fixed  - No scaling, stays at the config's initial level

Examples:
  cavern play
  cavern play --difficulty hard
  cavern play --seed 42
  cavern play --terrain mine
  cavern play --config ./my-cave.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagTerrain, "terrain", "", "Play the first cave on a saved terrain")
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := "cave"
	if len(args) == 1 {
		gameID = args[0]
	}

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'cavern list' to see available games.")
		os.Exit(1)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	var game registry.Game
	if flagTerrain != "" {
		game = savedCaveGame(store, gameID, flagTerrain)
	} else {
		var err error
		game, err = registry.Create(gameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			os.Exit(1)
		}
	}

	tl, closeLog := tuiLogger()
	defer closeLog()
	if err := tui.Run(game, store, runtimeConfig(), tui.WithPlayer(playerName()), tui.WithLogger(tl)); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}

// savedCaveGame creates a cave game that starts on the named saved terrain.
func savedCaveGame(store *storage.Store, gameID, name string) registry.Game {
	if gameID != "cave" {
		fmt.Fprintf(os.Stderr, "Error: --terrain only applies to the cave game\n")
		os.Exit(1)
	}
	if store == nil {
		fmt.Fprintln(os.Stderr, "Error: saved caves need the database")
		os.Exit(1)
	}

	t, err := store.LoadTerrain(name)
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "Error: no saved cave named %q\n", name)
		fmt.Fprintln(os.Stderr, "Run 'cavern terrain list' to see saved caves.")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading cave: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("playing saved cave", "name", name, "size", [2]int{t.Width(), t.Height()})
	return cave.New(cave.WithTerrain(t))
}
