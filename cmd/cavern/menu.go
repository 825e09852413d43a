package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cavern/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with the title menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to play. Tab opens the
scoreboard, which also lists saved caves. After a game ends, press B or
Esc to return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Play
  Tab          - Scores and saved caves
  Q            - Quit

Examples:
  cavern menu
  cavern menu --fps 30
  cavern menu --db ./scores.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	tl, closeLog := tuiLogger()
	defer closeLog()
	err := tui.RunSession(store, runtimeConfig(), playerName(), tui.WithLogger(tl))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
