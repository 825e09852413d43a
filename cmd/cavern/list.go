package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cavern/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available games",
	Long:  `Shows every registered game with the best score and depth on record.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()
	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	rows := make([][]string, 0, len(games))
	for _, g := range games {
		best, depth := "-", "-"
		if store != nil {
			if stats, err := store.GetGameStats(g.ID); err == nil && stats.GamesCount > 0 {
				best, depth = strconv.Itoa(stats.HighScore), strconv.Itoa(stats.MaxDepth)
			}
		}
		rows = append(rows, []string{g.ID, g.Title, best, depth})
	}
	printTable([]string{"ID", "Title", "Best", "Deepest"}, rows, false)

	fmt.Println()
	fmt.Println("Run 'cavern play <id>' to play.")
}
