package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/cavern/internal/config"
	"github.com/vovakirdan/cavern/internal/games/cave"
	"github.com/vovakirdan/cavern/internal/storage"
	"github.com/vovakirdan/cavern/internal/terrain"
)

var (
	flagTerrainWidth  int
	flagTerrainHeight int
	flagTerrainRules  string
	flagTerrainEdge   string
	flagTerrainFill   float64
	flagTerrainGens   int
	flagTerrainPlain  bool
)

var terrainCmd = &cobra.Command{
	Use:   "terrain",
	Short: "Generate, save and inspect caves",
	Long: `Work with cave terrain outside the game.

Generation uses the cave config (--config, --difficulty) with the flags
below overriding its terrain section. A saved cave can be played with
'cavern play --terrain <name>' or 'cavern terrain load <name>'.

Examples:
  cavern terrain generate --seed 7
  cavern terrain generate --rules maze --edge wrap --width 60 --height 20
  cavern terrain save mine --seed 7
  cavern terrain preview mine
  cavern terrain list
  cavern terrain load mine
  cavern terrain delete mine`,
}

var terrainGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a cave and print it",
	Args:  cobra.NoArgs,
	Run:   runTerrainGenerate,
}

var terrainSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Generate a cave and save it under name",
	Args:  cobra.ExactArgs(1),
	Run:   runTerrainSave,
}

var terrainPreviewCmd = &cobra.Command{
	Use:   "preview <name>",
	Short: "Print a saved cave",
	Args:  cobra.ExactArgs(1),
	Run:   runTerrainPreview,
}

var terrainLoadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "Play a saved cave",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flagTerrain = args[0]
		runPlay(cmd, nil)
	},
}

var terrainListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved caves",
	Args:  cobra.NoArgs,
	Run:   runTerrainList,
}

var terrainDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved cave",
	Args:  cobra.ExactArgs(1),
	Run:   runTerrainDelete,
}

func init() {
	for _, c := range []*cobra.Command{terrainGenerateCmd, terrainSaveCmd} {
		c.Flags().IntVar(&flagTerrainWidth, "width", 0, "Width in cells (0 = from config)")
		c.Flags().IntVar(&flagTerrainHeight, "height", 0, "Height in cells (0 = from config)")
		c.Flags().StringVar(&flagTerrainRules, "rules", "", "Rule preset: cave, life, maze")
		c.Flags().StringVar(&flagTerrainEdge, "edge", "", "Edge policy: wrap, alive, dead")
		c.Flags().Float64Var(&flagTerrainFill, "fill", -1, "Initial fill probability (-1 = from config)")
		c.Flags().IntVar(&flagTerrainGens, "generations", -1, "Automaton generations (-1 = from config)")
	}
	for _, c := range []*cobra.Command{terrainGenerateCmd, terrainSaveCmd, terrainPreviewCmd} {
		c.Flags().BoolVar(&flagTerrainPlain, "plain", false, "Print '#' and '.' only, without colors")
	}

	terrainCmd.AddCommand(terrainGenerateCmd)
	terrainCmd.AddCommand(terrainSaveCmd)
	terrainCmd.AddCommand(terrainPreviewCmd)
	terrainCmd.AddCommand(terrainLoadCmd)
	terrainCmd.AddCommand(terrainListCmd)
	terrainCmd.AddCommand(terrainDeleteCmd)
}

// terrainConfig applies the terrain flags on top of the loaded config.
func terrainConfig() (config.CaveConfig, error) {
	cfg := loadConfig()
	tc := &cfg.Terrain
	if flagTerrainWidth > 0 {
		tc.Width = flagTerrainWidth
	}
	if flagTerrainHeight > 0 {
		tc.Height = flagTerrainHeight
	}
	if flagTerrainRules != "" {
		if _, ok := terrain.PresetRules(flagTerrainRules); !ok {
			return cfg, fmt.Errorf("unknown rule preset %q (expected cave, life, or maze)", flagTerrainRules)
		}
		tc.Rules = flagTerrainRules
		tc.RuleTable = nil
	}
	if flagTerrainEdge != "" {
		if _, err := terrain.ParseEdgePolicy(flagTerrainEdge); err != nil {
			return cfg, err
		}
		tc.Edge = flagTerrainEdge
	}
	if flagTerrainFill >= 0 {
		tc.FillProbability = flagTerrainFill
	}
	if flagTerrainGens >= 0 {
		tc.Generations = flagTerrainGens
	}
	return cfg, cfg.Validate()
}

// generateTerrain builds a cave from the flags and returns it with its seed.
func generateTerrain() (*terrain.Terrain, int64) {
	cfg, err := terrainConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	t, err := cave.GenerateTerrain(cfg, seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating cave: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("generated cave", "seed", seed, "size", [2]int{t.Width(), t.Height()}, "solid", t.Grid.CountSolid())
	return t, seed
}

func runTerrainGenerate(_ *cobra.Command, _ []string) {
	t, seed := generateTerrain()
	fmt.Println(renderTerrain(t, flagTerrainPlain))
	fmt.Printf("\nSeed: %d  Size: %dx%d\n", seed, t.Width(), t.Height())
}

func runTerrainSave(_ *cobra.Command, args []string) {
	name := args[0]
	t, seed := generateTerrain()

	store := mustOpenStore()
	defer store.Close()

	if err := store.SaveTerrain(name, seed, t); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving cave: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(renderTerrain(t, flagTerrainPlain))
	fmt.Printf("\nSaved %q (seed %d, %dx%d)\n", name, seed, t.Width(), t.Height())
}

func runTerrainPreview(_ *cobra.Command, args []string) {
	store := mustOpenStore()
	defer store.Close()

	t, err := store.LoadTerrain(args[0])
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "Error: no saved cave named %q\n", args[0])
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading cave: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(renderTerrain(t, flagTerrainPlain))
}

func runTerrainList(_ *cobra.Command, _ []string) {
	store := mustOpenStore()
	defer store.Close()

	caves, err := store.ListTerrains()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing caves: %v\n", err)
		os.Exit(1)
	}
	if len(caves) == 0 {
		fmt.Println("No saved caves.")
		fmt.Println()
		fmt.Println("Run 'cavern terrain save <name>' to keep one.")
		return
	}

	rows := make([][]string, 0, len(caves))
	for _, c := range caves {
		rows = append(rows, []string{
			c.Name,
			fmt.Sprintf("%dx%d", c.Width, c.Height),
			strconv.FormatInt(c.Seed, 10),
			strconv.Itoa(c.Size),
			c.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	printTable([]string{"Name", "Size", "Seed", "Bytes", "Saved"}, rows, false)
}

func runTerrainDelete(_ *cobra.Command, args []string) {
	store := mustOpenStore()
	defer store.Close()

	err := store.DeleteTerrain(args[0])
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "Error: no saved cave named %q\n", args[0])
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting cave: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Deleted %q\n", args[0])
}

var (
	rockStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("130"))
	bedrockStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	goldStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	gemStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	relicStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	emptyStyle    = lipgloss.NewStyle()
	durableGlyphs = []rune{'░', '▒', '▓'}
)

// renderTerrain draws a cave for the terminal. Rock shading follows
// durability; blocks holding a collectible are marked.
func renderTerrain(t *terrain.Terrain, plain bool) string {
	if plain {
		return t.Grid.String()
	}

	var sb strings.Builder
	for y := 0; y < t.Height(); y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < t.Width(); x++ {
			b, ok := t.Block(x, y)
			if !ok || !b.Present() {
				sb.WriteString(emptyStyle.Render(" "))
				continue
			}
			sb.WriteString(blockCell(b))
		}
	}
	return sb.String()
}

func blockCell(b terrain.Block) string {
	switch b.Collectible {
	case terrain.CollectibleGold:
		return goldStyle.Render("$")
	case terrain.CollectibleGem:
		return gemStyle.Render("*")
	case terrain.CollectibleRelic:
		return relicStyle.Render("&")
	}
	if b.Indestructible() {
		return bedrockStyle.Render("█")
	}
	i := min(b.Durability, len(durableGlyphs)) - 1
	return rockStyle.Render(string(durableGlyphs[max(i, 0)]))
}
