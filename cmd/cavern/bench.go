package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cavern/internal/core"
	"github.com/vovakirdan/cavern/internal/games/cave"
	"github.com/vovakirdan/cavern/internal/telemetry"
)

var (
	flagBenchRuns       int
	flagBenchDuration   time.Duration
	flagBenchOut        string
	flagBenchPerfWindow int
	flagBenchIdle       bool
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run headless games and report step timings",
	Long: `Play games without a terminal, driven by a synthetic clock and a bot
that wanders, aims and fires. Each run plays until the hero dies or the
simulated duration is used up.

Per-run results and per-phase step timings are written as CSV when --out
is set, and a summary is logged at the end. Runs are reproducible: run i
uses seed --seed + i (a fixed base seed when --seed is 0).

Examples:
  cavern bench
  cavern bench --runs 50 --duration 2m --out ./bench
  cavern bench --idle --log-level debug`,
	Args: cobra.NoArgs,
	Run:  runBench,
}

func init() {
	benchCmd.Flags().IntVar(&flagBenchRuns, "runs", 10, "Number of runs")
	benchCmd.Flags().DurationVar(&flagBenchDuration, "duration", time.Minute, "Simulated time per run")
	benchCmd.Flags().StringVar(&flagBenchOut, "out", "", "Directory for runs.csv and perf.csv (empty = no files)")
	benchCmd.Flags().IntVar(&flagBenchPerfWindow, "perf-window", 600, "Steps per perf.csv row")
	benchCmd.Flags().BoolVar(&flagBenchIdle, "idle", false, "Send no input (measures the world alone)")
}

// benchBaseSeed is used when no --seed is given so runs stay reproducible.
const benchBaseSeed = 1

func runBench(_ *cobra.Command, _ []string) {
	if flagBenchRuns <= 0 || flagBenchDuration <= 0 || flagBenchPerfWindow <= 0 {
		fmt.Fprintln(os.Stderr, "Error: --runs, --duration and --perf-window must be positive")
		os.Exit(1)
	}

	out, err := telemetry.NewOutputManager(flagBenchOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	base := flagSeed
	if base == 0 {
		base = benchBaseSeed
	}

	perf := telemetry.NewPerfCollector(flagBenchPerfWindow)
	results := make([]telemetry.RunResult, 0, flagBenchRuns)
	for run := range flagBenchRuns {
		r := benchRun(run, base+int64(run), perf, out)
		results = append(results, r)
		if err := out.WriteRun(r); err != nil {
			logger.Error("could not write run", "run", run, "error", err)
		}
		logger.Info("run finished",
			"run", run, "seed", r.Seed, "steps", r.Steps,
			"depth", r.Depth, "score", r.Score, "dead", r.GameOver,
			"hash", fmt.Sprintf("%016x", r.Hash))
	}

	telemetry.Summarize(results).Log(logger)
	perf.Stats().LogStats(logger)
	if out != nil {
		logger.Info("wrote results", "dir", out.Dir())
	}
}

// benchRun plays one headless game.
func benchRun(run int, seed int64, perf *telemetry.PerfCollector, out *telemetry.OutputManager) telemetry.RunResult {
	perf.Reset()
	g := cave.New(cave.WithObserver(perf), cave.WithLogger(logger.With("run", run)))

	fps := flagFPS
	if fps <= 0 {
		fps = 60
	}
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: fps, Seed: seed})

	b := newBot(seed)
	frame := time.Second / time.Duration(fps)
	frames := int(flagBenchDuration / frame)
	now := time.Unix(0, 0)
	window := uint64(flagBenchPerfWindow)
	nextWindow := window

	start := time.Now()
	var steps uint64
	for range frames {
		now = now.Add(frame)
		in := core.NewInputFrame()
		if !flagBenchIdle {
			in = b.Frame()
		}
		res := g.Update(now, in)
		steps += uint64(res.Steps)

		if steps >= nextWindow {
			if err := out.WritePerf(perf.Stats(), run, steps); err != nil {
				logger.Error("could not write perf", "run", run, "error", err)
			}
			nextWindow += window
		}
		if res.State.GameOver {
			break
		}
	}
	wall := time.Since(start)

	state := g.State()
	snap := g.Snapshot()
	return telemetry.RunResult{
		Run:      run,
		Seed:     seed,
		Steps:    steps,
		Depth:    state.Depth,
		Score:    state.Score,
		GameOver: state.GameOver,
		Hash:     snap.Hash(),
		WallMS:   float64(wall.Microseconds()) / 1000,
	}
}

// bot wanders in a direction for a while, aims along it and keeps firing,
// with the odd bomb.
type bot struct {
	rng    *rand.Rand
	move   core.Action
	aim    core.Action
	frames int
}

var directions = []core.Action{core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight}

var aimFor = map[core.Action]core.Action{
	core.ActionUp:    core.ActionAimUp,
	core.ActionDown:  core.ActionAimDown,
	core.ActionLeft:  core.ActionAimLeft,
	core.ActionRight: core.ActionAimRight,
}

func newBot(seed int64) *bot {
	return &bot{rng: rand.New(rand.NewSource(seed))}
}

// Frame returns the bot's input for the next host frame.
func (b *bot) Frame() core.InputFrame {
	if b.frames <= 0 {
		b.move = directions[b.rng.Intn(len(directions))]
		b.aim = aimFor[directions[b.rng.Intn(len(directions))]]
		b.frames = 20 + b.rng.Intn(60)
	}
	b.frames--

	f := core.NewInputFrame()
	f.Set(b.move)
	f.Set(b.aim)
	f.Set(core.ActionFire)
	if b.rng.Intn(240) == 0 {
		f.Set(core.ActionBomb)
	}
	return f
}
