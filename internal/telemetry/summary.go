package telemetry

import (
	"math"
	"sort"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/stat"
)

// RunResult is the outcome of one headless run.
type RunResult struct {
	Run      int     `csv:"run"`
	Seed     int64   `csv:"seed"`
	Steps    uint64  `csv:"steps"`
	Depth    int     `csv:"depth"`
	Score    int     `csv:"score"`
	GameOver bool    `csv:"game_over"`
	Hash     uint64  `csv:"hash"`
	WallMS   float64 `csv:"wall_ms"`
}

// Summary aggregates a batch of runs.
type Summary struct {
	Runs        int
	Deaths      int
	MeanScore   float64
	StdDevScore float64
	MedianScore float64
	MeanDepth   float64
	MaxDepth    int
	StepsPerSec float64 // simulated steps per wall-clock second
}

// Summarize computes batch statistics. An empty batch yields a zero Summary.
func Summarize(results []RunResult) Summary {
	s := Summary{Runs: len(results)}
	if len(results) == 0 {
		return s
	}

	scores := make([]float64, len(results))
	depths := make([]float64, len(results))
	var steps uint64
	var wall float64
	for i, r := range results {
		scores[i] = float64(r.Score)
		depths[i] = float64(r.Depth)
		s.MaxDepth = max(s.MaxDepth, r.Depth)
		if r.GameOver {
			s.Deaths++
		}
		steps += r.Steps
		wall += r.WallMS
	}

	s.MeanScore, s.StdDevScore = stat.MeanStdDev(scores, nil)
	if math.IsNaN(s.StdDevScore) {
		s.StdDevScore = 0
	}
	sort.Float64s(scores)
	s.MedianScore = stat.Quantile(0.5, stat.Empirical, scores, nil)
	s.MeanDepth = stat.Mean(depths, nil)
	if wall > 0 {
		s.StepsPerSec = float64(steps) / (wall / 1000)
	}
	return s
}

// Log writes the summary as one structured line.
func (s Summary) Log(logger *log.Logger) {
	logger.Info("bench summary",
		"runs", s.Runs,
		"deaths", s.Deaths,
		"mean_score", math.Round(s.MeanScore*10)/10,
		"stddev_score", math.Round(s.StdDevScore*10)/10,
		"median_score", s.MedianScore,
		"mean_depth", math.Round(s.MeanDepth*100)/100,
		"max_depth", s.MaxDepth,
		"steps_per_sec", int(s.StepsPerSec),
	)
}
