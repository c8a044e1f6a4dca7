package automatic

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/kvnchn/twenty48/equity"
)

// BatchResult accumulates per-game outcomes of a batch.
type BatchResult struct {
	Scores   []float64
	MaxTiles []float64
	Moves    []float64
}

func (b *BatchResult) add(res GameResult) {
	b.Scores = append(b.Scores, float64(res.Score))
	b.MaxTiles = append(b.MaxTiles, float64(res.MaxTile))
	b.Moves = append(b.Moves, float64(res.Moves))
}

func (b *BatchResult) MeanScore() float64 {
	if len(b.Scores) == 0 {
		return 0
	}
	return stat.Mean(b.Scores, nil)
}

func (b *BatchResult) StdDevScore() float64 {
	if len(b.Scores) < 2 {
		return 0
	}
	return stat.StdDev(b.Scores, nil)
}

func (b *BatchResult) MeanMaxTile() float64 {
	if len(b.MaxTiles) == 0 {
		return 0
	}
	return stat.Mean(b.MaxTiles, nil)
}

// BestScore returns the single highest game score in the batch.
func (b *BatchResult) BestScore() float64 {
	if len(b.Scores) == 0 {
		return 0
	}
	return lo.Max(b.Scores)
}

// Summary writes a human-readable report, including a terminal histogram
// of final scores.
func (b *BatchResult) Summary(w io.Writer) error {
	fmt.Fprintf(w, "games: %d\n", len(b.Scores))
	fmt.Fprintf(w, "score: mean %.1f, stddev %.1f, best %.0f\n",
		b.MeanScore(), b.StdDevScore(), b.BestScore())
	fmt.Fprintf(w, "max tile: mean %.1f\n", b.MeanMaxTile())
	tiles := tileCounts(b.MaxTiles)
	for _, t := range tiles {
		fmt.Fprintf(w, "  reached %6.0f in %5.1f%% of games\n",
			t.tile, 100*float64(t.count)/float64(len(b.MaxTiles)))
	}
	if len(b.Scores) < 2 {
		return nil
	}
	hist := histogram.Hist(10, b.Scores)
	return histogram.Fprint(w, hist, histogram.Linear(40))
}

type tileCount struct {
	tile  float64
	count int
}

func tileCounts(maxTiles []float64) []tileCount {
	counts := lo.CountValues(maxTiles)
	out := make([]tileCount, 0, len(counts))
	for tile, n := range counts {
		out = append(out, tileCount{tile: tile, count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].tile > out[j].tile })
	return out
}

// WeightEvaluation pairs a weight configuration with its batch outcome.
type WeightEvaluation struct {
	Weights equity.Weights `yaml:"weights"`
	Mean    float64        `yaml:"mean_score"`
	StdDev  float64        `yaml:"stddev_score"`
	Games   int            `yaml:"games"`
}

// ExportWeights writes a tuned weight configuration and its evaluation to
// a YAML file, the format the config loader reads back.
func ExportWeights(path string, ev WeightEvaluation) error {
	out, err := yaml.Marshal(ev)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}
