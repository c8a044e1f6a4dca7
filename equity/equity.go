// Package equity contains the static board evaluation used by the search
// and by the one-ply greedy player. The score is a weighted sum of four
// structural signals, all computed over tile exponents rather than raw
// values: monotonicity, smoothness, empty-cell count, and a bonus for
// keeping the largest tile in a corner.
package equity

import (
	"math"

	"github.com/kvnchn/twenty48/board"
)

// Evaluate scores a board. It is a pure function; higher is better.
func Evaluate(b board.PackedBoard, w Weights) float64 {
	return w.Mono*Monotonicity(b) +
		w.Smooth*Smoothness(b) +
		w.Empty*float64(b.CountEmpty()) +
		w.Corner*CornerScore(b)
}

// Monotonicity measures how consistently each row and column increases or
// decreases. For every line we accumulate the penalty of adjacent pairs
// that break monotonicity in the increasing direction and in the
// decreasing direction, keep the smaller of the two, and sum across all
// eight lines. The sign is flipped so that monotonic boards score higher.
func Monotonicity(b board.PackedBoard) float64 {
	total := 0.0
	for i := 0; i < board.Dim; i++ {
		total += lineMonotonicityPenalty(
			b.Cell(i, 0), b.Cell(i, 1), b.Cell(i, 2), b.Cell(i, 3))
		total += lineMonotonicityPenalty(
			b.Cell(0, i), b.Cell(1, i), b.Cell(2, i), b.Cell(3, i))
	}
	return -total
}

func lineMonotonicityPenalty(line ...uint8) float64 {
	inc, dec := 0.0, 0.0
	for i := 0; i+1 < len(line); i++ {
		diff := float64(line[i]) - float64(line[i+1])
		if diff > 0 {
			inc += diff
		} else {
			dec -= diff
		}
	}
	return math.Min(inc, dec)
}

// Smoothness is the negated sum of absolute exponent differences over all
// adjacent non-empty pairs. Boards whose neighbors are close in value can
// set up merges more easily.
func Smoothness(b board.PackedBoard) float64 {
	score := 0.0
	for r := 0; r < board.Dim; r++ {
		for c := 0; c < board.Dim; c++ {
			exp := b.Cell(r, c)
			if exp == 0 {
				continue
			}
			if c+1 < board.Dim {
				if right := b.Cell(r, c+1); right != 0 {
					score -= math.Abs(float64(exp) - float64(right))
				}
			}
			if r+1 < board.Dim {
				if down := b.Cell(r+1, c); down != 0 {
					score -= math.Abs(float64(exp) - float64(down))
				}
			}
		}
	}
	return score
}

// CornerScore returns the maximum exponent if one of the four corner
// cells holds it, and 0 otherwise. Cornering a larger tile is worth
// proportionally more.
func CornerScore(b board.PackedBoard) float64 {
	max := b.MaxCellExponent()
	if max == 0 {
		return 0
	}
	last := board.Dim - 1
	corners := [4]uint8{
		b.Cell(0, 0), b.Cell(0, last), b.Cell(last, 0), b.Cell(last, last),
	}
	for _, exp := range corners {
		if exp == max {
			return float64(max)
		}
	}
	return 0
}
