// Package expectimax implements the depth-bounded move chooser. The game
// tree alternates Max nodes (the player picks one of four slides) with
// Chance nodes (the environment drops a 2 or a 4 on a random empty cell),
// and repeated positions are memoized in a per-solver transposition cache.
package expectimax

import (
	"context"
	"errors"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/kvnchn/twenty48/board"
	"github.com/kvnchn/twenty48/equity"
	"github.com/kvnchn/twenty48/move"
	"github.com/kvnchn/twenty48/movegen"
)

// Tile spawn probabilities.
const (
	TwoProb  = 0.9
	FourProb = 0.1
)

var (
	// ErrNoLegalMove means every direction is a no-op; the game is over.
	ErrNoLegalMove = errors.New("no legal move")
	// ErrInvalidDepth flags a negative search depth. Depth 0 is valid and
	// means "evaluate each move statically, no lookahead".
	ErrInvalidDepth = errors.New("search depth cannot be negative")
)

// cacheKey distinguishes node kind as well as position and remaining
// depth: the same packed board can appear both before a spawn and after
// one at the same depth, and the two have different values.
type cacheKey struct {
	board  board.PackedBoard
	depth  int
	chance bool
}

// A Solver runs searches for a fixed weight configuration. It owns its
// transposition cache; cached values depend on the weights, so a solver
// must not be shared between searches wanting different weights. Solvers
// are not safe for concurrent use; run one per goroutine.
type Solver struct {
	weights     equity.Weights
	fingerprint uint64
	cache       map[cacheKey]float64

	lookups uint64
	hits    uint64
	nodes   uint64
}

func NewSolver(w equity.Weights) *Solver {
	return &Solver{
		weights:     w,
		fingerprint: w.Fingerprint(),
		cache:       make(map[cacheKey]float64),
	}
}

// Weights returns the solver's current weight configuration.
func (s *Solver) Weights() equity.Weights {
	return s.weights
}

// SetWeights switches weight configurations. The cache is dropped if the
// weights actually changed, since every cached value is stale then.
func (s *Solver) SetWeights(w equity.Weights) {
	fp := w.Fingerprint()
	if fp == s.fingerprint {
		return
	}
	s.weights = w
	s.fingerprint = fp
	s.Reset()
}

// Reset clears the transposition cache and search counters.
func (s *Solver) Reset() {
	s.cache = make(map[cacheKey]float64)
	s.lookups, s.hits, s.nodes = 0, 0, 0
}

// CachedPositions returns the number of entries in the transposition
// cache.
func (s *Solver) CachedPositions() int {
	return len(s.cache)
}

// BestMove returns the direction with the highest expected value after
// looking ahead the given number of plies (each ply is one player move
// plus one tile spawn). It returns ErrNoLegalMove when every direction is
// a no-op, which signals game over. The choice is deterministic: equal
// values resolve in Up, Down, Left, Right priority order.
func (s *Solver) BestMove(ctx context.Context, b board.PackedBoard, depth int) (move.Direction, error) {
	if depth < 0 {
		return 0, ErrInvalidDepth
	}

	best := math.Inf(-1)
	var bestDir move.Direction
	found := false
	for _, d := range move.AllDirections {
		after, _, moved := movegen.ApplyMove(b, d)
		if !moved {
			continue
		}
		var expected float64
		if depth == 0 {
			expected = equity.Evaluate(after, s.weights)
		} else {
			var err error
			expected, err = s.chanceValue(ctx, after, depth-1)
			if err != nil {
				return 0, err
			}
		}
		if expected > best {
			best = expected
			bestDir = d
			found = true
		}
	}
	if !found {
		return 0, ErrNoLegalMove
	}
	log.Debug().
		Stringer("move", bestDir).
		Float64("value", best).
		Int("depth", depth).
		Uint64("nodes", s.nodes).
		Uint64("cache-lookups", s.lookups).
		Uint64("cache-hits", s.hits).
		Int("cache-size", len(s.cache)).
		Msg("best-move")
	return bestDir, nil
}

// maxValue is the player's turn: the maximum chance value over all legal
// moves. A node with no legal move is terminal and evaluates statically.
func (s *Solver) maxValue(ctx context.Context, b board.PackedBoard, depth int) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.nodes++
	if depth <= 0 {
		return equity.Evaluate(b, s.weights), nil
	}

	key := cacheKey{board: b, depth: depth, chance: false}
	s.lookups++
	if v, ok := s.cache[key]; ok {
		s.hits++
		return v, nil
	}

	best := math.Inf(-1)
	moved := false
	for _, d := range move.AllDirections {
		after, _, ok := movegen.ApplyMove(b, d)
		if !ok {
			continue
		}
		moved = true
		v, err := s.chanceValue(ctx, after, depth)
		if err != nil {
			return 0, err
		}
		if v > best {
			best = v
		}
	}
	if !moved {
		best = equity.Evaluate(b, s.weights)
	}
	s.cache[key] = best
	return best, nil
}

// chanceValue is the environment's turn: the expectation over every empty
// cell receiving a 2 (probability 0.9) or a 4 (probability 0.1). All
// empty cells are expanded; there is no sampling, so the search is exact
// for its depth.
func (s *Solver) chanceValue(ctx context.Context, b board.PackedBoard, depth int) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.nodes++
	empties := b.EmptyCells()
	if len(empties) == 0 {
		return equity.Evaluate(b, s.weights), nil
	}

	key := cacheKey{board: b, depth: depth, chance: true}
	s.lookups++
	if v, ok := s.cache[key]; ok {
		s.hits++
		return v, nil
	}

	expected := 0.0
	for _, pos := range empties {
		v2, err := s.maxValue(ctx, b.WithTile(pos, 1), depth-1)
		if err != nil {
			return 0, err
		}
		v4, err := s.maxValue(ctx, b.WithTile(pos, 2), depth-1)
		if err != nil {
			return 0, err
		}
		expected += TwoProb*v2 + FourProb*v4
	}
	expected /= float64(len(empties))
	s.cache[key] = expected
	return expected, nil
}
