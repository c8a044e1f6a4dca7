package expectimax

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/kvnchn/twenty48/board"
	"github.com/kvnchn/twenty48/equity"
	"github.com/kvnchn/twenty48/move"
	"github.com/kvnchn/twenty48/movegen"
)

func mustBoard(t *testing.T, grid [board.Dim][board.Dim]uint32) board.PackedBoard {
	t.Helper()
	b, err := board.FromGrid(grid)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestBestMoveNeverReturnsNoOp(t *testing.T) {
	is := is.New(t)
	// A single tile in the top-left corner: Up and Left are no-ops.
	b := mustBoard(t, [board.Dim][board.Dim]uint32{
		{2, 0, 0, 0},
	})
	s := NewSolver(equity.DefaultWeights())
	for depth := 0; depth <= 3; depth++ {
		d, err := s.BestMove(context.Background(), b, depth)
		is.NoErr(err)
		_, _, moved := movegen.ApplyMove(b, d)
		is.True(moved)
	}
}

func TestBestMoveDeterminism(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, [board.Dim][board.Dim]uint32{
		{2, 4, 8, 0},
		{4, 2, 0, 0},
		{2, 0, 0, 0},
		{0, 0, 0, 0},
	})
	w := equity.DefaultWeights()
	first, err := NewSolver(w).BestMove(context.Background(), b, 3)
	is.NoErr(err)
	for i := 0; i < 3; i++ {
		d, err := NewSolver(w).BestMove(context.Background(), b, 3)
		is.NoErr(err)
		is.Equal(d, first)
	}
}

func TestBestMoveNoLegalMove(t *testing.T) {
	is := is.New(t)
	stuck := mustBoard(t, [board.Dim][board.Dim]uint32{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})
	s := NewSolver(equity.DefaultWeights())
	_, err := s.BestMove(context.Background(), stuck, 2)
	is.True(errors.Is(err, ErrNoLegalMove))
}

func TestNegativeDepthRejected(t *testing.T) {
	is := is.New(t)
	s := NewSolver(equity.DefaultWeights())
	_, err := s.BestMove(context.Background(), board.PackedBoard(0).WithTile(0, 1), -1)
	is.True(errors.Is(err, ErrInvalidDepth))
}

func TestDepthZeroIsGreedy(t *testing.T) {
	// Depth 0 picks the move whose immediate result evaluates best.
	is := is.New(t)
	b := mustBoard(t, [board.Dim][board.Dim]uint32{
		{2, 2, 4, 8},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	w := equity.DefaultWeights()
	s := NewSolver(w)
	got, err := s.BestMove(context.Background(), b, 0)
	is.NoErr(err)

	best := ""
	bestVal := 0.0
	for _, d := range move.AllDirections {
		after, _, moved := movegen.ApplyMove(b, d)
		if !moved {
			continue
		}
		if v := equity.Evaluate(after, w); best == "" || v > bestVal {
			best = d.String()
			bestVal = v
		}
	}
	is.Equal(got.String(), best)
}

func TestCacheLifecycle(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, [board.Dim][board.Dim]uint32{
		{2, 4, 0, 0},
		{4, 2, 0, 0},
	})
	s := NewSolver(equity.DefaultWeights())
	_, err := s.BestMove(context.Background(), b, 3)
	is.NoErr(err)
	is.True(s.CachedPositions() > 0)

	s.Reset()
	is.Equal(s.CachedPositions(), 0)
}

func TestCacheKeysLargeDepths(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, [board.Dim][board.Dim]uint32{
		{2, 4, 0, 0},
	})
	s := NewSolver(equity.DefaultWeights())
	// Depths 256 apart would alias under a narrower key field.
	s.cache[cacheKey{board: b, depth: 130}] = 1.0
	s.cache[cacheKey{board: b, depth: 386}] = 2.0
	is.Equal(s.CachedPositions(), 2)
	is.Equal(s.cache[cacheKey{board: b, depth: 130}], 1.0)
}

func TestSetWeightsInvalidatesCache(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, [board.Dim][board.Dim]uint32{
		{2, 4, 0, 0},
	})
	s := NewSolver(equity.DefaultWeights())
	_, err := s.BestMove(context.Background(), b, 2)
	is.NoErr(err)
	is.True(s.CachedPositions() > 0)

	// Same weights: cache survives.
	s.SetWeights(equity.DefaultWeights())
	is.True(s.CachedPositions() > 0)

	// Different weights: cache must go.
	w := equity.DefaultWeights()
	w.Empty *= 2
	s.SetWeights(w)
	is.Equal(s.CachedPositions(), 0)
}

func TestCanceledContext(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := mustBoard(t, [board.Dim][board.Dim]uint32{
		{2, 4, 0, 0},
	})
	s := NewSolver(equity.DefaultWeights())
	_, err := s.BestMove(ctx, b, 3)
	is.True(errors.Is(err, context.Canceled))
}

func TestDeeperSearchStillLegal(t *testing.T) {
	is := is.New(t)
	// Near-full board with exactly one merge available.
	b := mustBoard(t, [board.Dim][board.Dim]uint32{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 4},
	})
	s := NewSolver(equity.DefaultWeights())
	d, err := s.BestMove(context.Background(), b, 2)
	is.NoErr(err)
	_, _, moved := movegen.ApplyMove(b, d)
	is.True(moved)
}
