// Package game implements the playable rules on top of the packed board:
// score accounting, the random tile spawn after each successful move, and
// game-over detection. The search packages never touch this; they are
// deterministic and the spawn randomness lives here only.
package game

import (
	"lukechampine.com/frand"

	"github.com/kvnchn/twenty48/board"
	"github.com/kvnchn/twenty48/move"
	"github.com/kvnchn/twenty48/movegen"
)

const initialTiles = 2

// fourChance is the probability that a spawned tile is a 4 instead of a 2.
const fourChance = 0.1

// Game is a single session's mutable state.
type Game struct {
	board board.PackedBoard
	score uint32
	moves int
}

// NewGame starts a game with two random tiles.
func NewGame() *Game {
	g := &Game{}
	for i := 0; i < initialTiles; i++ {
		g.AddRandomTile()
	}
	return g
}

// NewGameFromBoard starts a game at a given position with no spawned
// tiles, for tests and for resuming interactive sessions.
func NewGameFromBoard(b board.PackedBoard) *Game {
	return &Game{board: b}
}

func (g *Game) Board() board.PackedBoard { return g.board }
func (g *Game) Score() uint32            { return g.score }
func (g *Game) Moves() int               { return g.moves }

// MaxTile returns the largest tile value on the board.
func (g *Game) MaxTile() uint32 {
	exp := g.board.MaxCellExponent()
	if exp == 0 {
		return 0
	}
	return 1 << exp
}

// AddRandomTile places a 2 (or, 10% of the time, a 4) on a uniformly
// random empty cell. It returns false if the board is full.
func (g *Game) AddRandomTile() bool {
	empties := g.board.EmptyCells()
	if len(empties) == 0 {
		return false
	}
	pos := empties[frand.Intn(len(empties))]
	exp := uint8(1)
	if frand.Float64() < fourChance {
		exp = 2
	}
	g.board = g.board.WithTile(pos, exp)
	return true
}

// Move slides the board in the given direction. On a successful move the
// merge score is added and a new tile spawns; a no-op leaves the game
// untouched and returns false.
func (g *Game) Move(d move.Direction) bool {
	after, scoreDelta, moved := movegen.ApplyMove(g.board, d)
	if !moved {
		return false
	}
	g.board = after
	g.score += scoreDelta
	g.moves++
	g.AddRandomTile()
	return true
}

// Playing reports whether at least one move remains.
func (g *Game) Playing() bool {
	return movegen.HasLegalMove(g.board)
}
