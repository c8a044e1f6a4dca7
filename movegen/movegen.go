// Package movegen applies whole-board moves using precomputed row tables.
//
// All 65536 possible 16-bit rows are enumerated once, and the slide-left
// result for each is stored along with the score gained by its merges and
// whether the row changed at all. A left move is then four table lookups;
// the other three directions reduce to left via nibble reversal and board
// transposition.
package movegen

import (
	"sync"

	"github.com/kvnchn/twenty48/board"
	"github.com/kvnchn/twenty48/move"
)

const tableSize = 1 << 16

type tableEntry struct {
	result     board.Row
	scoreDelta uint32
	changed    bool
}

var (
	tablesOnce sync.Once
	leftTable  [tableSize]tableEntry
)

// Precompute builds the row tables. It is called lazily by ApplyMove, but
// callers that care about first-move latency can invoke it at startup.
// The tables are never mutated after construction and are safe to share
// across concurrent searches.
func Precompute() {
	tablesOnce.Do(buildTables)
}

func buildTables() {
	for rv := 0; rv < tableSize; rv++ {
		row := board.Row(rv)
		result, scoreDelta := slideRowLeft(row)
		leftTable[rv] = tableEntry{
			result:     result,
			scoreDelta: scoreDelta,
			changed:    result != row,
		}
	}
}

// slideRowLeft compacts the row's tiles toward the low nibble, merges
// adjacent equal pairs exactly once each, and re-compacts. The returned
// score is the sum of the merged tiles' values. Tiles already at the
// maximum exponent never merge, since the result would not be
// representable in a nibble.
func slideRowLeft(row board.Row) (board.Row, uint32) {
	var line [board.Dim]uint8
	for i := 0; i < board.Dim; i++ {
		line[i] = uint8((row >> (4 * i)) & 0xF)
	}

	var merged [board.Dim]uint8
	var scoreDelta uint32
	write := 0
	lastMerged := false
	for read := 0; read < board.Dim; read++ {
		exp := line[read]
		if exp == 0 {
			continue
		}
		if write > 0 && !lastMerged && merged[write-1] == exp && exp < board.MaxExponent {
			merged[write-1] = exp + 1
			scoreDelta += 1 << (exp + 1)
			lastMerged = true
			continue
		}
		merged[write] = exp
		write++
		lastMerged = false
	}

	var result board.Row
	for i := 0; i < board.Dim; i++ {
		result |= board.Row(merged[i]) << (4 * i)
	}
	return result, scoreDelta
}

// ApplyMove slides the board in the given direction. It returns the new
// board, the score gained from merges, and whether any line changed. A
// move with moved == false is a no-op: the caller must not spawn a tile
// or count score for it.
func ApplyMove(b board.PackedBoard, d move.Direction) (board.PackedBoard, uint32, bool) {
	Precompute()
	switch d {
	case move.Left:
		return applyLeft(b)
	case move.Right:
		return applyRight(b)
	case move.Up:
		nb, scoreDelta, moved := applyLeft(b.Transpose())
		return nb.Transpose(), scoreDelta, moved
	case move.Down:
		nb, scoreDelta, moved := applyRight(b.Transpose())
		return nb.Transpose(), scoreDelta, moved
	}
	return b, 0, false
}

func applyLeft(b board.PackedBoard) (board.PackedBoard, uint32, bool) {
	var result board.PackedBoard
	var scoreDelta uint32
	moved := false
	for r := 0; r < board.Dim; r++ {
		entry := leftTable[b.Row(r)]
		result = result.SetRow(r, entry.result)
		scoreDelta += entry.scoreDelta
		moved = moved || entry.changed
	}
	return result, scoreDelta, moved
}

func applyRight(b board.PackedBoard) (board.PackedBoard, uint32, bool) {
	var result board.PackedBoard
	var scoreDelta uint32
	moved := false
	for r := 0; r < board.Dim; r++ {
		entry := leftTable[b.Row(r).Reverse()]
		result = result.SetRow(r, entry.result.Reverse())
		scoreDelta += entry.scoreDelta
		moved = moved || entry.changed
	}
	return result, scoreDelta, moved
}

// HasLegalMove reports whether at least one direction would change the
// board. A board with an empty cell always has a legal move.
func HasLegalMove(b board.PackedBoard) bool {
	if b.CountEmpty() > 0 {
		return true
	}
	for _, d := range move.AllDirections {
		if _, _, moved := ApplyMove(b, d); moved {
			return true
		}
	}
	return false
}
