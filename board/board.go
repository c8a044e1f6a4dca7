// Package board implements the packed representation of the 4x4 tile-merge
// board. The whole board fits in a single uint64: each cell stores the
// exponent of its tile value in 4 bits (0 = empty, k = tile 2^k), row-major
// from the low bits. This keeps move application and tree search allocation
// free, and a board can be used directly as a cache key.
package board

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// Dim is the board dimension. The packed encoding is specific to 4x4.
const Dim = 4

// MaxExponent is the largest representable tile exponent (tile 32768).
const MaxExponent = 15

var ErrOutOfRange = errors.New("tile value out of representable range")
var ErrNotPowerOfTwo = errors.New("tile value is not a power of two")

// A PackedBoard is an immutable board value. Cell (r, c) occupies bits
// [4*(4r+c), 4*(4r+c)+4). Every operation returns a new PackedBoard.
type PackedBoard uint64

// A Row is one of the four rows of a PackedBoard, 4 nibbles in 16 bits.
type Row uint16

const rowMask PackedBoard = 0xFFFF

// Cell returns the exponent stored at (row, col).
func (b PackedBoard) Cell(row, col int) uint8 {
	return uint8((b >> (4 * (row*Dim + col))) & 0xF)
}

// SetCell returns a copy of the board with (row, col) set to the given
// exponent.
func (b PackedBoard) SetCell(row, col int, exp uint8) PackedBoard {
	shift := 4 * (row*Dim + col)
	return (b &^ (0xF << shift)) | (PackedBoard(exp&0xF) << shift)
}

// Row extracts row r as a 16-bit value.
func (b PackedBoard) Row(r int) Row {
	return Row((b >> (16 * r)) & rowMask)
}

// SetRow returns a copy of the board with row r replaced.
func (b PackedBoard) SetRow(r int, row Row) PackedBoard {
	shift := 16 * r
	return (b &^ (rowMask << shift)) | (PackedBoard(row) << shift)
}

// WithTile returns a copy of the board with the cell at position pos
// (row*4 + col) set to the given exponent. The cell is assumed empty.
func (b PackedBoard) WithTile(pos int, exp uint8) PackedBoard {
	return b | (PackedBoard(exp) << (4 * pos))
}

// Transpose swaps rows and columns, turning vertical moves into
// horizontal ones. The mask spaghetti moves each nibble to its
// transposed position without a loop.
func (b PackedBoard) Transpose() PackedBoard {
	a1 := b & 0xF0F00F0FF0F00F0F
	a2 := b & 0x0000F0F00000F0F0
	a3 := b & 0x0F0F00000F0F0000
	a := a1 | (a2 << 12) | (a3 >> 12)
	b1 := a & 0xFF00FF0000FF00FF
	b2 := a & 0x00FF00FF00000000
	b3 := a & 0x00000000FF00FF00
	return b1 | (b2 >> 24) | (b3 << 24)
}

// CountEmpty returns the number of empty cells. It reduces each nibble
// to a single "is zero" bit and then sums the bits.
func (b PackedBoard) CountEmpty() int {
	// The nibble sum below is mod 16, so the all-empty board needs a guard.
	if b == 0 {
		return Dim * Dim
	}
	x := uint64(b)
	x |= (x >> 2) & 0x3333333333333333
	x |= x >> 1
	x = ^x & 0x1111111111111111
	x += x >> 32
	x += x >> 16
	x += x >> 8
	x += x >> 4
	return int(x & 0xF)
}

// EmptyCells returns the positions (row*4 + col) of all empty cells.
func (b PackedBoard) EmptyCells() []int {
	cells := make([]int, 0, 16)
	for pos := 0; pos < Dim*Dim; pos++ {
		if (b>>(4*pos))&0xF == 0 {
			cells = append(cells, pos)
		}
	}
	return cells
}

// MaxCellExponent returns the largest exponent on the board (0 if empty).
func (b PackedBoard) MaxCellExponent() uint8 {
	var max uint8
	for x := b; x != 0; x >>= 4 {
		if e := uint8(x & 0xF); e > max {
			max = e
		}
	}
	return max
}

// Reverse returns the row with its nibbles in the opposite order.
func (r Row) Reverse() Row {
	return (r >> 12) | ((r >> 4) & 0x00F0) | ((r << 4) & 0x0F00) | (r << 12)
}

// FromGrid packs a conventional row-major grid of tile values. Zero means
// empty; any other value must be a power of two no greater than 2^15.
func FromGrid(rows [Dim][Dim]uint32) (PackedBoard, error) {
	var b PackedBoard
	for r := 0; r < Dim; r++ {
		for c := 0; c < Dim; c++ {
			val := rows[r][c]
			if val == 0 {
				continue
			}
			if val&(val-1) != 0 {
				return 0, fmt.Errorf("cell (%d, %d) value %d: %w", r, c, val, ErrNotPowerOfTwo)
			}
			exp := uint8(bits.Len32(val) - 1)
			if exp > MaxExponent {
				return 0, fmt.Errorf("cell (%d, %d) value %d: %w", r, c, val, ErrOutOfRange)
			}
			b = b.SetCell(r, c, exp)
		}
	}
	return b, nil
}

// ToGrid unpacks the board into a row-major grid of tile values.
func (b PackedBoard) ToGrid() [Dim][Dim]uint32 {
	var rows [Dim][Dim]uint32
	for r := 0; r < Dim; r++ {
		for c := 0; c < Dim; c++ {
			if exp := b.Cell(r, c); exp > 0 {
				rows[r][c] = 1 << exp
			}
		}
	}
	return rows
}

// String renders the board for terminal display.
func (b PackedBoard) String() string {
	var sb strings.Builder
	rule := strings.Repeat("-", Dim*7+1)
	sb.WriteString(rule)
	sb.WriteByte('\n')
	for r := 0; r < Dim; r++ {
		for c := 0; c < Dim; c++ {
			if exp := b.Cell(r, c); exp == 0 {
				sb.WriteString("|      ")
			} else {
				fmt.Fprintf(&sb, "|%6d", uint32(1)<<exp)
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(rule)
	return sb.String()
}
