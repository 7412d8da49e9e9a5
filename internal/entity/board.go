package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-web/internal/apperror"
)

const BoardSize = 3

const cellCount = BoardSize * BoardSize

// Cell addresses one board position.
type Cell struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Line is one of the winning triples.
type Line [BoardSize]Cell

// Lines are scanned in this order: rows top-to-bottom, columns left-to-right,
// the main diagonal, then the anti-diagonal.
var Lines = [8]Line{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

type Board struct {
	cells      [BoardSize][BoardSize]Marker
	emptyCount int
}

func NewBoard() *Board {
	return &Board{emptyCount: cellCount}
}

// InBounds - reports whether (row, column) addresses a cell of the board.
func InBounds(row, column int) bool {
	return row >= 0 && row < BoardSize && column >= 0 && column < BoardSize
}

func (that *Board) CellAt(row, column int) (Marker, error) {
	if !InBounds(row, column) {
		return NoMarker, fmt.Errorf("%w: cell (%d, %d)", apperror.ErrContractViolation, row, column)
	}

	return that.cells[row][column], nil
}

// Mark - writes marker into an empty cell and returns it.
// An occupied cell is left untouched and ErrIllegalMove is returned.
func (that *Board) Mark(row, column int, marker Marker) (Marker, error) {
	if !InBounds(row, column) {
		return NoMarker, fmt.Errorf("%w: cell (%d, %d)", apperror.ErrContractViolation, row, column)
	}

	if marker.IsEmpty() {
		return NoMarker, fmt.Errorf("%w: empty marker", apperror.ErrContractViolation)
	}

	if !that.cells[row][column].IsEmpty() {
		return NoMarker, apperror.ErrIllegalMove
	}

	that.cells[row][column] = marker
	that.emptyCount--

	return marker, nil
}

// WinningLine - returns the first completed line in scan order.
func (that *Board) WinningLine() (Line, bool) {
	for _, line := range Lines {
		if that.isComplete(line) {
			return line, true
		}
	}

	return Line{}, false
}

// FindWinningLine - returns the marker of the first completed line.
func (that *Board) FindWinningLine() (Marker, bool) {
	line, ok := that.WinningLine()
	if !ok {
		return NoMarker, false
	}

	return that.cells[line[0].Row][line[0].Column], true
}

func (that *Board) isComplete(line Line) bool {
	first := that.cells[line[0].Row][line[0].Column]
	if first.IsEmpty() {
		return false
	}

	for _, cell := range line[1:] {
		if that.cells[cell.Row][cell.Column] != first {
			return false
		}
	}

	return true
}

func (that *Board) EmptyCellCount() int {
	return that.emptyCount
}

// Cells - returns a copy of the grid.
func (that *Board) Cells() [BoardSize][BoardSize]Marker {
	return that.cells
}

func (that *Board) Reset() {
	that.cells = [BoardSize][BoardSize]Marker{}
	that.emptyCount = cellCount
}
