package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-match/internal/apperror"
)

// Mark is the content of a single board cell.
type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

// BoardSize is the number of cells on the board.
const BoardSize = 9

// WinCombos lists every winning triple in evaluation order: rows, columns, diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Opponent returns the other player's mark. The empty cell has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

// IsPlayer reports whether the mark belongs to one of the two players.
func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// Board is a 3x3 board stored row-major.
type Board [BoardSize]Mark

// Place returns a copy of the board with mark put at cell.
func (that Board) Place(cell int, mark Mark) (Board, error) {
	if cell < 0 || cell >= BoardSize {
		return that, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that[cell] != EmptyCell {
		return that, fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	that[cell] = mark

	return that, nil
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// Count returns the number of occupied cells.
func (that Board) Count() int {
	count := 0
	for _, cell := range that {
		if cell != EmptyCell {
			count++
		}
	}

	return count
}

func (that Board) String() string {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			mark := that[row*3+col]
			if mark == EmptyCell {
				mark = "."
			}
			sb.WriteString(string(mark))
		}
		if row < 2 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
