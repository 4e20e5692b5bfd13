package entity

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-match/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMark_Opponent(t *testing.T) {
	assert.Equal(t, PlayerO, PlayerX.Opponent())
	assert.Equal(t, PlayerX, PlayerO.Opponent())
	assert.Equal(t, EmptyCell, EmptyCell.Opponent())
}

func TestMark_IsPlayer(t *testing.T) {
	assert.True(t, PlayerX.IsPlayer())
	assert.True(t, PlayerO.IsPlayer())
	assert.False(t, EmptyCell.IsPlayer())
	assert.False(t, Mark("Z").IsPlayer())
}

func TestBoard_Place(t *testing.T) {
	t.Run("Places mark on a copy", func(t *testing.T) {
		// Given: an empty board
		var board Board

		// When: X is placed in the center
		next, err := board.Place(4, PlayerX)

		// Then: the new board has the mark and the original is untouched
		require.NoError(t, err)
		assert.Equal(t, PlayerX, next[4])
		assert.Equal(t, EmptyCell, board[4])
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: a board with X in cell 0
		board := Board{PlayerX}

		// When: O tries to take the same cell
		next, err := board.Place(0, PlayerO)

		// Then: ErrCellOccupied is returned and the board is unchanged
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, board, next)
	})

	t.Run("Error on invalid cell index", func(t *testing.T) {
		var board Board

		_, err := board.Place(9, PlayerX)
		require.ErrorIs(t, err, apperror.ErrInvalidCell)

		_, err = board.Place(-1, PlayerX)
		require.ErrorIs(t, err, apperror.ErrInvalidCell)
	})
}

func TestBoard_IsFullAndCount(t *testing.T) {
	var board Board
	assert.False(t, board.IsFull())
	assert.Equal(t, 0, board.Count())

	board = Board{
		PlayerX, PlayerO, PlayerX,
		PlayerX, PlayerO, PlayerO,
		PlayerO, PlayerX, PlayerX,
	}
	assert.True(t, board.IsFull())
	assert.Equal(t, 9, board.Count())
}

func TestBoard_String(t *testing.T) {
	board := Board{
		PlayerX, EmptyCell, PlayerO,
		EmptyCell, PlayerX, EmptyCell,
		EmptyCell, EmptyCell, PlayerO,
	}

	assert.Equal(t, "X.O\n.X.\n..O", board.String())
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		want  Result
	}{
		{
			name:  "empty board is in progress",
			board: Board{},
			want:  Result{Outcome: OutcomeInProgress},
		},
		{
			name: "X wins top row",
			board: Board{
				PlayerX, PlayerX, PlayerX,
				PlayerO, PlayerO, EmptyCell,
				EmptyCell, EmptyCell, EmptyCell,
			},
			want: Result{Outcome: OutcomeWin, Winner: PlayerX, Line: []int{0, 1, 2}},
		},
		{
			name: "O wins middle column",
			board: Board{
				PlayerX, PlayerO, PlayerX,
				EmptyCell, PlayerO, EmptyCell,
				PlayerX, PlayerO, EmptyCell,
			},
			want: Result{Outcome: OutcomeWin, Winner: PlayerO, Line: []int{1, 4, 7}},
		},
		{
			name: "X wins anti-diagonal",
			board: Board{
				PlayerO, PlayerO, PlayerX,
				EmptyCell, PlayerX, EmptyCell,
				PlayerX, EmptyCell, EmptyCell,
			},
			want: Result{Outcome: OutcomeWin, Winner: PlayerX, Line: []int{2, 4, 6}},
		},
		{
			name: "win on the last cell beats draw",
			board: Board{
				PlayerX, PlayerO, PlayerX,
				PlayerO, PlayerX, PlayerO,
				PlayerO, PlayerX, PlayerX,
			},
			want: Result{Outcome: OutcomeWin, Winner: PlayerX, Line: []int{0, 4, 8}},
		},
		{
			name: "full board without a line is a draw",
			board: Board{
				PlayerX, PlayerO, PlayerX,
				PlayerX, PlayerO, PlayerO,
				PlayerO, PlayerX, PlayerX,
			},
			want: Result{Outcome: OutcomeDraw},
		},
		{
			name: "no line and an empty cell is in progress",
			board: Board{
				PlayerX, PlayerO, PlayerX,
				PlayerX, PlayerO, PlayerO,
				PlayerO, PlayerX, EmptyCell,
			},
			want: Result{Outcome: OutcomeInProgress},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.board)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Outcome != OutcomeInProgress, got.IsTerminal())
		})
	}
}

func TestEvaluate_EveryComboWinsForBothMarks(t *testing.T) {
	for _, mark := range []Mark{PlayerX, PlayerO} {
		for _, combo := range WinCombos {
			// Given: a board where only this combo is filled with mark
			var board Board
			for _, cell := range combo {
				board[cell] = mark
			}

			// When: the board is evaluated
			result := Evaluate(board)

			// Then: mark wins with exactly this line
			require.Equal(t, OutcomeWin, result.Outcome)
			require.Equal(t, mark, result.Winner)
			require.Equal(t, combo[:], result.Line)
		}
	}
}

func TestPlayers_ByMark(t *testing.T) {
	players := NewPlayers("Ann", "Bo")

	assert.Equal(t, Player{Name: "Ann", Mark: PlayerX}, players.ByMark(PlayerX))
	assert.Equal(t, Player{Name: "Bo", Mark: PlayerO}, players.ByMark(PlayerO))
	assert.Equal(t, Player{}, players.ByMark(EmptyCell))
	assert.False(t, players.IsZero())
	assert.True(t, Players{}.IsZero())
}
