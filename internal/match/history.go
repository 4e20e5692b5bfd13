package match

import "github.com/rocketscienceinc/tictactoe-match/internal/entity"

// History is the sequence of boards played in the current round together with
// the pointer to the board on display. The zero History is not usable; start
// from NewHistory.
//
// A History value is never mutated: Push and Back return new values. Push
// always copies into a fresh backing array, so boards reachable from an older
// value stay intact after a branch.
type History struct {
	boards  []entity.Board
	pointer int
}

func NewHistory() History {
	return History{boards: []entity.Board{{}}}
}

// Current returns the board the pointer refers to.
func (that History) Current() entity.Board {
	return that.boards[that.pointer]
}

func (that History) Pointer() int {
	return that.pointer
}

func (that History) Len() int {
	return len(that.boards)
}

// Push drops every board after the pointer, appends board and moves the
// pointer onto it.
func (that History) Push(board entity.Board) History {
	kept := that.boards[:that.pointer+1 : that.pointer+1]

	return History{
		boards:  append(kept, board),
		pointer: that.pointer + 1,
	}
}

// Back moves the pointer one board back. It reports false at the first board.
func (that History) Back() (History, bool) {
	if that.pointer == 0 {
		return that, false
	}

	return History{boards: that.boards, pointer: that.pointer - 1}, true
}

// Boards returns a copy of all boards, including the ones past the pointer.
func (that History) Boards() []entity.Board {
	return append([]entity.Board(nil), that.boards...)
}
