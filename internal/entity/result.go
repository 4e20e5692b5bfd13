package entity

// Outcome is the state of a single round as derived from its board.
type Outcome string

const (
	OutcomeInProgress Outcome = "in_progress"
	OutcomeWin        Outcome = "win"
	OutcomeDraw       Outcome = "draw"
)

// Result is the evaluation of a board. Winner and Line are set only for OutcomeWin.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Winner  Mark    `json:"winner,omitempty"`
	Line    []int   `json:"line,omitempty"`
}

func (that Result) IsTerminal() bool {
	return that.Outcome == OutcomeWin || that.Outcome == OutcomeDraw
}

// Evaluate checks the board for a completed line, then for a draw.
// The first completed triple in WinCombos order decides the winner.
func Evaluate(board Board) Result {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return Result{
				Outcome: OutcomeWin,
				Winner:  a,
				Line:    []int{combo[0], combo[1], combo[2]},
			}
		}
	}

	// the round goes on until all the squares are full
	if !board.IsFull() {
		return Result{Outcome: OutcomeInProgress}
	}

	return Result{Outcome: OutcomeDraw}
}
