package presenter

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-match/internal/entity"
	"github.com/rocketscienceinc/tictactoe-match/internal/match"
)

// View is the shape of a match sent to clients.
type View struct {
	Phase        match.Phase       `json:"phase"`
	Board        entity.Board      `json:"board"`
	Mover        *entity.Player    `json:"mover,omitempty"`
	Players      *entity.Players   `json:"players,omitempty"`
	Score        match.Score       `json:"score"`
	Round        int               `json:"round"`
	WinsRequired int               `json:"wins_required,omitempty"`
	Move         int               `json:"move"`
	CanUndo      bool              `json:"can_undo"`
	Result       entity.Result     `json:"result"`
	Conclusion   *match.Conclusion `json:"conclusion,omitempty"`
	Message      string            `json:"message,omitempty"`
	MatchWinner  string            `json:"match_winner,omitempty"`
}

func NewView(snapshot match.Snapshot) View {
	view := View{
		Phase:        snapshot.Phase,
		Board:        snapshot.Board,
		Score:        snapshot.Score,
		Round:        snapshot.Round,
		WinsRequired: snapshot.WinsRequired,
		Move:         snapshot.Move,
		CanUndo:      snapshot.CanUndo,
		Result:       snapshot.Result,
		Conclusion:   snapshot.Conclusion,
		MatchWinner:  snapshot.MatchWinner,
	}

	if snapshot.Phase.IsStarted() {
		players := snapshot.Players
		view.Players = &players

		if snapshot.Phase == match.PhaseRoundInProgress {
			mover := snapshot.Mover
			view.Mover = &mover
		}
	}

	if snapshot.Conclusion != nil {
		view.Message = Message(*snapshot.Conclusion)
	}

	return view
}

// Message describes a concluded round for the outcome dialog.
func Message(conclusion match.Conclusion) string {
	if conclusion.Outcome != entity.OutcomeWin {
		return fmt.Sprintf("Round %d is a draw!", conclusion.Round)
	}

	message := fmt.Sprintf("%s has won round %d", conclusion.WinnerName, conclusion.Round)
	if conclusion.MatchOver {
		message += " and has won the match!"
	}

	return message
}
