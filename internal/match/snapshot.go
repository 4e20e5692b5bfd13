package match

import "github.com/rocketscienceinc/tictactoe-match/internal/entity"

// Snapshot is a read-only view of a machine for the presentation layer.
type Snapshot struct {
	Phase        Phase          `json:"phase"`
	Board        entity.Board   `json:"board"`
	Mover        entity.Player  `json:"mover"`
	Players      entity.Players `json:"players"`
	Score        Score          `json:"score"`
	Round        int            `json:"round"`
	WinsRequired int            `json:"wins_required"`
	Starting     entity.Mark    `json:"starting"`
	Move         int            `json:"move"`
	HistoryLen   int            `json:"history_len"`
	CanUndo      bool           `json:"can_undo"`
	Result       entity.Result  `json:"result"`
	Conclusion   *Conclusion    `json:"conclusion,omitempty"`
	MatchWinner  string         `json:"match_winner,omitempty"`
}

func (that *Machine) Snapshot() Snapshot {
	board := that.history.Current()

	snapshot := Snapshot{
		Phase:        that.phase,
		Board:        board,
		Players:      that.players,
		Score:        that.score,
		Round:        that.round,
		WinsRequired: that.winsRequired,
		Starting:     that.starting,
		Move:         that.history.Pointer(),
		HistoryLen:   that.history.Len(),
		CanUndo:      that.phase == PhaseRoundInProgress && that.history.Pointer() > 0,
		Result:       entity.Evaluate(board),
		Conclusion:   that.concluded.clone(),
		MatchWinner:  that.players.ByMark(that.matchWinner).Name,
	}

	if that.phase.IsStarted() {
		snapshot.Mover = that.players.ByMark(that.Mover())
	}

	return snapshot
}
