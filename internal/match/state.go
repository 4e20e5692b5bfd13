package match

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-match/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-match/internal/entity"
)

// State is the serialisable form of a Machine, used by session stores.
type State struct {
	Phase        Phase          `json:"phase"`
	Players      entity.Players `json:"players"`
	WinsRequired int            `json:"wins_required"`
	Score        Score          `json:"score"`
	Round        int            `json:"round"`
	Starting     entity.Mark    `json:"starting"`
	Boards       []entity.Board `json:"boards"`
	Pointer      int            `json:"pointer"`
	MatchWinner  entity.Mark    `json:"match_winner,omitempty"`
	Conclusion   *Conclusion    `json:"conclusion,omitempty"`
}

func (that *Machine) State() State {
	state := State{
		Phase:        that.phase,
		Players:      that.players,
		WinsRequired: that.winsRequired,
		Score:        that.score,
		Round:        that.round,
		Starting:     that.starting,
		Boards:       that.history.Boards(),
		Pointer:      that.history.Pointer(),
		MatchWinner:  that.matchWinner,
		Conclusion:   that.concluded.clone(),
	}

	return state
}

// Restore rebuilds a machine from a stored state.
func Restore(state State) (*Machine, error) {
	if err := state.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrCorruptState, err)
	}

	if state.Phase == PhaseNotStarted {
		return New(), nil
	}

	machine := &Machine{
		phase:        state.Phase,
		players:      state.Players,
		winsRequired: state.WinsRequired,
		score:        state.Score,
		round:        state.Round,
		starting:     state.Starting,
		history: History{
			boards:  append([]entity.Board(nil), state.Boards...),
			pointer: state.Pointer,
		},
		matchWinner: state.MatchWinner,
		concluded:   state.Conclusion.clone(),
	}

	return machine, nil
}

func (that State) validate() error {
	if !that.Phase.IsValid() {
		return fmt.Errorf("unknown phase %q", that.Phase)
	}

	if that.Phase == PhaseNotStarted {
		return nil
	}

	if that.Players.X.Name == "" || that.Players.O.Name == "" {
		return fmt.Errorf("players are not set")
	}

	if that.WinsRequired < 1 {
		return fmt.Errorf("wins required %d", that.WinsRequired)
	}

	if that.Round < 1 {
		return fmt.Errorf("round %d", that.Round)
	}

	if !that.Starting.IsPlayer() {
		return fmt.Errorf("starting mark %q", that.Starting)
	}

	if len(that.Boards) == 0 || that.Boards[0] != (entity.Board{}) {
		return fmt.Errorf("history must start with an empty board")
	}

	if that.Pointer < 0 || that.Pointer >= len(that.Boards) {
		return fmt.Errorf("pointer %d out of range [0, %d)", that.Pointer, len(that.Boards))
	}

	for i, board := range that.Boards {
		for _, mark := range board {
			if mark != entity.EmptyCell && !mark.IsPlayer() {
				return fmt.Errorf("board %d has unknown mark %q", i, mark)
			}
		}

		// one mark is added per move
		if board.Count() != i {
			return fmt.Errorf("board %d has %d marks", i, board.Count())
		}
	}

	terminal := entity.Evaluate(that.Boards[that.Pointer]).IsTerminal()

	switch that.Phase {
	case PhaseRoundInProgress:
		if terminal {
			return fmt.Errorf("round in progress on a finished board")
		}

		if that.Conclusion != nil {
			return fmt.Errorf("round in progress has a conclusion")
		}
	case PhaseRoundConcluded, PhaseMatchConcluded:
		if !terminal {
			return fmt.Errorf("%s on an unfinished board", that.Phase)
		}

		if that.Conclusion == nil {
			return fmt.Errorf("%s without a conclusion", that.Phase)
		}
	}

	if that.Score.X > that.WinsRequired || that.Score.O > that.WinsRequired {
		return fmt.Errorf("score %+v exceeds wins required %d", that.Score, that.WinsRequired)
	}

	if that.Phase == PhaseMatchConcluded && !that.MatchWinner.IsPlayer() {
		return fmt.Errorf("concluded match has no winner")
	}

	return nil
}
