package match

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-match/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-match/internal/entity"
)

// Conclusion describes how a round ended. It is produced once, by the move
// that made the board terminal.
type Conclusion struct {
	Round        int            `json:"round"`
	Outcome      entity.Outcome `json:"outcome"`
	Winner       entity.Mark    `json:"winner,omitempty"`
	WinnerName   string         `json:"winner_name,omitempty"`
	Line         []int          `json:"line,omitempty"`
	MatchOver    bool           `json:"match_over"`
	Score        Score          `json:"score"`
	NextStarting entity.Mark    `json:"next_starting"`
}

// clone returns a copy that shares no memory with the receiver.
func (that *Conclusion) clone() *Conclusion {
	if that == nil {
		return nil
	}

	conclusion := *that
	conclusion.Line = append([]int(nil), that.Line...)

	return &conclusion
}

// MoveResult reports what ApplyMove did. Conclusion is non-nil only when the
// move ended the round.
type MoveResult struct {
	Applied    bool
	Mark       entity.Mark
	Conclusion *Conclusion
}

// Machine is the state of a single match between two local players.
// It is not safe for concurrent use.
type Machine struct {
	phase        Phase
	players      entity.Players
	winsRequired int

	score    Score
	round    int
	starting entity.Mark
	history  History

	matchWinner entity.Mark
	concluded   *Conclusion
}

// New returns a machine waiting for Start.
func New() *Machine {
	machine := &Machine{}
	machine.clear()

	return machine
}

// Start binds the players and begins round one. The first named player plays X.
// An already running match is replaced.
func (that *Machine) Start(playerX, playerO string, winsRequired int) error {
	if strings.TrimSpace(playerX) == "" || strings.TrimSpace(playerO) == "" {
		return fmt.Errorf("%w: player names must not be empty", apperror.ErrInvalidConfiguration)
	}

	if winsRequired < 1 {
		return fmt.Errorf("%w: wins required must be at least 1, got %d", apperror.ErrInvalidConfiguration, winsRequired)
	}

	that.clear()
	that.players = entity.NewPlayers(playerX, playerO)
	that.winsRequired = winsRequired
	that.phase = PhaseRoundInProgress

	return nil
}

// ApplyMove places the mover's mark at cell. Moves outside a running round,
// on a finished board, out of range or onto an occupied cell are ignored.
func (that *Machine) ApplyMove(cell int) MoveResult {
	if that.phase != PhaseRoundInProgress {
		return MoveResult{}
	}

	current := that.history.Current()
	if entity.Evaluate(current).IsTerminal() {
		return MoveResult{}
	}

	mover := that.Mover()

	next, err := current.Place(cell, mover)
	if err != nil {
		return MoveResult{}
	}

	that.history = that.history.Push(next)

	result := MoveResult{Applied: true, Mark: mover}

	if outcome := entity.Evaluate(next); outcome.IsTerminal() {
		result.Conclusion = that.conclude(outcome)
	}

	return result
}

// conclude records the end of the current round.
func (that *Machine) conclude(result entity.Result) *Conclusion {
	conclusion := &Conclusion{
		Round:   that.round,
		Outcome: result.Outcome,
	}

	switch result.Outcome {
	case entity.OutcomeWin:
		that.score = that.score.Add(result.Winner)
		// loser of this round starts the next one
		that.starting = result.Winner.Opponent()

		conclusion.Winner = result.Winner
		conclusion.WinnerName = that.players.ByMark(result.Winner).Name
		conclusion.Line = result.Line

		if that.score.Of(result.Winner) == that.winsRequired {
			that.phase = PhaseMatchConcluded
			that.matchWinner = result.Winner
			conclusion.MatchOver = true
		} else {
			that.phase = PhaseRoundConcluded
		}
	default:
		that.starting = that.starting.Opponent()
		that.phase = PhaseRoundConcluded
	}

	conclusion.Score = that.score
	conclusion.NextStarting = that.starting
	that.concluded = conclusion

	return conclusion.clone()
}

// Undo steps back one move within the running round.
func (that *Machine) Undo() bool {
	if that.phase != PhaseRoundInProgress {
		return false
	}

	history, ok := that.history.Back()
	if !ok {
		return false
	}

	that.history = history

	return true
}

// NextRound starts a fresh board after a concluded round.
func (that *Machine) NextRound() bool {
	if that.phase != PhaseRoundConcluded {
		return false
	}

	that.history = NewHistory()
	that.round++
	that.concluded = nil
	that.phase = PhaseRoundInProgress

	return true
}

// ResetMatch replays the match with the same players and threshold.
func (that *Machine) ResetMatch() bool {
	if that.phase != PhaseRoundConcluded && that.phase != PhaseMatchConcluded {
		return false
	}

	that.resetScore()
	that.phase = PhaseRoundInProgress

	return true
}

// ReturnToStart forgets the players and waits for a new Start.
func (that *Machine) ReturnToStart() bool {
	if !that.phase.IsStarted() {
		return false
	}

	that.clear()

	return true
}

func (that *Machine) resetScore() {
	that.score = Score{}
	that.round = 1
	that.starting = entity.PlayerX
	that.history = NewHistory()
	that.matchWinner = entity.EmptyCell
	that.concluded = nil
}

func (that *Machine) clear() {
	that.resetScore()
	that.players = entity.Players{}
	that.winsRequired = 0
	that.phase = PhaseNotStarted
}

// Mover returns the mark that plays next on the displayed board.
func (that *Machine) Mover() entity.Mark {
	if that.history.Pointer()%2 == 0 {
		return that.starting
	}

	return that.starting.Opponent()
}

func (that *Machine) Phase() Phase {
	return that.phase
}

func (that *Machine) Board() entity.Board {
	return that.history.Current()
}

func (that *Machine) Score() Score {
	return that.score
}

func (that *Machine) Round() int {
	return that.round
}

func (that *Machine) Starting() entity.Mark {
	return that.starting
}

func (that *Machine) History() History {
	return that.history
}
