package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-match/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-match/internal/match"
	"github.com/rocketscienceinc/tictactoe-match/internal/pkg"
)

type matchRepo interface {
	Save(ctx context.Context, sessionID string, state match.State) error
	GetBySessionID(ctx context.Context, sessionID string) (match.State, error)
	DeleteBySessionID(ctx context.Context, sessionID string) error
}

// MatchManager runs the match of each client session: it loads the machine,
// applies one intent and stores the result.
type MatchManager struct {
	logger    *slog.Logger
	matchRepo matchRepo

	// serialises load-apply-save so intents are applied in arrival order
	mu sync.Mutex
}

func NewMatchManager(logger *slog.Logger, matchRepo matchRepo) *MatchManager {
	return &MatchManager{
		logger: logger.With("component", "match_manager"),

		matchRepo: matchRepo,
	}
}

// NewSession - returns an id for a session that has no match yet.
func (that *MatchManager) NewSession() string {
	return pkg.GenerateSessionID()
}

func (that *MatchManager) Get(ctx context.Context, sessionID string) (match.Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	machine, err := that.load(ctx, sessionID)
	if err != nil {
		return match.Snapshot{}, err
	}

	return machine.Snapshot(), nil
}

func (that *MatchManager) Start(ctx context.Context, sessionID, playerX, playerO string, winsRequired int) (match.Snapshot, error) {
	log := that.logger.With("method", "Start", "session", sessionID)

	that.mu.Lock()
	defer that.mu.Unlock()

	machine, err := that.loadOrDiscard(ctx, sessionID)
	if err != nil {
		return match.Snapshot{}, err
	}

	if err = machine.Start(playerX, playerO, winsRequired); err != nil {
		log.Debug("match not started", "error", err)
		return machine.Snapshot(), err
	}

	if err = that.save(ctx, sessionID, machine); err != nil {
		return match.Snapshot{}, err
	}

	log.Info("match started", "player_x", playerX, "player_o", playerO, "wins_required", winsRequired)

	return machine.Snapshot(), nil
}

// Move - applies a move and returns the conclusion if the move ended the round.
func (that *MatchManager) Move(ctx context.Context, sessionID string, cell int) (match.Snapshot, *match.Conclusion, error) {
	log := that.logger.With("method", "Move", "session", sessionID)

	that.mu.Lock()
	defer that.mu.Unlock()

	machine, err := that.load(ctx, sessionID)
	if err != nil {
		return match.Snapshot{}, nil, err
	}

	result := machine.ApplyMove(cell)
	if !result.Applied {
		log.Debug("move ignored", "cell", cell, "phase", machine.Phase())
		return machine.Snapshot(), nil, nil
	}

	if err = that.save(ctx, sessionID, machine); err != nil {
		return match.Snapshot{}, nil, err
	}

	log.Debug("move applied", "cell", cell, "mark", result.Mark, "board", machine.Board().String())

	if conclusion := result.Conclusion; conclusion != nil {
		log.Info("round concluded",
			"round", conclusion.Round,
			"outcome", conclusion.Outcome,
			"winner", conclusion.WinnerName,
			"score_x", conclusion.Score.X,
			"score_o", conclusion.Score.O,
			"match_over", conclusion.MatchOver,
		)
	}

	return machine.Snapshot(), result.Conclusion, nil
}

func (that *MatchManager) Undo(ctx context.Context, sessionID string) (match.Snapshot, error) {
	return that.apply(ctx, sessionID, "Undo", (*match.Machine).Undo)
}

func (that *MatchManager) NextRound(ctx context.Context, sessionID string) (match.Snapshot, error) {
	return that.apply(ctx, sessionID, "NextRound", (*match.Machine).NextRound)
}

func (that *MatchManager) ResetMatch(ctx context.Context, sessionID string) (match.Snapshot, error) {
	return that.apply(ctx, sessionID, "ResetMatch", (*match.Machine).ResetMatch)
}

// ReturnToStart - ends the match and forgets the session's state.
func (that *MatchManager) ReturnToStart(ctx context.Context, sessionID string) (match.Snapshot, error) {
	log := that.logger.With("method", "ReturnToStart", "session", sessionID)

	that.mu.Lock()
	defer that.mu.Unlock()

	machine, err := that.loadOrDiscard(ctx, sessionID)
	if err != nil {
		return match.Snapshot{}, err
	}

	if !machine.ReturnToStart() {
		log.Debug("return to start ignored", "phase", machine.Phase())
		return machine.Snapshot(), nil
	}

	if err = that.matchRepo.DeleteBySessionID(ctx, sessionID); err != nil && !errors.Is(err, apperror.ErrMatchNotFound) {
		return match.Snapshot{}, fmt.Errorf("failed to delete match: %w", err)
	}

	log.Info("returned to start")

	return machine.Snapshot(), nil
}

// apply runs a machine operation that reports whether it changed anything.
func (that *MatchManager) apply(ctx context.Context, sessionID, method string, operation func(*match.Machine) bool) (match.Snapshot, error) {
	log := that.logger.With("method", method, "session", sessionID)

	that.mu.Lock()
	defer that.mu.Unlock()

	machine, err := that.load(ctx, sessionID)
	if err != nil {
		return match.Snapshot{}, err
	}

	if !operation(machine) {
		log.Debug("intent ignored", "phase", machine.Phase())
		return machine.Snapshot(), nil
	}

	if err = that.save(ctx, sessionID, machine); err != nil {
		return match.Snapshot{}, err
	}

	log.Debug("intent applied", "phase", machine.Phase(), "round", machine.Round())

	return machine.Snapshot(), nil
}

// load returns the session's machine; a session without a stored match gets a fresh one.
func (that *MatchManager) load(ctx context.Context, sessionID string) (*match.Machine, error) {
	if sessionID == "" {
		return nil, apperror.ErrEmptySessionID
	}

	state, err := that.matchRepo.GetBySessionID(ctx, sessionID)
	if errors.Is(err, apperror.ErrMatchNotFound) {
		return match.New(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed get match by session id: %w", err)
	}

	machine, err := match.Restore(state)
	if err != nil {
		that.logger.Error("stored match is corrupt", "session", sessionID, "error", err)
		return nil, fmt.Errorf("failed restore match: %w", err)
	}

	return machine, nil
}

// loadOrDiscard - like load, but a corrupt stored match is deleted and replaced
// by a fresh machine so the session can start over.
func (that *MatchManager) loadOrDiscard(ctx context.Context, sessionID string) (*match.Machine, error) {
	machine, err := that.load(ctx, sessionID)
	if !errors.Is(err, apperror.ErrCorruptState) {
		return machine, err
	}

	if err = that.matchRepo.DeleteBySessionID(ctx, sessionID); err != nil && !errors.Is(err, apperror.ErrMatchNotFound) {
		return nil, fmt.Errorf("failed to delete corrupt match: %w", err)
	}

	that.logger.Warn("corrupt match discarded", "session", sessionID)

	return match.New(), nil
}

func (that *MatchManager) save(ctx context.Context, sessionID string, machine *match.Machine) error {
	if err := that.matchRepo.Save(ctx, sessionID, machine.State()); err != nil {
		return fmt.Errorf("failed save match: %w", err)
	}

	return nil
}
