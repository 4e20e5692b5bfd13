package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-match/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-match/internal/entity"
	"github.com/rocketscienceinc/tictactoe-match/internal/match"
)

// MemoryMatchRepository keeps states in process memory. It is the default
// store for a single local instance.
type MemoryMatchRepository struct {
	mu      sync.RWMutex
	matches map[string]match.State
}

func NewMemoryMatchRepository() *MemoryMatchRepository {
	return &MemoryMatchRepository{
		matches: make(map[string]match.State),
	}
}

func (that *MemoryMatchRepository) Save(_ context.Context, sessionID string, state match.State) error {
	if sessionID == "" {
		return apperror.ErrEmptySessionID
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.matches[sessionID] = cloneState(state)

	return nil
}

func (that *MemoryMatchRepository) GetBySessionID(_ context.Context, sessionID string) (match.State, error) {
	if sessionID == "" {
		return match.State{}, apperror.ErrEmptySessionID
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	state, ok := that.matches[sessionID]
	if !ok {
		return match.State{}, apperror.ErrMatchNotFound
	}

	return cloneState(state), nil
}

func (that *MemoryMatchRepository) DeleteBySessionID(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return apperror.ErrEmptySessionID
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.matches[sessionID]; !ok {
		return apperror.ErrMatchNotFound
	}

	delete(that.matches, sessionID)

	return nil
}

// Count returns the number of stored sessions.
func (that *MemoryMatchRepository) Count() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.matches)
}

func cloneState(state match.State) match.State {
	state.Boards = append([]entity.Board(nil), state.Boards...)

	if state.Conclusion != nil {
		conclusion := *state.Conclusion
		conclusion.Line = append([]int(nil), conclusion.Line...)
		state.Conclusion = &conclusion
	}

	return state
}
