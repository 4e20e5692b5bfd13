package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-match/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-match/internal/match"
)

const matchKeyPrefix = "match:"

// MatchRepository keeps one match state per client session.
type MatchRepository interface {
	Save(ctx context.Context, sessionID string, state match.State) error
	GetBySessionID(ctx context.Context, sessionID string) (match.State, error)
	DeleteBySessionID(ctx context.Context, sessionID string) error
}

type dbMatch struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMatchRepository stores states as JSON under "match:<session>". Every save
// refreshes the ttl; a zero ttl keeps entries until they are deleted.
func NewMatchRepository(client *redis.Client, ttl time.Duration) MatchRepository {
	return &dbMatch{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbMatch) Save(ctx context.Context, sessionID string, state match.State) error {
	if sessionID == "" {
		return apperror.ErrEmptySessionID
	}

	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("could not marshal match: %w", err)
	}

	if err = that.client.Set(ctx, matchKeyPrefix+sessionID, stateJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set match: %w", err)
	}

	return nil
}

func (that *dbMatch) GetBySessionID(ctx context.Context, sessionID string) (match.State, error) {
	if sessionID == "" {
		return match.State{}, apperror.ErrEmptySessionID
	}

	response, err := that.client.Get(ctx, matchKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return match.State{}, apperror.ErrMatchNotFound
	}

	if err != nil {
		return match.State{}, fmt.Errorf("failed to get match by session id: %w", err)
	}

	var state match.State
	if err = json.Unmarshal([]byte(response), &state); err != nil {
		return match.State{}, fmt.Errorf("failed to unmarshal match: %w", err)
	}

	return state, nil
}

func (that *dbMatch) DeleteBySessionID(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperror.ErrEmptySessionID
	}

	deleted, err := that.client.Del(ctx, matchKeyPrefix+sessionID).Result()
	if err != nil {
		return fmt.Errorf("failed to delete match by session id: %w", err)
	}

	if deleted == 0 {
		return apperror.ErrMatchNotFound
	}

	return nil
}
