package repository_test

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-match/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-match/internal/match"
	"github.com/rocketscienceinc/tictactoe-match/internal/repository"
	"github.com/rocketscienceinc/tictactoe-match/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func midRoundState(t *testing.T) match.State {
	t.Helper()

	machine := match.New()
	require.NoError(t, machine.Start("Ann", "Bo", 2))
	machine.ApplyMove(4)
	machine.ApplyMove(0)

	return machine.State()
}

func TestMatchRepository_Save(t *testing.T) {
	ctx, st := suite.New(t)

	// When: a state is saved
	err := st.MatchRepo.Save(ctx, "session-1", midRoundState(t))

	// Then: it is stored under the session key with the ttl
	require.NoError(t, err)

	ttl, err := st.Storage.TTL(ctx, "match:session-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, suite.SessionTTL)
}

func TestMatchRepository_Save_WithoutTTL(t *testing.T) {
	ctx, st := suite.New(t)

	matchRepo := repository.NewMatchRepository(st.Storage, 0)
	require.NoError(t, matchRepo.Save(ctx, "session-1", midRoundState(t)))

	// a negative ttl means the key never expires
	ttl, err := st.Storage.TTL(ctx, "match:session-1").Result()
	require.NoError(t, err)
	assert.Less(t, ttl, time.Duration(0))
}

func TestMatchRepository_GetBySessionID(t *testing.T) {
	t.Run("GetBySessionID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		// Given: a saved state
		state := midRoundState(t)
		require.NoError(t, st.MatchRepo.Save(ctx, "session-1", state))

		// When: it is read back
		retrieved, err := st.MatchRepo.GetBySessionID(ctx, "session-1")

		// Then: the state and the machine built from it match the saved one
		require.NoError(t, err)
		assert.Equal(t, state, retrieved)

		machine, err := match.Restore(retrieved)
		require.NoError(t, err)
		assert.Equal(t, 2, machine.Snapshot().Move)
	})

	t.Run("GetBySessionID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		_, err := st.MatchRepo.GetBySessionID(ctx, "9999999")

		require.ErrorIs(t, err, apperror.ErrMatchNotFound)
	})

	t.Run("GetBySessionID_Unreadable", func(t *testing.T) {
		ctx, st := suite.New(t)
		require.NoError(t, st.Storage.Set(ctx, "match:session-1", "{not json", 0).Err())

		_, err := st.MatchRepo.GetBySessionID(ctx, "session-1")

		require.Error(t, err)
		assert.NotErrorIs(t, err, apperror.ErrMatchNotFound)
	})
}

func TestMatchRepository_DeleteBySessionID(t *testing.T) {
	t.Run("DeleteBySessionID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		require.NoError(t, st.MatchRepo.Save(ctx, "session-1", midRoundState(t)))

		err := st.MatchRepo.DeleteBySessionID(ctx, "session-1")
		require.NoError(t, err)

		_, err = st.MatchRepo.GetBySessionID(ctx, "session-1")
		require.ErrorIs(t, err, apperror.ErrMatchNotFound)
	})

	t.Run("DeleteBySessionID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		err := st.MatchRepo.DeleteBySessionID(ctx, "9999999")

		require.ErrorIs(t, err, apperror.ErrMatchNotFound)
	})
}
