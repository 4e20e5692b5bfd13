package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-match/internal/entity"
	"github.com/rocketscienceinc/tictactoe-match/internal/match"
	"github.com/rocketscienceinc/tictactoe-match/internal/repository"
	"github.com/rocketscienceinc/tictactoe-match/internal/usecase"
)

func dial(t *testing.T, session string) *websocket.Conn {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := usecase.NewMatchManager(logger, repository.NewMemoryMatchRepository())

	ts := httptest.NewServer(New(logger, manager).Handler(ctx))
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	if session != "" {
		url += "?session=" + session
	}

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })

	return conn
}

func send(t *testing.T, conn *websocket.Conn, action, payload string) {
	t.Helper()

	msg := Message{Action: action}
	if payload != "" {
		msg.Payload = json.RawMessage(payload)
	}

	require.NoError(t, conn.WriteJSON(msg))
}

func receive(t *testing.T, conn *websocket.Conn) (string, ResponsePayload) {
	t.Helper()

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))

	var payload ResponsePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))

	return msg.Action, payload
}

func TestConnect(t *testing.T) {
	t.Run("Greets with the session and an idle match", func(t *testing.T) {
		conn := dial(t, "session-1")

		action, payload := receive(t, conn)

		assert.Equal(t, actionConnect, action)
		assert.Equal(t, "session-1", payload.SessionID)
		require.NotNil(t, payload.Match)
		assert.Equal(t, match.PhaseNotStarted, payload.Match.Phase)
		assert.Empty(t, payload.Error)
	})

	t.Run("Issues a session when none is given", func(t *testing.T) {
		conn := dial(t, "")

		_, payload := receive(t, conn)

		assert.NotEmpty(t, payload.SessionID)
	})
}

func TestMatchFlow(t *testing.T) {
	// Given: a connected client
	conn := dial(t, "flow")
	receive(t, conn)

	// When: the match is started
	send(t, conn, actionStart, `{"player_x":"Ann","player_o":"Bo","wins_required":1}`)
	action, payload := receive(t, conn)

	// Then: Ann is to move
	assert.Equal(t, actionStart, action)
	require.NotNil(t, payload.Match)
	require.NotNil(t, payload.Match.Mover)
	assert.Equal(t, "Ann", payload.Match.Mover.Name)

	// When: a move is made and undone
	send(t, conn, actionMove, `{"cell":4}`)
	_, payload = receive(t, conn)
	assert.Equal(t, entity.PlayerX, payload.Match.Board[4])

	send(t, conn, actionUndo, "")
	_, payload = receive(t, conn)
	assert.Equal(t, entity.EmptyCell, payload.Match.Board[4])
	assert.False(t, payload.Match.CanUndo)

	// When: X completes the top row
	for _, cell := range []int{0, 3, 1, 4, 2} {
		send(t, conn, actionMove, `{"cell":`+strconv.Itoa(cell)+`}`)
		_, payload = receive(t, conn)
	}

	// Then: the match is over
	assert.Equal(t, match.PhaseMatchConcluded, payload.Match.Phase)
	assert.Equal(t, "Ann", payload.Match.MatchWinner)
	assert.Equal(t, "Ann has won round 1 and has won the match!", payload.Match.Message)

	// When: next round is requested after the match ended
	send(t, conn, actionNext, "")
	_, payload = receive(t, conn)

	// Then: nothing changes
	assert.Equal(t, match.PhaseMatchConcluded, payload.Match.Phase)

	// When: the match is reset
	send(t, conn, actionReset, "")
	_, payload = receive(t, conn)
	assert.Equal(t, match.PhaseRoundInProgress, payload.Match.Phase)
	assert.Equal(t, match.Score{}, payload.Match.Score)

	// When: the players leave
	send(t, conn, actionLeave, "")
	_, payload = receive(t, conn)
	assert.Equal(t, match.PhaseNotStarted, payload.Match.Phase)
	assert.Nil(t, payload.Match.Players)

	send(t, conn, actionGet, "")
	action, payload = receive(t, conn)
	assert.Equal(t, actionGet, action)
	assert.Equal(t, match.PhaseNotStarted, payload.Match.Phase)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name    string
		action  string
		payload string
		frame   string
		reply   string
		wantErr string
	}{
		{
			name:    "Frame that is not JSON",
			frame:   `{not json`,
			reply:   actionError,
			wantErr: "invalid message",
		},
		{
			name:    "Invalid configuration",
			action:  actionStart,
			payload: `{"player_x":"Ann","player_o":"","wins_required":1}`,
			reply:   actionStart,
			wantErr: "invalid match configuration",
		},
		{
			name:    "Move without cell",
			action:  actionMove,
			reply:   actionMove,
			wantErr: "cell is required",
		},
		{
			name:    "Malformed payload",
			action:  actionStart,
			payload: `"oops"`,
			reply:   actionStart,
			wantErr: "invalid payload",
		},
		{
			name:    "Unknown action",
			action:  "match:explode",
			reply:   actionError,
			wantErr: `unknown action "match:explode"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := dial(t, "errors")
			receive(t, conn)

			// When: the bad message is sent
			if tt.frame != "" {
				require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tt.frame)))
			} else {
				send(t, conn, tt.action, tt.payload)
			}
			action, payload := receive(t, conn)

			// Then: the client gets an error reply
			assert.Equal(t, tt.reply, action)
			assert.Contains(t, payload.Error, tt.wantErr)
			assert.Nil(t, payload.Match)

			// And: the connection keeps serving requests
			send(t, conn, actionGet, "")
			action, payload = receive(t, conn)
			assert.Equal(t, actionGet, action)
			require.NotNil(t, payload.Match)
			assert.Equal(t, match.PhaseNotStarted, payload.Match.Phase)
		})
	}
}
