package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-match/internal/presenter"
)

const (
	actionConnect = "connect"
	actionGet     = "match:get"
	actionStart   = "match:start"
	actionMove    = "match:move"
	actionUndo    = "match:undo"
	actionNext    = "match:next"
	actionReset   = "match:reset"
	actionLeave   = "match:leave"
	actionError   = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RequestPayload carries the arguments of match:start and match:move.
type RequestPayload struct {
	PlayerX      string `json:"player_x,omitempty"`
	PlayerO      string `json:"player_o,omitempty"`
	WinsRequired int    `json:"wins_required,omitempty"`
	Cell         *int   `json:"cell,omitempty"`
}

type ResponsePayload struct {
	SessionID string          `json:"session_id,omitempty"`
	Match     *presenter.View `json:"match,omitempty"`
	Error     string          `json:"error,omitempty"`
}

func (that *connection) sendMessage(action string, payload ResponsePayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return that.conn.WriteJSON(Message{Action: action, Payload: raw})
}

func (that *connection) sendErrorResponse(action, errorMessage string) error {
	return that.sendMessage(action, ResponsePayload{SessionID: that.sessionID, Error: errorMessage})
}
