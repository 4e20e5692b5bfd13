package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-match/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-match/internal/match"
	"github.com/rocketscienceinc/tictactoe-match/internal/presenter"
)

var errCellRequired = errors.New("cell is required")

func (that *Server) handleConnect(ctx context.Context, conn *connection) error {
	snapshot, err := that.uMatch.Get(ctx, conn.sessionID)

	return that.reply(conn, actionConnect, snapshot, err)
}

// dispatch - routes a client message to its handler and writes the reply.
func (that *Server) dispatch(ctx context.Context, conn *connection, msg *Message) error {
	handler, ok := that.handlers[msg.Action]
	if !ok {
		return conn.sendErrorResponse(actionError, fmt.Sprintf("unknown action %q", msg.Action))
	}

	var payload RequestPayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return conn.sendErrorResponse(msg.Action, "invalid payload")
		}
	}

	snapshot, err := handler(ctx, conn, payload)

	return that.reply(conn, msg.Action, snapshot, err)
}

// reply - sends the match view, or a client-facing error.
func (that *Server) reply(conn *connection, action string, snapshot match.Snapshot, err error) error {
	switch {
	case err == nil:
		view := presenter.NewView(snapshot)
		return conn.sendMessage(action, ResponsePayload{SessionID: conn.sessionID, Match: &view})
	case errors.Is(err, apperror.ErrInvalidConfiguration), errors.Is(err, errCellRequired):
		return conn.sendErrorResponse(action, err.Error())
	default:
		if sendErr := conn.sendErrorResponse(action, "internal error"); sendErr != nil {
			return errors.Join(err, sendErr)
		}
		return err
	}
}

func (that *Server) handleGet(ctx context.Context, conn *connection, _ RequestPayload) (match.Snapshot, error) {
	return that.uMatch.Get(ctx, conn.sessionID)
}

func (that *Server) handleStart(ctx context.Context, conn *connection, payload RequestPayload) (match.Snapshot, error) {
	return that.uMatch.Start(ctx, conn.sessionID, payload.PlayerX, payload.PlayerO, payload.WinsRequired)
}

func (that *Server) handleMove(ctx context.Context, conn *connection, payload RequestPayload) (match.Snapshot, error) {
	if payload.Cell == nil {
		return match.Snapshot{}, errCellRequired
	}

	snapshot, _, err := that.uMatch.Move(ctx, conn.sessionID, *payload.Cell)

	return snapshot, err
}

func (that *Server) handleUndo(ctx context.Context, conn *connection, _ RequestPayload) (match.Snapshot, error) {
	return that.uMatch.Undo(ctx, conn.sessionID)
}

func (that *Server) handleNextRound(ctx context.Context, conn *connection, _ RequestPayload) (match.Snapshot, error) {
	return that.uMatch.NextRound(ctx, conn.sessionID)
}

func (that *Server) handleReset(ctx context.Context, conn *connection, _ RequestPayload) (match.Snapshot, error) {
	return that.uMatch.ResetMatch(ctx, conn.sessionID)
}

func (that *Server) handleLeave(ctx context.Context, conn *connection, _ RequestPayload) (match.Snapshot, error) {
	return that.uMatch.ReturnToStart(ctx, conn.sessionID)
}
