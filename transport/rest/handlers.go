package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-match/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-match/internal/match"
	"github.com/rocketscienceinc/tictactoe-match/internal/presenter"
)

type startRequest struct {
	PlayerX      string `json:"player_x"`
	PlayerO      string `json:"player_o"`
	WinsRequired int    `json:"wins_required"`
}

type moveRequest struct {
	Cell *int `json:"cell"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) handleNewSession(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusCreated, sessionResponse{SessionID: that.uMatch.NewSession()})
}

func (that *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.uMatch.Get(r.Context(), chi.URLParam(r, "sessionID"))
	that.respond(w, r, snapshot, err)
}

func (that *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	snapshot, err := that.uMatch.Start(r.Context(), chi.URLParam(r, "sessionID"), req.PlayerX, req.PlayerO, req.WinsRequired)
	that.respond(w, r, snapshot, err)
}

func (that *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cell is required"})
		return
	}

	snapshot, _, err := that.uMatch.Move(r.Context(), chi.URLParam(r, "sessionID"), *req.Cell)
	that.respond(w, r, snapshot, err)
}

func (that *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.uMatch.Undo(r.Context(), chi.URLParam(r, "sessionID"))
	that.respond(w, r, snapshot, err)
}

func (that *Server) handleNextRound(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.uMatch.NextRound(r.Context(), chi.URLParam(r, "sessionID"))
	that.respond(w, r, snapshot, err)
}

func (that *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.uMatch.ResetMatch(r.Context(), chi.URLParam(r, "sessionID"))
	that.respond(w, r, snapshot, err)
}

func (that *Server) handleReturnToStart(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.uMatch.ReturnToStart(r.Context(), chi.URLParam(r, "sessionID"))
	that.respond(w, r, snapshot, err)
}

func (that *Server) respond(w http.ResponseWriter, r *http.Request, snapshot match.Snapshot, err error) {
	switch {
	case err == nil:
		that.writeJSON(w, http.StatusOK, presenter.NewView(snapshot))
	case errors.Is(err, apperror.ErrInvalidConfiguration), errors.Is(err, apperror.ErrEmptySessionID):
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		that.logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
	}
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
