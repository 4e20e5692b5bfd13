package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-match/internal/match"
)

const shutdownTimeout = 5 * time.Second

type matchUseCase interface {
	NewSession() string
	Get(ctx context.Context, sessionID string) (match.Snapshot, error)
	Start(ctx context.Context, sessionID, playerX, playerO string, winsRequired int) (match.Snapshot, error)
	Move(ctx context.Context, sessionID string, cell int) (match.Snapshot, *match.Conclusion, error)
	Undo(ctx context.Context, sessionID string) (match.Snapshot, error)
	NextRound(ctx context.Context, sessionID string) (match.Snapshot, error)
	ResetMatch(ctx context.Context, sessionID string) (match.Snapshot, error)
	ReturnToStart(ctx context.Context, sessionID string) (match.Snapshot, error)
}

type Server struct {
	logger *slog.Logger
	uMatch matchUseCase
}

func New(logger *slog.Logger, uMatch matchUseCase) *Server {
	return &Server{
		logger: logger.With("component", "rest"),
		uMatch: uMatch,
	}
}

// Router - builds the HTTP routes of the match API.
func (that *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/ping", pingHandler)
	r.Post("/sessions", that.handleNewSession)

	r.Route("/sessions/{sessionID}/match", func(r chi.Router) {
		r.Get("/", that.handleGet)
		r.Post("/", that.handleStart)
		r.Delete("/", that.handleReturnToStart)
		r.Post("/moves", that.handleMove)
		r.Post("/undo", that.handleUndo)
		r.Post("/next-round", that.handleNextRound)
		r.Post("/reset", that.handleReset)
	})

	return r
}

// Start - serves the API until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
