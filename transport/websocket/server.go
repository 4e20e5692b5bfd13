package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-match/internal/match"
)

const (
	sessionParam    = "session"
	readLimit       = 4096
	pongWait        = 60 * time.Second
	pingPeriod      = pongWait * 9 / 10
	writeWait       = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

type uMatch interface {
	NewSession() string
	Get(ctx context.Context, sessionID string) (match.Snapshot, error)
	Start(ctx context.Context, sessionID, playerX, playerO string, winsRequired int) (match.Snapshot, error)
	Move(ctx context.Context, sessionID string, cell int) (match.Snapshot, *match.Conclusion, error)
	Undo(ctx context.Context, sessionID string) (match.Snapshot, error)
	NextRound(ctx context.Context, sessionID string) (match.Snapshot, error)
	ResetMatch(ctx context.Context, sessionID string) (match.Snapshot, error)
	ReturnToStart(ctx context.Context, sessionID string) (match.Snapshot, error)
}

type handlerFunc func(ctx context.Context, conn *connection, payload RequestPayload) (match.Snapshot, error)

type Server struct {
	logger   *slog.Logger
	uMatch   uMatch
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc
}

// connection is one client socket bound to a session.
type connection struct {
	conn      *websocket.Conn
	sessionID string
}

func New(logger *slog.Logger, uMatch uMatch) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uMatch: uMatch,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the browser client is served from another port
			CheckOrigin: func(*http.Request) bool { return true },
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionGet] = server.handleGet
	server.handlers[actionStart] = server.handleStart
	server.handlers[actionMove] = server.handleMove
	server.handlers[actionUndo] = server.handleUndo
	server.handlers[actionNext] = server.handleNextRound
	server.handlers[actionReset] = server.handleReset
	server.handlers[actionLeave] = server.handleLeave

	return server
}

// Handler - returns the HTTP handler that upgrades /ws requests.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(ctx),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down WebSocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection and serves it until the client leaves.
func (that *Server) upgradeToWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	sessionID := r.URL.Query().Get(sessionParam)
	if sessionID == "" {
		sessionID = that.uMatch.NewSession()
	}

	ws, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer ws.Close()

	conn := &connection{conn: ws, sessionID: sessionID}
	log = log.With("session", sessionID)
	log.Info("WebSocket connection established")

	if err = that.handleConnect(ctx, conn); err != nil {
		log.Error("failed to greet client", "error", err)
		return
	}

	done := make(chan struct{})
	defer close(done)
	go that.keepAlive(ctx, conn, done)

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Info("WebSocket connection closed", "reason", err)
	}
}

// keepAlive - pings the client so dead connections are noticed, and closes the
// socket on shutdown since hijacked connections outlive http.Server.Shutdown.
func (that *Server) keepAlive(ctx context.Context, conn *connection, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			_ = conn.conn.Close()
			return
		case <-ticker.C:
			if err := conn.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "handleMessages", "session", conn.sessionID)

	conn.conn.SetReadLimit(readLimit)
	_ = conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.conn.SetPongHandler(func(string) error {
		return conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.conn.ReadMessage()
		if err != nil {
			return err
		}

		var message Message
		if err = json.Unmarshal(raw, &message); err != nil {
			log.Warn("failed to decode message", "error", err)

			if err = conn.sendErrorResponse(actionError, "invalid message"); err != nil {
				return err
			}

			continue
		}

		if err = that.dispatch(ctx, conn, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
