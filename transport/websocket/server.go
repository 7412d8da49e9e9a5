package websocket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
	"github.com/rocketscienceinc/tictactoe-web/internal/pkg"
)

const (
	sessionCookie = "user_session"

	defaultWriteTimeout = 5 * time.Second
)

var ErrInvalidMessage = errors.New("invalid message")

type gameSession interface {
	State() entity.GameState
	PlayRound(ctx context.Context, row, column int) (entity.GameState, error)
	Reset(ctx context.Context) entity.GameState
}

type handlerFunc func(ctx context.Context, conn *client, message *Message) error

type Server struct {
	logger       *slog.Logger
	session      gameSession
	writeTimeout time.Duration

	handlers map[string]handlerFunc

	mu      sync.RWMutex
	clients map[*client]struct{}
}

func New(logger *slog.Logger, session gameSession) *Server {
	server := &Server{
		logger:       logger.With("component", "websocket"),
		session:      session,
		writeTimeout: defaultWriteTimeout,

		handlers: make(map[string]handlerFunc),
		clients:  make(map[*client]struct{}),
	}

	server.handlers["game:state"] = server.handleState
	server.handlers["game:turn"] = server.handleTurn
	server.handlers["game:reset"] = server.handleReset

	return server
}

// Handler - mux serving the upgrade endpoint.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	log := that.logger.With("method", "Start")

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(ctx),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to shutdown server", "error", err)
		}

		that.closeAll()
	}()

	log.Info("websocket server started", "port", port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	if !strings.EqualFold(req.Header.Get("Upgrade"), "websocket") {
		http.Error(writer, "not a websocket upgrade", http.StatusBadRequest)
		return
	}

	cookie, created := that.sessionCookie(req)

	wsServer := websocket.Server{
		Handshake: func(config *websocket.Config, _ *http.Request) error {
			if created {
				config.Header = http.Header{"Set-Cookie": {cookie.String()}}
			}
			return nil
		},
		Handler: func(conn *websocket.Conn) {
			that.serveConn(ctx, conn, cookie.Value)
		},
	}

	wsServer.ServeHTTP(writer, req)
}

// serveConn - runs one upgraded connection until the client leaves.
func (that *Server) serveConn(ctx context.Context, conn *websocket.Conn, sessionID string) {
	log := that.logger.With("method", "serveConn", "session", sessionID)

	// clears the read deadline inherited from http.Server.ReadTimeout
	if err := conn.SetReadDeadline(time.Time{}); err != nil {
		log.Error("failed to clear read deadline", "error", err)
		return
	}

	current := newClient(sessionID, conn, that.writeTimeout)

	that.register(current)
	defer that.unregister(current)

	log.Info("WebSocket connection established")

	err := that.handleMessages(ctx, current)

	switch {
	case err == nil, errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		log.Info("WebSocket connection closed")
	default:
		log.Warn("closing connection", "error", err)
	}
}

// sessionCookie - returns the user session, creating a new one when absent.
func (that *Server) sessionCookie(req *http.Request) (*http.Cookie, bool) {
	log := that.logger.With("method", "sessionCookie")

	cookie, err := req.Cookie(sessionCookie)
	if err == nil && cookie.Value != "" {
		log.Debug("session cookie found", "cookie", cookie.Value)
		return cookie, false
	}

	cookie = &http.Cookie{
		Name:    sessionCookie,
		Value:   pkg.GenerateNewSessionID(),
		Expires: time.Now().Add(24 * time.Hour),
		Path:    "/ws",
	}

	log.Debug("session cookie not found, new one created", "cookie", cookie.Value)

	return cookie, true
}

// handleMessages - processes messages from the client until it closes.
func (that *Server) handleMessages(ctx context.Context, current *client) error {
	log := that.logger.With("method", "handleMessages")

	for {
		var message Message
		if err := current.receive(&message); err != nil {
			if !errors.Is(err, ErrInvalidMessage) {
				return err
			}

			log.Warn("failed to read message", "error", err)
			that.replyError(current, "invalid message")
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.replyError(current, "unknown action: "+message.Action)
			continue
		}

		if err := handler(ctx, current, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) register(current *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.clients[current] = struct{}{}

	that.logger.Debug("connection registered", "session", current.sessionID, "connections", len(that.clients))
}

func (that *Server) unregister(current *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.clients, current)
}

func (that *Server) connections() []*client {
	that.mu.RLock()
	defer that.mu.RUnlock()

	clients := make([]*client, 0, len(that.clients))
	for current := range that.clients {
		clients = append(clients, current)
	}

	return clients
}

// drop - forgets a connection that can no longer be written to. Closing it ends its read loop.
func (that *Server) drop(current *client) {
	that.unregister(current)
	_ = current.conn.Close()
}

func (that *Server) closeAll() {
	for _, current := range that.connections() {
		that.drop(current)
	}
}

// broadcast - sends the message to every open connection, dropping the ones that fail.
func (that *Server) broadcast(action string, payload ResponsePayload) {
	log := that.logger.With("method", "broadcast")

	for _, current := range that.connections() {
		if err := current.send(action, payload); err != nil {
			log.Warn("dropping connection", "session", current.sessionID, "error", err)
			that.drop(current)
		}
	}
}
