package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

// NewRouter - routes for the HTML board, the JSON API and the health check.
func NewRouter(handlers Handlers) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", handlers.PingHandler)

	mux.HandleFunc("GET /{$}", handlers.Page)
	mux.HandleFunc("POST /play", handlers.PlayForm)
	mux.HandleFunc("POST /reset", handlers.ResetForm)

	mux.HandleFunc("GET /api/game", handlers.GetGame)
	mux.HandleFunc("POST /api/game/turn", handlers.PlayTurn)
	mux.HandleFunc("POST /api/game/reset", handlers.ResetGame)

	return mux
}

// Start - serves until ctx is canceled, then shuts the server down.
func Start(ctx context.Context, port string, handlers Handlers) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      NewRouter(handlers),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
