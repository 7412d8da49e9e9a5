package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-web/internal/config"
	"github.com/rocketscienceinc/tictactoe-web/internal/repository"
	"github.com/rocketscienceinc/tictactoe-web/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-web/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-web/transport/rest"
	"github.com/rocketscienceinc/tictactoe-web/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// Publisher - the redis event publisher, or nil when redis is disabled. The
// returned cleanup is always safe to call.
func Publisher(ctx context.Context, logger *slog.Logger, conf *config.Config) (usecase.EventPublisher, func(), error) {
	log := logger.With("component", "app")

	if !conf.Redis.Enabled {
		return nil, func() {}, nil
	}

	redisStorage, err := OpenRedis(ctx, conf)
	if err != nil {
		return nil, func() {}, err
	}

	cleanup := func() {
		if closeErr := redisStorage.Close(); closeErr != nil {
			log.Error("could not close redis storage", "error", closeErr)
		}
	}

	eventRepo, err := repository.NewEventRepository(redisStorage.Connection, conf.Redis.Channel)
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("could not create event repository: %w", err)
	}

	log.Info("publishing narration to redis", "channel", conf.Redis.Channel)

	return eventRepo, cleanup, nil
}

// OpenRedis - connects to the configured redis server.
func OpenRedis(ctx context.Context, conf *config.Config) (*storage.RedisStorage, error) {
	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return redisStorage, nil
}

// SignalContext - a context canceled on SIGINT or SIGTERM.
func SignalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}

		signal.Stop(sigs)
	}()

	return ctx, cancel
}

// RunApp - runs the web application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := SignalContext(logger)
	defer cancel()

	publisher, closePublisher, err := Publisher(ctx, logger, conf)
	if err != nil {
		return err
	}

	defer closePublisher()

	session, err := usecase.NewSession(ctx, logger, conf.Players.Entities(), publisher)
	if err != nil {
		return fmt.Errorf("could not start session: %w", err)
	}

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, conf.HTTPPort, rest.NewHandlers(logger, session)); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, session)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
