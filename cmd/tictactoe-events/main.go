package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	app "github.com/rocketscienceinc/tictactoe-web/internal"
	"github.com/rocketscienceinc/tictactoe-web/internal/config"
	"github.com/rocketscienceinc/tictactoe-web/internal/repository"
)

var ErrRedisDisabled = errors.New("redis is disabled in config")

// main - follows the narration published by running games and prints one line per event.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	conf, err := config.LoadFromWorkdir()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !conf.Redis.Enabled {
		return ErrRedisDisabled
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: conf.Level()}))
	log := logger.With("component", "events")

	ctx, cancel := app.SignalContext(logger)
	defer cancel()

	redisStorage, err := app.OpenRedis(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := redisStorage.Close(); closeErr != nil {
			log.Error("could not close redis storage", "error", closeErr)
		}
	}()

	eventRepo, err := repository.NewEventRepository(redisStorage.Connection, conf.Redis.Channel)
	if err != nil {
		return fmt.Errorf("could not create event repository: %w", err)
	}

	pubsub, err := eventRepo.Subscribe(ctx)
	if err != nil {
		return err
	}

	defer pubsub.Close()

	log.Info("following narration", "channel", conf.Redis.Channel)

	messages := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case message, ok := <-messages:
			if !ok {
				return nil
			}

			event, decodeErr := repository.DecodeEvent(message)
			if decodeErr != nil {
				log.Warn("skipping malformed event", "error", decodeErr)
				continue
			}

			fmt.Printf("%s  %s\n", event.At.Format("15:04:05"), event.Message())
		}
	}
}
