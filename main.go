// Command tictactoe-web serves the browser game: the REST API and static board on
// the HTTP port, live board updates on the WebSocket port. The same game runs in a
// terminal via cmd/tictactoe-tui, and cmd/tictactoe-events prints the narration
// that either of them publishes to redis.
package main

import (
	"fmt"
	"log/slog"
	"os"

	app "github.com/rocketscienceinc/tictactoe-web/internal"
	"github.com/rocketscienceinc/tictactoe-web/internal/config"
)

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

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: conf.Level()}))
	logger.Info("starting web game",
		"http_port", conf.HTTPPort,
		"socket_port", conf.SocketPort,
		"redis", conf.Redis.Enabled,
	)

	if err = app.RunApp(logger, conf); err != nil {
		return fmt.Errorf("web game stopped: %w", err)
	}

	return nil
}
