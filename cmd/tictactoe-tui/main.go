package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	app "github.com/rocketscienceinc/tictactoe-web/internal"
	"github.com/rocketscienceinc/tictactoe-web/internal/config"
	"github.com/rocketscienceinc/tictactoe-web/internal/tui"
	"github.com/rocketscienceinc/tictactoe-web/internal/usecase"
)

// main - plays a local game in the terminal with the same config as the web game.
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

	logOutput, closeLog, err := openLog(conf.TUI.LogPath)
	if err != nil {
		return err
	}

	defer closeLog()

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{Level: conf.Level()}))

	ctx, cancel := app.SignalContext(logger)
	defer cancel()

	publisher, closePublisher, err := app.Publisher(ctx, logger, conf)
	if err != nil {
		return err
	}

	defer closePublisher()

	session, err := usecase.NewSession(ctx, logger, conf.Players.Entities(), publisher)
	if err != nil {
		return fmt.Errorf("could not start session: %w", err)
	}

	program := tea.NewProgram(tui.New(ctx, session), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err = program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal ui failed: %w", err)
	}

	return nil
}

// openLog - the terminal owns stdout, so logs go to a file or nowhere.
func openLog(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return file, func() { _ = file.Close() }, nil
}
