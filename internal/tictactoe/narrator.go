package tictactoe

import (
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
)

// Narrator receives the announcements a game makes while it is played.
type Narrator interface {
	Narrate(event entity.Event)
}

// NarratorFunc adapts a plain function to a Narrator.
type NarratorFunc func(event entity.Event)

func (that NarratorFunc) Narrate(event entity.Event) {
	that(event)
}

// Narrators fans an event out to every narrator in order.
type Narrators []Narrator

func (that Narrators) Narrate(event entity.Event) {
	for _, narrator := range that {
		narrator.Narrate(event)
	}
}

type logNarrator struct {
	logger *slog.Logger
}

// NewLogNarrator - writes every announcement to the logger.
func NewLogNarrator(logger *slog.Logger) Narrator {
	return &logNarrator{
		logger: logger.With("component", "narrator"),
	}
}

func (that *logNarrator) Narrate(event entity.Event) {
	attrs := []any{"kind", event.Kind}

	if event.Player != "" {
		attrs = append(attrs, "player", event.Player)
	}

	if event.Cell != nil {
		attrs = append(attrs, "row", event.Cell.Row, "column", event.Cell.Column)
	}

	if event.Kind == entity.EventGameOver {
		attrs = append(attrs, "winner", event.Winner, "draw", event.Draw)
	}

	that.logger.Info(event.Message(), attrs...)
}
