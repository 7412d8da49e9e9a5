package entity

import "time"

type EventKind string

const (
	EventRoundStarted EventKind = "round:started"
	EventIllegalMove  EventKind = "move:illegal"
	EventGameOver     EventKind = "game:over"
)

// Event is one narration line emitted by a game.
type Event struct {
	Kind   EventKind `json:"kind"`
	Player string    `json:"player,omitempty"`
	Winner string    `json:"winner,omitempty"`
	Draw   bool      `json:"draw,omitempty"`
	Cell   *Cell     `json:"cell,omitempty"`
	At     time.Time `json:"at"`
}

func (that Event) Message() string {
	switch that.Kind {
	case EventRoundStarted:
		return "New round started, " + that.Player + " moves first"
	case EventIllegalMove:
		return that.Player + " tried an occupied cell, still " + that.Player + "'s turn"
	case EventGameOver:
		if that.Draw {
			return "Game over: it's a draw"
		}
		return "Game over: " + that.Winner + " wins"
	default:
		return string(that.Kind)
	}
}
