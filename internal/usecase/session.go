package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
	"github.com/rocketscienceinc/tictactoe-web/internal/tictactoe"
)

// EventPublisher forwards narration events outside the process.
type EventPublisher interface {
	Publish(ctx context.Context, event entity.Event) error
}

// Session owns one board and one game and serializes every call made by the presentation layers.
type Session struct {
	logger    *slog.Logger
	publisher EventPublisher

	mu   sync.Mutex
	game    *tictactoe.Game
	round   int
	tally   entity.Tally
	pending   []entity.Event
	last      []entity.Event
	outcome   entity.Outcome

	outMu    sync.Mutex
	outbox   []entity.Event
	draining bool
}

// NewSession - starts the first round. publisher may be nil.
func NewSession(ctx context.Context, logger *slog.Logger, players [2]entity.Player, publisher EventPublisher) (*Session, error) {
	session := &Session{
		logger:    logger.With("component", "session"),
		publisher: publisher,
		round:     1,
		tally:     entity.Tally{Wins: make(map[entity.Marker]int, len(players))},
	}

	narrator := tictactoe.Narrators{
		tictactoe.NewLogNarrator(logger),
		tictactoe.NarratorFunc(session.record),
	}

	game, err := tictactoe.NewGame(entity.NewBoard(), players, narrator)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	session.game = game
	session.publish(ctx, session.flush())

	return session, nil
}

// State - the current snapshot, with the narration of the last action.
func (that *Session) State() entity.GameState {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshot()
}

// PlayRound - plays (row, column) for the active player.
func (that *Session) PlayRound(ctx context.Context, row, column int) (entity.GameState, error) {
	that.mu.Lock()

	log := that.logger.With("method", "PlayRound")

	outcome, err := that.game.PlayRound(row, column)
	if err != nil {
		that.pending = nil
		state := that.snapshot()
		that.mu.Unlock()

		log.Warn("rejected move", "row", row, "column", column, "error", err)

		return state, fmt.Errorf("failed to play round: %w", err)
	}

	that.outcome = outcome

	switch outcome {
	case entity.OutcomeWon:
		winner, _ := that.game.Winner()
		that.tally.Wins[winner.Marker]++
	case entity.OutcomeDraw:
		that.tally.Draws++
	}

	events := that.flush()
	state := that.snapshot()
	that.release(ctx, events)

	return state, nil
}

// Reset - clears the board for a new round; the tally is kept.
func (that *Session) Reset(ctx context.Context) entity.GameState {
	that.mu.Lock()

	that.game.Reset()
	that.round++
	that.outcome = entity.OutcomeNone

	events := that.flush()
	state := that.snapshot()
	that.release(ctx, events)

	return state
}

func (that *Session) record(event entity.Event) {
	that.pending = append(that.pending, event)
}

// flush - moves the narration of the current action to last and returns it for publishing.
func (that *Session) flush() []entity.Event {
	that.last = that.pending
	that.pending = nil

	return append([]entity.Event(nil), that.last...)
}

// release - queues the events of the current call, unlocks the session and publishes
// the queue unless another call is already doing it. The queue is filled while mu is
// held, so events leave in the order the calls were applied.
func (that *Session) release(ctx context.Context, events []entity.Event) {
	drainer := that.enqueue(events)

	that.mu.Unlock()

	if drainer {
		that.drain(context.WithoutCancel(ctx))
	}
}

func (that *Session) enqueue(events []entity.Event) bool {
	that.outMu.Lock()
	defer that.outMu.Unlock()

	if that.publisher == nil {
		return false
	}

	that.outbox = append(that.outbox, events...)

	if that.draining || len(that.outbox) == 0 {
		return false
	}

	that.draining = true

	return true
}

func (that *Session) drain(ctx context.Context) {
	for {
		that.outMu.Lock()
		events := that.outbox
		that.outbox = nil

		if len(events) == 0 {
			that.draining = false
			that.outMu.Unlock()
			return
		}

		that.outMu.Unlock()

		that.publish(ctx, events)
	}
}

func (that *Session) publish(ctx context.Context, events []entity.Event) {
	log := that.logger.With("method", "publish")

	if that.publisher == nil {
		return
	}

	for _, event := range events {
		if err := that.publisher.Publish(ctx, event); err != nil {
			log.Error("failed to publish event", "kind", event.Kind, "error", err)
		}
	}
}

func (that *Session) snapshot() entity.GameState {
	board := that.game.Board()

	state := entity.GameState{
		ActivePlayer: that.game.ActivePlayer(),
		Players:      that.game.Players(),
		Over:         that.game.IsGameOver(),
		Draw:         that.game.IsDraw(),
		EmptyCells:   board.EmptyCellCount(),
		Round:        that.round,
		Outcome:      that.outcome,
		Tally:        that.copyTally(),
		Events:       append([]entity.Event(nil), that.last...),
	}

	for row, cells := range board.Cells() {
		for column, marker := range cells {
			state.Board[row][column] = marker.String()
		}
	}

	if winner, ok := that.game.Winner(); ok {
		state.Winner = &winner
	}

	if line, ok := board.WinningLine(); ok {
		state.WinningLine = line[:]
	}

	return state
}

func (that *Session) copyTally() entity.Tally {
	wins := make(map[entity.Marker]int, len(that.tally.Wins))
	for marker, count := range that.tally.Wins {
		wins[marker] = count
	}

	return entity.Tally{Wins: wins, Draws: that.tally.Draws}
}
