package tictactoe

import (
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-web/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
)

const noWinner = -1

// Game drives turn order and the result of a single round on a Board.
type Game struct {
	board    *entity.Board
	players  [2]entity.Player
	narrator Narrator
	now      func() time.Time

	activePlayerIndex int
	isOver            bool
	winnerIndex       int
}

// NewGame - creates a game in progress with players[0] to move and announces the round.
func NewGame(board *entity.Board, players [2]entity.Player, narrator Narrator) (*Game, error) {
	if err := validatePlayers(players); err != nil {
		return nil, err
	}

	if board == nil {
		board = entity.NewBoard()
	}

	if narrator == nil {
		narrator = Narrators{}
	}

	game := &Game{
		board:       board,
		players:     players,
		narrator:    narrator,
		now:         time.Now,
		winnerIndex: noWinner,
	}

	game.announce(entity.Event{Kind: entity.EventRoundStarted, Player: game.ActivePlayer().Name})

	return game, nil
}

func validatePlayers(players [2]entity.Player) error {
	for _, player := range players {
		if player.Marker.IsEmpty() {
			return fmt.Errorf("%w: player %q has no marker", apperror.ErrInvalidPlayers, player.Name)
		}
	}

	if players[0].Marker == players[1].Marker {
		return fmt.Errorf("%w: both players use %q", apperror.ErrInvalidPlayers, players[0].Marker)
	}

	return nil
}

// PlayRound - places the active player's marker at (row, column).
//
// An occupied cell is reported as OutcomeIllegal and leaves the turn unchanged.
// After the game is over every call re-announces the result and changes nothing.
// The only error is a contract violation for coordinates outside the board.
func (that *Game) PlayRound(row, column int) (entity.Outcome, error) {
	if that.isOver {
		that.announceResult()
		return entity.OutcomeAlreadyOver, nil
	}

	active := that.ActivePlayer()

	if _, err := that.board.Mark(row, column, active.Marker); err != nil {
		if errors.Is(err, apperror.ErrIllegalMove) {
			that.announce(entity.Event{
				Kind:   entity.EventIllegalMove,
				Player: active.Name,
				Cell:   &entity.Cell{Row: row, Column: column},
			})

			return entity.OutcomeIllegal, nil
		}

		return entity.OutcomeNone, fmt.Errorf("failed to mark cell: %w", err)
	}

	if _, ok := that.board.FindWinningLine(); ok {
		that.isOver = true
		that.winnerIndex = that.activePlayerIndex
		that.announceResult()

		return entity.OutcomeWon, nil
	}

	if that.board.EmptyCellCount() == 0 {
		that.isOver = true
		that.announceResult()

		return entity.OutcomeDraw, nil
	}

	that.activePlayerIndex = (that.activePlayerIndex + 1) % len(that.players)

	return entity.OutcomeMoved, nil
}

// Reset - starts a new round on a cleared board.
func (that *Game) Reset() {
	that.board.Reset()
	that.activePlayerIndex = 0
	that.isOver = false
	that.winnerIndex = noWinner

	that.announce(entity.Event{Kind: entity.EventRoundStarted, Player: that.ActivePlayer().Name})
}

// ActivePlayer - the player to move. After the game is over it is the player who moved last.
func (that *Game) ActivePlayer() entity.Player {
	return that.players[that.activePlayerIndex]
}

func (that *Game) Players() [2]entity.Player {
	return that.players
}

func (that *Game) IsGameOver() bool {
	return that.isOver
}

// Winner - the winning player; false while in progress or after a draw.
func (that *Game) Winner() (entity.Player, bool) {
	if that.winnerIndex == noWinner {
		return entity.Player{}, false
	}

	return that.players[that.winnerIndex], true
}

// IsDraw - the board is full and nobody completed a line.
func (that *Game) IsDraw() bool {
	return that.isOver && that.winnerIndex == noWinner
}

// Board - read access for snapshots; callers must not mark cells directly.
func (that *Game) Board() *entity.Board {
	return that.board
}

func (that *Game) announceResult() {
	event := entity.Event{Kind: entity.EventGameOver}

	if winner, ok := that.Winner(); ok {
		event.Winner = winner.Name
	} else {
		event.Draw = true
	}

	that.announce(event)
}

func (that *Game) announce(event entity.Event) {
	event.At = that.now()
	that.narrator.Narrate(event)
}
