package rest

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
)

//go:embed templates/*.html
var templates embed.FS

var pageTemplate = template.Must(template.ParseFS(templates, "templates/board.html"))

type cellView struct {
	Value    string
	Marker   string
	Playable bool
	Winning  bool
}

type scoreView struct {
	Name   string
	Marker string
	Wins   int
}

type pageView struct {
	Rows   [entity.BoardSize][entity.BoardSize]cellView
	Status string
	Over   bool
	Round  int
	Events []string
	Scores []scoreView
	Draws  int
}

func newPageView(state entity.GameState) pageView {
	view := pageView{
		Status: statusLine(state),
		Over:   state.Over,
		Round:  state.Round,
		Draws:  state.Tally.Draws,
	}

	for row, cells := range state.Board {
		for column, marker := range cells {
			view.Rows[row][column] = cellView{
				Value:    fmt.Sprintf("%d,%d", row, column),
				Marker:   marker,
				Playable: !state.Over && marker == "",
				Winning:  state.IsWinningCell(row, column),
			}
		}
	}

	for _, event := range state.Events {
		view.Events = append(view.Events, event.Message())
	}

	for _, player := range state.Players {
		view.Scores = append(view.Scores, scoreView{
			Name:   player.Name,
			Marker: player.Marker.String(),
			Wins:   state.Tally.Wins[player.Marker],
		})
	}

	return view
}

func statusLine(state entity.GameState) string {
	switch {
	case state.Winner != nil:
		return fmt.Sprintf("%s (%s) wins!", state.Winner.Name, state.Winner.Marker)
	case state.Draw:
		return "It's a draw."
	default:
		return fmt.Sprintf("%s (%s) to move", state.ActivePlayer.Name, state.ActivePlayer.Marker)
	}
}

func renderPage(w io.Writer, state entity.GameState) error {
	if err := pageTemplate.Execute(w, newPageView(state)); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return nil
}
