package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
)

var (
	colorX       = lipgloss.Color("#89b4fa")
	colorO       = lipgloss.Color("#fab387")
	colorWinning = lipgloss.Color("#a6e3a1")
	colorMuted   = lipgloss.Color("#7f849c")
	colorError   = lipgloss.Color("#f38ba8")

	cellStyle    = lipgloss.NewStyle().Width(5).Align(lipgloss.Center)
	cursorStyle  = cellStyle.Reverse(true)
	titleStyle   = lipgloss.NewStyle().Bold(true)
	statusStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	winningStyle = lipgloss.NewStyle().Foreground(colorWinning).Bold(true)
)

type gameSession interface {
	State() entity.GameState
	PlayRound(ctx context.Context, row, column int) (entity.GameState, error)
	Reset(ctx context.Context) entity.GameState
}

// Model is the bubbletea model of one local game. The cursor starts in the center.
type Model struct {
	ctx     context.Context
	session gameSession

	state  entity.GameState
	row    int
	column int
	err    error
}

func New(ctx context.Context, session gameSession) Model {
	return Model{
		ctx:     ctx,
		session: session,
		state:   session.State(),
		row:     entity.BoardSize / 2,
		column:  entity.BoardSize / 2,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		m.row = max(m.row-1, 0)
	case "down", "j":
		m.row = min(m.row+1, entity.BoardSize-1)
	case "left", "h":
		m.column = max(m.column-1, 0)
	case "right", "l":
		m.column = min(m.column+1, entity.BoardSize-1)
	case "enter", " ":
		m.state, m.err = m.session.PlayRound(m.ctx, m.row, m.column)
	case "r":
		m.state = m.session.Reset(m.ctx)
		m.err = nil
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Tic-Tac-Toe"))
	b.WriteString("\n\n")
	b.WriteString(m.renderBoard())
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(statusLine(m.state)))
	b.WriteString("\n")

	for _, event := range m.state.Events {
		b.WriteString(mutedStyle.Render(event.Message()))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(mutedStyle.Render(m.scoreLine()))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("arrows/hjkl move · enter play · r new round · q quit"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderBoard() string {
	rows := make([]string, 0, entity.BoardSize*2-1)

	for row, cells := range m.state.Board {
		rendered := make([]string, 0, entity.BoardSize*2-1)

		for column, marker := range cells {
			if column > 0 {
				rendered = append(rendered, mutedStyle.Render("│"))
			}
			rendered = append(rendered, m.renderCell(row, column, marker))
		}

		if row > 0 {
			rows = append(rows, mutedStyle.Render(strings.Repeat("─", lipgloss.Width(strings.Join(rendered, "")))))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCell(row, column int, marker string) string {
	label := marker
	if label == "" {
		label = "·"
	}

	style := cellStyle
	if row == m.row && column == m.column {
		style = cursorStyle
	}

	switch {
	case m.state.IsWinningCell(row, column):
		style = style.Inherit(winningStyle)
	case marker == entity.MarkerX.String():
		style = style.Foreground(colorX)
	case marker == entity.MarkerO.String():
		style = style.Foreground(colorO)
	}

	return style.Render(label)
}

func (m Model) scoreLine() string {
	parts := make([]string, 0, len(m.state.Players)+2)
	parts = append(parts, fmt.Sprintf("Round %d", m.state.Round))

	for _, player := range m.state.Players {
		parts = append(parts, fmt.Sprintf("%s (%s): %d", player.Name, player.Marker, m.state.Tally.Wins[player.Marker]))
	}

	parts = append(parts, fmt.Sprintf("Draws: %d", m.state.Tally.Draws))

	return strings.Join(parts, " · ")
}

func statusLine(state entity.GameState) string {
	switch {
	case state.Winner != nil:
		return fmt.Sprintf("%s (%s) wins! Press r for a new round.", state.Winner.Name, state.Winner.Marker)
	case state.Draw:
		return "It's a draw. Press r for a new round."
	default:
		return fmt.Sprintf("%s (%s) to move", state.ActivePlayer.Name, state.ActivePlayer.Marker)
	}
}
