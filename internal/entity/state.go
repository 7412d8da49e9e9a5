package entity

// Outcome is the result of a single play request.
type Outcome string

const (
	OutcomeNone        Outcome = ""
	OutcomeMoved       Outcome = "moved"
	OutcomeIllegal     Outcome = "illegal"
	OutcomeWon         Outcome = "won"
	OutcomeDraw        Outcome = "draw"
	OutcomeAlreadyOver Outcome = "already-over"
)

// Tally counts finished games of a session.
type Tally struct {
	Wins  map[Marker]int `json:"wins"`
	Draws int            `json:"draws"`
}

// GameState is the snapshot handed to presentation layers.
type GameState struct {
	Board        [BoardSize][BoardSize]string `json:"board"`
	ActivePlayer Player                       `json:"active_player"`
	Players      [2]Player                    `json:"players"`
	Over         bool                         `json:"over"`
	Winner       *Player                      `json:"winner,omitempty"`
	Draw         bool                         `json:"draw"`
	WinningLine  []Cell                       `json:"winning_line,omitempty"`
	EmptyCells   int                          `json:"empty_cells"`
	Round        int                          `json:"round"`
	Tally        Tally                        `json:"tally"`
	Outcome      Outcome                      `json:"outcome,omitempty"`
	Events       []Event                      `json:"events,omitempty"`
}

// IsWinningCell - reports whether (row, column) belongs to the completed line.
func (that *GameState) IsWinningCell(row, column int) bool {
	for _, cell := range that.WinningLine {
		if cell.Row == row && cell.Column == column {
			return true
		}
	}

	return false
}
