package entity

// Marker is the symbol a player leaves on the board. NoMarker marks an empty cell.
type Marker string

const (
	NoMarker Marker = ""
	MarkerX  Marker = "X"
	MarkerO  Marker = "O"
)

func (that Marker) IsEmpty() bool {
	return that == NoMarker
}

func (that Marker) String() string {
	return string(that)
}

type Player struct {
	Name   string `json:"name"`
	Marker Marker `json:"marker"`
}

// DefaultPlayers - the two players of a session when nothing else is configured.
func DefaultPlayers() [2]Player {
	return [2]Player{
		{Name: "Player One", Marker: MarkerX},
		{Name: "Player Two", Marker: MarkerO},
	}
}
