package game

import "fmt"

// Mark represents the mark of a player (X, O) or an empty cell.
type Mark string

const (
	Empty Mark = ""
	X     Mark = "X"
	O     Mark = "O"
)

// Cells is the number of cells on the board.
const Cells = 9

// Board holds the cells in row-major order, index 0 is the top-left cell.
type Board [Cells]Mark

// Full reports whether every cell holds a mark.
func (b Board) Full() bool {
	for _, m := range b {
		if m == Empty {
			return false
		}
	}
	return true
}

// Empty reports whether no cell holds a mark.
func (b Board) Empty() bool {
	for _, m := range b {
		if m != Empty {
			return false
		}
	}
	return true
}

// Rows returns the board as three rows of three marks.
func (b Board) Rows() [3][3]Mark {
	var rows [3][3]Mark
	for i, m := range b {
		rows[i/3][i%3] = m
	}
	return rows
}

// Opponent returns the other player's mark.
func (m Mark) Opponent() Mark {
	if m == X {
		return O
	}
	return X
}

// Game is a two-player game played on a single board.
type Game struct {
	Board   Board `json:"board"`
	Next    Mark  `json:"next"`
	Started bool  `json:"started"`
}

// New returns an empty game with X to move.
func New() *Game {
	return &Game{Next: X}
}

// Move places the mark of the player to move on cell i. Clicks out of
// range, on an occupied cell or after the game ended are ignored and
// reported as false.
func (g *Game) Move(i int) bool {
	if i < 0 || i >= Cells {
		return false
	}
	if g.Over() || g.Board[i] != Empty {
		return false
	}

	g.Board[i] = g.Next
	g.Next = g.Next.Opponent()
	g.Started = true
	return true
}

// Restart clears the board and gives the first move back to X.
func (g *Game) Restart() {
	g.Board = Board{}
	g.Next = X
	g.Started = false
}

// Result evaluates the current board.
func (g *Game) Result() Result {
	return Evaluate(g.Board)
}

// Over reports whether the game has a winner or ended in a draw.
func (g *Game) Over() bool {
	return g.Result().Status != InProgress
}

// Status is the line shown above the board.
func (g *Game) Status() string {
	r := g.Result()
	switch r.Status {
	case Won:
		return fmt.Sprintf("Winner: %s", r.Winner)
	case Draw:
		return "It's a draw!"
	default:
		return fmt.Sprintf("Current Player: %s", g.Next)
	}
}

// Clone returns a copy that shares nothing with g.
func (g *Game) Clone() *Game {
	c := *g
	return &c
}
