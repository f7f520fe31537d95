package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWinner(t *testing.T) {
	tests := []struct {
		name       string
		board      Board
		wantMark   Mark
		wantLine   Line
		wantWinner bool
	}{
		{
			name:  "No winner - empty board",
			board: Board{},
		},
		{
			name: "No winner - partial board",
			board: Board{
				X, Empty, Empty,
				Empty, O, Empty,
				Empty, Empty, Empty,
			},
		},
		{
			name: "X wins - first row",
			board: Board{
				X, X, X,
				Empty, O, Empty,
				Empty, Empty, O,
			},
			wantMark: X, wantLine: Line{0, 1, 2}, wantWinner: true,
		},
		{
			name: "O wins - second column",
			board: Board{
				X, O, Empty,
				X, O, Empty,
				Empty, O, Empty,
			},
			wantMark: O, wantLine: Line{1, 4, 7}, wantWinner: true,
		},
		{
			name: "X wins - main diagonal",
			board: Board{
				X, Empty, Empty,
				Empty, X, Empty,
				Empty, Empty, X,
			},
			wantMark: X, wantLine: Line{0, 4, 8}, wantWinner: true,
		},
		{
			name: "O wins - anti-diagonal",
			board: Board{
				Empty, Empty, O,
				Empty, O, Empty,
				O, Empty, Empty,
			},
			wantMark: O, wantLine: Line{2, 4, 6}, wantWinner: true,
		},
		{
			name: "First line in order wins - row before column",
			board: Board{
				X, X, X,
				X, O, O,
				X, O, O,
			},
			wantMark: X, wantLine: Line{0, 1, 2}, wantWinner: true,
		},
		{
			name: "No winner - full board",
			board: Board{
				X, O, X,
				X, O, O,
				O, X, X,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mark, line, ok := Winner(tt.board)
			assert.Equal(t, tt.wantWinner, ok)
			assert.Equal(t, tt.wantMark, mark)
			if tt.wantWinner {
				assert.Equal(t, tt.wantLine, line)
			}
		})
	}
}

// lineOwned checks rows, columns and diagonals on the 3x3 view of the board.
func lineOwned(b Board) bool {
	g := b.Rows()
	for i := range 3 {
		if g[i][0] != Empty && g[i][0] == g[i][1] && g[i][1] == g[i][2] {
			return true
		}
		if g[0][i] != Empty && g[0][i] == g[1][i] && g[1][i] == g[2][i] {
			return true
		}
	}
	if g[0][0] != Empty && g[0][0] == g[1][1] && g[1][1] == g[2][2] {
		return true
	}
	return g[0][2] != Empty && g[0][2] == g[1][1] && g[1][1] == g[2][0]
}

func TestWinner_AllBoards(t *testing.T) {
	marks := [3]Mark{Empty, X, O}
	total := 1
	for range Cells {
		total *= 3
	}

	for n := range total {
		var b Board
		v := n
		for i := range Cells {
			b[i] = marks[v%3]
			v /= 3
		}

		mark, line, ok := Winner(b)
		require.Equal(t, lineOwned(b), ok, "board %v", b)
		if ok {
			assert.NotEqual(t, Empty, mark)
			for _, c := range line {
				assert.Equal(t, mark, b[c], "board %v", b)
			}
		}
	}
}

func TestEvaluate(t *testing.T) {
	assert.Equal(t, Result{Status: InProgress}, Evaluate(Board{}))
	assert.Equal(t, Result{Status: Draw}, Evaluate(Board{X, O, X, X, O, O, O, X, X}))

	r := Evaluate(Board{O, O, O, X, X, Empty, X, Empty, Empty})
	require.Equal(t, Won, r.Status)
	assert.Equal(t, O, r.Winner)
	require.NotNil(t, r.Line)
	assert.Equal(t, Line{0, 1, 2}, *r.Line)
	assert.True(t, r.Highlighted(1))
	assert.False(t, r.Highlighted(4))
}

func TestBoardFull(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		want  bool
	}{
		{name: "Empty board is not full", board: Board{}, want: false},
		{name: "Partial board is not full", board: Board{X, Empty, Empty, Empty, O}, want: false},
		{name: "Full board is full", board: Board{X, O, X, X, O, O, O, X, X}, want: true},
		{name: "Full board with winner is full", board: Board{X, X, X, O, O, X, O, X, O}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.board.Full())
		})
	}
}

func TestGame_Move(t *testing.T) {
	t.Run("alternates marks starting with X", func(t *testing.T) {
		g := New()
		require.True(t, g.Move(4))
		require.True(t, g.Move(0))

		assert.Equal(t, X, g.Board[4])
		assert.Equal(t, O, g.Board[0])
		assert.Equal(t, X, g.Next)
		assert.True(t, g.Started)
	})

	t.Run("occupied cell is ignored", func(t *testing.T) {
		g := New()
		require.True(t, g.Move(4))
		before := *g

		assert.False(t, g.Move(4))
		assert.Equal(t, before, *g)
	})

	t.Run("out of range is ignored", func(t *testing.T) {
		g := New()
		assert.False(t, g.Move(-1))
		assert.False(t, g.Move(Cells))
		assert.Equal(t, *New(), *g)
	})

	t.Run("row win", func(t *testing.T) {
		g := New()
		for _, i := range []int{0, 3, 1, 4, 2} {
			require.True(t, g.Move(i))
		}

		r := g.Result()
		assert.Equal(t, Won, r.Status)
		assert.Equal(t, X, r.Winner)
		require.NotNil(t, r.Line)
		assert.Equal(t, Line{0, 1, 2}, *r.Line)
		assert.Equal(t, "Winner: X", g.Status())
	})

	t.Run("moves after a win are ignored", func(t *testing.T) {
		g := New()
		for _, i := range []int{0, 3, 1, 4, 2} {
			g.Move(i)
		}
		before := g.Board

		for i := range Cells {
			assert.False(t, g.Move(i))
		}
		assert.Equal(t, before, g.Board)
	})

	t.Run("nine moves without a winner is a draw", func(t *testing.T) {
		g := New()
		for _, i := range []int{0, 1, 2, 4, 3, 5, 7, 6, 8} {
			require.True(t, g.Move(i))
		}

		assert.Equal(t, Draw, g.Result().Status)
		assert.True(t, g.Over())
		assert.Equal(t, "It's a draw!", g.Status())
		assert.False(t, g.Move(0))
	})
}

func TestGame_Status(t *testing.T) {
	g := New()
	assert.Equal(t, "Current Player: X", g.Status())
	g.Move(0)
	assert.Equal(t, "Current Player: O", g.Status())
}

func TestGame_Restart(t *testing.T) {
	games := map[string]*Game{
		"fresh":       New(),
		"in progress": {Board: Board{X, O}, Next: X, Started: true},
		"won":         {Board: Board{X, X, X, O, O}, Next: O, Started: true},
		"draw":        {Board: Board{X, O, X, X, O, O, O, X, X}, Next: O, Started: true},
	}

	for name, g := range games {
		t.Run(name, func(t *testing.T) {
			g.Restart()
			assert.True(t, g.Board.Empty())
			assert.Equal(t, X, g.Next)
			assert.False(t, g.Started)
			assert.Equal(t, InProgress, g.Result().Status)
		})
	}
}

func TestGame_Clone(t *testing.T) {
	g := New()
	g.Move(0)
	c := g.Clone()
	c.Move(1)

	assert.Equal(t, Empty, g.Board[1])
	assert.Equal(t, O, c.Board[1])
}
