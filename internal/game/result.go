package game

// Status is the state of a game.
type Status string

const (
	InProgress Status = "in_progress"
	Won        Status = "won"
	Draw       Status = "draw"
)

// Line is a winning triple of cell indices.
type Line [3]int

// Lines are checked in this order: rows, columns, then diagonals.
var Lines = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Result is the outcome of a board. Winner and Line are only set when
// Status is Won.
type Result struct {
	Status Status `json:"status"`
	Winner Mark   `json:"winner,omitempty"`
	Line   *Line  `json:"line,omitempty"`
}

// Winner returns the mark on the first fully occupied line, if any.
func Winner(b Board) (Mark, Line, bool) {
	for _, l := range Lines {
		a := b[l[0]]
		if a != Empty && a == b[l[1]] && a == b[l[2]] {
			return a, l, true
		}
	}
	return Empty, Line{}, false
}

// Evaluate computes the result of a board.
func Evaluate(b Board) Result {
	if mark, line, ok := Winner(b); ok {
		return Result{Status: Won, Winner: mark, Line: &line}
	}
	if b.Full() {
		return Result{Status: Draw}
	}
	return Result{Status: InProgress}
}

// Highlighted reports whether cell i is part of the winning line.
func (r Result) Highlighted(i int) bool {
	if r.Line == nil {
		return false
	}
	for _, c := range r.Line {
		if c == i {
			return true
		}
	}
	return false
}
