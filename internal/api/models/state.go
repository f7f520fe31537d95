package models

import (
	"ctchen222/hotseat-tictactoe/internal/game"
	"ctchen222/hotseat-tictactoe/internal/session"
	"ctchen222/hotseat-tictactoe/internal/theme"
)

// State is the JSON view of a session sent to API and websocket clients.
type State struct {
	Board   game.Board  `json:"board"`
	Next    game.Mark   `json:"next"`
	Started bool        `json:"started"`
	Result  game.Result `json:"result"`
	Status  string      `json:"status"`
	Theme   theme.Theme `json:"theme"`
}

// NewState builds the view of s.
func NewState(s *session.Session) State {
	return State{
		Board:   s.Game.Board,
		Next:    s.Game.Next,
		Started: s.Game.Started,
		Result:  s.Game.Result(),
		Status:  s.Game.Status(),
		Theme:   s.Theme,
	}
}

// CellURI binds the cell index of a move route.
type CellURI struct {
	Index int `uri:"index" binding:"min=0,max=8"`
}
