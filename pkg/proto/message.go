package proto

import "ctchen222/hotseat-tictactoe/internal/api/models"

// Client message types.
const (
	TypeMove    = "move"
	TypeRestart = "restart"
	TypeTheme   = "theme"
	TypeState   = "state"
)

// Server message types.
const (
	TypeError = "error"
)

// ReasonSessionExpired is sent before the server closes a socket whose
// session no longer exists.
const ReasonSessionExpired = "session expired"

// ClientToServerMessage represents a message from the browser to the server.
type ClientToServerMessage struct {
	Type  string `json:"type" validate:"required,oneof=move restart theme state"`
	Index *int   `json:"index,omitempty" validate:"omitnil,min=0,max=8"`
}

// ServerToClientMessage represents a message from the server to the browser.
type ServerToClientMessage struct {
	Type   string        `json:"type" validate:"required"`
	Reason string        `json:"reason,omitempty"`
	Placed *bool         `json:"placed,omitempty"`
	State  *models.State `json:"state,omitempty"`
}
