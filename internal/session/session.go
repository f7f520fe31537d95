package session

import (
	"errors"
	"time"

	"ctchen222/hotseat-tictactoe/internal/game"
	"ctchen222/hotseat-tictactoe/internal/theme"

	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Session is the state of one page load: the game on screen and the
// selected theme.
type Session struct {
	ID        string      `json:"id"`
	Game      *game.Game  `json:"game"`
	Theme     theme.Theme `json:"theme"`
	CreatedAt time.Time   `json:"created_at"`
	LastSeen  time.Time   `json:"last_seen"`
}

// New creates a session with a fresh game and the default theme.
func New(now time.Time) *Session {
	return &Session{
		ID:        uuid.New().String(),
		Game:      game.New(),
		Theme:     theme.Default,
		CreatedAt: now,
		LastSeen:  now,
	}
}

// Clone returns a deep copy of s.
func (s *Session) Clone() *Session {
	c := *s
	if s.Game != nil {
		c.Game = s.Game.Clone()
	}
	return &c
}

// Idle reports whether the session has not been touched for ttl.
func (s *Session) Idle(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastSeen) > ttl
}
