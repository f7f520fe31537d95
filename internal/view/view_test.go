package view

import (
	"bytes"
	"io/fs"
	"testing"
	"time"

	"ctchen222/hotseat-tictactoe/internal/session"
	"ctchen222/hotseat-tictactoe/internal/theme"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, s *session.Session) string {
	t.Helper()
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, PageTemplate, NewPage(s, "0.1.0")))
	return buf.String()
}

func TestPage_FreshGame(t *testing.T) {
	s := session.New(time.Now())
	html := render(t, s)

	assert.Contains(t, html, `data-theme="light"`)
	assert.Contains(t, html, "Current Player: X")
	assert.Equal(t, 9, bytes.Count([]byte(html), []byte(`aria-label="Empty Cell"`)))
	assert.Contains(t, html, `class="ttt-board" id="ttt-board"`)
	assert.Contains(t, html, `aria-label="Switch to dark mode"`)
	assert.Contains(t, html, `aria-label="Restart Game"`)
	assert.NotContains(t, html, "gameover")
}

func TestPage_WonGame(t *testing.T) {
	s := session.New(time.Now())
	for _, i := range []int{0, 3, 1, 4, 2} {
		s.Game.Move(i)
	}
	s.Theme = theme.Dark

	page := NewPage(s, "0.1.0")
	assert.True(t, page.GameOver)
	assert.True(t, page.Started)
	assert.True(t, page.Rows[0][0].Highlight)
	assert.True(t, page.Rows[0][2].Highlight)
	assert.False(t, page.Rows[1][0].Highlight)
	assert.True(t, page.Rows[2][2].Disabled, "empty cells are inert after a win")

	html := render(t, s)
	assert.Contains(t, html, `data-theme="dark"`)
	assert.Contains(t, html, "Winner: X")
	assert.Contains(t, html, "ttt-status gameover")
	assert.Contains(t, html, "ttt-board started")
	assert.Equal(t, 3, bytes.Count([]byte(html), []byte("ttt-square highlight")))
	assert.Contains(t, html, `aria-label="Switch to light mode"`)
}

func TestCell_AriaLabel(t *testing.T) {
	assert.Equal(t, "Empty Cell", Cell{}.AriaLabel())
	assert.Equal(t, "Cell O", Cell{Mark: "O"}.AriaLabel())
}

func TestStatic(t *testing.T) {
	_, err := fs.Stat(Static(), "app.css")
	assert.NoError(t, err)
	_, err = fs.Stat(Static(), "app.js")
	assert.NoError(t, err)
}
