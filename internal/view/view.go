package view

import (
	"embed"
	"html/template"
	"io/fs"

	"ctchen222/hotseat-tictactoe/internal/game"
	"ctchen222/hotseat-tictactoe/internal/session"
	"ctchen222/hotseat-tictactoe/internal/theme"
)

// PageTemplate is the name of the full page template.
const PageTemplate = "page.html"

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.html")
}

// Static returns the stylesheet and script served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Cell is one button of the grid.
type Cell struct {
	Index     int
	Mark      game.Mark
	Highlight bool
	Disabled  bool
}

// AriaLabel names the cell for screen readers.
func (c Cell) AriaLabel() string {
	if c.Mark == game.Empty {
		return "Empty Cell"
	}
	return "Cell " + string(c.Mark)
}

// Page is the data rendered by PageTemplate.
type Page struct {
	Title    string
	Version  string
	Theme    theme.Theme
	Rows     [3][3]Cell
	Started  bool
	GameOver bool
	Status   string
}

// NewPage builds the page for a session.
func NewPage(s *session.Session, version string) Page {
	result := s.Game.Result()
	over := result.Status != game.InProgress

	p := Page{
		Title:    "Tic Tac Toe",
		Version:  version,
		Theme:    s.Theme,
		Started:  s.Game.Started,
		GameOver: over,
		Status:   s.Game.Status(),
	}
	for i, m := range s.Game.Board {
		p.Rows[i/3][i%3] = Cell{
			Index:     i,
			Mark:      m,
			Highlight: result.Highlighted(i),
			Disabled:  over || m != game.Empty,
		}
	}
	return p
}
