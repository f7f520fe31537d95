package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"ctchen222/hotseat-tictactoe/internal/api/models"
	"ctchen222/hotseat-tictactoe/internal/api/response"
	"ctchen222/hotseat-tictactoe/internal/api/service"
	"ctchen222/hotseat-tictactoe/internal/session"
	"ctchen222/hotseat-tictactoe/internal/view"

	"github.com/gin-gonic/gin"
)

// GameController handles the page and JSON routes of a game.
type GameController struct {
	gameService service.GameService
	version     string
}

// NewGameController creates a new GameController.
func NewGameController(gameService service.GameService, version string) *GameController {
	return &GameController{
		gameService: gameService,
		version:     version,
	}
}

// Page renders the board of the current session.
func (gc *GameController) Page(c *gin.Context) {
	c.HTML(http.StatusOK, view.PageTemplate, view.NewPage(CurrentSession(c), gc.version))
}

// Move handles a click on a cell and redirects back to the page.
func (gc *GameController) Move(c *gin.Context) {
	var uri models.CellURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.String(http.StatusBadRequest, "invalid cell")
		return
	}

	if _, _, err := gc.gameService.Move(c.Request.Context(), CurrentSession(c).ID, uri.Index); err != nil {
		gc.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Restart handles the restart control and redirects back to the page.
func (gc *GameController) Restart(c *gin.Context) {
	if _, err := gc.gameService.Restart(c.Request.Context(), CurrentSession(c).ID); err != nil {
		gc.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// ToggleTheme handles the theme control and redirects back to the page.
func (gc *GameController) ToggleTheme(c *gin.Context) {
	if _, err := gc.gameService.ToggleTheme(c.Request.Context(), CurrentSession(c).ID); err != nil {
		gc.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// State returns the session state as JSON.
func (gc *GameController) State(c *gin.Context) {
	response.SuccessResponse(c, models.NewState(CurrentSession(c)))
}

// APIMove applies a move and returns the new state.
func (gc *GameController) APIMove(c *gin.Context) {
	var uri models.CellURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	sess, placed, err := gc.gameService.Move(c.Request.Context(), CurrentSession(c).ID, uri.Index)
	if err != nil {
		gc.apiFail(c, err)
		return
	}
	response.SuccessResponse(c, gin.H{
		"placed": placed,
		"state":  models.NewState(sess),
	})
}

// APIRestart restarts the game and returns the new state.
func (gc *GameController) APIRestart(c *gin.Context) {
	sess, err := gc.gameService.Restart(c.Request.Context(), CurrentSession(c).ID)
	if err != nil {
		gc.apiFail(c, err)
		return
	}
	response.SuccessResponse(c, models.NewState(sess))
}

// APIToggleTheme switches the theme and returns the new state.
func (gc *GameController) APIToggleTheme(c *gin.Context) {
	sess, err := gc.gameService.ToggleTheme(c.Request.Context(), CurrentSession(c).ID)
	if err != nil {
		gc.apiFail(c, err)
		return
	}
	response.SuccessResponse(c, models.NewState(sess))
}

func (gc *GameController) fail(c *gin.Context, err error) {
	if status := statusFor(err); status != http.StatusInternalServerError {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	slog.ErrorContext(c.Request.Context(), "game request failed", "path", c.FullPath(), "error", err)
	c.String(http.StatusInternalServerError, "An error has occurred. Please try again.")
}

func (gc *GameController) apiFail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "game request failed", "path", c.FullPath(), "error", err)
	}
	response.ErrorResponse(c, status, err.Error())
}

// statusFor maps a service error to an HTTP status. A session that expired
// between the middleware and the handler is gone, not broken.
func statusFor(err error) int {
	if errors.Is(err, session.ErrNotFound) {
		return http.StatusGone
	}
	return http.StatusInternalServerError
}
