package server

import (
	"fmt"
	"net/http"
	"time"

	"ctchen222/hotseat-tictactoe/internal/api/controller"
	"ctchen222/hotseat-tictactoe/internal/api/service"
	"ctchen222/hotseat-tictactoe/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("server")

// Options configures a Server.
type Options struct {
	Version    string
	SessionTTL time.Duration
}

// Server wires the HTTP routes of the game.
type Server struct {
	engine      *gin.Engine
	gameService service.GameService
	upgrader    websocket.Upgrader
}

// NewServer creates the gin engine and registers every route.
func NewServer(games service.GameService, tokens service.TokenService, opts Options) (*Server, error) {
	tmpl, err := view.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), Tracing(), RequestLogger())
	engine.SetHTMLTemplate(tmpl)

	s := &Server{
		engine:      engine,
		gameService: games,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	gc := controller.NewGameController(games, opts.Version)

	engine.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	engine.GET("/version", func(c *gin.Context) { c.String(http.StatusOK, "hotseat-tictactoe v%s\n", opts.Version) })
	engine.StaticFS("/static", http.FS(view.Static()))

	play := engine.Group("/", controller.SessionMiddleware(games, tokens, opts.SessionTTL))
	play.GET("/", gc.Page)
	play.POST("/cells/:index", gc.Move)
	play.POST("/restart", gc.Restart)
	play.POST("/theme", gc.ToggleTheme)
	play.GET("/ws", s.handleWebSocket)

	api := play.Group("/api")
	api.GET("/state", gc.State)
	api.POST("/cells/:index", gc.APIMove)
	api.POST("/restart", gc.APIRestart)
	api.POST("/theme", gc.APIToggleTheme)

	return s, nil
}

// Engine returns the HTTP handler.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
