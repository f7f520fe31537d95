package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"ctchen222/hotseat-tictactoe/internal/api/controller"
	"ctchen222/hotseat-tictactoe/internal/api/models"
	"ctchen222/hotseat-tictactoe/internal/session"
	"ctchen222/hotseat-tictactoe/internal/validator"
	"ctchen222/hotseat-tictactoe/pkg/proto"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// handleWebSocket upgrades the connection and serves the page's clicks
// until the browser goes away. Messages of one connection are handled in
// order.
func (s *Server) handleWebSocket(c *gin.Context) {
	sess := controller.CurrentSession(c)

	// A cookie set by the session middleware has to travel with the
	// upgrade response.
	header := http.Header{}
	for _, cookie := range c.Writer.Header().Values("Set-Cookie") {
		header.Add("Set-Cookie", cookie)
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, header)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "Failed to upgrade connection", "session.id", sess.ID, "error", err)
		return
	}
	defer conn.Close()

	ctx := context.WithoutCancel(c.Request.Context())
	slog.InfoContext(ctx, "websocket connected", "session.id", sess.ID)

	s.reply(ctx, conn, &proto.ServerToClientMessage{Type: proto.TypeState, State: statePtr(sess)})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "websocket connection error", "session.id", sess.ID, "error", err)
			}
			return
		}
		msg := s.HandleMessage(ctx, sess.ID, raw)
		s.reply(ctx, conn, msg)
		if msg.Type == proto.TypeError && msg.Reason == proto.ReasonSessionExpired {
			closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, proto.ReasonSessionExpired)
			if err := conn.WriteMessage(websocket.CloseMessage, closeMsg); err != nil {
				slog.WarnContext(ctx, "error closing websocket", "session.id", sess.ID, "error", err)
			}
			return
		}
	}
}

// HandleMessage decodes one client message, applies it to the session and
// returns the reply. It acts as a dispatcher.
func (s *Server) HandleMessage(ctx context.Context, sessionID string, raw []byte) *proto.ServerToClientMessage {
	ctx, span := tracer.Start(ctx, "server.HandleMessage", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(raw, &message); err != nil {
		slog.WarnContext(ctx, "error unmarshalling message", "session.id", sessionID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		return errorMessage("malformed message")
	}

	if err := validator.GetValidator().Struct(message); err != nil {
		slog.WarnContext(ctx, "invalid message from browser", "session.id", sessionID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		return errorMessage("invalid message")
	}
	span.SetAttributes(attribute.String("message.type", message.Type))

	var (
		sess *session.Session
		err  error
	)
	switch message.Type {
	case proto.TypeMove:
		if message.Index == nil {
			span.SetStatus(codes.Error, "Move without index")
			return errorMessage("move requires an index")
		}
		var placed bool
		sess, placed, err = s.gameService.Move(ctx, sessionID, *message.Index)
		if err == nil {
			return &proto.ServerToClientMessage{Type: proto.TypeState, Placed: &placed, State: statePtr(sess)}
		}
	case proto.TypeRestart:
		sess, err = s.gameService.Restart(ctx, sessionID)
	case proto.TypeTheme:
		sess, err = s.gameService.ToggleTheme(ctx, sessionID)
	case proto.TypeState:
		sess, err = s.gameService.State(ctx, sessionID)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to handle message", "session.id", sessionID, "message.type", message.Type, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to handle message")
		if errors.Is(err, session.ErrNotFound) {
			return errorMessage(proto.ReasonSessionExpired)
		}
		return errorMessage(err.Error())
	}
	return &proto.ServerToClientMessage{Type: proto.TypeState, State: statePtr(sess)}
}

func (s *Server) reply(ctx context.Context, conn *websocket.Conn, msg *proto.ServerToClientMessage) {
	if err := conn.WriteJSON(msg); err != nil {
		slog.WarnContext(ctx, "error writing message to browser", "error", err)
	}
}

func errorMessage(reason string) *proto.ServerToClientMessage {
	return &proto.ServerToClientMessage{Type: proto.TypeError, Reason: reason}
}

func statePtr(s *session.Session) *models.State {
	st := models.NewState(s)
	return &st
}
