package service

import (
	"context"
	"fmt"
	"time"

	"ctchen222/hotseat-tictactoe/internal/game"
	"ctchen222/hotseat-tictactoe/internal/repository"
	"ctchen222/hotseat-tictactoe/internal/session"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("service.game")
	meter  = otel.Meter("service.game")
)

// GameService defines the state transitions a page can request.
type GameService interface {
	Start(ctx context.Context) (*session.Session, error)
	State(ctx context.Context, sessionID string) (*session.Session, error)
	Move(ctx context.Context, sessionID string, index int) (*session.Session, bool, error)
	Restart(ctx context.Context, sessionID string) (*session.Session, error)
	ToggleTheme(ctx context.Context, sessionID string) (*session.Session, error)
}

type gameMetrics struct {
	moves        metric.Int64Counter
	ignoredMoves metric.Int64Counter
	finished     metric.Int64Counter
	restarts     metric.Int64Counter
	toggles      metric.Int64Counter
}

func newGameMetrics() (*gameMetrics, error) {
	var (
		m   gameMetrics
		err error
	)
	if m.moves, err = meter.Int64Counter("ttt.moves", metric.WithDescription("Marks placed on a board")); err != nil {
		return nil, err
	}
	if m.ignoredMoves, err = meter.Int64Counter("ttt.moves.ignored", metric.WithDescription("Clicks on occupied cells or finished games")); err != nil {
		return nil, err
	}
	if m.finished, err = meter.Int64Counter("ttt.games.finished", metric.WithDescription("Games that reached a win or a draw")); err != nil {
		return nil, err
	}
	if m.restarts, err = meter.Int64Counter("ttt.restarts", metric.WithDescription("Games restarted")); err != nil {
		return nil, err
	}
	if m.toggles, err = meter.Int64Counter("ttt.theme.toggles", metric.WithDescription("Theme switches")); err != nil {
		return nil, err
	}
	return &m, nil
}

type gameService struct {
	sessions repository.SessionRepository
	metrics  *gameMetrics
	now      func() time.Time
}

// NewGameService creates a new GameService.
func NewGameService(sessions repository.SessionRepository) (GameService, error) {
	m, err := newGameMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to create game metrics: %w", err)
	}
	return &gameService{sessions: sessions, metrics: m, now: time.Now}, nil
}

// Start creates a session holding an empty board.
func (s *gameService) Start(ctx context.Context) (*session.Session, error) {
	ctx, span := tracer.Start(ctx, "GameService.Start")
	defer span.End()

	sess := session.New(s.now())
	span.SetAttributes(attribute.String("session.id", sess.ID))

	if err := s.sessions.Create(ctx, sess); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create session")
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

// State returns the session as stored.
func (s *gameService) State(ctx context.Context, sessionID string) (*session.Session, error) {
	ctx, span := tracer.Start(ctx, "GameService.State", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load session")
		return nil, err
	}
	return sess, nil
}

// Move places the next mark on the given cell. A click that the game
// ignores is reported through the bool, not as an error.
func (s *gameService) Move(ctx context.Context, sessionID string, index int) (*session.Session, bool, error) {
	ctx, span := tracer.Start(ctx, "GameService.Move", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.Int("move.index", index),
	))
	defer span.End()

	var (
		placed bool
		mark   game.Mark
	)
	sess, err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		mark = sess.Game.Next
		placed = sess.Game.Move(index)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to apply move")
		return nil, false, err
	}

	span.SetAttributes(attribute.Bool("move.valid", placed))
	if !placed {
		s.metrics.ignoredMoves.Add(ctx, 1)
		return sess, false, nil
	}

	s.metrics.moves.Add(ctx, 1, metric.WithAttributes(attribute.String("mark", string(mark))))
	if result := sess.Game.Result(); result.Status != game.InProgress {
		span.SetAttributes(attribute.String("game.result", string(result.Status)))
		s.metrics.finished.Add(ctx, 1, metric.WithAttributes(
			attribute.String("result", string(result.Status)),
			attribute.String("winner", string(result.Winner)),
		))
	}
	return sess, true, nil
}

// Restart empties the board and hands the first move back to X.
func (s *gameService) Restart(ctx context.Context, sessionID string) (*session.Session, error) {
	ctx, span := tracer.Start(ctx, "GameService.Restart", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	sess, err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		sess.Game.Restart()
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to restart game")
		return nil, err
	}
	s.metrics.restarts.Add(ctx, 1)
	return sess, nil
}

// ToggleTheme switches between the light and dark palettes.
func (s *gameService) ToggleTheme(ctx context.Context, sessionID string) (*session.Session, error) {
	ctx, span := tracer.Start(ctx, "GameService.ToggleTheme", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	sess, err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		sess.Theme = sess.Theme.Toggle()
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to toggle theme")
		return nil, err
	}
	s.metrics.toggles.Add(ctx, 1, metric.WithAttributes(attribute.String("theme", string(sess.Theme))))
	return sess, nil
}
