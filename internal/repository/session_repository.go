package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"ctchen222/hotseat-tictactoe/internal/game"
	"ctchen222/hotseat-tictactoe/internal/session"
	"ctchen222/hotseat-tictactoe/internal/theme"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -destination=mock_session_repository.go -package=repository . SessionRepository

var tracer = otel.Tracer("repository.session")

// Hash fields of a session in Redis.
const (
	FieldBoard     = "board"
	FieldNextTurn  = "next_turn"
	FieldStarted   = "started"
	FieldTheme     = "theme"
	FieldCreatedAt = "created_at"
	FieldLastSeen  = "last_seen"
)

// maxTxRetries bounds optimistic transaction retries on a contended key.
const maxTxRetries = 10

// UpdateFunc mutates a session inside a repository transaction. Returning
// an error aborts the update.
type UpdateFunc func(s *session.Session) error

// SessionRepository defines the interface for session data operations.
type SessionRepository interface {
	Create(ctx context.Context, s *session.Session) error
	FindByID(ctx context.Context, id string) (*session.Session, error)
	Update(ctx context.Context, id string, fn UpdateFunc) (*session.Session, error)
	Delete(ctx context.Context, id string) error
}

type redisSessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

// NewRedisSessionRepository creates a Redis-based SessionRepository whose
// keys expire after ttl without activity.
func NewRedisSessionRepository(rdb *redis.Client, ttl time.Duration) SessionRepository {
	return &redisSessionRepository{rdb: rdb, ttl: ttl, now: time.Now}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// Create stores a new session.
func (r *redisSessionRepository) Create(ctx context.Context, s *session.Session) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Create", trace.WithAttributes(
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	fields, err := encodeSession(s)
	if err != nil {
		return err
	}

	key := sessionKey(s.ID)
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create session in redis: %w", err)
	}
	return nil
}

// FindByID retrieves a session from Redis.
func (r *redisSessionRepository) FindByID(ctx context.Context, id string) (*session.Session, error) {
	ctx, span := tracer.Start(ctx, "SessionRepository.FindByID", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	data, err := r.rdb.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}
	if len(data) == 0 {
		return nil, session.ErrNotFound
	}
	return decodeSession(id, data)
}

// Update applies fn to the stored session inside a WATCH transaction, so
// two concurrent clicks on the same page cannot both claim a cell.
func (r *redisSessionRepository) Update(ctx context.Context, id string, fn UpdateFunc) (*session.Session, error) {
	ctx, span := tracer.Start(ctx, "SessionRepository.Update", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	key := sessionKey(id)
	var updated *session.Session

	txf := func(tx *redis.Tx) error {
		data, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return session.ErrNotFound
		}

		s, err := decodeSession(id, data)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
		s.LastSeen = r.now()

		fields, err := encodeSession(s)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fields)
			pipe.Expire(ctx, key, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = s
		return nil
	}

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := r.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			span.AddEvent("transaction conflict", trace.WithAttributes(attribute.Int("attempt", attempt)))
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("failed to update session %s: too many conflicting writes", id)
}

// Delete removes a session.
func (r *redisSessionRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "SessionRepository.Delete", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	return r.rdb.Del(ctx, sessionKey(id)).Err()
}

func encodeSession(s *session.Session) (map[string]interface{}, error) {
	boardJSON, err := json.Marshal(s.Game.Board)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal board: %w", err)
	}
	return map[string]interface{}{
		FieldBoard:     string(boardJSON),
		FieldNextTurn:  string(s.Game.Next),
		FieldStarted:   strconv.FormatBool(s.Game.Started),
		FieldTheme:     string(s.Theme),
		FieldCreatedAt: s.CreatedAt.UTC().Format(time.RFC3339Nano),
		FieldLastSeen:  s.LastSeen.UTC().Format(time.RFC3339Nano),
	}, nil
}

func decodeSession(id string, data map[string]string) (*session.Session, error) {
	var board game.Board
	if err := json.Unmarshal([]byte(data[FieldBoard]), &board); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board: %w", err)
	}
	started, err := strconv.ParseBool(data[FieldStarted])
	if err != nil {
		return nil, fmt.Errorf("failed to parse started flag: %w", err)
	}
	next := game.Mark(data[FieldNextTurn])
	if next != game.X && next != game.O {
		return nil, fmt.Errorf("invalid next turn %q", data[FieldNextTurn])
	}
	th, err := theme.Parse(data[FieldTheme])
	if err != nil {
		return nil, err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, data[FieldCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	lastSeen, err := time.Parse(time.RFC3339Nano, data[FieldLastSeen])
	if err != nil {
		return nil, fmt.Errorf("failed to parse last_seen: %w", err)
	}

	return &session.Session{
		ID: id,
		Game: &game.Game{
			Board:   board,
			Next:    next,
			Started: started,
		},
		Theme:     th,
		CreatedAt: createdAt,
		LastSeen:  lastSeen,
	}, nil
}
