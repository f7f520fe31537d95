package repository

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ctchen222/hotseat-tictactoe/internal/session"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MemorySessionRepository keeps sessions in process memory. Sessions idle
// for longer than the TTL are treated as gone and removed by the janitor.
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionRepository creates an in-memory SessionRepository.
func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*session.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create stores a copy of s.
func (r *MemorySessionRepository) Create(ctx context.Context, s *session.Session) error {
	_, span := tracer.Start(ctx, "MemorySessionRepository.Create", trace.WithAttributes(
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.ID] = s.Clone()
	return nil
}

// FindByID returns a copy of the stored session.
func (r *MemorySessionRepository) FindByID(ctx context.Context, id string) (*session.Session, error) {
	_, span := tracer.Start(ctx, "MemorySessionRepository.FindByID", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return s.Clone(), nil
}

// Update applies fn to a copy of the session and stores the copy only if
// fn succeeds.
func (r *MemorySessionRepository) Update(ctx context.Context, id string, fn UpdateFunc) (*session.Session, error) {
	_, span := tracer.Start(ctx, "MemorySessionRepository.Update", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.lookup(id)
	if err != nil {
		return nil, err
	}

	s := stored.Clone()
	if err := fn(s); err != nil {
		return nil, err
	}
	s.LastSeen = r.now()
	r.sessions[id] = s
	return s.Clone(), nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (r *MemorySessionRepository) Delete(ctx context.Context, id string) error {
	_, span := tracer.Start(ctx, "MemorySessionRepository.Delete", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (r *MemorySessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep removes idle sessions and returns how many were removed.
func (r *MemorySessionRepository) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, s := range r.sessions {
		if s.Idle(now, r.ttl) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps idle sessions every interval until ctx is cancelled.
func (r *MemorySessionRepository) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Session janitor started", "interval", interval, "ttl", r.ttl)
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Session janitor stopping")
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				slog.DebugContext(ctx, "Evicted idle sessions", "count", n)
			}
		}
	}
}

// lookup must be called with r.mu held.
func (r *MemorySessionRepository) lookup(id string) (*session.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	if s.Idle(r.now(), r.ttl) {
		delete(r.sessions, id)
		return nil, session.ErrNotFound
	}
	return s, nil
}
