package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"ctchen222/hotseat-tictactoe/internal/game"
	"ctchen222/hotseat-tictactoe/internal/session"
	"ctchen222/hotseat-tictactoe/internal/theme"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisSessionRepository(t *testing.T) {
	rdb := newRedisClient(t)
	ctx := context.Background()
	repo := NewRedisSessionRepository(rdb, time.Minute)

	s := session.New(time.Now())
	require.NoError(t, repo.Create(ctx, s))

	t.Run("round trip", func(t *testing.T) {
		got, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.ID, got.ID)
		assert.Equal(t, game.X, got.Game.Next)
		assert.False(t, got.Game.Started)
		assert.Equal(t, theme.Light, got.Theme)
		assert.True(t, got.Game.Board.Empty())
		assert.WithinDuration(t, s.CreatedAt, got.CreatedAt, time.Millisecond)
	})

	t.Run("key carries ttl", func(t *testing.T) {
		ttl, err := rdb.TTL(ctx, sessionKey(s.ID)).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})

	t.Run("update", func(t *testing.T) {
		updated, err := repo.Update(ctx, s.ID, func(s *session.Session) error {
			s.Game.Move(8)
			s.Theme = s.Theme.Toggle()
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, game.X, updated.Game.Board[8])

		got, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, game.X, got.Game.Board[8])
		assert.Equal(t, game.O, got.Game.Next)
		assert.True(t, got.Game.Started)
		assert.Equal(t, theme.Dark, got.Theme)
	})

	t.Run("concurrent clicks on one cell place one mark", func(t *testing.T) {
		fresh := session.New(time.Now())
		require.NoError(t, repo.Create(ctx, fresh))

		var wg sync.WaitGroup
		var mu sync.Mutex
		placed := 0
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				var ok bool
				_, err := repo.Update(ctx, fresh.ID, func(s *session.Session) error {
					ok = s.Game.Move(0)
					return nil
				})
				if err == nil && ok {
					mu.Lock()
					placed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, placed)
		got, err := repo.FindByID(ctx, fresh.ID)
		require.NoError(t, err)
		assert.Equal(t, game.X, got.Game.Board[0])
		assert.Equal(t, game.O, got.Game.Next)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, session.ErrNotFound)

		_, err = repo.Update(ctx, "missing", func(*session.Session) error { return nil })
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, s.ID))
		_, err := repo.FindByID(ctx, s.ID)
		assert.ErrorIs(t, err, session.ErrNotFound)
	})
}

func TestDecodeSession(t *testing.T) {
	s := session.New(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	s.Game.Move(4)

	fields, err := encodeSession(s)
	require.NoError(t, err)
	data := make(map[string]string, len(fields))
	for k, v := range fields {
		data[k] = v.(string)
	}

	got, err := decodeSession(s.ID, data)
	require.NoError(t, err)
	assert.Equal(t, game.X, got.Game.Board[4])
	assert.Equal(t, game.O, got.Game.Next)

	tests := []struct {
		name  string
		field string
		value string
	}{
		{"next turn empty", FieldNextTurn, ""},
		{"next turn garbage", FieldNextTurn, "Z"},
		{"theme", FieldTheme, "sepia"},
		{"started", FieldStarted, "maybe"},
		{"board", FieldBoard, "{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corrupt := make(map[string]string, len(data))
			for k, v := range data {
				corrupt[k] = v
			}
			corrupt[tt.field] = tt.value

			_, err := decodeSession(s.ID, corrupt)
			assert.Error(t, err)
		})
	}
}
