package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) *Config {
	t.Helper()
	cfg := &Config{}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	BindEnv(fs)
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := parse(t)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	assert.Error(t, cfg.Validate(), "a signing secret is required")
}

func TestFlags(t *testing.T) {
	cfg := parse(t,
		"--port", "9000",
		"--store", "redis",
		"--redis_addr", "redis:6380",
		"--session-secret", "0123456789abcdef",
		"--log-level", "debug",
	)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, "redis:6380", cfg.RedisAddr)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestEnvironment(t *testing.T) {
	t.Setenv("TTT_PORT", "7070")
	t.Setenv("TTT_SESSION_SECRET", "from-the-environment")
	t.Setenv("TTT_SESSION_TTL", "5m")

	cfg := parse(t, "--port", "7171")

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 7171, cfg.Port, "flags win over the environment")
	assert.Equal(t, "from-the-environment", cfg.SessionSecret)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Bind:            "127.0.0.1",
			Port:            8080,
			Store:           StoreMemory,
			RedisAddr:       "localhost:6379",
			SessionTTL:      time.Hour,
			SessionSecret:   "0123456789abcdef",
			JanitorInterval: time.Minute,
			LogLevel:        "info",
		}
	}
	require.NoError(t, valid().Validate())

	tests := map[string]func(c *Config){
		"port out of range": func(c *Config) { c.Port = 70000 },
		"unknown store":     func(c *Config) { c.Store = "sqlite" },
		"short secret":      func(c *Config) { c.SessionSecret = "short" },
		"tiny ttl":          func(c *Config) { c.SessionTTL = time.Millisecond },
		"bad log level":     func(c *Config) { c.LogLevel = "loud" },
		"bad otlp endpoint": func(c *Config) { c.OTLPEndpoint = "collector" },
		"redis without address": func(c *Config) {
			c.Store = StoreRedis
			c.RedisAddr = ""
		},
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
