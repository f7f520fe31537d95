package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"ctchen222/hotseat-tictactoe/internal/validator"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the server.
const EnvPrefix = "TTT"

// Session store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds the server settings. Every field is bound to a flag and to
// an environment variable (TTT_<FLAG_NAME>).
type Config struct {
	Bind            string        `validate:"omitempty,ip|hostname"`
	Port            int           `validate:"min=1,max=65535"`
	Store           string        `validate:"oneof=memory redis"`
	RedisAddr       string        `validate:"omitempty,hostname_port"`
	SessionTTL      time.Duration `validate:"min=1s"`
	SessionSecret   string        `validate:"required,min=16"`
	JanitorInterval time.Duration `validate:"min=1s"`
	OTLPEndpoint    string        `validate:"omitempty,hostname_port"`
	StdoutTraces    bool
	LogLevel        string `validate:"oneof=debug info warn error"`
}

// RegisterFlags declares the flags of Config on fs.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&c.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: TTT_BIND)")
	fs.IntVarP(&c.Port, "port", "p", 8080, "port to listen on (env: TTT_PORT)")
	fs.StringVar(&c.Store, "store", StoreMemory, "session store backend, memory or redis (env: TTT_STORE)")
	fs.StringVar(&c.RedisAddr, "redis-addr", "localhost:6379", "redis address for the redis store (env: TTT_REDIS_ADDR)")
	fs.DurationVar(&c.SessionTTL, "session-ttl", 60*time.Minute, "time before idle game sessions are dropped (env: TTT_SESSION_TTL)")
	fs.StringVar(&c.SessionSecret, "session-secret", "", "key signing session cookies, at least 16 bytes (env: TTT_SESSION_SECRET)")
	fs.DurationVar(&c.JanitorInterval, "janitor-interval", time.Minute, "how often the memory store evicts idle sessions (env: TTT_JANITOR_INTERVAL)")
	fs.StringVar(&c.OTLPEndpoint, "otlp-endpoint", "", "OTLP gRPC collector, telemetry is off when empty (env: TTT_OTLP_ENDPOINT)")
	fs.BoolVar(&c.StdoutTraces, "stdout-traces", false, "also print spans to stdout (env: TTT_STDOUT_TRACES)")
	fs.StringVar(&c.LogLevel, "log-level", "info", "debug, info, warn or error (env: TTT_LOG_LEVEL)")
}

// BindEnv fills flags that were not set on the command line from the
// environment.
func BindEnv(fs *pflag.FlagSet) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if err := validator.GetValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Store == StoreRedis && c.RedisAddr == "" {
		return errors.New("invalid configuration: --redis-addr is required with --store redis")
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}

// Level converts LogLevel for slog.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
