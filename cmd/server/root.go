package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ctchen222/hotseat-tictactoe/internal/api/service"
	"ctchen222/hotseat-tictactoe/internal/config"
	"ctchen222/hotseat-tictactoe/internal/db"
	"ctchen222/hotseat-tictactoe/internal/logger"
	"ctchen222/hotseat-tictactoe/internal/repository"
	"ctchen222/hotseat-tictactoe/internal/server"
	"ctchen222/hotseat-tictactoe/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newCmd() *cobra.Command {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:     "tictactoe",
		Short:   "Serves a two-player tic-tac-toe board for one shared screen.",
		Args:    cobra.NoArgs,
		Version: releaseVersion,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			config.BindEnv(cmd.Flags())
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	cfg.RegisterFlags(cmd.Flags())

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("hotseat-tictactoe v{{.Version}}\n")
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, telemetry.Options{
		Endpoint:       cfg.OTLPEndpoint,
		StdoutTraces:   cfg.StdoutTraces,
		ServiceVersion: releaseVersion,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()

	logger.Init(os.Stdout, cfg.Level())
	gin.SetMode(gin.ReleaseMode)

	sessions, closeStore, err := newSessionRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// Create services
	games, err := service.NewGameService(sessions)
	if err != nil {
		return err
	}
	tokens := service.NewTokenService([]byte(cfg.SessionSecret), cfg.SessionTTL)

	srv, err := server.NewServer(games, tokens, server.Options{
		Version:    releaseVersion,
		SessionTTL: cfg.SessionTTL,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       10 * time.Minute,
	}

	errs := make(chan error, 1)
	go func() {
		slog.Info("http server started", "addr", httpServer.Addr, "store", cfg.Store, "version", releaseVersion)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server exiting")
	return nil
}

func newSessionRepository(ctx context.Context, cfg *config.Config) (repository.SessionRepository, func(), error) {
	switch cfg.Store {
	case config.StoreRedis:
		rdb, err := db.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		closeFn := func() {
			if err := rdb.Close(); err != nil {
				slog.Error("Error closing redis client", "error", err)
			}
		}
		return repository.NewRedisSessionRepository(rdb, cfg.SessionTTL), closeFn, nil

	default:
		repo := repository.NewMemorySessionRepository(cfg.SessionTTL)
		go repo.RunJanitor(ctx, cfg.JanitorInterval)
		return repo, func() {}, nil
	}
}
