package main // Entry point package

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/a2eg/a2eg-backend/internal/config"   // Internal config loader
	"github.com/a2eg/a2eg-backend/internal/database" // Optional database collaborator
	"github.com/a2eg/a2eg-backend/internal/logging"  // Process-wide JSON logger
	"github.com/a2eg/a2eg-backend/internal/metrics"
	"github.com/a2eg/a2eg-backend/internal/router" // Internal router setup
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// run owns every resource of the process so deferred cleanup always runs
// before main exits.
func run() error {
	cfg, err := config.Load() // Load environment config
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Logging is configured once, before anything else can log.
	logging.Init(cfg.LogLevel)
	logger := logging.Named(logging.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := database.Connect(ctx, cfg.Database, logger)
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Msg("database close failed")
		}
	}()

	redisClient, err := config.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, response cache disabled")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	e := router.New(cfg, router.Deps{
		DB:      db,
		Redis:   redisClient,
		Metrics: metrics.NewCollector(),
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Msgf("listening on %s (env=%s)", cfg.Addr(), cfg.Env)
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("HTTP server failed")
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info().Msg("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}
	logger.Info().Msg("shut down complete")
	return nil
}
