// Package main provides the queue store server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/peltonpa/youtube-scheduler/internal/api/rest"
	"github.com/peltonpa/youtube-scheduler/internal/infra/config"
	"github.com/peltonpa/youtube-scheduler/internal/infra/logger"
	"github.com/peltonpa/youtube-scheduler/internal/infra/youtube"
	"github.com/peltonpa/youtube-scheduler/internal/store"
	"github.com/peltonpa/youtube-scheduler/internal/store/memory"
	"github.com/peltonpa/youtube-scheduler/internal/store/redis"
)

var (
	app        = kingpin.New("scheduler-server", "Shared YouTube queue server")
	configPath = app.Flag("config", "Path to config file").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	// Initialize logger
	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	if *configPath != "" {
		zlog.Info().Msgf("Loading config from %s", *configPath)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	// Run server (defer ensures cleanup is called)
	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	ctx := context.Background()

	st, err := newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	if closer, ok := st.(interface{ Close() error }); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				zlog.Error().Msgf("Failed to close store: %v", err)
			}
		}()
	}

	titles := youtube.New(youtube.Config{Timeout: cfg.Youtube.Timeout()})

	handler := rest.New(st, titles)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handler.Router(),
	}

	serverErrCh := make(chan error, 1)
	go func() {
		zlog.Info().Msgf("Starting server: addr=%s store=%s", cfg.Server.Addr, cfg.Store.Type)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	// Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")
	return nil
}

// newStore creates the configured queue store backend.
func newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Type {
	case "redis":
		settings, err := cfg.RedisSettings()
		if err != nil {
			return nil, err
		}
		return redis.New(ctx, redis.Config{
			Addr:     settings.Addr,
			Password: settings.Password,
			DB:       settings.DB,
		})
	default:
		return memory.New(), nil
	}
}
