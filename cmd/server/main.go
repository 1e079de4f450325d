// Package main is the entry point for the finsight analytics service.
// It serves the advisor API over the stored ledger, holdings and profiles, and
// snapshots every profiled user's report on a cron schedule.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/finsight/internal/config"
	"github.com/aristath/finsight/internal/di"
	"github.com/aristath/finsight/internal/domain"
	"github.com/aristath/finsight/internal/server"
	"github.com/aristath/finsight/pkg/logger"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Str("data_dir", cfg.DataDir).Msg("Starting finsight")

	container, _, err := di.Wire(cfg, domain.SystemClock{}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer container.Close()

	srv := server.New(server.Config{
		Log:      log,
		DB:       container.DB,
		Port:     cfg.Port,
		DevMode:  cfg.DevMode,
		Version:  getEnv("VERSION", "dev"),
		EventBus: container.EventBus,
		Handlers: []server.RouteRegistrar{container.AdvisorHandler, container.LedgerHandler},

		OriginPatterns: cfg.WSOriginPatterns,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	if container.Scheduler != nil {
		container.Scheduler.Start()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Let a running snapshot finish before the database closes
	if container.Scheduler != nil {
		container.Scheduler.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
