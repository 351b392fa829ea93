package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/config"
	"portfolio-backend/pkg/container"
	"portfolio-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("[Config] invalid configuration")
	}
	logger.Init(logger.Options{
		Env:        cfg.App.Environment,
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})

	// Initialize container
	c, err := container.NewContainer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("[Container] failed to initialize")
	}
	defer c.Cleanup()

	// Initialize handlers
	handlers := initializeHandlers(c)

	// Setup Asynq server
	srv := setupAsynqServer(cfg, handlers)

	// Setup scheduler
	scheduler := setupScheduler(cfg)

	// Health checks and probe endpoint
	if err := startServices(c, cfg); err != nil {
		log.Fatal().Err(err).Msg("[Startup] health check failed")
	}

	// Wait for shutdown signal
	waitForShutdown(srv, scheduler)
}

func waitForShutdown(srv *asynqServer, scheduler *asynqScheduler) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("[Shutdown] gracefully stopping")
	scheduler.Shutdown()
	srv.Shutdown()
	log.Info().Msg("[Shutdown] stopped")
}
