package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/config"
	"portfolio-backend/pkg/container"
)

// Serve builds the container, starts the HTTP server and blocks until
// SIGINT or SIGTERM.
func Serve(cfg *config.Config) {
	// ========================================
	// 1. BUILD DI CONTAINER
	// ========================================
	appContainer, err := container.NewContainer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize container")
	}
	defer appContainer.Cleanup()

	warmCtx, warmCancel := context.WithTimeout(context.Background(), time.Minute)
	appContainer.WarmUp(warmCtx)
	warmCancel()

	// ========================================
	// 2. SETUP ROUTER
	// ========================================
	router, err := SetupRouter(appContainer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up router")
	}

	// ========================================
	// 3. CONFIGURE HTTP SERVER
	// ========================================
	port := cfg.App.Port
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%s", port),
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		// chatbot streams stay open for the whole model response
		WriteTimeout:   2 * time.Minute,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// ========================================
	// 4. START SERVER (NON-BLOCKING)
	// ========================================
	go func() {
		log.Info().
			Str("port", port).
			Str("env", cfg.App.Environment).
			Str("version", cfg.App.Version).
			Msg("server starting")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// ========================================
	// 5. GRACEFUL SHUTDOWN
	// ========================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
