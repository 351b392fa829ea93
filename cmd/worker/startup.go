package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/config"
	"portfolio-backend/pkg/container"
)

type healthCheck struct {
	name string
	fn   func(ctx context.Context) error
}

// startServices runs startup checks and exposes the probe endpoints.
func startServices(c *container.Container, cfg *config.Config) error {
	checks := []healthCheck{
		{"redis", c.Redis.HealthCheck},
		{"database", c.DB.HealthCheck},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, check := range checks {
		if err := check.fn(ctx); err != nil {
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Str("check", check.name).Msg("[Startup] ok")
	}

	go startHealthCheckServer(cfg.Worker.HealthPort, checks)
	return nil
}

// startHealthCheckServer serves /health (liveness) and /ready (dependencies).
func startHealthCheckServer(port string, checks []healthCheck) {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "portfolio-worker"})
	})
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		for _, check := range checks {
			if err := check.fn(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "NOT_READY", "failed": check.name})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "READY"})
	})

	log.Info().Str("port", port).Msg("[Health] starting health check server")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Error().Err(err).Msg("[Health] failed to start")
	}
}
