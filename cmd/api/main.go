package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/config"
	"portfolio-backend/pkg/logger"
)

func main() {
	// ========================================
	// LOAD ENVIRONMENT VARIABLES
	// ========================================
	// .env is optional; production uses the process environment
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logger.Init(logger.Options{
		Env:        cfg.App.Environment,
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if envErr != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}

	// ========================================
	// SET GIN MODE
	// ========================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	Serve(cfg)
}
