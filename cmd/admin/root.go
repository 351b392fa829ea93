package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"portfolio-backend/internal/config"
	"portfolio-backend/internal/infrastructure/database"
	"portfolio-backend/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio-admin",
	Short: "Maintenance commands for the portfolio backend",
	Long: `portfolio-admin runs schema migrations, creates admin accounts and
seeds sample blog posts. Settings come from the environment (.env is loaded
when present), the same as the API server.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newCreateAdminCommand())
	rootCmd.AddCommand(newSeedBlogCommand())
}

func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	logger.Init(logger.Options{Env: cfg.App.Environment, Level: cfg.Log.Level})
	return cfg, nil
}

// connectDB opens the pgx pool; callers close it.
func connectDB(ctx context.Context, cfg *config.Config) (*database.PostgresDB, error) {
	dbConfig, err := config.LoadDatabaseConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
