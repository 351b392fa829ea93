package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"portfolio-backend/internal/infrastructure/database"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(
		migrateDirection("up", "Apply all pending migrations"),
		migrateDirection("down", "Roll back every migration"),
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSQL(func(db *sql.DB) error {
					version, dirty, err := database.MigrationVersion(db)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty=%t)\n", version, dirty)
					return nil
				})
			},
		},
	)
	return cmd
}

func migrateDirection(direction, short string) *cobra.Command {
	return &cobra.Command{
		Use:   direction,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSQL(func(db *sql.DB) error {
				if err := database.RunMigrations(db, direction); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "migrations %s: done\n", direction)
				return nil
			})
		},
	}
}

func withSQL(fn func(db *sql.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.OpenSQL(cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(db)
}
