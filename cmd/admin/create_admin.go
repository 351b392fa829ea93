package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"portfolio-backend/internal/domains/admin"
	adminRepo "portfolio-backend/internal/domains/admin/repository"
	adminService "portfolio-backend/internal/domains/admin/service"
)

func newCreateAdminCommand() *cobra.Command {
	var req admin.CreateAdminRequest

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a staff account that can sign in to /admin/",
		Long: `create-admin stores a new active staff account. The email address
receives the one-time login codes, so an account without one cannot sign in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := connectDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			// account creation needs neither challenges nor sessions
			svc := adminService.NewAuthService(adminRepo.NewPostgresRepository(db.Pool), nil, nil, nil, cfg.Admin.ChallengeTTL)

			user, err := svc.CreateAdmin(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %q (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "login name")
	cmd.Flags().StringVar(&req.Email, "email", "", "address that receives login codes")
	cmd.Flags().StringVar(&req.Password, "password", "", "initial password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
